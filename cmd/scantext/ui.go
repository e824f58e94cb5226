package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen)
	noticeColor  = color.New(color.FgYellow)
)

func printError(err error) {
	errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
}

func printSuccess(format string, args ...any) {
	successColor.Fprintf(os.Stderr, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printNotice(format string, args ...any) {
	noticeColor.Fprintf(os.Stderr, "%s\n", fmt.Sprintf(format, args...))
}

// newSpinner returns a stderr spinner. It does not animate when stderr is
// not a terminal.
func newSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return s
}
