package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/export"
	"github.com/jackzampolin/scantext/internal/selection"
	"github.com/jackzampolin/scantext/internal/server"
)

var (
	runFormats []string
	runOutDir  string
	runCopy    bool
)

// RunResult is the outcome of a one-shot extraction.
type RunResult struct {
	File    string   `json:"file" yaml:"file"`
	Content string   `json:"text" yaml:"text"`
	Exports []string `json:"exports,omitempty" yaml:"exports,omitempty"`
	Copied  bool     `json:"copied" yaml:"copied"`
}

// Text prints just the extracted text so it can be piped.
func (r RunResult) Text() string {
	return r.Content
}

var runCmd = &cobra.Command{
	Use:   "run <image>",
	Short: "Extract text from one image without a server",
	Long: `Upload one image to the OCR server, print the extracted text and
optionally export or copy it.

Examples:
  scantext run scan.png                          # Print the text
  scantext run scan.png --format pdf,word        # Also write documents
  scantext run scan.png --format xlsx --out ./x  # Choose the output directory
  scantext run scan.png --copy -o json           # Copy and print JSON`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		formats := make([]export.Format, 0, len(runFormats))
		for _, raw := range runFormats {
			f, err := export.ParseFormat(raw)
			if err != nil {
				return err
			}
			formats = append(formats, f)
		}

		f, err := selection.Open(args[0])
		if err != nil {
			return err
		}
		if !selection.IsImage(f) {
			printNotice("%s does not look like an image (%s); sending it anyway", f.Name, f.MIMEType)
		}

		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := loadConfig(h, logger)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		sess, err := server.NewSession(cfg, nil, logger)
		if err != nil {
			return err
		}
		ctrl := sess.Controller
		defer ctrl.Close()

		<-ctrl.SelectFile(ctx, f)

		sp := newSpinner(fmt.Sprintf("Extracting text from %s via %s", f.Name, sess.Extractor.Endpoint()))
		sp.Start()
		<-ctrl.Extract(ctx)
		sp.Stop()

		v := ctrl.Snapshot()
		if v.UI.Error != "" {
			return errors.New(v.UI.Error)
		}

		result := RunResult{File: f.Name, Content: v.ActiveText}
		if len(formats) > 0 || runCopy {
			if result.Content == "" {
				return errors.New("no text to export")
			}
		}

		outDir := runOutDir
		if outDir == "" {
			outDir = h.ResolveExportsDir(cfg.Export.OutputDir)
		}
		for _, format := range formats {
			a, err := ctrl.Export(format)
			if err != nil {
				return err
			}
			path, err := export.Save(outDir, a)
			if err != nil {
				return err
			}
			result.Exports = append(result.Exports, path)
			printSuccess("Saved %s", path)
		}

		if runCopy {
			if err := ctrl.Copy(); err != nil {
				return err
			}
			result.Copied = true
			printSuccess("Copied %d characters to the clipboard", len([]rune(result.Content)))
		}

		return api.Output(result)
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runFormats, "format", nil, "export formats: "+strings.Join(formatNames(), ", "))
	runCmd.Flags().StringVar(&runOutDir, "out", "", "directory for exported files (default: export.output_dir or ~/.scantext/exports)")
	runCmd.Flags().BoolVar(&runCopy, "copy", false, "copy the text to the clipboard")
	addOCRFlag(runCmd)

	rootCmd.AddCommand(runCmd)
}

func formatNames() []string {
	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}
	return names
}
