// Package errs defines the failure kinds surfaced to the user and the
// messages shown for each of them.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a user-visible failure.
type Kind string

const (
	// NoFileSelected means an extraction was requested with nothing selected.
	NoFileSelected Kind = "no_file_selected"
	// TransportFailure covers network errors, non-success status codes and
	// unparseable responses from the OCR endpoint.
	TransportFailure Kind = "transport_failure"
	// LogicalExtractionFailure means the OCR endpoint answered with an error field.
	LogicalExtractionFailure Kind = "logical_extraction_failure"
	// EmptyExportTarget means an export or copy was attempted with no text.
	EmptyExportTarget Kind = "empty_export_target"
)

// Default user-facing messages.
const (
	MsgNoFileSelected   = "Please select a file to upload."
	MsgTransportFailure = "Error uploading file. Please try again."
	MsgNoTextExtracted  = "No text could be extracted from the image."
	MsgNothingToExport  = "There is no text to export."
)

// Error is a classified failure. Message is safe to show to the user;
// Err holds the underlying cause, if any, for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error. An empty message is replaced by the default for kind.
func New(kind Kind, message string, cause error) *Error {
	if message == "" {
		message = DefaultMessage(kind)
	}
	return &Error{Kind: kind, Message: message, Err: cause}
}

// DefaultMessage returns the standard user-facing message for kind.
func DefaultMessage(kind Kind) string {
	switch kind {
	case NoFileSelected:
		return MsgNoFileSelected
	case TransportFailure:
		return MsgTransportFailure
	case LogicalExtractionFailure:
		return MsgNoTextExtracted
	case EmptyExportTarget:
		return MsgNothingToExport
	default:
		return "Something went wrong."
	}
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// UserMessage returns the message to display for err. Unclassified errors
// get a generic message so internal causes never reach the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong."
}
