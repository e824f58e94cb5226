// Package export turns the session text into downloadable artifacts and
// clipboard content.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackzampolin/scantext/internal/errs"
)

// Default artifact filenames.
const (
	WordFilename        = "extracted_text.doc"
	PDFFilename         = "extracted_text.pdf"
	SpreadsheetFilename = "extracted_text.xlsx"
)

// MIME types of the produced artifacts.
const (
	WordMIME        = "application/msword"
	PDFMIME         = "application/pdf"
	SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Format names an export target.
type Format string

const (
	FormatWord        Format = "word"
	FormatPDF         Format = "pdf"
	FormatSpreadsheet Format = "xlsx"
)

// Formats lists every supported export format.
var Formats = []Format{FormatWord, FormatPDF, FormatSpreadsheet}

// ParseFormat resolves a format name. "doc" and "docx" are accepted for Word.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "word", "doc", "docx":
		return FormatWord, nil
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatSpreadsheet, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want word, pdf or xlsx)", s)
	}
}

// Artifact is a produced file.
type Artifact struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Exporter is the set of exports the view controller drives.
type Exporter interface {
	Export(format Format, text string) (Artifact, error)
	Copy(text string) error
}

// Config configures an Engine.
type Config struct {
	PDF       Layout
	Clipboard Clipboard
	Logger    *slog.Logger
}

// Engine produces artifacts. Every export is a pure function of its text.
type Engine struct {
	layout    Layout
	clipboard Clipboard
	logger    *slog.Logger
}

// NewEngine creates an Engine. Zero layout fields take their defaults.
func NewEngine(cfg Config) (*Engine, error) {
	layout := cfg.PDF.withDefaults()
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = SystemClipboard{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{layout: layout, clipboard: cfg.Clipboard, logger: cfg.Logger}, nil
}

// Layout returns the PDF layout in use.
func (e *Engine) Layout() Layout {
	return e.layout
}

// Export dispatches to the producer for format.
func (e *Engine) Export(format Format, text string) (Artifact, error) {
	switch format {
	case FormatWord:
		return e.Word(text)
	case FormatPDF:
		return e.PDF(text)
	case FormatSpreadsheet:
		return e.Spreadsheet(text)
	default:
		return Artifact{}, fmt.Errorf("unknown export format %q", format)
	}
}

// Copy places text on the clipboard.
func (e *Engine) Copy(text string) error {
	if err := requireText(text); err != nil {
		return err
	}
	if err := e.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	e.logger.Debug("copied text to clipboard", "chars", len(text))
	return nil
}

// Save writes a under its filename in dir and returns the written path.
func Save(dir string, a Artifact) (string, error) {
	if a.Filename == "" {
		return "", fmt.Errorf("artifact has no filename")
	}
	if a.Filename == "." || a.Filename == ".." || strings.ContainsAny(a.Filename, `/\`) {
		return "", fmt.Errorf("invalid artifact filename %q", a.Filename)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", a.Filename, err)
	}
	return path, nil
}

func requireText(text string) error {
	if text == "" {
		return errs.New(errs.EmptyExportTarget, "", nil)
	}
	return nil
}
