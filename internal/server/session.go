package server

import (
	"fmt"
	"log/slog"

	"github.com/jackzampolin/scantext/internal/config"
	"github.com/jackzampolin/scantext/internal/export"
	"github.com/jackzampolin/scantext/internal/extract"
	"github.com/jackzampolin/scantext/internal/view"
)

// Session is one upload/extract/edit/export session and the OCR client
// behind it.
type Session struct {
	Extractor  *extract.Client
	Exporter   *export.Engine
	Controller *view.Controller
}

// NewSession builds a session from configuration. A nil clipboard uses the
// system clipboard.
func NewSession(c *config.Config, clipboard export.Clipboard, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	extractor, err := extract.NewClient(extract.Config{
		BaseURL:    c.OCR.BaseURL,
		UploadPath: c.OCR.UploadPath,
		FieldName:  c.OCR.FieldName,
		Timeout:    c.OCR.Timeout(),
		Logger:     logger.With("component", "extract"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create extract client: %w", err)
	}

	exporter, err := export.NewEngine(export.Config{
		PDF: export.Layout{
			PageSize:   c.Export.PDF.PageSize,
			FontSize:   c.Export.PDF.FontSize,
			Margin:     c.Export.PDF.Margin,
			LineHeight: c.Export.PDF.LineHeight,
		},
		Clipboard: clipboard,
		Logger:    logger.With("component", "export"),
	})
	if err != nil {
		return nil, fmt.Errorf("invalid export settings: %w", err)
	}

	controller, err := view.New(view.Deps{
		Extractor: extractor,
		Exporter:  exporter,
		Logger:    logger.With("component", "view"),
	}, view.Options{
		Enhanced:       c.UI.Enhanced,
		CopiedFeedback: c.UI.CopiedFeedback(),
		ArrivalCue:     c.UI.ArrivalCue(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Session{Extractor: extractor, Exporter: exporter, Controller: controller}, nil
}
