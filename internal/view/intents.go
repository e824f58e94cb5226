package view

import (
	"context"
	"fmt"

	"github.com/jackzampolin/scantext/internal/errs"
	"github.com/jackzampolin/scantext/internal/export"
	"github.com/jackzampolin/scantext/internal/extract"
	"github.com/jackzampolin/scantext/internal/selection"
)

// SelectFile replaces the selection and starts reading its preview. The
// returned channel closes when the preview has been applied or dropped.
// A nil file clears the selection.
func (c *Controller) SelectFile(ctx context.Context, f *selection.File) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ui.Error = ""
	if f == nil {
		c.sel = selection.Selection{}
		return closedChan()
	}
	c.sel = selection.New(f)
	if c.closed {
		return closedChan()
	}

	id := c.sel.ID
	done := make(chan struct{})
	rctx, cancel := c.detach(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		defer cancel()

		uri, err := selection.ReadPreview(rctx, f)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.sel.ID != id {
			c.logger.Debug("dropping preview for replaced selection", "selection", id)
			return
		}
		if err != nil {
			c.logger.Warn("failed to read preview", "file", f.Name, "error", err)
			c.ui.Error = MsgPreviewFailed
			return
		}
		c.sel = c.sel.WithPreview(id, uri)
	}()

	c.logger.Info("file selected", "file", f.Name, "mime", f.MIMEType, "bytes", len(f.Data), "selection", id)
	return done
}

// Extract sends the selected file to the OCR endpoint. It does nothing
// while a request is in flight or while editing. The returned channel
// closes when the result has been applied or discarded.
//
// The request is not tied to ctx's cancellation: once started it runs to
// completion or until the controller is closed.
func (c *Controller) Extract(ctx context.Context) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.controls().Extract || c.closed {
		return closedChan()
	}
	if e := extract.CheckSelection(c.sel); e != nil {
		c.ui.Error = e.Message
		return closedChan()
	}

	captured := c.sel
	c.ui.Loading = true
	c.ui.Error = ""

	done := make(chan struct{})
	rctx, cancel := c.detach(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		defer cancel()

		res := c.deps.Extractor.Extract(rctx, captured)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.ui.Loading = false
		if c.sel.ID != captured.ID {
			c.logger.Info("discarding extraction result for replaced selection", "selection", captured.ID)
			return
		}
		c.applyResult(res)
	}()

	return done
}

// applyResult must be called with c.mu held.
func (c *Controller) applyResult(res extract.Result) {
	if res.OK() {
		next, err := c.text.ApplyExtraction(res.Text)
		if err != nil {
			c.logger.Warn("extraction result rejected", "error", err)
			return
		}
		c.text = next
		c.raise(&c.ui.JustArrived, &c.arrivalTimer, c.opts.ArrivalCue)
		return
	}

	c.ui.Error = res.Err.Message
	if res.Err.Kind == errs.LogicalExtractionFailure {
		next, err := c.text.ClearText()
		if err != nil {
			c.logger.Warn("could not clear text", "error", err)
			return
		}
		c.text = next
	}
}

// BeginEdit enters editing mode.
func (c *Controller) BeginEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.controls().BeginEdit {
		return disabled("begin edit")
	}
	next, err := c.text.BeginEdit()
	if err != nil {
		return err
	}
	c.text = next
	return nil
}

// Edit replaces the draft text.
func (c *Controller) Edit(draft string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.controls().Edit {
		return disabled("edit")
	}
	next, err := c.text.Edit(draft)
	if err != nil {
		return err
	}
	c.text = next
	return nil
}

// Save commits the draft.
func (c *Controller) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.controls().Save {
		return disabled("save")
	}
	next, err := c.text.Save()
	if err != nil {
		return err
	}
	c.text = next
	return nil
}

// Cancel discards the draft.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.controls().Cancel {
		return disabled("cancel")
	}
	next, err := c.text.Cancel()
	if err != nil {
		return err
	}
	c.text = next
	return nil
}

// Export produces an artifact of the active text.
func (c *Controller) Export(format export.Format) (export.Artifact, error) {
	c.mu.Lock()
	if !c.controls().Export {
		c.mu.Unlock()
		return export.Artifact{}, disabled("export")
	}
	text := c.text.Active()
	c.mu.Unlock()

	a, err := c.deps.Exporter.Export(format, text)
	if err != nil {
		c.mu.Lock()
		c.ui.Error = userMessage(err, MsgExportFailed)
		c.mu.Unlock()
		c.logger.Warn("export failed", "format", format, "error", err)
		return export.Artifact{}, fmt.Errorf("export %s: %w", format, err)
	}
	c.logger.Info("exported text", "format", format, "file", a.Filename, "bytes", len(a.Data))
	return a, nil
}

// Copy places the active text on the clipboard and raises the copied flag.
func (c *Controller) Copy() error {
	c.mu.Lock()
	if !c.controls().Copy {
		c.mu.Unlock()
		return disabled("copy")
	}
	text := c.text.Active()
	c.mu.Unlock()

	err := c.deps.Exporter.Copy(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.ui.Error = userMessage(err, MsgCopyFailed)
		c.logger.Warn("copy failed", "error", err)
		return fmt.Errorf("copy: %w", err)
	}
	c.raise(&c.ui.Copied, &c.copiedTimer, c.opts.CopiedFeedback)
	return nil
}

// ToggleFullscreen flips the fullscreen flag.
func (c *Controller) ToggleFullscreen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.controls().Fullscreen {
		return disabled("fullscreen")
	}
	c.ui.Fullscreen = !c.ui.Fullscreen
	return nil
}
