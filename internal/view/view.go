// Package view composes selection, extraction, the text session and the
// export engine into a single controller driven by user intents.
//
// Every intent is serialized by one mutex. The two slow operations, the
// preview read and the extraction request, run on their own goroutines and
// apply their results back under the mutex only if the selection they
// started with is still current.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackzampolin/scantext/internal/errs"
	"github.com/jackzampolin/scantext/internal/export"
	"github.com/jackzampolin/scantext/internal/extract"
	"github.com/jackzampolin/scantext/internal/selection"
	"github.com/jackzampolin/scantext/internal/session"
)

// ErrDisabled is returned by intents whose control is currently disabled.
var ErrDisabled = errors.New("control disabled")

// Messages shown for failures outside the extraction client.
const (
	MsgPreviewFailed = "Could not read the selected file."
	MsgExportFailed  = "Could not create the export file."
	MsgCopyFailed    = "Could not copy the text to the clipboard."
)

const (
	DefaultCopiedFeedback = 2 * time.Second
	DefaultArrivalCue     = 1500 * time.Millisecond
)

// Deps are the collaborators a Controller drives.
type Deps struct {
	Extractor extract.Extractor
	Exporter  export.Exporter
	Logger    *slog.Logger
}

// Options select the controller variant and its feedback timings.
// Enhanced enables editing and fullscreen.
type Options struct {
	Enhanced       bool
	CopiedFeedback time.Duration
	ArrivalCue     time.Duration
}

// UIState is transient presentation state.
type UIState struct {
	Loading     bool   `json:"loading" yaml:"loading"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	Copied      bool   `json:"copied" yaml:"copied"`
	JustArrived bool   `json:"just_arrived" yaml:"just_arrived"`
	Fullscreen  bool   `json:"fullscreen" yaml:"fullscreen"`
}

// Controls reports which intents are currently enabled.
type Controls struct {
	Extract    bool `json:"extract" yaml:"extract"`
	BeginEdit  bool `json:"begin_edit" yaml:"begin_edit"`
	Edit       bool `json:"edit" yaml:"edit"`
	Save       bool `json:"save" yaml:"save"`
	Cancel     bool `json:"cancel" yaml:"cancel"`
	Export     bool `json:"export" yaml:"export"`
	Copy       bool `json:"copy" yaml:"copy"`
	Fullscreen bool `json:"fullscreen" yaml:"fullscreen"`
}

// SelectionInfo summarizes the selected file.
type SelectionInfo struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	MIMEType   string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Size       int    `json:"size" yaml:"size"`
	HasFile    bool   `json:"has_file" yaml:"has_file"`
	HasPreview bool   `json:"has_preview" yaml:"has_preview"`
}

// View is a consistent snapshot of everything a presentation layer renders.
type View struct {
	Enhanced   bool          `json:"enhanced" yaml:"enhanced"`
	Selection  SelectionInfo `json:"selection" yaml:"selection"`
	Mode       session.Mode  `json:"mode" yaml:"mode"`
	Committed  string        `json:"committed" yaml:"committed"`
	Draft      string        `json:"draft" yaml:"draft"`
	ActiveText string        `json:"active_text" yaml:"active_text"`
	UI         UIState       `json:"ui" yaml:"ui"`
	Controls   Controls      `json:"controls" yaml:"controls"`
}

// Controller owns the selection, the text session and the UI state.
type Controller struct {
	deps   Deps
	opts   Options
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	sel          selection.Selection
	text         session.State
	ui           UIState
	copiedTimer  *time.Timer
	arrivalTimer *time.Timer
	closed       bool
}

// New creates a Controller.
func New(deps Deps, opts Options) (*Controller, error) {
	if deps.Extractor == nil {
		return nil, fmt.Errorf("view: extractor is required")
	}
	if deps.Exporter == nil {
		return nil, fmt.Errorf("view: exporter is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.CopiedFeedback <= 0 {
		opts.CopiedFeedback = DefaultCopiedFeedback
	}
	if opts.ArrivalCue <= 0 {
		opts.ArrivalCue = DefaultArrivalCue
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		deps:   deps,
		opts:   opts,
		logger: deps.Logger,
		ctx:    ctx,
		cancel: cancel,
		text:   session.New(),
	}, nil
}

// Close stops pending timers, cancels in-flight work and waits for it.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	stopTimer(&c.copiedTimer)
	stopTimer(&c.arrivalTimer)
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Selection returns the current selection.
func (c *Controller) Selection() selection.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

func (c *Controller) snapshot() View {
	info := SelectionInfo{
		ID:         c.sel.ID,
		HasFile:    c.sel.HasFile(),
		HasPreview: c.sel.PreviewDataURI != "",
	}
	if f := c.sel.File; f != nil {
		info.Name = f.Name
		info.MIMEType = f.MIMEType
		info.Size = len(f.Data)
	}
	return View{
		Enhanced:   c.opts.Enhanced,
		Selection:  info,
		Mode:       c.text.Mode(),
		Committed:  c.text.Committed,
		Draft:      c.text.Draft,
		ActiveText: c.text.Active(),
		UI:         c.ui,
		Controls:   c.controls(),
	}
}

func (c *Controller) controls() Controls {
	editing := c.text.Editing
	hasText := c.text.Active() != ""
	return Controls{
		Extract:    !c.ui.Loading && !editing,
		BeginEdit:  c.opts.Enhanced && !editing && !c.ui.Loading && c.text.Committed != "",
		Edit:       editing,
		Save:       editing,
		Cancel:     editing,
		Export:     hasText,
		Copy:       hasText,
		Fullscreen: c.opts.Enhanced,
	}
}

func disabled(intent string) error {
	return fmt.Errorf("%s: %w", intent, ErrDisabled)
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// detach returns a context that keeps ctx's values, ignores its
// cancellation, and ends when the controller closes.
func (c *Controller) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	dctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(c.ctx, cancel)
	return dctx, func() {
		stop()
		cancel()
	}
}

// raise sets a flag and schedules it to drop after d. Raising again
// restarts the timer; a callback for a replaced timer does nothing.
// Must be called with c.mu held.
func (c *Controller) raise(flag *bool, timer **time.Timer, d time.Duration) {
	if c.closed {
		return
	}
	stopTimer(timer)
	*flag = true
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if *timer != t {
			return
		}
		*flag = false
		*timer = nil
	})
	*timer = t
}

func stopTimer(timer **time.Timer) {
	if *timer != nil {
		(*timer).Stop()
		*timer = nil
	}
}

// userMessage returns the display message for err, or fallback when err
// carries no classified message.
func userMessage(err error, fallback string) string {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
