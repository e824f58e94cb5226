// Package session holds the extracted text and its edit state.
//
// State is a plain value. Every transition returns a new State, and an
// illegal transition returns the receiver unchanged together with an
// error wrapping ErrInvalidTransition.
package session

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// current mode.
var ErrInvalidTransition = errors.New("invalid session transition")

// Mode is the edit mode of a session.
type Mode string

const (
	Viewing Mode = "viewing"
	Editing Mode = "editing"
)

// State is the text held by the session.
//
// Committed is the last saved or extracted text. Draft is the working copy
// while editing. Outside of editing Draft always equals Committed.
type State struct {
	Committed string `json:"committed"`
	Draft     string `json:"draft"`
	Editing   bool   `json:"editing"`
}

// New returns an empty session in viewing mode.
func New() State {
	return State{}
}

// Mode reports the current mode.
func (s State) Mode() Mode {
	if s.Editing {
		return Editing
	}
	return Viewing
}

// Active returns the text the user currently sees.
func (s State) Active() string {
	if s.Editing {
		return s.Draft
	}
	return s.Committed
}

// Valid reports whether the viewing invariant holds.
func (s State) Valid() bool {
	return s.Editing || s.Draft == s.Committed
}

// ApplyExtraction replaces the text with a fresh extraction result.
func (s State) ApplyExtraction(text string) (State, error) {
	if s.Editing {
		return s, fmt.Errorf("apply extraction while editing: %w", ErrInvalidTransition)
	}
	return State{Committed: text, Draft: text}, nil
}

// ClearText empties the session after the OCR server reported a failure.
func (s State) ClearText() (State, error) {
	if s.Editing {
		return s, fmt.Errorf("clear text while editing: %w", ErrInvalidTransition)
	}
	return State{}, nil
}

// BeginEdit enters editing mode with the draft seeded from the committed text.
func (s State) BeginEdit() (State, error) {
	if s.Editing {
		return s, fmt.Errorf("begin edit: already editing: %w", ErrInvalidTransition)
	}
	return State{Committed: s.Committed, Draft: s.Committed, Editing: true}, nil
}

// Edit replaces the draft.
func (s State) Edit(draft string) (State, error) {
	if !s.Editing {
		return s, fmt.Errorf("edit: not editing: %w", ErrInvalidTransition)
	}
	s.Draft = draft
	return s, nil
}

// Save commits the draft and returns to viewing mode.
func (s State) Save() (State, error) {
	if !s.Editing {
		return s, fmt.Errorf("save: not editing: %w", ErrInvalidTransition)
	}
	return State{Committed: s.Draft, Draft: s.Draft}, nil
}

// Cancel discards the draft and returns to viewing mode.
func (s State) Cancel() (State, error) {
	if !s.Editing {
		return s, fmt.Errorf("cancel: not editing: %w", ErrInvalidTransition)
	}
	return State{Committed: s.Committed, Draft: s.Committed}, nil
}
