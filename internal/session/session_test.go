package session

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, Viewing, s.Mode())
	assert.Empty(t, s.Active())
	assert.True(t, s.Valid())
}

func TestEditCancelRestoresCommitted(t *testing.T) {
	s, err := New().ApplyExtraction("Hello")
	require.NoError(t, err)

	s, err = s.BeginEdit()
	require.NoError(t, err)
	assert.Equal(t, "Hello", s.Draft)

	s, err = s.Edit("Hello world")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", s.Active())
	assert.Equal(t, "Hello", s.Committed)

	s, err = s.Cancel()
	require.NoError(t, err)
	assert.Equal(t, State{Committed: "Hello", Draft: "Hello"}, s)
}

func TestEditSaveCommitsDraft(t *testing.T) {
	s, _ := New().ApplyExtraction("Hello")
	s, _ = s.BeginEdit()
	s, _ = s.Edit("Hello world")

	s, err := s.Save()
	require.NoError(t, err)
	assert.Equal(t, State{Committed: "Hello world", Draft: "Hello world"}, s)
	assert.Equal(t, Viewing, s.Mode())
}

func TestClearText(t *testing.T) {
	s, _ := New().ApplyExtraction("stale")
	s, err := s.ClearText()
	require.NoError(t, err)
	assert.Equal(t, New(), s)
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	viewing := State{Committed: "a", Draft: "a"}
	editing := State{Committed: "a", Draft: "b", Editing: true}

	tests := []struct {
		name string
		from State
		op   func(State) (State, error)
	}{
		{"edit while viewing", viewing, func(s State) (State, error) { return s.Edit("x") }},
		{"save while viewing", viewing, State.Save},
		{"cancel while viewing", viewing, State.Cancel},
		{"begin while editing", editing, State.BeginEdit},
		{"extraction while editing", editing, func(s State) (State, error) { return s.ApplyExtraction("x") }},
		{"clear while editing", editing, State.ClearText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.from)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			assert.Equal(t, tt.from, got)
		})
	}
}

// Random operation sequences must never reach a viewing state whose draft
// differs from its committed text.
func TestViewingInvariantHoldsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	texts := []string{"", "Hello", "Hello world", "line1\nline2", "ünïcødé"}

	for run := 0; run < 200; run++ {
		s := New()
		for step := 0; step < 50; step++ {
			text := texts[rng.Intn(len(texts))]
			var next State
			var err error
			switch rng.Intn(6) {
			case 0:
				next, err = s.ApplyExtraction(text)
			case 1:
				next, err = s.ClearText()
			case 2:
				next, err = s.BeginEdit()
			case 3:
				next, err = s.Edit(text)
			case 4:
				next, err = s.Save()
			case 5:
				next, err = s.Cancel()
			}
			if err != nil {
				require.Equal(t, s, next, "failed transition changed state")
			}
			s = next
			require.True(t, s.Valid(), "invariant broken at run %d step %d: %+v", run, step, s)
		}
	}
}
