package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackzampolin/scantext/internal/session"
	"github.com/jackzampolin/scantext/internal/svcctx"
	"github.com/jackzampolin/scantext/internal/view"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeIntentError maps controller errors onto status codes.
func writeIntentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, view.ErrDisabled), errors.Is(err, session.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// StateResponse is the session snapshot returned by every intent.
type StateResponse struct {
	view.View `yaml:",inline"`
}

// Text renders the snapshot for terminal output.
func (s StateResponse) Text() string {
	var b strings.Builder
	if s.Selection.HasFile {
		fmt.Fprintf(&b, "File:     %s (%s, %d bytes)\n", s.Selection.Name, s.Selection.MIMEType, s.Selection.Size)
	} else {
		b.WriteString("File:     (none)\n")
	}
	fmt.Fprintf(&b, "Mode:     %s\n", s.Mode)
	if s.UI.Loading {
		b.WriteString("Status:   extracting...\n")
	}
	if s.UI.Error != "" {
		fmt.Fprintf(&b, "Error:    %s\n", s.UI.Error)
	}
	if s.UI.Copied {
		b.WriteString("Copied!\n")
	}
	if s.ActiveText == "" {
		b.WriteString("Text:     (empty)")
	} else {
		b.WriteString("Text:\n")
		b.WriteString(s.ActiveText)
	}
	return b.String()
}

// controllerOrFail writes 503 and returns nil when no session is attached.
func controllerOrFail(w http.ResponseWriter, r *http.Request) *view.Controller {
	c := svcctx.ControllerFrom(r.Context())
	if c == nil {
		writeError(w, http.StatusServiceUnavailable, "session not initialized")
	}
	return c
}

func writeState(w http.ResponseWriter, status int, c *view.Controller) {
	writeJSON(w, status, StateResponse{View: c.Snapshot()})
}
