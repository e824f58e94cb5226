package endpoints

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/view"
)

func editGroup() (string, string) {
	return "edit", "Edit the extracted text"
}

// editTransition is shared by the begin, save and cancel endpoints.
type editTransition struct {
	path  string
	use   string
	short string
	apply func(*view.Controller) error
}

func (e *editTransition) Route() (string, string, http.HandlerFunc) {
	return "POST", e.path, e.handler
}

func (e *editTransition) RequiresSession() bool { return true }

func (e *editTransition) Group() (string, string) { return editGroup() }

func (e *editTransition) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}
	if err := e.apply(c); err != nil {
		writeIntentError(w, err)
		return
	}
	writeState(w, http.StatusOK, c)
}

func (e *editTransition) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   e.use,
		Short: e.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StateResponse
			if err := client.Post(cmd.Context(), e.path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// NewBeginEditEndpoint handles POST /api/edit/begin.
func NewBeginEditEndpoint() api.Endpoint {
	return &editTransition{
		path: "/api/edit/begin", use: "begin", short: "Start editing the extracted text",
		apply: (*view.Controller).BeginEdit,
	}
}

// NewSaveEditEndpoint handles POST /api/edit/save.
func NewSaveEditEndpoint() api.Endpoint {
	return &editTransition{
		path: "/api/edit/save", use: "save", short: "Commit the edited text",
		apply: (*view.Controller).Save,
	}
}

// NewCancelEditEndpoint handles POST /api/edit/cancel.
func NewCancelEditEndpoint() api.Endpoint {
	return &editTransition{
		path: "/api/edit/cancel", use: "cancel", short: "Discard the edited text",
		apply: (*view.Controller).Cancel,
	}
}

// EditRequest replaces the draft text.
type EditRequest struct {
	Text string `json:"text"`
}

// SetDraftEndpoint handles PUT /api/edit.
type SetDraftEndpoint struct{}

var _ api.Endpoint = (*SetDraftEndpoint)(nil)

func (e *SetDraftEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/edit", e.handler
}

func (e *SetDraftEndpoint) RequiresSession() bool { return true }

func (e *SetDraftEndpoint) Group() (string, string) { return editGroup() }

func (e *SetDraftEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := c.Edit(req.Text); err != nil {
		writeIntentError(w, err)
		return
	}
	writeState(w, http.StatusOK, c)
}

func (e *SetDraftEndpoint) Command(getServerURL func() string) *cobra.Command {
	var fromFile string
	cmd := &cobra.Command{
		Use:   "set [text]",
		Short: "Replace the draft text (from an argument, --file, or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case len(args) == 1:
				text = args[0]
			case fromFile != "":
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", fromFile, err)
				}
				text = string(data)
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			client := api.NewClient(getServerURL())
			var resp StateResponse
			if err := client.Put(cmd.Context(), "/api/edit", EditRequest{Text: text}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read the draft from a file")
	return cmd
}
