package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
)

// CopyEndpoint handles POST /api/copy. The text is placed on the clipboard
// of the machine running the server.
type CopyEndpoint struct{}

var _ api.Endpoint = (*CopyEndpoint)(nil)

func (e *CopyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/copy", e.handler
}

func (e *CopyEndpoint) RequiresSession() bool { return true }

func (e *CopyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}
	if err := c.Copy(); err != nil {
		writeIntentError(w, err)
		return
	}
	writeState(w, http.StatusOK, c)
}

func (e *CopyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "copy",
		Short: "Copy the active text to the clipboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StateResponse
			if err := client.Post(cmd.Context(), "/api/copy", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// FullscreenEndpoint handles POST /api/fullscreen.
type FullscreenEndpoint struct{}

var _ api.Endpoint = (*FullscreenEndpoint)(nil)

func (e *FullscreenEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/fullscreen", e.handler
}

func (e *FullscreenEndpoint) RequiresSession() bool { return true }

func (e *FullscreenEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}
	if err := c.ToggleFullscreen(); err != nil {
		writeIntentError(w, err)
		return
	}
	writeState(w, http.StatusOK, c)
}

func (e *FullscreenEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "fullscreen",
		Short: "Toggle fullscreen text view",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StateResponse
			if err := client.Post(cmd.Context(), "/api/fullscreen", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
