package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
)

// ExtractEndpoint handles POST /api/extract. With ?wait=true the response
// is sent once the result has been applied.
type ExtractEndpoint struct{}

var _ api.Endpoint = (*ExtractEndpoint)(nil)

func (e *ExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/extract", e.handler
}

func (e *ExtractEndpoint) RequiresSession() bool { return true }

func (e *ExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}

	if v := c.Snapshot(); !v.Controls.Extract {
		msg := "extraction already in progress"
		if !v.UI.Loading {
			msg = "finish editing before extracting again"
		}
		writeError(w, http.StatusConflict, msg)
		return
	}

	done := c.Extract(r.Context())
	if r.URL.Query().Get("wait") != "true" {
		writeState(w, http.StatusAccepted, c)
		return
	}

	select {
	case <-done:
	case <-r.Context().Done():
		return
	}
	writeState(w, http.StatusOK, c)
}

func (e *ExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Send the selected image to the OCR server",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/extract"
			if wait {
				path += "?wait=true"
			}
			client := api.NewClient(getServerURL())
			var resp StateResponse
			if err := client.Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for the extracted text")
	return cmd
}
