package endpoints

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/selection"
	"github.com/jackzampolin/scantext/internal/svcctx"
)

// MaxUploadBytes bounds the size of an uploaded image.
const MaxUploadBytes = 50 << 20

// SelectEndpoint handles POST /api/selection with a multipart "image" field.
type SelectEndpoint struct{}

var _ api.Endpoint = (*SelectEndpoint)(nil)

func (e *SelectEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/selection", e.handler
}

func (e *SelectEndpoint) RequiresSession() bool { return true }

func (e *SelectEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	src, hdr, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no image uploaded")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	mimeType := hdr.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = selection.DetectMIME(hdr.Filename, data)
	}
	f := &selection.File{Name: hdr.Filename, MIMEType: mimeType, Data: data}
	if !selection.IsImage(f) {
		svcctx.LoggerFrom(r.Context()).Warn("selected file does not look like an image", "file", f.Name, "mime", f.MIMEType)
	}

	done := c.SelectFile(r.Context(), f)
	select {
	case <-done:
	case <-r.Context().Done():
	}
	writeState(w, http.StatusOK, c)
}

func (e *SelectEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "select <image>",
		Short: "Choose the image to extract text from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := selection.Open(args[0])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp StateResponse
			if err := client.Upload(cmd.Context(), "/api/selection", "image", f.Name, f.MIMEType, f.Data, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// PreviewResponse carries the selected image as a data URI.
type PreviewResponse struct {
	SelectionID string `json:"selection_id"`
	DataURI     string `json:"data_uri"`
}

// PreviewEndpoint handles GET /api/selection/preview.
type PreviewEndpoint struct{}

var _ api.Endpoint = (*PreviewEndpoint)(nil)

func (e *PreviewEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/selection/preview", e.handler
}

func (e *PreviewEndpoint) RequiresSession() bool { return true }

func (e *PreviewEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}
	sel := c.Selection()
	if sel.PreviewDataURI == "" {
		writeError(w, http.StatusNotFound, "no preview available")
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{SelectionID: sel.ID, DataURI: sel.PreviewDataURI})
}

func (e *PreviewEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Print the selected image as a data URI",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PreviewResponse
			if err := client.Get(cmd.Context(), "/api/selection/preview", &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.DataURI)
			return nil
		},
	}
}
