package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/export"
	"github.com/jackzampolin/scantext/internal/view"
)

// ExportEndpoint handles GET /api/export/{format} and returns the artifact
// as an attachment.
type ExportEndpoint struct{}

var _ api.Endpoint = (*ExportEndpoint)(nil)

func (e *ExportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/export/{format}", e.handler
}

func (e *ExportEndpoint) RequiresSession() bool { return true }

func (e *ExportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}

	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := c.Export(format)
	if err != nil {
		if errors.Is(err, view.ErrDisabled) {
			writeError(w, http.StatusConflict, "there is no text to export")
			return
		}
		writeIntentError(w, err)
		return
	}

	w.Header().Set("Content-Type", a.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, a.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}

// ExportResult reports where a downloaded artifact was saved.
type ExportResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

func (r ExportResult) Text() string {
	return fmt.Sprintf("Saved %s (%d bytes)", r.Path, r.Bytes)
}

func (e *ExportEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:       "export <word|pdf|xlsx>",
		Short:     "Download the active text as a document",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"word", "pdf", "xlsx"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(args[0])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			d, err := client.Download(cmd.Context(), "/api/export/"+string(format))
			if err != nil {
				return err
			}
			a := export.Artifact{Filename: d.Filename, MIMEType: d.ContentType, Data: d.Data}
			if a.Filename == "" {
				return fmt.Errorf("server response has no filename")
			}
			path, err := export.Save(outDir, a)
			if err != nil {
				return err
			}
			return api.Output(ExportResult{Path: path, Bytes: len(a.Data)})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to save the file in")
	return cmd
}
