package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/backend"
	"github.com/jackzampolin/scantext/internal/svcctx"
	"github.com/jackzampolin/scantext/version"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	OCR     string `json:"ocr,omitempty"`
	OCRURL  string `json:"ocr_url,omitempty"`
}

func (h HealthResponse) Text() string {
	s := fmt.Sprintf("Status: %s", h.Status)
	if h.OCR != "" {
		s += fmt.Sprintf("\nOCR:    %s (%s)", h.OCR, h.OCRURL)
	}
	return s
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresSession() bool { return false }

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version.GitRelease})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ReadyEndpoint handles GET /ready. It reports whether the OCR endpoint
// answers.
type ReadyEndpoint struct{}

var _ api.Endpoint = (*ReadyEndpoint)(nil)

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresSession() bool { return false }

func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", OCR: "ok"}

	client := svcctx.ExtractorFrom(r.Context())
	if client == nil {
		resp.Status = "degraded"
		resp.OCR = "not_initialized"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.OCRURL = client.BaseURL()

	if err := backend.Probe(r.Context(), client.BaseURL()); err != nil {
		svcctx.LoggerFrom(r.Context()).Debug("ocr endpoint not reachable", "url", resp.OCRURL, "error", err)
		resp.Status = "degraded"
		resp.OCR = "unreachable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check whether the OCR endpoint is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
