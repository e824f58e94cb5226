package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint to the registry.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes registers all endpoint HTTP routes with the given router.
// sessionMiddleware wraps handlers that need a live session.
func (r *Registry) RegisterRoutes(router chi.Router, sessionMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresSession() {
			handler = sessionMiddleware(handler)
		}
		router.MethodFunc(method, path, handler)
	}
}

// BuildCommands returns a cobra.Command tree for all registered endpoints.
// Endpoints implementing Grouped are nested under a shared parent command.
// getServerURL is called at runtime to get the server URL.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running scantext server via HTTP.

These commands require a running server (scantext serve).
Use --server to specify a custom server URL.

Examples:
  scantext api health                 # Check server health
  scantext api select scan.png        # Choose an image
  scantext api extract --wait         # Run OCR and wait for the text
  scantext api export pdf             # Download extracted_text.pdf`,
	}

	groups := make(map[string]*cobra.Command)
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		if cmd == nil {
			continue
		}
		parent := apiCmd
		if g, ok := ep.(Grouped); ok {
			name, short := g.Group()
			if groups[name] == nil {
				groups[name] = &cobra.Command{Use: name, Short: short}
				apiCmd.AddCommand(groups[name])
			}
			parent = groups[name]
		}
		parent.AddCommand(cmd)
	}

	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
