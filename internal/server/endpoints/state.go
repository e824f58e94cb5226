package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
)

// StateEndpoint handles GET /api/state.
type StateEndpoint struct{}

var _ api.Endpoint = (*StateEndpoint)(nil)

func (e *StateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/state", e.handler
}

func (e *StateEndpoint) RequiresSession() bool { return true }

func (e *StateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	c := controllerOrFail(w, r)
	if c == nil {
		return
	}
	writeState(w, http.StatusOK, c)
}

func (e *StateEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StateResponse
			if err := client.Get(cmd.Context(), "/api/state", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
