package endpoints

import (
	"github.com/jackzampolin/scantext/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},

		// Session endpoints
		&StateEndpoint{},
		&SelectEndpoint{},
		&PreviewEndpoint{},
		&ExtractEndpoint{},

		// Edit endpoints
		NewBeginEditEndpoint(),
		&SetDraftEndpoint{},
		NewSaveEditEndpoint(),
		NewCancelEditEndpoint(),

		// Output endpoints
		&ExportEndpoint{},
		&CopyEndpoint{},
		&FullscreenEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
