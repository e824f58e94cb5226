// Package backend probes and manages the OCR server scantext uploads to.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ProbeTimeout bounds a single readiness probe.
const ProbeTimeout = 2 * time.Second

// Probe reports whether an OCR server answers at baseURL. Any response
// below 500 counts as ready, including 404 and 405.
func Probe(ctx context.Context, baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("no OCR URL configured")
	}

	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return fmt.Errorf("invalid OCR URL %q: %w", baseURL, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("OCR server unreachable: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("OCR server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
