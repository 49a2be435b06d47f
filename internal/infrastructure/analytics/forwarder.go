// Package analytics relays client analytics events to a collector.
package analytics

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"dinnerbell/internal/ports/output"
)

var _ output.AnalyticsForwarder = (*HTTPForwarder)(nil)

type HTTPForwarder struct {
	url    string
	client *http.Client
}

func NewHTTPForwarder(url string) *HTTPForwarder {
	return &HTTPForwarder{url: url, client: &http.Client{Timeout: 5 * time.Second}}
}

// Forward posts the payload unchanged.
func (f *HTTPForwarder) Forward(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("forward analytics: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("analytics collector: %s", resp.Status)
	}
	return nil
}

// Discard drops every payload. Used when no collector is configured.
type Discard struct{}

func (Discard) Forward(context.Context, []byte) error { return nil }
