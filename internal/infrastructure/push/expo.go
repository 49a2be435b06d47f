// Package push delivers notifications through the Expo push API.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"dinnerbell/internal/ports/output"
)

// DefaultURL is the public Expo push endpoint.
const DefaultURL = "https://exp.host/--/api/v2/push/send"

// maxBatch is the number of messages Expo accepts per request.
const maxBatch = 100

var _ output.PushSender = (*ExpoClient)(nil)

type ExpoClient struct {
	url         string
	accessToken string
	client      *http.Client
	log         zerolog.Logger
}

// NewExpoClient targets url, or DefaultURL when url is empty. accessToken is
// optional and only needed when enhanced push security is enabled.
func NewExpoClient(url, accessToken string, log zerolog.Logger) *ExpoClient {
	if url == "" {
		url = DefaultURL
	}
	return &ExpoClient{
		url:         url,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log.With().Str("component", "push").Logger(),
	}
}

type ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type sendResponse struct {
	Data   []ticket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Send posts messages in batches and returns how many tickets came back ok.
// A failing batch stops the send; tickets counted so far are returned.
func (c *ExpoClient) Send(ctx context.Context, messages []output.PushMessage) (int, error) {
	accepted := 0
	for start := 0; start < len(messages); start += maxBatch {
		end := min(start+maxBatch, len(messages))
		n, err := c.sendBatch(ctx, messages[start:end])
		accepted += n
		if err != nil {
			return accepted, err
		}
	}
	return accepted, nil
}

func (c *ExpoClient) sendBatch(ctx context.Context, batch []output.PushMessage) (int, error) {
	body, err := EncodeBatch(batch)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode push response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(out.Errors) > 0 {
			return 0, fmt.Errorf("push API error %s: %s", out.Errors[0].Code, out.Errors[0].Message)
		}
		return 0, fmt.Errorf("push API error: %s", resp.Status)
	}

	ok := 0
	for i, t := range out.Data {
		if t.Status == "ok" {
			ok++
			continue
		}
		ev := c.log.Warn().Str("message", t.Message)
		if i < len(batch) {
			ev = ev.Str("event_id", batch[i].Data.EventID)
		}
		ev.Msg("push ticket rejected")
	}
	return ok, nil
}

// EncodeBatch renders the request body for one batch.
func EncodeBatch(batch []output.PushMessage) ([]byte, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encode push batch: %w", err)
	}
	return body, nil
}
