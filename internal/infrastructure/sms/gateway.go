// Package sms sends invite texts through an HTTP SMS gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dinnerbell/internal/ports/output"
)

var _ output.SMSSender = (*Gateway)(nil)

// Gateway posts {"from","to","body"} as JSON with a bearer token.
type Gateway struct {
	url    string
	token  string
	from   string
	client *http.Client
}

func NewGateway(url, token, from string) *Gateway {
	return &Gateway{
		url:    url,
		token:  token,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type smsRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Body string `json:"body"`
}

func (g *Gateway) Send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(smsRequest{From: g.from, To: to, Body: body})
	if err != nil {
		return fmt.Errorf("encode sms: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway error: %s", resp.Status)
	}
	return nil
}
