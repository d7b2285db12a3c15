// Package engine talks to the remote conversational engine over HTTP: one
// request per inbound chat message, no retries.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Gateway sends one user utterance to the conversational engine. An empty
// sessionID starts a new engine conversation.
type Gateway interface {
	SendInput(ctx context.Context, sessionID, text string, params map[string]string) (*Response, error)
}

// ErrUnavailable marks transport and protocol failures against the engine.
// The relay logs these and drops the triggering event without replying.
var ErrUnavailable = errors.New("engine unavailable")

const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a gateway for the engine at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) SendInput(ctx context.Context, sessionID, text string, params map[string]string) (*Response, error) {
	body, err := json.Marshal(request{
		SessionID:  sessionID,
		Text:       text,
		Parameters: params,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: engine returned %s: %s", ErrUnavailable, resp.Status, bytes.TrimSpace(detail))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return &out, nil
}
