package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ExpoClient talks to an Expo-compatible push gateway over HTTP.
// One SendBatch call maps to one POST with a JSON array of messages;
// the gateway answers with a "data" array of per-item tickets.
type ExpoClient struct {
	url        string
	httpClient *http.Client
}

// NewExpoClient creates a push client for the given gateway URL
func NewExpoClient(url string, timeout time.Duration) *ExpoClient {
	return &ExpoClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type expoResponse struct {
	Data []Ticket `json:"data"`
}

// SendBatch posts one batch of messages and returns the per-item tickets.
// A non-2xx status or a malformed body is returned as an error; callers
// decide whether that fails the whole batch or just its tally.
func (c *ExpoClient) SendBatch(ctx context.Context, messages []Message) ([]Ticket, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read push gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed expoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode push gateway response: %w", err)
	}

	if len(parsed.Data) != len(messages) {
		return nil, fmt.Errorf("push gateway returned %d tickets for %d messages", len(parsed.Data), len(messages))
	}

	return parsed.Data, nil
}
