// Package grading submits finished games to a remote grading service.
package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is the payload posted for every finished game.
type Result struct {
	Player string `json:"player"`
	Level  int    `json:"level"`
	Score  int    `json:"score"`
}

// Client posts results to a grading endpoint.
type Client struct {
	url  string
	http *http.Client
}

// New returns a client for url with a 10 second request timeout.
func New(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// URL returns the grading endpoint.
func (c *Client) URL() string { return c.url }

// Submit posts r. Any non-2xx response is an error carrying the status.
func (c *Client) Submit(ctx context.Context, r Result) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("grading: cannot encode result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("grading: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("grading: cannot reach %s: %w", c.url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("grading: %s answered %s", c.url, resp.Status)
	}
	return nil
}
