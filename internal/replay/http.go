package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client posts actions against a running service.
type Client struct {
	http    *http.Client
	baseURL string
}

// newClient creates an HTTP client with a per-request timeout.
func newClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type clickBody struct {
	Team      string `json:"team"`
	Player    string `json:"player"`
	RequestID string `json:"request_id"`
}

type pressBody struct {
	RequestID string `json:"request_id"`
}

type undoBody struct {
	Count     int    `json:"count,omitempty"`
	RequestID string `json:"request_id"`
}

// Do submits one action. Each request carries a fresh request ID so
// retried scripts stay idempotent on the server side.
func (c *Client) Do(ctx context.Context, a Action) (int, error) {
	var (
		path string
		body any
	)
	switch a.Op {
	case "click":
		path = "/click"
		body = clickBody{Team: a.Team, Player: a.Player, RequestID: uuid.NewString()}
	case "press":
		path = "/press/" + a.Action
		body = pressBody{RequestID: uuid.NewString()}
	case "sub":
		path = "/sub"
		body = pressBody{RequestID: uuid.NewString()}
	case "undo":
		path = "/undo"
		body = undoBody{Count: a.Count, RequestID: uuid.NewString()}
	default:
		return 0, fmt.Errorf("unknown op %q", a.Op)
	}

	return c.post(ctx, path, body)
}

func (c *Client) post(ctx context.Context, path string, body any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// Get performs a GET against the service and returns the body.
func (c *Client) Get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// FetchCSV downloads the CSV rendering of the event log.
func (c *Client) FetchCSV(ctx context.Context) ([]byte, error) {
	status, data, err := c.Get(ctx, "/log.csv")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("log download failed with status %d", status)
	}
	return data, nil
}
