package escalation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/luxevoice/frontdesk/internal/log"
)

// defaultHTTPTimeout bounds a single helpdesk API call. The poll loop
// retries, so individual calls stay short.
const defaultHTTPTimeout = 10 * time.Second

// Client is a lightweight helpdesk API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     log.Logger
}

// NewClient creates a helpdesk client for the given base URL.
func NewClient(baseURL string, logger log.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("helpdesk base URL is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logger,
	}, nil
}

type createResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID string `json:"id"`
	} `json:"data"`
}

type getResponse struct {
	Success bool        `json:"success"`
	Data    HelpRequest `json:"data"`
}

type listResponse struct {
	Success bool          `json:"success"`
	Data    []HelpRequest `json:"data"`
}

// Create files a new help request and returns its ID. Failures wrap
// ErrCreateFailed.
func (c *Client) Create(ctx context.Context, req Request) (string, error) {
	var resp createResponse
	if err := c.makeRequest(ctx, http.MethodPost, c.baseURL+"/api/help-requests", req, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	if !resp.Success || resp.Data.ID == "" {
		return "", fmt.Errorf("%w: helpdesk rejected the request", ErrCreateFailed)
	}

	c.logger.Info("help request created", "id", resp.Data.ID, "question", req.Question)
	return resp.Data.ID, nil
}

// Get fetches a help request by ID.
func (c *Client) Get(ctx context.Context, id string) (*HelpRequest, error) {
	var resp getResponse
	u := c.baseURL + "/api/help-requests/" + url.PathEscape(id)
	if err := c.makeRequest(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("get help request %q failed: %w", id, err)
	}
	return &resp.Data, nil
}

// Resolve records a supervisor answer on a pending request.
func (c *Client) Resolve(ctx context.Context, id, answer string) error {
	body := map[string]string{"answer": answer}
	u := c.baseURL + "/api/help-requests/" + url.PathEscape(id) + "/resolve"
	if err := c.makeRequest(ctx, http.MethodPost, u, body, nil); err != nil {
		return fmt.Errorf("resolve help request %q failed: %w", id, err)
	}
	return nil
}

// Pending lists requests still waiting for a supervisor.
func (c *Client) Pending(ctx context.Context) ([]HelpRequest, error) {
	var resp listResponse
	u := c.baseURL + "/api/help-requests?status=" + string(StatusPending)
	if err := c.makeRequest(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("list pending help requests failed: %w", err)
	}
	return resp.Data, nil
}

// makeRequest is a helper to make JSON requests to the helpdesk API.
func (c *Client) makeRequest(ctx context.Context, method, url string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("helpdesk API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
