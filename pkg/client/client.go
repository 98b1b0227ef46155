package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a running "launchpad serve" instance.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger // optional logger for client operations
}

// DefaultConfig returns default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080/api",
		Timeout: 10 * time.Second,
	}
}

// New creates a new launchpad API client.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8080/api"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Client{
		baseURL: config.BaseURL,
		logger:  config.Logger,
		client:  &http.Client{Timeout: config.Timeout},
	}
}

// IsReachable checks if the server is running and reachable.
func (c *Client) IsReachable(ctx context.Context) bool {
	var snap StatusSnapshot
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/status", &snap); err != nil {
		c.logger.Debug("server unreachable", "error", err)
		return false
	}
	return true
}

// Status returns a snapshot of every declared service.
func (c *Client) Status(ctx context.Context) (StatusSnapshot, error) {
	var snap StatusSnapshot
	err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/status", &snap)
	return snap, err
}

// ServiceStatus returns the status of one service by name.
func (c *Client) ServiceStatus(ctx context.Context, name string) (ServiceStatus, error) {
	var st ServiceStatus
	u := c.baseURL + "/status?name=" + url.QueryEscape(name)
	err := c.doJSON(ctx, http.MethodGet, u, &st)
	return st, err
}

// Launch asks the server to detect-then-start one service.
func (c *Client) Launch(ctx context.Context, name string) (LaunchResult, error) {
	var res LaunchResult
	u := c.baseURL + "/launch?name=" + url.QueryEscape(name)
	err := c.doJSON(ctx, http.MethodPost, u, &res)
	return res, err
}

// Commands lists the trigger table in declaration order.
func (c *Client) Commands(ctx context.Context) ([]CommandEntry, error) {
	var list []CommandEntry
	err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/commands", &list)
	return list, err
}

// Run fires one trigger command and returns the child PID.
func (c *Client) Run(ctx context.Context, trigger string) (int, error) {
	var res RunResult
	u := c.baseURL + "/run?trigger=" + url.QueryEscape(trigger)
	if err := c.doJSON(ctx, http.MethodPost, u, &res); err != nil {
		return 0, err
	}
	return res.PID, nil
}

// doJSON performs the request and decodes the JSON response into v. Non-2xx
// responses are surfaced as errors carrying the server's error message.
func (c *Client) doJSON(ctx context.Context, method, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er ErrorResponse
		if jerr := json.Unmarshal(body, &er); jerr == nil && er.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, er.Error)
		}
		// launch failures return the result body with a non-2xx code
		if v != nil {
			if jerr := json.Unmarshal(body, v); jerr == nil {
				return fmt.Errorf("server returned %d", resp.StatusCode)
			}
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal(body, v)
}
