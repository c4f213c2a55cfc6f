// Package timelineapi provides a client for the Andolan timeline API
package timelineapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"
)

const (
	DefaultBaseURL   = "http://localhost:5001"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	timelinePath      = "/api/timeline"
	keyMilestonesPath = "/api/timeline/key-milestones"
)

// Compile-time interface check
var _ interfaces.TimelineClient = (*Client)(nil)

// Client implements the TimelineClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new timeline API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig creates a client from the clients.timeline_api section
func NewClientFromConfig(config common.TimelineAPIConfig, logger *common.Logger) *Client {
	opts := []ClientOption{
		WithLogger(logger),
		WithTimeout(config.GetTimeout()),
		WithRateLimit(config.RateLimit),
	}
	if config.BaseURL != "" {
		opts = append(opts, WithBaseURL(config.BaseURL))
	}
	return NewClient(opts...)
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("timeline API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Timeline API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			Endpoint:   path,
		}
	}

	if err := decodeList(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeList accepts a bare JSON array or an object wrapping it in "data".
func decodeList(body []byte, result interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		trimmed = envelope.Data
	}
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	return json.Unmarshal(trimmed, result)
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response"
	}
	return msg
}

// ListRecords retrieves every timeline record
func (c *Client) ListRecords(ctx context.Context) ([]models.TimelineRecord, error) {
	records := []models.TimelineRecord{}
	if err := c.get(ctx, timelinePath, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// KeyMilestones retrieves the key milestone records, newest first
func (c *Client) KeyMilestones(ctx context.Context) ([]models.TimelineRecord, error) {
	records := []models.TimelineRecord{}
	if err := c.get(ctx, keyMilestonesPath, &records); err != nil {
		return nil, err
	}
	return records, nil
}
