// Package s2 is a rate-limited client for the Semantic Scholar Graph
// API, used to retrieve authoritative metadata for cited works.
package s2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Semantic Scholar Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// RateLimit is 1 request per second, the unauthenticated quota.
	RateLimit = 1.0

	// DefaultPaperFields are the fields requested for paper lookups.
	DefaultPaperFields = "title,authors,year,venue,externalIds,url"

	// DefaultSearchLimit caps title-search result pages.
	DefaultSearchLimit = 5
)

// Common errors returned by the client.
var (
	// ErrNotFound indicates the paper was not found.
	ErrNotFound = errors.New("not found in Semantic Scholar")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Semantic Scholar rate limit exceeded")
)

// APIError represents a non-2xx response from the Graph API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Semantic Scholar API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the error means the paper does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is a rate-limited HTTP client for the Graph API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a Graph API client. The S2_API_KEY environment
// variable supplies the key when no option does.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if key := os.Getenv("S2_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Paper looks up a single paper by identifier. The identifier may be a
// raw S2 ID or any prefixed external ID the Graph API accepts
// ("DOI:10.1038/...", "ARXIV:2106.15928").
func (c *Client) Paper(ctx context.Context, id string) (*Paper, error) {
	var paper Paper
	path := "/paper/" + url.PathEscape(id) + "?fields=" + url.QueryEscape(DefaultPaperFields)
	if err := c.get(ctx, path, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}

// PaperByDOI looks up a paper by DOI.
func (c *Client) PaperByDOI(ctx context.Context, doi string) (*Paper, error) {
	return c.Paper(ctx, "DOI:"+NormalizeDOI(doi))
}

// SearchTitle searches papers by title and returns the result list in
// relevance order.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]Paper, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := url.Values{}
	q.Set("query", title)
	q.Set("fields", DefaultPaperFields)
	q.Set("limit", strconv.Itoa(limit))

	var result searchResponse
	if err := c.get(ctx, "/paper/search?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// get performs a rate-limited GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling Semantic Scholar: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
