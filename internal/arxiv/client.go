// Package arxiv is a rate-limited client for the arXiv Atom API, used
// to retrieve authoritative metadata for arXiv-identified references.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the arXiv API query endpoint.
	BaseURL = "https://export.arxiv.org/api/query"

	// RateLimit honors arXiv's requested one call every three seconds.
	RateLimit = 1.0 / 3.0
)

// ErrNotFound indicates the requested paper does not exist on arXiv.
var ErrNotFound = errors.New("not found on arXiv")

// Client is a rate-limited HTTP client for the arXiv API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates an arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Paper fetches one paper by arXiv identifier ("2106.15928", version
// suffix allowed).
func (c *Client) Paper(ctx context.Context, id string) (*Entry, error) {
	q := url.Values{}
	q.Set("id_list", strings.TrimSpace(id))
	q.Set("max_results", "1")

	feed, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(feed.Entries) == 0 || strings.TrimSpace(feed.Entries[0].Title) == "" {
		return nil, ErrNotFound
	}
	// An unknown ID comes back as an entry whose title is "Error".
	if strings.EqualFold(strings.TrimSpace(feed.Entries[0].Title), "error") {
		return nil, ErrNotFound
	}
	return &feed.Entries[0], nil
}

// SearchTitle searches arXiv by title phrase.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}
	q := url.Values{}
	q.Set("search_query", fmt.Sprintf(`ti:%q`, title))
	q.Set("max_results", fmt.Sprintf("%d", limit))

	feed, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	return feed.Entries, nil
}

func (c *Client) query(ctx context.Context, q url.Values) (*feed, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling arXiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("arXiv API error: %s", resp.Status)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding Atom feed: %w", err)
	}
	return &f, nil
}

// feed is the Atom envelope of an API response.
type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []Entry  `xml:"entry"`
}

// Entry is one paper in an Atom feed.
type Entry struct {
	ID         string   `xml:"id"` // https://arxiv.org/abs/<id><version>
	Title      string   `xml:"title"`
	Published  string   `xml:"published"` // RFC 3339
	Authors    []person `xml:"author"`
	DOI        string   `xml:"doi"`         // arxiv namespace extension
	JournalRef string   `xml:"journal_ref"` // set once published
}

type person struct {
	Name string `xml:"name"`
}
