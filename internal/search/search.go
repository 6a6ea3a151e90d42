// Package search queries a web search API to ground claim verification.
//
// The wire format follows Serper-style search endpoints: a JSON POST with
// the query and result count, authenticated by an X-API-KEY header. Results
// are reshaped into a stable, source-agnostic structure so the tool surface
// never depends on one provider's field names.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veritube/veritube/internal/resilience"
)

// ErrUnconfigured reports that no search API key is set and mock mode is
// disabled. Callers surface it to the user instead of retrying.
var ErrUnconfigured = errors.New("search: no search API key configured")

const (
	defaultEndpoint    = "https://google.serper.dev/search"
	defaultResultCount = 5
	defaultHTTPTimeout = 15 * time.Second
)

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoint overrides the search API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithResultCount sets how many results each query requests.
func WithResultCount(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.resultCount = n
		}
	}
}

// WithMockMode enables deterministic synthetic results for use without an
// API key. Results produced this way are tagged so callers can warn users.
func WithMockMode(enabled bool) Option {
	return func(c *Client) {
		c.mockMode = enabled
	}
}

// Client performs web searches. It is read-only after construction and safe
// for concurrent use.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	endpoint    string
	resultCount int
	mockMode    bool

	// breaker backs off the search API on repeated failures (quota
	// exhaustion, revoked key) instead of burning the remaining quota.
	breaker *resilience.Breaker
}

// NewClient returns a [Client] authenticating with apiKey. An empty key is
// allowed at construction; queries then fail with [ErrUnconfigured] unless
// mock mode is enabled.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
		apiKey:      apiKey,
		endpoint:    defaultEndpoint,
		resultCount: defaultResultCount,
		breaker:     resilience.NewBreaker("search", resilience.Settings{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Result is one organic search hit.
type Result struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Snippet       string `json:"snippet"`
	Source        string `json:"source,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
}

// KnowledgeGraph is the entity summary block some queries return.
type KnowledgeGraph struct {
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Results is the reshaped response for a single query.
type Results struct {
	Query          string          `json:"query"`
	Timestamp      string          `json:"timestamp"`
	Results        []Result        `json:"results"`
	KnowledgeGraph *KnowledgeGraph `json:"knowledge_graph,omitempty"`

	// MockMode marks synthetic results produced without a real API call.
	MockMode bool `json:"mock_mode,omitempty"`
}

// serperResponse mirrors the provider fields we consume.
type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Source  string `json:"source"`
		Date    string `json:"date"`
	} `json:"organic"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"knowledgeGraph"`
}

// Search runs one query and returns the reshaped results.
func (c *Client) Search(ctx context.Context, query string) (*Results, error) {
	if c.mockMode {
		return c.mockResults(query), nil
	}
	if c.apiKey == "" {
		return nil, ErrUnconfigured
	}

	var out *Results
	err := c.breaker.Do(ctx, func() error {
		var err error
		out, err = c.doSearch(ctx, query)
		return err
	})
	return out, err
}

func (c *Client) doSearch(ctx context.Context, query string) (*Results, error) {
	payload, err := json.Marshal(map[string]any{"q": query, "num": c.resultCount})
	if err != nil {
		return nil, fmt.Errorf("search: marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: query %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search: query %q returned %s: %s", query, resp.Status, body)
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("search: decode response for %q: %w", query, err)
	}

	out := &Results{
		Query:     query,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   make([]Result, 0, len(sr.Organic)),
	}
	for _, o := range sr.Organic {
		out.Results = append(out.Results, Result{
			Title:         o.Title,
			Link:          o.Link,
			Snippet:       o.Snippet,
			Source:        o.Source,
			PublishedDate: o.Date,
		})
	}
	if sr.KnowledgeGraph != nil {
		out.KnowledgeGraph = &KnowledgeGraph{
			Title:       sr.KnowledgeGraph.Title,
			Type:        sr.KnowledgeGraph.Type,
			Description: sr.KnowledgeGraph.Description,
		}
	}
	return out, nil
}

// ClaimVerification bundles the two searches run for one claim.
type ClaimVerification struct {
	Claim       string   `json:"claim"`
	Context     string   `json:"context,omitempty"`
	FactChecks  *Results `json:"fact_check_results"`
	Information *Results `json:"information_results"`
}

// SearchForClaim runs a fact-check query and a general information query for
// a claim concurrently. A failed individual query contributes an empty
// result set rather than failing the verification; only a completely
// unconfigured client errors.
func (c *Client) SearchForClaim(ctx context.Context, claim, claimContext string) (*ClaimVerification, error) {
	if !c.mockMode && c.apiKey == "" {
		return nil, ErrUnconfigured
	}

	factQuery := fmt.Sprintf("fact check %q", claim)
	if claimContext != "" {
		factQuery += " " + claimContext
	}

	cv := &ClaimVerification{Claim: claim, Context: claimContext}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cv.FactChecks = c.searchOrEmpty(gctx, factQuery)
		return nil
	})
	g.Go(func() error {
		cv.Information = c.searchOrEmpty(gctx, claim)
		return nil
	})
	_ = g.Wait() // goroutines never return errors, failures degrade in place

	return cv, nil
}

// searchOrEmpty degrades a failed query to an empty result set.
func (c *Client) searchOrEmpty(ctx context.Context, query string) *Results {
	res, err := c.Search(ctx, query)
	if err != nil {
		return &Results{
			Query:     query,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Results:   []Result{},
		}
	}
	return res
}
