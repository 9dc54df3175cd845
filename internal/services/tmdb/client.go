package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marquee/internal/config"
	"marquee/internal/services"
)

const (
	component          = "tmdb"
	userAgent          = "marquee/0.1.0"
	defaultHTTPTimeout = 10 * time.Second
	errorBodyExcerpt   = 512
)

// Results holds a provider result list exactly as returned: each element is
// one opaque provider record, kept as raw JSON so the relay never reorders,
// filters, or re-encodes provider data.
type Results []json.RawMessage

// Searcher defines the provider search operations used by the HTTP service.
type Searcher interface {
	SearchMovies(ctx context.Context, title string) (Results, error)
	SearchTVShows(ctx context.Context, title string) (Results, error)
}

// Client provides access to the TMDB search API.
type Client struct {
	apiKey      string
	accessToken string
	baseURL     string
	language    string
	httpClient  *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client. Both credentials are required: the api key rides
// along as a query parameter and the access token as a bearer header.
func New(apiKey, accessToken, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "api key required", nil)
	}
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "access token required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "base url required", nil)
	}
	client := &Client{
		apiKey:      apiKey,
		accessToken: accessToken,
		baseURL:     strings.TrimRight(baseURL, "/"),
		language:    strings.TrimSpace(language),
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig creates a TMDB client from application configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "config required", nil)
	}
	return New(cfg.TMDB.APIKey, cfg.TMDB.AccessToken, cfg.TMDB.BaseURL, cfg.TMDB.Language, opts...)
}

// SearchMovies performs a movie title search and relays the provider's result
// list untouched. The title is forwarded as-is, empty strings included.
func (c *Client) SearchMovies(ctx context.Context, title string) (Results, error) {
	return c.search(ctx, "/search/movie", "search movies", title)
}

// SearchTVShows performs a TV title search with the same contract as
// SearchMovies against the provider's TV endpoint.
func (c *Client) SearchTVShows(ctx context.Context, title string) (Results, error) {
	return c.search(ctx, "/search/tv", "search tv shows", title)
}

func (c *Client) search(ctx context.Context, path, operation, title string) (Results, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, operation, "parse provider url", err)
	}
	params := url.Values{}
	params.Set("query", title)
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, operation, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, component, operation, fmt.Sprintf("execute request (latency=%v)", latency), redactQuery(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, component, operation, "read response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		detail := fmt.Sprintf("provider returned %d (latency=%v): %s", resp.StatusCode, latency, bodyExcerpt(body))
		return nil, services.Wrap(services.ErrUpstream, component, operation, detail, nil)
	}

	results, err := decodeResults(body)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, component, operation, "decode response", err)
	}
	return results, nil
}

// decodeResults extracts the results field from a provider search document.
// A body that is not a JSON object counts as a provider fault, while a missing
// or mistyped results field inside a valid document degrades to an empty list.
func decodeResults(body []byte) (Results, error) {
	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode search document: %w", err)
	}
	if len(envelope.Results) == 0 {
		return Results{}, nil
	}
	var results Results
	if err := json.Unmarshal(envelope.Results, &results); err != nil {
		return Results{}, nil
	}
	if results == nil {
		results = Results{}
	}
	return results, nil
}

func bodyExcerpt(body []byte) string {
	excerpt := strings.TrimSpace(string(body))
	if len(excerpt) > errorBodyExcerpt {
		excerpt = excerpt[:errorBodyExcerpt] + "..."
	}
	if excerpt == "" {
		return "(empty body)"
	}
	return excerpt
}

// redactQuery strips query parameters from transport errors. The api_key rides
// in the query string, so the raw url.Error text must never reach logs.
func redactQuery(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	parsed, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil || parsed.RawQuery == "" {
		return err
	}
	parsed.RawQuery = ""
	return &url.Error{Op: urlErr.Op, URL: parsed.String(), Err: urlErr.Err}
}
