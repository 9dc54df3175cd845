package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marquee/internal/services"
)

const (
	component      = "api"
	requestTimeout = 15 * time.Second
)

// Client talks to a running marquee service.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient builds a Client for the service listening on bind. A bare
// host:port is treated as plain HTTP.
func NewClient(bind string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new client", "service address is empty", nil)
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "new client", "parse service address", err)
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""
	return &Client{
		base: base,
		http: &http.Client{Timeout: requestTimeout},
	}, nil
}

// SearchMovies posts title to the movie search route and returns the relayed
// provider records.
func (c *Client) SearchMovies(ctx context.Context, title string) ([]json.RawMessage, error) {
	return c.search(ctx, "/recommend/movie", MovieSearchRequest{MovieTitle: title})
}

// SearchTVShows posts title to the TV search route and returns the relayed
// provider records.
func (c *Client) SearchTVShows(ctx context.Context, title string) ([]json.RawMessage, error) {
	return c.search(ctx, "/recommend/tv", TVSearchRequest{TVShowTitle: title})
}

// Health fetches the service health document.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return HealthResponse{}, err
	}
	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return HealthResponse{}, services.Wrap(services.ErrTransient, component, "health", "decode health response", err)
	}
	return health, nil
}

func (c *Client) search(ctx context.Context, path string, payload any) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	var results []json.RawMessage
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "search", "decode search response", err)
	}
	if results == nil {
		results = []json.RawMessage{}
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, component, "encode request", "marshal request body", err)
		}
		reader = bytes.NewReader(raw)
	}
	endpoint := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "build request", "build service request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionError(err) {
			detail := fmt.Sprintf("service is not reachable at %s; start it with 'marquee serve'", c.base.Host)
			return nil, services.Wrap(services.ErrTransient, component, "contact service", detail, err)
		}
		return nil, services.Wrap(services.ErrTransient, component, "contact service", "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "read response", "read service response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

// statusError converts a failed service response into a classified error,
// preferring the message the service put in its error body.
func statusError(status int, body []byte) error {
	message := fmt.Sprintf("service returned status %d", status)
	var payload ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		message = payload.Error
	}
	marker := services.ErrUpstream
	switch status {
	case http.StatusBadRequest:
		marker = services.ErrValidation
	case http.StatusNotFound:
		marker = services.ErrNotFound
	}
	return services.Wrap(marker, component, "service request", message, nil)
}

// isConnectionError reports whether err means the service is not listening
// rather than a failure it returned.
func isConnectionError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
