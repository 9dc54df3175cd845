package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marquee/internal/services"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(serverURL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresAddress(t *testing.T) {
	if _, err := NewClient("   "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewClientNormalizesBareHostPort(t *testing.T) {
	client, err := NewClient("127.0.0.1:6277")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := client.base.String(); got != "http://127.0.0.1:6277" {
		t.Fatalf("unexpected base URL %q", got)
	}
}

func TestSearchMoviesPostsRequestAndDecodesResults(t *testing.T) {
	var captured MovieSearchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		if r.URL.Path != "/recommend/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`[{"id":27205,"title":"Inception"},{"id":64956,"title":"Inception: The Cobol Job"}]`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	results, err := client.SearchMovies(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if captured.MovieTitle != "Inception" {
		t.Fatalf("unexpected request title %q", captured.MovieTitle)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := string(results[0]); got != `{"id":27205,"title":"Inception"}` {
		t.Fatalf("result not passed through verbatim: %s", got)
	}
}

func TestSearchTVShowsTargetsTVRoute(t *testing.T) {
	var captured TVSearchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommend/tv" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`[]`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	results, err := client.SearchTVShows(context.Background(), "Severance")
	if err != nil {
		t.Fatalf("SearchTVShows: %v", err)
	}
	if captured.TVShowTitle != "Severance" {
		t.Fatalf("unexpected request title %q", captured.TVShowTitle)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil results, got %v", results)
	}
}

func TestSearchMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		marker  error
		message string
	}{
		{
			name:    "bad request carries service message",
			status:  http.StatusBadRequest,
			body:    `{"error":"request body must include movie_title"}`,
			marker:  services.ErrValidation,
			message: "request body must include movie_title",
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error":"no route"}`,
			marker: services.ErrNotFound,
		},
		{
			name:    "bad gateway",
			status:  http.StatusBadGateway,
			body:    `{"error":"provider request failed"}`,
			marker:  services.ErrUpstream,
			message: "provider request failed",
		},
		{
			name:    "unparseable error body falls back to status",
			status:  http.StatusInternalServerError,
			body:    "boom",
			marker:  services.ErrUpstream,
			message: "status 500",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				if _, err := w.Write([]byte(tc.body)); err != nil {
					t.Errorf("write response: %v", err)
				}
			}))
			t.Cleanup(server.Close)

			client := newTestClient(t, server.URL)
			_, err := client.SearchMovies(context.Background(), "Inception")
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected marker %v, got %v", tc.marker, err)
			}
			if tc.message != "" && !strings.Contains(err.Error(), tc.message) {
				t.Fatalf("expected message containing %q, got %v", tc.message, err)
			}
		})
	}
}

func TestSearchUnreachableServiceSuggestsServe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := newTestClient(t, serverURL)
	_, err := client.SearchMovies(context.Background(), "Inception")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if !strings.Contains(err.Error(), "marquee serve") {
		t.Fatalf("expected serve hint, got %v", err)
	}
}

func TestHealthDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(HealthResponse{Status: HealthStatusOK, Service: "marquee", Version: "0.1.0"}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Status != HealthStatusOK || health.Service != "marquee" {
		t.Fatalf("unexpected health payload %+v", health)
	}
}

func TestSearchRejectsNonArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"results":[]}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	if _, err := client.SearchMovies(context.Background(), "Inception"); !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient decode error, got %v", err)
	}
}
