package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"marquee/internal/api"
	"marquee/internal/logging"
	"marquee/internal/services"
)

//go:embed index.html
var landingPage []byte

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(landingPage); err != nil {
		s.requestLog(r).Error("failed to write landing page", logging.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, api.HealthResponse{
		Status:  api.HealthStatusOK,
		Service: "marquee",
		Version: s.version,
	})
}

func (s *Server) handleRecommendMovie(w http.ResponseWriter, r *http.Request) {
	title, ok := s.decodeTitle(w, r, "movie_title")
	if !ok {
		return
	}
	results, err := s.searcher.SearchMovies(r.Context(), title)
	if err != nil {
		s.relayFailure(w, r, "movie search failed", err)
		return
	}
	s.requestLog(r).Info("relayed movie search",
		logging.String("title", title),
		logging.Int("results", len(results)))
	s.writeJSON(w, r, http.StatusOK, results)
}

func (s *Server) handleRecommendTV(w http.ResponseWriter, r *http.Request) {
	title, ok := s.decodeTitle(w, r, "tv_show_title")
	if !ok {
		return
	}
	results, err := s.searcher.SearchTVShows(r.Context(), title)
	if err != nil {
		s.relayFailure(w, r, "tv search failed", err)
		return
	}
	s.requestLog(r).Info("relayed tv search",
		logging.String("title", title),
		logging.Int("results", len(results)))
	s.writeJSON(w, r, http.StatusOK, results)
}

// decodeTitle pulls the named title field out of the request body. The field
// must be present and a JSON string; an empty string is accepted and forwarded
// as-is. On failure it writes the client error and reports ok=false.
func (s *Server) decodeTitle(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "request body must be a JSON object")
		return "", false
	}
	raw, ok := payload[field]
	if !ok || string(raw) == "null" {
		s.writeError(w, r, http.StatusBadRequest, "request body must include "+field)
		return "", false
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		s.writeError(w, r, http.StatusBadRequest, field+" must be a string")
		return "", false
	}
	return title, true
}

// relayFailure reports a failed provider call. The full error is logged but
// the response body carries a stable message so transport details and
// credentials never reach callers.
func (s *Server) relayFailure(w http.ResponseWriter, r *http.Request, message string, err error) {
	s.requestLog(r).Error(message, logging.Error(err))
	if errors.Is(err, services.ErrUpstream) {
		s.writeError(w, r, http.StatusBadGateway, "provider request failed")
		return
	}
	s.writeError(w, r, services.HTTPStatus(err), "internal error")
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	// Keep relayed provider records byte-faithful.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		s.requestLog(r).Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, r, status, api.ErrorResponse{Error: message})
}

func (s *Server) requestLog(r *http.Request) *slog.Logger {
	return logging.WithContext(r.Context(), s.logger)
}
