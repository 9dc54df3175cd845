package api

// MovieSearchRequest is the body accepted by POST /recommend/movie.
type MovieSearchRequest struct {
	MovieTitle string `json:"movie_title"`
}

// TVSearchRequest is the body accepted by POST /recommend/tv.
type TVSearchRequest struct {
	TVShowTitle string `json:"tv_show_title"`
}

// ErrorResponse is the body returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthStatusOK is the status reported by a live service.
const HealthStatusOK = "ok"

// HealthResponse reports service liveness for GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
