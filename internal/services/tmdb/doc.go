// Package tmdb provides the minimal TMDB API client behind the relay
// endpoints.
//
// It authenticates requests with the static api_key query parameter plus a
// bearer access token and exposes movie and TV title search. Result records
// stay raw JSON end to end so the service can pass them through without
// interpreting provider fields. Options allow tests to supply custom HTTP
// clients without modifying production code.
package tmdb
