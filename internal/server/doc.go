// Package server hosts the marquee HTTP API.
//
// Key responsibilities:
//   - Route POST /recommend/movie and POST /recommend/tv to the provider
//     searcher and relay its records untouched
//   - Serve the embedded landing page and the /healthz liveness document
//   - Tag every request with a correlation ID and log one line per request
//   - Keep provider transport details out of client-facing error bodies
//
// The server owns its net.Listener so it can bind port 0 in tests and report
// the resolved address through Addr.
package server
