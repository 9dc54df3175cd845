// Package api defines the wire-format types for the marquee HTTP API and a
// thin client used by the CLI commands.
//
// Key responsibilities:
//   - Request and response DTOs shared by the server handlers and the client
//   - Client helpers that resolve the service address, post search requests,
//     and decode responses
//   - Mapping service error payloads back onto the shared error markers
//
// DTOs use snake_case JSON tags to match the published request contract.
// Search results are passed through as json.RawMessage so provider records
// reach callers byte-for-byte.
package api
