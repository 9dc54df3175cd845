// Package services defines shared utilities consumed by the HTTP handlers and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers and route names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent HTTP statuses (client error vs upstream error vs
//     internal error).
//
// Use these helpers when wiring new endpoints so operational behaviour (error
// handling, observability) stays uniform across the service.
package services
