// Package preflight provides readiness checks for the metadata provider,
// filesystem paths, and the running service.
//
// These checks run in two contexts:
//   - The "marquee status" command runs RunAll to display environment health.
//   - "marquee serve" runs CheckProvider once at startup so credential
//     problems surface immediately instead of on the first relayed request.
//
// Each check returns a Result rather than an error so callers can render
// every outcome, passed or failed, in one pass.
package preflight
