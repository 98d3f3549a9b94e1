// Package tools declares the MCP tools siren exposes and dispatches their
// invocations to the backend client.
//
// The dispatcher is deliberately thin: it validates required arguments
// before any outbound call is attempted, builds a per-request backend
// client carrying the caller's credential, and converts every failure into
// a structured tool error so the protocol connection stays usable.
package tools
