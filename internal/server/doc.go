// Package server assembles siren's HTTP surface: the authorization
// gateway endpoints, the discovery metadata, and the /mcp endpoint gated
// by the bearer authenticator. POST /mcp is served by the MCP streamable
// HTTP transport; GET /mcp is a long-lived event stream with a periodic
// heartbeat tied to the connection's lifetime.
package server
