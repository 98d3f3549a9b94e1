// Package logging provides structured logging helpers built on log/slog.
//
// Every log call carries a subsystem name so that entries from the OAuth
// gateway, the backend client, and the MCP server can be told apart in a
// single stream:
//
//	logging.Info("OAuth", "Registered client %s", clientID)
//	logging.Error("Backend", err, "Request to %s failed", path)
//
// Init must be called once at startup to configure the output writer and
// the minimum level.
package logging
