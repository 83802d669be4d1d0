// Package version carries the build identity reported at startup and in the
// MCP server handshake.
package version

// Stamped at build time via -ldflags; defaults identify a local dev build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
