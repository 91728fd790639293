// Package version carries build metadata. It has no dependencies so any
// package (bootstrap, transport, commands) can report the running version.
package version

import "fmt"

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/wordnest/wordnest-backend/internal/version.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Build returns a formatted version string for startup logs and health
// endpoints.
func Build() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
