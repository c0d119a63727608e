package version

import "fmt"

// Set at build time with -ldflags "-X github.com/noah-isme/grievance-api/internal/version.Version=...".
var (
	Version    = "devel"
	CommitHash = "unknown"
)

// String renders the build version.
func String() string {
	return fmt.Sprintf("%s (commit %s)", Version, CommitHash)
}
