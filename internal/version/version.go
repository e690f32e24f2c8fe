// Package version holds build metadata set with -ldflags by the mage Build target.
package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// String formats the build metadata for --version.
func String() string {
	return fmt.Sprintf("lineclass %s (commit %s, built %s)", Version, CommitHash, BuildDate)
}
