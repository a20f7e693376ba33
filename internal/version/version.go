// Package version holds release identification stamped in at build time.
package version

// Overridden with -ldflags "-X text-overlay/internal/version.Version=..."
var (
	// Version is the release number shown in the About dialog.
	Version = "0.1.0"

	// BuildTime is when the binary was produced, in UTC.
	BuildTime = "unknown"

	// GitCommit is the short hash of the source revision.
	GitCommit = "unknown"
)
