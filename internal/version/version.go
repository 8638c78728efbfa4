// Package version holds build information injected with -ldflags.
package version

import "fmt"

//nolint:gochecknoglobals // Overwritten by the linker at build time.
var (
	// Version is the semantic version of the build.
	Version = "1.0.0"
	// Commit is the VCS revision of the build.
	Commit = "none"
	// BuildTime is the time the binary was built.
	BuildTime = "unknown"
)

// Short returns the version alone.
func Short() string {
	return Version
}

// Full returns the version, commit and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
