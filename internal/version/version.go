// Package version carries the build fingerprints of the strata CLI.
// The variables can be stamped at build time via -ldflags.
package version

import "github.com/fatih/color"

var (
	// Version is the semantic version of the CLI. Kept plain so it can be
	// embedded in JSON output and cobra's --version string as-is.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var bannerColor = color.New(color.FgCyan, color.Bold)

// Banner returns the colored one-line identity shown by `strata version`.
func Banner() string {
	return bannerColor.Sprint("strata") + " " + Version
}
