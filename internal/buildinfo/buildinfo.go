// Package buildinfo carries release metadata injected at link time.
package buildinfo

// Set via -ldflags "-X ..." by the release pipeline; empty for dev builds,
// where the version command falls back to debug.ReadBuildInfo.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
