// Package buildinfo carries version identity stamped at link time via
// -ldflags "-X skinforge/internal/support/buildinfo.Version=...".
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
)
