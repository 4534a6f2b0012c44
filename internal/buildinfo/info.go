// Package buildinfo holds version details stamped in at link time:
//
//	go build -ldflags "-X github.com/cleared-dev/gctool/internal/buildinfo.Version=v0.3.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the stamped details for `gctool --version`.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
