// Package buildinfo holds the version metadata stamped into the
// datasage binary at build time. The version subcommand and the
// outbound HTTP User-Agent both read from here.
package buildinfo

import (
	"fmt"
	"runtime"
	"time"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildTime = "unknown"
)

// startTime records when the process started.
var startTime = time.Now()

// Info returns build and runtime details keyed for the version
// subcommand's JSON output.
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"git_branch": GitBranch,
		"build_time": BuildTime,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     Uptime().String(),
	}
}

// UserAgent returns the User-Agent header value sent on model
// provider requests.
func UserAgent() string {
	return fmt.Sprintf("datasage/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH)
}

// Uptime returns the duration since process start.
func Uptime() time.Duration {
	return time.Since(startTime).Truncate(time.Second)
}

// String returns a one-line summary for logging.
func String() string {
	return fmt.Sprintf("datasage %s (%s@%s) built %s", Version, GitCommit, GitBranch, BuildTime)
}
