// Package version carries build-time version information, injected via
// -ldflags at release build time.
package version

import (
	"fmt"
	"runtime"
)

var (
	// VersionTag is the semantic version, e.g. "v0.3.0"
	VersionTag = "dev"
	// CommitHash is the short git commit the binary was built from
	CommitHash = "unknown"
	// BuildTime is the UTC build timestamp
	BuildTime = "unknown"
)

// Info is the resolved version information
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current build's version info
func Get() Info {
	return Info{
		Version:   VersionTag,
		Commit:    CommitHash,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String formats the primary version line
func (i Info) String() string {
	return fmt.Sprintf("vacai %s (%s, built %s)", i.Version, i.Commit, i.BuildTime)
}
