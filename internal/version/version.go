// Package version exposes build-time metadata for the pageforge CLI.
//
// The variables are set at build time with ldflags:
//
//	go build -ldflags "-X github.com/pageforge/pageforge/internal/version.Version=1.0.0 ..."
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	// Version is the semantic version, "dev" for untagged builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// Dirty indicates uncommitted changes in the working tree.
	Dirty = "false"

	// BuildDate is the UTC build timestamp in RFC3339 format.
	BuildDate = "unknown"
)

// Info is the structured version report.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a single-line version string.
func String() string {
	v := Version
	if Dirty == "true" {
		v += "-dirty"
	}
	return v
}

// Full returns a multi-line version report.
func Full() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("pageforge %s\n", String()))
	sb.WriteString(fmt.Sprintf("  Commit:     %s\n", Commit))
	if Dirty == "true" {
		sb.WriteString("  Dirty:      yes\n")
	}
	sb.WriteString(fmt.Sprintf("  Built:      %s\n", BuildDate))
	sb.WriteString(fmt.Sprintf("  Go version: %s\n", runtime.Version()))
	sb.WriteString(fmt.Sprintf("  OS/Arch:    %s/%s", runtime.GOOS, runtime.GOARCH))
	return sb.String()
}
