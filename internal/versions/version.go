// Package versions provides build version information for the IssueBridge server.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const unknownStr = "unknown"

// Version information set by build using -ldflags
var (
	// Version is the current version of the IssueBridge server
	Version = "dev"
	// Commit is the git commit hash of the build
	Commit = unknownStr
	// BuildDate is the date when the binary was built
	BuildDate = unknownStr
)

// VersionInfo represents the version information
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the version information
func GetVersionInfo() VersionInfo {
	ver := Version
	commit := Commit
	buildDate := BuildDate

	if strings.HasPrefix(ver, "dev") {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if commit == unknownStr {
						commit = setting.Value
					}
				case "vcs.time":
					if buildDate == unknownStr {
						buildDate = setting.Value
					}
				}
			}
		}
	}

	if buildDate != unknownStr {
		if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
			buildDate = t.Format("2006-01-02 15:04:05 MST")
		}
	}

	// If the version is just "dev", manufacture a version string from the commit.
	if ver == "dev" && commit != unknownStr {
		ver = fmt.Sprintf("build-%.8s", commit)
	}

	return VersionInfo{
		Version:   ver,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
