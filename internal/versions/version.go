// Package versions reports build metadata for router-api.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const unknown = "unknown"

// Set with -ldflags "-X github.com/transformhub/service-router/internal/versions.Version=..."
var (
	Version   = "dev"
	Commit    = unknown
	BuildDate = unknown
)

// VersionInfo is the build metadata served by /version and `router-api version`
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the linked build metadata. Development builds fall
// back to the VCS stamp embedded by the Go toolchain.
func GetVersionInfo() VersionInfo {
	var vcs map[string]string
	if strings.HasPrefix(Version, "dev") {
		vcs = vcsSettings()
	}
	return resolve(Version, Commit, BuildDate, vcs)
}

func vcsSettings() map[string]string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	out := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			out[s.Key] = s.Value
		}
	}
	return out
}

func resolve(version, commit, buildDate string, vcs map[string]string) VersionInfo {
	if commit == unknown && vcs["vcs.revision"] != "" {
		commit = vcs["vcs.revision"]
	}
	if buildDate == unknown && vcs["vcs.time"] != "" {
		buildDate = vcs["vcs.time"]
	}
	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 MST")
	}
	if version == "dev" {
		version = "build-" + shortCommit(commit)
	}

	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("router-api %s (commit %s, built %s, %s, %s)",
		v.Version, v.Commit, v.BuildDate, v.GoVersion, v.Platform)
}
