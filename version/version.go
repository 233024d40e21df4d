// Package version reports the build a binary was produced from.
//
// Values come from -ldflags when set and fall back to the VCS stamps the
// Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/modkit/version.Version=1.2.0"
package version

import (
	"runtime/debug"
	"time"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Build describes the running binary.
type Build struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	Modified  bool      `json:"modified,omitempty"`
	BuiltAt   time.Time `json:"built_at,omitzero"`
	GoVersion string    `json:"go_version"`
}

// Current returns the build information of the running binary.
func Current() Build {
	b := Build{Version: Version, Commit: Commit}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		b.BuiltAt = t
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	b.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		case "vcs.time":
			if b.BuiltAt.IsZero() {
				b.BuiltAt, _ = time.Parse(time.RFC3339, s.Value)
			}
		}
	}
	return b
}

// Short returns "version", "version-commit" or "version-commit-dirty",
// with the commit cut to seven characters.
func (b Build) Short() string {
	if b.Commit == "" {
		return b.Version
	}
	commit := b.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	s := b.Version + "-" + commit
	if b.Modified {
		s += "-dirty"
	}
	return s
}

// Release reports whether the build carries a real version from a clean tree.
func (b Build) Release() bool {
	return b.Version != "" && b.Version != "dev" && !b.Modified
}
