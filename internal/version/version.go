// Package version reports the build version of rdmscope.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/rdmscope/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/rdmscope/internal/version.Commit=abc1234"
//
// Unset values are taken from the VCS stamp in the build info, or "dev".
var (
	Version = ""
	Commit  = ""
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var (
	once sync.Once
	info Info
)

// Get returns the build information, resolved once
func Get() Info {
	once.Do(func() {
		info = resolve(Version, Commit)
		Version, Commit = info.Version, info.Commit
	})
	return info
}

func resolve(version, commit string) Info {
	i := Info{
		Version:   version,
		Commit:    commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if i.Commit == "" {
					i.Commit = shortHash(s.Value)
				}
			case "vcs.modified":
				i.Modified = s.Value == "true"
			case "vcs.time":
				i.BuiltAt = s.Value
			}
		}
		if i.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			i.Version = bi.Main.Version
		}
	}

	if i.Version == "" {
		stamp := time.Now()
		if t, err := time.Parse(time.RFC3339, i.BuiltAt); err == nil {
			stamp = t
		}
		i.Version = "dev-" + stamp.Format("20060102")
	}
	if i.Commit == "" {
		i.Commit = "unknown"
	} else if i.Modified {
		i.Commit += "-dirty"
	}
	return i
}

func shortHash(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Full returns the full version string including commit
func Full() string {
	i := Get()
	return fmt.Sprintf("%s (commit: %s)", i.Version, i.Commit)
}

// UserAgent identifies rdmscope to peers
func UserAgent() string {
	return "rdmscope/" + Get().Version
}

func (i Info) String() string {
	s := fmt.Sprintf("rdmscope %s\n  commit:   %s\n  go:       %s\n  platform: %s",
		i.Version, i.Commit, i.GoVersion, i.Platform)
	if i.BuiltAt != "" {
		s += "\n  built:    " + i.BuiltAt
	}
	return s
}
