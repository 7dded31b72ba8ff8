package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags -X.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
	GoVersion string `json:"goVersion"`
	Dirty     bool   `json:"dirty"`
	Release   bool   `json:"release"`
}

// GetVersionInfo combines the link-time variables with the VCS stamps the
// Go toolchain embeds. Link-time values win.
func GetVersionInfo() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(&info, bi)
	}
	info.Release = info.Version != "dev" && !info.Dirty
	return info
}

func applyBuildInfo(info *Info, bi *debug.BuildInfo) {
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
}

// String renders the info as one line, e.g. "1.2.0 (3f2a9c1, built 2026-10-01T09:00:00Z, go1.26.0)".
func (i Info) String() string {
	var parts []string
	if i.GitCommit != "" {
		commit := i.GitCommit
		if i.Dirty {
			commit += "-dirty"
		}
		parts = append(parts, commit)
	}
	if i.BuildTime != "" {
		parts = append(parts, "built "+i.BuildTime)
	}
	if i.GoVersion != "" {
		parts = append(parts, i.GoVersion)
	}
	if len(parts) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(parts, ", "))
}
