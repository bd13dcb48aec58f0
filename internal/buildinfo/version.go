// Package buildinfo reports the squatcheck version from Go build metadata.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"go_version"`
}

// String renders the info on one line, e.g. "squatcheck v0.2.0 (go1.25.8)".
func (i Info) String() string {
	return fmt.Sprintf("squatcheck %s (%s)", i.Version, i.GoVersion)
}

// Read returns the build info of the running binary.
func Read() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Version: "unknown", GoVersion: runtime.Version()}
	}
	return fromBuildInfo(info)
}

// Version returns the version string for the current build.
//
// Tagged builds (go install from a tag) report the tag. Development builds
// report "dev-<hash>", "dev-<hash>-dirty" or plain "dev" without VCS info.
func Version() string {
	return Read().Version
}

func fromBuildInfo(info *debug.BuildInfo) Info {
	out := Info{GoVersion: info.GoVersion}
	if out.GoVersion == "" {
		out.GoVersion = runtime.Version()
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			out.Commit = setting.Value
		case "vcs.modified":
			out.Dirty = setting.Value == "true"
		}
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		out.Version = info.Main.Version
		return out
	}
	out.Version = devVersion(out.Commit, out.Dirty)
	return out
}

func devVersion(revision string, dirty bool) string {
	if revision == "" {
		return "dev"
	}

	// 12 characters, the usual short hash
	if len(revision) > 12 {
		revision = revision[:12]
	}

	version := "dev-" + revision
	if dirty {
		version += "-dirty"
	}
	return version
}
