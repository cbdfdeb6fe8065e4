// Package version reports which yek build is running. Release builds stamp
// the values through -ldflags:
//
//	go build -ldflags "-X yek/pkg/version.Version=0.9.0 -X yek/pkg/version.Commit=$(git rev-parse --short HEAD)"
//
// A binary installed with `go install yek@v0.9.0` carries no ldflags; its
// module version and VCS stamp fill the gaps instead.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// AppName is reported by the version command and attached to every log line.
const AppName = "yek"

// Set by -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // GOOS/GOARCH
}

// Get returns the stamped values, completed from the embedded build info
// where the linker left the defaults.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi == nil {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "none" && s.Value != "" {
				info.GitCommit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.BuildTime == "unknown" && s.Value != "" {
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Short is what `yek version --short` prints.
func (i Info) Short() string {
	return i.Version
}

// String is the one-line form printed by --version, e.g.
//
//	yek version 0.9.0 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.23.1 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s) built at %s with %s on %s",
		AppName, i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
