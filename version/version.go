// Package version reports what qualify binary is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Name is reported to language clients and in `qualify version`.
const Name = "qualify"

const unset = "dev"

// Set with -ldflags "-X github.com/teranos/qualify/version.Version=...".
// Left unset, Get falls back to the VCS stamp the go tool embeds.
var (
	Version    = unset
	CommitHash = unset
	BuildTime  = "unknown"
)

// Info describes the running binary.
type Info struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the build information of the running binary.
func Get() Info {
	info := Info{
		Name:       Name,
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = info.withBuildInfo(bi)
	}
	return info
}

// withBuildInfo fills fields ldflags left unset from the embedded module
// and VCS settings.
func (i Info) withBuildInfo(bi *debug.BuildInfo) Info {
	if i.Version == unset && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.CommitHash == unset {
				i.CommitHash = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "unknown" {
				i.BuildTime = s.Value
			}
		}
	}
	return i
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", i.Name, i.Version, i.commit(), i.BuildTime)
}

// ServerVersion is the version string sent in the LSP initialize result.
func (i Info) ServerVersion() string {
	if i.Version != unset {
		return i.Version
	}
	return unset + "+" + i.commit()
}

func (i Info) commit() string {
	if len(i.CommitHash) > 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
