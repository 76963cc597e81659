package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoStrings(t *testing.T) {
	info := Info{Name: Name, CommitHash: "0123456789abcdef", BuildTime: "today", Version: "dev"}

	assert.Equal(t, "qualify dev (commit 0123456, built today)", info.String())
	assert.Equal(t, "dev+0123456", info.ServerVersion())

	info.Version = "v0.3.0"
	assert.Equal(t, "v0.3.0", info.ServerVersion())

	info.CommitHash = "abc"
	assert.Equal(t, "qualify v0.3.0 (commit abc, built today)", info.String())
}

func TestWithBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
		},
	}

	unstamped := Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}.withBuildInfo(bi)
	assert.Equal(t, "v1.2.3", unstamped.Version)
	assert.Equal(t, "fedcba9876543210", unstamped.CommitHash)
	assert.Equal(t, "2026-10-01T00:00:00Z", unstamped.BuildTime)

	stamped := Info{Version: "v0.1.0", CommitHash: "1111111", BuildTime: "yesterday"}.withBuildInfo(bi)
	assert.Equal(t, Info{Version: "v0.1.0", CommitHash: "1111111", BuildTime: "yesterday"}, stamped)

	devel := Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}.withBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", devel.Version)
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Name, info.Name)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
