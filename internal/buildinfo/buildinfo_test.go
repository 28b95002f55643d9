package buildinfo

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
}

func TestReadFromBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.24.1",
		Main:      debug.Module{Path: "github.com/aidanlsb/kbaudit", Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2025-02-14T17:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "windows"},
			{Key: "GOARCH", Value: "amd64"},
		},
	}, true)

	info := Read()
	if info.Version != "v0.4.0" || info.Commit != "abc123" || !info.Modified {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Platform != "windows/amd64" || info.GoVersion != "go1.24.1" {
		t.Errorf("unexpected platform: %+v", info)
	}
}

func TestReadFallsBackToLdflags(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)

	prevVersion, prevCommit, prevDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = prevVersion, prevCommit, prevDate })
	Version, Commit, Date = "v1.0.0", "def456", "2025-03-01"

	info := Read()
	if info.Version != "v1.0.0" || info.Commit != "def456" || info.CommitTime != "2025-03-01" {
		t.Errorf("ldflags not applied: %+v", info)
	}
	if info.ModulePath != ModulePath {
		t.Errorf("ModulePath = %q", info.ModulePath)
	}
}

func TestReadWithoutBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil, false)
	if got := Read().Version; got != "devel" {
		t.Errorf("Version = %q, want devel", got)
	}
}
