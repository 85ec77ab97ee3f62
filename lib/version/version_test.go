// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	original := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = original })
}

func TestInfo_Ldflags(t *testing.T) {
	originalVersion, originalCommit, originalDirty, originalTime := Version, GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { Version, GitCommit, GitDirty, BuildTime = originalVersion, originalCommit, originalDirty, originalTime })

	Version, GitCommit, GitDirty, BuildTime = "1.4.0", "abc1234", "true", "2026-10-01T00:00:00Z"
	if got, want := Info(), "1.4.0 (abc1234-dirty, 2026-10-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if Short() != "1.4.0" {
		t.Errorf("Short() = %q", Short())
	}
}

func TestInfo_BuildInfoFallback(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v1.5.2"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.modified", Value: "false"},
			{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
		},
	})

	if got, want := Info(), "v1.5.2 (0123456789ab, 2026-09-30T12:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestInfo_DevelBuild(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	if Short() != Version {
		t.Errorf("Short() = %q, want the ldflags default %q", Short(), Version)
	}
}

func TestFull(t *testing.T) {
	withBuildInfo(t, nil)
	if !strings.Contains(Full(), "Go: go") {
		t.Errorf("Full() = %q", Full())
	}
}
