// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	marker := filepath.Join(directory, ".dockerenv")
	if err := os.WriteFile(marker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	dockerCgroup := filepath.Join(directory, "cgroup-docker")
	if err := os.WriteFile(dockerCgroup, []byte("0::/docker/4f3c2a1b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	hostCgroup := filepath.Join(directory, "cgroup-host")
	if err := os.WriteFile(hostCgroup, []byte("0::/user.slice/user-1000.slice\n"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(directory, "missing")

	tests := []struct {
		name  string
		probe Probe
		want  bool
	}{
		{"marker only", Probe{MarkerPath: marker, CgroupPath: missing}, true},
		{"cgroup signature", Probe{MarkerPath: missing, CgroupPath: dockerCgroup}, true},
		{"both", Probe{MarkerPath: marker, CgroupPath: dockerCgroup}, true},
		{"host cgroup", Probe{MarkerPath: missing, CgroupPath: hostCgroup}, false},
		{"unreadable cgroup", Probe{MarkerPath: missing, CgroupPath: missing}, false},
		{"marker is a directory", Probe{MarkerPath: directory, CgroupPath: hostCgroup}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Detect(test.probe); got != test.want {
				t.Errorf("Detect() = %v, want %v", got, test.want)
			}
		})
	}
}
