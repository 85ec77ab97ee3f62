// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package container reports whether the installer runs inside a Docker
// container. Hosting panels such as Pterodactyl run the bot that way,
// and the installer only honors the panel flag in boot_config.json when
// this check passes.
package container

import (
	"os"
	"strings"
)

// Signature is the substring a Docker cgroup descriptor contains.
const Signature = "docker"

// Probe names the files Detect inspects.
type Probe struct {
	// MarkerPath is the file Docker creates in every container root.
	MarkerPath string

	// CgroupPath is the process's cgroup descriptor.
	CgroupPath string
}

// DefaultProbe inspects the real paths.
var DefaultProbe = Probe{
	MarkerPath: "/.dockerenv",
	CgroupPath: "/proc/self/cgroup",
}

// Detect returns true if the marker file is a regular file, or the
// cgroup descriptor contains Signature. An unreadable descriptor counts
// as not containerized.
func Detect(probe Probe) bool {
	if info, err := os.Stat(probe.MarkerPath); err == nil && info.Mode().IsRegular() {
		return true
	}
	data, err := os.ReadFile(probe.CgroupPath)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), Signature)
}
