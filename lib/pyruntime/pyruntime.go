// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package pyruntime checks that the host has a Python interpreter new
// enough to run the bot the installer is configuring.
package pyruntime

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

// Version is a parsed Python version.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// UnsupportedError reports an interpreter older than required.
type UnsupportedError struct {
	Found         Version
	RequiredMinor int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("python %s found, 3.%d or later is required", e.Found, e.RequiredMinor)
}

var versionPattern = regexp.MustCompile(`Python (\d+)\.(\d+)(?:\.(\d+))?`)

// Parse extracts the version from `python --version` output.
func Parse(output string) (Version, error) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return Version{}, fmt.Errorf("unrecognized version output %q", output)
	}
	var version Version
	version.Major, _ = strconv.Atoi(match[1])
	version.Minor, _ = strconv.Atoi(match[2])
	if match[3] != "" {
		version.Patch, _ = strconv.Atoi(match[3])
	}
	return version, nil
}

// Probe runs `<interpreter> --version`. The interpreter is resolved via
// PATH when it is not a path.
func Probe(ctx context.Context, interpreter string) (Version, error) {
	path, err := exec.LookPath(interpreter)
	if err != nil {
		return Version{}, fmt.Errorf("%s not found: %w", interpreter, err)
	}

	var output bytes.Buffer
	command := exec.CommandContext(ctx, path, "--version")
	// Python 2 printed the version on stderr.
	command.Stdout = &output
	command.Stderr = &output
	if err := command.Run(); err != nil {
		return Version{}, fmt.Errorf("running %s --version: %w", path, err)
	}
	return Parse(output.String())
}

// Check returns an *UnsupportedError unless version is Python 3 with a
// minor version of at least requiredMinor.
func Check(version Version, requiredMinor int) error {
	if version.Major != 3 || version.Minor < requiredMinor {
		return &UnsupportedError{Found: version, RequiredMinor: requiredMinor}
	}
	return nil
}
