// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the installer's build version.
//
// Release builds inject values with -ldflags:
//
//	go build -ldflags "-X github.com/unifier-chat/unifier-install/lib/version.Version=1.2.0 \
//	  -X github.com/unifier-chat/unifier-install/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Builds without ldflags (go install) fall back to the module version
// and VCS settings recorded in the binary's build info.
package version
