// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the unifier-install command tree.
//
// The root command is the install itself; "options", "check" and
// "version" are subcommands. Every command shares the checkout flags
// (--dir, --config, --env-file, --verbose) defined in common.go.
package commands
