// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package console renders the installer's operator-facing output.
//
// A [Printer] writes four kinds of line, each with its own style:
// prompts and instructions (yellow), progress and success (cyan),
// errors (red), and security warnings (white on red). Styling is
// applied only when the destination is a terminal and NO_COLOR is
// unset; otherwise every line is plain text, so logs captured by a
// hosting panel stay readable.
//
// Strings that came from Discord (usernames, guild names) go through
// [Sanitize] before printing so they cannot smuggle escape sequences
// into the operator's terminal.
package console
