// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command framework for unifier-install.
//
// The central type is [Command]: a named command with optional nested
// [Command.Subcommands], a [pflag.FlagSet] factory, and a Run function.
// [Command.Execute] handles flag parsing, subcommand routing, and help
// output with examples. A command may set both Run and Subcommands; a
// positional argument that names no subcommand then goes to Run, which
// is how the root command takes the install option.
//
// Unknown flags get a "did you mean" suggestion computed by Levenshtein
// distance (suggest.go).
//
// Errors returned by commands are usually [ToolError] values carrying
// an [ErrorCategory]; [ExitError] signals a non-zero exit whose message
// the command has already printed.
package cli
