// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds bot tokens and encryption passphrases in memory
// that the garbage collector never sees.
//
// [Buffer] is backed by an anonymous mmap region that is locked into
// RAM (mlock) and excluded from core dumps (MADV_DONTDUMP). Close
// zeros, unlocks, and unmaps the region; any access afterwards panics.
//
// Constructors:
//
//   - [New] -- zero-filled buffer of a fixed size
//   - [NewFromBytes] -- copies into protected memory and zeros the source
//   - [NewFromString] -- for values that already arrived as strings
//     (environment variables, line prompts)
//   - [ReadFromPath] -- reads a file or stdin ("-"), trimming whitespace
//
// [Buffer.String] makes a heap copy and should only be used at API
// boundaries that insist on strings (discordgo, age).
package secret
