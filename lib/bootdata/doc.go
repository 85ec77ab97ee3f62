// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package bootdata loads the two read-only documents that ship with a
// Unifier checkout and drive the installer:
//
//   - boot/internal.json ([Internal]): product identity, the minimum
//     Python minor version, whether server setup is skipped, and the
//     list of install [Option] records.
//   - boot_config.json ([BootConfig]): operator flags, of which the
//     installer reads only "ptero".
//
// Both files are JSON; // and /* */ comments and trailing commas are
// accepted (tidwall/jsonc). Loaded values are never mutated afterwards
// and are passed explicitly to the components that need them.
//
// [SelectOption] picks the install option from an explicit argument or
// the first default-flagged record.
package bootdata
