// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package tokenstore is the encrypted name/value store the bot reads its
// credentials from at boot (".encryptedenv").
//
// A [Store] is unlocked with the operator's encryption passphrase. Names
// are unique: [Store.Add] fails with [ErrExists] when the name is taken,
// and the caller switches to [Store.Replace], which re-checks the
// passphrase. [Store.Save] writes the whole store as a CBOR document
// sealed with lib/sealed.
//
// Values never leave secret.Buffer memory except at the CBOR boundary
// during Save/Open, where the heap copies are zeroed right after use.
// [Fingerprint] gives a short BLAKE3 digest that is safe to log.
package tokenstore
