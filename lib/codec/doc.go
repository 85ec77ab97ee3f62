// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the CBOR encoding used inside the encrypted token
// store. Encoding follows RFC 8949 core deterministic rules (sorted map
// keys, shortest integers), so an unchanged store re-encrypts from
// identical plaintext. Time values encode as RFC 3339 text.
package codec
