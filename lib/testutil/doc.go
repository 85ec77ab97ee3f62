// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so a hung goroutine fails the test instead of stalling the
// suite. [WriteFile] and [Checkout] lay out fixture files for tests
// that read a bot checkout from disk.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
