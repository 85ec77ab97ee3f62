// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts small documents under an operator passphrase
// with filippo.io/age.
//
// The passphrase goes through age's scrypt recipient, so the output is
// a standard age file that `age -d` can open with the same passphrase.
// Output is ASCII armored ("-----BEGIN AGE ENCRYPTED FILE-----") so it
// survives copy and paste through hosting panels.
//
// Passphrases and decrypted plaintext are [secret.Buffer] values. The
// token store in lib/tokenstore is the only caller.
package sealed
