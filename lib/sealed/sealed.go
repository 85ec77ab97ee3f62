// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/unifier-chat/unifier-install/lib/secret"
)

// DefaultWorkFactor is the scrypt log2(N) used for new files. It matches
// the age command line default and costs roughly a second on a laptop.
const DefaultWorkFactor = 18

// maxWorkFactor bounds the scrypt cost accepted when opening a file, so
// a crafted header cannot pin the installer for minutes.
const maxWorkFactor = 22

// ErrWrongPassphrase is returned by Open when the passphrase does not
// unlock the file.
var ErrWrongPassphrase = errors.New("sealed: wrong passphrase")

// Seal encrypts plaintext to passphrase and returns armored ciphertext.
// A workFactor of zero selects DefaultWorkFactor.
func Seal(plaintext []byte, passphrase *secret.Buffer, workFactor int) ([]byte, error) {
	if passphrase == nil || passphrase.Len() == 0 {
		return nil, fmt.Errorf("sealed: passphrase is required")
	}
	if workFactor == 0 {
		workFactor = DefaultWorkFactor
	}
	if workFactor < 1 || workFactor > maxWorkFactor {
		return nil, fmt.Errorf("sealed: work factor %d out of range 1..%d", workFactor, maxWorkFactor)
	}

	recipient, err := age.NewScryptRecipient(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("sealed: creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(workFactor)

	var output bytes.Buffer
	armorWriter := armor.NewWriter(&output)
	writer, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("sealed: creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("sealed: writing plaintext: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("sealed: finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("sealed: finalizing armor: %w", err)
	}
	return output.Bytes(), nil
}

// Open decrypts armored ciphertext produced by Seal. The plaintext is
// returned in a secret.Buffer the caller must Close. A passphrase that
// does not match yields ErrWrongPassphrase.
func Open(ciphertext []byte, passphrase *secret.Buffer) (*secret.Buffer, error) {
	if passphrase == nil || passphrase.Len() == 0 {
		return nil, fmt.Errorf("sealed: passphrase is required")
	}

	identity, err := age.NewScryptIdentity(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("sealed: creating scrypt identity: %w", err)
	}
	identity.SetMaxWorkFactor(maxWorkFactor)

	reader, err := age.Decrypt(armor.NewReader(bytes.NewReader(ciphertext)), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("sealed: decrypting: %w", err)
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("sealed: reading plaintext: %w", err)
	}
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("sealed: file decrypted to empty plaintext")
	}

	buffer, err := secret.NewFromBytes(plaintext)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("sealed: protecting plaintext: %w", err)
	}
	return buffer, nil
}
