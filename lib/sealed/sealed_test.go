// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"testing"

	"github.com/unifier-chat/unifier-install/lib/secret"
)

// testWorkFactor keeps scrypt cheap in tests.
const testWorkFactor = 4

func passphrase(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := passphrase(t, "correct horse battery staple")
	plaintext := []byte("TOKEN=MTA5ODc2NTQzMjEw.abc.def")

	ciphertext, err := Seal(append([]byte(nil), plaintext...), key, testWorkFactor)
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	if !bytes.HasPrefix(ciphertext, []byte("-----BEGIN AGE ENCRYPTED FILE-----")) {
		t.Errorf("ciphertext is not armored: %q", ciphertext[:40])
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	opened, err := Open(ciphertext, key)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer opened.Close()
	if !bytes.Equal(opened.Bytes(), plaintext) {
		t.Errorf("Open() = %q, want %q", opened.Bytes(), plaintext)
	}
}

func TestOpen_WrongPassphrase(t *testing.T) {
	ciphertext, err := Seal([]byte("payload"), passphrase(t, "right"), testWorkFactor)
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	_, err = Open(ciphertext, passphrase(t, "wrong"))
	if !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("Open() error = %v, want ErrWrongPassphrase", err)
	}
}

func TestOpen_Garbage(t *testing.T) {
	_, err := Open([]byte("not an age file"), passphrase(t, "anything"))
	if err == nil {
		t.Fatal("Open() of garbage should fail")
	}
	if errors.Is(err, ErrWrongPassphrase) {
		t.Error("garbage input reported as wrong passphrase")
	}
}

func TestSeal_Validation(t *testing.T) {
	if _, err := Seal([]byte("x"), nil, testWorkFactor); err == nil {
		t.Error("Seal() with nil passphrase should fail")
	}
	if _, err := Seal([]byte("x"), passphrase(t, "p"), 40); err == nil {
		t.Error("Seal() with excessive work factor should fail")
	}
}
