// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"testing"

	"github.com/unifier-chat/unifier-install/lib/secret"
	"github.com/unifier-chat/unifier-install/lib/tokenstore"
)

func writeStore(t *testing.T, path, passphrase, token string) {
	t.Helper()
	key, err := secret.NewFromString(passphrase)
	if err != nil {
		t.Fatal(err)
	}
	defer key.Close()
	store, err := tokenstore.New(key, tokenstore.Options{WorkFactor: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	value, err := secret.NewFromString(token)
	if err != nil {
		t.Fatal(err)
	}
	defer value.Close()
	if err := store.Add(tokenstore.TokenName, value); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(path); err != nil {
		t.Fatal(err)
	}
}
