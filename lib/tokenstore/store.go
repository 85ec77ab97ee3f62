// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/zeebo/blake3"

	"github.com/unifier-chat/unifier-install/lib/codec"
	"github.com/unifier-chat/unifier-install/lib/sealed"
	"github.com/unifier-chat/unifier-install/lib/secret"
)

// TokenName is the entry the bot's Discord token is stored under.
const TokenName = "TOKEN"

// formatVersion is written into every saved document. Open rejects
// documents with a newer version.
const formatVersion = 1

var (
	// ErrExists is returned by Add when the name is already present.
	ErrExists = errors.New("tokenstore: name already exists")

	// ErrNotFound is returned when a name is not present.
	ErrNotFound = errors.New("tokenstore: name not found")

	// ErrBadPassphrase is returned when a passphrase does not unlock the
	// store, either on Open or on Replace.
	ErrBadPassphrase = errors.New("tokenstore: passphrase does not match")
)

// Options tunes a Store. The zero value is production-ready.
type Options struct {
	// WorkFactor is the scrypt log2(N) used by Save. Zero selects
	// sealed.DefaultWorkFactor.
	WorkFactor int

	// Now stamps entries on Add and Replace. Defaults to time.Now.
	Now func() time.Time
}

// Store is an in-memory view of the encrypted store. Not safe for
// concurrent use.
type Store struct {
	passphrase *secret.Buffer
	entries    map[string]*entry
	workFactor int
	now        func() time.Time
}

type entry struct {
	value     *secret.Buffer
	updatedAt time.Time
}

// document is the CBOR plaintext inside the sealed file.
type document struct {
	Version int                      `cbor:"version"`
	Entries map[string]documentEntry `cbor:"entries"`
}

type documentEntry struct {
	Value     []byte    `cbor:"value"`
	UpdatedAt time.Time `cbor:"updated_at"`
}

// New returns an empty store locked with a copy of passphrase. The
// caller keeps ownership of passphrase.
func New(passphrase *secret.Buffer, options Options) (*Store, error) {
	if passphrase == nil || passphrase.Len() == 0 {
		return nil, fmt.Errorf("tokenstore: passphrase is required")
	}
	owned, err := copyBuffer(passphrase)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: protecting passphrase: %w", err)
	}

	now := options.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		passphrase: owned,
		entries:    make(map[string]*entry),
		workFactor: options.WorkFactor,
		now:        now,
	}, nil
}

// Open loads the store at path. A missing file yields an empty store,
// so a first install and a reinstall go through the same calls.
func Open(path string, passphrase *secret.Buffer, options Options) (*Store, error) {
	store, err := New(passphrase, options)
	if err != nil {
		return nil, err
	}

	ciphertext, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("tokenstore: reading %s: %w", path, err)
	}

	plaintext, err := sealed.Open(ciphertext, store.passphrase)
	if err != nil {
		store.Close()
		if errors.Is(err, sealed.ErrWrongPassphrase) {
			return nil, ErrBadPassphrase
		}
		return nil, fmt.Errorf("tokenstore: opening %s: %w", path, err)
	}
	defer plaintext.Close()

	var decoded document
	if err := codec.Unmarshal(plaintext.Bytes(), &decoded); err != nil {
		store.Close()
		return nil, fmt.Errorf("tokenstore: decoding %s: %w", path, err)
	}
	if decoded.Version > formatVersion {
		store.Close()
		return nil, fmt.Errorf("tokenstore: %s has format version %d, this installer supports %d", path, decoded.Version, formatVersion)
	}

	for name, stored := range decoded.Entries {
		value, err := secret.NewFromBytes(stored.Value)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("tokenstore: protecting %q: %w", name, err)
		}
		store.entries[name] = &entry{value: value, updatedAt: stored.UpdatedAt}
	}
	return store, nil
}

// Add stores a copy of value under name. Returns ErrExists if the name
// is already present.
func (s *Store) Add(name string, value *secret.Buffer) error {
	if name == "" {
		return fmt.Errorf("tokenstore: name is required")
	}
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("%w: %q", ErrExists, name)
	}
	return s.put(name, value)
}

// Replace overwrites an existing entry. The passphrase must match the
// one the store was unlocked with.
func (s *Store) Replace(name string, value *secret.Buffer, passphrase *secret.Buffer) error {
	if !s.passphrase.Equal(passphrase) {
		return ErrBadPassphrase
	}
	previous, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := s.put(name, value); err != nil {
		return err
	}
	previous.value.Close()
	return nil
}

func (s *Store) put(name string, value *secret.Buffer) error {
	if value == nil || value.Len() == 0 {
		return fmt.Errorf("tokenstore: value for %q is empty", name)
	}
	owned, err := copyBuffer(value)
	if err != nil {
		return fmt.Errorf("tokenstore: protecting %q: %w", name, err)
	}
	s.entries[name] = &entry{value: owned, updatedAt: s.now().UTC()}
	return nil
}

// Get returns a copy of the value stored under name. The caller must
// Close it.
func (s *Store) Get(name string) (*secret.Buffer, error) {
	stored, exists := s.entries[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return copyBuffer(stored.value)
}

// Fingerprint returns the loggable digest of the value stored under name.
func (s *Store) Fingerprint(name string) (string, error) {
	stored, exists := s.entries[name]
	if !exists {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return Fingerprint(stored.value.Bytes()), nil
}

// UpdatedAt returns when name was last added or replaced.
func (s *Store) UpdatedAt(name string) (time.Time, error) {
	stored, exists := s.entries[name]
	if !exists {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return stored.updatedAt, nil
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save seals the store and writes it to path with mode 0600, replacing
// any previous contents.
func (s *Store) Save(path string) error {
	decoded := document{
		Version: formatVersion,
		Entries: make(map[string]documentEntry, len(s.entries)),
	}
	for name, stored := range s.entries {
		decoded.Entries[name] = documentEntry{
			Value:     append([]byte(nil), stored.value.Bytes()...),
			UpdatedAt: stored.updatedAt,
		}
	}
	plaintext, err := codec.Marshal(decoded)
	for _, stored := range decoded.Entries {
		secret.Zero(stored.Value)
	}
	if err != nil {
		return fmt.Errorf("tokenstore: encoding: %w", err)
	}

	ciphertext, err := sealed.Seal(plaintext, s.passphrase, s.workFactor)
	secret.Zero(plaintext)
	if err != nil {
		return fmt.Errorf("tokenstore: sealing: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("tokenstore: writing %s: %w", path, err)
	}
	// An existing file keeps its old mode through O_TRUNC.
	if err := file.Chmod(0600); err != nil {
		file.Close()
		return fmt.Errorf("tokenstore: restricting %s: %w", path, err)
	}
	if _, err := file.Write(ciphertext); err != nil {
		file.Close()
		return fmt.Errorf("tokenstore: writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("tokenstore: writing %s: %w", path, err)
	}
	return nil
}

// Close releases the passphrase and every stored value. Idempotent.
func (s *Store) Close() error {
	var errs []error
	for name, stored := range s.entries {
		if err := stored.value.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(s.entries, name)
	}
	if err := s.passphrase.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Fingerprint returns the first 8 bytes of a domain-separated BLAKE3
// digest of value, hex encoded.
func Fingerprint(value []byte) string {
	hasher := blake3.New()
	hasher.Write([]byte("unifier.tokenstore.fingerprint.v1\x00"))
	hasher.Write(value)
	sum := hasher.Sum(nil)
	return hex.EncodeToString(sum[:8])
}

func copyBuffer(source *secret.Buffer) (*secret.Buffer, error) {
	return secret.NewFromBytes(append([]byte(nil), source.Bytes()...))
}
