// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package runtimeconfig edits the bot's config.toml.
//
// The installer owns two fields, roles.owner and moderation.home_guild.
// Everything else in the file is kept as decoded, so operator settings
// survive the rewrite; comments and key order do not, because the file
// is re-encoded whole (pelletier/go-toml/v2 sorts keys). The write is a
// plain truncate-and-write without an atomic swap.
package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	// OwnerTable and OwnerKey locate the instance owner's user ID.
	OwnerTable = "roles"
	OwnerKey   = "owner"

	// HomeGuildTable and HomeGuildKey locate the home guild ID.
	HomeGuildTable = "moderation"
	HomeGuildKey   = "home_guild"
)

// Document is a decoded config.toml.
type Document struct {
	values map[string]any
}

// Load reads and decodes path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	document, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return document, nil
}

// Parse decodes TOML data.
func Parse(data []byte) (*Document, error) {
	values := make(map[string]any)
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return &Document{values: values}, nil
}

// SetOwner sets roles.owner.
func (d *Document) SetOwner(userID uint64) error {
	return d.setID(OwnerTable, OwnerKey, userID)
}

// SetHomeGuild sets moderation.home_guild.
func (d *Document) SetHomeGuild(guildID uint64) error {
	return d.setID(HomeGuildTable, HomeGuildKey, guildID)
}

// Owner returns roles.owner, if present and an integer.
func (d *Document) Owner() (int64, bool) {
	return d.Int(OwnerTable, OwnerKey)
}

// HomeGuild returns moderation.home_guild, if present and an integer.
func (d *Document) HomeGuild() (int64, bool) {
	return d.Int(HomeGuildTable, HomeGuildKey)
}

// Int returns table.key as an integer.
func (d *Document) Int(table, key string) (int64, bool) {
	section, ok := d.values[table].(map[string]any)
	if !ok {
		return 0, false
	}
	value, ok := section[key].(int64)
	return value, ok
}

// Has reports whether table.key is present with any type.
func (d *Document) Has(table, key string) bool {
	section, ok := d.values[table].(map[string]any)
	if !ok {
		return false
	}
	_, ok = section[key]
	return ok
}

// setID writes a Discord snowflake as a TOML integer, creating the
// table when missing. Snowflakes fit in 63 bits; larger values are
// rejected rather than wrapped.
func (d *Document) setID(table, key string, id uint64) error {
	if id > math.MaxInt64 {
		return fmt.Errorf("%s.%s: %d does not fit in a TOML integer", table, key, id)
	}

	section, present := d.values[table]
	if !present {
		section = make(map[string]any)
		d.values[table] = section
	}
	fields, ok := section.(map[string]any)
	if !ok {
		return fmt.Errorf("%s is a %T, not a table", table, section)
	}
	fields[key] = int64(id)
	return nil
}

// Marshal encodes the document as TOML.
func (d *Document) Marshal() ([]byte, error) {
	return toml.Marshal(d.values)
}

// Save rewrites path with the encoded document, keeping the existing
// file mode (0644 for a new file).
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, data, mode)
}
