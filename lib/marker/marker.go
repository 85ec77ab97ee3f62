// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package marker writes and reads .install.json, the record the bot's
// launcher checks on start to know that first-run installation has
// happened and which install option was chosen.
package marker

import (
	"encoding/json"
	"fmt"
	"os"
)

// Marker is the content of .install.json. Setup stays false after the
// installer: it flips to true once the bot's own in-chat setup finishes.
type Marker struct {
	Product string `json:"product"`
	Setup   bool   `json:"setup"`

	// Option is nil when no install option was selected, encoded as
	// JSON null.
	Option *string `json:"option"`
}

// New returns the marker the installer writes on completion.
func New(product, option string, selected bool) Marker {
	result := Marker{Product: product}
	if selected {
		result.Option = &option
	}
	return result
}

// Write encodes m to path, replacing any existing file.
func Write(path string, m Marker) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding install marker: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing install marker: %w", err)
	}
	return nil
}

// Read decodes the marker at path.
func Read(path string) (Marker, error) {
	var m Marker
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}
