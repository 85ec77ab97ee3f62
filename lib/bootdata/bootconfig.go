// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package bootdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// BootConfig is the operator's boot_config.json.
type BootConfig struct {
	// Ptero enables Pterodactyl panel support. It only takes effect
	// inside a container.
	Ptero bool

	// Raw holds every key in the file, for display by the check command.
	Raw map[string]any
}

// LoadBootConfig reads boot_config.json. A non-boolean "ptero" value is
// an error rather than being silently treated as false.
func LoadBootConfig(path string) (*BootConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	config := &BootConfig{Raw: raw}
	if value, present := raw["ptero"]; present {
		ptero, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("parsing %s: ptero must be a boolean, got %T", path, value)
		}
		config.Ptero = ptero
	}
	return config, nil
}

// PteroSupport reports whether hosting-panel behavior applies: the flag
// is set and the process is containerized.
func (b *BootConfig) PteroSupport(containerized bool) bool {
	return containerized && b.Ptero
}
