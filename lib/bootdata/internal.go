// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package bootdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Option is one install path, e.g. plain install or hosting-panel
// integration.
type Option struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default"`
}

// Internal is the product metadata document (boot/internal.json).
type Internal struct {
	// Product is the machine name written into .install.json.
	Product string `json:"product"`

	// ProductName is the display name used in operator messages.
	ProductName string `json:"product_name"`

	// Maintainer is named in the "never share your token" warnings.
	Maintainer string `json:"maintainer"`

	// RequiredPyVersion is the minimum Python 3 minor version the bot
	// runs on. Zero disables the check.
	RequiredPyVersion int `json:"required_py_version"`

	// SkipServer leaves moderation.home_guild untouched.
	SkipServer bool `json:"skip_server"`

	// Options are the install paths in display order.
	Options []Option `json:"options"`
}

// LoadInternal reads and validates boot/internal.json.
func LoadInternal(path string) (*Internal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var internal Internal
	if err := json.Unmarshal(jsonc.ToJSON(data), &internal); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if internal.ProductName == "" {
		internal.ProductName = internal.Product
	}
	if internal.Maintainer == "" {
		internal.Maintainer = "the " + internal.ProductName + " maintainers"
	}
	if err := internal.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &internal, nil
}

// Validate checks the fields the installer depends on.
func (i *Internal) Validate() error {
	var errs []error

	if i.Product == "" {
		errs = append(errs, fmt.Errorf("product is required"))
	}
	if i.RequiredPyVersion < 0 {
		errs = append(errs, fmt.Errorf("required_py_version must not be negative, got %d", i.RequiredPyVersion))
	}

	seen := make(map[string]bool, len(i.Options))
	for index, option := range i.Options {
		if option.ID == "" {
			errs = append(errs, fmt.Errorf("options[%d]: id is required", index))
			continue
		}
		if seen[option.ID] {
			errs = append(errs, fmt.Errorf("options[%d]: duplicate id %q", index, option.ID))
		}
		seen[option.ID] = true
	}

	return errors.Join(errs...)
}

// Warnings reports recoverable problems with the option list: no
// default, or more than one (the first one wins).
func (i *Internal) Warnings() []string {
	var defaults []string
	for _, option := range i.Options {
		if option.Default {
			defaults = append(defaults, option.ID)
		}
	}

	switch {
	case len(i.Options) > 0 && len(defaults) == 0:
		return []string{"no install option is flagged as default; the product default behavior applies"}
	case len(defaults) > 1:
		return []string{fmt.Sprintf("%d install options are flagged as default (%v); using %q", len(defaults), defaults, defaults[0])}
	}
	return nil
}

// OptionIDs returns the declared option identifiers in order.
func (i *Internal) OptionIDs() []string {
	ids := make([]string, len(i.Options))
	for index, option := range i.Options {
		ids[index] = option.ID
	}
	return ids
}
