// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package bootdata

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOption is returned when an explicit option is not declared.
var ErrUnknownOption = errors.New("unknown install option")

// SelectOption returns the install option to use. A non-empty explicit
// identifier wins and must name a declared option. Otherwise the first
// default-flagged option is used. ok is false when neither applies;
// callers then fall back to the product's default behavior.
func SelectOption(options []Option, explicit string) (id string, ok bool, err error) {
	if explicit != "" {
		for _, option := range options {
			if option.ID == explicit {
				return option.ID, true, nil
			}
		}
		known := make([]string, len(options))
		for index, option := range options {
			known[index] = option.ID
		}
		return "", false, fmt.Errorf("%w %q (available: %s)", ErrUnknownOption, explicit, strings.Join(known, ", "))
	}

	for _, option := range options {
		if option.Default {
			return option.ID, true, nil
		}
	}
	return "", false, nil
}
