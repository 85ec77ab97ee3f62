// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// IsDiscordError reports whether err wraps a *discordgo.RESTError whose
// JSON body carries the given error code (discordgo.ErrCodeUnknownMember
// and friends).
func IsDiscordError(err error, code int) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		return restErr.Message != nil && restErr.Message.Code == code
	}
	return false
}

// IsUnauthorized reports whether Discord rejected the token.
func IsUnauthorized(err error) bool {
	if errors.Is(err, discordgo.ErrUnauthorized) {
		return true
	}
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the HTTP status of a wrapped REST error, or 0.
func StatusCode(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode
	}
	return 0
}
