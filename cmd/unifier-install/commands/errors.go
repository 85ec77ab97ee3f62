// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"io/fs"

	"github.com/unifier-chat/unifier-install/cmd/unifier-install/cli"
	"github.com/unifier-chat/unifier-install/lib/bootdata"
	"github.com/unifier-chat/unifier-install/lib/console"
	"github.com/unifier-chat/unifier-install/lib/installer"
	"github.com/unifier-chat/unifier-install/lib/ownercheck"
	"github.com/unifier-chat/unifier-install/lib/prompt"
	"github.com/unifier-chat/unifier-install/lib/pyruntime"
	"github.com/unifier-chat/unifier-install/lib/tokenstore"
)

// describeFailure prints the operator-facing explanation of an install
// failure and returns the categorized error for main.
func describeFailure(printer *console.Printer, err error) error {
	var connectErr *ownercheck.ConnectError
	var unsupported *pyruntime.UnsupportedError
	var missing *installer.MissingInputError

	// Cancellation comes first: an interrupt during login arrives
	// wrapped in a ConnectError.
	switch {
	case errors.Is(err, prompt.ErrInterrupted), errors.Is(err, context.Canceled):
		printer.Error("Aborted.")
		return &cli.ExitError{Code: 1}

	case errors.As(err, &connectErr):
		printer.Error("Login failed. Perhaps your token is invalid?")
		printer.Error("Make sure Server Members and Message Content intents are enabled for the bot.")
		if connectErr.Unauthorized() {
			return cli.Forbidden("%w", err)
		}
		return cli.Transient("%w", err)

	case errors.Is(err, ownercheck.ErrBotRejected), errors.Is(err, ownercheck.ErrOwnerNotVerified):
		printer.Error("Aborted: %v.", err)
		return &cli.ExitError{Code: 1}

	case errors.Is(err, context.DeadlineExceeded):
		printer.Error("The install timed out.")
		return cli.Transient("%w", err)

	case errors.As(err, &unsupported):
		// checkRuntime already printed the operator message.
		return cli.Validation("%w", err)

	case errors.As(err, &missing), errors.Is(err, installer.ErrInvalidOwnerID), errors.Is(err, prompt.ErrNoAnswer),
		errors.Is(err, bootdata.ErrUnknownOption):
		return cli.Validation("%w", err)

	case errors.Is(err, prompt.ErrNoInput):
		return cli.Validation("input ended before the install finished: %w", err)

	case errors.Is(err, tokenstore.ErrBadPassphrase):
		printer.Error("The passphrase does not unlock the existing token store.")
		return cli.Forbidden("%w", err)

	case errors.Is(err, fs.ErrNotExist):
		return cli.NotFound("%w", err)
	}
	return cli.Internal("%w", err)
}
