// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/unifier-chat/unifier-install/lib/console"
	"github.com/unifier-chat/unifier-install/lib/prompt"
	"github.com/unifier-chat/unifier-install/lib/secret"
)

// ErrInvalidOwnerID is returned when no valid owner ID was supplied.
var ErrInvalidOwnerID = errors.New("invalid owner user ID")

// MissingInputError is returned when a value is needed, no file or
// environment variable supplies it, and there is no interactive input.
type MissingInputError struct {
	What     string
	EnvNames []string
}

func (e *MissingInputError) Error() string {
	if len(e.EnvNames) == 0 {
		return fmt.Sprintf("no %s available: run the installer interactively", e.What)
	}
	return fmt.Sprintf("no %s available: set %s or run the installer interactively", e.What, e.EnvNames[0])
}

// ParseSnowflake parses a Discord ID. IDs are positive and fit in a
// signed 64-bit integer, which is how config.toml stores them.
func ParseSnowflake(value string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidOwnerID, value)
	}
	if id == 0 || id > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d is out of range", ErrInvalidOwnerID, id)
	}
	return id, nil
}

// collector resolves the values the install needs. Files named on the
// command line win, then environment variables, then the prompter.
type collector struct {
	prompter  prompt.Prompter
	printer   *console.Printer
	lookupEnv func(string) (string, bool)

	// console is set for hosting panels, whose console input echoes.
	console bool
}

// lookup returns the first non-empty variable among names.
func (c *collector) lookup(names []string) (value, name string, ok bool) {
	for _, name := range names {
		if value, ok := c.lookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), name, true
		}
	}
	return "", "", false
}

func (c *collector) ownerID(ctx context.Context, envNames []string) (uint64, error) {
	if value, name, ok := c.lookup(envNames); ok {
		id, err := ParseSnowflake(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		c.printer.Info("Using the owner user ID from %s.", name)
		return id, nil
	}

	if c.prompter == nil {
		return 0, &MissingInputError{What: "owner user ID", EnvNames: envNames}
	}

	c.printer.Prompt("Enter the user ID of the bot's owner. In Discord, enable Developer Mode, then right-click the user and choose Copy User ID.")
	if c.console {
		c.printer.Prompt("Please enter the owner user ID using the console input.")
	}
	for attempt := 0; attempt < prompt.MaxAttempts; attempt++ {
		answer, err := c.prompter.Ask(ctx, "Owner user ID:")
		if err != nil {
			return 0, err
		}
		id, err := ParseSnowflake(answer)
		if err == nil {
			return id, nil
		}
		c.printer.Error("%q is not a valid user ID. User IDs contain only digits.", answer)
	}
	return 0, fmt.Errorf("%w: gave up after %d attempts", ErrInvalidOwnerID, prompt.MaxAttempts)
}

type secretRequest struct {
	// what names the value in messages, e.g. "bot token".
	what     string
	file     string
	envNames []string

	// intro and warning are printed before prompting.
	intro   string
	warning string

	// confirm asks for the value twice when prompting.
	confirm bool
}

func (c *collector) secret(ctx context.Context, request secretRequest) (*secret.Buffer, error) {
	// "-" goes through the prompter when there is one: it owns stdin,
	// and a second reader would consume the confirmation answers.
	if request.file == "-" && c.prompter != nil {
		value, err := c.prompter.AskSecret(ctx, capitalize(request.what)+":")
		if err != nil {
			return nil, fmt.Errorf("reading %s from stdin: %w", request.what, err)
		}
		c.printer.Info("Using the %s from stdin.", request.what)
		return value, nil
	}
	if request.file != "" {
		value, err := secret.ReadFromPath(request.file)
		if err != nil {
			return nil, fmt.Errorf("reading %s from %s: %w", request.what, request.file, err)
		}
		c.printer.Info("Using the %s from %s.", request.what, request.file)
		return value, nil
	}

	if value, name, ok := c.lookup(request.envNames); ok {
		buffer, err := secret.NewFromString(value)
		if err != nil {
			return nil, err
		}
		c.printer.Info("Using the %s from %s.", request.what, name)
		return buffer, nil
	}

	if c.prompter == nil {
		return nil, &MissingInputError{What: request.what, EnvNames: request.envNames}
	}

	c.printer.Prompt("%s", request.intro)
	c.printer.Danger("%s", request.warning)
	if c.console {
		c.printer.Prompt("Please enter your %s using the console input.", request.what)
	}
	label := capitalize(request.what) + ":"
	for attempt := 0; attempt < prompt.MaxAttempts; attempt++ {
		value, err := c.prompter.AskSecret(ctx, label)
		if err != nil {
			if errors.Is(err, prompt.ErrInterrupted) || errors.Is(err, prompt.ErrNoInput) || ctx.Err() != nil {
				return nil, err
			}
			c.printer.Error("%s", err)
			continue
		}
		if !request.confirm {
			return value, nil
		}

		repeat, err := c.prompter.AskSecret(ctx, "Repeat "+request.what+":")
		if err != nil {
			value.Close()
			return nil, err
		}
		matched := value.Equal(repeat)
		repeat.Close()
		if matched {
			return value, nil
		}
		value.Close()
		c.printer.Error("The values do not match. Try again.")
	}
	return nil, fmt.Errorf("no %s entered after %d attempts", request.what, prompt.MaxAttempts)
}

func capitalize(text string) string {
	if text == "" {
		return text
	}
	return strings.ToUpper(text[:1]) + text[1:]
}
