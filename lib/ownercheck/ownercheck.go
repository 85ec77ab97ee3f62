// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package ownercheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/unifier-chat/unifier-install/lib/console"
	"github.com/unifier-chat/unifier-install/messaging"
)

// State is the handshake's position.
type State int

const (
	Disconnected State = iota
	Connecting
	Ready
	Closed
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrBotRejected means the operator said the connected bot is not
	// theirs.
	ErrBotRejected = errors.New("the connected bot is not the operator's")

	// ErrOwnerNotVerified means the owner did not receive the
	// verification message.
	ErrOwnerNotVerified = errors.New("the owner did not confirm the verification message")
)

// ConnectError wraps a failure to log in or reach gateway ready.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string { return "connecting to Discord: " + e.Err.Error() }

func (e *ConnectError) Unwrap() error { return e.Err }

// Unauthorized reports whether Discord rejected the token.
func (e *ConnectError) Unauthorized() bool { return messaging.IsUnauthorized(e.Err) }

// Gateway is the Discord connection the handshake drives.
// *messaging.Client implements it.
type Gateway interface {
	Connect(ctx context.Context) (*messaging.Ready, error)
	HasMember(ctx context.Context, guildID, userID string) (bool, error)
	SendDirectMessage(ctx context.Context, userID, content string) error
	Close() error
}

// Confirmer asks the operator yes/no questions. prompt.Prompter
// implements it.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Request parameterizes one handshake.
type Request struct {
	// OwnerID is the Discord user ID of the bot's owner.
	OwnerID string

	// ProductName names the bot in operator messages and the DM.
	ProductName string

	Confirmer Confirmer
	Printer   *console.Printer
	Logger    *slog.Logger
}

// Result is the outcome of a handshake.
type Result struct {
	// State is Closed after a handshake that reached ready, Failed
	// otherwise.
	State State

	// BotUser is the account the token belongs to. Zero when the
	// connection failed.
	BotUser messaging.User

	// HomeGuildID is the first guild found to contain the owner. Empty
	// when Found is false.
	HomeGuildID string
	Found       bool

	// DirectMessageSent is false when Discord refused the DM (the owner
	// may share no guild with the bot or have DMs disabled).
	DirectMessageSent bool
}

// Verify runs the handshake. The gateway is closed before Verify
// returns, whatever the outcome.
func Verify(ctx context.Context, gateway Gateway, request Request) (Result, error) {
	logger := request.Logger
	if logger == nil {
		logger = slog.Default()
	}
	result := Result{State: Disconnected}

	result.State = Connecting
	logger.Debug("handshake state", "state", result.State)
	ready, err := gateway.Connect(ctx)
	if err != nil {
		result.State = Failed
		if closeErr := gateway.Close(); closeErr != nil {
			logger.Debug("closing failed gateway", "error", closeErr)
		}
		return result, &ConnectError{Err: err}
	}

	result.State = Ready
	result.BotUser = messaging.User{
		ID:       ready.BotUser.ID,
		Username: console.Sanitize(ready.BotUser.Username),
	}
	logger.Debug("handshake state", "state", result.State, "bot_user_id", result.BotUser.ID)

	err = converse(ctx, gateway, ready, request, &result)
	if closeErr := gateway.Close(); closeErr != nil {
		logger.Warn("closing gateway", "error", closeErr)
	}
	result.State = Closed
	return result, err
}

func converse(ctx context.Context, gateway Gateway, ready *messaging.Ready, request Request, result *Result) error {
	printer := request.Printer
	logger := request.Logger
	if logger == nil {
		logger = slog.Default()
	}

	printer.Info("Logged in as %s.", result.BotUser)
	confirmed, err := request.Confirmer.Confirm(ctx, "Is this the bot you want to install "+request.ProductName+" on?")
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrBotRejected
	}

	content := fmt.Sprintf("This is a verification message from the %s installer. "+
		"If you did not start an install, you can ignore it.", request.ProductName)
	if err := gateway.SendDirectMessage(ctx, request.OwnerID, content); err != nil {
		logger.Warn("verification DM failed", "owner_id", request.OwnerID, "error", err)
		printer.Error("Could not send a direct message to %s. The owner may not share a server with the bot, or may have DMs disabled.", request.OwnerID)
	} else {
		result.DirectMessageSent = true
		printer.Info("Sent a verification message to %s.", request.OwnerID)
	}

	confirmed, err = request.Confirmer.Confirm(ctx, "Did the owner receive the verification message?")
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrOwnerNotVerified
	}

	for _, guildID := range ready.GuildIDs {
		member, err := gateway.HasMember(ctx, guildID, request.OwnerID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("member lookup failed, skipping guild", "guild_id", guildID, "error", err)
			continue
		}
		if member {
			result.HomeGuildID = guildID
			result.Found = true
			logger.Info("owner found", "guild_id", guildID)
			return nil
		}
	}
	logger.Info("owner is not in any of the bot's guilds", "guilds", len(ready.GuildIDs))
	return nil
}
