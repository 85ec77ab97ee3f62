// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// RouteLogs replaces discordgo's package-level logger so its messages
// go through logger. discordgo has one logger per process; call this
// once at startup.
func RouteLogs(logger *slog.Logger) {
	discordgo.Logger = func(messageLevel, caller int, format string, arguments ...any) {
		logger.Log(context.Background(), slogLevel(messageLevel), fmt.Sprintf(format, arguments...),
			"component", "discordgo",
		)
	}
}

func slogLevel(discordLevel int) slog.Level {
	switch discordLevel {
	case discordgo.LogError:
		return slog.LevelError
	case discordgo.LogWarning:
		return slog.LevelWarn
	case discordgo.LogInformational:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
