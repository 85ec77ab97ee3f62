// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps github.com/bwmarrin/discordgo for the short
// connection the installer makes to Discord.
//
// A [Client] is built from a bot token held in a secret.Buffer. [Client.Connect]
// first checks the token over REST (GET /users/@me), because the gateway
// reports a bad token only by closing the websocket, then opens the
// gateway and blocks until the READY event arrives or the context
// expires. The returned [Ready] lists the bot account and the guilds it
// is in.
//
// After ready, [Client.HasMember] looks a user up in one guild (state
// cache first, then REST) and [Client.SendDirectMessage] opens a DM
// channel and posts a message. [Client.Close] ends the gateway session.
//
// REST failures surface as *discordgo.RESTError; [IsDiscordError] tests
// for a JSON error code and [IsUnauthorized] for a rejected token.
// [RouteLogs] sends discordgo's internal logging through slog.
package messaging
