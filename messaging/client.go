// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/unifier-chat/unifier-install/lib/secret"
)

// DefaultIntents is every gateway intent except presences. The bot
// needs the privileged members and message content intents; the
// installer requests the same set so a missing privilege fails here
// rather than on first boot.
const DefaultIntents = discordgo.IntentsAll &^ discordgo.IntentsGuildPresences

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Token is the bot token, without the "Bot " prefix. Borrowed: the
	// caller keeps ownership.
	Token *secret.Buffer

	// Intents requested on identify. Zero selects DefaultIntents.
	Intents discordgo.Intent

	// HTTPClient is used for REST calls. If nil, discordgo's default
	// client is used.
	HTTPClient *http.Client

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// User identifies a Discord account.
type User struct {
	ID       string
	Username string
}

func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.Username, u.ID)
}

// Ready is the result of a successful Connect.
type Ready struct {
	// BotUser is the account the token belongs to.
	BotUser User

	// GuildIDs are the guilds the bot is in, in gateway order.
	GuildIDs []string

	// SessionID is the gateway session identifier, for logging.
	SessionID string
}

// Client is a single-use Discord connection.
type Client struct {
	session *discordgo.Session
	logger  *slog.Logger
	ready   chan *discordgo.Ready
}

// NewClient creates a Client. No network traffic happens until Connect.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Token == nil || config.Token.Len() == 0 {
		return nil, fmt.Errorf("messaging: token is required")
	}

	// discordgo keeps the token as a string for the life of the session.
	session, err := discordgo.New("Bot " + config.Token.String())
	if err != nil {
		return nil, fmt.Errorf("messaging: creating session: %w", err)
	}

	intents := config.Intents
	if intents == 0 {
		intents = DefaultIntents
	}
	session.Identify.Intents = intents
	session.ShouldReconnectOnError = false
	session.LogLevel = discordgo.LogWarning
	if config.HTTPClient != nil {
		session.Client = config.HTTPClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		session: session,
		logger:  logger,
		ready:   make(chan *discordgo.Ready, 1),
	}
	session.AddHandlerOnce(func(_ *discordgo.Session, event *discordgo.Ready) {
		select {
		case client.ready <- event:
		default:
		}
	})
	return client, nil
}

// Connect validates the token, opens the gateway and waits for READY.
// On any failure the gateway is closed before returning.
func (c *Client) Connect(ctx context.Context) (*Ready, error) {
	me, err := c.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("messaging: token check failed: %w", err)
	}
	c.logger.Debug("token accepted", "bot_user_id", me.ID, "bot_username", me.Username)

	if err := c.session.Open(); err != nil {
		return nil, fmt.Errorf("messaging: opening gateway: %w", err)
	}

	select {
	case event := <-c.ready:
		ready := &Ready{
			BotUser:   User{ID: event.User.ID, Username: event.User.Username},
			GuildIDs:  make([]string, 0, len(event.Guilds)),
			SessionID: event.SessionID,
		}
		for _, guild := range event.Guilds {
			ready.GuildIDs = append(ready.GuildIDs, guild.ID)
		}
		c.logger.Info("gateway ready",
			"bot_user_id", ready.BotUser.ID,
			"guilds", len(ready.GuildIDs),
			"session_id", ready.SessionID,
		)
		return ready, nil
	case <-ctx.Done():
		c.session.Close()
		return nil, fmt.Errorf("messaging: waiting for gateway ready: %w", ctx.Err())
	}
}

// HasMember reports whether userID is a member of guildID.
func (c *Client) HasMember(ctx context.Context, guildID, userID string) (bool, error) {
	if c.session.State != nil {
		if _, err := c.session.State.Member(guildID, userID); err == nil {
			return true, nil
		}
	}

	_, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	if IsDiscordError(err, discordgo.ErrCodeUnknownMember) || IsDiscordError(err, discordgo.ErrCodeUnknownUser) {
		return false, nil
	}
	return false, fmt.Errorf("messaging: looking up member %s in guild %s: %w", userID, guildID, err)
}

// SendDirectMessage opens a DM channel with userID and posts content.
func (c *Client) SendDirectMessage(ctx context.Context, userID, content string) error {
	channel, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("messaging: opening DM channel with %s: %w", userID, err)
	}
	if _, err := c.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("messaging: sending DM to %s: %w", userID, err)
	}
	return nil
}

// Close ends the gateway session. Safe to call when Connect failed.
func (c *Client) Close() error {
	return c.session.Close()
}
