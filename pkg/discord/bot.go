package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/internal/config"
	internaldiscord "github.com/parlorbot/parlor/internal/discord"
	"github.com/parlorbot/parlor/internal/logging"
	"github.com/parlorbot/parlor/internal/types"
	gamerepo "github.com/parlorbot/parlor/pkg/repositories/game"
	"github.com/parlorbot/parlor/pkg/session"
)

// Bot represents the Discord bot instance
type Bot struct {
	session  internaldiscord.SessionHandler
	cfg      *config.Config
	registry *session.Registry
	repo     gamerepo.Repository
	logger   *logging.Logger

	// Commands registered at startup, deleted again on shutdown
	registered []*discordgo.ApplicationCommand
}

// NewBot creates a new instance of the bot
func NewBot(cfg *config.Config, repo gamerepo.Repository) (*Bot, error) {
	ds, err := internaldiscord.NewSession(cfg.Token)
	if err != nil {
		return nil, types.WrapError(types.ErrNetworkError, "error creating Discord session", err)
	}

	// Identify the intents we need
	ds.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages

	bot := &Bot{
		session:  ds,
		cfg:      cfg,
		registry: session.NewRegistry(),
		repo:     repo,
		logger:   logging.Default,
	}

	// Register handlers
	bot.session.AddHandler(bot.handleReady)
	bot.session.AddHandler(bot.handleInteractionCreate)
	bot.session.AddHandler(bot.handleReactionAdd)
	bot.session.AddHandler(bot.handleReactionRemove)

	return bot, nil
}

// Registry exposes the live message registry, mainly for tests
func (b *Bot) Registry() *session.Registry {
	return b.registry
}

// Start opens the gateway connection and registers slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return types.WrapError(types.ErrNetworkError, "error opening connection", err)
	}

	for _, cmd := range commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.cfg.AppID, b.cfg.GuildID, cmd)
		if err != nil {
			return types.WrapError(types.ErrNetworkError, "error creating command "+cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}

	b.logger.Info("Bot started with %d commands registered", len(b.registered))
	return nil
}

// Stop deletes registered commands and gracefully shuts down the bot
func (b *Bot) Stop() error {
	for _, cmd := range b.registered {
		if err := b.session.ApplicationCommandDelete(b.cfg.AppID, b.cfg.GuildID, cmd.ID); err != nil {
			b.logger.Error("Failed to delete command %s: %v", cmd.Name, err)
		}
	}
	b.registered = nil

	if err := b.repo.Close(); err != nil {
		return types.WrapError(types.ErrDatabaseError, "error closing repository", err)
	}

	if err := b.session.Close(); err != nil {
		return types.WrapError(types.ErrNetworkError, "error closing connection", err)
	}

	return nil
}
