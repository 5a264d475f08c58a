package discord

import (
	"github.com/bwmarrin/discordgo"
)

// handleReady logs the connected account
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Logged in as %s#%s", r.User.Username, r.User.Discriminator)
}

// handleInteractionCreate routes slash commands
func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "tictactoe":
		b.handleTicTacToe(i)
	case "twentyone":
		b.handleTwentyOne(i)
	case "stats":
		b.handleStats(i)
	}
}

// handleReactionAdd routes reaction-added gateway events to the session that
// owns the message, if any
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if b.isSelf(r.UserID) {
		return
	}
	if lm, ok := b.registry.Lookup(r.MessageID); ok {
		lm.DeliverReaction(b.session, true, r.Emoji.Name, r.UserID)
	}
}

// handleReactionRemove routes reaction-removed gateway events
func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if b.isSelf(r.UserID) {
		return
	}
	if lm, ok := b.registry.Lookup(r.MessageID); ok {
		lm.DeliverReaction(b.session, false, r.Emoji.Name, r.UserID)
	}
}

// isSelf reports whether the user is the bot's own account. Reactions the
// bot places while building the reaction interface echo back through the
// gateway and must not count as player input.
func (b *Bot) isSelf(userID string) bool {
	state := b.session.State()
	return state != nil && state.User != nil && state.User.ID == userID
}
