package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/pkg/games/tictactoe"
	"github.com/parlorbot/parlor/pkg/games/twentyone"
)

// commandDefinitions returns the slash commands the bot registers
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "tictactoe",
			Description: "Start a game of tic-tac-toe",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "opponent",
					Description: "Who to play against (leave empty for a bot opponent)",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    false,
				},
			},
		},
		{
			Name:        "twentyone",
			Description: "Start a round of twenty-one",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "opponent",
					Description: "Who to play against (leave empty for a bot opponent)",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    false,
				},
				{
					Name:        "opponent2",
					Description: "A second opponent",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    false,
				},
				{
					Name:        "opponent3",
					Description: "A third opponent",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    false,
				},
			},
		},
		{
			Name:        "stats",
			Description: "View player statistics",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "game",
					Description: "Game to show statistics for (leave empty for all games)",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Tic-Tac-Toe", Value: "Tic-Tac-Toe"},
						{Name: "Twenty-One", Value: "Twenty-One"},
					},
				},
				{
					Name:        "player",
					Description: "Player to look up (leave empty for yourself)",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    false,
				},
			},
		},
	}
}

// handleTicTacToe handles the /tictactoe command
func (b *Bot) handleTicTacToe(i *discordgo.InteractionCreate) {
	starter := interactionUser(i)
	if starter == nil {
		b.respondError(i, "Could not identify who started the game")
		return
	}

	opponent := b.resolveUserOption(i, "opponent")
	g, err := tictactoe.New(b.registry, i.ChannelID, starter, opponent)
	if err != nil {
		b.respondError(i, "Could not start the game: "+err.Error())
		return
	}

	b.recordOnClose(g)
	b.respondEphemeral(i, "Setting up Tic-Tac-Toe...")

	if err := g.Start(b.session); err != nil {
		b.logger.LogError(err)
	}
}

// handleTwentyOne handles the /twentyone command
func (b *Bot) handleTwentyOne(i *discordgo.InteractionCreate) {
	starter := interactionUser(i)
	if starter == nil {
		b.respondError(i, "Could not identify who started the game")
		return
	}

	var opponents []*discordgo.User
	for _, name := range []string{"opponent", "opponent2", "opponent3"} {
		if u := b.resolveUserOption(i, name); u != nil {
			opponents = append(opponents, u)
		}
	}

	g, err := twentyone.New(b.registry, i.ChannelID, starter, opponents...)
	if err != nil {
		b.respondError(i, "Could not start the game: "+err.Error())
		return
	}

	b.recordOnClose(g.Game)
	b.respondEphemeral(i, "Setting up Twenty-One...")

	if err := g.Start(b.session); err != nil {
		b.logger.LogError(err)
	}
}

// handleStats handles the /stats command
func (b *Bot) handleStats(i *discordgo.InteractionCreate) {
	target := b.resolveUserOption(i, "player")
	if target == nil {
		target = interactionUser(i)
	}
	if target == nil {
		b.respondError(i, "Could not identify the player to look up")
		return
	}

	gameType := stringOption(i, "game")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := b.repo.GetPlayerStatistics(ctx, target.ID, gameType)
	if err != nil {
		b.respondError(i, "Failed to get statistics: "+err.Error())
		return
	}

	title := fmt.Sprintf("Statistics for %s", target.Username)
	if gameType != "" {
		title = fmt.Sprintf("%s (%s)", title, gameType)
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Games played", Value: fmt.Sprintf("%d", stats.GamesPlayed), Inline: true},
			{Name: "Wins", Value: fmt.Sprintf("%d", stats.Wins), Inline: true},
			{Name: "Losses", Value: fmt.Sprintf("%d", stats.Losses), Inline: true},
			{Name: "Draws", Value: fmt.Sprintf("%d", stats.Draws), Inline: true},
			{Name: "Forfeits", Value: fmt.Sprintf("%d", stats.Forfeits), Inline: true},
			{Name: "Win rate", Value: fmt.Sprintf("%.1f%%", stats.WinRate()), Inline: true},
		},
	}

	err = b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		b.logger.Error("Failed to respond to stats command: %v", err)
	}
}

// interactionUser returns the invoking user for guild and DM interactions
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// resolveUserOption returns the full user behind a user option, or nil when
// the option was not supplied
func (b *Bot) resolveUserOption(i *discordgo.InteractionCreate, name string) *discordgo.User {
	data := i.ApplicationCommandData()
	for _, opt := range data.Options {
		if opt.Name != name || opt.Type != discordgo.ApplicationCommandOptionUser {
			continue
		}
		id, ok := opt.Value.(string)
		if !ok {
			return nil
		}
		if data.Resolved != nil {
			if u, ok := data.Resolved.Users[id]; ok {
				return u
			}
		}
		return &discordgo.User{ID: id}
	}
	return nil
}

// stringOption returns a string option's value, or empty when not supplied
func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			if v, ok := opt.Value.(string); ok {
				return v
			}
		}
	}
	return ""
}

// respondEphemeral acknowledges an interaction with a message only the
// invoker sees
func (b *Bot) respondEphemeral(i *discordgo.InteractionCreate, message string) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error("Failed to respond to interaction: %v", err)
	}
}

// respondError sends an error message as a response to an interaction
func (b *Bot) respondError(i *discordgo.InteractionCreate, message string) {
	b.respondEphemeral(i, "❌ "+message)
}
