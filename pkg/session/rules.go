package session

import (
	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/internal/discord"
)

// Rules is the contract every concrete game implements. The framework owns
// the roster, turn order, timers and voting; Rules owns the board.
//
// The framework calls these hooks with the session serialized, so
// implementations may freely read and mutate game state through the *Game
// they receive.
type Rules interface {
	// HandlePlayerMove applies the move behind a gameplay token pressed by
	// the current player. It returns true when the move resolved the turn
	// and the board should be re-rendered. Errors are recorded on the
	// session and rendered; they never terminate it.
	HandlePlayerMove(s discord.SessionHandler, g *Game, token string) (bool, error)

	// HandleBotMove performs an automated move for the current player. The
	// framework resolves the turn afterwards.
	HandleBotMove(s discord.SessionHandler, g *Game) error

	// CheckWinCondition inspects the board after each turn. Return
	// Undecided() while play continues.
	CheckWinCondition(g *Game) Outcome

	// Render returns the textual board representation.
	Render(g *Game) string
}

// Optional hooks, detected by interface assertion on the Rules value.

// RoundInitializer resets game-specific state at setup and on restart.
type RoundInitializer interface {
	InitRound(g *Game)
}

// StatusProvider replaces the default status line derived from the outcome
// and turn counter. Games using Custom outcomes should implement this.
type StatusProvider interface {
	Status(g *Game) string
}

// ColorProvider replaces the default embed accent color.
type ColorProvider interface {
	Color(g *Game) int
}

// EmbedDecorator gets the composed embed last, to append structured fields.
type EmbedDecorator interface {
	DecorateEmbed(g *Game, embed *discordgo.MessageEmbed)
}

// PrivateRenderer composes a player's private view for multi-message games.
type PrivateRenderer interface {
	RenderPrivate(g *MultiGame, p *Player) *discordgo.MessageEmbed
}
