package session

import (
	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/internal/discord"
	discordmock "github.com/parlorbot/parlor/internal/discord/mock"
	"github.com/stretchr/testify/mock"
)

// Shared fixtures for the session tests.

const testToken = "🎲"

// testRules is a minimal game whose behavior each test injects. The default
// behavior accepts every gameplay press as a resolved turn and never decides
// the session.
type testRules struct {
	playerMove func(g *Game, token string) (bool, error)
	botMove    func(g *Game) error
	checkWin   func(g *Game) Outcome
	inits      int
}

func (r *testRules) HandlePlayerMove(s discord.SessionHandler, g *Game, token string) (bool, error) {
	if r.playerMove != nil {
		return r.playerMove(g, token)
	}
	return true, nil
}

func (r *testRules) HandleBotMove(s discord.SessionHandler, g *Game) error {
	if r.botMove != nil {
		return r.botMove(g)
	}
	return nil
}

func (r *testRules) CheckWinCondition(g *Game) Outcome {
	if r.checkWin != nil {
		return r.checkWin(g)
	}
	return Undecided()
}

func (r *testRules) Render(g *Game) string { return "board" }

func (r *testRules) InitRound(g *Game) { r.inits++ }

// testConfig produces a deterministic configuration: one gameplay token, no
// countdown, no bot top-up, no shuffling.
func testConfig() Config {
	return Config{
		MaxBotPlayers:  Int(0),
		TimeLimit:      Int(0),
		ShufflePlayers: Bool(false),
		Tokens:         []string{testToken},
	}
}

func user(id string) *discordgo.User {
	return &discordgo.User{ID: id, Username: "user-" + id}
}

func botUser(id string) *discordgo.User {
	return &discordgo.User{ID: id, Username: "bot-" + id, Bot: true}
}

// newGatewayMock returns a permissive gateway that answers every call the
// session layer makes during a normal lifecycle.
func newGatewayMock() *discordmock.SessionHandler {
	m := &discordmock.SessionHandler{}
	m.On("ChannelMessageSendComplex", mock.Anything, mock.Anything).
		Return(&discordgo.Message{ID: "msg-1"}, nil)
	m.On("ChannelMessageEditComplex", mock.Anything).
		Return(&discordgo.Message{ID: "msg-1"}, nil)
	m.On("ChannelMessageDelete", mock.Anything, mock.Anything).Return(nil)
	m.On("MessageReactionAdd", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.On("MessageReactionRemove", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.On("MessageReactionsRemoveAll", mock.Anything, mock.Anything).Return(nil)
	m.On("UserChannelCreate", mock.Anything).
		Return(&discordgo.Channel{ID: "dm-1"}, nil)
	return m
}
