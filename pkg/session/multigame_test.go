package session

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordmock "github.com/parlorbot/parlor/internal/discord/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// privateTestRules extends testRules with a per-player private view.
type privateTestRules struct {
	testRules
	renders int
}

func (r *privateTestRules) RenderPrivate(g *MultiGame, p *Player) *discordgo.MessageEmbed {
	r.renders++
	return &discordgo.MessageEmbed{Title: "private view for " + p.ID()}
}

func TestMultiGameBindsPrivateMessages(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	rules := &privateTestRules{}
	g, err := NewMultiGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "chan-1",
		user("a"), user("b"))
	require.NoError(t, err)

	s := newGatewayMock()
	require.NoError(t, g.Start(s))

	for _, id := range []string{"a", "b"} {
		lm := g.PrivateMessage(id)
		require.NotNil(t, lm, "player %s should have a private view", id)
		assert.Equal(t, "dm-1", lm.ChannelID())
		require.NotNil(t, lm.Embed())
		assert.Equal(t, "private view for "+id, lm.Embed().Title)
	}
	s.AssertNumberOfCalls(t, "UserChannelCreate", 2)
}

func TestMultiGameSkipsPrivateViewsForBots(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxBotPlayers = Int(2), Int(1)
	g, err := NewMultiGame("g", &privateTestRules{}, GameTypeCasual, cfg, NewRegistry(), "chan-1",
		user("a"))
	require.NoError(t, err)

	s := newGatewayMock()
	require.NoError(t, g.Start(s))

	assert.NotNil(t, g.PrivateMessage("a"))
	assert.Nil(t, g.PrivateMessage("cpu:1"))
	s.AssertNumberOfCalls(t, "UserChannelCreate", 1)
}

func TestMultiGameUpdatesPrivateViewsOnEdit(t *testing.T) {
	cfg := testConfig()
	rules := &privateTestRules{}
	g, err := NewMultiGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "chan-1", user("a"))
	require.NoError(t, err)

	s := newGatewayMock()
	require.NoError(t, g.Start(s))
	before := rules.renders

	// Resolving a turn edits the shared message, which fans out to the
	// private views.
	g.DeliverReaction(s, true, testToken, "a")

	assert.Greater(t, rules.renders, before)
}

func TestMultiGameClosesPrivateViewsWithSession(t *testing.T) {
	cfg := testConfig()
	g, err := NewMultiGame("g", &privateTestRules{}, GameTypeCasual, cfg, NewRegistry(), "chan-1", user("a"))
	require.NoError(t, err)

	s := newGatewayMock()
	require.NoError(t, g.Start(s))
	lm := g.PrivateMessage("a")
	require.NotNil(t, lm)

	g.Close(s)

	assert.True(t, lm.Closed())
}

func TestMultiGameDegradesWhenDMChannelFails(t *testing.T) {
	cfg := testConfig()
	g, err := NewMultiGame("g", &privateTestRules{}, GameTypeCasual, cfg, NewRegistry(), "chan-1", user("a"))
	require.NoError(t, err)

	s := &discordmock.SessionHandler{}
	s.On("UserChannelCreate", mock.Anything).Return(nil, errors.New("DMs closed"))
	s.On("ChannelMessageSendComplex", mock.Anything, mock.Anything).
		Return(&discordgo.Message{ID: "msg-1"}, nil)
	s.On("ChannelMessageEditComplex", mock.Anything).
		Return(&discordgo.Message{ID: "msg-1"}, nil)
	s.On("MessageReactionAdd", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, g.Start(s))

	assert.Nil(t, g.PrivateMessage("a"))
	assert.Equal(t, "msg-1", g.MessageID(), "the shared session still starts")
}
