package session

import (
	"errors"
	"testing"
	"time"

	"github.com/parlorbot/parlor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameValidation(t *testing.T) {
	t.Run("nil rules", func(t *testing.T) {
		_, err := NewGame("g", nil, GameTypeCasual, testConfig(), NewRegistry(), "c", user("a"))
		require.Error(t, err)
		assert.True(t, types.IsGameError(err, types.ErrInternalError))
	})

	t.Run("nil starter", func(t *testing.T) {
		_, err := NewGame("g", &testRules{}, GameTypeCasual, testConfig(), NewRegistry(), "c", nil)
		require.Error(t, err)
		assert.True(t, types.IsGameError(err, types.ErrNotEnoughPlayers))
	})

	t.Run("invalid options", func(t *testing.T) {
		cfg := testConfig()
		cfg.MinPlayers, cfg.MaxPlayers = Int(5), Int(2)
		_, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c", user("a"))
		require.Error(t, err)
		assert.True(t, types.IsGameError(err, types.ErrInvalidOptions))
	})

	t.Run("too many players", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxPlayers = Int(2)
		_, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c",
			user("a"), user("b"), user("c"))
		require.Error(t, err)
		assert.True(t, types.IsGameError(err, types.ErrTooManyPlayers))
	})

	t.Run("not enough players even with bots", func(t *testing.T) {
		cfg := testConfig()
		cfg.MinPlayers, cfg.MaxPlayers, cfg.MaxBotPlayers = Int(3), Int(3), Int(1)
		_, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c", user("a"))
		require.Error(t, err)
		assert.True(t, types.IsGameError(err, types.ErrNotEnoughPlayers))
	})
}

func TestNewGameTopsUpWithBots(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxBotPlayers = Int(2), Int(1)

	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	players := g.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "a", players[0].ID())
	assert.Equal(t, "cpu:1", players[1].ID())
	assert.True(t, players[1].IsBot())
	assert.Len(t, g.UserPlayers(), 1)
	assert.Len(t, g.BotPlayers(), 1)
}

func TestInitResetsRoundState(t *testing.T) {
	rules := &testRules{}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	cfg.Avatars = []string{"❌", "⭕"}
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "c", user("a"), user("b"))
	require.NoError(t, err)
	require.Equal(t, 1, rules.inits, "construction runs the round initializer once")

	g.FinishMove(nil)
	require.Equal(t, 2, g.Turns())
	g.Players()[1].Forfeit("gone")
	g.FinishMove(nil)
	require.True(t, g.Outcome().Decided())

	g.Init()

	assert.Equal(t, 1, g.Turns())
	assert.False(t, g.Outcome().Decided())
	assert.False(t, g.Players()[1].Forfeited)
	assert.Equal(t, "❌", g.Players()[0].Avatar)
	assert.Equal(t, "⭕", g.Players()[1].Avatar)
	assert.Equal(t, 2, rules.inits)
}

func TestFinishMoveRotatesPastInactivePlayers(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(3), Int(3)
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"), user("c"))
	require.NoError(t, err)

	g.Players()[1].SetActive(false)

	g.FinishMove(nil)
	assert.Equal(t, "c", g.Player().ID())

	g.FinishMove(nil)
	assert.Equal(t, "a", g.Player().ID())
}

func TestFinishMoveWithNoActivePlayersKeepsPointer(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.Players()[0].SetActive(false)
	g.Players()[1].SetActive(false)

	g.FinishMove(nil)
	assert.Equal(t, "a", g.Player().ID())
}

func TestSoleSurvivorWinsOutright(t *testing.T) {
	// The rules would declare a tie, but the sole-survivor rule decides first.
	rules := &testRules{checkWin: func(g *Game) Outcome { return Tie() }}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.Players()[0].Forfeit("rage quit")
	g.FinishMove(nil)

	out := g.Outcome()
	require.Equal(t, OutcomeWinner, out.Kind)
	assert.Equal(t, "b", out.Winner.ID())
}

func TestWinnerNumberResolvesToRosterPlayer(t *testing.T) {
	rules := &testRules{checkWin: func(g *Game) Outcome { return WonByNumber(2) }}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.FinishMove(nil)

	out := g.Outcome()
	require.Equal(t, OutcomeWinner, out.Kind)
	assert.Equal(t, "b", out.Winner.ID())
}

func TestWinnerNumberOutOfRangeMeansNobody(t *testing.T) {
	rules := &testRules{checkWin: func(g *Game) Outcome { return WonByNumber(5) }}
	g, err := NewGame("g", rules, GameTypeCasual, testConfig(), NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	g.FinishMove(nil)

	assert.Equal(t, OutcomeNobody, g.Outcome().Kind)
}

func TestMaxTurnsForcesTie(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTurns = Int(1)
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	g.FinishMove(nil)
	require.False(t, g.Outcome().Decided())
	require.Equal(t, 2, g.Turns())

	g.FinishMove(nil)
	assert.Equal(t, OutcomeTie, g.Outcome().Kind)
}

func TestGameplayPressResolvesTurn(t *testing.T) {
	var moved []string
	rules := &testRules{playerMove: func(g *Game, token string) (bool, error) {
		moved = append(moved, g.Player().ID()+":"+token)
		return true, nil
	}}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, testToken, "a")

	assert.Equal(t, []string{"a:" + testToken}, moved)
	assert.Equal(t, "b", g.Player().ID())
	assert.Equal(t, 2, g.Turns())
}

func TestGameplayPressIgnoredOutOfTurn(t *testing.T) {
	var calls int
	rules := &testRules{playerMove: func(g *Game, token string) (bool, error) {
		calls++
		return true, nil
	}}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, testToken, "b")

	assert.Zero(t, calls)
	assert.Equal(t, "a", g.Player().ID())
}

func TestGameplayPressIgnoredFromStrangers(t *testing.T) {
	var calls int
	rules := &testRules{playerMove: func(g *Game, token string) (bool, error) {
		calls++
		return true, nil
	}}
	g, err := NewGame("g", rules, GameTypeCasual, testConfig(), NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, testToken, "stranger")

	assert.Zero(t, calls)
}

func TestGameplayPressIgnoredAfterGameOver(t *testing.T) {
	var calls int
	rules := &testRules{
		playerMove: func(g *Game, token string) (bool, error) {
			calls++
			return true, nil
		},
		checkWin: func(g *Game) Outcome { return WonBy(g.Players()[0]) },
	}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, testToken, "a")
	require.True(t, g.Outcome().Decided())
	require.Equal(t, 1, calls)

	g.DeliverReaction(nil, true, testToken, "b")
	assert.Equal(t, 1, calls)
}

func TestUnresolvedMoveKeepsTurn(t *testing.T) {
	rules := &testRules{playerMove: func(g *Game, token string) (bool, error) {
		return false, nil
	}}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, testToken, "a")

	assert.Equal(t, "a", g.Player().ID())
	assert.Equal(t, 1, g.Turns())
}

func TestMoveErrorIsRecordedNotFatal(t *testing.T) {
	boom := errors.New("illegal move")
	rules := &testRules{playerMove: func(g *Game, token string) (bool, error) {
		return false, boom
	}}
	g, err := NewGame("g", rules, GameTypeCasual, testConfig(), NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, testToken, "a")

	assert.Equal(t, boom, g.MoveErr())
	assert.Equal(t, 1, g.Turns())
	assert.False(t, g.Closed())

	// A later clean move clears the error.
	rules.playerMove = func(g *Game, token string) (bool, error) { return true, nil }
	g.DeliverReaction(nil, true, testToken, "a")
	assert.NoError(t, g.MoveErr())
}

func TestPanickingRulesAreContained(t *testing.T) {
	rules := &testRules{playerMove: func(g *Game, token string) (bool, error) {
		panic("rules bug")
	}}
	g, err := NewGame("g", rules, GameTypeCasual, testConfig(), NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, testToken, "a")

	require.Error(t, g.MoveErr())
	assert.True(t, types.IsGameError(g.MoveErr(), types.ErrInvalidMove))
	assert.False(t, g.Closed())
}

func TestCloseVoteTeardown(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, CloseToken, "a")
	assert.Equal(t, 1, g.CloseVotes())
	assert.False(t, g.Closed(), "one of two votes is not enough")

	g.DeliverReaction(nil, true, CloseToken, "b")
	assert.True(t, g.Closed())
}

func TestCloseVoteRetractionFloorsAtZero(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.DeliverReaction(nil, false, CloseToken, "a")
	assert.Equal(t, 0, g.CloseVotes())

	g.DeliverReaction(nil, true, CloseToken, "a")
	g.DeliverReaction(nil, false, CloseToken, "a")
	g.DeliverReaction(nil, false, CloseToken, "b")
	assert.Equal(t, 0, g.CloseVotes())
	assert.False(t, g.Closed())
}

func TestUnanimousRestartResetsRound(t *testing.T) {
	rules := &testRules{}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	cfg.CanRestart = Bool(true)
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, testToken, "a")
	require.Equal(t, 2, g.Turns())

	g.DeliverReaction(nil, true, RestartToken, "a")
	assert.Equal(t, 1, g.RestartVotes())
	assert.Equal(t, 2, g.Turns(), "a lone vote does not restart")

	g.DeliverReaction(nil, true, RestartToken, "b")
	assert.Equal(t, 1, g.Turns())
	assert.Equal(t, 0, g.RestartVotes())
	assert.Equal(t, 2, rules.inits)
}

func TestRestartIgnoredWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.CanRestart = Bool(false)
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, RestartToken, "a")
	assert.Equal(t, 0, g.RestartVotes())
}

func TestHelpToggle(t *testing.T) {
	cfg := testConfig()
	cfg.HowToPlay = "press the die"
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, HelpToken, "a")
	assert.True(t, g.HelpShown())

	g.DeliverReaction(nil, false, HelpToken, "a")
	assert.False(t, g.HelpShown())
}

func TestHelpIgnoredOnBotTurn(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(1), Int(1)
	cfg.HowToPlay = "press the die"
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c", botUser("z"))
	require.NoError(t, err)

	g.DeliverReaction(nil, true, HelpToken, "z")
	assert.False(t, g.HelpShown())
}

func TestStartLifecycle(t *testing.T) {
	g, err := NewGame("g", &testRules{}, GameTypeCasual, testConfig(), NewRegistry(), "chan-1", user("a"))
	require.NoError(t, err)

	s := newGatewayMock()
	require.NoError(t, g.Start(s))

	assert.Equal(t, "msg-1", g.MessageID())
	assert.True(t, g.HasReaction(testToken))
	assert.True(t, g.HasReaction(CloseToken))
	// Casual sessions can restart and this one carries no help text.
	assert.True(t, g.HasReaction(RestartToken))
	assert.False(t, g.HasReaction(HelpToken))

	err = g.Start(s)
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrGameInProgress))
}

func TestStartRequiresGameplayTokens(t *testing.T) {
	cfg := testConfig()
	cfg.Tokens = nil
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "chan-1", user("a"))
	require.NoError(t, err)

	err = g.Start(newGatewayMock())
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrNoGameplayTokens))
}

func TestTimerForfeitsSlowPlayer(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(2), Int(2)
	cfg.TimeLimit = Int(1)
	g, err := NewGame("g", &testRules{}, GameTypeCasual, cfg, NewRegistry(), "c",
		user("a"), user("b"))
	require.NoError(t, err)
	require.Equal(t, 1, g.TimeRemaining())

	g.StartMove(nil)
	time.Sleep(2 * time.Second)

	a := g.PlayerByID("a")
	assert.True(t, a.Forfeited)
	assert.True(t, a.Inactive())
	// With one player left standing the session resolves immediately.
	out := g.Outcome()
	require.Equal(t, OutcomeWinner, out.Kind)
	assert.Equal(t, "b", out.Winner.ID())
}

func TestTimerDisabledMeansNoCountdown(t *testing.T) {
	g, err := NewGame("g", &testRules{}, GameTypeCasual, testConfig(), NewRegistry(), "c", user("a"))
	require.NoError(t, err)
	require.Equal(t, 0, g.TimeRemaining())

	g.StartMove(nil)
	time.Sleep(1200 * time.Millisecond)

	assert.Equal(t, 0, g.TimeRemaining())
	assert.False(t, g.PlayerByID("a").Forfeited)
}

func TestBotOnlySessionRunsToCompletion(t *testing.T) {
	var botMoves int
	rules := &testRules{
		botMove: func(g *Game) error {
			botMoves++
			return nil
		},
		checkWin: func(g *Game) Outcome {
			if botMoves > 0 {
				return WonBy(g.Players()[0])
			}
			return Undecided()
		},
	}
	cfg := testConfig()
	cfg.MinPlayers, cfg.MaxPlayers = Int(1), Int(1)
	g, err := NewGame("g", rules, GameTypeCasual, cfg, NewRegistry(), "chan-1", botUser("z"))
	require.NoError(t, err)

	require.NoError(t, g.Start(newGatewayMock()))
	time.Sleep(2500 * time.Millisecond)

	assert.Equal(t, 1, botMoves)
	assert.Equal(t, OutcomeWinner, g.Outcome().Kind)
}

func TestManualMoveClearsAutoFlag(t *testing.T) {
	g, err := NewGame("g", &testRules{}, GameTypeCasual, testConfig(), NewRegistry(), "c", user("a"))
	require.NoError(t, err)

	p := g.PlayerByID("a")
	p.Auto = true

	g.DeliverReaction(nil, true, testToken, "a")
	assert.False(t, p.Auto)
}
