package discord

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/parlorbot/parlor/pkg/entities"
	"github.com/parlorbot/parlor/pkg/session"
)

// recordOnClose arranges for the session's outcome to be written to the
// repository when the session detaches from the gateway
func (b *Bot) recordOnClose(g *session.Game) {
	g.Subscribe(func(ev session.Event) {
		if ev.Type != session.EventClose {
			return
		}

		result := buildGameResult(g)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := b.repo.SaveGameResult(ctx, result); err != nil {
			b.logger.Error("Failed to save result for %s: %v", g.Name(), err)
		}
	})
}

// buildGameResult maps a finished session onto a storable result. Sessions
// closed before a decision record NONE for everyone still playing.
func buildGameResult(g *session.Game) *entities.GameResult {
	outcome := g.Outcome()

	winners := make(map[string]bool)
	switch outcome.Kind {
	case session.OutcomeWinner:
		if outcome.Winner != nil {
			winners[outcome.Winner.ID()] = true
		}
	case session.OutcomeCoWinners:
		for _, p := range outcome.CoWinners {
			winners[p.ID()] = true
		}
	}

	result := &entities.GameResult{
		ID:          uuid.NewString(),
		GameType:    g.Name(),
		ChannelID:   g.ChannelID(),
		StartedAt:   g.StartedAt(),
		CompletedAt: time.Now(),
		Turns:       g.Turns(),
	}

	for _, p := range g.Players() {
		result.PlayerResults = append(result.PlayerResults, &entities.PlayerResult{
			PlayerID: p.ID(),
			Username: p.Username(),
			Bot:      p.IsBot(),
			Result:   playerResult(p, outcome, winners),
		})
	}

	return result
}

func playerResult(p *session.Player, outcome session.Outcome, winners map[string]bool) entities.Result {
	switch {
	case winners[p.ID()]:
		return entities.StringResultWin
	case p.Forfeited:
		return entities.StringResultForfeit
	case outcome.Kind == session.OutcomeTie:
		return entities.StringResultDraw
	case outcome.Decided():
		return entities.StringResultLoss
	default:
		return entities.StringResultNone
	}
}
