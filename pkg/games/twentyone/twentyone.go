package twentyone

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/parlorbot/parlor/internal/discord"
	"github.com/parlorbot/parlor/pkg/cards"
	"github.com/parlorbot/parlor/pkg/session"
)

const (
	HitToken   = "🃏"
	StandToken = "✋"
)

const howToPlay = "Get as close to 21 as you can without going over. " +
	"🃏 draws a card, ✋ stands. Hands stay hidden in your DMs until everyone " +
	"has stood; the highest hand at or under 21 wins."

// Rules implements a dealer-less round of twenty-one on a multi-message
// session: the shared board shows card counts only, each human player sees
// their own hand in a private message.
type Rules struct {
	deck  *cards.Deck
	hands map[string][]cards.Card
	stood map[string]bool
}

var _ session.Rules = (*Rules)(nil)
var _ session.PrivateRenderer = (*Rules)(nil)

// New builds a twenty-one session. Missing opponents are filled in with bot
// players up to the two-seat minimum.
func New(registry *session.Registry, channelID string, starter *discordgo.User, opponents ...*discordgo.User) (*session.MultiGame, error) {
	cfg := session.Config{
		MinPlayers:    session.Int(2),
		MaxPlayers:    session.Int(4),
		MaxBotPlayers: session.Int(3),
		Tokens:        []string{HitToken, StandToken},
		HowToPlay:     howToPlay,
	}
	return session.NewMultiGame("Twenty-One", &Rules{}, session.GameTypeCasual, cfg, registry, channelID, starter, opponents...)
}

// InitRound shuffles a fresh deck and deals two cards to every player.
func (r *Rules) InitRound(g *session.Game) {
	r.deck = cards.NewDeck()
	r.deck.Shuffle()
	r.hands = make(map[string][]cards.Card)
	r.stood = make(map[string]bool)
	for _, p := range g.Players() {
		r.hands[p.ID()] = r.deck.DrawN(2)
	}
}

// HandlePlayerMove draws on hit and locks the hand on stand. Busting stands
// the player automatically. Either action resolves the turn.
func (r *Rules) HandlePlayerMove(s discord.SessionHandler, g *session.Game, token string) (bool, error) {
	p := g.Player()
	switch token {
	case HitToken:
		r.hit(p)
	case StandToken:
		r.stand(p)
	default:
		return false, nil
	}
	return true, nil
}

// HandleBotMove hits below 17 and stands otherwise.
func (r *Rules) HandleBotMove(s discord.SessionHandler, g *session.Game) error {
	p := g.Player()
	if Score(r.hands[p.ID()]) < 17 {
		r.hit(p)
	} else {
		r.stand(p)
	}
	return nil
}

func (r *Rules) hit(p *session.Player) {
	card, ok := r.deck.Draw()
	if !ok {
		r.stand(p)
		return
	}
	r.hands[p.ID()] = append(r.hands[p.ID()], card)
	if Score(r.hands[p.ID()]) > 21 {
		r.stand(p)
	}
}

// stand locks the hand and takes the player out of turn rotation.
func (r *Rules) stand(p *session.Player) {
	r.stood[p.ID()] = true
	p.SetActive(false)
}

// CheckWinCondition waits for every player to stand, then awards the best
// hand at or under 21. Everyone busting means nobody wins.
func (r *Rules) CheckWinCondition(g *session.Game) session.Outcome {
	for _, p := range g.Players() {
		if !r.stood[p.ID()] && !p.Forfeited {
			return session.Undecided()
		}
	}

	best := 0
	var winners []*session.Player
	for _, p := range g.Players() {
		if p.Forfeited {
			continue
		}
		score := Score(r.hands[p.ID()])
		if score > 21 {
			continue
		}
		switch {
		case score > best:
			best = score
			winners = []*session.Player{p}
		case score == best && best > 0:
			winners = append(winners, p)
		}
	}

	switch len(winners) {
	case 0:
		return session.Nobody()
	case 1:
		return session.WonBy(winners[0])
	default:
		return session.SharedBy(winners...)
	}
}

// Render shows card counts while hands are hidden, full hands once the
// round is decided.
func (r *Rules) Render(g *session.Game) string {
	over := g.Outcome().Decided()
	var sb strings.Builder
	for _, p := range g.Players() {
		hand := r.hands[p.ID()]
		marker := " "
		if p == g.Player() && !over {
			marker = ">"
		}

		score := Score(hand)
		desc := fmt.Sprintf("%d cards", len(hand))
		if over {
			desc = fmt.Sprintf("%s (%d)", FormatHand(hand), score)
		}

		state := ""
		switch {
		case p.Forfeited:
			state = " — forfeited"
		case score > 21:
			state = " — busted"
		case r.stood[p.ID()]:
			state = " — standing"
		}

		sb.WriteString(fmt.Sprintf("%s %s: %s%s\n", marker, p.DisplayName(), desc, state))
	}
	return sb.String()
}

// RenderPrivate composes a player's DM view: their own hand and score.
func (r *Rules) RenderPrivate(g *session.MultiGame, p *session.Player) *discordgo.MessageEmbed {
	hand := r.hands[p.ID()]
	score := Score(hand)
	desc := fmt.Sprintf("Your hand: %s\nScore: %d", FormatHand(hand), score)
	if score > 21 {
		desc += " — busted!"
	}
	return &discordgo.MessageEmbed{
		Title:       "Twenty-One — your hand",
		Description: desc,
	}
}

// Score totals a hand, downgrading aces from 11 to 1 while the hand busts.
func Score(hand []cards.Card) int {
	total, aces := 0, 0
	for _, c := range hand {
		total += c.Value()
		if c.Rank == cards.Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// FormatHand renders a hand as a comma-separated card list.
func FormatHand(hand []cards.Card) string {
	out := make([]string, len(hand))
	for i, c := range hand {
		out[i] = c.String()
	}
	return strings.Join(out, ", ")
}
