package session

import "strings"

// OutcomeKind tags the result variant of a session.
type OutcomeKind int

const (
	// OutcomeUndecided means play continues.
	OutcomeUndecided OutcomeKind = iota
	// OutcomeWinner names a sole winner.
	OutcomeWinner
	// OutcomeWinnerNumber names a winner by 1-based roster number; the
	// framework resolves it to a Player during turn resolution.
	OutcomeWinnerNumber
	// OutcomeCoWinners names several winners sharing the result.
	OutcomeCoWinners
	// OutcomeTie is a draw.
	OutcomeTie
	// OutcomeNobody is a failure state with no winner.
	OutcomeNobody
	// OutcomeCustom carries a game-defined sentinel; games that use it
	// should override status and color rendering.
	OutcomeCustom
)

// Outcome is the tagged result of a session. The zero value is undecided.
type Outcome struct {
	Kind      OutcomeKind
	Winner    *Player
	CoWinners []*Player
	Number    int
	Label     string
}

// Undecided returns the in-progress outcome.
func Undecided() Outcome {
	return Outcome{}
}

// WonBy declares a sole winner.
func WonBy(p *Player) Outcome {
	return Outcome{Kind: OutcomeWinner, Winner: p}
}

// WonByNumber declares the winner by 1-based roster number.
func WonByNumber(n int) Outcome {
	return Outcome{Kind: OutcomeWinnerNumber, Number: n}
}

// SharedBy declares co-winners.
func SharedBy(players ...*Player) Outcome {
	return Outcome{Kind: OutcomeCoWinners, CoWinners: players}
}

// Tie declares a draw.
func Tie() Outcome {
	return Outcome{Kind: OutcomeTie}
}

// Nobody declares that the game ended with no winner.
func Nobody() Outcome {
	return Outcome{Kind: OutcomeNobody}
}

// Custom carries a game-defined sentinel value.
func Custom(label string) Outcome {
	return Outcome{Kind: OutcomeCustom, Label: label}
}

// Decided reports whether the session has reached a terminal result.
func (o Outcome) Decided() bool {
	return o.Kind != OutcomeUndecided
}

// String renders the default status line for the outcome.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeWinner:
		if o.Winner != nil {
			return o.Winner.DisplayName() + " wins!"
		}
		return "We have a winner!"
	case OutcomeCoWinners:
		names := make([]string, 0, len(o.CoWinners))
		for _, p := range o.CoWinners {
			names = append(names, p.DisplayName())
		}
		return strings.Join(names, ", ") + " win!"
	case OutcomeTie:
		return "It's a tie."
	case OutcomeNobody:
		return "Nobody wins."
	case OutcomeCustom:
		return o.Label
	default:
		return ""
	}
}
