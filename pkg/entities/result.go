package entities

import "time"

// Result represents the outcome of a player's participation in a session
type Result interface {
	// String returns the string representation of the result
	String() string

	// IsWin returns true if this result represents a win
	IsWin() bool
}

// StringResult is a simple string-based implementation of Result
type StringResult string

// String returns the string representation of the result
func (r StringResult) String() string {
	return string(r)
}

// IsWin returns true if this result represents a win
func (r StringResult) IsWin() bool {
	return r == StringResultWin
}

// Common result constants
const (
	StringResultWin     StringResult = "WIN"
	StringResultLoss    StringResult = "LOSS"
	StringResultDraw    StringResult = "DRAW"
	StringResultForfeit StringResult = "FORFEIT"
	StringResultNone    StringResult = "NONE"
)

// GameResult represents the recorded outcome of one finished session
type GameResult struct {
	ID            string
	GameType      string
	ChannelID     string
	StartedAt     time.Time
	CompletedAt   time.Time
	Turns         int
	PlayerResults []*PlayerResult
}

// PlayerResult represents one participant's share of a session outcome
type PlayerResult struct {
	PlayerID string
	Username string
	Bot      bool
	Result   Result
}
