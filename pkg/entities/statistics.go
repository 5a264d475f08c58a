package entities

import "time"

// PlayerStatistics represents aggregated results for a player in a specific
// game type
type PlayerStatistics struct {
	PlayerID    string
	GameType    string
	GamesPlayed int
	Wins        int
	Losses      int
	Draws       int
	Forfeits    int
	LastUpdated time.Time
}

// WinRate calculates the player's win rate as a percentage
func (s *PlayerStatistics) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0.0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100.0
}

// Record folds one result into the aggregate
func (s *PlayerStatistics) Record(r Result) {
	s.GamesPlayed++
	switch r {
	case StringResultWin:
		s.Wins++
	case StringResultLoss:
		s.Losses++
	case StringResultDraw:
		s.Draws++
	case StringResultForfeit:
		s.Forfeits++
	}
	s.LastUpdated = time.Now()
}
