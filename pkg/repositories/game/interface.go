package game

import (
	"context"
	"errors"
	"time"

	"github.com/parlorbot/parlor/pkg/entities"
)

// Common repository errors
var (
	ErrResultNotFound = errors.New("game result not found")
)

// Repository defines storage operations for session results and statistics
type Repository interface {
	// SaveGameResult stores the outcome of a finished session
	SaveGameResult(ctx context.Context, result *entities.GameResult) error

	// GetPlayerResults retrieves results a player took part in
	GetPlayerResults(ctx context.Context, playerID string) ([]*entities.GameResult, error)

	// GetChannelResults retrieves the most recent results for a channel
	GetChannelResults(ctx context.Context, channelID string, limit int) ([]*entities.GameResult, error)

	// GetPlayerStatistics aggregates a player's results for a game type;
	// an empty gameType aggregates across all games
	GetPlayerStatistics(ctx context.Context, playerID string, gameType string) (*entities.PlayerStatistics, error)

	// CleanupOldResults removes results completed before the retention window
	CleanupOldResults(ctx context.Context, maxAge time.Duration) error

	// Close closes any resources used by the repository
	Close() error
}
