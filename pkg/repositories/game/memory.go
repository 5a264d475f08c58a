package game

import (
	"context"
	"sync"
	"time"

	"github.com/parlorbot/parlor/pkg/entities"
)

// MemoryRepository implements Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of channelID to game results
	channelResults map[string][]*entities.GameResult
	// Map of playerID to game results
	playerResults map[string][]*entities.GameResult
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		channelResults: make(map[string][]*entities.GameResult),
		playerResults:  make(map[string][]*entities.GameResult),
	}
}

// SaveGameResult stores a game result and updates both channel and player histories
func (r *MemoryRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.channelResults[result.ChannelID] = append(r.channelResults[result.ChannelID], result)

	for _, pr := range result.PlayerResults {
		r.playerResults[pr.PlayerID] = append(r.playerResults[pr.PlayerID], result)
	}

	return nil
}

// GetPlayerResults retrieves game results for a player
func (r *MemoryRepository) GetPlayerResults(ctx context.Context, playerID string) ([]*entities.GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := r.playerResults[playerID]
	if results == nil {
		return []*entities.GameResult{}, nil
	}
	return results, nil
}

// GetChannelResults retrieves recent game results for a channel
func (r *MemoryRepository) GetChannelResults(ctx context.Context, channelID string, limit int) ([]*entities.GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := r.channelResults[channelID]
	if results == nil {
		return []*entities.GameResult{}, nil
	}

	// If we have more results than the limit, return only the most recent ones
	if limit > 0 && len(results) > limit {
		return results[len(results)-limit:], nil
	}
	return results, nil
}

// GetPlayerStatistics aggregates a player's stored results on the fly
func (r *MemoryRepository) GetPlayerStatistics(ctx context.Context, playerID string, gameType string) (*entities.PlayerStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &entities.PlayerStatistics{
		PlayerID: playerID,
		GameType: gameType,
	}

	for _, result := range r.playerResults[playerID] {
		if gameType != "" && result.GameType != gameType {
			continue
		}
		for _, pr := range result.PlayerResults {
			if pr.PlayerID == playerID {
				stats.Record(pr.Result)
			}
		}
	}

	return stats, nil
}

// CleanupOldResults drops results completed before the retention window
func (r *MemoryRepository) CleanupOldResults(ctx context.Context, maxAge time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for channelID, results := range r.channelResults {
		r.channelResults[channelID] = keepAfter(results, cutoff)
	}
	for playerID, results := range r.playerResults {
		r.playerResults[playerID] = keepAfter(results, cutoff)
	}

	return nil
}

func keepAfter(results []*entities.GameResult, cutoff time.Time) []*entities.GameResult {
	kept := results[:0]
	for _, result := range results {
		if result.CompletedAt.After(cutoff) {
			kept = append(kept, result)
		}
	}
	return kept
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}
