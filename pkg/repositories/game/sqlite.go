package game

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/parlorbot/parlor/pkg/entities"
)

// SQLite table schemas
const (
	createGameResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS game_results (
		id TEXT PRIMARY KEY,
		game_type TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP NOT NULL,
		turns INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_channel ON game_results(channel_id)`

	createPlayerResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS player_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_result_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		username TEXT NOT NULL,
		bot BOOLEAN NOT NULL,
		result TEXT NOT NULL,
		FOREIGN KEY (game_result_id) REFERENCES game_results(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_player ON player_results(player_id)`
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, schema := range []string{createGameResultsTableSQL, createPlayerResultsTableSQL} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating tables: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveGameResult stores a game result
func (r *SQLiteRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	query := `
		INSERT INTO game_results (
			id, game_type, channel_id, started_at, completed_at, turns
		) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		result.ID, result.GameType, result.ChannelID,
		result.StartedAt, result.CompletedAt, result.Turns)
	if err != nil {
		return err
	}

	for _, pr := range result.PlayerResults {
		query := `
			INSERT INTO player_results (
				game_result_id, player_id, username, bot, result
			) VALUES (?, ?, ?, ?, ?)`

		_, err = tx.ExecContext(ctx, query,
			result.ID, pr.PlayerID, pr.Username, pr.Bot, pr.Result.String())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetPlayerResults retrieves game results for a player
func (r *SQLiteRepository) GetPlayerResults(ctx context.Context, playerID string) ([]*entities.GameResult, error) {
	query := `
		SELECT gr.id, gr.game_type, gr.channel_id, gr.started_at, gr.completed_at, gr.turns
		FROM game_results gr
		JOIN player_results pr ON gr.id = pr.game_result_id
		WHERE pr.player_id = ?
		ORDER BY gr.completed_at DESC`

	return r.queryResults(ctx, query, playerID)
}

// GetChannelResults retrieves recent game results for a channel
func (r *SQLiteRepository) GetChannelResults(ctx context.Context, channelID string, limit int) ([]*entities.GameResult, error) {
	query := `
		SELECT gr.id, gr.game_type, gr.channel_id, gr.started_at, gr.completed_at, gr.turns
		FROM game_results gr
		WHERE gr.channel_id = ?
		ORDER BY gr.completed_at DESC
		LIMIT ?`

	return r.queryResults(ctx, query, channelID, limit)
}

// queryResults runs a game_results query and attaches each game's player rows
func (r *SQLiteRepository) queryResults(ctx context.Context, query string, args ...interface{}) ([]*entities.GameResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gameIDs []string
	var results []*entities.GameResult
	resultMap := make(map[string]*entities.GameResult)

	for rows.Next() {
		result := &entities.GameResult{
			PlayerResults: []*entities.PlayerResult{},
		}
		err := rows.Scan(
			&result.ID, &result.GameType, &result.ChannelID,
			&result.StartedAt, &result.CompletedAt, &result.Turns,
		)
		if err != nil {
			return nil, err
		}

		resultMap[result.ID] = result
		results = append(results, result)
		gameIDs = append(gameIDs, result.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(gameIDs) == 0 {
		return []*entities.GameResult{}, nil
	}

	placeholders := make([]string, len(gameIDs))
	playerArgs := make([]interface{}, len(gameIDs))
	for i, id := range gameIDs {
		placeholders[i] = "?"
		playerArgs[i] = id
	}

	playerQuery := `
		SELECT game_result_id, player_id, username, bot, result
		FROM player_results
		WHERE game_result_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY id`

	playerRows, err := r.db.QueryContext(ctx, playerQuery, playerArgs...)
	if err != nil {
		return nil, err
	}
	defer playerRows.Close()

	for playerRows.Next() {
		var (
			gameID    string
			playerID  string
			username  string
			bot       bool
			resultStr string
		)

		err := playerRows.Scan(&gameID, &playerID, &username, &bot, &resultStr)
		if err != nil {
			return nil, err
		}

		if result, exists := resultMap[gameID]; exists {
			result.PlayerResults = append(result.PlayerResults, &entities.PlayerResult{
				PlayerID: playerID,
				Username: username,
				Bot:      bot,
				Result:   entities.StringResult(resultStr),
			})
		}
	}

	return results, playerRows.Err()
}

// GetPlayerStatistics aggregates a player's results with a single query
func (r *SQLiteRepository) GetPlayerStatistics(ctx context.Context, playerID string, gameType string) (*entities.PlayerStatistics, error) {
	query := `
		SELECT
			COUNT(*),
			SUM(CASE WHEN pr.result = 'WIN' THEN 1 ELSE 0 END),
			SUM(CASE WHEN pr.result = 'LOSS' THEN 1 ELSE 0 END),
			SUM(CASE WHEN pr.result = 'DRAW' THEN 1 ELSE 0 END),
			SUM(CASE WHEN pr.result = 'FORFEIT' THEN 1 ELSE 0 END),
			COALESCE(MAX(gr.completed_at), CURRENT_TIMESTAMP)
		FROM player_results pr
		JOIN game_results gr ON gr.id = pr.game_result_id
		WHERE pr.player_id = ? AND (? = '' OR gr.game_type = ?)`

	stats := &entities.PlayerStatistics{
		PlayerID: playerID,
		GameType: gameType,
	}

	var wins, losses, draws, forfeits sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, playerID, gameType, gameType).Scan(
		&stats.GamesPlayed, &wins, &losses, &draws, &forfeits, &stats.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	stats.Wins = int(wins.Int64)
	stats.Losses = int(losses.Int64)
	stats.Draws = int(draws.Int64)
	stats.Forfeits = int(forfeits.Int64)
	return stats, nil
}

// CleanupOldResults deletes results completed before the retention window
func (r *SQLiteRepository) CleanupOldResults(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// SQLite only honors ON DELETE CASCADE with foreign keys enabled, so
	// delete the child rows explicitly
	_, err = tx.ExecContext(ctx, `
		DELETE FROM player_results
		WHERE game_result_id IN (SELECT id FROM game_results WHERE completed_at < ?)`, cutoff)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM game_results WHERE completed_at < ?`, cutoff)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
