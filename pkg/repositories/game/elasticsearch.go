package game

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/parlorbot/parlor/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL             string
	Username        string
	Password        string
	IndexPrefix     string
	RetentionPeriod time.Duration // How long to keep game results in Elasticsearch
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:             "http://localhost:9200",
		IndexPrefix:     "parlor",
		RetentionPeriod: 90 * 24 * time.Hour, // 90 days
	}
}

// ElasticsearchRepository implements the Repository interface using
// Elasticsearch for result documents, with a base repository answering reads
// that Elasticsearch has no index for
type ElasticsearchRepository struct {
	baseRepo    Repository
	client      *elasticsearch.Client
	config      *ElasticsearchConfig
	indexPrefix string
}

// esGameResult is the indexed document shape for a game result
type esGameResult struct {
	ResultID    string           `json:"result_id"`
	GameType    string           `json:"game_type"`
	ChannelID   string           `json:"channel_id"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
	Turns       int              `json:"turns"`
	Players     []esPlayerResult `json:"players"`
}

type esPlayerResult struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
	Result   string `json:"result"`
}

// NewElasticsearchRepository creates a new Elasticsearch repository
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.IndexPrefix == "" {
		config.IndexPrefix = "parlor"
	}
	if config.RetentionPeriod == 0 {
		config.RetentionPeriod = 90 * 24 * time.Hour
	}

	repo := &ElasticsearchRepository{
		baseRepo:    baseRepo,
		client:      client,
		config:      config,
		indexPrefix: config.IndexPrefix,
	}

	ctx := context.Background()
	if err := repo.initIndices(ctx); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}

	return repo, nil
}

func (r *ElasticsearchRepository) resultsIndex() string {
	return r.indexPrefix + "_results"
}

// initIndices creates the results index if it doesn't exist
func (r *ElasticsearchRepository) initIndices(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.resultsIndex()})
	if err != nil {
		return fmt.Errorf("error checking if results index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 404 {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"result_id": { "type": "keyword" },
				"game_type": { "type": "keyword" },
				"channel_id": { "type": "keyword" },
				"started_at": { "type": "date" },
				"completed_at": { "type": "date" },
				"turns": { "type": "integer" },
				"players": {
					"type": "nested",
					"properties": {
						"player_id": { "type": "keyword" },
						"username": { "type": "keyword" },
						"bot": { "type": "boolean" },
						"result": { "type": "keyword" }
					}
				}
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: r.resultsIndex(),
		Body:  bytes.NewReader([]byte(mapping)),
	}

	createRes, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating results index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating results index: %s", createRes.String())
	}
	return nil
}

// SaveGameResult indexes the result document and stores it in the base repository
func (r *ElasticsearchRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	doc := esGameResult{
		ResultID:    result.ID,
		GameType:    result.GameType,
		ChannelID:   result.ChannelID,
		StartedAt:   result.StartedAt,
		CompletedAt: result.CompletedAt,
		Turns:       result.Turns,
	}
	for _, pr := range result.PlayerResults {
		doc.Players = append(doc.Players, esPlayerResult{
			PlayerID: pr.PlayerID,
			Username: pr.Username,
			Bot:      pr.Bot,
			Result:   pr.Result.String(),
		})
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling result document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      r.resultsIndex(),
		DocumentID: result.ID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error indexing result: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing result: %s", res.String())
	}

	return r.baseRepo.SaveGameResult(ctx, result)
}

// GetPlayerResults delegates to the base repository
func (r *ElasticsearchRepository) GetPlayerResults(ctx context.Context, playerID string) ([]*entities.GameResult, error) {
	return r.baseRepo.GetPlayerResults(ctx, playerID)
}

// GetChannelResults delegates to the base repository
func (r *ElasticsearchRepository) GetChannelResults(ctx context.Context, channelID string, limit int) ([]*entities.GameResult, error) {
	return r.baseRepo.GetChannelResults(ctx, channelID, limit)
}

// GetPlayerStatistics delegates to the base repository
func (r *ElasticsearchRepository) GetPlayerStatistics(ctx context.Context, playerID string, gameType string) (*entities.PlayerStatistics, error) {
	return r.baseRepo.GetPlayerStatistics(ctx, playerID, gameType)
}

// CleanupOldResults deletes documents past the retention window from the
// index and applies the same cleanup to the base repository
func (r *ElasticsearchRepository) CleanupOldResults(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	query := fmt.Sprintf(`{
		"query": {
			"range": {
				"completed_at": { "lt": %q }
			}
		}
	}`, cutoff.Format(time.RFC3339))

	req := esapi.DeleteByQueryRequest{
		Index: []string{r.resultsIndex()},
		Body:  bytes.NewReader([]byte(query)),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error deleting old results: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error deleting old results: %s", res.String())
	}

	return r.baseRepo.CleanupOldResults(ctx, maxAge)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}
