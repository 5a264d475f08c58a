package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parlorbot/parlor/internal/config"
	"github.com/parlorbot/parlor/pkg/discord"
	"github.com/parlorbot/parlor/pkg/repositories/game"
	"github.com/parlorbot/parlor/pkg/scheduler"
)

// How long finished game results are kept before the cleanup job removes them
const resultRetention = 90 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	gameRepo := newRepository(cfg)

	bot, err := discord.NewBot(cfg, gameRepo)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	sched := scheduler.New()
	err = sched.AddJob("result-cleanup", cfg.CleanupSchedule, func(ctx context.Context) error {
		return gameRepo.CleanupOldResults(ctx, resultRetention)
	})
	if err != nil {
		log.Fatalf("Error scheduling cleanup job: %v", err)
	}
	sched.Start()

	if err := bot.Start(); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	log.Println("Bot is running. Press Ctrl+C to exit")

	// Wait for interrupt signal to gracefully shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	sched.Stop()
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}
}

// newRepository builds the configured storage backend, falling back to the
// in-memory repository when a backend fails to initialize
func newRepository(cfg *config.Config) game.Repository {
	switch cfg.StorageType {
	case "sqlite":
		dbPath := cfg.DataDir + "/parlor.db"
		log.Printf("Initializing SQLite repository at %s", dbPath)
		repo, err := game.NewSQLiteRepository(dbPath)
		if err != nil {
			log.Printf("Failed to initialize SQLite repository: %v", err)
			log.Println("Falling back to in-memory repository")
			return game.NewMemoryRepository()
		}
		return repo

	case "elasticsearch":
		dbPath := cfg.DataDir + "/parlor.db"
		base, err := game.NewSQLiteRepository(dbPath)
		if err != nil {
			log.Printf("Failed to initialize SQLite base repository: %v", err)
			log.Println("Falling back to in-memory repository")
			return game.NewMemoryRepository()
		}

		esCfg := game.DefaultElasticsearchConfig()
		esCfg.URL = cfg.ElasticURL
		esCfg.Username = cfg.ElasticUser
		esCfg.Password = cfg.ElasticPassword
		esCfg.IndexPrefix = cfg.ElasticPrefix
		esCfg.RetentionPeriod = resultRetention

		repo, err := game.NewElasticsearchRepository(base, esCfg)
		if err != nil {
			log.Printf("Failed to initialize Elasticsearch repository: %v", err)
			log.Println("Falling back to SQLite repository")
			return base
		}
		return repo

	default:
		log.Println("Using in-memory repository for game data (data will be lost on restart)")
		return game.NewMemoryRepository()
	}
}
