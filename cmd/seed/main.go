// Command seed fills an empty registry with sample accounts, parcels and
// expropriation cases. It reads the same environment as the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/database"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/repository"
	"github.com/stwalsh4118/landregistry/internal/seed"
)

func main() {
	os.Exit(seedMain())
}

// seedMain returns the process exit code so deferred cleanup runs before exit.
func seedMain() int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, cfg, log)
	if err != nil {
		log.Error("Seeding failed", err, nil)
		return 1
	}
	log.Info("Seeding finished", map[string]interface{}{
		"status":         result.Status,
		"parcels":        len(result.Parcels),
		"expropriations": len(result.Expropriations),
	})
	return 0
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) (*seed.Result, error) {
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}

	users := repository.NewUserRepository(db)
	if _, err := seed.NewUserSeeder(users, log, nil).Run(ctx); err != nil {
		return nil, err
	}

	generator := seed.NewGenerator(
		repository.NewParcelRepository(db),
		repository.NewExpropriationRepository(db),
		users,
		log,
		seed.FromConfig(cfg.Seed)...,
	)
	return generator.Run(ctx)
}
