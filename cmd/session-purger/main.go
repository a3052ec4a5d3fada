package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/petify-api/internal/app/api"
	adminpostgres "github.com/Apurer/petify-api/internal/domains/admins/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/petify-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN not set; cannot purge admin sessions")
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer func() { _ = platformpostgres.Close(db) }()

	store := adminpostgres.NewSessionStore(db, cfg.SessionTTL)
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge admin sessions: %v", err)
	}
	logger.Info("admin session purge completed", slog.Int64("purged", purged))
}
