package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Apurer/petify-api/internal/app/api"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	cfg.ServiceName = "petify-move-reconciler"
	instruments, shutdown, err := api.InitObservability(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	logger := instruments.Logger

	if cfg.StorageDriver == api.StorageAuto && !cfg.UsePostgres() && !cfg.UseMongo() {
		logger.Error("no durable storage configured; nothing to reconcile")
		return
	}
	stores, err := api.BuildStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to configure storage: %v", err)
	}
	defer stores.Close()
	categoryRepo, closeCache := api.BuildCategoryCache(ctx, cfg, stores.Categories, nil, logger)
	defer closeCache()

	service := api.NewCategoryService(instruments, categoryRepo, stores.MoveJournal)
	result, err := service.ReconcileMoves(ctx)
	if err != nil {
		log.Fatalf("failed to reconcile subcategory moves: %v", err)
	}
	logger.Info("subcategory move reconciliation completed",
		slog.Int("examined", result.Examined),
		slog.Int("completed", result.Completed),
		slog.Int("rolledBack", result.RolledBack),
		slog.Int("failed", len(result.Failed)),
	)
	for id, reason := range result.Failed {
		logger.Warn("subcategory move left incomplete", slog.String("move_id", id), slog.String("reason", reason))
	}
}
