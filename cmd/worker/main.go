package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/petify-api/internal/app/api"
	catalogactivities "github.com/Apurer/petify-api/internal/platform/temporal/activities/catalog"
	catalogworkflows "github.com/Apurer/petify-api/internal/platform/temporal/workflows/catalog"
)

func main() {
	ctx := context.Background()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	cfg.ServiceName = "petify-worker"
	instruments, shutdown, err := api.InitObservability(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, err := api.BuildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stores.Close()
	categoryRepo, closeCache := api.BuildCategoryCache(ctx, cfg, stores.Categories, nil, logger)
	defer closeCache()
	categoryService := api.NewCategoryService(instruments, categoryRepo, stores.MoveJournal)
	moveActivities := catalogactivities.NewActivities(categoryService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, catalogworkflows.CatalogTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(catalogworkflows.SubcategoryMoveWorkflow, workflow.RegisterOptions{Name: catalogworkflows.SubcategoryMoveWorkflowName})
	w.RegisterActivityWithOptions(moveActivities.PrepareMove, activity.RegisterOptions{Name: catalogactivities.PrepareMoveActivityName})
	w.RegisterActivityWithOptions(moveActivities.ApplyMoveSource, activity.RegisterOptions{Name: catalogactivities.ApplyMoveSourceActivityName})
	w.RegisterActivityWithOptions(moveActivities.ApplyMoveTarget, activity.RegisterOptions{Name: catalogactivities.ApplyMoveTargetActivityName})
	w.RegisterActivityWithOptions(moveActivities.CompleteMove, activity.RegisterOptions{Name: catalogactivities.CompleteMoveActivityName})

	logger.Info("worker listening", slog.String("taskQueue", catalogworkflows.CatalogTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
