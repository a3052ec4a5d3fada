package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	petifyserver "github.com/Apurer/petify-api/go"

	adminsobs "github.com/Apurer/petify-api/internal/domains/admins/adapters/observability"
	adminapp "github.com/Apurer/petify-api/internal/domains/admins/application"
	adminports "github.com/Apurer/petify-api/internal/domains/admins/ports"
	catalogcache "github.com/Apurer/petify-api/internal/domains/catalog/adapters/cache"
	catalogobs "github.com/Apurer/petify-api/internal/domains/catalog/adapters/observability"
	catalogworkflows "github.com/Apurer/petify-api/internal/domains/catalog/adapters/workflows"
	catalogapp "github.com/Apurer/petify-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/petify-api/internal/domains/catalog/ports"
	customersobs "github.com/Apurer/petify-api/internal/domains/customers/adapters/observability"
	customerapp "github.com/Apurer/petify-api/internal/domains/customers/application"
	ordersobs "github.com/Apurer/petify-api/internal/domains/orders/adapters/observability"
	orderpricing "github.com/Apurer/petify-api/internal/domains/orders/adapters/pricing"
	orderapp "github.com/Apurer/petify-api/internal/domains/orders/application"
	ratingsobs "github.com/Apurer/petify-api/internal/domains/ratings/adapters/observability"
	ratingtargets "github.com/Apurer/petify-api/internal/domains/ratings/adapters/targets"
	ratingapp "github.com/Apurer/petify-api/internal/domains/ratings/application"
	ratingdomain "github.com/Apurer/petify-api/internal/domains/ratings/domain"
	sellersobs "github.com/Apurer/petify-api/internal/domains/sellers/adapters/observability"
	sellerapp "github.com/Apurer/petify-api/internal/domains/sellers/application"
	"github.com/Apurer/petify-api/internal/platform/auth"
	"github.com/Apurer/petify-api/internal/platform/metrics"
	platformobservability "github.com/Apurer/petify-api/internal/platform/observability"
	platformredis "github.com/Apurer/petify-api/internal/platform/redis"
)

// Run boots the Petify HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := InitObservability(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	issuer, err := auth.NewIssuer(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to configure tokens: %w", err)
	}
	stores, err := BuildStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure storage: %w", err)
	}
	defer stores.Close()

	promMetrics := metrics.New("petify")
	categoryRepo, closeCache := BuildCategoryCache(ctx, cfg, stores.Categories, promMetrics, logger)
	defer closeCache()

	categoryService := NewCategoryService(instruments, categoryRepo, stores.MoveJournal)
	productService := catalogobs.NewProductService(
		catalogapp.NewProductService(stores.Products, catalogapp.NewValidator(categoryRepo, cfg.CategoryMatch)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	sellerService := sellersobs.New(
		sellerapp.NewService(stores.Sellers, issuer),
		sellersobs.WithLogger(logger),
		sellersobs.WithTracer(instruments.Tracer("internal.sellers.application")),
		sellersobs.WithMeter(instruments.Meter("internal.sellers.application")),
	)
	adminService := adminsobs.New(
		adminapp.NewService(stores.Admins, stores.Sessions, issuer),
		adminsobs.WithLogger(logger),
		adminsobs.WithTracer(instruments.Tracer("internal.admins.application")),
		adminsobs.WithMeter(instruments.Meter("internal.admins.application")),
	)
	orderService := ordersobs.New(
		orderapp.NewService(stores.Orders,
			orderapp.WithIdempotencyStore(stores.OrderKeys),
			orderapp.WithCatalog(orderpricing.NewCatalog(productService)),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	customerService := customersobs.New(
		customerapp.NewService(stores.Customers, issuer),
		customersobs.WithLogger(logger),
		customersobs.WithTracer(instruments.Tracer("internal.customers.application")),
		customersobs.WithMeter(instruments.Meter("internal.customers.application")),
	)
	productTargets := ratingtargets.NewProducts(productService)
	ratingService := ratingsobs.New(
		ratingapp.NewService(stores.Ratings,
			ratingapp.WithTargetChecker(ratingdomain.TargetProduct, productTargets),
			ratingapp.WithSummaryPublisher(ratingdomain.TargetProduct, productTargets),
			ratingapp.WithTargetChecker(ratingdomain.TargetSeller, ratingtargets.NewSellers(sellerService)),
		),
		ratingsobs.WithLogger(logger),
		ratingsobs.WithTracer(instruments.Tracer("internal.ratings.application")),
		ratingsobs.WithMeter(instruments.Meter("internal.ratings.application")),
	)

	if err := bootstrapAdmin(ctx, cfg, adminService, logger); err != nil {
		return err
	}

	var moves catalogports.MoveOrchestrator = catalogworkflows.NewInlineMoveWorkflows(categoryService)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running subcategory moves inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		moves = catalogworkflows.NewTemporalMoveWorkflows(temporalClient, categoryService)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	if stores.SessionPurger != nil && cfg.SessionPurgeIntervalMinute > 0 {
		purgeCtx, stopPurge := context.WithCancel(ctx)
		defer stopPurge()
		go purgeSessions(purgeCtx, stores.SessionPurger, time.Duration(cfg.SessionPurgeIntervalMinute)*time.Minute, logger)
	}

	handlers := petifyserver.ApiHandleFunctions{
		CategoryAPI: petifyserver.NewCategoryAPI(categoryService, moves),
		ProductAPI:  petifyserver.NewProductAPI(productService),
		SellerAPI:   petifyserver.NewSellerAPI(sellerService),
		AdminAPI:    petifyserver.NewAdminAPI(adminService),
		OrderAPI:    petifyserver.NewOrderAPI(orderService),
		CustomerAPI: petifyserver.NewCustomerAPI(customerService, orderService),
		RatingAPI:   petifyserver.NewRatingAPI(ratingService),
	}
	router := petifyserver.NewRouter(handlers, petifyserver.RouterOptions{
		Issuer:      issuer,
		Metrics:     promMetrics,
		ServiceName: cfg.ServiceName,
		CORSOrigins: cfg.CORSOrigins,
	})

	addr := ":" + cfg.Port
	logger.Info("Petify API listening", slog.String("addr", addr), slog.String("environment", cfg.Environment))
	if err := router.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Petify API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// InitObservability configures slog and OpenTelemetry from cfg.
func InitObservability(ctx context.Context, cfg Config) (*platformobservability.Instruments, func(context.Context) error, error) {
	return platformobservability.Init(ctx, platformobservability.Options{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
		SampleRatio:  cfg.TraceSampleRatio,
		LogLevel:     platformobservability.ParseLevel(cfg.LogLevel),
	})
}

// NewCategoryService builds the journaled, instrumented category service shared
// by the API, the worker, and the reconciler.
func NewCategoryService(instruments *platformobservability.Instruments, repo catalogports.CategoryRepository, journal catalogports.MoveJournal) catalogports.CategoryService {
	return catalogobs.NewCategoryService(
		catalogapp.NewCategoryService(repo, catalogapp.WithMoveJournal(journal)),
		catalogobs.WithLogger(instruments.Logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
}

// BuildCategoryCache puts a Redis or in-memory read-through cache in front of
// inner. A zero CATEGORY_CACHE_TTL_SECONDS disables caching.
func BuildCategoryCache(ctx context.Context, cfg Config, inner catalogports.CategoryRepository, rec catalogcache.Recorder, logger *slog.Logger) (catalogports.CategoryRepository, func()) {
	if cfg.CategoryCacheTTL <= 0 {
		return inner, func() {}
	}
	if cfg.RedisAddr == "" {
		logger.Info("category cache configured in memory", slog.Duration("ttl", cfg.CategoryCacheTTL))
		return catalogcache.NewCategoryRepository(inner, catalogcache.NewMemoryCategoryCache(cfg.CategoryCacheTTL), catalogcache.WithRecorder(rec)), func() {}
	}
	rdb, err := platformredis.Connect(ctx, platformredis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		logger.Warn("failed to connect to redis, caching categories in memory", slog.String("error", err.Error()))
		return catalogcache.NewCategoryRepository(inner, catalogcache.NewMemoryCategoryCache(cfg.CategoryCacheTTL), catalogcache.WithRecorder(rec)), func() {}
	}
	logger.Info("category cache configured with redis", slog.String("addr", cfg.RedisAddr))
	cache := catalogcache.NewRedisCategoryCache(rdb, cfg.CategoryCacheTTL, logger)
	return catalogcache.NewCategoryRepository(inner, cache, catalogcache.WithRecorder(rec)), func() { _ = rdb.Close() }
}

func bootstrapAdmin(ctx context.Context, cfg Config, admins adminports.Service, logger *slog.Logger) error {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}
	admin, created, err := admins.EnsureBootstrapAdmin(ctx, adminports.RegisterInput{
		Name:     cfg.BootstrapAdminName,
		Email:    cfg.BootstrapAdminEmail,
		Password: cfg.BootstrapAdminPassword,
		Role:     auth.RoleSuperAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		logger.Info("bootstrap superadmin created", slog.String("admin_id", admin.ID))
	}
	return nil
}

type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func purgeSessions(ctx context.Context, store sessionPurger, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("admin session purge failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("admin sessions purged", slog.Int64("count", purged))
		}
	}
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
