package api

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	adminmemory "github.com/Apurer/petify-api/internal/domains/admins/adapters/memory"
	adminpostgres "github.com/Apurer/petify-api/internal/domains/admins/adapters/persistence/postgres"
	adminports "github.com/Apurer/petify-api/internal/domains/admins/ports"
	catalogmemory "github.com/Apurer/petify-api/internal/domains/catalog/adapters/memory"
	catalogmongo "github.com/Apurer/petify-api/internal/domains/catalog/adapters/persistence/mongo"
	catalogpostgres "github.com/Apurer/petify-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/petify-api/internal/domains/catalog/ports"
	customermemory "github.com/Apurer/petify-api/internal/domains/customers/adapters/memory"
	customerpostgres "github.com/Apurer/petify-api/internal/domains/customers/adapters/persistence/postgres"
	customerports "github.com/Apurer/petify-api/internal/domains/customers/ports"
	ordermemory "github.com/Apurer/petify-api/internal/domains/orders/adapters/memory"
	orderpostgres "github.com/Apurer/petify-api/internal/domains/orders/adapters/persistence/postgres"
	orderports "github.com/Apurer/petify-api/internal/domains/orders/ports"
	ratingmemory "github.com/Apurer/petify-api/internal/domains/ratings/adapters/memory"
	ratingpostgres "github.com/Apurer/petify-api/internal/domains/ratings/adapters/persistence/postgres"
	ratingports "github.com/Apurer/petify-api/internal/domains/ratings/ports"
	sellermemory "github.com/Apurer/petify-api/internal/domains/sellers/adapters/memory"
	sellermongo "github.com/Apurer/petify-api/internal/domains/sellers/adapters/persistence/mongo"
	sellerpostgres "github.com/Apurer/petify-api/internal/domains/sellers/adapters/persistence/postgres"
	sellerports "github.com/Apurer/petify-api/internal/domains/sellers/ports"
	"github.com/Apurer/petify-api/internal/platform/migrations"
	platformmongo "github.com/Apurer/petify-api/internal/platform/mongo"
	platformpostgres "github.com/Apurer/petify-api/internal/platform/postgres"
)

// Stores bundles the repositories of every bounded context.
type Stores struct {
	Categories  catalogports.CategoryRepository
	Products    catalogports.ProductRepository
	MoveJournal catalogports.MoveJournal
	Sellers     sellerports.Repository
	Admins      adminports.Repository
	Sessions    adminports.SessionStore
	Orders      orderports.Repository
	OrderKeys   orderports.IdempotencyStore
	Customers   customerports.Repository
	Ratings     ratingports.Repository

	// SessionPurger is set when sessions are durable.
	SessionPurger *adminpostgres.SessionStore

	closers []func()
}

// Close releases every connection opened by BuildStores.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// BuildStores connects the configured drivers. With STORAGE_DRIVER=auto an
// unreachable database falls back to memory; an explicit driver must connect.
func BuildStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, error) {
	stores := memoryStores()
	if cfg.StorageDriver == StorageMemory {
		logger.Info("storage configured in memory")
		return stores, nil
	}

	if cfg.UsePostgres() || (cfg.UseMongo() && cfg.PostgresDSN != "") {
		db, err := connectPostgres(ctx, cfg.PostgresDSN)
		switch {
		case err != nil && cfg.StorageDriver == StoragePostgres:
			return nil, err
		case err != nil:
			logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		default:
			stores.closers = append(stores.closers, func() { _ = platformpostgres.Close(db) })
			stores.usePostgres(db, cfg)
			logger.Info("storage configured with postgres")
		}
	}

	if cfg.UseMongo() {
		db, err := platformmongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err == nil {
			err = stores.useMongo(ctx, db)
			stores.closers = append(stores.closers, func() { _ = platformmongo.Disconnect(context.Background(), db) })
		}
		switch {
		case err != nil && cfg.StorageDriver == StorageMongo:
			stores.Close()
			return nil, err
		case err != nil:
			logger.Warn("failed to connect to mongo, keeping previous catalog storage", slog.String("error", err.Error()))
		default:
			logger.Info("catalog and seller storage configured with mongo", slog.String("database", cfg.MongoDatabase))
		}
	}
	return stores, nil
}

func memoryStores() *Stores {
	return &Stores{
		Categories:  catalogmemory.NewCategoryRepository(),
		Products:    catalogmemory.NewProductRepository(),
		MoveJournal: catalogmemory.NewMoveJournal(),
		Sellers:     sellermemory.NewRepository(),
		Admins:      adminmemory.NewRepository(),
		Sessions:    adminmemory.NewSessionStore(),
		Orders:      ordermemory.NewRepository(),
		OrderKeys:   ordermemory.NewIdempotencyStore(),
		Customers:   customermemory.NewRepository(),
		Ratings:     ratingmemory.NewRepository(),
	}
}

func (s *Stores) usePostgres(db *gorm.DB, cfg Config) {
	sessions := adminpostgres.NewSessionStore(db, cfg.SessionTTL)
	s.Categories = catalogpostgres.NewCategoryRepository(db)
	s.Products = catalogpostgres.NewProductRepository(db)
	s.MoveJournal = catalogpostgres.NewMoveJournal(db)
	s.Sellers = sellerpostgres.NewRepository(db)
	s.Admins = adminpostgres.NewRepository(db)
	s.Sessions = sessions
	s.SessionPurger = sessions
	s.Orders = orderpostgres.NewRepository(db)
	s.OrderKeys = orderpostgres.NewIdempotencyStore(db)
	s.Customers = customerpostgres.NewRepository(db)
	s.Ratings = ratingpostgres.NewRepository(db)
}

// useMongo moves catalog and seller documents to MongoDB. Admins, sessions,
// orders, customers, and ratings stay on whatever usePostgres or memoryStores chose.
func (s *Stores) useMongo(ctx context.Context, db *mongo.Database) error {
	categories, err := catalogmongo.NewCategoryRepository(ctx, db)
	if err != nil {
		return fmt.Errorf("mongo categories: %w", err)
	}
	products, err := catalogmongo.NewProductRepository(ctx, db)
	if err != nil {
		return fmt.Errorf("mongo products: %w", err)
	}
	sellers, err := sellermongo.NewRepository(ctx, db)
	if err != nil {
		return fmt.Errorf("mongo sellers: %w", err)
	}
	s.Categories = categories
	s.Products = products
	s.MoveJournal = catalogmongo.NewMoveJournal(db)
	s.Sellers = sellers
	return nil
}

func connectPostgres(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is not set")
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db); err != nil {
		_ = platformpostgres.Close(db)
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return db, nil
}
