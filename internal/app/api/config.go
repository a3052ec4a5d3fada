package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	catalogapp "github.com/Apurer/petify-api/internal/domains/catalog/application"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageAuto     = "auto"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port         string
	ServiceName  string
	Environment  string
	LogLevel     string
	OTLPEndpoint string
	OTLPInsecure bool
	// TraceSampleRatio is the parent-based sampling ratio in [0,1].
	TraceSampleRatio float64

	StorageDriver string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CategoryCacheTTL time.Duration

	Auth          auth.Config
	CategoryMatch catalogapp.MatchPolicy

	BootstrapAdminName     string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	SessionTTL                 time.Duration
	SessionPurgeIntervalMinute int

	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string
}

// LoadConfig reads an optional .env file and the environment once, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:         envDefault("PORT", "8080"),
		ServiceName:  envDefault("SERVICE_NAME", "petify-api"),
		Environment:  envDefault("ENVIRONMENT", "local"),
		LogLevel:     envDefault("LOG_LEVEL", "info"),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure: isTruthy(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")),

		StorageDriver: strings.ToLower(envDefault("STORAGE_DRIVER", StorageAuto)),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		MongoURI:      strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase: envDefault("MONGO_DATABASE", "petify"),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		BootstrapAdminName:     envDefault("BOOTSTRAP_ADMIN_NAME", "superadmin"),
		BootstrapAdminEmail:    strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL")),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),

		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),

		CORSOrigins: listEnv("CORS_ALLOWED_ORIGINS", "*"),
	}

	switch cfg.StorageDriver {
	case StorageAuto, StorageMemory, StoragePostgres, StorageMongo:
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be one of auto, memory, postgres, mongo")
	}

	var err error
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	cacheSeconds, err := intEnv("CATEGORY_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return Config{}, err
	}
	cfg.CategoryCacheTTL = time.Duration(cacheSeconds) * time.Second

	accessHours, err := intEnv("JWT_ACCESS_TTL_HOURS", 168)
	if err != nil {
		return Config{}, err
	}
	refreshHours, err := intEnv("JWT_REFRESH_TTL_HOURS", 720)
	if err != nil {
		return Config{}, err
	}
	if cfg.TraceSampleRatio, err = ratioEnv("OTEL_TRACES_SAMPLER_ARG", 1); err != nil {
		return Config{}, err
	}

	cfg.Auth = auth.Config{
		Secret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AccessTTL:  time.Duration(accessHours) * time.Hour,
		RefreshTTL: time.Duration(refreshHours) * time.Hour,
	}
	if cfg.Auth.Secret == "" {
		if cfg.Environment != "local" {
			return Config{}, errors.New("JWT_SECRET is required outside the local environment")
		}
		cfg.Auth.Secret = "petify-local-development-secret"
	}
	cfg.SessionTTL = cfg.Auth.RefreshTTL

	if cfg.CategoryMatch, err = catalogapp.ParseMatchPolicy(os.Getenv("CATALOG_CATEGORY_MATCH")); err != nil {
		return Config{}, err
	}

	if raw := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("SESSION_PURGE_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.SessionPurgeIntervalMinute = minutes
	}
	return cfg, nil
}

// UseMongo reports whether catalog and seller data live in MongoDB.
func (c Config) UseMongo() bool {
	return c.StorageDriver == StorageMongo || (c.StorageDriver == StorageAuto && c.PostgresDSN == "" && c.MongoURI != "")
}

// UsePostgres reports whether PostgreSQL is the primary store.
func (c Config) UsePostgres() bool {
	return c.StorageDriver == StoragePostgres || (c.StorageDriver == StorageAuto && c.PostgresDSN != "")
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return value, nil
}

func ratioEnv(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 1 {
		return 0, fmt.Errorf("%s must be a number between 0 and 1", key)
	}
	return value, nil
}

func listEnv(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(envDefault(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
