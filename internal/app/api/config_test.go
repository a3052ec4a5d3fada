package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogcache "github.com/Apurer/petify-api/internal/domains/catalog/adapters/cache"
	catalogmemory "github.com/Apurer/petify-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/petify-api/internal/domains/catalog/application"
)

var configKeys = []string{
	"PORT", "ENVIRONMENT", "STORAGE_DRIVER", "POSTGRES_DSN", "MONGO_URI", "REDIS_ADDR",
	"CATEGORY_CACHE_TTL_SECONDS", "JWT_SECRET", "JWT_ACCESS_TTL_HOURS", "JWT_REFRESH_TTL_HOURS",
	"CATALOG_CATEGORY_MATCH", "OTEL_TRACES_SAMPLER_ARG", "SESSION_PURGE_INTERVAL_MINUTES", "CORS_ALLOWED_ORIGINS",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_LocalDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageAuto, cfg.StorageDriver)
	assert.Equal(t, "petify", cfg.MongoDatabase)
	assert.Equal(t, 300*time.Second, cfg.CategoryCacheTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 720*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, cfg.Auth.RefreshTTL, cfg.SessionTTL)
	assert.NotEmpty(t, cfg.Auth.Secret)
	assert.Equal(t, catalogapp.MatchExact, cfg.CategoryMatch)
	assert.InDelta(t, 1.0, cfg.TraceSampleRatio, 0.0001)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.UseMongo())
}

func TestLoadConfig_RequiresSecretOutsideLocal(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://shop.example, ,https://admin.example ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSOrigins)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"STORAGE_DRIVER":                 "cassandra",
		"JWT_ACCESS_TTL_HOURS":           "-1",
		"CATEGORY_CACHE_TTL_SECONDS":     "soon",
		"CATALOG_CATEGORY_MATCH":         "fuzzy",
		"OTEL_TRACES_SAMPLER_ARG":        "1.5",
		"SESSION_PURGE_INTERVAL_MINUTES": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestConfig_StorageSelection(t *testing.T) {
	auto := Config{StorageDriver: StorageAuto, PostgresDSN: "postgres://x", MongoURI: "mongodb://y"}
	assert.True(t, auto.UsePostgres())
	assert.False(t, auto.UseMongo())

	auto.PostgresDSN = ""
	assert.True(t, auto.UseMongo())

	explicit := Config{StorageDriver: StorageMongo, PostgresDSN: "postgres://x"}
	assert.True(t, explicit.UseMongo())
	assert.False(t, explicit.UsePostgres())
}

func TestBuildStores_MemoryDriver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores, err := BuildStores(context.Background(), Config{StorageDriver: StorageMemory}, logger)
	require.NoError(t, err)
	defer stores.Close()

	assert.NotNil(t, stores.Categories)
	assert.NotNil(t, stores.OrderKeys)
	assert.Nil(t, stores.SessionPurger)
}

func TestBuildCategoryCache(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inner := catalogmemory.NewCategoryRepository()

	repo, closeCache := BuildCategoryCache(context.Background(), Config{}, inner, nil, logger)
	closeCache()
	assert.Same(t, inner, repo)

	repo, closeCache = BuildCategoryCache(context.Background(), Config{CategoryCacheTTL: time.Minute}, inner, nil, logger)
	closeCache()
	assert.IsType(t, &catalogcache.CategoryRepository{}, repo)
}
