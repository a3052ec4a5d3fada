package cache

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

const keyPrefix = "petify:category:"

var _ ports.CategoryCache = (*RedisCategoryCache)(nil)

// RedisCategoryCache stores category projections as JSON strings.
type RedisCategoryCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCategoryCache builds a cache over client. A nil logger discards errors.
func NewRedisCategoryCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *RedisCategoryCache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RedisCategoryCache{client: client, ttl: ttl, logger: logger}
}

type cachedCategory struct {
	ID                string    `json:"id"`
	PetType           string    `json:"pet_type"`
	ProductCategories []string  `json:"product_categories"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Get returns the cached category, treating every error as a miss.
func (c *RedisCategoryCache) Get(ctx context.Context, id string) (*projection.Projection[*domain.Category], bool) {
	raw, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "category cache read failed", slog.String("category_id", id), slog.String("error", err.Error()))
		}
		return nil, false
	}
	var entry cachedCategory
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	category := &domain.Category{
		ID:                entry.ID,
		PetType:           entry.PetType,
		ProductCategories: entry.ProductCategories,
		IsActive:          entry.IsActive,
	}
	return projection.New(category, entry.CreatedAt, entry.UpdatedAt), true
}

// Set stores p for the configured TTL.
func (c *RedisCategoryCache) Set(ctx context.Context, p *projection.Projection[*domain.Category]) {
	if p == nil || p.Entity == nil {
		return
	}
	data, err := json.Marshal(cachedCategory{
		ID:                p.Entity.ID,
		PetType:           p.Entity.PetType,
		ProductCategories: p.Entity.ProductCategories,
		IsActive:          p.Entity.IsActive,
		CreatedAt:         p.Metadata.CreatedAt,
		UpdatedAt:         p.Metadata.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+p.Entity.ID, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "category cache write failed", slog.String("category_id", p.Entity.ID), slog.String("error", err.Error()))
	}
}

// Invalidate drops the given categories.
func (c *RedisCategoryCache) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, keyPrefix+id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "category cache invalidation failed", slog.Any("category_ids", ids), slog.String("error", err.Error()))
	}
}
