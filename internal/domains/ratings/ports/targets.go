package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
)

// ErrTargetNotFound reports a rating aimed at a product or seller that does not exist.
var ErrTargetNotFound = errors.New("rating target not found")

// TargetChecker confirms a rated product or seller exists.
type TargetChecker interface {
	Exists(ctx context.Context, id string) error
}

// SummaryPublisher receives the recomputed aggregate after every rating write.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, id string, summary domain.Summary) error
}
