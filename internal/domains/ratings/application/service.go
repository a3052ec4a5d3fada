package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
	"github.com/Apurer/petify-api/internal/domains/ratings/ports"
)

// Service exposes rating use cases. Every write recomputes the target's
// summary from the stored ratings and hands it to the target's publisher.
type Service struct {
	repo       ports.Repository
	checkers   map[domain.TargetType]ports.TargetChecker
	publishers map[domain.TargetType]ports.SummaryPublisher
	clock      func() time.Time
}

type Option func(*Service)

// WithTargetChecker rejects ratings whose target the checker cannot find.
func WithTargetChecker(t domain.TargetType, checker ports.TargetChecker) Option {
	return func(s *Service) {
		if checker != nil {
			s.checkers[t] = checker
		}
	}
}

// WithSummaryPublisher pushes recomputed summaries for targets of type t.
func WithSummaryPublisher(t domain.TargetType, publisher ports.SummaryPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publishers[t] = publisher
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		checkers:   map[domain.TargetType]ports.TargetChecker{},
		publishers: map[domain.TargetType]ports.SummaryPublisher{},
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateRating(ctx context.Context, input ports.CreateInput) (*domain.Rating, error) {
	rating, err := domain.NewRating(input.TargetID, domain.TargetType(input.TargetType), input.Score, input.Review, input.CustomerID)
	if err != nil {
		return nil, mapError(err)
	}
	if checker, ok := s.checkers[rating.TargetType]; ok {
		if err := checker.Exists(ctx, rating.TargetID); err != nil {
			return nil, err
		}
	}
	now := s.clock().UTC()
	rating.CreatedAt, rating.UpdatedAt = now, now
	saved, err := s.repo.Save(ctx, rating)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.RefreshSummary(ctx, saved.TargetType, saved.TargetID); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Service) GetRating(ctx context.Context, id string) (*domain.Rating, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

// ListRatings returns matching ratings, newest first.
func (s *Service) ListRatings(ctx context.Context, filter ports.Filter) ([]*domain.Rating, error) {
	if filter.TargetType != "" {
		targetType, err := domain.ParseTargetType(string(filter.TargetType))
		if err != nil {
			return nil, mapError(err)
		}
		filter.TargetType = targetType
	}
	filter.TargetID = strings.TrimSpace(filter.TargetID)
	filter.CustomerID = strings.TrimSpace(filter.CustomerID)
	return s.repo.List(ctx, filter)
}

func (s *Service) UpdateRating(ctx context.Context, input ports.UpdateInput) (*domain.Rating, error) {
	rating, err := s.owned(ctx, input.ID, input.Actor)
	if err != nil {
		return nil, err
	}
	if input.Score != nil {
		rating.Score = *input.Score
	}
	if input.Review != nil {
		rating.Review = *input.Review
	}
	if err := rating.Validate(); err != nil {
		return nil, mapError(err)
	}
	rating.UpdatedAt = s.clock().UTC()
	saved, err := s.repo.Save(ctx, rating)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Score != nil {
		if _, err := s.RefreshSummary(ctx, saved.TargetType, saved.TargetID); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

func (s *Service) DeleteRating(ctx context.Context, id string, actor ports.Actor) error {
	rating, err := s.owned(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, rating.ID); err != nil {
		return err
	}
	_, err = s.RefreshSummary(ctx, rating.TargetType, rating.TargetID)
	return err
}

// Summary computes the aggregate without publishing it.
func (s *Service) Summary(ctx context.Context, targetType domain.TargetType, targetID string) (domain.Summary, error) {
	targetType, err := domain.ParseTargetType(string(targetType))
	if err != nil {
		return domain.Summary{}, mapError(err)
	}
	return s.summarize(ctx, targetType, strings.TrimSpace(targetID))
}

// RefreshSummary recomputes the aggregate and publishes it when a publisher
// is registered for the target type.
func (s *Service) RefreshSummary(ctx context.Context, targetType domain.TargetType, targetID string) (domain.Summary, error) {
	targetType, err := domain.ParseTargetType(string(targetType))
	if err != nil {
		return domain.Summary{}, mapError(err)
	}
	targetID = strings.TrimSpace(targetID)
	summary, err := s.summarize(ctx, targetType, targetID)
	if err != nil {
		return domain.Summary{}, err
	}
	publisher, ok := s.publishers[targetType]
	if !ok {
		return summary, nil
	}
	if err := publisher.PublishSummary(ctx, targetID, summary); err != nil {
		return domain.Summary{}, fmt.Errorf("publish %s rating summary: %w", targetType, err)
	}
	return summary, nil
}

func (s *Service) summarize(ctx context.Context, targetType domain.TargetType, targetID string) (domain.Summary, error) {
	list, err := s.repo.List(ctx, ports.Filter{TargetType: targetType, TargetID: targetID})
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(list), nil
}

func (s *Service) owned(ctx context.Context, id string, actor ports.Actor) (*domain.Rating, error) {
	rating, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !actor.Staff && rating.CustomerID != actor.ID {
		return nil, ports.ErrForbidden
	}
	return rating, nil
}

var _ ports.Service = (*Service)(nil)
