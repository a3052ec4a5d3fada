package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ratingdomain "github.com/Apurer/petify-api/internal/domains/ratings/domain"
	ratingports "github.com/Apurer/petify-api/internal/domains/ratings/ports"
)

const tracerName = "github.com/Apurer/petify-api/internal/domains/ratings/adapters/observability"

// Service decorates the rating service with tracing, logging, and metrics.
type Service struct {
	inner   ratingports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	changes metric.Int64Counter
	scores  metric.Int64Histogram
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.changes, _ = m.Int64Counter("ratings.service.changes", metric.WithDescription("Number of rating writes"))
		s.scores, _ = m.Int64Histogram("ratings.service.score", metric.WithDescription("Submitted rating scores"))
	}
}

// New wraps the core rating service.
func New(inner ratingports.Service, opts ...Option) ratingports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) CreateRating(ctx context.Context, input ratingports.CreateInput) (*ratingdomain.Rating, error) {
	ctx, span := s.tracer.Start(ctx, "RatingService.CreateRating", trace.WithAttributes(
		attribute.String("rating.target_type", input.TargetType),
		attribute.String("rating.target_id", input.TargetID),
	))
	defer span.End()
	result, err := s.inner.CreateRating(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create rating", slog.String("target_id", input.TargetID))
	}
	s.recordChange(ctx, "create", result)
	return result, nil
}

func (s *Service) GetRating(ctx context.Context, id string) (*ratingdomain.Rating, error) {
	ctx, span := s.tracer.Start(ctx, "RatingService.GetRating", trace.WithAttributes(attribute.String("rating.id", id)))
	defer span.End()
	return s.inner.GetRating(ctx, id)
}

func (s *Service) ListRatings(ctx context.Context, filter ratingports.Filter) ([]*ratingdomain.Rating, error) {
	ctx, span := s.tracer.Start(ctx, "RatingService.ListRatings", trace.WithAttributes(
		attribute.String("rating.target_type", string(filter.TargetType)),
		attribute.String("rating.target_id", filter.TargetID),
	))
	defer span.End()
	list, err := s.inner.ListRatings(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list ratings")
	}
	span.SetAttributes(attribute.Int("rating.count", len(list)))
	return list, nil
}

func (s *Service) UpdateRating(ctx context.Context, input ratingports.UpdateInput) (*ratingdomain.Rating, error) {
	ctx, span := s.tracer.Start(ctx, "RatingService.UpdateRating", trace.WithAttributes(
		attribute.String("rating.id", input.ID),
		attribute.Bool("rating.actor_staff", input.Actor.Staff),
	))
	defer span.End()
	result, err := s.inner.UpdateRating(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update rating", slog.String("rating_id", input.ID))
	}
	s.recordChange(ctx, "update", result)
	return result, nil
}

func (s *Service) DeleteRating(ctx context.Context, id string, actor ratingports.Actor) error {
	ctx, span := s.tracer.Start(ctx, "RatingService.DeleteRating", trace.WithAttributes(
		attribute.String("rating.id", id),
		attribute.Bool("rating.actor_staff", actor.Staff),
	))
	defer span.End()
	if err := s.inner.DeleteRating(ctx, id, actor); err != nil {
		return s.handleError(ctx, span, err, "failed to delete rating", slog.String("rating_id", id))
	}
	if s.changes != nil {
		s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "delete")))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "rating deleted", slog.String("rating_id", id))
	return nil
}

func (s *Service) Summary(ctx context.Context, targetType ratingdomain.TargetType, targetID string) (ratingdomain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "RatingService.Summary", trace.WithAttributes(
		attribute.String("rating.target_type", string(targetType)),
		attribute.String("rating.target_id", targetID),
	))
	defer span.End()
	return s.inner.Summary(ctx, targetType, targetID)
}

func (s *Service) RefreshSummary(ctx context.Context, targetType ratingdomain.TargetType, targetID string) (ratingdomain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "RatingService.RefreshSummary", trace.WithAttributes(
		attribute.String("rating.target_type", string(targetType)),
		attribute.String("rating.target_id", targetID),
	))
	defer span.End()
	summary, err := s.inner.RefreshSummary(ctx, targetType, targetID)
	if err != nil {
		return summary, s.handleError(ctx, span, err, "failed to refresh rating summary", slog.String("target_id", targetID))
	}
	span.SetAttributes(attribute.Float64("rating.average", summary.Average), attribute.Int("rating.total", summary.Total))
	return summary, nil
}

func (s *Service) recordChange(ctx context.Context, operation string, r *ratingdomain.Rating) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("target_type", string(r.TargetType)),
	)
	if s.changes != nil {
		s.changes.Add(ctx, 1, attrs)
	}
	if s.scores != nil {
		s.scores.Record(ctx, int64(r.Score), attrs)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "rating changed",
		slog.String("operation", operation),
		slog.String("rating_id", r.ID),
		slog.String("target_type", string(r.TargetType)),
		slog.String("target_id", r.TargetID),
		slog.Int("rating", r.Score),
	)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

var _ ratingports.Service = (*Service)(nil)
