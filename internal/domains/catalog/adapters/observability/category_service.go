package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/petify-api/internal/domains/catalog/application"
	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

var _ ports.CategoryService = (*CategoryService)(nil)

// CategoryService decorates the category store with tracing, logging, and metrics.
type CategoryService struct {
	instrumentation
	inner ports.CategoryService
}

// NewCategoryService wires a decorator around the category store.
func NewCategoryService(inner ports.CategoryService, opts ...Option) *CategoryService {
	return &CategoryService{instrumentation: newInstrumentation(opts), inner: inner}
}

// CreateCategory adds a pet type.
func (s *CategoryService) CreateCategory(ctx context.Context, input types.CreateCategoryInput) (*types.CategoryProjection, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.CreateCategory", attribute.String("category.pet_type", input.PetType))
	defer span.End()

	result, err := s.inner.CreateCategory(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create category", slog.String("pet_type", input.PetType))
	}
	s.recordChanged(ctx, span, "create", result)
	return result, nil
}

// GetCategory loads a category.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*types.CategoryProjection, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.GetCategory", attribute.String("category.id", id))
	defer span.End()

	result, err := s.inner.GetCategory(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load category", slog.String("category_id", id))
	}
	return result, nil
}

// FindByPetType loads a category by pet type.
func (s *CategoryService) FindByPetType(ctx context.Context, petType string) (*types.CategoryProjection, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.FindByPetType", attribute.String("category.pet_type", petType))
	defer span.End()

	result, err := s.inner.FindByPetType(ctx, petType)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to find category", slog.String("pet_type", petType))
	}
	return result, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*types.CategoryProjection, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.ListCategories")
	defer span.End()

	result, err := s.inner.ListCategories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("category.result.count", len(result)))
	return result, nil
}

// AddSubcategory appends a subcategory.
func (s *CategoryService) AddSubcategory(ctx context.Context, input types.AddSubcategoryInput) (*types.CategoryProjection, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.AddSubcategory",
		attribute.String("category.id", input.CategoryID),
		attribute.String("category.subcategory", input.Name),
	)
	defer span.End()

	result, err := s.inner.AddSubcategory(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add subcategory", slog.String("category_id", input.CategoryID), slog.String("name", input.Name))
	}
	s.recordChanged(ctx, span, "add_subcategory", result)
	return result, nil
}

// RenameSubcategory renames or moves a subcategory.
func (s *CategoryService) RenameSubcategory(ctx context.Context, input types.RenameSubcategoryInput) (*types.RenameSubcategoryResult, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.RenameSubcategory",
		attribute.String("category.id", input.CategoryID),
		attribute.String("category.subcategory.old", input.OldName),
		attribute.String("category.subcategory.new", input.NewName),
	)
	defer span.End()

	attrs := []slog.Attr{
		slog.String("category_id", input.CategoryID),
		slog.String("old_name", input.OldName),
		slog.String("new_name", input.NewName),
	}
	result, err := s.inner.RenameSubcategory(ctx, input)
	if err != nil {
		if errors.Is(err, application.ErrMoveIncomplete) {
			addCounter(ctx, s.metrics.movesIncomplete, 1)
		}
		return nil, s.handleError(ctx, span, err, "failed to rename subcategory", attrs...)
	}
	if result.Moved {
		addCounter(ctx, s.metrics.subcategoriesMoved, 1)
		attrs = append(attrs, slog.String("move_id", result.MoveID))
		s.logInfo(ctx, "subcategory moved", attrs...)
	} else {
		s.recordChanged(ctx, span, "rename_subcategory", result.Source)
	}
	return result, nil
}

// RemoveSubcategory deletes a subcategory.
func (s *CategoryService) RemoveSubcategory(ctx context.Context, input types.RemoveSubcategoryInput) (*types.CategoryProjection, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.RemoveSubcategory",
		attribute.String("category.id", input.CategoryID),
		attribute.String("category.subcategory", input.Name),
	)
	defer span.End()

	result, err := s.inner.RemoveSubcategory(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove subcategory", slog.String("category_id", input.CategoryID), slog.String("name", input.Name))
	}
	s.recordChanged(ctx, span, "remove_subcategory", result)
	return result, nil
}

// RenameCategory changes a pet type.
func (s *CategoryService) RenameCategory(ctx context.Context, input types.RenameCategoryInput) (*types.CategoryProjection, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.RenameCategory",
		attribute.String("category.id", input.CategoryID),
		attribute.String("category.pet_type", input.PetType),
	)
	defer span.End()

	result, err := s.inner.RenameCategory(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to rename category", slog.String("category_id", input.CategoryID))
	}
	s.recordChanged(ctx, span, "rename", result)
	return result, nil
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "CategoryService.DeleteCategory", attribute.String("category.id", id))
	defer span.End()

	if err := s.inner.DeleteCategory(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete category", slog.String("category_id", id))
	}
	addCounter(ctx, s.metrics.categoriesChanged, 1, attribute.String("operation", "delete"))
	s.logInfo(ctx, "category deleted", slog.String("category_id", id))
	return nil
}

// PrepareMove records a move intent.
func (s *CategoryService) PrepareMove(ctx context.Context, input types.RenameSubcategoryInput) (*domain.MoveIntent, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.PrepareMove", attribute.String("category.id", input.CategoryID))
	defer span.End()

	intent, err := s.inner.PrepareMove(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to prepare move", slog.String("category_id", input.CategoryID))
	}
	span.SetAttributes(attribute.String("move.id", intent.ID))
	s.logInfo(ctx, "move prepared", slog.String("move_id", intent.ID), slog.String("source_id", intent.SourceID), slog.String("target_id", intent.TargetID))
	return intent, nil
}

// ApplyMoveSource removes the subcategory from the source.
func (s *CategoryService) ApplyMoveSource(ctx context.Context, intentID string) error {
	ctx, span := s.startSpan(ctx, "CategoryService.ApplyMoveSource", attribute.String("move.id", intentID))
	defer span.End()

	if err := s.inner.ApplyMoveSource(ctx, intentID); err != nil {
		return s.handleError(ctx, span, err, "failed to apply move source", slog.String("move_id", intentID))
	}
	return nil
}

// ApplyMoveTarget adds the subcategory to the target.
func (s *CategoryService) ApplyMoveTarget(ctx context.Context, intentID string) error {
	ctx, span := s.startSpan(ctx, "CategoryService.ApplyMoveTarget", attribute.String("move.id", intentID))
	defer span.End()

	if err := s.inner.ApplyMoveTarget(ctx, intentID); err != nil {
		return s.handleError(ctx, span, err, "failed to apply move target", slog.String("move_id", intentID))
	}
	return nil
}

// CompleteMove finishes a move.
func (s *CategoryService) CompleteMove(ctx context.Context, intentID string) (*types.RenameSubcategoryResult, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.CompleteMove", attribute.String("move.id", intentID))
	defer span.End()

	result, err := s.inner.CompleteMove(ctx, intentID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to complete move", slog.String("move_id", intentID))
	}
	addCounter(ctx, s.metrics.subcategoriesMoved, 1)
	s.logInfo(ctx, "move completed", slog.String("move_id", intentID))
	return result, nil
}

// ReconcileMoves repairs incomplete moves.
func (s *CategoryService) ReconcileMoves(ctx context.Context) (*types.ReconcileResult, error) {
	ctx, span := s.startSpan(ctx, "CategoryService.ReconcileMoves")
	defer span.End()

	result, err := s.inner.ReconcileMoves(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reconcile moves")
	}
	addCounter(ctx, s.metrics.movesReconciled, int64(result.Completed), attribute.String("outcome", "completed"))
	addCounter(ctx, s.metrics.movesReconciled, int64(result.RolledBack), attribute.String("outcome", "rolled_back"))
	addCounter(ctx, s.metrics.movesReconciled, int64(len(result.Failed)), attribute.String("outcome", "failed"))
	span.SetAttributes(
		attribute.Int("move.examined", result.Examined),
		attribute.Int("move.completed", result.Completed),
		attribute.Int("move.rolled_back", result.RolledBack),
		attribute.Int("move.failed", len(result.Failed)),
	)
	s.logInfo(ctx, "moves reconciled",
		slog.Int("examined", result.Examined),
		slog.Int("completed", result.Completed),
		slog.Int("rolled_back", result.RolledBack),
		slog.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func (s *CategoryService) recordChanged(ctx context.Context, span trace.Span, operation string, result *types.CategoryProjection) {
	addCounter(ctx, s.metrics.categoriesChanged, 1, attribute.String("operation", operation))
	if result == nil || result.Entity == nil {
		return
	}
	span.SetAttributes(attribute.String("category.id", result.Entity.ID))
	s.logInfo(ctx, "category changed",
		slog.String("operation", operation),
		slog.String("category_id", result.Entity.ID),
		slog.String("pet_type", result.Entity.PetType),
	)
}
