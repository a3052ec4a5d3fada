package catalog

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/petify-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

const (
	// PrepareMoveActivityName validates a move and journals its intent.
	PrepareMoveActivityName = "catalog.activities.PrepareMove"
	// ApplyMoveSourceActivityName removes the old name from the source category.
	ApplyMoveSourceActivityName = "catalog.activities.ApplyMoveSource"
	// ApplyMoveTargetActivityName adds the new name to the target category.
	ApplyMoveTargetActivityName = "catalog.activities.ApplyMoveTarget"
	// CompleteMoveActivityName marks the intent completed.
	CompleteMoveActivityName = "catalog.activities.CompleteMove"

	nonRetryableErrorType = "catalog.rejected"
)

// Activities groups the step-wise subcategory move operations.
type Activities struct {
	service catalogports.CategoryService
}

// NewActivities wires the category store into the Temporal activities bundle.
// service must be configured with a move journal.
func NewActivities(service catalogports.CategoryService) *Activities {
	return &Activities{service: service}
}

// PrepareMove journals a move intent.
func (a *Activities) PrepareMove(ctx context.Context, input catalogtypes.RenameSubcategoryInput) (*domain.MoveIntent, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return nil, errors.New("catalog move activities not initialized")
	}
	logger.Info("PrepareMove activity started", "categoryId", input.CategoryID, "oldName", input.OldName)
	intent, err := a.service.PrepareMove(ctx, input)
	if err != nil {
		logger.Error("PrepareMove activity failed", "categoryId", input.CategoryID, "error", err)
		return nil, classify(err)
	}
	logger.Info("PrepareMove activity completed", "moveId", intent.ID)
	return intent, nil
}

// ApplyMoveSource removes the old name from the source. Replays are no-ops.
func (a *Activities) ApplyMoveSource(ctx context.Context, intentID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return errors.New("catalog move activities not initialized")
	}
	logger.Info("ApplyMoveSource activity started", "moveId", intentID)
	if err := a.service.ApplyMoveSource(ctx, intentID); err != nil {
		logger.Error("ApplyMoveSource activity failed", "moveId", intentID, "error", err)
		return classify(err)
	}
	return nil
}

// ApplyMoveTarget adds the new name to the target. Replays are no-ops.
func (a *Activities) ApplyMoveTarget(ctx context.Context, intentID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return errors.New("catalog move activities not initialized")
	}
	logger.Info("ApplyMoveTarget activity started", "moveId", intentID)
	if err := a.service.ApplyMoveTarget(ctx, intentID); err != nil {
		logger.Error("ApplyMoveTarget activity failed", "moveId", intentID, "error", err)
		return classify(err)
	}
	return nil
}

// CompleteMove marks the intent completed and returns both categories.
func (a *Activities) CompleteMove(ctx context.Context, intentID string) (*catalogtypes.RenameSubcategoryResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return nil, errors.New("catalog move activities not initialized")
	}
	result, err := a.service.CompleteMove(ctx, intentID)
	if err != nil {
		logger.Error("CompleteMove activity failed", "moveId", intentID, "error", err)
		return nil, classify(err)
	}
	logger.Info("CompleteMove activity completed", "moveId", intentID)
	return result, nil
}

// classify stops retries for errors that another attempt cannot fix.
func classify(err error) error {
	if errors.Is(err, application.ErrInvalidInput) ||
		errors.Is(err, application.ErrDuplicateKind) ||
		errors.Is(err, domain.ErrSubcategoryNotFound) ||
		errors.Is(err, catalogports.ErrCategoryNotFound) ||
		errors.Is(err, catalogports.ErrMoveNotFound) {
		return temporal.NewNonRetryableApplicationError(err.Error(), nonRetryableErrorType, err)
	}
	return err
}
