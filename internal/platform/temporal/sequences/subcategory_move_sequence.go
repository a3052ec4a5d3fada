package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	catalogactivities "github.com/Apurer/petify-api/internal/platform/temporal/activities/catalog"
)

// RunSubcategoryMoveSequence applies a journaled move one category at a time. When
// moveID is empty the move is validated and journaled first. A failure after the
// source step leaves the intent incomplete for the reconciler.
func RunSubcategoryMoveSequence(ctx workflow.Context, moveID string, input catalogtypes.RenameSubcategoryInput) (*catalogtypes.RenameSubcategoryResult, error) {
	logger := workflow.GetLogger(ctx)
	stepOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, stepOptions)

	intent := domain.MoveIntent{ID: moveID}
	if intent.ID == "" {
		if err := workflow.ExecuteActivity(ctx, catalogactivities.PrepareMoveActivityName, input).Get(ctx, &intent); err != nil {
			logger.Error("subcategory move rejected", "categoryId", input.CategoryID, "error", err)
			return nil, err
		}
		logger.Info("subcategory move journaled", "moveId", intent.ID)
	}

	if err := workflow.ExecuteActivity(ctx, catalogactivities.ApplyMoveSourceActivityName, intent.ID).Get(ctx, nil); err != nil {
		logger.Error("subcategory move source step failed", "moveId", intent.ID, "error", err)
		return nil, err
	}
	if err := workflow.ExecuteActivity(ctx, catalogactivities.ApplyMoveTargetActivityName, intent.ID).Get(ctx, nil); err != nil {
		logger.Error("subcategory move target step failed", "moveId", intent.ID, "error", err)
		return nil, err
	}

	var result catalogtypes.RenameSubcategoryResult
	if err := workflow.ExecuteActivity(ctx, catalogactivities.CompleteMoveActivityName, intent.ID).Get(ctx, &result); err != nil {
		logger.Error("subcategory move completion failed", "moveId", intent.ID, "error", err)
		return nil, err
	}
	return &result, nil
}
