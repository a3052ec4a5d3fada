package catalog

import (
	"go.temporal.io/sdk/workflow"

	catalogtypes "github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/platform/temporal/sequences"
)

const (
	// SubcategoryMoveWorkflowName is the public identifier for registering the workflow.
	SubcategoryMoveWorkflowName = "catalog.workflows.SubcategoryMove"
	// CatalogTaskQueue is the queue consumed by the worker processing catalog workflows.
	CatalogTaskQueue = "CATALOG"
)

// SubcategoryMoveWorkflowInput captures a move between two categories. MoveID
// names an intent already journaled by the caller; when empty the workflow
// journals Command itself.
type SubcategoryMoveWorkflowInput struct {
	MoveID  string
	Command catalogtypes.RenameSubcategoryInput
	TraceID string
}

// SubcategoryMoveWorkflow moves a subcategory from one category to another.
func SubcategoryMoveWorkflow(ctx workflow.Context, input SubcategoryMoveWorkflowInput) (*catalogtypes.RenameSubcategoryResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("SubcategoryMoveWorkflow started", withTraceID(input.TraceID, "categoryId", input.Command.CategoryID)...)
	result, err := sequences.RunSubcategoryMoveSequence(ctx, input.MoveID, input.Command)
	if err != nil {
		logger.Error("SubcategoryMoveWorkflow failed", withTraceID(input.TraceID, "categoryId", input.Command.CategoryID, "error", err)...)
		return nil, err
	}
	logger.Info("SubcategoryMoveWorkflow completed", withTraceID(input.TraceID, "moveId", result.MoveID)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
