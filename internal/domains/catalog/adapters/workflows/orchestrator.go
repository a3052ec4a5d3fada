package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/petify-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	catalogworkflows "github.com/Apurer/petify-api/internal/platform/temporal/workflows/catalog"
)

var (
	_ ports.MoveOrchestrator = (*TemporalMoveWorkflows)(nil)
	_ ports.MoveOrchestrator = (*InlineMoveWorkflows)(nil)
)

// TemporalMoveWorkflows journals moves locally and drives them on a Temporal cluster.
// Renames within one category never leave the process.
type TemporalMoveWorkflows struct {
	client    client.Client
	service   ports.CategoryService
	taskQueue string
}

// NewTemporalMoveWorkflows wires a Temporal client and a journaled category service.
func NewTemporalMoveWorkflows(c client.Client, service ports.CategoryService) *TemporalMoveWorkflows {
	return &TemporalMoveWorkflows{client: c, service: service, taskQueue: catalogworkflows.CatalogTaskQueue}
}

// MoveSubcategory renames in place or starts the move workflow and waits for it.
func (o *TemporalMoveWorkflows) MoveSubcategory(ctx context.Context, input catalogtypes.RenameSubcategoryInput) (*catalogtypes.RenameSubcategoryResult, error) {
	if o == nil || o.client == nil || o.service == nil {
		return nil, errors.New("temporal move workflows not configured")
	}
	crosses, err := o.crossesCategories(ctx, &input)
	if err != nil {
		return nil, err
	}
	if !crosses {
		return o.service.RenameSubcategory(ctx, input)
	}

	intent, err := o.service.PrepareMove(ctx, input)
	if err != nil {
		return nil, err
	}
	options := client.StartWorkflowOptions{
		ID:        "subcategory-move-" + intent.ID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(ctx, options, catalogworkflows.SubcategoryMoveWorkflow, catalogworkflows.SubcategoryMoveWorkflowInput{
		MoveID:  intent.ID,
		Command: input,
		TraceID: workflowTraceID(ctx),
	})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, fmt.Errorf("%w (move %s): start workflow: %w", application.ErrMoveIncomplete, intent.ID, err)
		}
		run = o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
	}
	var result catalogtypes.RenameSubcategoryResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("%w (move %s): %w", application.ErrMoveIncomplete, intent.ID, err)
	}
	return &result, nil
}

// crossesCategories resolves the target to an ID and reports whether it differs from the source.
func (o *TemporalMoveWorkflows) crossesCategories(ctx context.Context, input *catalogtypes.RenameSubcategoryInput) (bool, error) {
	targetID := strings.TrimSpace(input.TargetCategoryID)
	if targetID == "" && strings.TrimSpace(input.TargetPetType) != "" {
		target, err := o.service.FindByPetType(ctx, input.TargetPetType)
		if err != nil {
			return false, err
		}
		targetID = target.Entity.ID
		input.TargetCategoryID = targetID
		input.TargetPetType = ""
	}
	return targetID != "" && targetID != strings.TrimSpace(input.CategoryID), nil
}

// InlineMoveWorkflows runs renames and moves directly in the service.
type InlineMoveWorkflows struct {
	service ports.CategoryService
}

// NewInlineMoveWorkflows wraps the category service for synchronous execution.
func NewInlineMoveWorkflows(service ports.CategoryService) *InlineMoveWorkflows {
	return &InlineMoveWorkflows{service: service}
}

// MoveSubcategory delegates to the category service.
func (o *InlineMoveWorkflows) MoveSubcategory(ctx context.Context, input catalogtypes.RenameSubcategoryInput) (*catalogtypes.RenameSubcategoryResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline move workflows not configured")
	}
	return o.service.RenameSubcategory(ctx, input)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
