package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

// DefaultReconcileGrace is how old an incomplete move must be before ReconcileMoves touches it.
const DefaultReconcileGrace = time.Minute

var _ ports.CategoryService = (*CategoryService)(nil)

// CategoryService owns which (pet type, subcategory) pairs are legal.
type CategoryService struct {
	repo ports.CategoryRepository
	// current serves the reads behind read-modify-write paths. It skips any
	// cache in front of repo.
	current ports.CategoryRepository
	journal ports.MoveJournal
	now     func() time.Time
	grace   time.Duration
}

// CategoryOption configures a CategoryService.
type CategoryOption func(*CategoryService)

// WithMoveJournal records subcategory moves so partial failures can be repaired.
// Without a journal, moves are two plain sequential saves.
func WithMoveJournal(journal ports.MoveJournal) CategoryOption {
	return func(s *CategoryService) {
		s.journal = journal
	}
}

// WithClock overrides the time source used by ReconcileMoves.
func WithClock(now func() time.Time) CategoryOption {
	return func(s *CategoryService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReconcileGrace sets the minimum age of intents repaired by ReconcileMoves.
func WithReconcileGrace(d time.Duration) CategoryOption {
	return func(s *CategoryService) {
		if d >= 0 {
			s.grace = d
		}
	}
}

// NewCategoryService wires the category store with its repository.
func NewCategoryService(repo ports.CategoryRepository, opts ...CategoryOption) *CategoryService {
	s := &CategoryService{repo: repo, current: repo, now: time.Now, grace: DefaultReconcileGrace}
	if cached, ok := repo.(ports.CachedCategoryRepository); ok {
		s.current = cached.Uncached()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateCategory persists a new pet type.
func (s *CategoryService) CreateCategory(ctx context.Context, input types.CreateCategoryInput) (*types.CategoryProjection, error) {
	category, err := domain.NewCategory("", input.PetType, input.ProductCategories)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.ensurePetTypeFree(ctx, category.PetType, ""); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetCategory loads a category by ID.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*types.CategoryProjection, error) {
	found, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, mapError(err)
	}
	return found, nil
}

// FindByPetType loads a category by pet type, ignoring case.
func (s *CategoryService) FindByPetType(ctx context.Context, petType string) (*types.CategoryProjection, error) {
	normalized := domain.NormalizePetType(petType)
	if normalized == "" {
		return nil, mapError(domain.ErrEmptyPetType)
	}
	found, err := s.repo.FindByPetType(ctx, normalized)
	if err != nil {
		return nil, mapError(err)
	}
	return found, nil
}

// ListCategories returns every category.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*types.CategoryProjection, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

// AddSubcategory appends a subcategory unless it already exists, ignoring case.
func (s *CategoryService) AddSubcategory(ctx context.Context, input types.AddSubcategoryInput) (*types.CategoryProjection, error) {
	current, err := s.current.GetByID(ctx, strings.TrimSpace(input.CategoryID))
	if err != nil {
		return nil, mapError(err)
	}
	category := current.Entity.Clone()
	if err := category.AddSubcategory(input.Name); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// RemoveSubcategory deletes an exact subcategory entry.
func (s *CategoryService) RemoveSubcategory(ctx context.Context, input types.RemoveSubcategoryInput) (*types.CategoryProjection, error) {
	current, err := s.current.GetByID(ctx, strings.TrimSpace(input.CategoryID))
	if err != nil {
		return nil, mapError(err)
	}
	category := current.Entity.Clone()
	if err := category.RemoveSubcategory(input.Name); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// RenameCategory changes the pet type, keeping it unique across categories.
func (s *CategoryService) RenameCategory(ctx context.Context, input types.RenameCategoryInput) (*types.CategoryProjection, error) {
	current, err := s.current.GetByID(ctx, strings.TrimSpace(input.CategoryID))
	if err != nil {
		return nil, mapError(err)
	}
	category := current.Entity.Clone()
	if err := category.Rename(input.PetType); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensurePetTypeFree(ctx, category.PetType, category.ID); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteCategory removes a category. Products referencing it are left untouched.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return mapError(err)
	}
	return nil
}

// RenameSubcategory renames a subcategory in place, or moves it when the target
// category differs from the source.
func (s *CategoryService) RenameSubcategory(ctx context.Context, input types.RenameSubcategoryInput) (*types.RenameSubcategoryResult, error) {
	plan, err := s.planRename(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	if plan.target == nil {
		category := plan.source.Entity.Clone()
		if err := category.RenameSubcategory(plan.oldName, plan.newName); err != nil {
			return nil, mapError(err)
		}
		saved, err := s.repo.Save(ctx, category)
		if err != nil {
			return nil, mapError(err)
		}
		return &types.RenameSubcategoryResult{Source: saved}, nil
	}
	if s.journal == nil {
		return s.moveSequential(ctx, plan)
	}
	intent, err := s.recordIntent(ctx, plan)
	if err != nil {
		return nil, err
	}
	return s.runMove(ctx, intent)
}

// PrepareMove validates a move and records its intent without applying it.
func (s *CategoryService) PrepareMove(ctx context.Context, input types.RenameSubcategoryInput) (*domain.MoveIntent, error) {
	if s.journal == nil {
		return nil, errors.New("move journal not configured")
	}
	plan, err := s.planRename(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	if plan.target == nil {
		return nil, fmt.Errorf("%w: target category must differ from source", ErrInvalidInput)
	}
	return s.recordIntent(ctx, plan)
}

// ApplyMoveSource removes the old name from the source category. Safe to replay.
func (s *CategoryService) ApplyMoveSource(ctx context.Context, intentID string) error {
	intent, err := s.loadIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if intent.Finished() || intent.State == domain.MoveSourceRemoved {
		return nil
	}
	current, err := s.current.GetByID(ctx, intent.SourceID)
	if err != nil {
		return mapError(err)
	}
	source := current.Entity.Clone()
	intent.ApplySource(source)
	if _, err := s.repo.Save(ctx, source); err != nil {
		return mapError(err)
	}
	return s.journal.Advance(ctx, intent.ID, domain.MoveSourceRemoved, "")
}

// ApplyMoveTarget adds the new name to the target category. Safe to replay.
func (s *CategoryService) ApplyMoveTarget(ctx context.Context, intentID string) error {
	intent, err := s.loadIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if intent.Finished() {
		return nil
	}
	current, err := s.current.GetByID(ctx, intent.TargetID)
	if err != nil {
		return mapError(err)
	}
	target := current.Entity.Clone()
	if target.HasSubcategory(intent.NewName) {
		return nil
	}
	if err := intent.ApplyTarget(target); err != nil {
		return mapError(err)
	}
	if _, err := s.repo.Save(ctx, target); err != nil {
		return mapError(err)
	}
	return nil
}

// CompleteMove marks the intent completed and returns both categories.
// A category deleted in the meantime is reported as nil.
func (s *CategoryService) CompleteMove(ctx context.Context, intentID string) (*types.RenameSubcategoryResult, error) {
	intent, err := s.loadIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if !intent.Finished() {
		if err := s.journal.Advance(ctx, intent.ID, domain.MoveCompleted, ""); err != nil {
			return nil, err
		}
	}
	result := &types.RenameSubcategoryResult{Moved: true, MoveID: intent.ID}
	if result.Source, err = s.optionalCategory(ctx, intent.SourceID); err != nil {
		return nil, err
	}
	if result.Target, err = s.optionalCategory(ctx, intent.TargetID); err != nil {
		return nil, err
	}
	return result, nil
}

// ReconcileMoves repairs moves left incomplete for longer than the grace period.
// Moves are rolled forward; when the target category no longer exists the old
// name is restored to the source instead.
func (s *CategoryService) ReconcileMoves(ctx context.Context) (*types.ReconcileResult, error) {
	result := &types.ReconcileResult{Failed: map[string]string{}}
	if s.journal == nil {
		return result, nil
	}
	intents, err := s.journal.ListIncomplete(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().Add(-s.grace)
	for _, intent := range intents {
		if intent.UpdatedAt.After(cutoff) {
			continue
		}
		result.Examined++
		rolledBack, err := s.repairMove(ctx, intent)
		if err != nil {
			result.Failed[intent.ID] = err.Error()
			_ = s.journal.Advance(ctx, intent.ID, "", err.Error())
			continue
		}
		if rolledBack {
			result.RolledBack++
		} else {
			result.Completed++
		}
	}
	return result, nil
}

type movePlan struct {
	source  *types.CategoryProjection
	target  *types.CategoryProjection
	oldName string
	newName string
}

func (s *CategoryService) planRename(ctx context.Context, input types.RenameSubcategoryInput) (*movePlan, error) {
	oldName := input.OldName
	newName := strings.TrimSpace(input.NewName)
	if strings.TrimSpace(oldName) == "" || newName == "" {
		return nil, domain.ErrEmptySubcategory
	}
	source, err := s.current.GetByID(ctx, strings.TrimSpace(input.CategoryID))
	if err != nil {
		return nil, err
	}
	if !source.Entity.Contains(oldName) {
		return nil, domain.ErrSubcategoryNotFound
	}
	plan := &movePlan{source: source, oldName: oldName, newName: newName}
	target, err := s.resolveTarget(ctx, input)
	if err != nil {
		return nil, err
	}
	if target == nil || target.Entity.ID == source.Entity.ID {
		return plan, nil
	}
	if target.Entity.HasSubcategory(newName) {
		return nil, fmt.Errorf("%w: subcategory %q already exists in %q", ErrDuplicateKind, newName, target.Entity.PetType)
	}
	plan.target = target
	return plan, nil
}

func (s *CategoryService) resolveTarget(ctx context.Context, input types.RenameSubcategoryInput) (*types.CategoryProjection, error) {
	if id := strings.TrimSpace(input.TargetCategoryID); id != "" {
		return s.current.GetByID(ctx, id)
	}
	if petType := domain.NormalizePetType(input.TargetPetType); petType != "" {
		found, err := s.repo.FindByPetType(ctx, petType)
		if err != nil {
			return nil, fmt.Errorf("target pet type %q: %w", petType, err)
		}
		return found, nil
	}
	return nil, nil
}

// moveSequential saves source then target with nothing recording the intent; a
// failure between the saves leaves the subcategory in neither category.
func (s *CategoryService) moveSequential(ctx context.Context, plan *movePlan) (*types.RenameSubcategoryResult, error) {
	source := plan.source.Entity.Clone()
	target := plan.target.Entity.Clone()
	if err := source.RemoveSubcategory(plan.oldName); err != nil {
		return nil, mapError(err)
	}
	if err := target.AddSubcategory(plan.newName); err != nil {
		return nil, mapError(err)
	}
	if applier, ok := s.repo.(ports.MoveApplier); ok {
		err := applier.ApplyMove(ctx, source, target)
		if err == nil {
			return s.reload(ctx, "", source.ID, target.ID)
		}
		if !errors.Is(err, ports.ErrTransactionsUnsupported) {
			return nil, mapError(err)
		}
	}
	savedSource, err := s.repo.Save(ctx, source)
	if err != nil {
		return nil, mapError(err)
	}
	savedTarget, err := s.repo.Save(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%w: source %s saved without target %s: %w", ErrMoveIncomplete, source.ID, target.ID, err)
	}
	return &types.RenameSubcategoryResult{Moved: true, Source: savedSource, Target: savedTarget}, nil
}

func (s *CategoryService) runMove(ctx context.Context, intent *domain.MoveIntent) (*types.RenameSubcategoryResult, error) {
	if applier, ok := s.repo.(ports.MoveApplier); ok {
		result, err := s.applyTransactional(ctx, applier, intent)
		if !errors.Is(err, ports.ErrTransactionsUnsupported) {
			return result, err
		}
	}
	if err := s.ApplyMoveSource(ctx, intent.ID); err != nil {
		return nil, s.incomplete(ctx, intent.ID, err)
	}
	if err := s.ApplyMoveTarget(ctx, intent.ID); err != nil {
		return nil, s.incomplete(ctx, intent.ID, err)
	}
	result, err := s.CompleteMove(ctx, intent.ID)
	if err != nil {
		return nil, s.incomplete(ctx, intent.ID, err)
	}
	return result, nil
}

func (s *CategoryService) applyTransactional(ctx context.Context, applier ports.MoveApplier, intent *domain.MoveIntent) (*types.RenameSubcategoryResult, error) {
	currentSource, err := s.current.GetByID(ctx, intent.SourceID)
	if err != nil {
		return nil, mapError(err)
	}
	currentTarget, err := s.current.GetByID(ctx, intent.TargetID)
	if err != nil {
		return nil, mapError(err)
	}
	source := currentSource.Entity.Clone()
	target := currentTarget.Entity.Clone()
	intent.ApplySource(source)
	if err := intent.ApplyTarget(target); err != nil {
		return nil, mapError(err)
	}
	if err := applier.ApplyMove(ctx, source, target); err != nil {
		if errors.Is(err, ports.ErrTransactionsUnsupported) {
			return nil, err
		}
		// the transaction rolled back, so neither category changed
		_ = s.journal.Advance(ctx, intent.ID, domain.MoveRolledBack, err.Error())
		return nil, mapError(err)
	}
	return s.CompleteMove(ctx, intent.ID)
}

func (s *CategoryService) repairMove(ctx context.Context, intent *domain.MoveIntent) (bool, error) {
	_, err := s.current.GetByID(ctx, intent.TargetID)
	if errors.Is(err, ports.ErrCategoryNotFound) {
		return true, s.rollBack(ctx, intent)
	}
	if err != nil {
		return false, err
	}
	if err := s.ApplyMoveSource(ctx, intent.ID); err != nil && !errors.Is(err, ports.ErrCategoryNotFound) {
		return false, err
	}
	if err := s.ApplyMoveTarget(ctx, intent.ID); err != nil {
		return false, err
	}
	if _, err := s.CompleteMove(ctx, intent.ID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *CategoryService) rollBack(ctx context.Context, intent *domain.MoveIntent) error {
	current, err := s.current.GetByID(ctx, intent.SourceID)
	if errors.Is(err, ports.ErrCategoryNotFound) {
		return s.journal.Advance(ctx, intent.ID, domain.MoveRolledBack, "source and target categories missing")
	}
	if err != nil {
		return err
	}
	source := current.Entity.Clone()
	if err := intent.RestoreSource(source); err != nil {
		return mapError(err)
	}
	if _, err := s.repo.Save(ctx, source); err != nil {
		return mapError(err)
	}
	return s.journal.Advance(ctx, intent.ID, domain.MoveRolledBack, "target category missing")
}

func (s *CategoryService) recordIntent(ctx context.Context, plan *movePlan) (*domain.MoveIntent, error) {
	intent, err := s.journal.Record(ctx, &domain.MoveIntent{
		SourceID: plan.source.Entity.ID,
		TargetID: plan.target.Entity.ID,
		OldName:  plan.oldName,
		NewName:  plan.newName,
		State:    domain.MovePending,
	})
	if err != nil {
		return nil, fmt.Errorf("record move intent: %w", err)
	}
	return intent, nil
}

func (s *CategoryService) incomplete(ctx context.Context, intentID string, cause error) error {
	_ = s.journal.Advance(ctx, intentID, "", cause.Error())
	return fmt.Errorf("%w (move %s): %w", ErrMoveIncomplete, intentID, cause)
}

func (s *CategoryService) loadIntent(ctx context.Context, id string) (*domain.MoveIntent, error) {
	if s.journal == nil {
		return nil, errors.New("move journal not configured")
	}
	return s.journal.Get(ctx, strings.TrimSpace(id))
}

func (s *CategoryService) optionalCategory(ctx context.Context, id string) (*types.CategoryProjection, error) {
	found, err := s.current.GetByID(ctx, id)
	if errors.Is(err, ports.ErrCategoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *CategoryService) reload(ctx context.Context, moveID, sourceID, targetID string) (*types.RenameSubcategoryResult, error) {
	source, err := s.current.GetByID(ctx, sourceID)
	if err != nil {
		return nil, mapError(err)
	}
	target, err := s.current.GetByID(ctx, targetID)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.RenameSubcategoryResult{Moved: true, MoveID: moveID, Source: source, Target: target}, nil
}

func (s *CategoryService) ensurePetTypeFree(ctx context.Context, petType, selfID string) error {
	existing, err := s.repo.FindByPetType(ctx, petType)
	if errors.Is(err, ports.ErrCategoryNotFound) {
		return nil
	}
	if err != nil {
		return mapError(err)
	}
	if selfID != "" && existing.Entity.ID == selfID {
		return nil
	}
	return fmt.Errorf("%w: category %q already exists", ErrDuplicateKind, petType)
}
