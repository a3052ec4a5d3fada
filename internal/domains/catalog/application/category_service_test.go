package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	catalogcache "github.com/Apurer/petify-api/internal/domains/catalog/adapters/cache"
	catalogmemory "github.com/Apurer/petify-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

// flakyRepository fails the Nth Save and hides ApplyMove so moves run as plain saves.
type flakyRepository struct {
	inner  *catalogmemory.CategoryRepository
	failOn int
	saves  int
}

func (r *flakyRepository) Save(ctx context.Context, c *domain.Category) (*projection.Projection[*domain.Category], error) {
	r.saves++
	if r.saves == r.failOn {
		return nil, errors.New("connection reset")
	}
	return r.inner.Save(ctx, c)
}

func (r *flakyRepository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Category], error) {
	return r.inner.GetByID(ctx, id)
}

func (r *flakyRepository) FindByPetType(ctx context.Context, petType string) (*projection.Projection[*domain.Category], error) {
	return r.inner.FindByPetType(ctx, petType)
}

func (r *flakyRepository) Delete(ctx context.Context, id string) error {
	return r.inner.Delete(ctx, id)
}

func (r *flakyRepository) List(ctx context.Context) ([]*projection.Projection[*domain.Category], error) {
	return r.inner.List(ctx)
}

func seedCategories(t *testing.T, svc *CategoryService) (dog, cat *types.CategoryProjection) {
	t.Helper()
	ctx := context.Background()
	dog, err := svc.CreateCategory(ctx, types.CreateCategoryInput{PetType: "Dog", ProductCategories: []string{"Food", "Toys"}})
	require.NoError(t, err)
	cat, err = svc.CreateCategory(ctx, types.CreateCategoryInput{PetType: "cat", ProductCategories: []string{"Litter"}})
	require.NoError(t, err)
	return dog, cat
}

func TestCreateCategory_NormalizesAndRejectsDuplicates(t *testing.T) {
	svc := NewCategoryService(catalogmemory.NewCategoryRepository())
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, types.CreateCategoryInput{PetType: "  Dog ", ProductCategories: []string{"Food"}})
	require.NoError(t, err)
	require.Equal(t, "dog", created.Entity.PetType)
	require.NotEmpty(t, created.Entity.ID)
	require.True(t, created.Entity.IsActive)

	_, err = svc.CreateCategory(ctx, types.CreateCategoryInput{PetType: "DOG"})
	require.ErrorIs(t, err, ErrDuplicateKind)

	_, err = svc.CreateCategory(ctx, types.CreateCategoryInput{PetType: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateCategory(ctx, types.CreateCategoryInput{PetType: "bird", ProductCategories: []string{"Seed", "seed"}})
	require.ErrorIs(t, err, ErrDuplicateKind)
}

func TestAddSubcategory_CaseInsensitiveDuplicate(t *testing.T) {
	svc := NewCategoryService(catalogmemory.NewCategoryRepository())
	dog, _ := seedCategories(t, svc)

	_, err := svc.AddSubcategory(context.Background(), types.AddSubcategoryInput{CategoryID: dog.Entity.ID, Name: "food"})
	require.ErrorIs(t, err, ErrDuplicateKind)

	updated, err := svc.AddSubcategory(context.Background(), types.AddSubcategoryInput{CategoryID: dog.Entity.ID, Name: "Beds"})
	require.NoError(t, err)
	require.Equal(t, []string{"Food", "Toys", "Beds"}, updated.Entity.ProductCategories)

	_, err = svc.AddSubcategory(context.Background(), types.AddSubcategoryInput{CategoryID: "missing", Name: "Beds"})
	require.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

// frozenCache keeps answering with one snapshot no matter what is written.
type frozenCache struct {
	snapshot *projection.Projection[*domain.Category]
}

func (c *frozenCache) Get(_ context.Context, id string) (*projection.Projection[*domain.Category], bool) {
	if c.snapshot == nil || c.snapshot.Entity.ID != id {
		return nil, false
	}
	return c.snapshot, true
}

func (c *frozenCache) Set(context.Context, *projection.Projection[*domain.Category]) {}

func (c *frozenCache) Invalidate(context.Context, ...string) {}

func TestAddSubcategory_ReadsPastStaleCache(t *testing.T) {
	ctx := context.Background()
	inner := catalogmemory.NewCategoryRepository()
	dog, err := domain.NewCategory("", "dog", nil)
	require.NoError(t, err)
	snapshot, err := inner.Save(ctx, dog)
	require.NoError(t, err)

	withFood := dog.Clone()
	require.NoError(t, withFood.AddSubcategory("Food"))
	_, err = inner.Save(ctx, withFood)
	require.NoError(t, err)

	svc := NewCategoryService(catalogcache.NewCategoryRepository(inner, &frozenCache{snapshot: snapshot}))
	cached, err := svc.GetCategory(ctx, dog.ID)
	require.NoError(t, err)
	require.Empty(t, cached.Entity.ProductCategories)

	updated, err := svc.AddSubcategory(ctx, types.AddSubcategoryInput{CategoryID: dog.ID, Name: "Toys"})
	require.NoError(t, err)
	require.Equal(t, []string{"Food", "Toys"}, updated.Entity.ProductCategories)

	stored, err := inner.GetByID(ctx, dog.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Food", "Toys"}, stored.Entity.ProductCategories)
}

func TestRenameCategory_KeepsPetTypeUnique(t *testing.T) {
	svc := NewCategoryService(catalogmemory.NewCategoryRepository())
	dog, _ := seedCategories(t, svc)
	ctx := context.Background()

	_, err := svc.RenameCategory(ctx, types.RenameCategoryInput{CategoryID: dog.Entity.ID, PetType: "Cat"})
	require.ErrorIs(t, err, ErrDuplicateKind)

	same, err := svc.RenameCategory(ctx, types.RenameCategoryInput{CategoryID: dog.Entity.ID, PetType: "DOG"})
	require.NoError(t, err)
	require.Equal(t, "dog", same.Entity.PetType)

	renamed, err := svc.RenameCategory(ctx, types.RenameCategoryInput{CategoryID: dog.Entity.ID, PetType: "Puppy"})
	require.NoError(t, err)
	require.Equal(t, "puppy", renamed.Entity.PetType)

	found, err := svc.FindByPetType(ctx, "PUPPY")
	require.NoError(t, err)
	require.Equal(t, dog.Entity.ID, found.Entity.ID)
}

func TestRenameSubcategory_InPlace(t *testing.T) {
	svc := NewCategoryService(catalogmemory.NewCategoryRepository())
	dog, _ := seedCategories(t, svc)
	ctx := context.Background()

	result, err := svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Toys", NewName: "Chew Toys"})
	require.NoError(t, err)
	require.False(t, result.Moved)
	require.Nil(t, result.Target)
	require.Equal(t, []string{"Food", "Chew Toys"}, result.Source.Entity.ProductCategories)

	_, err = svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "food", NewName: "Kibble"})
	require.ErrorIs(t, err, domain.ErrSubcategoryNotFound)

	_, err = svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Food", NewName: "chew toys"})
	require.ErrorIs(t, err, ErrDuplicateKind)

	cased, err := svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Food", NewName: "FOOD"})
	require.NoError(t, err)
	require.Equal(t, []string{"FOOD", "Chew Toys"}, cased.Source.Entity.ProductCategories)
}

func TestRenameSubcategory_MovesBetweenCategories(t *testing.T) {
	svc := NewCategoryService(catalogmemory.NewCategoryRepository())
	dog, cat := seedCategories(t, svc)

	result, err := svc.RenameSubcategory(context.Background(), types.RenameSubcategoryInput{
		CategoryID:    dog.Entity.ID,
		OldName:       "Toys",
		NewName:       "Cat Toys",
		TargetPetType: "CAT",
	})
	require.NoError(t, err)
	require.True(t, result.Moved)
	require.Equal(t, []string{"Food"}, result.Source.Entity.ProductCategories)
	require.Equal(t, []string{"Litter", "Cat Toys"}, result.Target.Entity.ProductCategories)
	require.Equal(t, cat.Entity.ID, result.Target.Entity.ID)
}

func TestRenameSubcategory_TargetValidation(t *testing.T) {
	svc := NewCategoryService(catalogmemory.NewCategoryRepository())
	dog, cat := seedCategories(t, svc)
	ctx := context.Background()

	_, err := svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Toys", NewName: "litter", TargetCategoryID: cat.Entity.ID})
	require.ErrorIs(t, err, ErrDuplicateKind)

	_, err = svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Toys", NewName: "Toys", TargetPetType: "hamster"})
	require.ErrorIs(t, err, ports.ErrCategoryNotFound)

	_, err = svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Toys", NewName: " "})
	require.ErrorIs(t, err, ErrInvalidInput)

	unchanged, err := svc.GetCategory(ctx, dog.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Food", "Toys"}, unchanged.Entity.ProductCategories)
}

func TestRenameSubcategory_UnjournaledFailureLosesSubcategory(t *testing.T) {
	inner := catalogmemory.NewCategoryRepository()
	repo := &flakyRepository{inner: inner}
	svc := NewCategoryService(repo)
	dog, cat := seedCategories(t, svc)

	// seeding used saves 1 and 2; the move saves source (3) then target (4)
	repo.failOn = 4
	_, err := svc.RenameSubcategory(context.Background(), types.RenameSubcategoryInput{
		CategoryID:       dog.Entity.ID,
		OldName:          "Toys",
		NewName:          "Toys",
		TargetCategoryID: cat.Entity.ID,
	})
	require.ErrorIs(t, err, ErrMoveIncomplete)

	source, err := svc.GetCategory(context.Background(), dog.Entity.ID)
	require.NoError(t, err)
	target, err := svc.GetCategory(context.Background(), cat.Entity.ID)
	require.NoError(t, err)
	require.False(t, source.Entity.HasSubcategory("Toys"))
	require.False(t, target.Entity.HasSubcategory("Toys"))
}

func TestRenameSubcategory_JournaledFailureIsRepaired(t *testing.T) {
	inner := catalogmemory.NewCategoryRepository()
	repo := &flakyRepository{inner: inner}
	journal := catalogmemory.NewMoveJournal()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	journal.WithClock(clock)
	svc := NewCategoryService(repo, WithMoveJournal(journal), WithClock(clock), WithReconcileGrace(0))
	dog, cat := seedCategories(t, svc)
	ctx := context.Background()

	repo.failOn = 4
	_, err := svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{
		CategoryID:       dog.Entity.ID,
		OldName:          "Toys",
		NewName:          "Toys",
		TargetCategoryID: cat.Entity.ID,
	})
	require.ErrorIs(t, err, ErrMoveIncomplete)

	pending, err := journal.ListIncomplete(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, domain.MoveSourceRemoved, pending[0].State)
	require.NotEmpty(t, pending[0].LastError)

	now = now.Add(time.Hour)
	result, err := svc.ReconcileMoves(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Examined)
	require.Equal(t, 1, result.Completed)
	require.Empty(t, result.Failed)

	target, err := svc.GetCategory(ctx, cat.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Litter", "Toys"}, target.Entity.ProductCategories)

	pending, err = journal.ListIncomplete(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestReconcileMoves_RollsBackWhenTargetDeleted(t *testing.T) {
	repo := &flakyRepository{inner: catalogmemory.NewCategoryRepository()}
	journal := catalogmemory.NewMoveJournal()
	svc := NewCategoryService(repo, WithMoveJournal(journal), WithReconcileGrace(0))
	dog, cat := seedCategories(t, svc)
	ctx := context.Background()

	repo.failOn = 4
	_, err := svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Toys", NewName: "Toys", TargetCategoryID: cat.Entity.ID})
	require.ErrorIs(t, err, ErrMoveIncomplete)
	require.NoError(t, svc.DeleteCategory(ctx, cat.Entity.ID))

	result, err := svc.ReconcileMoves(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.RolledBack)

	source, err := svc.GetCategory(ctx, dog.Entity.ID)
	require.NoError(t, err)
	require.True(t, source.Entity.Contains("Toys"))
}

func TestReconcileMoves_RespectsGracePeriod(t *testing.T) {
	repo := &flakyRepository{inner: catalogmemory.NewCategoryRepository()}
	journal := catalogmemory.NewMoveJournal()
	svc := NewCategoryService(repo, WithMoveJournal(journal), WithReconcileGrace(time.Hour))
	dog, cat := seedCategories(t, svc)
	ctx := context.Background()

	repo.failOn = 4
	_, err := svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Toys", NewName: "Toys", TargetCategoryID: cat.Entity.ID})
	require.ErrorIs(t, err, ErrMoveIncomplete)

	result, err := svc.ReconcileMoves(ctx)
	require.NoError(t, err)
	require.Zero(t, result.Examined)
}

func TestRenameSubcategory_TransactionalMoveIsJournaled(t *testing.T) {
	journal := catalogmemory.NewMoveJournal()
	svc := NewCategoryService(catalogmemory.NewCategoryRepository(), WithMoveJournal(journal))
	dog, cat := seedCategories(t, svc)
	ctx := context.Background()

	result, err := svc.RenameSubcategory(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Food", NewName: "Cat Food", TargetCategoryID: cat.Entity.ID})
	require.NoError(t, err)
	require.True(t, result.Moved)
	require.NotEmpty(t, result.MoveID)
	require.Equal(t, []string{"Toys"}, result.Source.Entity.ProductCategories)
	require.Equal(t, []string{"Litter", "Cat Food"}, result.Target.Entity.ProductCategories)

	intent, err := journal.Get(ctx, result.MoveID)
	require.NoError(t, err)
	require.Equal(t, domain.MoveCompleted, intent.State)
}

func TestStepwiseMove_IsReplaySafe(t *testing.T) {
	journal := catalogmemory.NewMoveJournal()
	svc := NewCategoryService(catalogmemory.NewCategoryRepository(), WithMoveJournal(journal))
	dog, cat := seedCategories(t, svc)
	ctx := context.Background()

	intent, err := svc.PrepareMove(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Toys", NewName: "Toys", TargetPetType: "cat"})
	require.NoError(t, err)
	require.Equal(t, domain.MovePending, intent.State)

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.ApplyMoveSource(ctx, intent.ID))
		require.NoError(t, svc.ApplyMoveTarget(ctx, intent.ID))
	}
	result, err := svc.CompleteMove(ctx, intent.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Food"}, result.Source.Entity.ProductCategories)
	require.Equal(t, []string{"Litter", "Toys"}, result.Target.Entity.ProductCategories)
	require.Equal(t, cat.Entity.ID, result.Target.Entity.ID)

	_, err = svc.PrepareMove(ctx, types.RenameSubcategoryInput{CategoryID: dog.Entity.ID, OldName: "Food", NewName: "Kibble"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveSubcategory_ExactMatch(t *testing.T) {
	svc := NewCategoryService(catalogmemory.NewCategoryRepository())
	dog, _ := seedCategories(t, svc)
	ctx := context.Background()

	_, err := svc.RemoveSubcategory(ctx, types.RemoveSubcategoryInput{CategoryID: dog.Entity.ID, Name: "toys"})
	require.ErrorIs(t, err, domain.ErrSubcategoryNotFound)

	updated, err := svc.RemoveSubcategory(ctx, types.RemoveSubcategoryInput{CategoryID: dog.Entity.ID, Name: "Toys"})
	require.NoError(t, err)
	require.Equal(t, []string{"Food"}, updated.Entity.ProductCategories)
}
