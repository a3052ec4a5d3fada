package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petify-api/internal/domains/sellers/adapters/memory"
	"github.com/Apurer/petify-api/internal/domains/sellers/application/types"
	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/domains/sellers/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

func newTestService(t *testing.T, repo ports.Repository) *Service {
	t.Helper()
	issuer, err := auth.NewIssuer(auth.Config{Secret: "test-secret", AccessTTL: time.Hour})
	require.NoError(t, err)
	n := 0
	return NewService(repo, issuer, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("pet-%d", n)
	}))
}

func registerSeller(t *testing.T, svc *Service) *types.SellerProjection {
	t.Helper()
	seller, err := svc.RegisterSeller(context.Background(), types.RegisterSellerInput{
		Name:     "Ayesha",
		Email:    "Ayesha@Example.com",
		Password: "s3cret",
		Phone:    "0300-1234567",
	})
	require.NoError(t, err)
	return seller
}

func registerPets(t *testing.T, svc *Service, sellerID string, breeds ...string) {
	t.Helper()
	for _, breed := range breeds {
		_, err := svc.RegisterPet(context.Background(), types.RegisterPetInput{
			SellerID: sellerID, PetType: "dog", Breed: breed, Gender: "female",
		})
		require.NoError(t, err)
	}
}

func strPtr(s string) *string { return &s }

// racingRepository lets another writer update the seller just before the next Update.
type racingRepository struct {
	*memory.Repository
	race bool
}

func (r *racingRepository) Update(ctx context.Context, seller *domain.Seller) (*types.SellerProjection, error) {
	if r.race {
		r.race = false
		current, err := r.Repository.GetByID(ctx, seller.ID)
		if err != nil {
			return nil, err
		}
		other := current.Entity.Clone()
		other.AdminComment = "concurrent writer"
		if _, err := r.Repository.Update(ctx, other); err != nil {
			return nil, err
		}
	}
	return r.Repository.Update(ctx, seller)
}

func TestRegisterSeller_NormalizesAndHashes(t *testing.T) {
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)

	assert.Equal(t, "ayesha@example.com", seller.Entity.Email)
	assert.Equal(t, domain.VerificationPending, seller.Entity.Verification)
	assert.Equal(t, []string{"breeding"}, seller.Entity.ServicesOffered)
	assert.NotEqual(t, "s3cret", seller.Entity.PasswordHash)
	assert.True(t, auth.CheckPassword(seller.Entity.PasswordHash, "s3cret"))

	_, err := svc.RegisterSeller(context.Background(), types.RegisterSellerInput{
		Name: "Other", Email: "AYESHA@example.com", Password: "x", Phone: "1",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.RegisterSeller(context.Background(), types.RegisterSellerInput{Email: "a@b.c", Password: "x", Phone: "1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_IssuesSellerTokens(t *testing.T) {
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)

	result, err := svc.Login(context.Background(), "AYESHA@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.Equal(t, result.Tokens.RefreshToken, result.Seller.Entity.RefreshToken)

	issuer := svc.tokens.(*auth.Issuer)
	principal, err := issuer.Parse(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, seller.Entity.ID, principal.Subject)
	assert.Equal(t, auth.RoleSeller, principal.Role)

	_, err = svc.Login(context.Background(), "ayesha@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestVerifySeller_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)

	approved, err := svc.VerifySeller(ctx, types.VerifySellerInput{SellerID: seller.Entity.ID, Decision: "approved", Comment: strPtr("docs ok")})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationApproved, approved.Entity.Verification)
	assert.Equal(t, "docs ok", approved.Entity.AdminComment)

	rejected, err := svc.VerifySeller(ctx, types.VerifySellerInput{SellerID: seller.Entity.ID, Decision: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, rejected.Entity.Verification)
	assert.Empty(t, rejected.Entity.AdminComment)

	again, err := svc.VerifySeller(ctx, types.VerifySellerInput{SellerID: seller.Entity.ID, Decision: "approved"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationApproved, again.Entity.Verification)

	_, err = svc.VerifySeller(ctx, types.VerifySellerInput{SellerID: seller.Entity.ID, Decision: "pending"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.VerifySeller(ctx, types.VerifySellerInput{SellerID: "missing", Decision: "approved"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestVerifySeller_DoesNotTouchPets(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)
	registerPets(t, svc, seller.Entity.ID, "Beagle")

	updated, err := svc.VerifySeller(ctx, types.VerifySellerInput{SellerID: seller.Entity.ID, Decision: "approved"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, updated.Entity.Pets[0].Status)
}

func TestRegisterPet_AppendsPending(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)

	age := 2
	result, err := svc.RegisterPet(ctx, types.RegisterPetInput{
		SellerID: seller.Entity.ID, PetType: "dog", Breed: "Beagle", Gender: "MALE", Age: &age,
		Images: []string{"https://img/1.png"}, MedicalReport: "report.pdf",
	})
	require.NoError(t, err)
	require.Len(t, result.Entity.Pets, 1)
	pet := result.Entity.Pets[0]
	assert.Equal(t, "pet-1", pet.ID)
	assert.Equal(t, domain.GenderMale, pet.Gender)
	assert.Equal(t, domain.VerificationPending, pet.Status)

	_, err = svc.RegisterPet(ctx, types.RegisterPetInput{SellerID: seller.Entity.ID, PetType: "dog", Gender: "male"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.RegisterPet(ctx, types.RegisterPetInput{SellerID: "missing", PetType: "dog", Breed: "x", Gender: "male"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestVerifyPet_IndexOutOfBounds(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)
	registerPets(t, svc, seller.Entity.ID, "Beagle")

	for _, idx := range []int{1, 5, -1} {
		_, err := svc.VerifyPet(ctx, types.VerifyPetInput{PetRef: types.PetRef{SellerID: seller.Entity.ID, Index: idx}, Decision: "approved"})
		require.ErrorIs(t, err, ports.ErrPetNotFound, "index %d", idx)
	}
	_, err := svc.VerifyPet(ctx, types.VerifyPetInput{PetRef: types.PetRef{SellerID: "missing"}, Decision: "approved"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	result, err := svc.VerifyPet(ctx, types.VerifyPetInput{PetRef: types.PetRef{SellerID: seller.Entity.ID, Index: 0}, Decision: "rejected", Comment: strPtr("blurry")})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, result.Entity.Pets[0].Status)
	assert.Equal(t, "blurry", result.Entity.Pets[0].AdminComment)
	assert.Equal(t, domain.VerificationPending, result.Entity.Verification)
}

func TestDeletePet_IndexShiftRetargetsLaterCalls(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)
	registerPets(t, svc, seller.Entity.ID, "A", "B", "C")
	id := seller.Entity.ID

	_, err := svc.DeletePet(ctx, types.PetRef{SellerID: id, Index: 0})
	require.NoError(t, err)

	// Index 0 now addresses "B"; "C" moved to index 1.
	result, err := svc.VerifyPet(ctx, types.VerifyPetInput{PetRef: types.PetRef{SellerID: id, Index: 0}, Decision: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "B", result.Entity.Pets[0].Breed)
	assert.Equal(t, domain.VerificationApproved, result.Entity.Pets[0].Status)
	assert.Equal(t, domain.VerificationPending, result.Entity.Pets[1].Status)

	_, err = svc.VerifyPet(ctx, types.VerifyPetInput{PetRef: types.PetRef{SellerID: id, Index: 2}, Decision: "approved"})
	require.ErrorIs(t, err, ports.ErrPetNotFound)
}

func TestByIDOperations_ImmuneToShift(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)
	registerPets(t, svc, seller.Entity.ID, "A", "B", "C")
	id := seller.Entity.ID

	_, err := svc.DeletePetByID(ctx, types.PetRef{SellerID: id, PetID: "pet-1"})
	require.NoError(t, err)

	result, err := svc.VerifyPetByID(ctx, types.VerifyPetInput{PetRef: types.PetRef{SellerID: id, PetID: "pet-3"}, Decision: "approved"})
	require.NoError(t, err)
	require.Len(t, result.Entity.Pets, 2)
	assert.Equal(t, "C", result.Entity.Pets[1].Breed)
	assert.Equal(t, domain.VerificationApproved, result.Entity.Pets[1].Status)
	assert.Equal(t, domain.VerificationPending, result.Entity.Pets[0].Status)

	breed := "B2"
	result, err = svc.UpdatePetByID(ctx, types.UpdatePetInput{PetRef: types.PetRef{SellerID: id, PetID: "pet-2"}, Patch: domain.PetPatch{Breed: &breed}})
	require.NoError(t, err)
	assert.Equal(t, "B2", result.Entity.Pets[0].Breed)

	_, err = svc.VerifyPetByID(ctx, types.VerifyPetInput{PetRef: types.PetRef{SellerID: id, PetID: "pet-1"}, Decision: "approved"})
	require.ErrorIs(t, err, ports.ErrPetNotFound)
}

func TestUpdatePet_PatchCannotChangeStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)
	registerPets(t, svc, seller.Entity.ID, "Beagle")
	ref := types.PetRef{SellerID: seller.Entity.ID, Index: 0}

	_, err := svc.VerifyPet(ctx, types.VerifyPetInput{PetRef: ref, Decision: "approved", Comment: strPtr("fine")})
	require.NoError(t, err)

	desc := "Friendly"
	result, err := svc.UpdatePet(ctx, types.UpdatePetInput{PetRef: ref, Patch: domain.PetPatch{Descriptions: &desc}})
	require.NoError(t, err)
	assert.Equal(t, "Friendly", result.Entity.Pets[0].Descriptions)
	assert.Equal(t, domain.VerificationApproved, result.Entity.Pets[0].Status)
	assert.Equal(t, "fine", result.Entity.Pets[0].AdminComment)

	_, err = svc.UpdatePet(ctx, types.UpdatePetInput{PetRef: types.PetRef{SellerID: seller.Entity.ID, Index: 4}})
	require.ErrorIs(t, err, ports.ErrPetNotFound)
}

func TestConcurrentWrite_ReturnsConflict(t *testing.T) {
	ctx := context.Background()
	repo := &racingRepository{Repository: memory.NewRepository()}
	svc := newTestService(t, repo)
	seller := registerSeller(t, svc)

	repo.race = true
	_, err := svc.VerifySeller(ctx, types.VerifySellerInput{SellerID: seller.Entity.ID, Decision: "approved"})
	require.ErrorIs(t, err, ports.ErrConflict)

	stored, err := svc.GetSeller(ctx, seller.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "concurrent writer", stored.Entity.AdminComment)
	assert.Equal(t, domain.VerificationPending, stored.Entity.Verification)
}

func TestUpdateSeller_ProfilePatch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	seller := registerSeller(t, svc)
	other, err := svc.RegisterSeller(ctx, types.RegisterSellerInput{Name: "Bilal", Email: "bilal@example.com", Password: "pw", Phone: "1"})
	require.NoError(t, err)

	services := []string{"breeding", "grooming"}
	updated, err := svc.UpdateSeller(ctx, types.UpdateSellerInput{
		ID: seller.Entity.ID, Address: strPtr("Lahore"), Password: strPtr("n3w"), ServicesOffered: &services,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lahore", updated.Entity.Address)
	assert.Equal(t, services, updated.Entity.ServicesOffered)
	assert.True(t, auth.CheckPassword(updated.Entity.PasswordHash, "n3w"))

	_, err = svc.UpdateSeller(ctx, types.UpdateSellerInput{ID: other.Entity.ID, Email: strPtr("AYESHA@example.com")})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestListSellersAndApprovedPets(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewRepository())
	approved := registerSeller(t, svc)
	pending, err := svc.RegisterSeller(ctx, types.RegisterSellerInput{Name: "Bilal", Email: "bilal@example.com", Password: "pw", Phone: "1"})
	require.NoError(t, err)
	registerPets(t, svc, approved.Entity.ID, "Beagle", "Husky")
	registerPets(t, svc, pending.Entity.ID, "Persian")

	_, err = svc.VerifySeller(ctx, types.VerifySellerInput{SellerID: approved.Entity.ID, Decision: "approved"})
	require.NoError(t, err)
	for _, ref := range []types.PetRef{{SellerID: approved.Entity.ID, Index: 0}, {SellerID: pending.Entity.ID, Index: 0}} {
		_, err = svc.VerifyPet(ctx, types.VerifyPetInput{PetRef: ref, Decision: "approved"})
		require.NoError(t, err)
	}

	list, err := svc.ListSellers(ctx, types.SellerQuery{Status: "approved"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, approved.Entity.ID, list[0].Entity.ID)

	_, err = svc.ListSellers(ctx, types.SellerQuery{Status: "bogus"})
	require.ErrorIs(t, err, ErrInvalidInput)

	pets, err := svc.ListApprovedPets(ctx)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Beagle", pets[0].Pet.Breed)
	assert.Equal(t, "Ayesha", pets[0].SellerName)

	require.NoError(t, svc.DeleteSeller(ctx, pending.Entity.ID))
	require.ErrorIs(t, svc.DeleteSeller(ctx, pending.Entity.ID), ports.ErrNotFound)
}
