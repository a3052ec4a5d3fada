package ports

import (
	"context"

	"github.com/Apurer/petify-api/internal/domains/sellers/application/types"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

// TokenIssuer signs login tokens.
type TokenIssuer interface {
	IssuePair(subject, role string) (auth.TokenPair, error)
}

// Service exposes seller accounts and the verification state machine.
type Service interface {
	RegisterSeller(ctx context.Context, input types.RegisterSellerInput) (*types.SellerProjection, error)
	Login(ctx context.Context, email, password string) (*types.LoginResult, error)
	GetSeller(ctx context.Context, id string) (*types.SellerProjection, error)
	ListSellers(ctx context.Context, query types.SellerQuery) ([]*types.SellerProjection, error)
	UpdateSeller(ctx context.Context, input types.UpdateSellerInput) (*types.SellerProjection, error)
	DeleteSeller(ctx context.Context, id string) error
	VerifySeller(ctx context.Context, input types.VerifySellerInput) (*types.SellerProjection, error)

	RegisterPet(ctx context.Context, input types.RegisterPetInput) (*types.SellerProjection, error)
	VerifyPet(ctx context.Context, input types.VerifyPetInput) (*types.SellerProjection, error)
	UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.SellerProjection, error)
	DeletePet(ctx context.Context, ref types.PetRef) (*types.SellerProjection, error)
	VerifyPetByID(ctx context.Context, input types.VerifyPetInput) (*types.SellerProjection, error)
	UpdatePetByID(ctx context.Context, input types.UpdatePetInput) (*types.SellerProjection, error)
	DeletePetByID(ctx context.Context, ref types.PetRef) (*types.SellerProjection, error)

	ListApprovedPets(ctx context.Context) ([]types.ApprovedPet, error)
}
