package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/sellers/application/types"
	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/domains/sellers/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

var _ ports.Service = (*Service)(nil)

// Service implements seller accounts and moderation. Every mutation is a
// read-modify-write of the aggregate; a stale write fails with ports.ErrConflict.
type Service struct {
	repo   ports.Repository
	tokens ports.TokenIssuer
	newID  func() string
}

// Option configures the service.
type Option func(*Service)

// WithIDGenerator overrides the pet registration ID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService wires the seller service.
func NewService(repo ports.Repository, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{repo: repo, tokens: tokens, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterSeller creates a pending seller with a bcrypt-hashed password.
func (s *Service) RegisterSeller(ctx context.Context, input types.RegisterSellerInput) (*types.SellerProjection, error) {
	if strings.TrimSpace(input.Password) == "" {
		return nil, mapError(domain.ErrEmptyPassword)
	}
	email := domain.NormalizeEmail(input.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	seller, err := domain.NewSeller(input.Name, email, input.Phone, hash)
	if err != nil {
		return nil, mapError(err)
	}
	seller.Address = strings.TrimSpace(input.Address)
	seller.CNIC = strings.TrimSpace(input.CNIC)
	seller.ProfileImage = strings.TrimSpace(input.ProfileImage)
	if len(input.ServicesOffered) > 0 {
		seller.SetServices(input.ServicesOffered)
	}
	saved, err := s.repo.Create(ctx, seller)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login checks the password and issues a seller token pair. The refresh token
// is stored on the seller.
func (s *Service) Login(ctx context.Context, email, password string) (*types.LoginResult, error) {
	found, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(found.Entity.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	pair, err := s.tokens.IssuePair(found.Entity.ID, auth.RoleSeller)
	if err != nil {
		return nil, err
	}
	seller := found.Entity.Clone()
	seller.RefreshToken = pair.RefreshToken
	saved, err := s.repo.Update(ctx, seller)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.LoginResult{Seller: saved, Tokens: pair}, nil
}

// GetSeller loads a seller.
func (s *Service) GetSeller(ctx context.Context, id string) (*types.SellerProjection, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

// ListSellers lists sellers, optionally by verification status.
func (s *Service) ListSellers(ctx context.Context, query types.SellerQuery) ([]*types.SellerProjection, error) {
	filter := ports.Filter{}
	if strings.TrimSpace(query.Status) != "" {
		status, err := domain.ParseVerification(query.Status)
		if err != nil {
			return nil, mapError(err)
		}
		filter.Verification = status
	}
	return s.repo.List(ctx, filter)
}

// UpdateSeller patches the profile, rehashing the password when one is given.
func (s *Service) UpdateSeller(ctx context.Context, input types.UpdateSellerInput) (*types.SellerProjection, error) {
	var hash string
	if input.Password != nil {
		if strings.TrimSpace(*input.Password) == "" {
			return nil, mapError(domain.ErrEmptyPassword)
		}
		var err error
		if hash, err = auth.HashPassword(*input.Password); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, input.ID, func(seller *domain.Seller) error {
		if input.Name != nil {
			if err := seller.SetName(*input.Name); err != nil {
				return err
			}
		}
		if input.Email != nil {
			if err := seller.SetEmail(*input.Email); err != nil {
				return err
			}
		}
		if input.Phone != nil {
			if err := seller.SetPhone(*input.Phone); err != nil {
				return err
			}
		}
		if hash != "" {
			seller.PasswordHash = hash
		}
		if input.Address != nil {
			seller.Address = strings.TrimSpace(*input.Address)
		}
		if input.CNIC != nil {
			seller.CNIC = strings.TrimSpace(*input.CNIC)
		}
		if input.ProfileImage != nil {
			seller.ProfileImage = strings.TrimSpace(*input.ProfileImage)
		}
		if input.ServicesOffered != nil {
			seller.SetServices(*input.ServicesOffered)
		}
		return nil
	})
}

// DeleteSeller removes a seller and its registrations.
func (s *Service) DeleteSeller(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

// VerifySeller sets the seller status. Decisions are not guarded against
// re-application; the last one wins.
func (s *Service) VerifySeller(ctx context.Context, input types.VerifySellerInput) (*types.SellerProjection, error) {
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return nil, mapError(err)
	}
	return s.mutate(ctx, input.SellerID, func(seller *domain.Seller) error {
		return seller.Verify(decision, comment(input.Comment))
	})
}

// RegisterPet appends a pending registration with a fresh stable ID.
func (s *Service) RegisterPet(ctx context.Context, input types.RegisterPetInput) (*types.SellerProjection, error) {
	pet := domain.PetRegistration{
		PetType:       input.PetType,
		Breed:         input.Breed,
		Gender:        domain.Gender(input.Gender),
		Age:           input.Age,
		Descriptions:  input.Descriptions,
		Images:        input.Images,
		MedicalReport: input.MedicalReport,
	}
	return s.mutate(ctx, input.SellerID, func(seller *domain.Seller) error {
		return seller.RegisterPet(s.newID(), pet)
	})
}

// VerifyPet decides the registration at input.Index.
func (s *Service) VerifyPet(ctx context.Context, input types.VerifyPetInput) (*types.SellerProjection, error) {
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return nil, mapError(err)
	}
	return s.mutate(ctx, input.SellerID, func(seller *domain.Seller) error {
		return seller.VerifyPet(input.Index, decision, comment(input.Comment))
	})
}

// UpdatePet patches the registration at input.Index.
func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.SellerProjection, error) {
	return s.mutate(ctx, input.SellerID, func(seller *domain.Seller) error {
		return seller.UpdatePet(input.Index, input.Patch)
	})
}

// DeletePet removes the registration at ref.Index. Later indices shift down.
func (s *Service) DeletePet(ctx context.Context, ref types.PetRef) (*types.SellerProjection, error) {
	return s.mutate(ctx, ref.SellerID, func(seller *domain.Seller) error {
		return seller.DeletePet(ref.Index)
	})
}

// VerifyPetByID decides the registration with input.PetID.
func (s *Service) VerifyPetByID(ctx context.Context, input types.VerifyPetInput) (*types.SellerProjection, error) {
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return nil, mapError(err)
	}
	return s.mutate(ctx, input.SellerID, func(seller *domain.Seller) error {
		return seller.VerifyPet(seller.PetIndex(input.PetID), decision, comment(input.Comment))
	})
}

// UpdatePetByID patches the registration with input.PetID.
func (s *Service) UpdatePetByID(ctx context.Context, input types.UpdatePetInput) (*types.SellerProjection, error) {
	return s.mutate(ctx, input.SellerID, func(seller *domain.Seller) error {
		return seller.UpdatePet(seller.PetIndex(input.PetID), input.Patch)
	})
}

// DeletePetByID removes the registration with ref.PetID.
func (s *Service) DeletePetByID(ctx context.Context, ref types.PetRef) (*types.SellerProjection, error) {
	return s.mutate(ctx, ref.SellerID, func(seller *domain.Seller) error {
		return seller.DeletePet(seller.PetIndex(ref.PetID))
	})
}

// ListApprovedPets returns approved registrations of approved sellers.
func (s *Service) ListApprovedPets(ctx context.Context) ([]types.ApprovedPet, error) {
	sellers, err := s.repo.List(ctx, ports.Filter{Verification: domain.VerificationApproved})
	if err != nil {
		return nil, err
	}
	out := []types.ApprovedPet{}
	for _, p := range sellers {
		seller := p.Entity
		if !seller.IsApproved() {
			continue
		}
		for _, pet := range seller.ApprovedPets() {
			out = append(out, types.ApprovedPet{
				SellerID:      seller.ID,
				SellerName:    seller.Name,
				SellerPhone:   seller.Phone,
				SellerAddress: seller.Address,
				Pet:           pet,
			})
		}
	}
	return out, nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*domain.Seller) error) (*types.SellerProjection, error) {
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	seller := current.Entity.Clone()
	if err := fn(seller); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, seller)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func comment(c *string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(*c)
}
