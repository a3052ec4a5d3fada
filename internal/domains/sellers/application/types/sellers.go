package types

import (
	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/platform/auth"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

// SellerProjection is a seller plus persistence timestamps.
type SellerProjection = projection.Projection[*domain.Seller]

// RegisterSellerInput creates a pending seller account.
type RegisterSellerInput struct {
	Name            string
	Email           string
	Password        string
	Phone           string
	Address         string
	CNIC            string
	ProfileImage    string
	ServicesOffered []string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Seller *SellerProjection
	Tokens auth.TokenPair
}

// SellerQuery filters ListSellers by verification status.
type SellerQuery struct {
	Status string
}

// UpdateSellerInput patches the profile. Verification and pets are not patchable here.
type UpdateSellerInput struct {
	ID              string
	Name            *string
	Email           *string
	Phone           *string
	Password        *string
	Address         *string
	CNIC            *string
	ProfileImage    *string
	ServicesOffered *[]string
}

// VerifySellerInput records an admin decision on a seller.
type VerifySellerInput struct {
	SellerID string
	Decision string
	Comment  *string
}

// RegisterPetInput appends a pet registration.
type RegisterPetInput struct {
	SellerID      string
	PetType       string
	Breed         string
	Gender        string
	Age           *int
	Descriptions  string
	Images        []string
	MedicalReport string
}

// PetRef addresses a registration either by list position or by stable ID,
// depending on the operation it is passed to.
type PetRef struct {
	SellerID string
	Index    int
	PetID    string
}

// VerifyPetInput records an admin decision on one registration.
type VerifyPetInput struct {
	PetRef
	Decision string
	Comment  *string
}

// UpdatePetInput patches one registration.
type UpdatePetInput struct {
	PetRef
	Patch domain.PetPatch
}

// ApprovedPet is a public breeder listing entry.
type ApprovedPet struct {
	SellerID      string
	SellerName    string
	SellerPhone   string
	SellerAddress string
	Pet           domain.PetRegistration
}
