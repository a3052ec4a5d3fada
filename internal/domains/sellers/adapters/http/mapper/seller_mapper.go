package mapper

import (
	"time"

	sellertypes "github.com/Apurer/petify-api/internal/domains/sellers/application/types"
	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
)

// Pet is the transport shape of a pet registration.
type Pet struct {
	ID            string   `json:"id"`
	PetType       string   `json:"pet_type"`
	Breed         string   `json:"breed"`
	Gender        string   `json:"gender"`
	Age           *int     `json:"age,omitempty"`
	Descriptions  string   `json:"descriptions"`
	Images        []string `json:"images"`
	MedicalReport string   `json:"medical_report"`
	Status        string   `json:"status"`
	AdminComment  string   `json:"admin_comment"`
}

// Seller is the transport shape of a seller. Credentials are never rendered.
type Seller struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	CNIC            string    `json:"cnic"`
	Address         string    `json:"address"`
	ProfileImage    string    `json:"profile_image"`
	ServicesOffered []string  `json:"services_offered"`
	IsVerified      string    `json:"isVerified"`
	AdminComment    string    `json:"adminComment,omitempty"`
	Pets            []Pet     `json:"register_pet"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RegisterSeller is the POST /sellers/register body.
type RegisterSeller struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	Phone           string   `json:"phone"`
	Address         string   `json:"address"`
	CNIC            string   `json:"cnic"`
	ProfileImage    string   `json:"profile_image"`
	ServicesOffered []string `json:"services_offered"`
}

// Credentials is a login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateSeller is the PUT /sellers/:id body.
type UpdateSeller struct {
	Name            *string   `json:"name"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	Password        *string   `json:"password"`
	Address         *string   `json:"address"`
	CNIC            *string   `json:"cnic"`
	ProfileImage    *string   `json:"profile_image"`
	ServicesOffered *[]string `json:"services_offered"`
}

// SellerDecision is the PATCH /sellers/:id/verify body.
type SellerDecision struct {
	Status       string  `json:"status"`
	AdminComment *string `json:"adminComment"`
}

// PetDecision is the pet verification body.
type PetDecision struct {
	Status       string  `json:"status"`
	AdminComment *string `json:"admin_comment"`
}

// RegisterPet is the POST /sellers/:id/pets body.
type RegisterPet struct {
	PetType       string   `json:"pet_type"`
	Breed         string   `json:"breed"`
	Gender        string   `json:"gender"`
	Age           *int     `json:"age"`
	Descriptions  string   `json:"descriptions"`
	Images        []string `json:"images"`
	MedicalReport string   `json:"medical_report"`
}

// PetPatch is the pet update body.
type PetPatch struct {
	PetType       *string   `json:"pet_type"`
	Breed         *string   `json:"breed"`
	Gender        *string   `json:"gender"`
	Age           *int      `json:"age"`
	Descriptions  *string   `json:"descriptions"`
	Images        *[]string `json:"images"`
	MedicalReport *string   `json:"medical_report"`
}

// BreederPet is a public breeder listing entry.
type BreederPet struct {
	SellerID      string `json:"seller_id"`
	SellerName    string `json:"seller_name"`
	SellerPhone   string `json:"seller_phone"`
	SellerAddress string `json:"seller_address"`
	Pet           Pet    `json:"pet"`
}

func ToRegisterInput(body RegisterSeller) sellertypes.RegisterSellerInput {
	return sellertypes.RegisterSellerInput{
		Name:            body.Name,
		Email:           body.Email,
		Password:        body.Password,
		Phone:           body.Phone,
		Address:         body.Address,
		CNIC:            body.CNIC,
		ProfileImage:    body.ProfileImage,
		ServicesOffered: body.ServicesOffered,
	}
}

func ToUpdateInput(id string, body UpdateSeller) sellertypes.UpdateSellerInput {
	return sellertypes.UpdateSellerInput{
		ID:              id,
		Name:            body.Name,
		Email:           body.Email,
		Phone:           body.Phone,
		Password:        body.Password,
		Address:         body.Address,
		CNIC:            body.CNIC,
		ProfileImage:    body.ProfileImage,
		ServicesOffered: body.ServicesOffered,
	}
}

func ToRegisterPetInput(sellerID string, body RegisterPet) sellertypes.RegisterPetInput {
	return sellertypes.RegisterPetInput{
		SellerID:      sellerID,
		PetType:       body.PetType,
		Breed:         body.Breed,
		Gender:        body.Gender,
		Age:           body.Age,
		Descriptions:  body.Descriptions,
		Images:        body.Images,
		MedicalReport: body.MedicalReport,
	}
}

func ToDomainPatch(body PetPatch) domain.PetPatch {
	return domain.PetPatch{
		PetType:       body.PetType,
		Breed:         body.Breed,
		Gender:        body.Gender,
		Age:           body.Age,
		Descriptions:  body.Descriptions,
		Images:        body.Images,
		MedicalReport: body.MedicalReport,
	}
}

// FromSeller converts a projection to its transport shape.
func FromSeller(p *sellertypes.SellerProjection) Seller {
	if p == nil || p.Entity == nil {
		return Seller{}
	}
	s := p.Entity
	return Seller{
		ID:              s.ID,
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		CNIC:            s.CNIC,
		Address:         s.Address,
		ProfileImage:    s.ProfileImage,
		ServicesOffered: append([]string{}, s.ServicesOffered...),
		IsVerified:      string(s.Verification),
		AdminComment:    s.AdminComment,
		Pets:            FromPets(s.Pets),
		CreatedAt:       p.Metadata.CreatedAt,
		UpdatedAt:       p.Metadata.UpdatedAt,
	}
}

func FromSellerList(list []*sellertypes.SellerProjection) []Seller {
	out := make([]Seller, 0, len(list))
	for _, p := range list {
		out = append(out, FromSeller(p))
	}
	return out
}

func FromPet(p domain.PetRegistration) Pet {
	return Pet{
		ID:            p.ID,
		PetType:       p.PetType,
		Breed:         p.Breed,
		Gender:        string(p.Gender),
		Age:           p.Age,
		Descriptions:  p.Descriptions,
		Images:        append([]string{}, p.Images...),
		MedicalReport: p.MedicalReport,
		Status:        string(p.Status),
		AdminComment:  p.AdminComment,
	}
}

func FromPets(pets []domain.PetRegistration) []Pet {
	out := make([]Pet, 0, len(pets))
	for _, p := range pets {
		out = append(out, FromPet(p))
	}
	return out
}

func FromApprovedPets(list []sellertypes.ApprovedPet) []BreederPet {
	out := make([]BreederPet, 0, len(list))
	for _, entry := range list {
		out = append(out, BreederPet{
			SellerID:      entry.SellerID,
			SellerName:    entry.SellerName,
			SellerPhone:   entry.SellerPhone,
			SellerAddress: entry.SellerAddress,
			Pet:           FromPet(entry.Pet),
		})
	}
	return out
}
