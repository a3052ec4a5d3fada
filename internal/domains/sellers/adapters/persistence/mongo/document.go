package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

// sellerDocument keeps the field names of the existing sellers collection.
type sellerDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	Phone           string             `bson:"phone"`
	Password        string             `bson:"password"`
	CNIC            string             `bson:"cnic"`
	Address         string             `bson:"address"`
	ProfileImage    string             `bson:"profile_image"`
	ServicesOffered []string           `bson:"services_offered"`
	IsVerified      verificationField  `bson:"isVerified"`
	AdminComment    string             `bson:"admin_comment"`
	Pets            []petDocument      `bson:"register_pet"`
	RefreshToken    string             `bson:"refresh_token"`
	Version         int64              `bson:"version"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

type petDocument struct {
	ID            string   `bson:"id,omitempty"`
	PetType       string   `bson:"pet_type"`
	Breed         string   `bson:"breed"`
	Gender        string   `bson:"gender"`
	Age           *int     `bson:"age,omitempty"`
	Descriptions  string   `bson:"descriptions"`
	Images        []string `bson:"images"`
	MedicalReport string   `bson:"medical_report"`
	Status        string   `bson:"status"`
	AdminComment  string   `bson:"admin_comment"`
}

// verificationField is written as a string and read from either a string or
// the legacy boolean (false is pending, true is approved).
type verificationField domain.Verification

func (v verificationField) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(v))
}

func (v *verificationField) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeBoolean:
		if raw.Boolean() {
			*v = verificationField(domain.VerificationApproved)
		} else {
			*v = verificationField(domain.VerificationPending)
		}
	case bson.TypeString:
		parsed, err := domain.ParseVerification(raw.StringValue())
		if err != nil {
			return err
		}
		*v = verificationField(parsed)
	case bson.TypeNull, bson.TypeUndefined:
		*v = verificationField(domain.VerificationPending)
	default:
		return fmt.Errorf("isVerified: unsupported bson type %s", t)
	}
	return nil
}

func toDocument(s *domain.Seller) sellerDocument {
	pets := make([]petDocument, 0, len(s.Pets))
	for _, p := range s.Pets {
		pets = append(pets, petDocument{
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
		})
	}
	return sellerDocument{
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		Password:        s.PasswordHash,
		CNIC:            s.CNIC,
		Address:         s.Address,
		ProfileImage:    s.ProfileImage,
		ServicesOffered: append([]string{}, s.ServicesOffered...),
		IsVerified:      verificationField(s.Verification),
		AdminComment:    s.AdminComment,
		Pets:            pets,
		RefreshToken:    s.RefreshToken,
		Version:         s.Version,
	}
}

func (d sellerDocument) toProjection() *projection.Projection[*domain.Seller] {
	seller := &domain.Seller{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Email:           d.Email,
		Phone:           d.Phone,
		PasswordHash:    d.Password,
		CNIC:            d.CNIC,
		Address:         d.Address,
		ProfileImage:    d.ProfileImage,
		ServicesOffered: append([]string(nil), d.ServicesOffered...),
		Verification:    domain.Verification(d.IsVerified),
		AdminComment:    d.AdminComment,
		RefreshToken:    d.RefreshToken,
		Version:         d.Version,
	}
	if seller.Verification == "" {
		seller.Verification = domain.VerificationPending
	}
	for i, p := range d.Pets {
		id := p.ID
		if id == "" {
			id = legacyPetID(seller.ID, i)
		}
		status := domain.Verification(p.Status)
		if status == "" {
			status = domain.VerificationPending
		}
		seller.Pets = append(seller.Pets, domain.PetRegistration{
			ID:            id,
			PetType:       p.PetType,
			Breed:         p.Breed,
			Gender:        domain.Gender(p.Gender),
			Age:           p.Age,
			Descriptions:  p.Descriptions,
			Images:        append([]string(nil), p.Images...),
			MedicalReport: p.MedicalReport,
			Status:        status,
			AdminComment:  p.AdminComment,
		})
	}
	return projection.New(seller, d.CreatedAt, d.UpdatedAt)
}
