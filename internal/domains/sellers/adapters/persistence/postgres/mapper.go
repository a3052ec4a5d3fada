package postgres

import (
	"encoding/json"

	"github.com/lib/pq"

	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

func toRecord(s *domain.Seller) sellerRecord {
	services := make(pq.StringArray, len(s.ServicesOffered))
	copy(services, s.ServicesOffered)
	pets := make([]petPayload, 0, len(s.Pets))
	for _, p := range s.Pets {
		pets = append(pets, petPayload{
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
	return sellerRecord{
		ID:              s.ID,
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		PasswordHash:    s.PasswordHash,
		CNIC:            s.CNIC,
		Address:         s.Address,
		ProfileImage:    s.ProfileImage,
		ServicesOffered: services,
		Verification:    string(s.Verification),
		AdminComment:    s.AdminComment,
		Pets:            pets,
		RefreshToken:    s.RefreshToken,
		Version:         s.Version,
	}
}

func (r sellerRecord) toProjection() *projection.Projection[*domain.Seller] {
	seller := &domain.Seller{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		PasswordHash:    r.PasswordHash,
		CNIC:            r.CNIC,
		Address:         r.Address,
		ProfileImage:    r.ProfileImage,
		ServicesOffered: append([]string(nil), r.ServicesOffered...),
		Verification:    domain.Verification(r.Verification),
		AdminComment:    r.AdminComment,
		RefreshToken:    r.RefreshToken,
		Version:         r.Version,
	}
	for _, p := range r.Pets {
		seller.Pets = append(seller.Pets, domain.PetRegistration{
			ID:            p.ID,
			PetType:       p.PetType,
			Breed:         p.Breed,
			Gender:        domain.Gender(p.Gender),
			Age:           p.Age,
			Descriptions:  p.Descriptions,
			Images:        append([]string(nil), p.Images...),
			MedicalReport: p.MedicalReport,
			Status:        domain.Verification(p.Status),
			AdminComment:  p.AdminComment,
		})
	}
	return projection.New(seller, r.CreatedAt, r.UpdatedAt)
}

func mustJSON(pets []petPayload) string {
	raw, err := json.Marshal(pets)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
