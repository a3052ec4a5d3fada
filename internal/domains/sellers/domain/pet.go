package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyPetType     = errors.New("pet_type is required")
	ErrEmptyBreed       = errors.New("breed is required")
	ErrInvalidGender    = errors.New("gender must be male or female")
	ErrNegativeAge      = errors.New("age must not be negative")
	ErrPetNotRegistered = errors.New("pet not found")
)

// Gender of a registered pet.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts male or female in any casing.
func ParseGender(raw string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(raw))); g {
	case GenderMale, GenderFemale:
		return g, nil
	default:
		return "", ErrInvalidGender
	}
}

// PetRegistration is a pet a seller offers for breeding. ID is stable for the
// lifetime of the registration; the list position is not.
type PetRegistration struct {
	ID            string
	PetType       string
	Breed         string
	Gender        Gender
	Age           *int
	Descriptions  string
	Images        []string
	MedicalReport string
	Status        Verification
	AdminComment  string
}

// PetPatch carries optional registration fields. Status and AdminComment
// change only through VerifyPet.
type PetPatch struct {
	PetType       *string
	Breed         *string
	Gender        *string
	Age           *int
	Descriptions  *string
	Images        *[]string
	MedicalReport *string
}

// Validate checks the required fields.
func (p *PetRegistration) Validate() error {
	p.PetType = strings.TrimSpace(p.PetType)
	if p.PetType == "" {
		return ErrEmptyPetType
	}
	p.Breed = strings.TrimSpace(p.Breed)
	if p.Breed == "" {
		return ErrEmptyBreed
	}
	gender, err := ParseGender(string(p.Gender))
	if err != nil {
		return err
	}
	p.Gender = gender
	if p.Age != nil && *p.Age < 0 {
		return ErrNegativeAge
	}
	return nil
}

// Clone returns a deep copy.
func (p PetRegistration) Clone() PetRegistration {
	p.Images = append([]string(nil), p.Images...)
	if p.Age != nil {
		age := *p.Age
		p.Age = &age
	}
	return p
}

func (p *PetRegistration) apply(patch PetPatch) {
	if patch.PetType != nil {
		p.PetType = *patch.PetType
	}
	if patch.Breed != nil {
		p.Breed = *patch.Breed
	}
	if patch.Gender != nil {
		p.Gender = Gender(*patch.Gender)
	}
	if patch.Age != nil {
		age := *patch.Age
		p.Age = &age
	}
	if patch.Descriptions != nil {
		p.Descriptions = *patch.Descriptions
	}
	if patch.Images != nil {
		p.Images = append([]string(nil), (*patch.Images)...)
	}
	if patch.MedicalReport != nil {
		p.MedicalReport = *patch.MedicalReport
	}
}

// RegisterPet validates pet and appends it as pending under id.
func (s *Seller) RegisterPet(id string, pet PetRegistration) error {
	pet = pet.Clone()
	pet.ID = id
	pet.Status = VerificationPending
	pet.AdminComment = ""
	if err := pet.Validate(); err != nil {
		return err
	}
	s.Pets = append(s.Pets, pet)
	return nil
}

// PetIndex returns the position of the registration with id, or -1.
func (s *Seller) PetIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Pets {
		if s.Pets[i].ID == id {
			return i
		}
	}
	return -1
}

// VerifyPet records an admin decision on the pet at index. Repeated decisions
// overwrite each other.
func (s *Seller) VerifyPet(index int, decision Verification, comment string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if decision != VerificationApproved && decision != VerificationRejected {
		return ErrInvalidDecision
	}
	s.Pets[index].Status = decision
	s.Pets[index].AdminComment = comment
	return nil
}

// UpdatePet merges patch into the pet at index.
func (s *Seller) UpdatePet(index int, patch PetPatch) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	updated := s.Pets[index].Clone()
	updated.apply(patch)
	if err := updated.Validate(); err != nil {
		return err
	}
	s.Pets[index] = updated
	return nil
}

// DeletePet removes the pet at index; later registrations shift down by one.
func (s *Seller) DeletePet(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.Pets = append(s.Pets[:index:index], s.Pets[index+1:]...)
	return nil
}

// ApprovedPets returns copies of the approved registrations.
func (s *Seller) ApprovedPets() []PetRegistration {
	var out []PetRegistration
	for i := range s.Pets {
		if s.Pets[i].Status == VerificationApproved {
			out = append(out, s.Pets[i].Clone())
		}
	}
	return out
}

func (s *Seller) checkIndex(index int) error {
	if index < 0 || index >= len(s.Pets) {
		return ErrPetNotRegistered
	}
	return nil
}
