package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidEmail    = errors.New("email must contain '@'")
	ErrEmptyPhone      = errors.New("phone is required")
	ErrEmptyPassword   = errors.New("password is required")
	ErrInvalidDecision = errors.New("status must be approved or rejected")
)

// Verification is the moderation state of a seller or a registered pet.
type Verification string

const (
	VerificationPending  Verification = "pending"
	VerificationApproved Verification = "approved"
	VerificationRejected Verification = "rejected"
)

// ParseDecision accepts only the two states an admin may set.
func ParseDecision(raw string) (Verification, error) {
	switch v := Verification(strings.ToLower(strings.TrimSpace(raw))); v {
	case VerificationApproved, VerificationRejected:
		return v, nil
	default:
		return "", ErrInvalidDecision
	}
}

// ParseVerification accepts any state; empty maps to pending.
func ParseVerification(raw string) (Verification, error) {
	switch v := Verification(strings.ToLower(strings.TrimSpace(raw))); v {
	case "":
		return VerificationPending, nil
	case VerificationPending, VerificationApproved, VerificationRejected:
		return v, nil
	default:
		return "", ErrInvalidDecision
	}
}

// DefaultServices is assigned to sellers registering without a service list.
var DefaultServices = []string{"breeding"}

// Seller is a breeder account. Pets are owned by the aggregate and mutated only through it.
type Seller struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	PasswordHash    string
	CNIC            string
	Address         string
	ProfileImage    string
	ServicesOffered []string
	Verification    Verification
	AdminComment    string
	Pets            []PetRegistration
	RefreshToken    string
	// Version is the optimistic-lock counter maintained by repositories.
	Version int64
}

// NewSeller builds a pending seller with the default service list.
func NewSeller(name, email, phone, passwordHash string) (*Seller, error) {
	s := &Seller{
		Verification:    VerificationPending,
		ServicesOffered: append([]string(nil), DefaultServices...),
		PasswordHash:    passwordHash,
	}
	if err := s.SetName(name); err != nil {
		return nil, err
	}
	if err := s.SetEmail(email); err != nil {
		return nil, err
	}
	if err := s.SetPhone(phone); err != nil {
		return nil, err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, ErrEmptyPassword
	}
	return s, nil
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Seller) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	s.Name = name
	return nil
}

func (s *Seller) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	s.Email = email
	return nil
}

func (s *Seller) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrEmptyPhone
	}
	s.Phone = phone
	return nil
}

// SetServices replaces the offered services; an empty list restores the default.
func (s *Seller) SetServices(services []string) {
	cleaned := make([]string, 0, len(services))
	for _, svc := range services {
		if svc = strings.TrimSpace(svc); svc != "" {
			cleaned = append(cleaned, svc)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultServices...)
	}
	s.ServicesOffered = cleaned
}

// Verify records an admin decision. Repeated decisions overwrite each other.
func (s *Seller) Verify(decision Verification, comment string) error {
	if decision != VerificationApproved && decision != VerificationRejected {
		return ErrInvalidDecision
	}
	s.Verification = decision
	s.AdminComment = comment
	return nil
}

// IsApproved reports whether the seller passed moderation.
func (s *Seller) IsApproved() bool {
	return s.Verification == VerificationApproved
}

// Validate re-applies the profile invariants.
func (s *Seller) Validate() error {
	if err := s.SetName(s.Name); err != nil {
		return err
	}
	if err := s.SetEmail(s.Email); err != nil {
		return err
	}
	if err := s.SetPhone(s.Phone); err != nil {
		return err
	}
	if _, err := ParseVerification(string(s.Verification)); err != nil {
		return err
	}
	for i := range s.Pets {
		if err := s.Pets[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *Seller) Clone() *Seller {
	if s == nil {
		return nil
	}
	clone := *s
	clone.ServicesOffered = append([]string(nil), s.ServicesOffered...)
	clone.Pets = make([]PetRegistration, len(s.Pets))
	for i := range s.Pets {
		clone.Pets[i] = s.Pets[i].Clone()
	}
	return &clone
}
