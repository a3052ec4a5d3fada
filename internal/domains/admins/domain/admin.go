package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName     = errors.New("admin_name is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("admin_email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 4 characters")
	ErrInvalidRole   = errors.New("role must be superadmin or admin")
)

// Role is an admin privilege level.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
)

// ParseRole maps an empty role to RoleAdmin.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case "":
		return RoleAdmin, nil
	case RoleSuperAdmin, RoleAdmin:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// Admin is a moderator account.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// NewAdmin builds an admin ensuring required invariants. The password hash is
// produced by the caller.
func NewAdmin(name, email, passwordHash string, role Role) (*Admin, error) {
	admin := &Admin{Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	if err := admin.Validate(); err != nil {
		return nil, err
	}
	return admin, nil
}

// ValidatePassword checks basic strength of a plain-text password.
func ValidatePassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 4 {
		return ErrWeakPassword
	}
	return nil
}

// IsSuperAdmin reports whether the admin may manage other admins.
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// Validate re-applies core invariants for persistence.
func (a *Admin) Validate() error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return ErrEmptyName
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(a.PasswordHash) == "" {
		return ErrEmptyPassword
	}
	role, err := ParseRole(string(a.Role))
	if err != nil {
		return err
	}
	a.Role = role
	return nil
}
