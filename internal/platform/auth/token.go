// Package auth issues and verifies the JWTs carried by Petify clients and
// enforces role capabilities at the HTTP boundary.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles understood by the capability checks.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleSeller     = "seller"
	RoleCustomer   = "customer"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrMissingToken = errors.New("access token missing")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("forbidden: insufficient privileges")
	ErrNoSecret     = errors.New("jwt secret is required")
)

// Config holds signing parameters. It is built once from the process configuration.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims is the JWT payload.
type Claims struct {
	Role string `json:"role"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Role    string
}

// IsStaff reports whether the caller is an admin or superadmin.
func (p Principal) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}

// TokenPair is returned on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Issuer signs and parses HS256 tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer validates cfg and applies default lifetimes (7d access, 30d refresh).
func NewIssuer(cfg Config) (*Issuer, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrNoSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 7 * 24 * time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Issuer{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

// IssuePair signs an access and a refresh token for subject.
func (i *Issuer) IssuePair(subject, role string) (TokenPair, error) {
	now := i.now()
	access, err := i.sign(subject, role, tokenTypeAccess, now, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(subject, role, tokenTypeRefresh, now, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: now.Add(i.accessTTL)}, nil
}

// Parse verifies an access token. Refresh tokens are rejected.
func (i *Issuer) Parse(raw string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Type != tokenTypeAccess || claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{Subject: claims.Subject, Role: claims.Role}, nil
}

func (i *Issuer) sign(subject, role, typ string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Authorized is proof that a principal passed a capability check.
type Authorized struct {
	Principal Principal
}

// Require checks that p holds one of roles.
func Require(p Principal, roles ...string) (Authorized, error) {
	for _, role := range roles {
		if p.Role == role {
			return Authorized{Principal: p}, nil
		}
	}
	return Authorized{}, ErrForbidden
}
