package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/petify-api/internal/shared/errors"
)

const principalKey = "petify.principal"

// Authenticate parses the bearer token: a missing token is 401, an invalid one 403.
func Authenticate(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail(ErrMissingToken.Error()))
			return
		}
		principal, err := issuer.Parse(raw)
		if err != nil {
			apierrors.Respond(c, apierrors.ErrForbidden.WithDetail(ErrInvalidToken.Error()))
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole admits principals holding one of roles. It must run after Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := PrincipalFrom(c)
		if _, err := Require(principal, roles...); err != nil {
			apierrors.Respond(c, apierrors.ErrForbidden.WithDetail(err.Error()))
			return
		}
		c.Next()
	}
}

// RequireSelfOrRole admits the principal whose subject equals the path parameter
// param, or any principal holding one of roles.
func RequireSelfOrRole(param string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if ok && principal.Subject != "" && principal.Subject == c.Param(param) {
			c.Next()
			return
		}
		if _, err := Require(principal, roles...); err != nil {
			apierrors.Respond(c, apierrors.ErrForbidden.WithDetail(err.Error()))
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
