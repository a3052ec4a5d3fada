package petifyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adminmapper "github.com/Apurer/petify-api/internal/domains/admins/adapters/http/mapper"
	adminports "github.com/Apurer/petify-api/internal/domains/admins/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
	apierrors "github.com/Apurer/petify-api/internal/shared/errors"
)

// AdminAPI exposes admin accounts and sessions.
type AdminAPI struct {
	service adminports.Service
}

func NewAdminAPI(service adminports.Service) AdminAPI {
	return AdminAPI{service: service}
}

// Post /api/admins/login
func (api *AdminAPI) LoginAdmin(c *gin.Context) {
	var payload adminmapper.Credentials
	if !bindJSON(c, &payload) {
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":        result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
		"expiresAt":    result.Tokens.ExpiresAt,
		"admin":        adminmapper.FromAdmin(result.Admin),
	})
}

// Post /api/admins/logout
func (api *AdminAPI) LogoutAdmin(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized)
		return
	}
	api.service.Logout(c.Request.Context(), principal.Subject)
	c.JSON(http.StatusOK, messageResponse("Logged out"))
}

// Post /api/admins/register
func (api *AdminAPI) RegisterAdmin(c *gin.Context) {
	var payload adminmapper.RegisterAdmin
	if !bindJSON(c, &payload) {
		return
	}
	saved, err := api.service.Register(c.Request.Context(), adminmapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin registered", "admin": adminmapper.FromAdmin(saved)})
}

// Get /api/admins
func (api *AdminAPI) ListAdmins(c *gin.Context) {
	list, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminmapper.FromAdminList(list))
}

// Get /api/admins/:id
func (api *AdminAPI) GetAdmin(c *gin.Context) {
	found, err := api.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminmapper.FromAdmin(found))
}

// Patch /api/admins/:id/password
func (api *AdminAPI) ChangePassword(c *gin.Context) {
	var payload adminmapper.PasswordChange
	if !bindJSON(c, &payload) {
		return
	}
	if err := api.service.ChangePassword(c.Request.Context(), c.Param("id"), payload.OldPassword, payload.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse("Password updated"))
}

// Delete /api/admins/:id
func (api *AdminAPI) DeleteAdmin(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse("Admin deleted"))
}
