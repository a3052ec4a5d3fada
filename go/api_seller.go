package petifyserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	sellermapper "github.com/Apurer/petify-api/internal/domains/sellers/adapters/http/mapper"
	sellertypes "github.com/Apurer/petify-api/internal/domains/sellers/application/types"
	sellerports "github.com/Apurer/petify-api/internal/domains/sellers/ports"
	apierrors "github.com/Apurer/petify-api/internal/shared/errors"
)

// SellerAPI exposes seller accounts, pet registrations, and the breeder listing.
type SellerAPI struct {
	service sellerports.Service
}

func NewSellerAPI(service sellerports.Service) SellerAPI {
	return SellerAPI{service: service}
}

// Post /api/sellers/register
func (api *SellerAPI) RegisterSeller(c *gin.Context) {
	var payload sellermapper.RegisterSeller
	if !bindJSON(c, &payload) {
		return
	}
	saved, err := api.service.RegisterSeller(c.Request.Context(), sellermapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Seller registered", "seller": sellermapper.FromSeller(saved)})
}

// Post /api/sellers/login
func (api *SellerAPI) LoginSeller(c *gin.Context) {
	var payload sellermapper.Credentials
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
		"seller":       sellermapper.FromSeller(result.Seller),
	})
}

// Get /api/sellers?status=
func (api *SellerAPI) ListSellers(c *gin.Context) {
	list, err := api.service.ListSellers(c.Request.Context(), sellertypes.SellerQuery{Status: trimmedQuery(c, "status")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sellermapper.FromSellerList(list))
}

// Get /api/sellers/:id
func (api *SellerAPI) GetSeller(c *gin.Context) {
	found, err := api.service.GetSeller(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sellermapper.FromSeller(found))
}

// Put /api/sellers/:id
func (api *SellerAPI) UpdateSeller(c *gin.Context) {
	var payload sellermapper.UpdateSeller
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := api.service.UpdateSeller(c.Request.Context(), sellermapper.ToUpdateInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Seller updated", "seller": sellermapper.FromSeller(updated)})
}

// Delete /api/sellers/:id
func (api *SellerAPI) DeleteSeller(c *gin.Context) {
	if err := api.service.DeleteSeller(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse("Seller deleted"))
}

// Patch /api/sellers/:id/verify
func (api *SellerAPI) VerifySeller(c *gin.Context) {
	var payload sellermapper.SellerDecision
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := api.service.VerifySeller(c.Request.Context(), sellertypes.VerifySellerInput{
		SellerID: c.Param("id"),
		Decision: payload.Status,
		Comment:  payload.AdminComment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Seller %s", updated.Entity.Verification),
		"seller":  sellermapper.FromSeller(updated),
	})
}

// Post /api/sellers/:id/pets
func (api *SellerAPI) RegisterPet(c *gin.Context) {
	var payload sellermapper.RegisterPet
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := api.service.RegisterPet(c.Request.Context(), sellermapper.ToRegisterPetInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, petsResponse("Pet registered", updated))
}

// Patch /api/sellers/:id/pets/:petIndex
func (api *SellerAPI) VerifyPet(c *gin.Context) {
	ref, ok := indexRef(c)
	if !ok {
		return
	}
	api.verifyPet(c, ref, api.service.VerifyPet)
}

// Put /api/sellers/:id/pets/:petIndex
func (api *SellerAPI) UpdatePet(c *gin.Context) {
	ref, ok := indexRef(c)
	if !ok {
		return
	}
	api.updatePet(c, ref, api.service.UpdatePet)
}

// Delete /api/sellers/:id/pets/:petIndex
func (api *SellerAPI) DeletePet(c *gin.Context) {
	ref, ok := indexRef(c)
	if !ok {
		return
	}
	api.deletePet(c, ref, api.service.DeletePet)
}

// Patch /api/sellers/:id/registrations/:petId
func (api *SellerAPI) VerifyPetByID(c *gin.Context) {
	api.verifyPet(c, idRef(c), api.service.VerifyPetByID)
}

// Put /api/sellers/:id/registrations/:petId
func (api *SellerAPI) UpdatePetByID(c *gin.Context) {
	api.updatePet(c, idRef(c), api.service.UpdatePetByID)
}

// Delete /api/sellers/:id/registrations/:petId
func (api *SellerAPI) DeletePetByID(c *gin.Context) {
	api.deletePet(c, idRef(c), api.service.DeletePetByID)
}

// Get /api/breeders/pets
func (api *SellerAPI) ListBreederPets(c *gin.Context) {
	list, err := api.service.ListApprovedPets(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sellermapper.FromApprovedPets(list))
}

type verifyPetFunc func(ctx context.Context, input sellertypes.VerifyPetInput) (*sellertypes.SellerProjection, error)

type updatePetFunc func(ctx context.Context, input sellertypes.UpdatePetInput) (*sellertypes.SellerProjection, error)

type deletePetFunc func(ctx context.Context, ref sellertypes.PetRef) (*sellertypes.SellerProjection, error)

func (api *SellerAPI) verifyPet(c *gin.Context, ref sellertypes.PetRef, verify verifyPetFunc) {
	var payload sellermapper.PetDecision
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := verify(c.Request.Context(), sellertypes.VerifyPetInput{
		PetRef:   ref,
		Decision: payload.Status,
		Comment:  payload.AdminComment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, petsResponse(fmt.Sprintf("Pet %s", payload.Status), updated))
}

func (api *SellerAPI) updatePet(c *gin.Context, ref sellertypes.PetRef, update updatePetFunc) {
	var payload sellermapper.PetPatch
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := update(c.Request.Context(), sellertypes.UpdatePetInput{PetRef: ref, Patch: sellermapper.ToDomainPatch(payload)})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, petsResponse("Pet updated", updated))
}

func (api *SellerAPI) deletePet(c *gin.Context, ref sellertypes.PetRef, remove deletePetFunc) {
	updated, err := remove(c.Request.Context(), ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, petsResponse("Pet deleted", updated))
}

func petsResponse(message string, seller *sellertypes.SellerProjection) gin.H {
	return gin.H{"message": message, "pets": sellermapper.FromPets(seller.Entity.Pets)}
}

func indexRef(c *gin.Context) (sellertypes.PetRef, bool) {
	index, err := strconv.Atoi(c.Param("petIndex"))
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("petIndex must be an integer"))
		return sellertypes.PetRef{}, false
	}
	return sellertypes.PetRef{SellerID: c.Param("id"), Index: index}, true
}

func idRef(c *gin.Context) sellertypes.PetRef {
	return sellertypes.PetRef{SellerID: c.Param("id"), PetID: c.Param("petId")}
}
