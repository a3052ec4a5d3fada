package petifyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ratingmapper "github.com/Apurer/petify-api/internal/domains/ratings/adapters/http/mapper"
	ratingdomain "github.com/Apurer/petify-api/internal/domains/ratings/domain"
	ratingports "github.com/Apurer/petify-api/internal/domains/ratings/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
	apierrors "github.com/Apurer/petify-api/internal/shared/errors"
)

// RatingAPI exposes product and seller reviews.
type RatingAPI struct {
	service ratingports.Service
}

func NewRatingAPI(service ratingports.Service) RatingAPI {
	return RatingAPI{service: service}
}

// Post /api/ratings
func (api *RatingAPI) CreateRating(c *gin.Context) {
	var payload ratingmapper.CreateRating
	if !bindJSON(c, &payload) {
		return
	}
	actor, ok := ratingActor(c)
	if !ok {
		return
	}
	if !actor.Staff {
		payload.CustomerID = actor.ID
	}
	created, err := api.service.CreateRating(c.Request.Context(), ratingmapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ratingmapper.FromRating(created))
}

// Get /api/ratings?target_type=&target_id=&customer_id=
func (api *RatingAPI) ListRatings(c *gin.Context) {
	list, err := api.service.ListRatings(c.Request.Context(), ratingports.Filter{
		TargetType: ratingdomain.TargetType(trimmedQuery(c, "target_type")),
		TargetID:   trimmedQuery(c, "target_id"),
		CustomerID: trimmedQuery(c, "customer_id"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratingmapper.FromRatings(list))
}

// Get /api/ratings/summary?target_type=&target_id=
func (api *RatingAPI) GetRatingSummary(c *gin.Context) {
	targetType, targetID := trimmedQuery(c, "target_type"), trimmedQuery(c, "target_id")
	if targetType == "" || targetID == "" {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("target_type and target_id are required"))
		return
	}
	summary, err := api.service.Summary(c.Request.Context(), ratingdomain.TargetType(targetType), targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratingmapper.FromSummary(targetType, targetID, summary))
}

// Post /api/ratings/summary/refresh
func (api *RatingAPI) RefreshRatingSummary(c *gin.Context) {
	var payload ratingmapper.SummaryTarget
	if !bindJSON(c, &payload) {
		return
	}
	summary, err := api.service.RefreshSummary(c.Request.Context(), ratingdomain.TargetType(payload.TargetType), payload.TargetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratingmapper.FromSummary(payload.TargetType, payload.TargetID, summary))
}

// Get /api/ratings/:id
func (api *RatingAPI) GetRating(c *gin.Context) {
	found, err := api.service.GetRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratingmapper.FromRating(found))
}

// Put /api/ratings/:id
func (api *RatingAPI) UpdateRating(c *gin.Context) {
	var payload ratingmapper.UpdateRating
	if !bindJSON(c, &payload) {
		return
	}
	actor, ok := ratingActor(c)
	if !ok {
		return
	}
	updated, err := api.service.UpdateRating(c.Request.Context(), ratingmapper.ToUpdateInput(c.Param("id"), payload, actor))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratingmapper.FromRating(updated))
}

// Delete /api/ratings/:id
func (api *RatingAPI) DeleteRating(c *gin.Context) {
	actor, ok := ratingActor(c)
	if !ok {
		return
	}
	if err := api.service.DeleteRating(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse("Rating deleted"))
}

func ratingActor(c *gin.Context) (ratingports.Actor, bool) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized)
		return ratingports.Actor{}, false
	}
	return ratingports.Actor{ID: principal.Subject, Staff: principal.IsStaff()}, true
}
