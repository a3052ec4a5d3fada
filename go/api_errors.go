package petifyserver

import (
	"github.com/gin-gonic/gin"

	adminapp "github.com/Apurer/petify-api/internal/domains/admins/application"
	adminports "github.com/Apurer/petify-api/internal/domains/admins/ports"
	catalogapp "github.com/Apurer/petify-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/petify-api/internal/domains/catalog/ports"
	customerapp "github.com/Apurer/petify-api/internal/domains/customers/application"
	customerports "github.com/Apurer/petify-api/internal/domains/customers/ports"
	orderapp "github.com/Apurer/petify-api/internal/domains/orders/application"
	orderports "github.com/Apurer/petify-api/internal/domains/orders/ports"
	ratingapp "github.com/Apurer/petify-api/internal/domains/ratings/application"
	ratingports "github.com/Apurer/petify-api/internal/domains/ratings/ports"
	sellerapp "github.com/Apurer/petify-api/internal/domains/sellers/application"
	sellerports "github.com/Apurer/petify-api/internal/domains/sellers/ports"
	apierrors "github.com/Apurer/petify-api/internal/shared/errors"
)

// responder maps every bounded context's sentinels to Problem Details.
// Mappers are tried in order, so partial moves and stale writes match first.
var responder = apierrors.NewChainedResponder("",
	apierrors.MapSentinel(apierrors.ErrInternal.WithExtension("retryable", true), catalogapp.ErrMoveIncomplete),
	apierrors.MapSentinel(apierrors.ErrConflict, sellerports.ErrConflict, orderports.ErrIdempotencyConflict),
	apierrors.MapSentinel(apierrors.ErrNotFound,
		catalogports.ErrCategoryNotFound,
		catalogports.ErrProductNotFound,
		catalogports.ErrMoveNotFound,
		sellerports.ErrNotFound,
		sellerports.ErrPetNotFound,
		adminports.ErrNotFound,
		orderports.ErrNotFound,
		customerports.ErrNotFound,
		ratingports.ErrNotFound,
		ratingports.ErrTargetNotFound,
	),
	apierrors.MapSentinel(apierrors.ErrForbidden, ratingports.ErrForbidden),
	apierrors.MapSentinel(apierrors.ErrDuplicate,
		catalogapp.ErrDuplicateKind,
		sellerapp.ErrDuplicateEmail,
		adminapp.ErrDuplicateEmail,
		customerapp.ErrDuplicateEmail,
	),
	apierrors.MapSentinel(apierrors.ErrInvalidPetType, catalogapp.ErrInvalidPetType),
	apierrors.MapSentinel(apierrors.ErrInvalidCategory, catalogapp.ErrInvalidCategory),
	apierrors.MapSentinel(apierrors.ErrValidation,
		catalogapp.ErrInvalidInput,
		sellerapp.ErrInvalidInput,
		adminapp.ErrInvalidInput,
		orderapp.ErrInvalidInput,
		customerapp.ErrInvalidInput,
		ratingapp.ErrInvalidInput,
	),
	apierrors.MapSentinel(apierrors.ErrUnauthorized,
		sellerapp.ErrInvalidCredentials,
		adminapp.ErrInvalidCredentials,
		customerapp.ErrInvalidCredentials,
	),
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError renders an application error.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// bindJSON decodes the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return false
	}
	return true
}

func messageResponse(message string) gin.H {
	return gin.H{"message": message}
}
