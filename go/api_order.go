package petifyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/petify-api/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/petify-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/petify-api/internal/domains/orders/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
	apierrors "github.com/Apurer/petify-api/internal/shared/errors"
)

// OrderAPI exposes customer orders.
type OrderAPI struct {
	service orderports.Service
}

func NewOrderAPI(service orderports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /api/orders
// Customers always order for themselves; staff may name a customer.
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload ordermapper.PlaceOrder
	if !bindJSON(c, &payload) {
		return
	}
	if principal, ok := auth.PrincipalFrom(c); ok && (!principal.IsStaff() || payload.CustomerID == "") {
		payload.CustomerID = principal.Subject
	}
	input := ordermapper.ToPlaceOrderInput(payload)
	input.IdempotencyKey = c.GetHeader("Idempotency-Key")
	saved, err := api.service.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromDomainOrder(saved))
}

// Get /api/orders?customer_id=
func (api *OrderAPI) ListOrders(c *gin.Context) {
	filter := orderports.Filter{CustomerID: trimmedQuery(c, "customer_id")}
	if principal, ok := auth.PrincipalFrom(c); ok && !principal.IsStaff() {
		filter.CustomerID = principal.Subject
	}
	list, err := api.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(list))
}

// Get /api/orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	found, ok := api.ownedOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(found))
}

// Patch /api/orders/:id/status
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload ordermapper.StatusUpdate
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := api.service.UpdateOrderStatus(c.Request.Context(), ordermapper.ToStatusInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(updated))
}

// Post /api/orders/:id/refund
func (api *OrderAPI) RequestRefund(c *gin.Context) {
	if _, ok := api.ownedOrder(c); !ok {
		return
	}
	updated, err := api.service.RequestRefund(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Refund requested", "order": ordermapper.FromDomainOrder(updated)})
}

// Delete /api/orders/:id
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	if err := api.service.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse("Order deleted"))
}

// ownedOrder loads the order and hides other customers' orders behind a 404.
func (api *OrderAPI) ownedOrder(c *gin.Context) (*orderdomain.Order, bool) {
	found, err := api.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if principal, ok := auth.PrincipalFrom(c); ok && !principal.IsStaff() && found.CustomerID != principal.Subject {
		respondProblem(c, apierrors.NewNotFoundProblem("order", c.Param("id")))
		return nil, false
	}
	return found, true
}
