package petifyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customermapper "github.com/Apurer/petify-api/internal/domains/customers/adapters/http/mapper"
	customerports "github.com/Apurer/petify-api/internal/domains/customers/ports"
	ordermapper "github.com/Apurer/petify-api/internal/domains/orders/adapters/http/mapper"
	orderports "github.com/Apurer/petify-api/internal/domains/orders/ports"
)

// CustomerAPI exposes shopper accounts, carts, and order history.
type CustomerAPI struct {
	service customerports.Service
	orders  orderports.Service
}

func NewCustomerAPI(service customerports.Service, orders orderports.Service) CustomerAPI {
	return CustomerAPI{service: service, orders: orders}
}

// Post /api/customers/signup
func (api *CustomerAPI) SignupCustomer(c *gin.Context) {
	var payload customermapper.Signup
	if !bindJSON(c, &payload) {
		return
	}
	saved, err := api.service.Register(c.Request.Context(), customermapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Customer registered successfully", "customer": customermapper.FromCustomer(saved)})
}

// Post /api/customers/login
func (api *CustomerAPI) LoginCustomer(c *gin.Context) {
	var payload customermapper.Credentials
	if !bindJSON(c, &payload) {
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Logged in successfully",
		"token":        result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
		"expiresAt":    result.Tokens.ExpiresAt,
		"customer":     customermapper.FromCustomer(result.Customer),
	})
}

// Get /api/customers
func (api *CustomerAPI) ListCustomers(c *gin.Context) {
	list, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromCustomerList(list))
}

// Get /api/customers/:id
func (api *CustomerAPI) GetCustomer(c *gin.Context) {
	found, err := api.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromCustomer(found))
}

// Put /api/customers/:id
func (api *CustomerAPI) UpdateCustomer(c *gin.Context) {
	var payload customermapper.ProfileUpdate
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := api.service.Update(c.Request.Context(), customermapper.ToUpdateInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromCustomer(updated))
}

// Delete /api/customers/:id
func (api *CustomerAPI) DeleteCustomer(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse("Customer deleted"))
}

// Post /api/customers/:id/cart
func (api *CustomerAPI) AddToCart(c *gin.Context) {
	var payload customermapper.AddCartItem
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := api.service.AddToCart(c.Request.Context(), customermapper.ToCartInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": customermapper.FromCart(updated.Cart)})
}

// Delete /api/customers/:id/cart/:productId
func (api *CustomerAPI) RemoveFromCart(c *gin.Context) {
	updated, err := api.service.RemoveFromCart(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed", "cart": customermapper.FromCart(updated.Cart)})
}

// Get /api/customers/:id/orders
func (api *CustomerAPI) ListCustomerOrders(c *gin.Context) {
	found, err := api.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	list, err := api.orders.ListOrders(c.Request.Context(), orderports.Filter{CustomerID: found.ID})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(list))
}
