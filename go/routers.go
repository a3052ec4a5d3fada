package petifyserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/petify-api/internal/platform/auth"
	"github.com/Apurer/petify-api/internal/platform/metrics"
	apierrors "github.com/Apurer/petify-api/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Access gates the route before HandlerFunc runs.
	Access Access
}

// Access describes who may call a route. The zero value is public.
type Access struct {
	Authenticated bool
	Roles         []string
	// SelfParam admits the principal whose subject equals this path parameter
	// in addition to Roles.
	SelfParam string
}

var staff = []string{auth.RoleAdmin, auth.RoleSuperAdmin}

func public() Access { return Access{} }

func roles(r ...string) Access { return Access{Authenticated: true, Roles: r} }

func selfOr(param string, r ...string) Access {
	return Access{Authenticated: true, SelfParam: param, Roles: r}
}

// RouterOptions carries the collaborators the router needs beyond the handlers.
type RouterOptions struct {
	// Issuer parses bearer tokens. Without it every protected route answers 401.
	Issuer *auth.Issuer
	// Metrics, when set, instruments requests and serves /metrics.
	Metrics *metrics.Metrics
	// ServiceName enables otelgin spans when non-empty.
	ServiceName string
	// CORSOrigins enables the CORS middleware when non-empty. A lone "*"
	// allows every origin without credentials.
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions, opts)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", opts.Metrics.Handler())
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := append(guards(route.Access, opts.Issuer), route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

func guards(access Access, issuer *auth.Issuer) []gin.HandlerFunc {
	if !access.Authenticated {
		return nil
	}
	if issuer == nil {
		return []gin.HandlerFunc{func(c *gin.Context) {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication is not configured"))
		}}
	}
	chain := []gin.HandlerFunc{auth.Authenticate(issuer)}
	switch {
	case access.SelfParam != "":
		chain = append(chain, auth.RequireSelfOrRole(access.SelfParam, access.Roles...))
	case len(access.Roles) > 0:
		chain = append(chain, auth.RequireRole(access.Roles...))
	}
	return chain
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the CategoryAPI part of the API
	CategoryAPI CategoryAPI
	// Routes for the ProductAPI part of the API
	ProductAPI ProductAPI
	// Routes for the SellerAPI part of the API
	SellerAPI SellerAPI
	// Routes for the AdminAPI part of the API
	AdminAPI AdminAPI
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the CustomerAPI part of the API
	CustomerAPI CustomerAPI
	// Routes for the RatingAPI part of the API
	RatingAPI RatingAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	categories := &handleFunctions.CategoryAPI
	products := &handleFunctions.ProductAPI
	sellers := &handleFunctions.SellerAPI
	admins := &handleFunctions.AdminAPI
	orders := &handleFunctions.OrderAPI
	customers := &handleFunctions.CustomerAPI
	ratings := &handleFunctions.RatingAPI
	shoppers := append([]string{auth.RoleCustomer}, staff...)

	return []Route{
		{"CreateCategory", http.MethodPost, "/api/categories", categories.CreateCategory, roles(staff...)},
		{"ListCategories", http.MethodGet, "/api/categories", categories.ListCategories, public()},
		{"ReconcileMoves", http.MethodPost, "/api/categories/moves/reconcile", categories.ReconcileMoves, roles(staff...)},
		{"GetCategory", http.MethodGet, "/api/categories/:id", categories.GetCategory, public()},
		{"UpdateCategory", http.MethodPut, "/api/categories/:id", categories.UpdateCategory, roles(staff...)},
		{"PatchCategory", http.MethodPatch, "/api/categories/:id", categories.UpdateCategory, roles(staff...)},
		{"DeleteCategory", http.MethodDelete, "/api/categories/:id", categories.DeleteCategory, roles(staff...)},
		{"RemoveSubcategory", http.MethodDelete, "/api/categories/:id/subcategories/:name", categories.RemoveSubcategory, roles(staff...)},

		{"CreateProduct", http.MethodPost, "/api/products", products.CreateProduct, roles(staff...)},
		{"ListProducts", http.MethodGet, "/api/products", products.ListProducts, public()},
		{"SearchProducts", http.MethodGet, "/api/products/search", products.SearchProducts, public()},
		{"ListProductsByCategory", http.MethodGet, "/api/products/category/:categoryId", products.ListProductsByCategory, public()},
		{"GetProduct", http.MethodGet, "/api/products/:id", products.GetProduct, public()},
		{"UpdateProduct", http.MethodPut, "/api/products/:id", products.UpdateProduct, roles(staff...)},
		{"DeleteProduct", http.MethodDelete, "/api/products/:id", products.DeleteProduct, roles(staff...)},

		{"RegisterSeller", http.MethodPost, "/api/sellers/register", sellers.RegisterSeller, public()},
		{"LoginSeller", http.MethodPost, "/api/sellers/login", sellers.LoginSeller, public()},
		{"ListSellers", http.MethodGet, "/api/sellers", sellers.ListSellers, roles(staff...)},
		{"GetSeller", http.MethodGet, "/api/sellers/:id", sellers.GetSeller, selfOr("id", staff...)},
		{"UpdateSeller", http.MethodPut, "/api/sellers/:id", sellers.UpdateSeller, selfOr("id", staff...)},
		{"DeleteSeller", http.MethodDelete, "/api/sellers/:id", sellers.DeleteSeller, selfOr("id", staff...)},
		{"VerifySeller", http.MethodPatch, "/api/sellers/:id/verify", sellers.VerifySeller, roles(staff...)},
		{"RegisterPet", http.MethodPost, "/api/sellers/:id/pets", sellers.RegisterPet, selfOr("id", staff...)},
		{"VerifyPet", http.MethodPatch, "/api/sellers/:id/pets/:petIndex", sellers.VerifyPet, roles(staff...)},
		{"UpdatePet", http.MethodPut, "/api/sellers/:id/pets/:petIndex", sellers.UpdatePet, selfOr("id", staff...)},
		{"DeletePet", http.MethodDelete, "/api/sellers/:id/pets/:petIndex", sellers.DeletePet, selfOr("id", staff...)},
		{"VerifyPetByID", http.MethodPatch, "/api/sellers/:id/registrations/:petId", sellers.VerifyPetByID, roles(staff...)},
		{"UpdatePetByID", http.MethodPut, "/api/sellers/:id/registrations/:petId", sellers.UpdatePetByID, selfOr("id", staff...)},
		{"DeletePetByID", http.MethodDelete, "/api/sellers/:id/registrations/:petId", sellers.DeletePetByID, selfOr("id", staff...)},
		{"ListBreederPets", http.MethodGet, "/api/breeders/pets", sellers.ListBreederPets, public()},

		{"LoginAdmin", http.MethodPost, "/api/admins/login", admins.LoginAdmin, public()},
		{"LogoutAdmin", http.MethodPost, "/api/admins/logout", admins.LogoutAdmin, roles(staff...)},
		{"RegisterAdmin", http.MethodPost, "/api/admins/register", admins.RegisterAdmin, roles(auth.RoleSuperAdmin)},
		{"ListAdmins", http.MethodGet, "/api/admins", admins.ListAdmins, roles(staff...)},
		{"GetAdmin", http.MethodGet, "/api/admins/:id", admins.GetAdmin, selfOr("id", auth.RoleSuperAdmin)},
		{"ChangeAdminPassword", http.MethodPatch, "/api/admins/:id/password", admins.ChangePassword, selfOr("id", auth.RoleSuperAdmin)},
		{"DeleteAdmin", http.MethodDelete, "/api/admins/:id", admins.DeleteAdmin, roles(auth.RoleSuperAdmin)},

		{"PlaceOrder", http.MethodPost, "/api/orders", orders.PlaceOrder, roles(shoppers...)},
		{"ListOrders", http.MethodGet, "/api/orders", orders.ListOrders, roles(shoppers...)},
		{"GetOrder", http.MethodGet, "/api/orders/:id", orders.GetOrder, roles(shoppers...)},
		{"UpdateOrderStatus", http.MethodPatch, "/api/orders/:id/status", orders.UpdateOrderStatus, roles(staff...)},
		{"RequestRefund", http.MethodPost, "/api/orders/:id/refund", orders.RequestRefund, roles(shoppers...)},
		{"DeleteOrder", http.MethodDelete, "/api/orders/:id", orders.DeleteOrder, roles(staff...)},

		{"SignupCustomer", http.MethodPost, "/api/customers/signup", customers.SignupCustomer, public()},
		{"LoginCustomer", http.MethodPost, "/api/customers/login", customers.LoginCustomer, public()},
		{"ListCustomers", http.MethodGet, "/api/customers", customers.ListCustomers, roles(staff...)},
		{"GetCustomer", http.MethodGet, "/api/customers/:id", customers.GetCustomer, selfOr("id", staff...)},
		{"UpdateCustomer", http.MethodPut, "/api/customers/:id", customers.UpdateCustomer, selfOr("id", staff...)},
		{"DeleteCustomer", http.MethodDelete, "/api/customers/:id", customers.DeleteCustomer, selfOr("id", staff...)},
		{"AddToCart", http.MethodPost, "/api/customers/:id/cart", customers.AddToCart, selfOr("id", staff...)},
		{"RemoveFromCart", http.MethodDelete, "/api/customers/:id/cart/:productId", customers.RemoveFromCart, selfOr("id", staff...)},
		{"ListCustomerOrders", http.MethodGet, "/api/customers/:id/orders", customers.ListCustomerOrders, selfOr("id", staff...)},

		{"CreateRating", http.MethodPost, "/api/ratings", ratings.CreateRating, roles(shoppers...)},
		{"ListRatings", http.MethodGet, "/api/ratings", ratings.ListRatings, public()},
		{"GetRatingSummary", http.MethodGet, "/api/ratings/summary", ratings.GetRatingSummary, public()},
		{"RefreshRatingSummary", http.MethodPost, "/api/ratings/summary/refresh", ratings.RefreshRatingSummary, roles(staff...)},
		{"GetRating", http.MethodGet, "/api/ratings/:id", ratings.GetRating, public()},
		{"UpdateRating", http.MethodPut, "/api/ratings/:id", ratings.UpdateRating, roles(shoppers...)},
		{"DeleteRating", http.MethodDelete, "/api/ratings/:id", ratings.DeleteRating, roles(shoppers...)},
	}
}
