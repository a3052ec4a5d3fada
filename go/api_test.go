package petifyserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminmemory "github.com/Apurer/petify-api/internal/domains/admins/adapters/memory"
	adminapp "github.com/Apurer/petify-api/internal/domains/admins/application"
	catalogmemory "github.com/Apurer/petify-api/internal/domains/catalog/adapters/memory"
	catalogworkflows "github.com/Apurer/petify-api/internal/domains/catalog/adapters/workflows"
	catalogapp "github.com/Apurer/petify-api/internal/domains/catalog/application"
	customermemory "github.com/Apurer/petify-api/internal/domains/customers/adapters/memory"
	customerapp "github.com/Apurer/petify-api/internal/domains/customers/application"
	ordermemory "github.com/Apurer/petify-api/internal/domains/orders/adapters/memory"
	orderpricing "github.com/Apurer/petify-api/internal/domains/orders/adapters/pricing"
	orderapp "github.com/Apurer/petify-api/internal/domains/orders/application"
	ratingmemory "github.com/Apurer/petify-api/internal/domains/ratings/adapters/memory"
	ratingtargets "github.com/Apurer/petify-api/internal/domains/ratings/adapters/targets"
	ratingapp "github.com/Apurer/petify-api/internal/domains/ratings/application"
	ratingdomain "github.com/Apurer/petify-api/internal/domains/ratings/domain"
	sellermemory "github.com/Apurer/petify-api/internal/domains/sellers/adapters/memory"
	sellerapp "github.com/Apurer/petify-api/internal/domains/sellers/application"
	"github.com/Apurer/petify-api/internal/platform/auth"
	"github.com/Apurer/petify-api/internal/platform/metrics"
)

type testServer struct {
	router *gin.Engine
	issuer *auth.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := auth.NewIssuer(auth.Config{Secret: "test-secret"})
	require.NoError(t, err)

	categoryRepo := catalogmemory.NewCategoryRepository()
	categories := catalogapp.NewCategoryService(categoryRepo, catalogapp.WithMoveJournal(catalogmemory.NewMoveJournal()))
	products := catalogapp.NewProductService(
		catalogmemory.NewProductRepository(),
		catalogapp.NewValidator(categoryRepo, catalogapp.MatchExact),
	)
	sellers := sellerapp.NewService(sellermemory.NewRepository(), issuer)
	admins := adminapp.NewService(adminmemory.NewRepository(), adminmemory.NewSessionStore(), issuer)
	orders := orderapp.NewService(ordermemory.NewRepository(),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
		orderapp.WithCatalog(orderpricing.NewCatalog(products)),
	)
	customers := customerapp.NewService(customermemory.NewRepository(), issuer)
	productTargets := ratingtargets.NewProducts(products)
	ratings := ratingapp.NewService(ratingmemory.NewRepository(),
		ratingapp.WithTargetChecker(ratingdomain.TargetProduct, productTargets),
		ratingapp.WithSummaryPublisher(ratingdomain.TargetProduct, productTargets),
		ratingapp.WithTargetChecker(ratingdomain.TargetSeller, ratingtargets.NewSellers(sellers)),
	)

	handlers := ApiHandleFunctions{
		CategoryAPI: NewCategoryAPI(categories, catalogworkflows.NewInlineMoveWorkflows(categories)),
		ProductAPI:  NewProductAPI(products),
		SellerAPI:   NewSellerAPI(sellers),
		AdminAPI:    NewAdminAPI(admins),
		OrderAPI:    NewOrderAPI(orders),
		CustomerAPI: NewCustomerAPI(customers, orders),
		RatingAPI:   NewRatingAPI(ratings),
	}
	router := NewRouter(handlers, RouterOptions{Issuer: issuer, Metrics: metrics.New("petify_test")})
	return &testServer{router: router, issuer: issuer}
}

func (s *testServer) token(t *testing.T, subject, role string) string {
	t.Helper()
	pair, err := s.issuer.IssuePair(subject, role)
	require.NoError(t, err)
	return pair.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// seedProducts creates a dog Food product per price and returns their IDs.
func (s *testServer) seedProducts(t *testing.T, prices ...string) []string {
	t.Helper()
	admin := s.token(t, "admin-seed", auth.RoleAdmin)
	rec := s.do(t, http.MethodPost, "/api/categories", admin, map[string]any{
		"pet_type":           "dog",
		"product_categories": []string{"Food"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dogID := decode[map[string]any](t, rec)["_id"].(string)

	ids := make([]string, 0, len(prices))
	for i, price := range prices {
		rec = s.do(t, http.MethodPost, "/api/products", admin, map[string]any{
			"name":             fmt.Sprintf("Product %d", i+1),
			"pet_type_id":      dogID,
			"product_category": "Food",
			"price":            price,
			"stock":            10,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode[map[string]any](t, rec)["_id"].(string))
	}
	return ids
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "petify_test_http_requests_total")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/categories", "", map[string]any{"pet_type": "dog"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/categories", "garbage", map[string]any{"pet_type": "dog"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/categories", srv.token(t, "seller-1", auth.RoleSeller), map[string]any{"pet_type": "dog"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCatalogScenario(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, "admin-1", auth.RoleAdmin)

	rec := srv.do(t, http.MethodPost, "/api/categories", admin, map[string]any{
		"pet_type":           "Dog",
		"product_categories": []string{"Food", "Toys"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dog := decode[map[string]any](t, rec)
	dogID := dog["_id"].(string)
	assert.Equal(t, "dog", dog["pet_type"])

	rec = srv.do(t, http.MethodPost, "/api/categories", admin, map[string]any{"pet_type": "dog"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicate pet type")

	rec = srv.do(t, http.MethodPost, "/api/categories", admin, map[string]any{"pet_type": "cat"})
	require.Equal(t, http.StatusCreated, rec.Code)
	catID := decode[map[string]any](t, rec)["_id"].(string)

	rec = srv.do(t, http.MethodPost, "/api/products", admin, map[string]any{
		"name":             "Kibble",
		"pet_type_id":      dogID,
		"product_category": "Food",
		"price":            "12.50",
		"stock":            10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[map[string]any](t, rec)
	productID := product["_id"].(string)
	assert.Equal(t, "admin-1", product["added_by_admin_id"])

	rec = srv.do(t, http.MethodPost, "/api/products", admin, map[string]any{
		"name":             "Litter",
		"pet_type_id":      dogID,
		"product_category": "Litter",
		"price":            "5",
		"stock":            1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "category not offered for dog")

	rec = srv.do(t, http.MethodPut, "/api/categories/"+dogID, admin, map[string]any{
		"oldSubcategory":   "Toys",
		"newSubcategory":   "Chew Toys",
		"targetCategoryId": catID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	move := decode[struct {
		Message        string         `json:"message"`
		SourceCategory map[string]any `json:"sourceCategory"`
		TargetCategory map[string]any `json:"targetCategory"`
	}](t, rec)
	assert.Equal(t, "Subcategory moved", move.Message)
	assert.Equal(t, []any{"Food"}, move.SourceCategory["product_categories"])
	assert.Equal(t, []any{"Chew Toys"}, move.TargetCategory["product_categories"])

	rec = srv.do(t, http.MethodGet, "/api/products/search?q=kib", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = srv.do(t, http.MethodGet, "/api/products/category/"+dogID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = srv.do(t, http.MethodDelete, "/api/products/"+productID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Product deleted"}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["is_deleted"])

	rec = srv.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = srv.do(t, http.MethodGet, "/api/categories/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateCategoryRejectsEmptyBody(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, "admin-1", auth.RoleAdmin)

	rec := srv.do(t, http.MethodPost, "/api/categories", admin, map[string]any{"pet_type": "bird"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["_id"].(string)

	rec = srv.do(t, http.MethodPatch, "/api/categories/"+id, admin, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSellerVerificationFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, "admin-1", auth.RoleAdmin)

	rec := srv.do(t, http.MethodPost, "/api/sellers/register", "", map[string]any{
		"name":     "Ayesha",
		"email":    "ayesha@example.com",
		"password": "secret",
		"phone":    "0300",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/sellers/login", "", map[string]any{"email": "ayesha@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/sellers/login", "", map[string]any{"email": "ayesha@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[struct {
		Token  string         `json:"token"`
		Seller map[string]any `json:"seller"`
	}](t, rec)
	sellerID := login.Seller["_id"].(string)
	assert.Equal(t, "pending", login.Seller["isVerified"])

	rec = srv.do(t, http.MethodPost, "/api/sellers/"+sellerID+"/pets", srv.token(t, "someone-else", auth.RoleSeller), map[string]any{
		"pet_type": "dog", "breed": "Labrador", "gender": "male",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, breed := range []string{"Labrador", "Beagle"} {
		rec = srv.do(t, http.MethodPost, "/api/sellers/"+sellerID+"/pets", login.Token, map[string]any{
			"pet_type": "dog", "breed": breed, "gender": "female",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	registered := decode[struct {
		Message string           `json:"message"`
		Pets    []map[string]any `json:"pets"`
	}](t, rec)
	assert.Equal(t, "Pet registered", registered.Message)
	require.Len(t, registered.Pets, 2)
	beagleID := registered.Pets[1]["id"].(string)

	rec = srv.do(t, http.MethodPatch, "/api/sellers/"+sellerID+"/pets/1", login.Token, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "sellers cannot moderate their own pets")

	rec = srv.do(t, http.MethodPatch, "/api/sellers/"+sellerID+"/pets/abc", admin, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/sellers/"+sellerID+"/pets/9", admin, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/sellers/"+sellerID+"/registrations/"+beagleID, admin, map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/breeders/pets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec), "seller not approved yet")

	rec = srv.do(t, http.MethodPatch, "/api/sellers/"+sellerID+"/verify", admin, map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Seller approved", decode[map[string]any](t, rec)["message"])

	rec = srv.do(t, http.MethodGet, "/api/breeders/pets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode[[]struct {
		SellerName string         `json:"seller_name"`
		Pet        map[string]any `json:"pet"`
	}](t, rec)
	require.Len(t, listing, 1)
	assert.Equal(t, "Ayesha", listing[0].SellerName)
	assert.Equal(t, "Beagle", listing[0].Pet["breed"])

	rec = srv.do(t, http.MethodDelete, "/api/sellers/"+sellerID+"/pets/0", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pets := decode[struct {
		Pets []map[string]any `json:"pets"`
	}](t, rec).Pets
	require.Len(t, pets, 1)
	assert.Equal(t, beagleID, pets[0]["id"])

	rec = srv.do(t, http.MethodGet, "/api/sellers?status=approved", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestAdminAccounts(t *testing.T) {
	srv := newTestServer(t)
	root := srv.token(t, "root", auth.RoleSuperAdmin)

	rec := srv.do(t, http.MethodPost, "/api/admins/register", srv.token(t, "a", auth.RoleAdmin), map[string]any{
		"admin_name": "Bilal", "admin_email": "bilal@example.com", "admin_pass": "pass1234",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/admins/register", root, map[string]any{
		"admin_name": "Bilal", "admin_email": "bilal@example.com", "admin_pass": "pass1234", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/admins/login", "", map[string]any{"admin_email": "bilal@example.com", "admin_pass": "pass1234"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[struct {
		Token string         `json:"token"`
		Admin map[string]any `json:"admin"`
	}](t, rec)
	id := login.Admin["_id"].(string)

	rec = srv.do(t, http.MethodPatch, "/api/admins/"+id+"/password", login.Token, map[string]any{
		"oldPassword": "pass1234", "newPassword": "newpass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/admins/login", "", map[string]any{"admin_email": "bilal@example.com", "admin_pass": "pass1234"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/admins/"+id, root, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/admins/"+id, root, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderLifecycle(t *testing.T) {
	srv := newTestServer(t)
	customer := srv.token(t, "cust-1", auth.RoleCustomer)
	admin := srv.token(t, "admin-1", auth.RoleAdmin)

	rec := srv.do(t, http.MethodPost, "/api/orders", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ids := srv.seedProducts(t, "10.25", "4.50")
	rec = srv.do(t, http.MethodPost, "/api/orders", customer, map[string]any{
		"customer_id": "someone-else",
		"products": []map[string]any{
			{"product_id": ids[0], "quantity": 2, "price": "0.01"},
			{"product_id": ids[1], "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	orderID := order["_id"].(string)
	assert.Equal(t, "cust-1", order["customer_id"])
	assert.Equal(t, "25", order["total_amount"], "lines are priced from the catalog")
	assert.Equal(t, "cod", order["payment_method"])
	line := order["products"].([]any)[0].(map[string]any)
	assert.Equal(t, "10.25", line["price"])
	assert.Equal(t, "Product 1", line["product_snapshot"].(map[string]any)["name"])

	rec = srv.do(t, http.MethodPost, "/api/orders", customer, map[string]any{
		"products": []map[string]any{{"product_id": "missing", "quantity": 1, "price": "1"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown products cannot be ordered")

	seller := srv.token(t, "seller-1", auth.RoleSeller)
	rec = srv.do(t, http.MethodPost, "/api/orders", seller, map[string]any{
		"customer_id": "cust-1",
		"products":    []map[string]any{{"product_id": ids[0], "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/orders", seller, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/orders/"+orderID, seller, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/orders/"+orderID+"/refund", seller, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/orders/"+orderID, srv.token(t, "cust-2", auth.RoleCustomer), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/orders/"+orderID+"/refund", customer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unpaid orders cannot be refunded")

	rec = srv.do(t, http.MethodPatch, "/api/orders/"+orderID+"/status", customer, map[string]any{"order_status": "shipped"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/orders/"+orderID+"/status", admin, map[string]any{"payment_status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "paid", decode[map[string]any](t, rec)["payment_status"])

	rec = srv.do(t, http.MethodPost, "/api/orders/"+orderID+"/refund", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/orders", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, true, list[0]["refund_requested"])

	rec = srv.do(t, http.MethodDelete, "/api/orders/"+orderID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPlaceOrderIdempotencyKey(t *testing.T) {
	srv := newTestServer(t)
	customer := srv.token(t, "cust-1", auth.RoleCustomer)
	productID := srv.seedProducts(t, "5")[0]
	place := func(key string, qty int) *httptest.ResponseRecorder {
		raw, err := json.Marshal(map[string]any{
			"products": []map[string]any{{"product_id": productID, "quantity": qty, "price": "5"}},
		})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+customer)
		req.Header.Set("Idempotency-Key", key)
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		return rec
	}

	first := place("checkout-1", 2)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	retry := place("checkout-1", 2)
	require.Equal(t, http.StatusCreated, retry.Code)
	assert.Equal(t, decode[map[string]any](t, first)["_id"], decode[map[string]any](t, retry)["_id"])

	conflict := place("checkout-1", 3)
	assert.Equal(t, http.StatusConflict, conflict.Code)

	rec := srv.do(t, http.MethodGet, "/api/orders", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestCustomerAccountAndCart(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/customers/signup", "", map[string]any{
		"name": "Hira", "email": "hira@example.com", "password": "secret", "account_type": "seller",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "only customer accounts sign up here")

	rec = srv.do(t, http.MethodPost, "/api/customers/signup", "", map[string]any{
		"name": "Hira", "email": "Hira@Example.com", "password": "secret", "account_type": "customer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)["customer"].(map[string]any)
	customerID := created["_id"].(string)
	assert.Equal(t, "hira@example.com", created["email"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = srv.do(t, http.MethodPost, "/api/customers/signup", "", map[string]any{
		"name": "Again", "email": "hira@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicate email")

	rec = srv.do(t, http.MethodPost, "/api/customers/login", "", map[string]any{"email": "nobody@example.com", "password": "secret"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/customers/login", "", map[string]any{"email": "hira@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/customers/login", "", map[string]any{"email": "hira@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode[map[string]any](t, rec)["token"].(string)

	rec = srv.do(t, http.MethodGet, "/api/customers/"+customerID, srv.token(t, "someone-else", auth.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/customers", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/customers/"+customerID+"/cart", token, map[string]any{"product_id": "p1", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = srv.do(t, http.MethodPost, "/api/customers/"+customerID+"/cart", token, map[string]any{"product_id": "p1", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[map[string]any](t, rec)["cart"].([]any)
	require.Len(t, cart, 1)
	assert.Equal(t, float64(3), cart[0].(map[string]any)["quantity"])

	rec = srv.do(t, http.MethodDelete, "/api/customers/"+customerID+"/cart/p1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, rec)["cart"])

	rec = srv.do(t, http.MethodPut, "/api/customers/"+customerID, token, map[string]any{"address": "Islamabad"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Islamabad", decode[map[string]any](t, rec)["address"])

	productID := srv.seedProducts(t, "3")[0]
	rec = srv.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"products": []map[string]any{{"product_id": productID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = srv.do(t, http.MethodGet, "/api/customers/"+customerID+"/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	admin := srv.token(t, "admin-1", auth.RoleAdmin)
	rec = srv.do(t, http.MethodGet, "/api/customers", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = srv.do(t, http.MethodDelete, "/api/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/customers/"+customerID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductRatings(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, "admin-1", auth.RoleAdmin)

	rec := srv.do(t, http.MethodPost, "/api/categories", admin, map[string]any{"pet_type": "dog", "product_categories": []string{"Food"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dogID := decode[map[string]any](t, rec)["_id"].(string)
	rec = srv.do(t, http.MethodPost, "/api/products", admin, map[string]any{
		"name": "Kibble", "pet_type_id": dogID, "product_category": "Food", "price": "10", "stock": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := decode[map[string]any](t, rec)["_id"].(string)

	alice := srv.token(t, "cust-a", auth.RoleCustomer)
	bob := srv.token(t, "cust-b", auth.RoleCustomer)

	rec = srv.do(t, http.MethodPost, "/api/ratings", "", map[string]any{"target_id": productID, "target_type": "product", "rating": 5})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/ratings", srv.token(t, "seller-1", auth.RoleSeller), map[string]any{"target_id": productID, "target_type": "product", "rating": 5})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/ratings", alice, map[string]any{"target_id": "missing", "target_type": "product", "rating": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/ratings", alice, map[string]any{"target_id": productID, "target_type": "product", "rating": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/ratings", alice, map[string]any{
		"target_id": productID, "target_type": "product", "rating": 5, "review": "loved it", "customer_id": "cust-b",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	aliceRating := decode[map[string]any](t, rec)
	assert.Equal(t, "cust-a", aliceRating["customer_id"], "customers always rate as themselves")
	rec = srv.do(t, http.MethodPost, "/api/ratings", bob, map[string]any{"target_id": productID, "target_type": "product", "rating": 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	product := decode[map[string]any](t, rec)
	assert.Equal(t, 3.5, product["avg_rating"])
	assert.Equal(t, float64(2), product["total_reviews"])

	ratingID := aliceRating["_id"].(string)
	rec = srv.do(t, http.MethodPut, "/api/ratings/"+ratingID, bob, map[string]any{"rating": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = srv.do(t, http.MethodPut, "/api/ratings/"+ratingID, alice, map[string]any{"rating": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/ratings/summary?target_type=product&target_id="+productID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, decode[map[string]any](t, rec)["avg_rating"])

	rec = srv.do(t, http.MethodGet, "/api/ratings?target_type=product&target_id="+productID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = srv.do(t, http.MethodDelete, "/api/ratings/"+ratingID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/ratings/"+ratingID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/ratings/summary/refresh", admin, map[string]any{"target_type": "product", "target_id": productID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode[map[string]any](t, rec)
	assert.Equal(t, 2.0, summary["avg_rating"])
	assert.Equal(t, float64(1), summary["total_reviews"])
}

func TestCORSConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	preflight := func(router *gin.Engine, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	newRouter := func(origins ...string) *gin.Engine {
		router := gin.New()
		router.Use(cors.New(corsConfig(origins)))
		router.POST("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return router
	}

	rec := preflight(newRouter("*"), "https://anywhere.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	restricted := newRouter("https://shop.example")
	rec = preflight(restricted, "https://shop.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = preflight(restricted, "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
