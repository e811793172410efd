package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lbstore/storefront-backend/api/controllers"
	"github.com/lbstore/storefront-backend/api/middleware"
	"github.com/lbstore/storefront-backend/internal/auth"
	"github.com/lbstore/storefront-backend/internal/cart"
	"github.com/lbstore/storefront-backend/internal/checkout"
	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/products"
	"github.com/lbstore/storefront-backend/pkg/config"
	"github.com/lbstore/storefront-backend/pkg/db/models"
	"github.com/lbstore/storefront-backend/pkg/logger"
	"github.com/lbstore/storefront-backend/pkg/metrics"
)

type memorySessions struct {
	mu   sync.Mutex
	live map[string]bool
}

func (s *memorySessions) Register(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[id] = true
	return nil
}

func (s *memorySessions) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)
	return nil
}

func (s *memorySessions) HasSession(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[id], nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "lb-storefront", ExpirationMinutes: 30},
		Password: config.PasswordConfig{
			ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
		},
		Admin:      config.AdminConfig{RequireAuth: true},
		Storefront: config.StorefrontConfig{AppTitle: "LB Store", WhatsAppNumber: "65998182029"},
	}
}

type harness struct {
	handler  http.Handler
	conn     *gorm.DB
	sessions *memorySessions
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	logg := logger.Nop()

	dsn := fmt.Sprintf("file:routes_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	reg := prometheus.NewRegistry()
	m := metrics.NewStorefront(reg)

	productSvc, err := products.NewService(products.NewRepository(conn), logg, m)
	require.NoError(t, err)
	couponSvc, err := coupons.NewService(coupons.NewRepository(conn), logg, m)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.ServiceParams{
		Products:  productSvc,
		Coupons:   couponSvc,
		Persister: cart.NewMemoryPersister(),
		Logger:    logg,
		Metrics:   m,
	})
	require.NoError(t, err)
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Carts:         cartSvc,
		AppTitle:      cfg.Storefront.AppTitle,
		DefaultNumber: cfg.Storefront.WhatsAppNumber,
		Logger:        logg,
		Metrics:       m,
	})
	require.NoError(t, err)

	sessions := &memorySessions{live: map[string]bool{}}
	authSvc, err := auth.NewService(auth.ServiceParams{
		Admins:         auth.NewRepository(conn),
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	require.NoError(t, err)
	require.NoError(t, authSvc.EnsureAdmin(context.Background(), "admin@lbstore.com.br", "s3cret"))

	handler := NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		Readiness: map[string]controllers.Pinger{"db": stubPinger{}},
		Sessions:  sessions,
		Metrics:   m,
		Gatherer:  reg,
		Auth:      authSvc,
		Products:  productSvc,
		Coupons:   couponSvc,
		Cart:      cartSvc,
		Checkout:  checkoutSvc,
	})
	return &harness{handler: handler, conn: conn, sessions: sessions}
}

func (h *harness) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error.Code
}

func (h *harness) login(t *testing.T) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/admin/v1/auth/login", `{"email":"admin@lbstore.com.br","password":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sess struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, rec, &sess)
	require.NotEmpty(t, sess.AccessToken)
	return sess.AccessToken
}

func TestHealthRoutes(t *testing.T) {
	h := newHarness(t, testConfig())

	rec := h.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-LB-Env"))

	rec = h.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h := newHarness(t, testConfig())

	paths := []struct{ method, path, body string }{
		{http.MethodGet, "/api/admin/v1/products", ""},
		{http.MethodPost, "/api/admin/v1/products", `{"title":"x","sku":"x","price":1}`},
		{http.MethodDelete, "/api/admin/v1/products/1", ""},
		{http.MethodGet, "/api/admin/v1/coupons", ""},
		{http.MethodPost, "/api/admin/v1/coupons/1/toggle", ""},
		{http.MethodPost, "/api/admin/v1/auth/logout", ""},
	}
	for _, p := range paths {
		rec := h.do(t, p.method, p.path, p.body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestLoginWithBadPasswordIsUnauthorized(t *testing.T) {
	h := newHarness(t, testConfig())

	rec := h.do(t, http.MethodPost, "/api/admin/v1/auth/login", `{"email":"admin@lbstore.com.br","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))

	rec = h.do(t, http.MethodPost, "/api/admin/v1/auth/login", `{"email":"nobody@lbstore.com.br","password":"s3cret"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	h := newHarness(t, testConfig())
	token := h.login(t)
	bearer := map[string]string{"Authorization": "Bearer " + token}

	rec := h.do(t, http.MethodGet, "/api/admin/v1/products", "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/admin/v1/auth/logout", "", bearer)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/admin/v1/products", "", bearer)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminCatalogAndStorefrontFlow(t *testing.T) {
	h := newHarness(t, testConfig())
	bearer := map[string]string{"Authorization": "Bearer " + h.login(t)}

	rec := h.do(t, http.MethodPost, "/api/admin/v1/products",
		`{"title":"Vestido Floral","price_display":"159,90","size":"M","color":"Azul","img":"https://cdn/v.jpg","sku":"VST-01","stock":3}`, bearer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product products.Product
	decodeData(t, rec, &product)
	assert.EqualValues(t, 15990, product.Price)

	rec = h.do(t, http.MethodPost, "/api/admin/v1/coupons", `{"code":"DESCONTO10","kind":"percentage","value":1000,"active":1}`, bearer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var coupon coupons.Coupon
	decodeData(t, rec, &coupon)
	assert.True(t, coupon.Active)

	rec = h.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []products.Product
	decodeData(t, rec, &list)
	require.Len(t, list, 1)

	rec = h.do(t, http.MethodPost, "/api/v1/cart/items", fmt.Sprintf(`{"product_id":%d,"quantity":10}`, product.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sid := rec.Header().Get(middleware.CartSessionHeader)
	require.NotEmpty(t, sid)
	cartHeader := map[string]string{middleware.CartSessionHeader: sid}

	var view cart.View
	decodeData(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)

	rec = h.do(t, http.MethodPost, "/api/v1/cart/coupon", `{"code":"desconto10"}`, cartHeader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &view)
	assert.EqualValues(t, 47970, view.Quote.Subtotal)
	assert.EqualValues(t, 4797, view.Quote.Discount)
	assert.EqualValues(t, 43173, view.Quote.Total)

	rec = h.do(t, http.MethodPost, "/api/v1/cart/coupon", `{"code":"NOPE"}`, cartHeader)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/cart/checkout", "", cartHeader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var order checkout.Order
	decodeData(t, rec, &order)
	assert.True(t, strings.HasPrefix(order.Link, "https://wa.me/5565998182029?text="), order.Link)
	assert.Contains(t, order.Message, "Vestido Floral")

	rec = h.do(t, http.MethodPost, fmt.Sprintf("/api/admin/v1/coupons/%d/toggle", coupon.ID), "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &coupon)
	assert.False(t, coupon.Active)

	rec = h.do(t, http.MethodGet, "/api/v1/coupons", "", nil)
	var active []coupons.Coupon
	decodeData(t, rec, &active)
	assert.Empty(t, active)

	rec = h.do(t, http.MethodGet, "/api/v1/cart", "", cartHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	var dropped cart.View
	decodeData(t, rec, &dropped)
	assert.True(t, dropped.CouponDropped)
	assert.Nil(t, dropped.Coupon)
	assert.EqualValues(t, 0, dropped.Quote.Discount)
	assert.EqualValues(t, 47970, dropped.Quote.Total)
}

func TestUnknownFieldsAreRejected(t *testing.T) {
	h := newHarness(t, testConfig())

	rec := h.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"colour":"red"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestAdminRoutesOpenWhenAuthDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.RequireAuth = false
	h := newHarness(t, cfg)

	rec := h.do(t, http.MethodGet, "/api/admin/v1/coupons", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, testConfig())
	h.do(t, http.MethodGet, "/api/v1/products", "", nil)

	rec := h.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}
