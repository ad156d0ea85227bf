package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/luxemart/storefront/api/middleware"
	"github.com/luxemart/storefront/internal/repo"
	"github.com/luxemart/storefront/pkg/config"
	"github.com/luxemart/storefront/pkg/db/models"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type testEnv struct {
	server *httptest.Server
	store  repo.Repository
	cfg    *config.Config
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "luxemart-stub",
		ExpirationMinutes: 60,
	}
	cfg.Password = config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	cfg.Server = config.ServerConfig{
		AdminEmail: "admin@luxemart.test",
		AdminName:  "Admin",
		AdminPass:  "admin123",
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	store := repo.New(db)
	require.NoError(t, repo.SeedAdmin(context.Background(), store, cfg.Server, cfg.Password, nil))

	handler := NewRouter(cfg, logg, stubPinger{}, store, middleware.NewMemoryStore(), prometheus.NewRegistry())
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: store, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func (e *testEnv) login(t *testing.T, path, email, password string) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, path, "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login failed: %s", body)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (e *testEnv) registerShopper(t *testing.T, email string) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Shopper",
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %s", body)
	return e.login(t, "/api/auth/login", email, "hunter22")
}

func TestRegisterAndLoginFlow(t *testing.T) {
	env := setupEnv(t)

	token := env.registerShopper(t, "shopper@example.com")
	assert.NotEmpty(t, token)

	// Duplicate registration is rejected with a verbatim error body.
	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Shopper",
		"email":    "shopper@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &errBody))
	assert.Equal(t, "user already exists", errBody.Error)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "shopper@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminLoginRejectsShoppers(t *testing.T) {
	env := setupEnv(t)
	env.registerShopper(t, "shopper@example.com")

	resp, _ := env.do(t, http.MethodPost, "/api/auth/admin-login", "", map[string]string{
		"email":    "shopper@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	token := env.login(t, "/api/auth/admin-login", "admin@luxemart.test", "admin123")
	assert.NotEmpty(t, token)
}

func TestProductCRUDAndPublicListing(t *testing.T) {
	env := setupEnv(t)
	adminToken := env.login(t, "/api/auth/admin-login", "admin@luxemart.test", "admin123")

	resp, body := env.do(t, http.MethodPost, "/api/products", adminToken, map[string]any{
		"name":     "Leather Tote",
		"price":    249.5,
		"category": "bags",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create failed: %s", body)

	var created struct {
		ID    string          `json:"id"`
		Price json.RawMessage `json:"price"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)
	// Price goes over the wire as a bare number, not a quoted string.
	assert.Equal(t, "249.5", string(created.Price))

	// Listing is public.
	resp, body = env.do(t, http.MethodGet, "/api/products?category=bags", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Products []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"products"`
		Total int `json:"total"`
		Page  int `json:"page"`
		Pages int `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Products, 1)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Pages)

	// Mutations demand an admin token.
	resp, _ = env.do(t, http.MethodPost, "/api/products", "", map[string]any{
		"name": "x", "category": "y",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	shopperToken := env.registerShopper(t, "shopper@example.com")
	resp, _ = env.do(t, http.MethodPost, "/api/products", shopperToken, map[string]any{
		"name": "x", "category": "y",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/products/"+created.ID, adminToken, map[string]any{
		"name":     "Leather Tote v2",
		"price":    199,
		"category": "bags",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/products/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/products/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderPlacementComputesTotalServerSide(t *testing.T) {
	env := setupEnv(t)
	adminToken := env.login(t, "/api/auth/admin-login", "admin@luxemart.test", "admin123")

	resp, body := env.do(t, http.MethodPost, "/api/products", adminToken, map[string]any{
		"name":     "Scarf",
		"price":    80,
		"category": "accessories",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &product))

	shopperToken := env.registerShopper(t, "buyer@example.com")

	// The client's snapshot price is stale; the server re-reads the catalog.
	resp, body = env.do(t, http.MethodPost, "/api/orders", shopperToken, map[string]any{
		"items": []map[string]any{
			{"productId": product.ID, "name": "Scarf", "price": 1, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "order failed: %s", body)
	var placed struct {
		ID     string      `json:"id"`
		Total  types.Money `json:"total"`
		Status string      `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &placed))
	assert.Equal(t, "pending", placed.Status)
	assert.True(t, placed.Total.Equal(types.MoneyFromInt(160)), "got total %s", placed.Total.Display())

	// History shows the order; another account sees none.
	resp, body = env.do(t, http.MethodGet, "/api/orders", shopperToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []struct {
		ID    string `json:"id"`
		Items []struct {
			PriceAtPurchase types.Money `json:"priceAtPurchase"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 1)
	require.Len(t, history[0].Items, 1)
	assert.True(t, history[0].Items[0].PriceAtPurchase.Equal(types.MoneyFromInt(80)))

	otherToken := env.registerShopper(t, "other@example.com")
	resp, body = env.do(t, http.MethodGet, "/api/orders", otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var otherHistory []any
	require.NoError(t, json.Unmarshal(body, &otherHistory))
	assert.Empty(t, otherHistory)

	// Unauthenticated submissions never reach the order table.
	resp, _ = env.do(t, http.MethodPost, "/api/orders", "", map[string]any{
		"items": []map[string]any{{"productId": "x", "name": "y", "price": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Empty submissions are invalid.
	resp, _ = env.do(t, http.MethodPost, "/api/orders", shopperToken, map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Admin updates fulfilment status.
	resp, _ = env.do(t, http.MethodPut, "/api/orders/"+placed.ID+"/status", adminToken, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/orders/"+placed.ID+"/status", adminToken, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportsEndpoint(t *testing.T) {
	env := setupEnv(t)
	adminToken := env.login(t, "/api/auth/admin-login", "admin@luxemart.test", "admin123")
	shopperToken := env.registerShopper(t, "buyer@example.com")

	resp, body := env.do(t, http.MethodPost, "/api/orders", shopperToken, map[string]any{
		"items": []map[string]any{
			{"productId": "legacy-1", "name": "Hat", "price": 25, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "order failed: %s", body)

	resp, body = env.do(t, http.MethodGet, "/api/reports/all", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		DailyRevenue []struct {
			Date    string      `json:"date"`
			Revenue types.Money `json:"revenue"`
			Orders  int         `json:"orders"`
		} `json:"dailyRevenue"`
		TopCustomers []struct {
			Email string      `json:"email"`
			Total types.Money `json:"total"`
		} `json:"topCustomers"`
		CategorySales []any `json:"categorySales"`
	}
	require.NoError(t, json.Unmarshal(body, &report))
	require.Len(t, report.DailyRevenue, 1)
	assert.Equal(t, 1, report.DailyRevenue[0].Orders)
	assert.True(t, report.DailyRevenue[0].Revenue.Equal(types.MoneyFromInt(50)))
	require.Len(t, report.TopCustomers, 1)
	assert.Equal(t, "buyer@example.com", report.TopCustomers[0].Email)

	resp, _ = env.do(t, http.MethodGet, "/api/reports/all", shopperToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUserAdministration(t *testing.T) {
	env := setupEnv(t)
	adminToken := env.login(t, "/api/auth/admin-login", "admin@luxemart.test", "admin123")
	env.registerShopper(t, "shopper@example.com")

	resp, body := env.do(t, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}
	require.NoError(t, json.Unmarshal(body, &users))
	require.Len(t, users, 2)

	var shopperID, adminID string
	for _, u := range users {
		if u.Email == "shopper@example.com" {
			shopperID = u.ID
		} else {
			adminID = u.ID
		}
	}
	require.NotEmpty(t, shopperID)

	resp, body = env.do(t, http.MethodPut, "/api/users/"+shopperID, adminToken, map[string]bool{"isAdmin": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, "promote failed: %s", body)
	var updated struct {
		IsAdmin bool `json:"isAdmin"`
	}
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.True(t, updated.IsAdmin)

	// Self-demotion and self-deletion are rejected.
	resp, _ = env.do(t, http.MethodPut, "/api/users/"+adminID, adminToken, map[string]bool{"isAdmin": false})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/users/"+adminID, adminToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/users/"+shopperID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRateLimitBlocksRepeatedLogins(t *testing.T) {
	env := setupEnv(t)
	env.cfg.AuthRateLimit = config.AuthRateLimitConfig{
		LoginWindow:     time.Minute,
		LoginEmailLimit: 2,
		LoginIPLimit:    100,
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := NewRouter(env.cfg, logg, stubPinger{}, env.store, middleware.NewMemoryStore(), prometheus.NewRegistry())
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	attempt := func() int {
		payload, _ := json.Marshal(map[string]string{"email": "victim@example.com", "password": "nope"})
		resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, attempt())
	assert.Equal(t, http.StatusUnauthorized, attempt())
	assert.Equal(t, http.StatusTooManyRequests, attempt())
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	env := setupEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
}
