package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/sales-service/internal/core/repository"
	logicv1 "github.com/duynhne/sales-service/internal/logic/v1"
)

const (
	testSecret = "handler-test-secret-0123456789"
	testIssuer = "sales-service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	repos := repository.NewMemoryRepositories()
	tokens := logicv1.NewTokenCodec(testSecret, testIssuer, 24*time.Hour)
	h := NewHandler(Services{
		Auth:          logicv1.NewAuthService(repos.Users, tokens),
		Products:      logicv1.NewProductService(repos.Products),
		WebsiteVisits: logicv1.NewWebsiteVisitService(repos.WebsiteVisits),
		StoreVisits:   logicv1.NewStoreVisitService(repos.StoreVisits),
		SampleData:    logicv1.NewSampleDataService(repos.Products, repos.WebsiteVisits, repos.StoreVisits),
		Dashboard:     logicv1.NewDashboardService(repos.Products, repos.WebsiteVisits, repos.StoreVisits),
	}, true)

	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func register(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w, body := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Al", "email": email, "password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["token"].(string)
}

func TestRegister(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Al", "email": "a@b.com", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.NotEmpty(t, user["id"])
	assert.NotEmpty(t, user["createdAt"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotEmpty(t, body["token"])

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "token="+body["token"].(string))
	assert.Contains(t, cookie, "Path=/")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Strict")
	assert.Contains(t, cookie, "Max-Age=86400")

	w, body = doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Al", "email": "a@b.com", "password": "secret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, body["error"])
}

func TestRegister_Validation(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Al", "email": "a@b.com", "password": "12345",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body["error"])
	details := body["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "password", details[0].(map[string]any)["field"])

	w, _ = doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Al", "email": "a@b.com", "password": "123456",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, body = doJSON(t, r, http.MethodPost, "/auth/register", "", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestLogin(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "a@b.com")

	w, body := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "a@b.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "a@b.com", body["user"].(map[string]any)["email"])

	wrong, wrongBody := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "a@b.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, "Invalid credentials", wrongBody["error"])

	unknown, unknownBody := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "x@b.com", "password": "secret"})
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongBody, unknownBody)

	w, body = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body["error"])
}

func TestGetMe(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@b.com")

	w, body := doJSON(t, r, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.com", body["user"].(map[string]any)["email"])
}

func TestRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	expired, _, err := logicv1.NewTokenCodec(testSecret, testIssuer, -time.Hour).Issue(uuid.NewString(), "a@b.com")
	require.NoError(t, err)
	forged, _, err := logicv1.NewTokenCodec("some-other-secret-value", testIssuer, time.Hour).Issue(uuid.NewString(), "a@b.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", header: "", want: "Access token required"},
		{name: "not bearer", header: "Token abc", want: "Access token required"},
		{name: "expired", header: "Bearer " + expired, want: "Invalid or expired token"},
		{name: "wrong signature", header: "Bearer " + forged, want: "Invalid or expired token"},
		{name: "garbage", header: "Bearer garbage", want: "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestProducts(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@b.com")

	w, created := doJSON(t, r, http.MethodPost, "/products", token, gin.H{
		"name": "Widget", "category": "Electronics", "price": 19.99, "stock": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := created["id"].(string)
	assert.Equal(t, 19.99, created["price"])
	assert.NotEmpty(t, created["userId"])

	w, body := doJSON(t, r, http.MethodPost, "/products", token, gin.H{
		"name": "Widget", "category": "Electronics", "price": 5,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Product with this name already exists", body["error"])

	// Single products are public.
	w, body = doJSON(t, r, http.MethodGet, "/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Widget", body["name"])

	w, _ = doJSON(t, r, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = doJSON(t, r, http.MethodPut, "/products/"+id, token, gin.H{
		"name": "Widget 2", "category": "Books", "price": "7.50",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Widget 2", body["name"])
	assert.Equal(t, 7.5, body["price"])

	w, _ = doJSON(t, r, http.MethodPut, "/products/"+id, "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = doJSON(t, r, http.MethodPut, "/products/badId", token, gin.H{
		"name": "Widget 3", "category": "Books", "price": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID", body["error"])

	w, _ = doJSON(t, r, http.MethodGet, "/products/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	list := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &products))
	assert.Len(t, products, 1)

	w, _ = doJSON(t, r, http.MethodDelete, "/products/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/products/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProducts_EmptyListIsArray(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@b.com")

	w, _ := doJSON(t, r, http.MethodGet, "/products", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestVisits(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@b.com")

	w, body := doJSON(t, r, http.MethodPost, "/website-visits", token, gin.H{
		"url": "https://example.com/pricing", "visitDate": "2026-04-01", "duration": 90,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(1), body["pageViews"])

	w, body = doJSON(t, r, http.MethodPost, "/website-visits", token, gin.H{"url": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, body["details"], 2)

	w, _ = doJSON(t, r, http.MethodGet, "/website-visits/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = doJSON(t, r, http.MethodPost, "/store-visits", token, gin.H{
		"customerName":   "Jane",
		"storeLocation":  "Chicago",
		"visitDate":      "2026-04-02T15:04:05Z",
		"productsViewed": []string{"PROD-1"},
		"purchaseMade":   true,
		"purchaseAmount": 25.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := body["id"].(string)

	w, body = doJSON(t, r, http.MethodGet, "/store-visits/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 25.5, body["purchaseAmount"])

	w, body = doJSON(t, r, http.MethodGet, "/store-visits/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Store visit not found", body["error"])
}

func TestGenerateAndDashboard(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@b.com")

	w, _ := doJSON(t, r, http.MethodPost, "/data/generate", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := doJSON(t, r, http.MethodPost, "/api/data/generate", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Sample data generated successfully", body["message"])
	assert.Equal(t, map[string]any{
		"websiteVisits": float64(50),
		"storeVisits":   float64(30),
		"products":      float64(20),
	}, body["data"])

	w, body = doJSON(t, r, http.MethodGet, "/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(50), body["totalWebsiteVisits"])
	assert.Equal(t, float64(30), body["totalStoreVisits"])
	assert.Equal(t, float64(20), body["totalProducts"])
	assert.Equal(t, float64(60), body["conversionRate"])
	assert.Len(t, body["productsByCategory"], 5)
}
