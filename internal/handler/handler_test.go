package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/sku_console/internal/credential"
	"github.com/GTDGit/sku_console/internal/middleware"
	"github.com/GTDGit/sku_console/internal/service"
	"github.com/GTDGit/sku_console/pkg/skuapi"
)

// backend is a minimal SKU server.
type backend struct {
	mu      sync.Mutex
	deleted []string
	expired bool
	down    bool
}

func (b *backend) token(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func (b *backend) handler(t *testing.T) http.HandlerFunc {
	token := b.token(t)
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if r.URL.Path == "/api/auth/login" {
			if b.down {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			var req skuapi.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(skuapi.LoginResponse{Token: token})
			return
		}
		if b.expired || r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/skus":
			_, _ = io.WriteString(w, `[
				{"id":1,"skuCode":"MEN-TS-001","name":"Cotton Tee","category":"Shirts","styleName":"Casual","colour":"White","size":"M","quantity":10,"price":100},
				{"id":2,"skuCode":"WOM-JNS-002","name":"Slim Denim","category":"Jeans","styleName":"Casual","colour":"Blue","size":"S","quantity":80,"price":400}
			]`)
		case r.URL.Path == "/api/skus/categories":
			_, _ = io.WriteString(w, `["Jeans","Shirts"]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/skus":
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":"SKU code already exists: MEN-TS-001"}`)
		case r.Method == http.MethodDelete:
			b.deleted = append(b.deleted, r.URL.Path)
			_, _ = io.WriteString(w, `{"deleted":true}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Fields  []string `json:"fields"`
	} `json:"error"`
}

type testConsole struct {
	router  *gin.Engine
	backend *backend
	store   *credential.Store
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &backend{}
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)

	store, err := credential.Open(context.Background(), credential.NewMemorySlot())
	require.NoError(t, err)
	client := skuapi.NewClient(skuapi.Config{BaseURL: srv.URL + "/api"}, store)
	svc, err := service.NewInventoryService(client, store, service.Options{LowStockThreshold: 50})
	require.NoError(t, err)

	inv := NewInventoryHandler(svc)
	sess := NewSessionHandler(svc, middleware.NewLoginRateLimiter(2, time.Minute))

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.GET("/health", NewHealthHandler("memory", nil).GetHealth)
	r.GET("/api/session", sess.Status)
	r.POST("/api/session/login", sess.Login)
	r.POST("/api/session/logout", sess.Logout)

	api := r.Group("/api")
	api.Use(middleware.RequireSession(svc))
	api.GET("/view", inv.GetView)
	api.PUT("/filters", inv.SetFilters)
	api.POST("/edit", inv.BeginAdd)
	api.PUT("/edit/draft", inv.UpdateDraft)
	api.POST("/edit/save", inv.Save)
	api.POST("/skus/:id/delete", inv.RequestDelete)
	api.POST("/delete/confirm", inv.ConfirmDelete)

	return &testConsole{router: r, backend: b, store: store}
}

func (tc *testConsole) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func (tc *testConsole) login(t *testing.T) {
	t.Helper()
	code, _ := tc.do(t, http.MethodPost, "/api/session/login", gin.H{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, code)
}

func TestHealth(t *testing.T) {
	tc := newTestConsole(t)
	code, env := tc.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"backend":"memory"`)
}

func TestLogin_LoadsView(t *testing.T) {
	tc := newTestConsole(t)

	code, env := tc.do(t, http.MethodPost, "/api/session/login", gin.H{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, code)

	var view service.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Authenticated)
	assert.Len(t, view.Records, 2)
	assert.Equal(t, []string{"Jeans", "Shirts"}, view.Categories)
	assert.Equal(t, 1, view.Stats.LowStockCount)

	_, ok := tc.store.Credential()
	assert.True(t, ok)
}

func TestLogin_BadPasswordAndRateLimit(t *testing.T) {
	tc := newTestConsole(t)
	bad := gin.H{"username": "admin", "password": "nope"}

	for i := 0; i < 2; i++ {
		code, env := tc.do(t, http.MethodPost, "/api/session/login", bad)
		assert.Equal(t, http.StatusUnauthorized, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, service.MsgInvalidLogin, env.Error.Message)
	}

	code, env := tc.do(t, http.MethodPost, "/api/session/login", bad)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "TOO_MANY_ATTEMPTS", env.Error.Code)
}

func TestLogin_BackendOutageIsNotAFailedAttempt(t *testing.T) {
	tc := newTestConsole(t)
	tc.backend.mu.Lock()
	tc.backend.down = true
	tc.backend.mu.Unlock()

	for i := 0; i < 3; i++ {
		code, env := tc.do(t, http.MethodPost, "/api/session/login", gin.H{"username": "admin", "password": "secret"})
		assert.Equal(t, http.StatusBadGateway, code)
		assert.Equal(t, "BACKEND_ERROR", env.Error.Code)
	}

	tc.backend.mu.Lock()
	tc.backend.down = false
	tc.backend.mu.Unlock()

	code, _ := tc.do(t, http.MethodPost, "/api/session/login", gin.H{"username": "admin", "password": "secret"})
	assert.Equal(t, http.StatusOK, code)
}

func TestLogin_MissingBody(t *testing.T) {
	tc := newTestConsole(t)
	code, env := tc.do(t, http.MethodPost, "/api/session/login", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	tc := newTestConsole(t)
	code, env := tc.do(t, http.MethodGet, "/api/view", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "NOT_AUTHENTICATED", env.Error.Code)
}

func TestFilters(t *testing.T) {
	tc := newTestConsole(t)
	tc.login(t)

	code, env := tc.do(t, http.MethodPut, "/api/filters", gin.H{"searchTerm": "DENIM"})
	require.Equal(t, http.StatusOK, code)

	var view service.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Records, 1)
	assert.Equal(t, int64(2), view.Records[0].ID)
	assert.Equal(t, "all", view.Filters.Category)
}

func TestSave_MissingFields(t *testing.T) {
	tc := newTestConsole(t)
	tc.login(t)

	code, _ := tc.do(t, http.MethodPost, "/api/edit", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = tc.do(t, http.MethodPut, "/api/edit/draft", gin.H{
		"name": "Tee", "styleName": "Casual", "colour": "White", "quantity": "1", "category": "Shirts",
	})
	require.Equal(t, http.StatusOK, code)

	code, env := tc.do(t, http.MethodPost, "/api/edit/save", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MISSING_FIELDS", env.Error.Code)
	assert.Equal(t, []string{"skuCode", "price"}, env.Error.Fields)
	assert.Equal(t, "Please fill in all required fields (SKU Code, Price)", env.Error.Message)
}

func TestSave_ServerRejection(t *testing.T) {
	tc := newTestConsole(t)
	tc.login(t)

	tc.do(t, http.MethodPost, "/api/edit", nil)
	tc.do(t, http.MethodPut, "/api/edit/draft", service.Draft{
		SkuCode: "MEN-TS-001", Name: "Tee", StyleName: "Casual", Colour: "White",
		Quantity: "1", Price: "10", Category: "Shirts",
	})

	code, env := tc.do(t, http.MethodPost, "/api/edit/save", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SKU code already exists: MEN-TS-001", env.Error.Message)
}

func TestDelete_Flow(t *testing.T) {
	tc := newTestConsole(t)
	tc.login(t)

	code, env := tc.do(t, http.MethodPost, "/api/delete/confirm", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NO_PENDING_DELETE", env.Error.Code)

	code, env = tc.do(t, http.MethodPost, "/api/skus/2/delete", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(env.Message, "Delete SKU Slim Denim (WOM-JNS-002)?"))

	code, _ = tc.do(t, http.MethodPost, "/api/delete/confirm", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"/api/skus/2"}, tc.backend.deleted)
}

func TestDelete_BadID(t *testing.T) {
	tc := newTestConsole(t)
	tc.login(t)
	code, env := tc.do(t, http.MethodPost, "/api/skus/abc/delete", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)
}

func TestExpiredSessionLogsOut(t *testing.T) {
	tc := newTestConsole(t)
	tc.login(t)

	tc.backend.mu.Lock()
	tc.backend.expired = true
	tc.backend.mu.Unlock()

	tc.do(t, http.MethodPost, "/api/skus/1/delete", nil)
	code, env := tc.do(t, http.MethodPost, "/api/delete/confirm", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "SESSION_EXPIRED", env.Error.Code)

	_, ok := tc.store.Credential()
	assert.False(t, ok)

	code, env = tc.do(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"authenticated":false}`, string(env.Data))
}
