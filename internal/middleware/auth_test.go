package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"equipinspect/internal/domain"
)

type fakeAuth map[string]*domain.Account

func (f fakeAuth) Authenticate(_ context.Context, token string) (*domain.Account, error) {
	if a, ok := f[token]; ok {
		return a, nil
	}
	if token == "outage" {
		return nil, errors.New("connection refused")
	}
	return nil, ErrInvalidToken
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(auth Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(TokenAuth(auth))
	router.Use(extra...)
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"account_id": c.GetInt64(AccountIDKey),
			"username":   CurrentAccount(c).Username,
		})
	})
	return router
}

func TestTokenAuth_AcceptsBothSchemes(t *testing.T) {
	auth := fakeAuth{"good": {ID: 42, Username: "alice", IsActive: true}}
	router := newProtectedRouter(auth)

	for _, header := range []string{"Token good", "Bearer good", "token good"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, header)
		assert.Contains(t, w.Body.String(), "42")
		assert.Contains(t, w.Body.String(), "alice")
	}
}

func TestTokenAuth_Rejects(t *testing.T) {
	router := newProtectedRouter(fakeAuth{})

	for _, header := range []string{"", "Basic dGVzdA==", "Token", "Token bad"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	}
}

func TestTokenAuth_BackendFailureIsServerError(t *testing.T) {
	router := newProtectedRouter(fakeAuth{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token outage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRequireStaff(t *testing.T) {
	auth := fakeAuth{
		"staff": {ID: 1, Username: "boss", IsStaff: true},
		"user":  {ID: 2, Username: "worker"},
	}
	router := newProtectedRouter(auth, RequireStaff())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token user")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token staff")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), Recovery(zap.NewNop()))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
