package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vuelas/api/internal/models"
	"vuelas/api/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens(t *testing.T) *security.TokenService {
	t.Helper()
	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret:   "0123456789abcdef0123456789abcdef",
		Issuer:   "JA_SeguroVuelas",
		Audience: "JA_SeguroVuelas_Users",
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

func issue(t *testing.T, tokens *security.TokenService, role models.Role) string {
	t.Helper()
	token, err := tokens.Issue(models.User{ID: "u1", Email: "a@b.com", Name: "Ana", Role: role})
	require.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"user": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": claims.UserID})
	})
	r.GET("/", chain...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	tokens := newTokens(t)
	valid := issue(t, tokens, models.RoleCliente)
	r := newRouter(Auth(tokens))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			require.Equal(t, tc.status, w.Code)

			body := decode(t, w)
			if tc.status == http.StatusOK {
				assert.Equal(t, "u1", body["user"])
			} else {
				assert.Equal(t, "No autorizado", body["message"])
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tokens := newTokens(t)
	r := newRouter(Auth(tokens), RequireRoles(models.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleCliente))
	w := serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Acceso denegado", decode(t, w)["message"])

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleAdmin))
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_WithoutAuth(t *testing.T) {
	r := newRouter(RequireRoles(models.RoleAdmin))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), Recovery(zerolog.New(&logs)))
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error interno del servidor", decode(t, w)["message"])
	assert.Contains(t, logs.String(), "kaboom")
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", 500))
	w = serve(r, req)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://vuelas.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://vuelas.example.com")
	w := serve(r, req)
	assert.Equal(t, "https://vuelas.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://vuelas.example.com")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLogger(t *testing.T) {
	var logs bytes.Buffer
	tokens := newTokens(t)
	r := gin.New()
	r.Use(RequestID(), Logger(zerolog.New(&logs)))
	r.GET("/me", Auth(tokens), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, models.RoleCliente))
	serve(r, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "/me", entry["route"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.EqualValues(t, 200, entry["status"])

	logs.Reset()
	serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
}
