package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestRouter() (*gin.Engine, *Principal) {
	gin.SetMode(gin.TestMode)
	var captured Principal
	r := gin.New()
	r.Use(Middleware(testSecret))
	r.GET("/probe", func(c *gin.Context) {
		captured = FromContext(c)
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestMiddleware_Anonymous(t *testing.T) {
	r, captured := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, captured.Authenticated)
	assert.Equal(t, RoleNone, ResolveRole(*captured))
}

func TestMiddleware_ValidToken(t *testing.T) {
	r, captured := newTestRouter()

	token := signToken(t, jwt.MapClaims{
		"sub":       "42",
		"superuser": false,
		"groups":    []string{GroupService},
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, captured.Authenticated)
	assert.Equal(t, int64(42), captured.ID)
	assert.Equal(t, RoleService, ResolveRole(*captured))
}

func TestMiddleware_BadToken(t *testing.T) {
	r, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_WrongSigningKey(t *testing.T) {
	r, _ := newTestRouter()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseToken_NonNumericSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "alice"})
	_, err := ParseToken(token, testSecret)
	assert.Error(t, err)
}
