package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/whoami", AuthMiddleware(), func(c *gin.Context) {
		session := SessionFrom(c)
		require.NotNil(t, session)
		c.JSON(200, gin.H{"userId": session.UserID})
	})
	return r
}

func get(t *testing.T, r *gin.Engine, auth string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := setupAuthRouter(t)

	user := &models.User{Email: "renter@test.local"}
	user.ID = 7
	token, err := utils.GenerateToken(user)
	require.NoError(t, err)

	w := get(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	r := setupAuthRouter(t)

	w := get(t, r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadSignature(t *testing.T) {
	r := setupAuthRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  float64(7),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w := get(t, r, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A validly-signed token can still be missing the id claim; that must be a
// 401, not a panic.
func TestAuthMiddleware_MissingIDClaim(t *testing.T) {
	r := setupAuthRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "renter@test.local",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	w := get(t, r, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
