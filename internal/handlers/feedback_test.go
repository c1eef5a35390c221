package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentwheels/rentwheels-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func setupFeedbackRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	protected := r.Group("/api", middleware.AuthMiddleware())
	protected.POST("/feedback", CreateFeedback(nil))
	return r
}

func postFeedback(t *testing.T, r *gin.Engine, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCreateFeedback_RequiresAuth(t *testing.T) {
	r := setupFeedbackRouter(t)

	w := postFeedback(t, r, "",
		`{"category":"General","rating":5,"subject":"Great","message":"Smooth booking"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateFeedback_UnknownCategory(t *testing.T) {
	r := setupFeedbackRouter(t)

	w := postFeedback(t, r, bearerToken(t, 2),
		`{"category":"Complaints","rating":5,"subject":"Great","message":"Smooth booking"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "category")
}

func TestCreateFeedback_RatingOutOfRange(t *testing.T) {
	r := setupFeedbackRouter(t)

	for _, rating := range []string{"0", "6", "-1"} {
		w := postFeedback(t, r, bearerToken(t, 2),
			`{"category":"Pricing","rating":`+rating+`,"subject":"Too high","message":"Daily rate doubled"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestCreateFeedback_MissingFields(t *testing.T) {
	r := setupFeedbackRouter(t)

	w := postFeedback(t, r, bearerToken(t, 2),
		`{"category":"General","rating":4,"subject":"No message"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
