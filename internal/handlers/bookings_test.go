package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentwheels/rentwheels-backend/internal/middleware"
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/internal/reservations"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *reservations.MemoryStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	store := reservations.NewMemoryStore()
	car := &models.Car{
		OwnerID:      1,
		CarModel:     "Nissan X-Trail",
		DailyPrice:   100,
		Availability: models.CarAvailable,
		Location:     "Chattogram",
	}
	store.PutCar(car)

	engine := reservations.NewEngine(store, store, store)

	r := gin.New()
	r.GET("/api/cars/:id/quote", QuoteBooking(engine))
	protected := r.Group("/api", middleware.AuthMiddleware())
	protected.GET("/cars/:id/availability", CheckAvailability(engine))

	return r, store
}

func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	user := &models.User{Email: "renter@test.local"}
	user.ID = userID
	token, err := utils.GenerateToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestQuoteEndpoint(t *testing.T) {
	r, store := setupRouter(t)
	pct := 15.0
	store.PutPromo(&models.Promo{Code: "SUMMER15", PercentOff: &pct, IsActive: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/cars/1/quote?from=2024-06-10&to=2024-06-13&promo=SUMMER15", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var quote utils.QuoteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, 255.00, quote.Total)
	assert.True(t, quote.PromoApplied)
}

func TestQuoteEndpoint_InvalidRange(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/cars/1/quote?from=2024-06-10&to=2024-06-10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_range")
}

func TestAvailabilityEndpoint_RequiresAuth(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/cars/1/availability?from=2024-06-10&to=2024-06-13", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	r, store := setupRouter(t)
	seedConfirmedBooking(t, store, 1, "2024-06-10", "2024-06-13")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/cars/1/availability?from=2024-06-12&to=2024-06-15", nil)
	req.Header.Set("Authorization", bearerToken(t, 2))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var avail reservations.Availability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.False(t, avail.Available)
	assert.Len(t, avail.Conflicts, 1)
}

func seedConfirmedBooking(t *testing.T, store *reservations.MemoryStore, carID uint, from, to string) {
	t.Helper()
	start, err := parseDate(from)
	require.NoError(t, err)
	end, err := parseDate(to)
	require.NoError(t, err)
	r, err := utils.NewDateRange(start, end)
	require.NoError(t, err)

	_, err = store.CreateBooking(context.Background(),reservations.BookingDraft{
		Reference: "seed",
		CarID:     carID,
		RenterID:  9,
		Range:     r,
		Status:    models.BookingStatusConfirmed,
	})
	require.NoError(t, err)
}
