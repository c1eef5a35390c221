package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentwheels/rentwheels-backend/internal/middleware"
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/internal/reservations"
	"github.com/rentwheels/rentwheels-backend/internal/services"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
	"gorm.io/gorm"
)

// parseDate accepts plain dates and RFC3339 timestamps; the time-of-day is
// discarded by the engine's date normalization either way.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// reservationError maps engine errors onto HTTP responses, one status per
// error kind so clients can branch the same way engine callers do.
func reservationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reservations.ErrInvalidRange):
		c.JSON(400, gin.H{"error": err.Error(), "kind": "invalid_range"})
	case errors.Is(err, reservations.ErrInvalidPromo):
		c.JSON(400, gin.H{"error": err.Error(), "kind": "invalid_promo"})
	case errors.Is(err, reservations.ErrDateConflict):
		c.JSON(409, gin.H{"error": "These dates are already booked", "kind": "date_conflict"})
	case errors.Is(err, reservations.ErrCarUnavailable):
		c.JSON(409, gin.H{"error": err.Error(), "kind": "car_unavailable"})
	case errors.Is(err, reservations.ErrBookingCanceled):
		c.JSON(409, gin.H{"error": err.Error(), "kind": "booking_canceled"})
	case errors.Is(err, reservations.ErrSessionExpired):
		c.JSON(401, gin.H{"error": "Session expired, please sign in again", "kind": "session_expired"})
	case errors.Is(err, reservations.ErrForbidden):
		c.JSON(403, gin.H{"error": "Not allowed", "kind": "forbidden"})
	case errors.Is(err, reservations.ErrNotFound):
		c.JSON(404, gin.H{"error": "Not found", "kind": "not_found"})
	case errors.Is(err, reservations.ErrTimeout):
		c.JSON(504, gin.H{"error": "Request timed out, please retry", "kind": "timeout"})
	default:
		c.JSON(500, gin.H{"error": "Internal error"})
	}
}

type BookingInput struct {
	CarID     uint   `json:"carId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	PromoCode string `json:"promoCode"`
}

// CreateBooking books a car for a date range via the reservation engine
func CreateBooking(db *gorm.DB, engine *reservations.Engine, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		var input BookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		start, err := parseDate(input.StartDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid startDate", "kind": "invalid_range"})
			return
		}
		end, err := parseDate(input.EndDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid endDate", "kind": "invalid_range"})
			return
		}

		booking, err := engine.Create(c.Request.Context(), session, input.CarID, start, end, input.PromoCode)
		if err != nil {
			reservationError(c, err)
			return
		}

		notifyBookingEvent(db, hub, booking, "booking_requested")

		c.JSON(201, booking)
	}
}

// CheckAvailability answers whether a car is free for a candidate range
func CheckAvailability(engine *reservations.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		carID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid car id"})
			return
		}

		start, err := parseDate(c.Query("from"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid from date", "kind": "invalid_range"})
			return
		}
		end, err := parseDate(c.Query("to"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid to date", "kind": "invalid_range"})
			return
		}

		availability, err := engine.CheckAvailable(c.Request.Context(), session, uint(carID), start, end)
		if err != nil {
			reservationError(c, err)
			return
		}

		c.JSON(200, availability)
	}
}

// QuoteBooking prices a candidate rental without committing anything
func QuoteBooking(engine *reservations.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid car id"})
			return
		}

		start, err := parseDate(c.Query("from"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid from date", "kind": "invalid_range"})
			return
		}
		end, err := parseDate(c.Query("to"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid to date", "kind": "invalid_range"})
			return
		}

		quote, err := engine.Quote(c.Request.Context(), uint(carID), start, end, c.Query("promo"))
		if err != nil {
			reservationError(c, err)
			return
		}

		c.JSON(200, quote)
	}
}

// GetCarBookings returns the active bookings for a car so clients can render
// unavailable ranges
func GetCarBookings(engine *reservations.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		carID, err := strconv.ParseUint(c.Param("carId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid car id"})
			return
		}

		bookings, err := engine.BookedRanges(c.Request.Context(), uint(carID))
		if err != nil {
			reservationError(c, err)
			return
		}

		ranges := make([]gin.H, 0, len(bookings))
		for _, b := range bookings {
			ranges = append(ranges, gin.H{"startDate": b.StartDate, "endDate": b.EndDate})
		}
		c.JSON(200, gin.H{"bookings": ranges})
	}
}

// GetMyBookings lists the caller's bookings as a renter
func GetMyBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		var bookings []models.Booking
		if err := db.Where("renter_id = ?", session.UserID).
			Preload("Car").
			Preload("Car.Owner").
			Order("start_date").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetReceivedBookings lists bookings made against the caller's cars
func GetReceivedBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		var bookings []models.Booking
		if err := db.Joins("Car").
			Where("cars.owner_id = ?", session.UserID).
			Preload("Renter").
			Order("bookings.start_date").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// ConfirmBooking lets the car owner accept a pending booking
func ConfirmBooking(db *gorm.DB, engine *reservations.Engine, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		booking, err := engine.Confirm(c.Request.Context(), session, uint(bookingID))
		if err != nil {
			reservationError(c, err)
			return
		}

		notifyBookingEvent(db, hub, booking, "booking_confirmed")

		c.JSON(200, booking)
	}
}

// CancelBooking cancels a booking; canceling twice is a no-op success
func CancelBooking(db *gorm.DB, engine *reservations.Engine, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		booking, err := engine.Cancel(c.Request.Context(), session, uint(bookingID))
		if err != nil {
			reservationError(c, err)
			return
		}

		notifyBookingEvent(db, hub, booking, "booking_canceled")

		c.JSON(200, booking)
	}
}

type ModifyInput struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// ModifyBooking moves a booking to new dates, re-running the overlap check
func ModifyBooking(db *gorm.DB, engine *reservations.Engine, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		var input ModifyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		start, err := parseDate(input.StartDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid startDate", "kind": "invalid_range"})
			return
		}
		end, err := parseDate(input.EndDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid endDate", "kind": "invalid_range"})
			return
		}

		booking, err := engine.Modify(c.Request.Context(), session, uint(bookingID), start, end)
		if err != nil {
			reservationError(c, err)
			return
		}

		notifyBookingEvent(db, hub, booking, "booking_modified")

		c.JSON(200, booking)
	}
}

// notifyBookingEvent pushes the transition to the counterparty over the hub,
// mirrors it to Redis pub/sub and emails where it matters. Notification
// failures never fail the request.
func notifyBookingEvent(db *gorm.DB, hub *services.Hub, booking *models.Booking, eventType string) {
	var car models.Car
	if err := db.Preload("Owner").First(&car, booking.CarID).Error; err != nil {
		log.Printf("Failed to load car %d for notification: %v", booking.CarID, err)
		return
	}

	event := services.BookingEvent{
		BookingID: booking.ID,
		Reference: booking.Reference,
		CarID:     booking.CarID,
		Status:    string(booking.Status),
		StartDate: booking.StartDate.Format("2006-01-02"),
		EndDate:   booking.EndDate.Format("2006-01-02"),
		Total:     booking.TotalPrice,
	}

	// the renter acts on confirm events, the owner on everything else
	target := car.OwnerID
	if eventType == "booking_confirmed" {
		target = booking.RenterID
	}
	hub.NotifyBookingEvent(target, eventType, event)

	if err := services.PublishBookingUpdate(context.Background(), booking.ID, string(booking.Status), map[string]interface{}{
		"carId": booking.CarID, "event": eventType,
	}); err != nil {
		log.Printf("Failed to publish booking update: %v", err)
	}

	switch eventType {
	case "booking_requested":
		var renter models.User
		if err := db.First(&renter, booking.RenterID).Error; err == nil {
			if err := utils.SendBookingRequestEmail(car.Owner.Email, car.CarModel, renter.Username, booking.StartDate, booking.EndDate, booking.TotalPrice); err != nil {
				log.Printf("Failed to send booking request email: %v", err)
			}
		}
	case "booking_confirmed":
		var renter models.User
		if err := db.First(&renter, booking.RenterID).Error; err == nil {
			if err := utils.SendBookingConfirmedEmail(renter.Email, car.CarModel, booking.StartDate, booking.EndDate, booking.TotalPrice); err != nil {
				log.Printf("Failed to send booking confirmed email: %v", err)
			}
		}
	}
}
