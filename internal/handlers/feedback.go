package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rentwheels/rentwheels-backend/internal/middleware"
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"gorm.io/gorm"
)

var feedbackCategories = map[string]bool{
	"General":            true,
	"Website issue":      true,
	"Booking experience": true,
	"Pricing":            true,
	"Car condition":      true,
	"Support":            true,
}

type FeedbackInput struct {
	Category  string `json:"category" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Message   string `json:"message" binding:"required"`
	BookingID *uint  `json:"bookingId"`
	Email     string `json:"email"`
}

// CreateFeedback records a feedback submission from a signed-in user
func CreateFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)
		if session == nil {
			c.JSON(401, gin.H{"error": "Authentication required"})
			return
		}

		var input FeedbackInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if !feedbackCategories[input.Category] {
			c.JSON(400, gin.H{"error": "Unknown feedback category"})
			return
		}
		if input.Rating < 1 || input.Rating > 5 {
			c.JSON(400, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}

		// A referenced booking must be the submitter's own
		if input.BookingID != nil {
			var booking models.Booking
			if err := db.First(&booking, *input.BookingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(400, gin.H{"error": "Booking not found"})
					return
				}
				c.JSON(500, gin.H{"error": "Failed to look up booking"})
				return
			}
			if booking.RenterID != session.UserID {
				c.JSON(403, gin.H{"error": "You can only reference your own bookings"})
				return
			}
		}

		feedback := models.Feedback{
			UserID:    session.UserID,
			BookingID: input.BookingID,
			Category:  input.Category,
			Rating:    input.Rating,
			Subject:   input.Subject,
			Message:   input.Message,
			Email:     input.Email,
		}
		if feedback.Email == "" {
			feedback.Email = session.Email
		}

		if err := db.Create(&feedback).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to submit feedback"})
			return
		}

		c.JSON(201, feedback)
	}
}
