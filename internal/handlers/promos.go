package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/internal/reservations"
	"gorm.io/gorm"
)

type PromoInput struct {
	Code       string     `json:"code" binding:"required"`
	PercentOff *float64   `json:"percentOff"`
	AmountOff  *float64   `json:"amountOff"`
	StartsAt   *time.Time `json:"startsAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

// CreatePromo registers a new promo code
func CreatePromo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PromoInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if (input.PercentOff == nil) == (input.AmountOff == nil) {
			c.JSON(400, gin.H{"error": "Set exactly one of percentOff and amountOff"})
			return
		}

		promo := models.Promo{
			Code:       input.Code,
			PercentOff: input.PercentOff,
			AmountOff:  input.AmountOff,
			StartsAt:   input.StartsAt,
			ExpiresAt:  input.ExpiresAt,
			IsActive:   true,
		}

		if err := db.Create(&promo).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create promo"})
			return
		}

		c.JSON(201, promo)
	}
}

// GetPromo validates a promo code for the UI before quoting with it
func GetPromo(promos reservations.PromoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		promo, err := promos.ResolvePromo(c.Request.Context(), c.Param("code"))
		if err != nil {
			if errors.Is(err, reservations.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Unknown promo code", "kind": "invalid_promo"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to resolve promo"})
			return
		}
		if !promo.ValidAt(time.Now()) {
			c.JSON(400, gin.H{"error": "Promo code expired", "kind": "invalid_promo"})
			return
		}

		c.JSON(200, promo)
	}
}
