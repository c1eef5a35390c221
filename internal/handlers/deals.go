package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/internal/reservations"
	"github.com/rentwheels/rentwheels-backend/internal/services"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
	"gorm.io/gorm"
)

// defaultBranches seeds /api/locations until real branches are configured
var defaultBranches = []string{"Dhaka Airport", "Chattogram", "Sylhet"}

type dealItem struct {
	models.Car
	Days             int     `json:"days"`
	PriceBeforeDeals float64 `json:"priceBeforeDeals"`
	FinalPrice       float64 `json:"finalPrice"`
}

// SearchDeals lists cars free for the requested range at a pickup location,
// quoting each with the optional promo applied. An expired or unknown promo
// fails the whole search so the client can drop or replace the code, rather
// than quietly quoting full price.
func SearchDeals(db *gorm.DB, promos reservations.PromoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, err := parseDate(c.Query("from"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Please pick both date & time", "kind": "invalid_range"})
			return
		}
		end, err := parseDate(c.Query("to"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Please pick both date & time", "kind": "invalid_range"})
			return
		}

		r, err := utils.NewDateRange(start, end)
		if err != nil {
			c.JSON(400, gin.H{"error": "Drop-off must be after pick-up", "kind": "invalid_range"})
			return
		}

		var promo *models.Promo
		promoApplied := 0.0
		if code := c.Query("promo"); code != "" {
			promo, err = promos.ResolvePromo(c.Request.Context(), code)
			if err != nil {
				if errors.Is(err, reservations.ErrNotFound) {
					c.JSON(400, gin.H{"error": "Invalid or expired promo code", "kind": "invalid_promo"})
					return
				}
				c.JSON(500, gin.H{"error": "Failed to resolve promo"})
				return
			}
			if promo.PercentOff != nil {
				promoApplied = *promo.PercentOff
			}
		}

		query := db.Where("availability = ?", models.CarAvailable).
			Where(`NOT EXISTS (
				SELECT 1 FROM bookings
				WHERE bookings.car_id = cars.id
				  AND bookings.deleted_at IS NULL
				  AND bookings.status IN ('pending', 'confirmed')
				  AND bookings.start_date < ? AND ? < bookings.end_date
			)`, r.End, r.Start)
		if pickup := c.Query("pickup"); pickup != "" {
			query = query.Where("location = ?", pickup)
		}

		var cars []models.Car
		if err := query.Order("daily_price").Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Search failed"})
			return
		}

		now := time.Now()
		items := make([]dealItem, 0, len(cars))
		for _, car := range cars {
			quote, err := utils.Quote(car.DailyPrice, r.Days(), promo, now)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid or expired promo code", "kind": "invalid_promo"})
				return
			}
			items = append(items, dealItem{
				Car:              car,
				Days:             quote.Days,
				PriceBeforeDeals: quote.BasePrice,
				FinalPrice:       quote.Total,
			})
		}

		c.JSON(200, gin.H{
			"items":        items,
			"days":         r.Days(),
			"promoApplied": promoApplied,
		})
	}
}

// GetLocations returns the pickup/dropoff branch list
func GetLocations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if branches, ok := services.GetCachedLocations(c.Request.Context()); ok {
			c.JSON(200, gin.H{"branches": branches})
			return
		}

		var branches []string
		if err := db.Model(&models.Car{}).Distinct("location").Order("location").Pluck("location", &branches).Error; err != nil || len(branches) == 0 {
			branches = defaultBranches
		}

		if err := services.CacheLocations(c.Request.Context(), branches); err != nil {
			log.Printf("Failed to cache locations: %v", err)
		}

		c.JSON(200, gin.H{"branches": branches})
	}
}
