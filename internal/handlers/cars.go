package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rentwheels/rentwheels-backend/internal/middleware"
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/internal/services"
	"gorm.io/gorm"
)

type CarInput struct {
	Model       string  `json:"model" binding:"required"`
	Description string  `json:"description"`
	DailyPrice  float64 `json:"dailyPrice" binding:"required,gte=0"`
	Available   *bool   `json:"available"`
	Location    string  `json:"location" binding:"required"`
	ImageURL    string  `json:"imageUrl"`
	RegNumber   string  `json:"regNumber"`
}

func availabilityFrom(available *bool) models.CarAvailability {
	if available != nil && !*available {
		return models.CarUnavailable
	}
	return models.CarAvailable
}

// CreateCar lists a new car owned by the caller
func CreateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		var input CarInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		car := models.Car{
			OwnerID:      session.UserID,
			CarModel:     input.Model,
			Description:  input.Description,
			DailyPrice:   input.DailyPrice,
			Availability: availabilityFrom(input.Available),
			Location:     input.Location,
			ImageURL:     input.ImageURL,
			RegNumber:    input.RegNumber,
		}

		if err := db.Create(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create car"})
			return
		}

		c.JSON(201, car)
	}
}

// GetCars lists cars, optionally filtered by location
func GetCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Owner")
		if location := c.Query("location"); location != "" {
			query = query.Where("location = ?", location)
		}
		if c.Query("available") == "true" {
			query = query.Where("availability = ?", models.CarAvailable)
		}

		var cars []models.Car
		if err := query.Order("created_at DESC").Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}

		c.JSON(200, cars)
	}
}

// GetCar returns a single car by id
func GetCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var car models.Car
		if err := db.Preload("Owner").First(&car, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(200, car)
	}
}

// GetMyCars lists the caller's own cars
func GetMyCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		var cars []models.Car
		if err := db.Where("owner_id = ?", session.UserID).Order("created_at DESC").Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}
		c.JSON(200, cars)
	}
}

// UpdateCar mutates rate, availability flag or description. Owner only.
func UpdateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		var car models.Car
		if err := db.First(&car, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}
		if car.OwnerID != session.UserID {
			c.JSON(403, gin.H{"error": "Only the owner can update this car"})
			return
		}

		var input CarInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		car.CarModel = input.Model
		car.Description = input.Description
		car.DailyPrice = input.DailyPrice
		car.Availability = availabilityFrom(input.Available)
		car.Location = input.Location
		if input.ImageURL != "" {
			car.ImageURL = input.ImageURL
		}
		car.RegNumber = input.RegNumber

		if err := db.Save(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update car"})
			return
		}

		c.JSON(200, car)
	}
}

// DeleteCar removes a listing. Owner only.
func DeleteCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionFrom(c)

		var car models.Car
		if err := db.First(&car, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}
		if car.OwnerID != session.UserID {
			c.JSON(403, gin.H{"error": "Only the owner can delete this car"})
			return
		}

		if err := db.Delete(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete car"})
			return
		}

		c.JSON(200, gin.H{"message": "Car deleted"})
	}
}

// UploadCarImage stores a car photo and returns its public URL
func UploadCarImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Image file required"})
			return
		}

		url, err := services.UploadImage(file, "cars")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload image"})
			return
		}

		c.JSON(201, gin.H{"url": url})
	}
}
