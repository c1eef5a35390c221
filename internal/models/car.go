package models

import (
	"gorm.io/gorm"
)

// CarAvailability is the owner-controlled soft flag. It is independent of the
// booking calendar: an "available" car can still have every date booked.
type CarAvailability string

const (
	CarAvailable   CarAvailability = "available"
	CarUnavailable CarAvailability = "unavailable"
)

type Car struct {
	gorm.Model
	OwnerID      uint            `json:"ownerId" gorm:"not null;index"`
	Owner        User            `json:"owner"`
	CarModel     string          `json:"model" gorm:"column:car_model;not null"`
	Description  string          `json:"description"`
	DailyPrice   float64         `json:"dailyPrice" gorm:"not null;check:daily_price >= 0"`
	Availability CarAvailability `json:"availability" gorm:"not null;default:'available'"`
	Location     string          `json:"location" gorm:"not null;index"`
	ImageURL     string          `json:"imageUrl"`
	RegNumber    string          `json:"regNumber"`
}

// TableName specifies the table name
func (Car) TableName() string {
	return "cars"
}
