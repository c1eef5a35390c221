package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// Active reports whether the booking still blocks its date range on the
// car's calendar.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking reserves a car for the half-open date range [StartDate, EndDate).
// Dates are stored normalized to 12:00 UTC so day arithmetic never crosses a
// timezone boundary.
type Booking struct {
	gorm.Model
	Reference  string        `json:"reference" gorm:"unique;not null"`
	CarID      uint          `json:"carId" gorm:"not null;index"`
	Car        Car           `json:"car"`
	RenterID   uint          `json:"renterId" gorm:"not null;index"`
	Renter     User          `json:"renter"`
	StartDate  time.Time     `json:"startDate" gorm:"not null"`
	EndDate    time.Time     `json:"endDate" gorm:"not null"`
	Status     BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	TotalPrice float64       `json:"totalPrice" gorm:"not null"`
	PromoCode  string        `json:"promoCode,omitempty"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
