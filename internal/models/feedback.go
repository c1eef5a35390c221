package models

import (
	"gorm.io/gorm"
)

// Feedback is a user-submitted report about the site or a booking. BookingID
// is optional: general feedback isn't tied to a rental.
type Feedback struct {
	gorm.Model
	UserID    uint   `json:"userId" gorm:"not null;index"`
	BookingID *uint  `json:"bookingId,omitempty"`
	Category  string `json:"category" gorm:"not null"`
	Rating    int    `json:"rating" gorm:"not null"`
	Subject   string `json:"subject" gorm:"not null"`
	Message   string `json:"message" gorm:"type:text;not null"`
	Email     string `json:"email"`
}

// TableName specifies the table name
func (Feedback) TableName() string {
	return "feedback"
}
