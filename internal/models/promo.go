package models

import (
	"time"

	"gorm.io/gorm"
)

// Promo is a named discount applied at quote time only. It never changes a
// booking's base price, only the computed total. Exactly one of PercentOff
// and AmountOff should be set.
type Promo struct {
	gorm.Model
	Code       string     `json:"code" gorm:"unique;not null"`
	PercentOff *float64   `json:"percentOff,omitempty"`
	AmountOff  *float64   `json:"amountOff,omitempty"`
	StartsAt   *time.Time `json:"startsAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	IsActive   bool       `json:"isActive" gorm:"not null;default:true"`
}

// TableName specifies the table name
func (Promo) TableName() string {
	return "promos"
}

// ValidAt reports whether the promo can be applied at the given instant.
func (p *Promo) ValidAt(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	if p.ExpiresAt != nil && !t.Before(*p.ExpiresAt) {
		return false
	}
	return true
}
