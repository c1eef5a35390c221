package utils

import (
	"errors"
	"math"
	"time"

	"github.com/rentwheels/rentwheels-backend/internal/models"
)

// ErrInvalidPromo is returned when a promo code is unknown, inactive or
// outside its applicability window. Callers decide whether to re-quote
// without the discount or reject the request.
var ErrInvalidPromo = errors.New("invalid or expired promo code")

// QuoteResult contains the computed rental total and its breakdown
type QuoteResult struct {
	Total        float64 `json:"total"`
	Days         int     `json:"days"`
	DailyRate    float64 `json:"dailyRate"`
	BasePrice    float64 `json:"basePrice"`
	Discount     float64 `json:"discount"`
	PromoApplied bool    `json:"promoApplied"`
	PromoCode    string  `json:"promoCode,omitempty"`
}

// Quote computes the rental total for days at dailyRate, applying promo if
// one is supplied. Percentage promos multiply by (1 - pct/100); flat promos
// subtract a fixed amount, floored at zero. Rounding to the currency's minor
// unit happens exactly once, at the end, round-half-up.
func Quote(dailyRate float64, days int, promo *models.Promo, now time.Time) (QuoteResult, error) {
	basePrice := dailyRate * float64(days)
	total := basePrice

	result := QuoteResult{
		Days:      days,
		DailyRate: dailyRate,
		BasePrice: math.Round(basePrice*100) / 100,
	}

	if promo != nil {
		if !promo.ValidAt(now) {
			return QuoteResult{}, ErrInvalidPromo
		}
		switch {
		case promo.PercentOff != nil:
			total = basePrice * (1 - *promo.PercentOff/100)
		case promo.AmountOff != nil:
			total = basePrice - *promo.AmountOff
		}
		if total < 0 {
			total = 0
		}
		result.PromoApplied = true
		result.PromoCode = promo.Code
	}

	// Round to 2 decimal places
	result.Total = math.Round(total*100) / 100
	result.Discount = math.Round((basePrice-total)*100) / 100

	return result, nil
}
