package reservations

import (
	"context"

	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
)

// BookingDraft is what the engine hands the store to persist.
type BookingDraft struct {
	Reference  string
	CarID      uint
	RenterID   uint
	Range      utils.DateRange
	Status     models.BookingStatus
	TotalPrice float64
	PromoCode  string
}

// BookingStore is the authoritative reservation store. The engine's overlap
// pre-check is advisory only; CreateBooking and UpdateBookingRange must
// re-check overlap and commit as one indivisible operation, serializing
// concurrent writers for the same car, and return ErrDateConflict when an
// active booking overlaps.
type BookingStore interface {
	ListActiveForCar(ctx context.Context, carID uint) ([]models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	CreateBooking(ctx context.Context, draft BookingDraft) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error)
	UpdateBookingRange(ctx context.Context, id uint, r utils.DateRange, totalPrice float64) (*models.Booking, error)
}

// CarStore reads the car's daily rate, owner and soft availability flag.
type CarStore interface {
	GetCar(ctx context.Context, id uint) (*models.Car, error)
}

// PromoStore resolves promo codes; unknown codes return ErrNotFound.
type PromoStore interface {
	ResolvePromo(ctx context.Context, code string) (*models.Promo, error)
}
