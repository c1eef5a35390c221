package database

import (
	"context"
	"errors"
	"strings"

	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/internal/reservations"
	"github.com/rentwheels/rentwheels-backend/internal/services"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the Postgres-backed implementation of the reservation engine's
// store ports. Writes that touch a car's calendar run in a transaction that
// locks the car row, so concurrent creates/modifies for the same car are
// serialized; the bookings_no_overlap exclusion constraint backstops the
// in-transaction check.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetCar(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	if err := s.db.WithContext(ctx).First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservations.ErrNotFound
		}
		return nil, err
	}
	return &car, nil
}

func (s *Store) ResolvePromo(ctx context.Context, code string) (*models.Promo, error) {
	if promo, ok := services.GetCachedPromo(ctx, code); ok {
		return promo, nil
	}

	var promo models.Promo
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservations.ErrNotFound
		}
		return nil, err
	}

	services.CachePromo(ctx, &promo)
	return &promo, nil
}

func (s *Store) ListActiveForCar(ctx context.Context, carID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("car_id = ? AND status IN ?", carID, activeStatuses()).
		Order("start_date").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *Store) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservations.ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// CreateBooking re-checks overlap and inserts inside one transaction.
func (s *Store) CreateBooking(ctx context.Context, draft reservations.BookingDraft) (*models.Booking, error) {
	booking := models.Booking{
		Reference:  draft.Reference,
		CarID:      draft.CarID,
		RenterID:   draft.RenterID,
		StartDate:  draft.Range.Start,
		EndDate:    draft.Range.End,
		Status:     draft.Status,
		TotalPrice: draft.TotalPrice,
		PromoCode:  draft.PromoCode,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCar(tx, draft.CarID); err != nil {
			return err
		}
		if err := checkNoOverlap(tx, draft.CarID, draft.Range, 0); err != nil {
			return err
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, asStoreErr(err)
	}
	return &booking, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			return err
		}
		booking.Status = status
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, asStoreErr(err)
	}
	return &booking, nil
}

// UpdateBookingRange re-checks overlap excluding the booking itself, then
// writes the new range and price in the same transaction.
func (s *Store) UpdateBookingRange(ctx context.Context, id uint, r utils.DateRange, totalPrice float64) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			return err
		}
		if err := lockCar(tx, booking.CarID); err != nil {
			return err
		}
		if err := checkNoOverlap(tx, booking.CarID, r, id); err != nil {
			return err
		}
		booking.StartDate = r.Start
		booking.EndDate = r.End
		booking.TotalPrice = totalPrice
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, asStoreErr(err)
	}
	return &booking, nil
}

func activeStatuses() []models.BookingStatus {
	return []models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}
}

// lockCar takes a row lock on the car so concurrent calendar writes for the
// same car queue up behind each other.
func lockCar(tx *gorm.DB, carID uint) error {
	var car models.Car
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&car, carID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reservations.ErrNotFound
	}
	return err
}

func checkNoOverlap(tx *gorm.DB, carID uint, r utils.DateRange, excludeID uint) error {
	var count int64
	q := tx.Model(&models.Booking{}).
		Where("car_id = ? AND status IN ?", carID, activeStatuses()).
		Where("start_date < ? AND ? < end_date", r.End, r.Start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return reservations.ErrDateConflict
	}
	return nil
}

func asStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return reservations.ErrNotFound
	// exclusion_violation from bookings_no_overlap when a racing write slips
	// past the in-transaction check
	case strings.Contains(err.Error(), "bookings_no_overlap"):
		return reservations.ErrDateConflict
	default:
		return err
	}
}
