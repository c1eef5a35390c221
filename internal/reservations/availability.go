package reservations

import (
	"context"
	"time"

	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
)

// Availability is the answer to "can these dates become a booking?". When
// Available is false, Conflicts holds the active bookings in the way (empty
// when the car's soft flag is off).
type Availability struct {
	Available bool             `json:"available"`
	Conflicts []models.Booking `json:"conflicts"`
}

// CheckAvailable reports whether carID is free for [start, end). The answer
// is advisory: another renter can commit between this check and Create, so
// Create always re-checks atomically at the store and its verdict wins.
func (e *Engine) CheckAvailable(ctx context.Context, s *Session, carID uint, start, end time.Time) (*Availability, error) {
	r, err := utils.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := requireSession(s, e.now()); err != nil {
		return nil, err
	}

	car, err := e.cars.GetCar(ctx, carID)
	if err != nil {
		return nil, e.wrap(err)
	}
	if car.Availability != models.CarAvailable {
		return &Availability{Available: false}, nil
	}

	conflicts, err := e.overlapping(ctx, carID, r, 0)
	if err != nil {
		return nil, e.wrap(err)
	}
	return &Availability{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// BookedRanges lists the active bookings for a car so callers can render the
// unavailable ranges on a calendar.
func (e *Engine) BookedRanges(ctx context.Context, carID uint) ([]models.Booking, error) {
	if _, err := e.cars.GetCar(ctx, carID); err != nil {
		return nil, e.wrap(err)
	}
	bookings, err := e.bookings.ListActiveForCar(ctx, carID)
	if err != nil {
		return nil, e.wrap(err)
	}
	return bookings, nil
}

// overlapping returns the active bookings whose intervals overlap r,
// skipping excludeID (0 means exclude nothing).
func (e *Engine) overlapping(ctx context.Context, carID uint, r utils.DateRange, excludeID uint) ([]models.Booking, error) {
	active, err := e.bookings.ListActiveForCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	var conflicts []models.Booking
	for _, b := range active {
		if b.ID == excludeID {
			continue
		}
		existing := utils.DateRange{Start: b.StartDate, End: b.EndDate}
		if r.Overlaps(existing) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}
