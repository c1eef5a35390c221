package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
)

// Engine owns the booking lifecycle: create, confirm, cancel, modify. It
// trusts the BookingStore for the no-overlap invariant — its own availability
// check only narrows the race window, the store's atomic recheck-then-commit
// closes it. Every successful transition updates exactly one booking record.
type Engine struct {
	bookings BookingStore
	cars     CarStore
	promos   PromoStore
	guard    *Guard
	now      func() time.Time
}

func NewEngine(bookings BookingStore, cars CarStore, promos PromoStore) *Engine {
	return &Engine{
		bookings: bookings,
		cars:     cars,
		promos:   promos,
		now:      time.Now,
	}
}

// UseGuard routes store authorization failures through g so stale credentials
// are invalidated once and surfaced as ErrSessionExpired.
func (e *Engine) UseGuard(g *Guard) {
	e.guard = g
}

func (e *Engine) wrap(err error) error {
	err = asEngineErr(err)
	if e.guard != nil {
		return e.guard.Wrap(err)
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrSessionExpired
	}
	return err
}

// resolvePromo maps an unknown code to ErrInvalidPromo. An empty code means
// no promo was requested.
func (e *Engine) resolvePromo(ctx context.Context, code string) (*models.Promo, error) {
	if code == "" {
		return nil, nil
	}
	promo, err := e.promos.ResolvePromo(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidPromo
		}
		return nil, e.wrap(err)
	}
	return promo, nil
}

// Quote prices a candidate rental without touching the calendar.
func (e *Engine) Quote(ctx context.Context, carID uint, start, end time.Time, promoCode string) (utils.QuoteResult, error) {
	r, err := utils.NewDateRange(start, end)
	if err != nil {
		return utils.QuoteResult{}, err
	}

	car, err := e.cars.GetCar(ctx, carID)
	if err != nil {
		return utils.QuoteResult{}, e.wrap(err)
	}

	promo, err := e.resolvePromo(ctx, promoCode)
	if err != nil {
		return utils.QuoteResult{}, err
	}

	return utils.Quote(car.DailyPrice, r.Days(), promo, e.now())
}

// Create books carID for [start, end). The overlap state seen by any earlier
// CheckAvailable call is discarded: the store re-checks at commit. New
// bookings are persisted as Pending and wait for the owner's confirmation.
func (e *Engine) Create(ctx context.Context, s *Session, carID uint, start, end time.Time, promoCode string) (*models.Booking, error) {
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
		return nil, ErrCarUnavailable
	}

	promo, err := e.resolvePromo(ctx, promoCode)
	if err != nil {
		return nil, err
	}

	quote, err := utils.Quote(car.DailyPrice, r.Days(), promo, e.now())
	if err != nil {
		return nil, err
	}

	booking, err := e.bookings.CreateBooking(ctx, BookingDraft{
		Reference:  uuid.NewString(),
		CarID:      carID,
		RenterID:   s.UserID,
		Range:      r,
		Status:     models.BookingStatusPending,
		TotalPrice: quote.Total,
		PromoCode:  quote.PromoCode,
	})
	if err != nil {
		return nil, e.wrap(err)
	}
	return booking, nil
}

// Confirm moves a Pending booking to Confirmed. Only the car's owner may
// confirm. Confirming an already-Confirmed booking is a no-op success. The
// actor check runs before the no-op path: idempotency relaxes the status
// precondition, never the authorization one.
func (e *Engine) Confirm(ctx context.Context, s *Session, bookingID uint) (*models.Booking, error) {
	if err := requireSession(s, e.now()); err != nil {
		return nil, err
	}

	booking, err := e.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, e.wrap(err)
	}

	car, err := e.cars.GetCar(ctx, booking.CarID)
	if err != nil {
		return nil, e.wrap(err)
	}
	if car.OwnerID != s.UserID {
		return nil, ErrForbidden
	}

	if booking.Status == models.BookingStatusConfirmed {
		return booking, nil
	}
	if booking.Status == models.BookingStatusCanceled {
		return nil, ErrBookingCanceled
	}

	updated, err := e.bookings.UpdateBookingStatus(ctx, bookingID, models.BookingStatusConfirmed)
	if err != nil {
		return nil, e.wrap(err)
	}
	return updated, nil
}

// Cancel releases the booking's dates. Allowed for the renter or the car's
// owner. Canceling an already-Canceled booking succeeds without another
// write: "nothing to do" is not "not found".
func (e *Engine) Cancel(ctx context.Context, s *Session, bookingID uint) (*models.Booking, error) {
	if err := requireSession(s, e.now()); err != nil {
		return nil, err
	}

	booking, err := e.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, e.wrap(err)
	}

	car, err := e.cars.GetCar(ctx, booking.CarID)
	if err != nil {
		return nil, e.wrap(err)
	}
	if booking.RenterID != s.UserID && car.OwnerID != s.UserID {
		return nil, ErrForbidden
	}

	if booking.Status == models.BookingStatusCanceled {
		return booking, nil
	}

	updated, err := e.bookings.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCanceled)
	if err != nil {
		return nil, e.wrap(err)
	}
	return updated, nil
}

// Modify moves a non-Canceled booking to a new date range. The store re-runs
// the overlap check excluding the booking's own current interval, so moving a
// booking onto itself never self-conflicts. The price is recomputed for the
// new length; the stored promo is reapplied only while it is still valid.
func (e *Engine) Modify(ctx context.Context, s *Session, bookingID uint, start, end time.Time) (*models.Booking, error) {
	r, err := utils.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if err := requireSession(s, e.now()); err != nil {
		return nil, err
	}

	booking, err := e.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, e.wrap(err)
	}
	if booking.Status == models.BookingStatusCanceled {
		return nil, ErrBookingCanceled
	}

	car, err := e.cars.GetCar(ctx, booking.CarID)
	if err != nil {
		return nil, e.wrap(err)
	}
	if booking.RenterID != s.UserID && car.OwnerID != s.UserID {
		return nil, ErrForbidden
	}

	// A promo that lapsed or was deleted since booking drops to base price,
	// but a store failure must not be mistaken for a lapsed promo.
	var promo *models.Promo
	if booking.PromoCode != "" {
		p, perr := e.promos.ResolvePromo(ctx, booking.PromoCode)
		switch {
		case perr == nil:
			if p.ValidAt(e.now()) {
				promo = p
			}
		case errors.Is(perr, ErrNotFound):
		default:
			return nil, e.wrap(perr)
		}
	}

	quote, err := utils.Quote(car.DailyPrice, r.Days(), promo, e.now())
	if err != nil {
		return nil, err
	}

	updated, err := e.bookings.UpdateBookingRange(ctx, bookingID, r, quote.Total)
	if err != nil {
		return nil, e.wrap(err)
	}
	return updated, nil
}
