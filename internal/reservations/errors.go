package reservations

import (
	"context"
	"errors"

	"github.com/rentwheels/rentwheels-backend/pkg/utils"
)

// The engine reports failures as sentinel errors so callers can branch on
// kind. Wrapped causes stay reachable through errors.Is/errors.As.
var (
	// ErrInvalidRange: malformed or zero/negative-length date span.
	ErrInvalidRange = utils.ErrInvalidRange
	// ErrInvalidPromo: unknown, inactive or expired promo code.
	ErrInvalidPromo = utils.ErrInvalidPromo

	// ErrDateConflict: the authoritative store found an overlapping active
	// booking at commit time. Never safe to retry blindly.
	ErrDateConflict = errors.New("requested dates conflict with an existing booking")

	// ErrSessionExpired: the caller's session is missing, expired or was
	// rejected by the store. The caller must re-authenticate and restart
	// the flow; the engine never retries on its behalf.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnauthorized is what stores return for rejected credentials; the
	// session guard translates it to ErrSessionExpired before it reaches
	// presentation code.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden: the session is valid but the actor may not perform
	// this operation (e.g. canceling someone else's booking).
	ErrForbidden = errors.New("forbidden")

	// ErrTimeout: the underlying call timed out before anything was
	// committed. Safe to retry.
	ErrTimeout = errors.New("operation timed out")

	// ErrCarUnavailable: the owner has switched the car's soft availability
	// flag off; no date range can be booked until it is back on.
	ErrCarUnavailable = errors.New("car is not open for booking")

	// ErrBookingCanceled: the requested transition is not allowed because
	// the booking has already reached its terminal Canceled state.
	ErrBookingCanceled = errors.New("booking is canceled")

	ErrNotFound = errors.New("not found")
)

// asEngineErr maps transport-level failures onto the engine's taxonomy and
// leaves already-typed errors alone.
func asEngineErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return err
	}
}
