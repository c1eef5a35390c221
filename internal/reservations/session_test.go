package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenSource struct {
	session     *Session
	err         error
	invalidated int
}

func (f *fakeTokenSource) Current() (*Session, error) { return f.session, f.err }
func (f *fakeTokenSource) Invalidate()                { f.invalidated++ }

func TestSessionValid(t *testing.T) {
	now := time.Now()

	assert.True(t, (&Session{UserID: 1, ExpiresAt: now.Add(time.Hour)}).Valid(now))
	assert.False(t, (&Session{UserID: 1, ExpiresAt: now.Add(-time.Hour)}).Valid(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Hour)}).Valid(now), "zero user id")

	var nilSession *Session
	assert.False(t, nilSession.Valid(now))
}

func TestGuard_LiveSessionPassesThrough(t *testing.T) {
	src := &fakeTokenSource{session: &Session{UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}}
	guard := NewGuard(src)

	s, err := guard.Session()
	require.NoError(t, err)
	assert.Equal(t, uint(7), s.UserID)
	assert.Zero(t, src.invalidated)
}

func TestGuard_ExpiredSessionInvalidatesOnce(t *testing.T) {
	src := &fakeTokenSource{session: &Session{UserID: 7, ExpiresAt: time.Now().Add(-time.Minute)}}
	guard := NewGuard(src)

	_, err := guard.Session()
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = guard.Session()
	assert.ErrorIs(t, err, ErrSessionExpired)

	assert.Equal(t, 1, src.invalidated, "stale token cleared exactly once")
}

func TestGuard_WrapTranslatesUnauthorized(t *testing.T) {
	src := &fakeTokenSource{session: &Session{UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}}
	guard := NewGuard(src)

	err := guard.Wrap(ErrUnauthorized)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, src.invalidated)

	// unrelated errors pass through untouched
	sentinel := errors.New("boom")
	assert.Equal(t, sentinel, guard.Wrap(sentinel))
	assert.Equal(t, 1, src.invalidated)
}

func TestGuard_ResetReArms(t *testing.T) {
	src := &fakeTokenSource{session: &Session{UserID: 7, ExpiresAt: time.Now().Add(-time.Minute)}}
	guard := NewGuard(src)

	_, _ = guard.Session()
	require.Equal(t, 1, src.invalidated)

	guard.Reset()
	src.session = &Session{UserID: 7, ExpiresAt: time.Now().Add(-time.Minute)}
	_, _ = guard.Session()
	assert.Equal(t, 2, src.invalidated, "a fresh expiry after reset invalidates again")
}

// unauthorizedStore simulates a store that rejects the caller's credentials.
type unauthorizedStore struct {
	BookingStore
}

func (s *unauthorizedStore) CreateBooking(ctx context.Context, draft BookingDraft) (*models.Booking, error) {
	return nil, ErrUnauthorized
}

func TestEngine_StoreAuthFailureSurfacesAsSessionExpired(t *testing.T) {
	store := NewMemoryStore()
	car := &models.Car{OwnerID: ownerID, CarModel: "Honda Vezel", DailyPrice: 80, Availability: models.CarAvailable, Location: "Sylhet"}
	store.PutCar(car)

	src := &fakeTokenSource{session: &Session{UserID: renterID, ExpiresAt: time.Now().Add(time.Hour)}}
	guard := NewGuard(src)

	engine := NewEngine(&unauthorizedStore{store}, store, store)
	engine.UseGuard(guard)

	_, err := engine.Create(context.Background(), session(renterID), car.ID,
		utils.NormalizeDate(time.Now()), utils.NormalizeDate(time.Now().AddDate(0, 0, 2)), "")
	assert.ErrorIs(t, err, ErrSessionExpired, "raw store error never reaches the caller")
	assert.Equal(t, 1, src.invalidated)
}
