package reservations

import (
	"context"
	"sync"
	"time"

	"github.com/rentwheels/rentwheels-backend/internal/models"
	"github.com/rentwheels/rentwheels-backend/pkg/utils"
)

// MemoryStore is an in-process implementation of the store ports. A single
// mutex serializes writes, which is exactly the atomicity BookingStore asks
// for: the overlap re-check and the insert happen under one lock. Used by
// the test suite and for running the API without Postgres.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   uint
	bookings map[uint]*models.Booking
	cars     map[uint]*models.Car
	promos   map[string]*models.Promo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		bookings: make(map[uint]*models.Booking),
		cars:     make(map[uint]*models.Car),
		promos:   make(map[string]*models.Promo),
	}
}

// PutCar registers or replaces a car.
func (m *MemoryStore) PutCar(car *models.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if car.ID == 0 {
		car.ID = m.nextID
		m.nextID++
	}
	m.cars[car.ID] = car
}

// PutPromo registers or replaces a promo by code.
func (m *MemoryStore) PutPromo(promo *models.Promo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos[promo.Code] = promo
}

func (m *MemoryStore) GetCar(ctx context.Context, id uint) (*models.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *car
	return &cp, nil
}

func (m *MemoryStore) ResolvePromo(ctx context.Context, code string) (*models.Promo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	promo, ok := m.promos[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *promo
	return &cp, nil
}

func (m *MemoryStore) ListActiveForCar(ctx context.Context, carID uint) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.CarID == carID && b.Status.Active() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *MemoryStore) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// CreateBooking re-checks overlap and inserts under one lock.
func (m *MemoryStore) CreateBooking(ctx context.Context, draft BookingDraft) (*models.Booking, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cars[draft.CarID]; !ok {
		return nil, ErrNotFound
	}
	if m.hasOverlapLocked(draft.CarID, draft.Range, 0) {
		return nil, ErrDateConflict
	}

	b := &models.Booking{
		Reference:  draft.Reference,
		CarID:      draft.CarID,
		RenterID:   draft.RenterID,
		StartDate:  draft.Range.Start,
		EndDate:    draft.Range.End,
		Status:     draft.Status,
		TotalPrice: draft.TotalPrice,
		PromoCode:  draft.PromoCode,
	}
	b.ID = m.nextID
	m.nextID++
	b.CreatedAt = time.Now().UTC()
	m.bookings[b.ID] = b

	cp := *b
	return &cp, nil
}

func (m *MemoryStore) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

// UpdateBookingRange re-checks overlap (excluding the booking itself) and
// writes the new range and price as one step under the lock.
func (m *MemoryStore) UpdateBookingRange(ctx context.Context, id uint, r utils.DateRange, totalPrice float64) (*models.Booking, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.hasOverlapLocked(b.CarID, r, id) {
		return nil, ErrDateConflict
	}

	b.StartDate = r.Start
	b.EndDate = r.End
	b.TotalPrice = totalPrice
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) hasOverlapLocked(carID uint, r utils.DateRange, excludeID uint) bool {
	for _, existing := range m.bookings {
		if existing.CarID != carID || existing.ID == excludeID || !existing.Status.Active() {
			continue
		}
		if r.Overlaps(utils.DateRange{Start: existing.StartDate, End: existing.EndDate}) {
			return true
		}
	}
	return false
}
