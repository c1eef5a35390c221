package reservations

import (
	"errors"
	"sync"
	"time"
)

// Session is an explicit authorization value threaded through every engine
// call. Nothing in the engine reads tokens from ambient state.
type Session struct {
	UserID    uint
	Email     string
	ExpiresAt time.Time
}

// Valid reports whether the session can still authorize calls at now.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.UserID != 0 && now.Before(s.ExpiresAt)
}

// TokenSource supplies the caller's current session and can forget it.
type TokenSource interface {
	Current() (*Session, error)
	Invalidate()
}

// Guard gates engine calls on a live session. When the underlying store
// rejects the credentials it clears the cached token and surfaces a single
// ErrSessionExpired so callers can redirect to re-authentication uniformly.
// It never retries the failed call: a retried create could double-book.
type Guard struct {
	source TokenSource
	now    func() time.Time

	mu      sync.Mutex
	expired bool
}

func NewGuard(source TokenSource) *Guard {
	return &Guard{source: source, now: time.Now}
}

// Session returns the current session or ErrSessionExpired.
func (g *Guard) Session() (*Session, error) {
	s, err := g.source.Current()
	if err != nil || !s.Valid(g.now()) {
		g.markExpired()
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Wrap translates store-side authorization failures. All other errors pass
// through untouched.
func (g *Guard) Wrap(err error) error {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrSessionExpired) {
		g.markExpired()
		return ErrSessionExpired
	}
	return err
}

func (g *Guard) markExpired() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.expired {
		g.expired = true
		g.source.Invalidate()
	}
}

// Reset re-arms the guard after the caller re-authenticated.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expired = false
}

// requireSession validates the explicit session passed into an engine call.
func requireSession(s *Session, now time.Time) error {
	if !s.Valid(now) {
		return ErrSessionExpired
	}
	return nil
}
