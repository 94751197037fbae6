package services

import (
	"strings"
	"sync"
	"time"

	"github.com/coz-coffee/api/internal/domain"
)

const defaultSessionTTL = 12 * time.Hour

type cartSession struct {
	cart       domain.Cart
	lastAccess time.Time
}

// SessionCartStore holds the in-memory carts keyed by session ID. Carts are
// deliberately not persisted; a restart empties every session. Entries expire
// by last access and are swept opportunistically on the next store operation.
type SessionCartStore struct {
	mu       sync.Mutex
	sessions map[string]*cartSession
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionCartStore constructs an empty store with the given TTL.
func NewSessionCartStore(ttl time.Duration, clock func() time.Time) *SessionCartStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &SessionCartStore{
		sessions: make(map[string]*cartSession),
		ttl:      ttl,
		now:      clock,
	}
}

// WithCart runs fn against the session's cart under the store lock, creating
// the session when absent. Mutations made by fn are retained.
func (s *SessionCartStore) WithCart(sessionID string, fn func(cart *domain.Cart) error) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return ErrCartInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	session, ok := s.sessions[id]
	if !ok {
		session = &cartSession{}
		s.sessions[id] = session
	}
	session.lastAccess = now

	return fn(&session.cart)
}

// Len reports the number of live sessions.
func (s *SessionCartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionCartStore) sweepLocked(now time.Time) {
	cutoff := now.Add(-s.ttl)
	for id, session := range s.sessions {
		if session.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
