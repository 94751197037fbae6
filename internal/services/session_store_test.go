package services

import (
	"testing"
	"time"

	"github.com/coz-coffee/api/internal/domain"
)

func TestSessionStoreSweepsExpiredSessions(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	store := NewSessionCartStore(time.Hour, func() time.Time { return now })

	if err := store.WithCart("old", func(*domain.Cart) error { return nil }); err != nil {
		t.Fatalf("WithCart: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if err := store.WithCart("fresh", func(*domain.Cart) error { return nil }); err != nil {
		t.Fatalf("WithCart: %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("expected expired session swept, got %d sessions", store.Len())
	}
}

func TestSessionStoreKeepsActiveSessionAlive(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	store := NewSessionCartStore(time.Hour, func() time.Time { return now })

	if err := store.WithCart("s1", func(cart *domain.Cart) error {
		cart.Add(domain.CartItem{Name: "Latte", Quantity: 1})
		return nil
	}); err != nil {
		t.Fatalf("WithCart: %v", err)
	}

	// Touch the session just inside the TTL, then advance past the original
	// deadline; the touch must have extended it.
	now = now.Add(50 * time.Minute)
	if err := store.WithCart("s1", func(*domain.Cart) error { return nil }); err != nil {
		t.Fatalf("WithCart: %v", err)
	}

	now = now.Add(50 * time.Minute)
	var length int
	if err := store.WithCart("s1", func(cart *domain.Cart) error {
		length = cart.Len()
		return nil
	}); err != nil {
		t.Fatalf("WithCart: %v", err)
	}
	if length != 1 {
		t.Fatalf("active session lost its cart, got %d lines", length)
	}
}

func TestSessionStoreRejectsBlankSession(t *testing.T) {
	store := NewSessionCartStore(0, nil)
	if err := store.WithCart("", func(*domain.Cart) error { return nil }); err == nil {
		t.Fatal("expected error for blank session id")
	}
}
