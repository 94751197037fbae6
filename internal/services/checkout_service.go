package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/coz-coffee/api/internal/domain"
)

var errCheckoutStoreRequired = errors.New("checkout service: store is required")

// ErrCheckoutEmptyCart indicates the session cart has nothing to submit.
var ErrCheckoutEmptyCart = errors.New("checkout service: cart is empty")

// ErrCheckoutUnavailable indicates the checkout service cannot fulfil the request.
var ErrCheckoutUnavailable = errors.New("checkout service: unavailable")

// CheckoutServiceDeps wires the cart store and clock for order submission.
type CheckoutServiceDeps struct {
	Store       *SessionCartStore
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
}

// checkoutService acknowledges orders without persisting them. Payment and
// order storage are future work; the receipt is the extension point.
type checkoutService struct {
	store  *SessionCartStore
	now    func() time.Time
	newRef func() string
	logger func(context.Context, string, map[string]any)
}

// NewCheckoutService constructs a CheckoutService enforcing dependency validation.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Store == nil {
		return nil, errCheckoutStoreRequired
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newRef := deps.IDGenerator
	if newRef == nil {
		newRef = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &checkoutService{
		store:  deps.Store,
		now:    func() time.Time { return clock().UTC() },
		newRef: newRef,
		logger: logger,
	}, nil
}

// SubmitOrder validates the cart is non-empty, clears it, and returns a receipt.
func (s *checkoutService) SubmitOrder(ctx context.Context, sessionID string) (OrderReceipt, error) {
	if s == nil || s.store == nil {
		return OrderReceipt{}, ErrCheckoutUnavailable
	}

	var receipt OrderReceipt
	err := s.store.WithCart(sessionID, func(cart *domain.Cart) error {
		if cart.Len() == 0 {
			return ErrCheckoutEmptyCart
		}

		ref := strings.TrimSpace(s.newRef())
		if ref == "" {
			return ErrCheckoutUnavailable
		}

		receipt = OrderReceipt{
			ReferenceNumber: ref,
			Total:           cart.Subtotal(),
			SubmittedAt:     s.now(),
		}
		cart.Clear()
		return nil
	})
	if err != nil {
		return OrderReceipt{}, err
	}

	s.logger(ctx, "checkout.order_submitted", map[string]any{
		"reference": receipt.ReferenceNumber,
		"total":     receipt.Total.String(),
	})
	return receipt, nil
}
