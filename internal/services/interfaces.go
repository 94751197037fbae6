package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coz-coffee/api/internal/domain"
)

// CartLine is one cart entry as exposed to handlers.
type CartLine struct {
	Name        string
	Image       string
	Temperature domain.Temperature
	Milk        domain.Milk
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
}

// CartView is a read model of a session cart.
type CartView struct {
	Items    []CartLine
	Subtotal decimal.Decimal
}

// AddItemCommand carries the input for adding a drink to a session cart.
type AddItemCommand struct {
	SessionID   string
	DrinkName   string
	Temperature string
	Milk        string
	Quantity    int
}

// CartService manages session-scoped carts.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (CartView, error)
	AddItem(ctx context.Context, cmd AddItemCommand) (CartView, error)
	RemoveItem(ctx context.Context, sessionID string, index int) (CartView, error)
	Clear(ctx context.Context, sessionID string) error
}

// OrderReceipt acknowledges a submitted order.
type OrderReceipt struct {
	ReferenceNumber string
	Total           decimal.Decimal
	SubmittedAt     time.Time
}

// CheckoutService submits the session cart as an order.
type CheckoutService interface {
	SubmitOrder(ctx context.Context, sessionID string) (OrderReceipt, error)
}

// ReportRow is one admitted transaction in a report result set.
type ReportRow struct {
	ID              string
	ReferenceNumber string
	Date            time.Time
	Customer        string
	Total           decimal.Decimal
	Status          domain.TransactionStatus
	Payment         domain.PaymentMethod
	Items           []domain.LineItem
}

// ReportView bundles the result rows with their aggregate summary.
type ReportView struct {
	Rows    []ReportRow
	Summary domain.ReportSummary
}

// RunReportCommand carries a report query for one session.
type RunReportCommand struct {
	SessionID string
	Filter    domain.ReportFilter
}

// ReportService builds, re-sorts, and hands out transaction reports per session.
type ReportService interface {
	Run(ctx context.Context, cmd RunReportCommand) (ReportView, error)
	SortByCustomer(ctx context.Context, sessionID string) (ReportView, error)
	Held(ctx context.Context, sessionID string) (ReportView, domain.ReportFilter, error)
}
