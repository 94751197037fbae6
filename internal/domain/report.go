package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter carries the active report-narrowing predicates. Empty string
// fields mean the filter is absent and matches everything; a zero Start or
// End means no date range has been chosen yet.
type ReportFilter struct {
	Start       time.Time
	End         time.Time
	Size        Size
	Milk        Milk
	Temperature Temperature
	Payment     PaymentMethod
	Status      TransactionStatus
}

// HasRange reports whether both date bounds are set.
func (f ReportFilter) HasRange() bool {
	return !f.Start.IsZero() && !f.End.IsZero()
}

// MatchesItem applies the per-line filters. A line item is retained iff it
// matches every set filter among size, milk, and temperature.
func (f ReportFilter) MatchesItem(item LineItem) bool {
	if f.Size != "" && item.Size != f.Size {
		return false
	}
	if f.Milk != "" && item.Milk != f.Milk {
		return false
	}
	if f.Temperature != "" && item.Temperature != f.Temperature {
		return false
	}
	return true
}

// MatchesTransaction applies the transaction-level filters (payment, status).
func (f ReportFilter) MatchesTransaction(record TransactionRecord) bool {
	if f.Payment != "" && record.Payment != f.Payment {
		return false
	}
	if f.Status != "" && record.Status != f.Status {
		return false
	}
	return true
}

// ReportSummary holds the running totals recomputed on every fetch.
// TotalSales sums each admitted transaction's original total, while
// TotalItems counts only the quantities of line items surviving the filters.
type ReportSummary struct {
	TotalSales        decimal.Decimal
	TotalItems        int
	TotalTransactions int
}

// ZeroSummary returns an all-zero summary.
func ZeroSummary() ReportSummary {
	return ReportSummary{TotalSales: decimal.Zero}
}
