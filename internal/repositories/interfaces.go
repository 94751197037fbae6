package repositories

import (
	"context"
	"time"

	"github.com/coz-coffee/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation
// used by services. The store is read-only here, so the categories are the
// two a read path can hit.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsUnavailable() bool
}

// TransactionRepository reads completed orders from the transaction store.
type TransactionRepository interface {
	// ListByCreatedRange returns every transaction created within [start, end],
	// inclusive on both ends, in no particular order.
	ListByCreatedRange(ctx context.Context, start, end time.Time) ([]domain.TransactionRecord, error)
}

// HealthRepository exposes status of the transaction store for readiness checks.
type HealthRepository interface {
	Ping(ctx context.Context) error
}
