package firestore

import (
	"context"
	"errors"
	"time"

	"google.golang.org/api/iterator"

	pfirestore "github.com/coz-coffee/api/internal/platform/firestore"
	"github.com/coz-coffee/api/internal/repositories"
)

const defaultPingTimeout = 1500 * time.Millisecond

// HealthRepository probes the Firestore backend for readiness checks.
type HealthRepository struct {
	provider   *pfirestore.Provider
	collection string
	timeout    time.Duration
}

// NewHealthRepository constructs a Firestore-backed health repository.
func NewHealthRepository(provider *pfirestore.Provider, collection string) (*HealthRepository, error) {
	if provider == nil {
		return nil, errors.New("health repository requires firestore provider")
	}
	if collection == "" {
		collection = defaultTransactionCollection
	}
	return &HealthRepository{
		provider:   provider,
		collection: collection,
		timeout:    defaultPingTimeout,
	}, nil
}

// Ping issues a minimal read against the backing collection.
func (r *HealthRepository) Ping(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return errors.New("health repository not initialised")
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}

	iter := client.Collection(r.collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil {
		// An empty collection is healthy.
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return pfirestore.WrapError("health.ping", err)
	}
	return nil
}

var _ repositories.HealthRepository = (*HealthRepository)(nil)
