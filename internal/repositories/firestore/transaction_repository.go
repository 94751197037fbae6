package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"

	"github.com/coz-coffee/api/internal/domain"
	pfirestore "github.com/coz-coffee/api/internal/platform/firestore"
	"github.com/coz-coffee/api/internal/repositories"
)

const defaultTransactionCollection = "transactions"

// TransactionRepository reads completed orders from Firestore.
//
// Documents are decoded defensively: the collection is written by several
// point-of-sale clients and older documents miss fields or carry them with a
// different dynamic type, so every field falls back to a sane default rather
// than failing the whole report.
type TransactionRepository struct {
	base *pfirestore.BaseRepository[map[string]any]
}

// NewTransactionRepository constructs a Firestore-backed transaction repository.
func NewTransactionRepository(provider *pfirestore.Provider, collection string) (*TransactionRepository, error) {
	if provider == nil {
		return nil, errors.New("transaction repository requires firestore provider")
	}
	name := strings.TrimSpace(collection)
	if name == "" {
		name = defaultTransactionCollection
	}
	base := pfirestore.NewBaseRepository(provider, name, pfirestore.MapDecoder())
	return &TransactionRepository{base: base}, nil
}

// ListByCreatedRange returns every transaction created within [start, end].
func (r *TransactionRepository) ListByCreatedRange(ctx context.Context, start, end time.Time) ([]domain.TransactionRecord, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("transaction repository not initialised")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("transaction repository: end %s before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.
			Where("created_at", ">=", start).
			Where("created_at", "<=", end)
	})
	if err != nil {
		return nil, err
	}

	records := make([]domain.TransactionRecord, 0, len(docs))
	for _, doc := range docs {
		record, err := decodeTransaction(doc.ID, doc.Data)
		if err != nil {
			return nil, fmt.Errorf("transaction repository: document %s: %w", doc.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// decodeTransaction converts a raw Firestore document into a TransactionRecord.
func decodeTransaction(id string, data map[string]any) (domain.TransactionRecord, error) {
	record := domain.TransactionRecord{
		ID:              id,
		ReferenceNumber: stringField(data, "reference_number", ""),
		CustomerName:    stringField(data, "customer_name", "N/A"),
		TotalPrice:      decimalField(data, "total_price"),
		Status:          domain.TransactionStatus(stringField(data, "status", string(domain.StatusUnpaid))),
		Payment:         domain.PaymentMethod(stringField(data, "payment_method", string(domain.PaymentCash))),
	}

	createdAt, err := timeField(data, "created_at")
	if err != nil {
		return domain.TransactionRecord{}, err
	}
	record.CreatedAt = createdAt

	items, err := itemsField(data, "items")
	if err != nil {
		return domain.TransactionRecord{}, err
	}
	record.Items = items

	return record, nil
}

func stringField(data map[string]any, key, fallback string) string {
	raw, ok := data[key]
	if !ok || raw == nil {
		return fallback
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func decimalField(data map[string]any, key string) decimal.Decimal {
	switch value := data[key].(type) {
	case float64:
		return decimal.NewFromFloat(value)
	case int64:
		return decimal.NewFromInt(value)
	case int:
		return decimal.NewFromInt(int64(value))
	case string:
		if parsed, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return decimal.Zero
}

func timeField(data map[string]any, key string) (time.Time, error) {
	switch value := data[key].(type) {
	case time.Time:
		return value, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
		if err != nil {
			return time.Time{}, fmt.Errorf("field %s: %w", key, err)
		}
		return parsed, nil
	case int64:
		return time.Unix(value, 0).UTC(), nil
	case float64:
		return time.Unix(int64(value), 0).UTC(), nil
	case nil:
		return time.Time{}, fmt.Errorf("field %s: missing", key)
	default:
		return time.Time{}, fmt.Errorf("field %s: unsupported type %T", key, value)
	}
}

func itemsField(data map[string]any, key string) ([]domain.LineItem, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return []domain.LineItem{}, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("field %s: unsupported type %T", key, raw)
	}

	items := make([]domain.LineItem, 0, len(entries))
	for i, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %s[%d]: unsupported type %T", key, i, entry)
		}
		items = append(items, domain.LineItem{
			Name:        stringField(fields, "name", ""),
			Quantity:    intField(fields, "quantity"),
			Temperature: domain.Temperature(stringField(fields, "temperature", string(domain.TemperatureNone))),
			Milk:        domain.Milk(stringField(fields, "milk", string(domain.MilkNone))),
			Size:        domain.Size(stringField(fields, "size", string(domain.SizeRegular))),
		})
	}
	return items, nil
}

func intField(data map[string]any, key string) int {
	switch value := data[key].(type) {
	case int64:
		return int(value)
	case int:
		return value
	case float64:
		return int(value)
	}
	return 0
}

var _ repositories.TransactionRepository = (*TransactionRepository)(nil)
