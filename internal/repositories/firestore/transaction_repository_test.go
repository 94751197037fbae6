package firestore

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coz-coffee/api/internal/domain"
)

func decimalFromString(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return parsed
}

func TestDecodeTransactionFullDocument(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	data := map[string]any{
		"reference_number": "CZ-000123",
		"customer_name":    "Alex",
		"total_price":      float64(420.5),
		"created_at":       createdAt,
		"status":           "paid",
		"payment_method":   "gcash",
		"items": []any{
			map[string]any{
				"name":        "Latte",
				"quantity":    int64(3),
				"temperature": "hot",
				"milk":        "oat",
				"size":        "upsize",
			},
		},
	}

	record, err := decodeTransaction("doc-1", data)
	if err != nil {
		t.Fatalf("decodeTransaction: %v", err)
	}

	if record.ID != "doc-1" {
		t.Errorf("unexpected id %s", record.ID)
	}
	if record.ReferenceNumber != "CZ-000123" {
		t.Errorf("unexpected reference %s", record.ReferenceNumber)
	}
	if record.CustomerName != "Alex" {
		t.Errorf("unexpected customer %s", record.CustomerName)
	}
	if !record.TotalPrice.Equal(decimalFromString(t, "420.5")) {
		t.Errorf("unexpected total %s", record.TotalPrice)
	}
	if !record.CreatedAt.Equal(createdAt) {
		t.Errorf("unexpected created_at %s", record.CreatedAt)
	}
	if record.Status != domain.StatusPaid {
		t.Errorf("unexpected status %s", record.Status)
	}
	if record.Payment != domain.PaymentGcash {
		t.Errorf("unexpected payment %s", record.Payment)
	}
	if len(record.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(record.Items))
	}
	item := record.Items[0]
	if item.Name != "Latte" || item.Quantity != 3 {
		t.Errorf("unexpected item %+v", item)
	}
	if item.Temperature != domain.TemperatureHot || item.Milk != domain.MilkOat || item.Size != domain.SizeUpsize {
		t.Errorf("unexpected item options %+v", item)
	}
}

func TestDecodeTransactionAppliesDefaults(t *testing.T) {
	data := map[string]any{
		"created_at": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	record, err := decodeTransaction("doc-2", data)
	if err != nil {
		t.Fatalf("decodeTransaction: %v", err)
	}

	if record.CustomerName != "N/A" {
		t.Errorf("expected default customer N/A, got %s", record.CustomerName)
	}
	if !record.TotalPrice.IsZero() {
		t.Errorf("expected zero total, got %s", record.TotalPrice)
	}
	if record.Status != domain.StatusUnpaid {
		t.Errorf("expected default status unpaid, got %s", record.Status)
	}
	if record.Payment != domain.PaymentCash {
		t.Errorf("expected default payment cash, got %s", record.Payment)
	}
	if record.ReferenceNumber != "" {
		t.Errorf("expected empty reference for an absent field, got %s", record.ReferenceNumber)
	}
	if record.Items == nil || len(record.Items) != 0 {
		t.Errorf("expected empty items, got %v", record.Items)
	}
}

func TestDecodeTransactionParsesStringTimestamp(t *testing.T) {
	data := map[string]any{
		"created_at": "2024-05-20T08:15:00Z",
	}

	record, err := decodeTransaction("doc-3", data)
	if err != nil {
		t.Fatalf("decodeTransaction: %v", err)
	}

	want := time.Date(2024, 5, 20, 8, 15, 0, 0, time.UTC)
	if !record.CreatedAt.Equal(want) {
		t.Errorf("unexpected created_at %s", record.CreatedAt)
	}
}

func TestDecodeTransactionParsesEpochTimestamp(t *testing.T) {
	data := map[string]any{
		"created_at": int64(1716192900),
	}

	record, err := decodeTransaction("doc-5", data)
	if err != nil {
		t.Fatalf("decodeTransaction: %v", err)
	}

	want := time.Unix(1716192900, 0).UTC()
	if !record.CreatedAt.Equal(want) {
		t.Errorf("unexpected created_at %s", record.CreatedAt)
	}
}

func TestDecodeTransactionRejectsBadTimestamp(t *testing.T) {
	cases := []struct {
		name string
		data map[string]any
	}{
		{name: "missing", data: map[string]any{}},
		{name: "wrong type", data: map[string]any{"created_at": true}},
		{name: "unparseable string", data: map[string]any{"created_at": "yesterday"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeTransaction("doc-4", tc.data); err == nil {
				t.Fatal("expected error")
			} else if !strings.Contains(err.Error(), "created_at") {
				t.Fatalf("error should name the field, got %v", err)
			}
		})
	}
}

func TestDecodeTransactionNumericFlexibility(t *testing.T) {
	base := map[string]any{"created_at": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	cases := []struct {
		name  string
		total any
		want  string
	}{
		{name: "float", total: float64(199.75), want: "199.75"},
		{name: "int64", total: int64(200), want: "200"},
		{name: "string", total: "150.25", want: "150.25"},
		{name: "garbage string", total: "lots", want: "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := map[string]any{"created_at": base["created_at"], "total_price": tc.total}
			record, err := decodeTransaction("doc-5", data)
			if err != nil {
				t.Fatalf("decodeTransaction: %v", err)
			}
			if !record.TotalPrice.Equal(decimalFromString(t, tc.want)) {
				t.Errorf("got %s, want %s", record.TotalPrice, tc.want)
			}
		})
	}
}
