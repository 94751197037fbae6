package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coz-coffee/api/internal/domain"
)

type stubTransactionRepository struct {
	mu      sync.Mutex
	records []domain.TransactionRecord
	err     error
	calls   int
	start   time.Time
	end     time.Time
	block   chan struct{}
}

func (r *stubTransactionRepository) ListByCreatedRange(_ context.Context, start, end time.Time) ([]domain.TransactionRecord, error) {
	r.mu.Lock()
	r.calls++
	r.start = start
	r.end = end
	block := r.block
	r.mu.Unlock()
	if block != nil {
		<-block
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.records, nil
}

func item(name string, qty int, size domain.Size, milk domain.Milk, temp domain.Temperature) domain.LineItem {
	return domain.LineItem{Name: name, Quantity: qty, Size: size, Milk: milk, Temperature: temp}
}

func record(id, customer string, total int64, status domain.TransactionStatus, payment domain.PaymentMethod, items ...domain.LineItem) domain.TransactionRecord {
	return domain.TransactionRecord{
		ID:              id,
		ReferenceNumber: "REF-" + id,
		CustomerName:    customer,
		TotalPrice:      decimal.NewFromInt(total),
		CreatedAt:       time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		Status:          status,
		Payment:         payment,
		Items:           items,
	}
}

func newTestReportService(t *testing.T, repo *stubTransactionRepository) ReportService {
	t.Helper()
	svc, err := NewReportService(ReportServiceDeps{Repository: repo})
	if err != nil {
		t.Fatalf("NewReportService: %v", err)
	}
	return svc
}

func rangeFilter() domain.ReportFilter {
	return domain.ReportFilter{
		Start: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 31, 7, 45, 0, 0, time.UTC),
	}
}

func TestRunWithoutRangeSkipsStore(t *testing.T) {
	repo := &stubTransactionRepository{}
	svc := newTestReportService(t, repo)

	view, err := svc.Run(context.Background(), RunReportCommand{SessionID: "s1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("store must not be queried without a range, got %d calls", repo.calls)
	}
	if len(view.Rows) != 0 {
		t.Fatalf("expected empty rows, got %d", len(view.Rows))
	}
	if view.Summary.TotalTransactions != 0 || view.Summary.TotalItems != 0 || !view.Summary.TotalSales.IsZero() {
		t.Fatalf("expected zero summary, got %+v", view.Summary)
	}
}

func TestRunWidensRangeToDayBounds(t *testing.T) {
	repo := &stubTransactionRepository{}
	svc := newTestReportService(t, repo)

	if _, err := svc.Run(context.Background(), RunReportCommand{SessionID: "s1", Filter: rangeFilter()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 5, 31, 23, 59, 59, 999999999, time.UTC)
	if !repo.start.Equal(wantStart) {
		t.Errorf("start not widened: got %s", repo.start)
	}
	if !repo.end.Equal(wantEnd) {
		t.Errorf("end not widened: got %s", repo.end)
	}
}

func TestRunRejectsInvertedRange(t *testing.T) {
	svc := newTestReportService(t, &stubTransactionRepository{})
	filter := domain.ReportFilter{
		Start: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := svc.Run(context.Background(), RunReportCommand{SessionID: "s1", Filter: filter}); !errors.Is(err, ErrReportInvalidInput) {
		t.Fatalf("got %v, want ErrReportInvalidInput", err)
	}
}

func TestRunFiltersAndAggregates(t *testing.T) {
	repo := &stubTransactionRepository{records: []domain.TransactionRecord{
		// Two lines, only the oat one survives the milk filter. The original
		// total still counts toward sales in full.
		record("t1", "Alice", 260, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkOat, domain.TemperatureHot),
			item("Americano", 2, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot),
		),
		// No surviving items: dropped even though payment/status match.
		record("t2", "Bob", 90, domain.StatusPaid, domain.PaymentCash,
			item("Americano", 1, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot),
		),
		// Surviving item but wrong status: dropped.
		record("t3", "Carol", 140, domain.StatusUnpaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkOat, domain.TemperatureHot),
		),
		record("t4", "Dave", 280, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 2, domain.SizeRegular, domain.MilkOat, domain.TemperatureCold),
		),
	}}
	svc := newTestReportService(t, repo)

	filter := rangeFilter()
	filter.Milk = domain.MilkOat
	filter.Status = domain.StatusPaid

	view, err := svc.Run(context.Background(), RunReportCommand{SessionID: "s1", Filter: filter})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(view.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(view.Rows))
	}
	if view.Rows[0].ID != "t1" || view.Rows[1].ID != "t4" {
		t.Fatalf("rows must keep store order, got %s, %s", view.Rows[0].ID, view.Rows[1].ID)
	}
	if len(view.Rows[0].Items) != 1 || view.Rows[0].Items[0].Name != "Latte" {
		t.Fatalf("row items must contain only surviving lines, got %+v", view.Rows[0].Items)
	}
	first := view.Rows[0]
	if first.ReferenceNumber != "REF-t1" {
		t.Errorf("expected reference number REF-t1, got %q", first.ReferenceNumber)
	}
	if first.Status != domain.StatusPaid || first.Payment != domain.PaymentCash {
		t.Errorf("rows must carry the record's status and payment, got %s/%s", first.Status, first.Payment)
	}
	if !view.Summary.TotalSales.Equal(decimal.NewFromInt(540)) {
		t.Errorf("expected total sales 540, got %s", view.Summary.TotalSales)
	}
	if view.Summary.TotalItems != 3 {
		t.Errorf("expected 3 surviving items, got %d", view.Summary.TotalItems)
	}
	if view.Summary.TotalTransactions != 2 {
		t.Errorf("expected 2 transactions, got %d", view.Summary.TotalTransactions)
	}
}

func TestRunWrapsStoreFailure(t *testing.T) {
	repo := &stubTransactionRepository{err: errors.New("firestore down")}
	svc := newTestReportService(t, repo)

	_, err := svc.Run(context.Background(), RunReportCommand{SessionID: "s1", Filter: rangeFilter()})
	if !errors.Is(err, ErrReportUnavailable) {
		t.Fatalf("got %v, want ErrReportUnavailable", err)
	}
}

func TestStaleRunDoesNotOverwriteNewerResult(t *testing.T) {
	block := make(chan struct{})
	repo := &stubTransactionRepository{
		records: []domain.TransactionRecord{record("stale", "Old", 10, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot))},
		block: block,
	}
	svc := newTestReportService(t, repo)
	ctx := context.Background()

	done := make(chan ReportView, 1)
	go func() {
		view, err := svc.Run(ctx, RunReportCommand{SessionID: "s1", Filter: rangeFilter()})
		if err != nil {
			t.Errorf("stale Run: %v", err)
		}
		done <- view
	}()

	// Give the slow fetch time to register its generation.
	time.Sleep(20 * time.Millisecond)

	// The newer run: empty range short-circuits, bumps the generation, and
	// replaces the held state with the empty report.
	newer, err := svc.Run(ctx, RunReportCommand{SessionID: "s1"})
	if err != nil {
		t.Fatalf("newer Run: %v", err)
	}
	if len(newer.Rows) != 0 {
		t.Fatalf("expected empty newer report, got %d rows", len(newer.Rows))
	}

	close(block)
	staleView := <-done
	if len(staleView.Rows) != 0 {
		t.Fatalf("superseded run must return the newer state, got %d rows", len(staleView.Rows))
	}

	held, _, err := svc.Held(ctx, "s1")
	if err != nil {
		t.Fatalf("Held: %v", err)
	}
	if len(held.Rows) != 0 {
		t.Fatalf("stale fetch must not overwrite newer state, held %d rows", len(held.Rows))
	}
}

func TestSortByCustomerTogglesDirection(t *testing.T) {
	repo := &stubTransactionRepository{records: []domain.TransactionRecord{
		record("t1", "charlie", 10, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot)),
		record("t2", "Alice", 10, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot)),
		record("t3", "bob", 10, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot)),
	}}
	svc := newTestReportService(t, repo)
	ctx := context.Background()

	if _, err := svc.Run(ctx, RunReportCommand{SessionID: "s1", Filter: rangeFilter()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	asc, err := svc.SortByCustomer(ctx, "s1")
	if err != nil {
		t.Fatalf("SortByCustomer: %v", err)
	}
	if asc.Rows[0].Customer != "Alice" || asc.Rows[1].Customer != "bob" || asc.Rows[2].Customer != "charlie" {
		t.Fatalf("expected case-insensitive ascending order, got %v", customers(asc))
	}

	desc, err := svc.SortByCustomer(ctx, "s1")
	if err != nil {
		t.Fatalf("SortByCustomer: %v", err)
	}
	if desc.Rows[0].Customer != "charlie" || desc.Rows[2].Customer != "Alice" {
		t.Fatalf("expected descending order on second call, got %v", customers(desc))
	}

	if repo.calls != 1 {
		t.Fatalf("sorting must not re-fetch, got %d store calls", repo.calls)
	}
}

func TestSortIsStableForEqualCustomers(t *testing.T) {
	repo := &stubTransactionRepository{records: []domain.TransactionRecord{
		record("first", "Alice", 10, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot)),
		record("second", "ALICE", 10, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot)),
	}}
	svc := newTestReportService(t, repo)
	ctx := context.Background()

	if _, err := svc.Run(ctx, RunReportCommand{SessionID: "s1", Filter: rangeFilter()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i := 0; i < 2; i++ {
		view, err := svc.SortByCustomer(ctx, "s1")
		if err != nil {
			t.Fatalf("SortByCustomer: %v", err)
		}
		if view.Rows[0].ID != "first" || view.Rows[1].ID != "second" {
			t.Fatalf("equal keys must keep relative order, got %s, %s", view.Rows[0].ID, view.Rows[1].ID)
		}
	}
}

func TestSortAndHeldRequireAHeldReport(t *testing.T) {
	svc := newTestReportService(t, &stubTransactionRepository{})
	ctx := context.Background()

	if _, err := svc.SortByCustomer(ctx, "fresh"); !errors.Is(err, ErrReportNoData) {
		t.Fatalf("SortByCustomer: got %v, want ErrReportNoData", err)
	}
	if _, _, err := svc.Held(ctx, "fresh"); !errors.Is(err, ErrReportNoData) {
		t.Fatalf("Held: got %v, want ErrReportNoData", err)
	}
}

func TestHeldReturnsFilterAndRows(t *testing.T) {
	repo := &stubTransactionRepository{records: []domain.TransactionRecord{
		record("t1", "Alice", 10, domain.StatusPaid, domain.PaymentCash,
			item("Latte", 1, domain.SizeRegular, domain.MilkRegular, domain.TemperatureHot)),
	}}
	svc := newTestReportService(t, repo)
	ctx := context.Background()

	filter := rangeFilter()
	if _, err := svc.Run(ctx, RunReportCommand{SessionID: "s1", Filter: filter}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	view, heldFilter, err := svc.Held(ctx, "s1")
	if err != nil {
		t.Fatalf("Held: %v", err)
	}
	if len(view.Rows) != 1 {
		t.Fatalf("expected 1 held row, got %d", len(view.Rows))
	}
	if !heldFilter.Start.Equal(filter.Start) || !heldFilter.End.Equal(filter.End) {
		t.Fatalf("held filter mismatch: %+v", heldFilter)
	}
}

func customers(view ReportView) []string {
	out := make([]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		out = append(out, row.Customer)
	}
	return out
}
