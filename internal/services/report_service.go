package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/coz-coffee/api/internal/domain"
	"github.com/coz-coffee/api/internal/repositories"
)

var errReportRepositoryRequired = errors.New("report service: repository is required")

// ErrReportInvalidInput indicates the caller supplied invalid input.
var ErrReportInvalidInput = errors.New("report service: invalid input")

// ErrReportNoData indicates the session holds no report to sort or export.
var ErrReportNoData = errors.New("report service: no report held for session")

// ErrReportUnavailable indicates the transaction store could not be reached.
var ErrReportUnavailable = errors.New("report service: unavailable")

// ReportServiceDeps wires the transaction repository for report queries.
type ReportServiceDeps struct {
	Repository   repositories.TransactionRepository
	MaxRangeDays int
	Logger       func(context.Context, string, map[string]any)
}

type reportSession struct {
	rows       []ReportRow
	summary    domain.ReportSummary
	filter     domain.ReportFilter
	held       bool
	sortAsc    bool
	generation uint64
}

type reportService struct {
	repo         repositories.TransactionRepository
	maxRangeDays int
	logger       func(context.Context, string, map[string]any)

	mu       sync.Mutex
	sessions map[string]*reportSession
	collator *collate.Collator
}

// NewReportService constructs a ReportService enforcing dependency validation.
func NewReportService(deps ReportServiceDeps) (ReportService, error) {
	if deps.Repository == nil {
		return nil, errReportRepositoryRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &reportService{
		repo:         deps.Repository,
		maxRangeDays: deps.MaxRangeDays,
		logger:       logger,
		sessions:     make(map[string]*reportSession),
		// The collator is not safe for concurrent use; every call site holds mu.
		collator: collate.New(language.Und, collate.IgnoreCase),
	}, nil
}

// Run executes the report query and replaces the session's held result set.
//
// A query without both date bounds short-circuits to an empty report without
// touching the store. Concurrent runs for the same session are resolved by a
// generation counter: a fetch that finishes after a newer one started does not
// overwrite the newer result.
func (s *reportService) Run(ctx context.Context, cmd RunReportCommand) (ReportView, error) {
	sessionID := strings.TrimSpace(cmd.SessionID)
	if sessionID == "" {
		return ReportView{}, ErrReportInvalidInput
	}

	filter := cmd.Filter
	if !filter.HasRange() {
		s.mu.Lock()
		session := s.sessionLocked(sessionID)
		session.generation++
		session.rows = []ReportRow{}
		session.summary = domain.ZeroSummary()
		session.filter = filter
		session.held = true
		session.sortAsc = true
		view := session.view()
		s.mu.Unlock()
		return view, nil
	}

	if filter.End.Before(filter.Start) {
		return ReportView{}, fmt.Errorf("%w: end date before start date", ErrReportInvalidInput)
	}
	if s.maxRangeDays > 0 {
		if filter.End.Sub(filter.Start) > time.Duration(s.maxRangeDays)*24*time.Hour {
			return ReportView{}, fmt.Errorf("%w: date range exceeds %d days", ErrReportInvalidInput, s.maxRangeDays)
		}
	}

	start := dayStart(filter.Start)
	end := dayEnd(filter.End)

	s.mu.Lock()
	session := s.sessionLocked(sessionID)
	session.generation++
	generation := session.generation
	s.mu.Unlock()

	records, err := s.repo.ListByCreatedRange(ctx, start, end)
	if err != nil {
		s.logger(ctx, "report.fetch_failed", map[string]any{"error": err.Error()})
		return ReportView{}, fmt.Errorf("%w: %v", ErrReportUnavailable, err)
	}

	rows, summary := buildReport(records, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	session = s.sessionLocked(sessionID)
	if session.generation != generation {
		// A newer run has superseded this fetch; hand back the newer state.
		if session.held {
			return session.view(), nil
		}
		return ReportView{Rows: []ReportRow{}, Summary: domain.ZeroSummary()}, nil
	}

	session.rows = rows
	session.summary = summary
	session.filter = filter
	session.held = true
	session.sortAsc = true
	return session.view(), nil
}

// SortByCustomer re-sorts the held result set by customer name, toggling the
// direction on each call. The sort is stable and case-insensitive; no re-fetch
// happens.
func (s *reportService) SortByCustomer(_ context.Context, sessionID string) (ReportView, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return ReportView{}, ErrReportInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || !session.held {
		return ReportView{}, ErrReportNoData
	}

	ascending := session.sortAsc
	sort.SliceStable(session.rows, func(i, j int) bool {
		cmp := s.collator.CompareString(session.rows[i].Customer, session.rows[j].Customer)
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
	session.sortAsc = !ascending

	return session.view(), nil
}

// Held returns the session's current result set and the filter that built it.
func (s *reportService) Held(_ context.Context, sessionID string) (ReportView, domain.ReportFilter, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return ReportView{}, domain.ReportFilter{}, ErrReportInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || !session.held {
		return ReportView{}, domain.ReportFilter{}, ErrReportNoData
	}
	return session.view(), session.filter, nil
}

func (s *reportService) sessionLocked(id string) *reportSession {
	session, ok := s.sessions[id]
	if !ok {
		session = &reportSession{sortAsc: true}
		s.sessions[id] = session
	}
	return session
}

func (sess *reportSession) view() ReportView {
	rows := make([]ReportRow, len(sess.rows))
	copy(rows, sess.rows)
	return ReportView{Rows: rows, Summary: sess.summary}
}

// buildReport filters and aggregates the fetched records in store order.
func buildReport(records []domain.TransactionRecord, filter domain.ReportFilter) ([]ReportRow, domain.ReportSummary) {
	rows := make([]ReportRow, 0, len(records))
	summary := domain.ZeroSummary()

	for _, record := range records {
		surviving := make([]domain.LineItem, 0, len(record.Items))
		for _, item := range record.Items {
			if filter.MatchesItem(item) {
				surviving = append(surviving, item)
			}
		}
		if len(surviving) == 0 {
			continue
		}
		if !filter.MatchesTransaction(record) {
			continue
		}

		// The transaction's original total counts toward sales even when the
		// item filters trimmed some of its lines.
		summary.TotalSales = summary.TotalSales.Add(record.TotalPrice)
		for _, item := range surviving {
			summary.TotalItems += item.Quantity
		}
		summary.TotalTransactions++

		rows = append(rows, ReportRow{
			ID:              record.ID,
			ReferenceNumber: record.ReferenceNumber,
			Date:            record.CreatedAt,
			Customer:        record.CustomerName,
			Total:           record.TotalPrice,
			Status:          record.Status,
			Payment:         record.Payment,
			Items:           surviving,
		})
	}

	return rows, summary
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
