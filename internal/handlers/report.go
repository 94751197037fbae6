package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coz-coffee/api/internal/domain"
	"github.com/coz-coffee/api/internal/export"
	"github.com/coz-coffee/api/internal/platform/httpx"
	"github.com/coz-coffee/api/internal/services"
)

const reportDateLayout = "2006-01-02"

// ReportHandlers exposes the transaction report endpoints.
type ReportHandlers struct {
	reports services.ReportService
}

// NewReportHandlers constructs handlers over the report service.
func NewReportHandlers(reports services.ReportService) *ReportHandlers {
	return &ReportHandlers{reports: reports}
}

// Routes wires the /reports endpoints onto the provided router.
func (h *ReportHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.runReport)
	r.Post("/sort", h.sortReport)
	r.Get("/export", h.exportReport)
}

type reportItemPayload struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Temperature string `json:"temperature"`
	Milk        string `json:"milk"`
	Size        string `json:"size"`
}

type reportRowPayload struct {
	ID              string              `json:"id"`
	ReferenceNumber string              `json:"reference_number"`
	Date            string              `json:"date"`
	CustomerName    string              `json:"customer_name"`
	TotalPrice      string              `json:"total_price"`
	Status          string              `json:"status"`
	PaymentMethod   string              `json:"payment_method"`
	Items           []reportItemPayload `json:"items"`
}

type reportSummaryPayload struct {
	TotalSales        string `json:"total_sales"`
	TotalItems        int    `json:"total_items"`
	TotalTransactions int    `json:"total_transactions"`
}

type reportResponse struct {
	Rows    []reportRowPayload   `json:"rows"`
	Summary reportSummaryPayload `json:"summary"`
}

func (h *ReportHandlers) runReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.reports == nil {
		httpx.WriteError(ctx, w, httpx.NewError("report_service_unavailable", "report service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sessionID, ok := sessionFromRequest(r)
	if !ok {
		writeMissingSession(w, r)
		return
	}

	filter, err := parseReportFilter(r.URL.Query())
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	view, err := h.reports.Run(ctx, services.RunReportCommand{SessionID: sessionID, Filter: filter})
	if err != nil {
		h.writeReportError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildReportPayload(view))
}

func (h *ReportHandlers) sortReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.reports == nil {
		httpx.WriteError(ctx, w, httpx.NewError("report_service_unavailable", "report service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sessionID, ok := sessionFromRequest(r)
	if !ok {
		writeMissingSession(w, r)
		return
	}

	view, err := h.reports.SortByCustomer(ctx, sessionID)
	if err != nil {
		h.writeReportError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildReportPayload(view))
}

func (h *ReportHandlers) exportReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.reports == nil {
		httpx.WriteError(ctx, w, httpx.NewError("report_service_unavailable", "report service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sessionID, ok := sessionFromRequest(r)
	if !ok {
		writeMissingSession(w, r)
		return
	}

	view, filter, err := h.reports.Held(ctx, sessionID)
	if err != nil {
		h.writeReportError(ctx, w, err)
		return
	}
	if !filter.HasRange() {
		httpx.WriteError(ctx, w, httpx.NewError("no_report_held", "run a dated report before exporting it", http.StatusConflict))
		return
	}

	workbook, err := export.Workbook(view.Rows)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("export_failed", "failed to build the report workbook", http.StatusInternalServerError))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(filter.Start, filter.End)))
	w.WriteHeader(http.StatusOK)
	_, _ = workbook.WriteTo(w)
}

func (h *ReportHandlers) writeReportError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrReportInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrReportNoData):
		httpx.WriteError(ctx, w, httpx.NewError("no_report_held", "run a report before sorting or exporting it", http.StatusConflict))
	case errors.Is(err, services.ErrReportUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("report_service_unavailable", "report service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "failed to process report request", http.StatusInternalServerError))
	}
}

func parseReportFilter(values url.Values) (domain.ReportFilter, error) {
	var filter domain.ReportFilter

	startRaw := strings.TrimSpace(values.Get("start"))
	endRaw := strings.TrimSpace(values.Get("end"))
	if (startRaw == "") != (endRaw == "") {
		return domain.ReportFilter{}, errors.New("start and end must be provided together")
	}
	if startRaw != "" {
		start, err := time.Parse(reportDateLayout, startRaw)
		if err != nil {
			return domain.ReportFilter{}, fmt.Errorf("start must use the %s format", reportDateLayout)
		}
		end, err := time.Parse(reportDateLayout, endRaw)
		if err != nil {
			return domain.ReportFilter{}, fmt.Errorf("end must use the %s format", reportDateLayout)
		}
		filter.Start = start
		filter.End = end
	}

	if raw := strings.TrimSpace(values.Get("size")); raw != "" {
		switch domain.Size(raw) {
		case domain.SizeRegular, domain.SizeUpsize:
			filter.Size = domain.Size(raw)
		default:
			return domain.ReportFilter{}, fmt.Errorf("unknown size %q", raw)
		}
	}
	if raw := strings.TrimSpace(values.Get("milk")); raw != "" {
		switch domain.Milk(raw) {
		case domain.MilkNone, domain.MilkRegular, domain.MilkOat:
			filter.Milk = domain.Milk(raw)
		default:
			return domain.ReportFilter{}, fmt.Errorf("unknown milk %q", raw)
		}
	}
	if raw := strings.TrimSpace(values.Get("temperature")); raw != "" {
		switch domain.Temperature(raw) {
		case domain.TemperatureHot, domain.TemperatureCold, domain.TemperatureNone:
			filter.Temperature = domain.Temperature(raw)
		default:
			return domain.ReportFilter{}, fmt.Errorf("unknown temperature %q", raw)
		}
	}
	if raw := strings.TrimSpace(values.Get("payment")); raw != "" {
		switch domain.PaymentMethod(raw) {
		case domain.PaymentCash, domain.PaymentGcash:
			filter.Payment = domain.PaymentMethod(raw)
		default:
			return domain.ReportFilter{}, fmt.Errorf("unknown payment method %q", raw)
		}
	}
	if raw := strings.TrimSpace(values.Get("status")); raw != "" {
		switch domain.TransactionStatus(raw) {
		case domain.StatusPaid, domain.StatusUnpaid:
			filter.Status = domain.TransactionStatus(raw)
		default:
			return domain.ReportFilter{}, fmt.Errorf("unknown status %q", raw)
		}
	}

	return filter, nil
}

func buildReportPayload(view services.ReportView) reportResponse {
	rows := make([]reportRowPayload, 0, len(view.Rows))
	for _, row := range view.Rows {
		items := make([]reportItemPayload, 0, len(row.Items))
		for _, item := range row.Items {
			items = append(items, reportItemPayload{
				Name:        item.Name,
				Quantity:    item.Quantity,
				Temperature: string(item.Temperature),
				Milk:        string(item.Milk),
				Size:        string(item.Size),
			})
		}
		rows = append(rows, reportRowPayload{
			ID:              row.ID,
			ReferenceNumber: row.ReferenceNumber,
			Date:            row.Date.UTC().Format(time.RFC3339),
			CustomerName:    row.Customer,
			TotalPrice:      row.Total.String(),
			Status:          string(row.Status),
			PaymentMethod:   string(row.Payment),
			Items:           items,
		})
	}
	return reportResponse{
		Rows: rows,
		Summary: reportSummaryPayload{
			TotalSales:        view.Summary.TotalSales.String(),
			TotalItems:        view.Summary.TotalItems,
			TotalTransactions: view.Summary.TotalTransactions,
		},
	}
}
