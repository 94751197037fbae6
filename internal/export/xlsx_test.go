package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/coz-coffee/api/internal/domain"
	"github.com/coz-coffee/api/internal/services"
)

func TestFileName(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 7, 45, 0, 0, time.UTC)

	got := FileName(start, end)
	want := "Transaction_Report_2024-05-01_to_2024-05-31.xlsx"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestWorkbookLayout(t *testing.T) {
	rows := []services.ReportRow{
		{
			ID:       "t1",
			Date:     time.Date(2024, 5, 10, 14, 5, 0, 0, time.UTC),
			Customer: "Alice",
			Total:    decimal.NewFromInt(420),
			Items: []domain.LineItem{
				{Name: "Latte", Quantity: 3, Temperature: domain.TemperatureHot, Milk: domain.MilkOat, Size: domain.SizeRegular},
				{Name: "Americano", Quantity: 1, Temperature: domain.TemperatureCold, Milk: domain.MilkNone, Size: domain.SizeUpsize},
			},
		},
	}

	buf, err := Workbook(rows)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Transactions" {
		t.Fatalf("expected single Transactions sheet, got %v", sheets)
	}

	wantCells := map[string]string{
		"A1": "Date",
		"B1": "Customer",
		"C1": "Total Price",
		"D1": "Items",
		"A2": "2024-05-10 14:05",
		"B2": "Alice",
		"C2": "420",
		"D2": "Latte x3 (hot, oat, regular) | Americano x1 (cold, none, upsize)",
	}
	for cell, want := range wantCells {
		got, err := f.GetCellValue("Transactions", cell)
		if err != nil {
			t.Fatalf("GetCellValue %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s: got %q, want %q", cell, got, want)
		}
	}
}

func TestWorkbookEmptyRows(t *testing.T) {
	buf, err := Workbook(nil)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Transactions", "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "Date" {
		t.Fatalf("expected header row even without data, got %q", got)
	}
}
