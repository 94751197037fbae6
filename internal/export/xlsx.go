package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/coz-coffee/api/internal/services"
)

const (
	sheetName  = "Transactions"
	dateLayout = "2006-01-02 15:04"
	fileLayout = "2006-01-02"
)

// ContentType is the MIME type for the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []string{"Date", "Customer", "Total Price", "Items"}

// Workbook renders the report rows into an xlsx workbook.
func Workbook(rows []services.ReportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export: drop default sheet: %w", err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("export: header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("export: write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{
			row.Date.Format(dateLayout),
			row.Customer,
			row.Total.InexactFloat64(),
			formatItems(row),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("export: row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("export: write row %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: serialise workbook: %w", err)
	}
	return buf, nil
}

// FileName builds the download name for the report covering [start, end].
func FileName(start, end time.Time) string {
	return fmt.Sprintf("Transaction_Report_%s_to_%s.xlsx",
		start.Format(fileLayout), end.Format(fileLayout))
}

func formatItems(row services.ReportRow) string {
	parts := make([]string, 0, len(row.Items))
	for _, item := range row.Items {
		parts = append(parts, fmt.Sprintf("%s x%d (%s, %s, %s)",
			item.Name, item.Quantity, item.Temperature, item.Milk, item.Size))
	}
	return strings.Join(parts, " | ")
}
