// Package export writes the generation history as a spreadsheet.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/lvillar/invoicekit/store"
)

// Sheet is the worksheet holding the history.
const Sheet = "History"

var headers = []string{
	"Document Date",
	"Type",
	"Document Number",
	"Client",
	"Currency",
	"Total",
	"Filename",
	"Generated At",
}

// HistoryXLSX returns an XLSX workbook with one row per history entry, in
// the order given.
func HistoryXLSX(entries []store.HistoryEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(Sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(Sheet, "A1", last, bold)

	for i, e := range entries {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(Sheet, cell, v)
		}
		write(1, e.Record.Date)
		write(2, string(e.DocumentType))
		write(3, e.DocumentNumber)
		write(4, e.ClientName)
		write(5, e.Currency)
		if total, err := decimal.NewFromString(e.Total); err == nil {
			write(6, total.InexactFloat64())
		} else {
			write(6, e.Total)
		}
		write(7, e.Filename)
		if !e.CreatedAt.IsZero() {
			write(8, e.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		}
	}
	if len(entries) > 0 {
		end, _ := excelize.CoordinatesToCellName(6, len(entries)+1)
		_ = f.SetCellStyle(Sheet, "F2", end, money)
	}

	_ = f.SetColWidth(Sheet, "A", "B", 14)
	_ = f.SetColWidth(Sheet, "C", "C", 20)
	_ = f.SetColWidth(Sheet, "D", "D", 28)
	_ = f.SetColWidth(Sheet, "E", "F", 12)
	_ = f.SetColWidth(Sheet, "G", "G", 32)
	_ = f.SetColWidth(Sheet, "H", "H", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
