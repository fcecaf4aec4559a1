package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/store"
)

func TestHistoryXLSX(t *testing.T) {
	entries := []store.HistoryEntry{
		{
			DocumentType:   invoicekit.Invoice,
			DocumentNumber: "INV-240101-42",
			ClientName:     "Bob",
			Currency:       "USD",
			Total:          "22.00",
			Filename:       "invoice_INV-240101-42.pdf",
			CreatedAt:      time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
			Record:         invoicekit.Record{Date: "2024-01-01"},
		},
		{
			DocumentType:   invoicekit.Receipt,
			DocumentNumber: "REC-240102-11",
			ClientName:     "Carol",
			Currency:       "EUR",
			Total:          "5.50",
			Filename:       "receipt_REC-240102-11.pdf",
		},
	}

	b, err := HistoryXLSX(entries)
	if err != nil {
		t.Fatalf("HistoryXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(Sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Document Date" || rows[0][5] != "Total" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "INV-240101-42" || rows[1][3] != "Bob" || rows[1][7] != "2024-01-01 09:30:00" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][1] != "receipt" || rows[2][6] != "receipt_REC-240102-11.pdf" {
		t.Errorf("second row = %v", rows[2])
	}
	raw, _ := f.GetCellValue(Sheet, "F2", excelize.Options{RawCellValue: true})
	if raw != "22" {
		t.Errorf("total cell = %q, want a number", raw)
	}
}

func TestHistoryXLSXEmpty(t *testing.T) {
	b, err := HistoryXLSX(nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, _ := f.GetRows(Sheet)
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
