package invoicekit

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestTotalsInvoice(t *testing.T) {
	rec := Record{
		Items: []Item{{Description: "Widget", Quantity: 2, Price: 10}},
		Tax:   10,
	}
	tot := rec.Totals(Invoice)

	if got := FormatMoney("$", tot.Base); got != "$20.00" {
		t.Fatalf("subtotal = %s, want $20.00", got)
	}
	if got := FormatMoney("$", tot.Tax); got != "$2.00" {
		t.Fatalf("tax = %s, want $2.00", got)
	}
	if !tot.Discount.IsZero() {
		t.Fatalf("discount = %s, want 0", tot.Discount)
	}
	if got := FormatMoney("$", tot.GrandTotal); got != "$22.00" {
		t.Fatalf("grand total = %s, want $22.00", got)
	}
}

func TestTotalsFormula(t *testing.T) {
	items := []Item{
		{Quantity: 3, Price: 19.99},
		{Quantity: 1, Price: 0.1},
		{Quantity: 7, Price: 0.2},
		{Quantity: 2.5, Price: 4.4},
	}
	for _, tc := range []struct{ tax, discount float64 }{
		{0, 0}, {10, 0}, {0, 15}, {8.25, 12.5}, {100, 100}, {100, 0},
	} {
		rec := Record{Items: items, Tax: tc.tax, Discount: tc.discount}
		tot := rec.Totals(Invoice)

		if got, want := tot.Base.StringFixed(2), "72.47"; got != want {
			t.Fatalf("subtotal = %s, want %s", got, want)
		}
		want := tot.Base.Add(tot.Base.Mul(dec(tc.tax)).Div(dec(100))).Sub(tot.Base.Mul(dec(tc.discount)).Div(dec(100)))
		if !tot.GrandTotal.Equal(want) {
			t.Fatalf("tax=%v discount=%v: grand total %s, want %s", tc.tax, tc.discount, tot.GrandTotal, want)
		}
	}
}

func TestTotalsReceiptAndMissingValues(t *testing.T) {
	rec := Record{Amount: math.NaN(), Tax: math.Inf(1), Discount: math.NaN()}
	tot := rec.Totals(Receipt)
	if got := FormatMoney("$", tot.GrandTotal); got != "$0.00" {
		t.Fatalf("grand total = %s, want $0.00", got)
	}
	if tot.TaxRate != 0 || tot.DiscountRate != 0 {
		t.Fatalf("rates should be zeroed, got %v %v", tot.TaxRate, tot.DiscountRate)
	}

	rec = Record{Amount: 150, Discount: 10}
	tot = rec.Totals(Receipt)
	if got := FormatMoney("€", tot.GrandTotal); got != "€135.00" {
		t.Fatalf("receipt total = %s", got)
	}
}

func TestTotalsDoesNotMutateRecord(t *testing.T) {
	rec := Record{Items: []Item{{Description: "A", Quantity: 1, Price: 5}}}
	before, _ := json.Marshal(rec)
	_ = rec.Totals(Invoice)
	after, _ := json.Marshal(rec)
	if string(before) != string(after) {
		t.Fatalf("record changed: %s -> %s", before, after)
	}
}

func TestNewDocumentNumber(t *testing.T) {
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	rnd := rand.New(rand.NewPCG(1, 2))
	re := regexp.MustCompile(`^(INV|REC)-240307-[1-9][0-9]$`)

	for i := 0; i < 200; i++ {
		n := NewDocumentNumber(Invoice, now, rnd)
		if !re.MatchString(n) || n[:3] != "INV" {
			t.Fatalf("bad invoice number %q", n)
		}
		n = NewDocumentNumber(Receipt, now, nil)
		if !re.MatchString(n) || n[:3] != "REC" {
			t.Fatalf("bad receipt number %q", n)
		}
	}
}

func TestParseDocumentType(t *testing.T) {
	if dt, err := ParseDocumentType(" Receipt "); err != nil || dt != Receipt {
		t.Fatalf("got %v, %v", dt, err)
	}
	if _, err := ParseDocumentType("quote"); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
}

func TestLines(t *testing.T) {
	got := Lines("  12 Main St\r\n\n Springfield  \n\t\n")
	if len(got) != 2 || got[0] != "12 Main St" || got[1] != "Springfield" {
		t.Fatalf("unexpected lines %q", got)
	}
	if Lines("  \n ") != nil {
		t.Fatal("blank field should yield no lines")
	}
}

func TestCurrencySymbol(t *testing.T) {
	if got := DefaultCurrencies.Symbol("eur"); got != "€" {
		t.Fatalf("EUR symbol = %q", got)
	}
	if got := DefaultCurrencies.Symbol("XYZ"); got != "$" {
		t.Fatalf("unknown code should fall back to $, got %q", got)
	}
	if got := CurrencyTable(nil).Symbol("EUR"); got != "$" {
		t.Fatalf("empty table should fall back to $, got %q", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	for in, want := range map[float64]string{2: "2", 1.5: "1.5", 0: "0", 10.25: "10.25"} {
		if got := FormatQuantity(in); got != want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestImageJSON(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	var rec Record
	in := `{"businessLogo":"data:image/png;base64,iVBORw0KGgowMDAw"}`
	if err := json.Unmarshal([]byte(in), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(rec.BusinessLogo) != string(png) {
		t.Fatalf("decoded %q", rec.BusinessLogo)
	}
	out, err := json.Marshal(rec.BusinessLogo)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"data:image/png;base64,iVBORw0KGgowMDAw"` {
		t.Fatalf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"businessLogo":"data:image/png,raw"}`), &rec); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
}

func TestErrorWrapping(t *testing.T) {
	err := StorageError("SaveDraft", errors.New("disk full"))
	if !errors.Is(err, ErrStorage) {
		t.Fatal("expected ErrStorage")
	}
	var e *Error
	if !errors.As(err, &e) || e.Op != "SaveDraft" {
		t.Fatalf("expected *Error with op, got %v", err)
	}
	if WrapError("x", nil) != nil {
		t.Fatal("WrapError(nil) should be nil")
	}
}
