package invoicekit

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the money breakdown printed in the totals block.
type Totals struct {
	Base         decimal.Decimal // subtotal for invoices, amount for receipts
	Tax          decimal.Decimal
	Discount     decimal.Decimal
	GrandTotal   decimal.Decimal
	TaxRate      float64 // percent, 0 when absent
	DiscountRate float64 // percent, 0 when absent
}

// LineTotal returns quantity x price with missing values treated as zero.
func (it Item) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(Num(it.Quantity)).Mul(decimal.NewFromFloat(Num(it.Price)))
}

// Subtotal sums quantity x price over all items.
func (r Record) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range r.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Base returns the amount tax and discount apply to for the given type.
func (r Record) Base(t DocumentType) decimal.Decimal {
	if t == Receipt {
		return decimal.NewFromFloat(Num(r.Amount))
	}
	return r.Subtotal()
}

// Totals computes base + base*tax/100 - base*discount/100.
func (r Record) Totals(t DocumentType) Totals {
	base := r.Base(t)
	taxRate, discRate := Num(r.Tax), Num(r.Discount)
	tax := base.Mul(decimal.NewFromFloat(taxRate)).Div(hundred)
	disc := base.Mul(decimal.NewFromFloat(discRate)).Div(hundred)
	return Totals{
		Base:         base,
		Tax:          tax,
		Discount:     disc,
		GrandTotal:   base.Add(tax).Sub(disc),
		TaxRate:      taxRate,
		DiscountRate: discRate,
	}
}

// FormatMoney renders symbol + value with exactly two decimals.
func FormatMoney(symbol string, v decimal.Decimal) string {
	return symbol + v.StringFixed(2)
}

// FormatQuantity prints whole quantities without decimals and keeps the
// fractional digits otherwise ("2", "1.5").
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(Num(q), 'f', -1, 64)
}

// FormatPercent prints a percentage rate the way it was entered ("10", "7.5").
func FormatPercent(p float64) string {
	return strconv.FormatFloat(Num(p), 'f', -1, 64)
}
