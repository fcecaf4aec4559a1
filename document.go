// Package invoicekit holds the business document model shared by the layout
// engine, the PDF backend and the persistence collaborators.
//
// A Record is either an invoice or a receipt; the DocumentType passed next to
// it decides which fields are meaningful. Records are plain values: nothing in
// this module writes to a Record handed to it.
package invoicekit

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// DocumentType tags a Record as an invoice or a receipt.
type DocumentType string

const (
	Invoice DocumentType = "invoice"
	Receipt DocumentType = "receipt"
)

// ParseDocumentType parses "invoice" or "receipt", case-insensitively.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(strings.ToLower(strings.TrimSpace(s))) {
	case Invoice:
		return Invoice, nil
	case Receipt:
		return Receipt, nil
	}
	return "", fmt.Errorf("%w: unknown document type %q", ErrInvalidParam, s)
}

// Label returns the heading printed on the document, e.g. "INVOICE".
func (t DocumentType) Label() string {
	return strings.ToUpper(string(t))
}

// Prefix returns the document number prefix for the type.
func (t DocumentType) Prefix() string {
	if t == Receipt {
		return "REC"
	}
	return "INV"
}

// Item is a single invoice line.
type Item struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// Record is the invoice or receipt form state consumed by the renderer.
type Record struct {
	DocumentNumber  string  `json:"documentNumber"`
	Date            string  `json:"date"`
	DueDate         string  `json:"dueDate,omitempty"`
	BusinessName    string  `json:"businessName"`
	BusinessContact string  `json:"businessContact,omitempty"`
	BusinessLogo    Image   `json:"businessLogo,omitempty"`
	ClientName      string  `json:"clientName"`
	ClientDetails   string  `json:"clientDetails,omitempty"`
	Items           []Item  `json:"items,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
	Tax             float64 `json:"tax"`
	Discount        float64 `json:"discount"`
	Currency        string  `json:"currency"`
	Notes           string  `json:"notes,omitempty"`
	PaymentTerms    string  `json:"paymentTerms,omitempty"`
	IsDraft         bool    `json:"isDraft,omitempty"`
}

// DateLayout is the ISO date format used by Record.Date and Record.DueDate.
const DateLayout = "2006-01-02"

// ParsedDate returns Date as a time, or the zero time if it does not parse.
func (r Record) ParsedDate() time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return time.Time{}
	}
	return t
}

// NewDocumentNumber generates a number of the form PREFIX-YYMMDD-NN where NN
// is a two-digit random suffix in 10..99. A nil rnd uses the global source.
func NewDocumentNumber(t DocumentType, now time.Time, rnd *rand.Rand) string {
	var n int
	if rnd != nil {
		n = 10 + rnd.IntN(90)
	} else {
		n = 10 + rand.IntN(90)
	}
	return fmt.Sprintf("%s-%s-%02d", t.Prefix(), now.Format("060102"), n)
}

// Lines splits a multi-line field into its non-blank lines, trimmed of
// surrounding whitespace. An empty field yields no lines.
func Lines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Num maps NaN and infinities to 0 so that formulas never display NaN.
func Num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
