// Package layout turns an invoice or receipt record into a paginated list of
// drawing operations on an A4 page.
//
// Render is a pure function: it performs no I/O, never fails and never
// writes to the record it is given. Two calls with equal input produce equal
// documents. Backends such as pdfdoc only replay the operations.
package layout

import (
	"time"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/theme"
)

// Page geometry in points.
const (
	Margin       = 40.0
	ContentWidth = canvas.A4Width - 2*Margin

	lineStep      = 16.0 // contact, client detail and meta lines
	dividerGap    = 16.0 // last header line to divider
	sectionGap    = 25.0
	footerOffset  = 30.0 // footer baseline above the page bottom
	bottomReserve = 60.0 // content never goes below A4Height - bottomReserve
)

// DefaultFontFamily is the core font used when Input.FontFamily is empty.
const DefaultFontFamily = "Helvetica"

// Input is everything one render call depends on.
type Input struct {
	Record     invoicekit.Record
	Type       invoicekit.DocumentType
	Theme      theme.Theme
	Draft      bool                     // draws the DRAFT watermark; Record.IsDraft does too
	Currencies invoicekit.CurrencyTable // nil means invoicekit.DefaultCurrencies
	Style      *canvas.LayoutStyle      // overrides Theme.Style when set
	Code       canvas.CodeKind          // optional code under the totals
	FontFamily string
}

// IsDraft reports whether the watermark is drawn.
func (in Input) IsDraft() bool {
	return in.Draft || in.Record.IsDraft
}

// LayoutStyle returns the effective metadata style.
func (in Input) LayoutStyle() canvas.LayoutStyle {
	if in.Style != nil {
		return *in.Style
	}
	return in.Theme.Style
}

// CodePayload is the text carried by the optional machine-readable code.
func CodePayload(rec invoicekit.Record, t invoicekit.DocumentType) string {
	return rec.DocumentNumber + "|" + rec.Currency + "|" + rec.Totals(t).GrandTotal.StringFixed(2)
}

// CreationDate is the date stamped into the document metadata: the record
// date, or the Unix epoch when the record has none.
func CreationDate(rec invoicekit.Record) time.Time {
	if d := rec.ParsedDate(); !d.IsZero() {
		return d
	}
	return time.Unix(0, 0).UTC()
}

// Render lays out the document. m measures text in the fonts the backend
// will draw with.
func Render(in Input, m canvas.Measurer) canvas.Document {
	if in.Type != invoicekit.Receipt {
		in.Type = invoicekit.Invoice
	}
	if in.Theme.Key == "" {
		in.Theme = theme.Default()
	}
	if in.Currencies == nil {
		in.Currencies = invoicekit.DefaultCurrencies
	}
	if in.FontFamily == "" {
		in.FontFamily = DefaultFontFamily
	}

	e := &engine{
		in:     in,
		m:      m,
		th:     in.Theme,
		symbol: in.Currencies.Symbol(in.Record.Currency),
		totals: in.Record.Totals(in.Type),
		font:   canvas.Font{Family: in.FontFamily, Size: 10},
		right:  canvas.A4Width - Margin,
	}
	e.doc = canvas.Document{
		Width:   canvas.A4Width,
		Height:  canvas.A4Height,
		Title:   in.Type.Label() + " " + in.Record.DocumentNumber,
		Author:  in.Record.BusinessName,
		Subject: in.Type.Label(),
		Created: CreationDate(in.Record),
	}
	e.NewPage()

	e.header()
	e.metaAndClient()
	if in.Type == invoicekit.Invoice {
		e.itemsTable()
	} else {
		e.receiptAmount()
	}
	e.totalsBlock()
	e.code()
	e.termsAndNotes()
	e.finishPages()
	return e.doc
}

// engine carries the vertical cursor of one render call. It implements
// table.Surface.
type engine struct {
	in     Input
	m      canvas.Measurer
	th     theme.Theme
	symbol string
	totals invoicekit.Totals
	font   canvas.Font
	right  float64

	doc canvas.Document
	y   float64
}

func (e *engine) Page() *canvas.Page { return &e.doc.Pages[len(e.doc.Pages)-1] }
func (e *engine) Y() float64         { return e.y }
func (e *engine) SetY(y float64)     { e.y = y }
func (e *engine) Bottom() float64    { return canvas.A4Height - bottomReserve }

func (e *engine) NewPage() {
	e.doc.Pages = append(e.doc.Pages, canvas.Page{})
	e.y = Margin
}

// ensure starts a new page unless h more points fit below the cursor.
func (e *engine) ensure(h float64) {
	if e.y+h > e.Bottom() {
		e.NewPage()
	}
}

func (e *engine) text(tag string, x, y float64, s string, f canvas.Font, c canvas.Color) {
	e.Page().Add(canvas.Op{Kind: canvas.OpText, Tag: tag, X: x, Y: y, Text: s, Font: f, Color: c})
}

// textRight draws s so that it ends at right.
func (e *engine) textRight(tag string, right, y float64, s string, f canvas.Font, c canvas.Color) {
	e.text(tag, right-e.m.StringWidth(s, f), y, s, f, c)
}

func (e *engine) line(tag string, x1, y1, x2, y2, width float64, c canvas.Color) {
	e.Page().Add(canvas.Op{Kind: canvas.OpLine, Tag: tag, X: x1, Y: y1, X2: x2, Y2: y2, LineWidth: width, Stroke: &c})
}

func (e *engine) divider(tag string, y float64) {
	e.line(tag, Margin, y, e.right, y, 1, e.th.Divider)
}

// finishPages stamps the footer and the watermark on every page. The
// watermark is the last op of each page.
func (e *engine) finishPages() {
	footer := "Thank you for your business!"
	if invoicekit.Lines(e.in.Record.BusinessContact) != nil {
		footer = e.in.Record.BusinessName + " • " + footer
	}
	f := e.font.WithSize(9)
	w := e.m.StringWidth(footer, f)
	for i := range e.doc.Pages {
		p := &e.doc.Pages[i]
		p.Add(canvas.Op{
			Kind: canvas.OpText, Tag: "footer",
			X: (canvas.A4Width - w) / 2, Y: canvas.A4Height - footerOffset,
			Text: footer, Font: f, Color: e.th.Footer,
		})
		if e.in.IsDraft() {
			p.Add(canvas.Op{
				Kind: canvas.OpWatermark, Tag: "watermark",
				X: canvas.A4Width / 2, Y: canvas.A4Height / 2,
				Text:  "DRAFT",
				Font:  canvas.Font{Family: "Helvetica", Style: "B", Size: 100},
				Color: canvas.LightGray, Angle: 45, Opacity: 0.3,
			})
		}
	}
}
