package layout

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/table"
)

var (
	textColor  = canvas.Color{R: 33, G: 33, B: 33}
	mutedColor = canvas.Color{R: 90, G: 90, B: 90}
)

// Items table column widths; they sum to ContentWidth.
var columnWidths = [4]float64{275, 60, 90, 90.28}

const (
	logoMaxW = 120.0
	logoMaxH = 50.0

	metaBoxWidth   = 220.0
	metaBoxPadding = 12.0
	metaBoxRadius  = 6.0
	clientGap      = 20.0 // between the client column and the meta block
	minClientWidth = 120.0

	totalsStep   = 18.0
	totalsLabelX = 110.0 // label column ends this far left of the right margin
)

func (e *engine) header() {
	rec := e.in.Record
	if w, h, ok := LogoSize(rec.BusinessLogo); ok {
		e.Page().Add(canvas.Op{Kind: canvas.OpImage, Tag: "header.logo", X: Margin, Y: e.y, W: w, H: h, Image: rec.BusinessLogo})
		e.y += h + 10
	}

	e.y += 20
	e.text("header.name", Margin, e.y, rec.BusinessName, e.font.Bold().WithSize(22), e.th.Primary)

	n := 0
	for _, l := range invoicekit.Lines(rec.BusinessContact) {
		for _, wrapped := range canvas.Wrap(e.m, l, e.font, ContentWidth) {
			e.ensure(lineStep)
			e.y += lineStep
			e.text("header.contact."+strconv.Itoa(n), Margin, e.y, wrapped, e.font, mutedColor)
			n++
		}
	}

	e.ensure(dividerGap)
	e.y += dividerGap
	e.divider("header.divider", e.y)
	e.y += sectionGap
}

// metaAndClient draws the metadata block on the right and the client block
// on the left, then moves the cursor below the taller of the two. The meta
// block always fits on the page it starts on; client lines that do not fit
// continue on the next page.
func (e *engine) metaAndClient() {
	boxed := e.in.LayoutStyle() == canvas.StyleBoxed
	fields := e.metaFields()
	e.ensure(e.metaHeight(boxed, fields))

	top := e.y
	page := len(e.doc.Pages)
	var metaBottom float64
	if boxed {
		metaBottom = e.metaBoxed(top, fields)
	} else {
		metaBottom = e.metaFlat(top, fields)
	}
	e.client(top, e.clientWidth(boxed, fields))
	if len(e.doc.Pages) == page {
		e.y = max(metaBottom, e.y)
	}
	e.y += sectionGap
}

func (e *engine) metaHeight(boxed bool, fields []metaField) float64 {
	if boxed {
		return metaBoxPadding + 18 + float64(len(fields))*lineStep + metaBoxPadding
	}
	return 22 + float64(len(fields))*lineStep
}

// clientWidth is the column left of the meta block, less clientGap. It
// never drops below minClientWidth.
func (e *engine) clientWidth(boxed bool, fields []metaField) float64 {
	metaW := metaBoxWidth
	if !boxed {
		metaW = e.m.StringWidth(e.in.Type.Label(), e.font.Bold().WithSize(20))
		for _, f := range fields {
			metaW = max(metaW, e.m.StringWidth(f.label+" "+f.value, e.font))
		}
	}
	return max(e.right-metaW-clientGap-Margin, minClientWidth)
}

type metaField struct {
	tag, label, value string
}

func (e *engine) metaFields() []metaField {
	rec := e.in.Record
	numLabel := "Invoice #:"
	if e.in.Type == invoicekit.Receipt {
		numLabel = "Receipt #:"
	}
	fields := []metaField{
		{"meta.number", numLabel, rec.DocumentNumber},
	}
	if rec.Date != "" {
		fields = append(fields, metaField{"meta.date", "Date:", rec.Date})
	}
	if e.in.Type == invoicekit.Invoice && rec.DueDate != "" {
		fields = append(fields, metaField{"meta.due", "Due Date:", rec.DueDate})
	}
	return fields
}

// metaFlat right-aligns every line against the right margin so nothing
// overflows it. It returns the baseline of the last line.
func (e *engine) metaFlat(top float64, fields []metaField) float64 {
	y := top + 16
	e.textRight("meta.label", e.right, y, e.in.Type.Label(), e.font.Bold().WithSize(20), e.th.Primary)
	y += 6
	for _, f := range fields {
		y += lineStep
		e.textRight(f.tag, e.right, y, f.label+" "+f.value, e.font, textColor)
	}
	return y
}

// metaBoxed draws a rounded box filled with the theme background holding
// the label and left-aligned fields. It returns the box bottom edge.
func (e *engine) metaBoxed(top float64, fields []metaField) float64 {
	h := e.metaHeight(true, fields)
	x := e.right - metaBoxWidth
	fill := e.th.Background
	stroke := e.th.Divider
	e.Page().Add(canvas.Op{
		Kind: canvas.OpRect, Tag: "meta.box",
		X: x, Y: top, W: metaBoxWidth, H: h,
		Radius: metaBoxRadius, Fill: &fill, Stroke: &stroke, LineWidth: 0.5,
	})
	y := top + metaBoxPadding + 14
	e.text("meta.label", x+metaBoxPadding, y, e.in.Type.Label(), e.font.Bold().WithSize(16), e.th.Primary)
	y += 4
	for _, f := range fields {
		y += lineStep
		e.text(f.tag, x+metaBoxPadding, y, f.label+" "+f.value, e.font, textColor)
	}
	return top + h
}

// client draws the client block wrapped to width and leaves the cursor on
// the baseline of its last line.
func (e *engine) client(top, width float64) {
	rec := e.in.Record
	label := "Bill To:"
	if e.in.Type == invoicekit.Receipt {
		label = "Received From:"
	}
	e.y = top + 12
	e.text("client.label", Margin, e.y, label, e.font.Bold().WithSize(12), e.th.Primary)

	nameFont := e.font.Bold().WithSize(11)
	for i, l := range canvas.Wrap(e.m, rec.ClientName, nameFont, width) {
		tag := "client.name"
		if i > 0 {
			tag += "." + strconv.Itoa(i)
		}
		e.ensure(lineStep)
		e.y += lineStep
		e.text(tag, Margin, e.y, l, nameFont, textColor)
	}
	n := 0
	for _, l := range invoicekit.Lines(rec.ClientDetails) {
		for _, wrapped := range canvas.Wrap(e.m, l, e.font, width) {
			e.ensure(lineStep)
			e.y += lineStep
			e.text("client.details."+strconv.Itoa(n), Margin, e.y, wrapped, e.font, mutedColor)
			n++
		}
	}
}

func (e *engine) itemsTable() {
	white := canvas.White
	primary := e.th.Primary
	bold := e.font.Bold()
	background := e.th.Background

	tb := table.New(e.m)
	tb.SetPosition(Margin, ContentWidth)
	tb.SetColumns(
		table.ColumnDef{Width: columnWidths[0], Align: "L"},
		table.ColumnDef{Width: columnWidths[1], Align: "C"},
		table.ColumnDef{Width: columnWidths[2], Align: "R"},
		table.ColumnDef{Width: columnWidths[3], Align: "R"},
	)
	tb.SetStyle(table.TableStyle{
		CellPadding:   table.Padding{Top: 6, Right: 8, Bottom: 6, Left: 8},
		CellFont:      e.font,
		TextColor:     textColor,
		LineHeight:    14,
		HeaderStyle:   &table.CellStyle{FillColor: &primary, TextColor: &white, Font: &bold},
		AlternateRows: &table.AlternateStyle{Odd: table.CellStyle{FillColor: &background}},
	})

	h := tb.AddHeaderRow().SetTag("items.header")
	h.AddCell("Description")
	h.AddCell("Qty")
	h.AddCell("Price")
	h.AddCell("Total")

	for i, it := range e.in.Record.Items {
		tag := "items." + strconv.Itoa(i) + "."
		r := tb.AddRow().SetTag(tag + "row")
		r.AddCell(it.Description).SetTag(tag + "description")
		r.AddCell(invoicekit.FormatQuantity(it.Quantity)).SetTag(tag + "quantity")
		r.AddCell(invoicekit.FormatMoney(e.symbol, decimalOf(it.Price))).SetTag(tag + "price")
		r.AddCell(invoicekit.FormatMoney(e.symbol, it.LineTotal())).SetTag(tag + "total")
	}

	tb.Render(e)
	e.y += 20
}

func (e *engine) receiptAmount() {
	e.ensure(30)
	e.y += 12
	s := "Amount: " + invoicekit.FormatMoney(e.symbol, e.totals.Base)
	e.text("receipt.amount", Margin, e.y, s, e.font.WithSize(12), textColor)
	e.y += 20
}

type totalsLine struct {
	tag, label, value string
}

func (e *engine) totalsLines() []totalsLine {
	t := e.totals
	baseLabel, grandLabel := "Subtotal:", "Grand Total:"
	if e.in.Type == invoicekit.Receipt {
		baseLabel, grandLabel = "Amount:", "Total:"
	}
	lines := []totalsLine{{"totals.base", baseLabel, invoicekit.FormatMoney(e.symbol, t.Base)}}
	if t.TaxRate > 0 {
		lines = append(lines, totalsLine{"totals.tax", fmt.Sprintf("Tax (%s%%):", invoicekit.FormatPercent(t.TaxRate)), invoicekit.FormatMoney(e.symbol, t.Tax)})
	}
	if t.DiscountRate > 0 {
		lines = append(lines, totalsLine{"totals.discount", fmt.Sprintf("Discount (%s%%):", invoicekit.FormatPercent(t.DiscountRate)), "-" + invoicekit.FormatMoney(e.symbol, t.Discount)})
	}
	return append(lines, totalsLine{"totals.grand", grandLabel, invoicekit.FormatMoney(e.symbol, t.GrandTotal)})
}

// totalsBlock right-aligns label/value pairs. The block is kept on one page.
func (e *engine) totalsBlock() {
	lines := e.totalsLines()
	e.ensure(float64(len(lines))*totalsStep + 16)

	labelRight := e.right - totalsLabelX
	for i, l := range lines {
		f, c := e.font, textColor
		if i == len(lines)-1 {
			e.y += 6
			f, c = e.font.Bold().WithSize(14), e.th.Primary
		}
		e.y += totalsStep
		e.textRight(l.tag+".label", labelRight, e.y, l.label, f, c)
		e.textRight(l.tag+".value", e.right, e.y, l.value, f, c)
	}
	e.y += 6
	e.line("totals.underline", labelRight-e.m.StringWidth(lines[len(lines)-1].label, e.font.Bold().WithSize(14)), e.y, e.right, e.y, 1.5, e.th.Accent)
	e.y += sectionGap
}

// code draws the optional machine-readable code, right-aligned under the
// totals.
func (e *engine) code() {
	var w, h float64
	switch e.in.Code {
	case canvas.CodeQR:
		w, h = 80, 80
	case canvas.CodePDF417:
		w, h = 180, 50
	default:
		return
	}
	e.ensure(h + 10)
	e.Page().Add(canvas.Op{
		Kind: canvas.OpCode, Tag: "code", Code: e.in.Code,
		X: e.right - w, Y: e.y, W: w, H: h,
		Text: CodePayload(e.in.Record, e.in.Type),
	})
	e.y += h + sectionGap
}

// termsAndNotes draws the payment terms and notes blocks under a single
// divider. Nothing at all is drawn when both are empty.
func (e *engine) termsAndNotes() {
	blocks := []struct{ tag, heading, body string }{
		{"terms", "Payment Terms:", e.in.Record.PaymentTerms},
		{"notes", "Notes:", e.in.Record.Notes},
	}
	var present int
	for _, b := range blocks {
		if invoicekit.Lines(b.body) != nil {
			present++
		}
	}
	if present == 0 {
		return
	}

	e.ensure(50)
	e.divider("terms.divider", e.y)
	e.y += 10
	for _, b := range blocks {
		lines := invoicekit.Lines(b.body)
		if lines == nil {
			continue
		}
		e.ensure(40)
		e.y += 14
		e.text(b.tag+".heading", Margin, e.y, b.heading, e.font.Bold().WithSize(11), e.th.Primary)
		n := 0
		for _, l := range lines {
			for _, wrapped := range canvas.Wrap(e.m, l, e.font, ContentWidth) {
				if e.y+14 > e.Bottom() {
					e.NewPage()
				}
				e.y += 14
				e.text(b.tag+".line."+strconv.Itoa(n), Margin, e.y, wrapped, e.font, mutedColor)
				n++
			}
		}
		e.y += 10
	}
}

func decimalOf(v float64) decimal.Decimal {
	return decimal.NewFromFloat(invoicekit.Num(v))
}
