package pdfdoc

import (
	"log/slog"

	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/barcode"

	"github.com/lvillar/invoicekit/canvas"
)

// PDF417 geometry for the optional code.
const (
	pdf417Columns  = 8
	pdf417Security = 2
)

type drawer struct {
	pdf    *fpdf.Fpdf
	m      *Measurer
	logger *slog.Logger
}

func (d *drawer) draw(op canvas.Op) {
	switch op.Kind {
	case canvas.OpText:
		d.text(op)
	case canvas.OpLine:
		d.line(op)
	case canvas.OpRect:
		d.rect(op)
	case canvas.OpImage:
		d.image(op)
	case canvas.OpCode:
		d.code(op)
	case canvas.OpWatermark:
		d.watermark(op)
	}
}

func (d *drawer) text(op canvas.Op) {
	d.pdf.SetFont(op.Font.Family, op.Font.Style, op.Font.Size)
	d.pdf.SetTextColor(op.Color.R, op.Color.G, op.Color.B)
	d.pdf.Text(op.X, op.Y, d.m.encode(op.Text, op.Font))
}

func (d *drawer) line(op canvas.Op) {
	if op.Stroke != nil {
		d.pdf.SetDrawColor(op.Stroke.R, op.Stroke.G, op.Stroke.B)
	}
	if op.LineWidth > 0 {
		d.pdf.SetLineWidth(op.LineWidth)
	}
	d.pdf.Line(op.X, op.Y, op.X2, op.Y2)
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.SetLineWidth(0.2)
}

func (d *drawer) rect(op canvas.Op) {
	style := ""
	if op.Fill != nil {
		d.pdf.SetFillColor(op.Fill.R, op.Fill.G, op.Fill.B)
		style = "F"
	}
	if op.Stroke != nil {
		d.pdf.SetDrawColor(op.Stroke.R, op.Stroke.G, op.Stroke.B)
		if op.LineWidth > 0 {
			d.pdf.SetLineWidth(op.LineWidth)
		}
		style += "D"
	}
	if style == "" {
		return
	}
	if op.Radius > 0 {
		d.pdf.RoundedRect(op.X, op.Y, op.W, op.H, op.Radius, "1234", style)
	} else {
		d.pdf.Rect(op.X, op.Y, op.W, op.H, style)
	}
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.SetLineWidth(0.2)
}

func (d *drawer) image(op canvas.Op) {
	name, err := registerImage(d.pdf, op.Image)
	if err != nil {
		d.logger.Warn("pdf.logo.skipped", "err", err)
		return
	}
	d.pdf.ImageOptions(name, op.X, op.Y, op.W, op.H, false, fpdf.ImageOptions{}, 0, "")
}

func (d *drawer) code(op canvas.Op) {
	var key string
	switch op.Code {
	case canvas.CodeQR:
		key = barcode.RegisterQR(d.pdf, op.Text, qr.M, qr.Auto)
	case canvas.CodePDF417:
		key = barcode.RegisterPdf417(d.pdf, op.Text, pdf417Columns, pdf417Security)
	default:
		return
	}
	barcode.Barcode(d.pdf, key, op.X, op.Y, op.W, op.H, false)
}

// watermark draws op.Text centered on (X, Y), rotated by op.Angle, at
// op.Opacity.
func (d *drawer) watermark(op canvas.Op) {
	d.pdf.SetFont(op.Font.Family, op.Font.Style, op.Font.Size)
	d.pdf.SetTextColor(op.Color.R, op.Color.G, op.Color.B)
	d.pdf.SetAlpha(op.Opacity, "Normal")

	text := d.m.encode(op.Text, op.Font)
	textW := d.pdf.GetStringWidth(text)

	d.pdf.TransformBegin()
	d.pdf.TransformRotate(op.Angle, op.X, op.Y)
	// approximate vertical centering on the cap height
	d.pdf.Text(op.X-textW/2, op.Y+op.Font.Size/3, text)
	d.pdf.TransformEnd()

	d.pdf.SetAlpha(1.0, "Normal")
}
