package pdfdoc

import (
	"github.com/go-pdf/fpdf"

	"github.com/lvillar/invoicekit/canvas"
)

// Measurer measures strings with fpdf font metrics. It is not safe for
// concurrent use; every render call creates its own.
type Measurer struct {
	pdf       *fpdf.Fpdf
	tr        func(string) string
	utf8Fonts map[string]bool
}

// NewMeasurer returns a Measurer for the core fonts, for callers that want a
// layout without producing a PDF.
func NewMeasurer() *Measurer {
	return newMeasurer(fpdf.New("P", "pt", "A4", ""), nil)
}

func newMeasurer(pdf *fpdf.Fpdf, utf8Fonts map[string]bool) *Measurer {
	return &Measurer{
		pdf:       pdf,
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
		utf8Fonts: utf8Fonts,
	}
}

// StringWidth implements canvas.Measurer.
func (m *Measurer) StringWidth(text string, f canvas.Font) float64 {
	if text == "" {
		return 0
	}
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	return m.pdf.GetStringWidth(m.encode(text, f))
}

// encode converts text to the single-byte encoding core fonts expect.
// Registered UTF-8 families take the text as is.
func (m *Measurer) encode(text string, f canvas.Font) string {
	if m.utf8Fonts[f.Family] {
		return text
	}
	return m.tr(text)
}
