// Package canvas describes a laid-out document as a list of absolute drawing
// operations per page. It is the contract between the layout engine, which
// only decides where things go, and a backend such as pdfdoc, which draws
// them.
//
// Units are PDF points with the origin at the top-left corner of the page;
// text coordinates are baselines.
package canvas

import "time"

// A4 page size in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Color is an RGB color.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	Black     = Color{0, 0, 0}
	White     = Color{255, 255, 255}
	LightGray = Color{200, 200, 200}
)

// Font specifies a font face.
type Font struct {
	Family string  // Helvetica, Courier, Times or a registered UTF-8 family
	Style  string  // "" (regular), "B" (bold), "I" (italic), "BI"
	Size   float64 // in points
}

// Bold returns a copy of f with the bold style.
func (f Font) Bold() Font {
	f.Style = "B"
	return f
}

// WithSize returns a copy of f with the given size.
func (f Font) WithSize(size float64) Font {
	f.Size = size
	return f
}

// LayoutStyle selects how the document metadata block is drawn.
type LayoutStyle int

const (
	StyleFlat  LayoutStyle = iota // right-aligned lines under the document label
	StyleBoxed                    // rounded box with left-aligned labeled fields
)

func (s LayoutStyle) String() string {
	if s == StyleBoxed {
		return "boxed"
	}
	return "flat"
}

// CodeKind selects an optional machine-readable code printed on the page.
type CodeKind string

const (
	CodeNone   CodeKind = ""
	CodeQR     CodeKind = "qr"
	CodePDF417 CodeKind = "pdf417"
)

// OpKind determines which fields of an Op are relevant.
type OpKind string

const (
	OpText      OpKind = "text"      // Text at baseline (X, Y) in Font and Color
	OpLine      OpKind = "line"      // from (X, Y) to (X2, Y2), LineWidth, Stroke
	OpRect      OpKind = "rect"      // (X, Y, W, H), optional Radius, Fill and/or Stroke
	OpImage     OpKind = "image"     // Image data fitted into (X, Y, W, H)
	OpCode      OpKind = "code"      // Code payload in Text, drawn into (X, Y, W, H)
	OpWatermark OpKind = "watermark" // Text centered on (X, Y), rotated by Angle, at Opacity
)

// Op is a single drawing operation.
type Op struct {
	Kind OpKind
	Tag  string // semantic name of the element, e.g. "totals.tax.value"

	X, Y   float64
	X2, Y2 float64
	W, H   float64

	Text  string
	Font  Font
	Color Color

	LineWidth float64
	Fill      *Color
	Stroke    *Color
	Radius    float64

	Image []byte
	Code  CodeKind

	Angle   float64
	Opacity float64
}

// Page is one page worth of operations, in drawing order.
type Page struct {
	Ops []Op
}

// Add appends op to the page.
func (p *Page) Add(op Op) {
	p.Ops = append(p.Ops, op)
}

// Find returns the first op carrying tag.
func (p Page) Find(tag string) (Op, bool) {
	for _, op := range p.Ops {
		if op.Tag == tag {
			return op, true
		}
	}
	return Op{}, false
}

// Document is a laid-out, paginated document.
type Document struct {
	Width, Height float64
	Title         string
	Author        string
	Subject       string
	Created       time.Time // pinned creation date, keeps output deterministic
	Pages         []Page
}

// Find returns the first op carrying tag on any page.
func (d Document) Find(tag string) (Op, bool) {
	for _, p := range d.Pages {
		if op, ok := p.Find(tag); ok {
			return op, true
		}
	}
	return Op{}, false
}

// Texts returns the text of every text op in drawing order.
func (d Document) Texts() []string {
	var out []string
	for _, p := range d.Pages {
		for _, op := range p.Ops {
			if op.Kind == OpText {
				out = append(out, op.Text)
			}
		}
	}
	return out
}
