// Package table lays out tables as canvas operations.
//
// It measures every cell, wraps text to the column width, grows rows to fit
// their tallest cell and breaks onto a new page when a row does not fit,
// repeating the header rows at the top of the new page.
package table

import "github.com/lvillar/invoicekit/canvas"

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of cell borders.
type BorderStyle struct {
	Width float64
	Color canvas.Color
}

// CellStyle defines the visual appearance of a cell. Nil fields inherit.
type CellStyle struct {
	FillColor *canvas.Color
	TextColor *canvas.Color
	Font      *canvas.Font
	Align     string // "L", "C", "R"
}

// AlternateStyle defines alternating row colors.
type AlternateStyle struct {
	Even CellStyle
	Odd  CellStyle
}

// TableStyle defines the overall appearance of a table.
type TableStyle struct {
	Border        *BorderStyle
	AlternateRows *AlternateStyle
	HeaderStyle   *CellStyle
	CellPadding   Padding
	CellFont      canvas.Font
	TextColor     canvas.Color
	LineHeight    float64 // distance between wrapped lines (default: 1.2 x font size)
	MinRowHeight  float64
}
