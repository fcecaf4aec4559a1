package table

import "github.com/lvillar/invoicekit/canvas"

// ColumnDef defines the properties of a table column.
type ColumnDef struct {
	Width float64 // Fixed width. 0 means share of the remaining width.
	Align string  // Default alignment for this column ("L", "C", "R").
}

// Surface is the paginated area a table renders onto.
type Surface interface {
	Page() *canvas.Page
	Y() float64
	SetY(y float64)
	Bottom() float64 // lowest y a row may reach
	NewPage()        // starts a new page and moves Y to its top
}

// Table is a table builder.
type Table struct {
	m          canvas.Measurer
	columns    []ColumnDef
	rows       []*Row
	style      TableStyle
	x          float64
	tableWidth float64
}

// New creates a new Table measured with m.
func New(m canvas.Measurer) *Table {
	return &Table{
		m: m,
		style: TableStyle{
			CellPadding: UniformPadding(4),
			CellFont:    canvas.Font{Family: "Helvetica", Size: 10},
		},
	}
}

// SetColumns sets column definitions for the table.
func (t *Table) SetColumns(cols ...ColumnDef) *Table {
	t.columns = cols
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// SetPosition sets the left edge and total width of the table.
func (t *Table) SetPosition(x, width float64) *Table {
	t.x = x
	t.tableWidth = width
	return t
}

// AddRow adds a new data row to the table and returns it for chaining.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// AddHeaderRow adds a new header row. Header rows are drawn before all data
// rows and repeated after every page break.
func (t *Table) AddHeaderRow() *Row {
	r := &Row{isHeader: true}
	insertIdx := 0
	for i, existing := range t.rows {
		if !existing.isHeader {
			insertIdx = i
			break
		}
		insertIdx = i + 1
	}
	t.rows = append(t.rows, nil)
	copy(t.rows[insertIdx+1:], t.rows[insertIdx:])
	t.rows[insertIdx] = r
	return r
}

// Render draws the table onto s starting at s.Y(). On return s.Y() is the
// bottom edge of the last row.
func (t *Table) Render(s Surface) {
	widths := t.calculateWidths()

	var headerRows, bodyRows []*Row
	for _, r := range t.rows {
		if r.isHeader {
			headerRows = append(headerRows, r)
		} else {
			bodyRows = append(bodyRows, r)
		}
	}

	// Headers are never left alone at the bottom of a page.
	need := 0.0
	for _, r := range headerRows {
		need += t.RowHeight(r, widths)
	}
	if len(bodyRows) > 0 {
		need += t.RowHeight(bodyRows[0], widths)
	}
	if s.Y()+need > s.Bottom() {
		s.NewPage()
	}

	for _, r := range headerRows {
		t.renderRow(s, r, widths, -1)
	}
	for i, r := range bodyRows {
		if s.Y()+t.RowHeight(r, widths) > s.Bottom() {
			s.NewPage()
			for _, hr := range headerRows {
				t.renderRow(s, hr, widths, -1)
			}
		}
		t.renderRow(s, r, widths, i)
	}
}

// calculateWidths computes final column widths based on definitions and
// the table width.
func (t *Table) calculateWidths() []float64 {
	numCols := len(t.columns)
	if numCols == 0 {
		if len(t.rows) > 0 {
			numCols = len(t.rows[0].cells)
		}
		if numCols == 0 {
			return nil
		}
		t.columns = make([]ColumnDef, numCols)
	}

	widths := make([]float64, numCols)
	fixedTotal := 0.0
	autoCount := 0
	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			fixedTotal += col.Width
		} else {
			autoCount++
		}
	}
	if autoCount > 0 {
		remaining := t.tableWidth - fixedTotal
		if remaining < 0 {
			remaining = 0
		}
		for i, col := range t.columns {
			if col.Width == 0 {
				widths[i] = remaining / float64(autoCount)
			}
		}
	}
	return widths
}

func (t *Table) lineHeight(f canvas.Font) float64 {
	if t.style.LineHeight > 0 {
		return t.style.LineHeight
	}
	return f.Size * 1.2
}

// cellLines wraps a cell's text to its content width. An empty cell still
// occupies one line.
func (t *Table) cellLines(c *Cell, f canvas.Font, width float64) []string {
	pad := t.style.CellPadding
	lines := canvas.Wrap(t.m, c.text, f, width-pad.Left-pad.Right)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// RowHeight computes the height needed for a row based on its wrapped
// cell content.
func (t *Table) RowHeight(r *Row, widths []float64) float64 {
	maxH := t.style.MinRowHeight
	pad := t.style.CellPadding
	for i, c := range r.cells {
		if i >= len(widths) {
			break
		}
		st := t.resolveCellStyle(r, 0)
		lines := t.cellLines(c, *st.Font, widths[i])
		h := float64(len(lines))*t.lineHeight(*st.Font) + pad.Top + pad.Bottom
		if h > maxH {
			maxH = h
		}
	}
	return maxH
}

func (t *Table) renderRow(s Surface, r *Row, widths []float64, bodyIdx int) {
	rowH := t.RowHeight(r, widths)
	pad := t.style.CellPadding
	page := s.Page()
	y := s.Y()
	x := t.x

	for i, c := range r.cells {
		if i >= len(widths) {
			break
		}
		cellW := widths[i]
		st := t.resolveCellStyle(r, bodyIdx)

		if st.FillColor != nil {
			fill := *st.FillColor
			page.Add(canvas.Op{Kind: canvas.OpRect, Tag: r.tag, X: x, Y: y, W: cellW, H: rowH, Fill: &fill})
		}
		if b := t.style.Border; b != nil {
			stroke := b.Color
			page.Add(canvas.Op{Kind: canvas.OpRect, X: x, Y: y, W: cellW, H: rowH, Stroke: &stroke, LineWidth: b.Width})
		}

		align := st.Align
		if align == "" && i < len(t.columns) {
			align = t.columns[i].Align
		}
		font := *st.Font
		lh := t.lineHeight(font)
		for li, line := range t.cellLines(c, font, cellW) {
			if line == "" {
				continue
			}
			tx := x + pad.Left
			switch align {
			case "R":
				tx = x + cellW - pad.Right - t.m.StringWidth(line, font)
			case "C":
				tx = x + (cellW-t.m.StringWidth(line, font))/2
			}
			baseline := y + pad.Top + float64(li)*lh + lh/2 + font.Size*0.35
			page.Add(canvas.Op{Kind: canvas.OpText, Tag: c.tag, X: tx, Y: baseline, Text: line, Font: font, Color: *st.TextColor})
		}
		x += cellW
	}
	s.SetY(y + rowH)
}

// resolveCellStyle determines the effective style for a cell by merging
// table, header and alternate row styles.
func (t *Table) resolveCellStyle(row *Row, bodyIdx int) CellStyle {
	font := t.style.CellFont
	color := t.style.TextColor
	result := CellStyle{Font: &font, TextColor: &color}

	if row.isHeader && t.style.HeaderStyle != nil {
		mergeStyle(&result, t.style.HeaderStyle)
	}
	if !row.isHeader && t.style.AlternateRows != nil && bodyIdx >= 0 {
		if bodyIdx%2 == 0 {
			mergeStyle(&result, &t.style.AlternateRows.Even)
		} else {
			mergeStyle(&result, &t.style.AlternateRows.Odd)
		}
	}
	return result
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
	if src.Align != "" {
		dst.Align = src.Align
	}
}
