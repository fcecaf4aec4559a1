package table

import "fmt"

// Cell represents a single cell in a table row.
type Cell struct {
	text string
	tag  string
}

// SetTag names the text ops emitted for this cell.
func (c *Cell) SetTag(tag string) *Cell {
	c.tag = tag
	return c
}

// Row represents a single row in a table.
type Row struct {
	cells    []*Cell
	tag      string
	isHeader bool
}

// AddCell adds a text cell to the row and returns the cell for chaining.
func (r *Row) AddCell(text string) *Cell {
	c := &Cell{text: text}
	r.cells = append(r.cells, c)
	return c
}

// AddCellf adds a formatted text cell to the row.
func (r *Row) AddCellf(format string, args ...any) *Cell {
	return r.AddCell(fmt.Sprintf(format, args...))
}

// SetTag names the background op emitted for this row.
func (r *Row) SetTag(tag string) *Row {
	r.tag = tag
	return r
}
