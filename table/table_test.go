package table_test

import (
	"testing"

	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/table"
)

// testSurface is a paginated surface with a fixed top and bottom.
type testSurface struct {
	pages  []canvas.Page
	y      float64
	top    float64
	bottom float64
}

func newSurface(top, bottom float64) *testSurface {
	return &testSurface{pages: []canvas.Page{{}}, y: top, top: top, bottom: bottom}
}

func (s *testSurface) Page() *canvas.Page { return &s.pages[len(s.pages)-1] }
func (s *testSurface) Y() float64         { return s.y }
func (s *testSurface) SetY(y float64)     { s.y = y }
func (s *testSurface) Bottom() float64    { return s.bottom }
func (s *testSurface) NewPage() {
	s.pages = append(s.pages, canvas.Page{})
	s.y = s.top
}

func texts(p canvas.Page) []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == canvas.OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

func basicTable() *table.Table {
	tb := table.New(canvas.FixedMeasurer{})
	tb.SetPosition(40, 400)
	tb.SetColumns(table.ColumnDef{Width: 200}, table.ColumnDef{Width: 100, Align: "R"}, table.ColumnDef{Width: 100, Align: "R"})
	h := tb.AddHeaderRow()
	h.AddCell("Name")
	h.AddCell("Qty")
	h.AddCell("Price")
	return tb
}

func TestBasicTable(t *testing.T) {
	tb := basicTable()
	r := tb.AddRow()
	r.AddCell("Widget")
	r.AddCell("10")
	r.AddCell("$5.00")

	s := newSurface(100, 800)
	tb.Render(s)

	if len(s.pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(s.pages))
	}
	got := texts(s.pages[0])
	want := []string{"Name", "Qty", "Price", "Widget", "10", "$5.00"}
	if len(got) != len(want) {
		t.Fatalf("texts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("text[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if s.y <= 100 {
		t.Errorf("cursor did not advance: %v", s.y)
	}
}

func TestRightAlignment(t *testing.T) {
	tb := basicTable()
	r := tb.AddRow()
	r.AddCell("Widget")
	r.AddCell("10").SetTag("qty")
	r.AddCell("$5.00")

	s := newSurface(100, 800)
	tb.Render(s)

	op, ok := s.pages[0].Find("qty")
	if !ok {
		t.Fatal("qty cell not found")
	}
	// column 2 spans 240..340, right padding 4, "10" is 2 x 5pt wide
	if want := 340.0 - 4 - 10; op.X != want {
		t.Errorf("qty x = %v, want %v", op.X, want)
	}
}

func TestAutoWidthColumns(t *testing.T) {
	tb := table.New(canvas.FixedMeasurer{})
	tb.SetPosition(0, 300)
	tb.SetColumns(table.ColumnDef{}, table.ColumnDef{}, table.ColumnDef{Width: 100})
	r := tb.AddRow()
	r.AddCell("a")
	r.AddCell("b").SetTag("b")
	r.AddCell("c")

	s := newSurface(0, 800)
	tb.Render(s)
	op, _ := s.pages[0].Find("b")
	if want := 100.0 + 4; op.X != want {
		t.Errorf("second auto column x = %v, want %v", op.X, want)
	}
}

func TestWrappedCellGrowsRow(t *testing.T) {
	tb := basicTable()
	r := tb.AddRow()
	r.AddCell("a long description that certainly needs more than one line in a narrow column")
	r.AddCell("1")
	r.AddCell("$1.00")
	short := tb.AddRow()
	short.AddCell("x")
	short.AddCell("1")
	short.AddCell("$1.00")

	s := newSurface(0, 800)
	tb.Render(s)

	var lines int
	for _, op := range s.pages[0].Ops {
		if op.Kind == canvas.OpText && op.X == 44 && op.Text != "Name" && op.Text != "x" {
			lines++
		}
	}
	if lines < 2 {
		t.Fatalf("description wrapped into %d lines, want >= 2", lines)
	}
	if h := tb.RowHeight(r, []float64{200, 100, 100}); h <= tb.RowHeight(short, []float64{200, 100, 100}) {
		t.Errorf("wrapped row height %v not taller than single-line row", h)
	}
}

func TestAlternatingRows(t *testing.T) {
	even := canvas.Color{R: 250, G: 250, B: 250}
	tb := basicTable()
	tb.SetStyle(table.TableStyle{
		CellPadding:   table.UniformPadding(4),
		CellFont:      canvas.Font{Family: "Helvetica", Size: 10},
		AlternateRows: &table.AlternateStyle{Even: table.CellStyle{FillColor: &even}},
	})
	for i := 0; i < 4; i++ {
		r := tb.AddRow()
		r.AddCell("row")
		r.AddCell("1")
		r.AddCell("$1.00")
	}

	s := newSurface(0, 800)
	tb.Render(s)

	var fills int
	for _, op := range s.pages[0].Ops {
		if op.Kind == canvas.OpRect && op.Fill != nil && *op.Fill == even {
			fills++
		}
	}
	// rows 0 and 2, three cells each
	if fills != 6 {
		t.Errorf("alternate fills = %d, want 6", fills)
	}
}

func TestHeaderStyle(t *testing.T) {
	primary := canvas.Color{R: 10, G: 20, B: 30}
	white := canvas.White
	bold := canvas.Font{Family: "Helvetica", Style: "B", Size: 10}
	tb := basicTable()
	tb.SetStyle(table.TableStyle{
		CellPadding: table.UniformPadding(4),
		CellFont:    canvas.Font{Family: "Helvetica", Size: 10},
		HeaderStyle: &table.CellStyle{FillColor: &primary, TextColor: &white, Font: &bold},
	})
	tb.AddRow().AddCell("body")

	s := newSurface(0, 800)
	tb.Render(s)

	for _, op := range s.pages[0].Ops {
		if op.Kind != canvas.OpText {
			continue
		}
		header := op.Text == "Name" || op.Text == "Qty" || op.Text == "Price"
		if header && (op.Color != white || op.Font.Style != "B") {
			t.Errorf("header %q styled %+v %+v", op.Text, op.Color, op.Font)
		}
		if !header && op.Font.Style == "B" {
			t.Errorf("body %q is bold", op.Text)
		}
	}
}

func TestPageBreakRepeatsHeader(t *testing.T) {
	tb := basicTable()
	for i := 0; i < 30; i++ {
		r := tb.AddRow()
		r.AddCellf("item %d", i)
		r.AddCell("1")
		r.AddCell("$1.00")
	}

	s := newSurface(50, 300)
	tb.Render(s)

	if len(s.pages) < 2 {
		t.Fatalf("pages = %d, want a page break", len(s.pages))
	}
	for i, p := range s.pages {
		got := texts(p)
		if len(got) < 3 || got[0] != "Name" {
			t.Errorf("page %d does not start with the header: %v", i, got)
		}
		for _, op := range p.Ops {
			if op.Kind == canvas.OpText && op.Y > 300 {
				t.Errorf("page %d: %q drawn below the bottom at %v", i, op.Text, op.Y)
			}
		}
	}
	var items int
	for _, p := range s.pages {
		for _, txt := range texts(p) {
			if len(txt) > 5 && txt[:5] == "item " {
				items++
			}
		}
	}
	if items != 30 {
		t.Errorf("rendered %d rows, want 30", items)
	}
}

func TestHeaderMovesWithFirstRow(t *testing.T) {
	tb := basicTable()
	r := tb.AddRow()
	r.AddCell("Widget")
	r.AddCell("1")
	r.AddCell("$1.00")

	s := newSurface(50, 300)
	s.y = 280
	tb.Render(s)

	if len(s.pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(s.pages))
	}
	if got := texts(s.pages[0]); len(got) != 0 {
		t.Errorf("first page has %v, want nothing", got)
	}
	if got := texts(s.pages[1]); len(got) != 6 || got[0] != "Name" {
		t.Errorf("second page = %v, want header and row", got)
	}
}

func TestEmptyTableRendersHeaderOnly(t *testing.T) {
	tb := basicTable()
	s := newSurface(0, 800)
	tb.Render(s)
	if got := texts(s.pages[0]); len(got) != 3 {
		t.Errorf("texts = %v, want header only", got)
	}
}
