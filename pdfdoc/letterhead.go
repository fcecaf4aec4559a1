package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// letterhead is the first page of a stationery PDF imported as a template.
type letterhead struct {
	imp   *gofpdi.Importer
	tplID int
}

// importLetterhead imports page 1 of path. The importer panics on files it
// cannot parse, so the file is checked up front and panics are reported as
// errors.
func importLetterhead(pdf *fpdf.Fpdf, path string) (lh *letterhead, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: letterhead: %w", err)
	}
	head := make([]byte, 5)
	_, rerr := io.ReadFull(f, head)
	f.Close()
	if rerr != nil || !bytes.Equal(head, []byte("%PDF-")) {
		return nil, fmt.Errorf("pdfdoc: letterhead %s is not a PDF file", path)
	}

	defer func() {
		if r := recover(); r != nil {
			lh, err = nil, fmt.Errorf("pdfdoc: importing letterhead %s: %v", path, r)
		}
	}()
	imp := gofpdi.NewImporter()
	tplID := imp.ImportPage(pdf, path, 1, "/MediaBox")
	return &letterhead{imp: imp, tplID: tplID}, nil
}

// draw stretches the letterhead over the current page.
func (l *letterhead) draw(pdf *fpdf.Fpdf, w, h float64) {
	l.imp.UseImportedTemplate(pdf, l.tplID, 0, 0, w, h)
}
