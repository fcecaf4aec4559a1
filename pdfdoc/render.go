// Package pdfdoc draws laid-out invoices and receipts as PDF files with
// github.com/go-pdf/fpdf.
//
// The layout package decides where everything goes; this package measures
// text for it with real font metrics and replays the resulting operations.
// Output is deterministic: the creation date is taken from the record and
// catalog entries are sorted, so equal input gives byte-identical files.
package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/layout"
)

// Render lays out in and writes the resulting PDF to w.
func Render(w io.Writer, in layout.Input, opts ...Option) error {
	cfg := newConfig(opts)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(cfg.compress)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)

	utf8Fonts := map[string]bool{}
	if cfg.fontFamily != "" {
		pdf.AddUTF8Font(cfg.fontFamily, "", filepath.Join(cfg.fontDir, cfg.fontFiles[0]))
		pdf.AddUTF8Font(cfg.fontFamily, "B", filepath.Join(cfg.fontDir, cfg.fontFiles[1]))
		if pdf.Err() {
			return fmt.Errorf("pdfdoc: loading font %s: %w", cfg.fontFamily, pdf.Error())
		}
		utf8Fonts[cfg.fontFamily] = true
		in.FontFamily = cfg.fontFamily
	}
	m := newMeasurer(pdf, utf8Fonts)

	doc := layout.Render(in, m)
	if err := renderDocument(pdf, doc, m, cfg); err != nil {
		return err
	}

	cw := &countWriter{w: w}
	if err := pdf.Output(cw); err != nil {
		return fmt.Errorf("pdfdoc: writing output: %w", err)
	}
	cfg.logger.Debug("pdf.rendered",
		"type", in.Type,
		"number", in.Record.DocumentNumber,
		"pages", len(doc.Pages),
		"bytes", cw.n,
		"draft", in.IsDraft(),
	)
	return nil
}

// Bytes renders in and returns the PDF bytes.
func Bytes(in layout.Input, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, in, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderDocument replays doc onto pdf. Text is encoded for the fonts known
// to m.
func RenderDocument(pdf *fpdf.Fpdf, doc canvas.Document, m *Measurer, opts ...Option) error {
	return renderDocument(pdf, doc, m, newConfig(opts))
}

func renderDocument(pdf *fpdf.Fpdf, doc canvas.Document, m *Measurer, cfg *config) error {
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetSubject(doc.Subject, true)
	pdf.SetCreationDate(doc.Created)

	var lh *letterhead
	if cfg.letterhead != "" {
		var err error
		if lh, err = importLetterhead(pdf, cfg.letterhead); err != nil {
			return err
		}
	}

	d := &drawer{pdf: pdf, m: m, logger: cfg.logger}
	for _, page := range doc.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: doc.Width, Ht: doc.Height})
		if lh != nil {
			lh.draw(pdf, doc.Width, doc.Height)
		}
		for _, op := range page.Ops {
			d.draw(op)
		}
	}

	if pdf.Err() {
		return fmt.Errorf("pdfdoc: %w", pdf.Error())
	}
	return nil
}

// countWriter counts the bytes written through it.
type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
