package pdfdoc

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/layout"
	"github.com/lvillar/invoicekit/theme"
)

// Request is the JSON form of a render call.
//
//	{
//	  "documentType": "invoice",
//	  "theme": "modern",
//	  "isDraft": true,
//	  "record": {"documentNumber": "INV-240115-42", "businessName": "Acme", ...}
//	}
type Request struct {
	DocumentType string            `json:"documentType"`
	Theme        string            `json:"theme,omitempty"`
	IsDraft      bool              `json:"isDraft,omitempty"`
	Code         canvas.CodeKind   `json:"code,omitempty"`
	Record       invoicekit.Record `json:"record"`
}

// Input converts the request into layout input. An empty document type
// means an invoice; unknown themes fall back to the default theme.
func (r Request) Input() (layout.Input, error) {
	typ := invoicekit.Invoice
	if r.DocumentType != "" {
		var err error
		if typ, err = invoicekit.ParseDocumentType(r.DocumentType); err != nil {
			return layout.Input{}, err
		}
	}
	switch r.Code {
	case canvas.CodeNone, canvas.CodeQR, canvas.CodePDF417:
	default:
		return layout.Input{}, fmt.Errorf("%w: unknown code kind %q", invoicekit.ErrInvalidParam, r.Code)
	}
	return layout.Input{
		Record: r.Record,
		Type:   typ,
		Theme:  theme.Get(r.Theme),
		Draft:  r.IsDraft,
		Code:   r.Code,
	}, nil
}

// RenderJSON parses a JSON Request and writes the resulting PDF to w.
func RenderJSON(w io.Writer, data []byte, opts ...Option) error {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("pdfdoc: parsing request: %w", err)
	}
	in, err := req.Input()
	if err != nil {
		return fmt.Errorf("pdfdoc: %w", err)
	}
	return Render(w, in, opts...)
}
