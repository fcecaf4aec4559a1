package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/service"
	"github.com/lvillar/invoicekit/store"
	"github.com/lvillar/invoicekit/validate"
)

// RegisterTools adds the document tools backed by svc to the server.
func RegisterTools(s *Server, svc *service.Service) {
	h := &handlers{svc: svc}
	s.AddTool(Tool{
		Name:        "generate_document",
		Description: "Validate an invoice or receipt, render it as an A4 PDF and record it in the history. Counts towards the monthly limit. Returns the PDF as base64 unless outputPath is given.",
		InputSchema: documentSchema(true),
		Handler:     h.generate,
	})
	s.AddTool(Tool{
		Name:        "preview_document",
		Description: "Render an invoice or receipt without validating, counting or recording it. Returns the PDF as base64 unless outputPath is given.",
		InputSchema: documentSchema(true),
		Handler:     h.preview,
	})
	s.AddTool(Tool{
		Name:        "validate_document",
		Description: "Check an invoice or receipt record and return a map of field errors. An empty map means the record is valid.",
		InputSchema: documentSchema(false),
		Handler:     h.validate,
	})
	s.AddTool(Tool{
		Name:        "new_document_number",
		Description: "Suggest a document number such as INV-240115-42.",
		InputSchema: object(map[string]any{"type": typeProperty()}),
		Handler:     h.newNumber,
	})
	s.AddTool(Tool{
		Name:        "save_draft",
		Description: "Save a record as a draft. A draft with the same number and type is replaced.",
		InputSchema: documentSchema(false),
		Handler:     h.saveDraft,
	})
	s.AddTool(Tool{
		Name:        "list_drafts",
		Description: "List saved drafts, most recent first.",
		InputSchema: object(nil),
		Handler:     h.listDrafts,
	})
	s.AddTool(Tool{
		Name:        "delete_draft",
		Description: "Delete a draft by ID.",
		InputSchema: object(map[string]any{"id": stringProperty("Draft ID")}, "id"),
		Handler:     h.deleteDraft,
	})
	s.AddTool(Tool{
		Name:        "list_history",
		Description: "List generated documents, newest first.",
		InputSchema: object(nil),
		Handler:     h.listHistory,
	})
	s.AddTool(Tool{
		Name:        "save_client_template",
		Description: "Save a reusable client name and details. Passing an existing id updates that template.",
		InputSchema: object(map[string]any{
			"id":            stringProperty("Template ID to update"),
			"name":          stringProperty("Template name; defaults to the client name"),
			"clientName":    stringProperty("Client name"),
			"clientDetails": stringProperty("Client address and contact lines"),
		}, "clientName"),
		Handler: h.saveTemplate,
	})
	s.AddTool(Tool{
		Name:        "list_client_templates",
		Description: "List saved client templates.",
		InputSchema: object(nil),
		Handler:     h.listTemplates,
	})
	s.AddTool(Tool{
		Name:        "delete_client_template",
		Description: "Delete a client template by ID.",
		InputSchema: object(map[string]any{"id": stringProperty("Template ID")}, "id"),
		Handler:     h.deleteTemplate,
	})
	s.AddTool(Tool{
		Name:        "usage",
		Description: "Show this month's document counts next to the plan limits (-1 is unlimited).",
		InputSchema: object(nil),
		Handler:     h.usage,
	})
}

func object(props map[string]any, required ...string) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProperty(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func typeProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        []string{string(invoicekit.Invoice), string(invoicekit.Receipt)},
		"description": "Document type; defaults to invoice",
	}
}

func documentSchema(render bool) map[string]any {
	props := map[string]any{
		"type": typeProperty(),
		"record": map[string]any{
			"type":        "object",
			"description": "Document fields: documentNumber, date, dueDate, businessName, businessContact, businessLogo (data URL), clientName, clientDetails, items [{description, quantity, price}], amount, tax, discount, currency, notes, paymentTerms",
		},
	}
	if render {
		props["theme"] = stringProperty("Theme key: minimalist, professional, modern, classic, elegant or bold")
		props["draft"] = map[string]any{"type": "boolean", "description": "Stamp a DRAFT watermark"}
		props["code"] = map[string]any{
			"type":        "string",
			"enum":        []string{string(canvas.CodeQR), string(canvas.CodePDF417)},
			"description": "Optional machine-readable code with number, currency and total",
		}
		props["outputPath"] = stringProperty("Optional file path to save the PDF. If omitted, returns base64.")
	}
	return object(props, "record")
}

// decode converts tool arguments into v through JSON.
func decode(args map[string]any, v any) error {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding arguments: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %v", invoicekit.ErrInvalidParam, err)
	}
	return nil
}

func jsonResult(v any) (ToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: string(b)}}}, nil
}

func textResult(format string, args ...any) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf(format, args...)}}}
}

type documentArgs struct {
	Type       string            `json:"type"`
	Theme      string            `json:"theme"`
	Draft      bool              `json:"draft"`
	Code       canvas.CodeKind   `json:"code"`
	OutputPath string            `json:"outputPath"`
	Record     invoicekit.Record `json:"record"`
}

func (a documentArgs) request() (service.Request, error) {
	typ := invoicekit.Invoice
	if a.Type != "" {
		var err error
		if typ, err = invoicekit.ParseDocumentType(a.Type); err != nil {
			return service.Request{}, err
		}
	}
	switch a.Code {
	case canvas.CodeNone, canvas.CodeQR, canvas.CodePDF417:
	default:
		return service.Request{}, fmt.Errorf("%w: unknown code kind %q", invoicekit.ErrInvalidParam, a.Code)
	}
	return service.Request{Type: typ, Theme: a.Theme, Record: a.Record, Draft: a.Draft, Code: a.Code}, nil
}

type handlers struct {
	svc *service.Service
}

func (h *handlers) generate(ctx context.Context, args map[string]any) (ToolResult, error) {
	return h.render(ctx, args, h.svc.Generate)
}

func (h *handlers) preview(ctx context.Context, args map[string]any) (ToolResult, error) {
	return h.render(ctx, args, h.svc.Preview)
}

func (h *handlers) render(ctx context.Context, args map[string]any, fn func(context.Context, service.Request) (service.Result, error)) (ToolResult, error) {
	var a documentArgs
	if err := decode(args, &a); err != nil {
		return ToolResult{}, err
	}
	req, err := a.request()
	if err != nil {
		return ToolResult{}, err
	}

	res, err := fn(ctx, req)
	var ve *validate.Errors
	if errors.As(err, &ve) {
		out, jerr := jsonResult(map[string]any{"valid": false, "errors": ve.Fields})
		out.IsError = true
		return out, jerr
	}
	if err != nil {
		return ToolResult{}, err
	}

	summary := fmt.Sprintf("%s %s rendered (%d bytes), total %s %s.",
		req.Type.Label(), res.Filename, len(res.PDF), req.Record.Currency, res.Totals.GrandTotal.StringFixed(2))
	for _, w := range res.Warnings {
		summary += "\nWarning: " + w
	}

	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, res.PDF, 0o644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return textResult("%s\nSaved to %s", summary, a.OutputPath), nil
	}
	return ToolResult{Content: []ContentBlock{
		{Type: "text", Text: summary},
		{Type: "resource", MIMEType: "application/pdf", Data: base64.StdEncoding.EncodeToString(res.PDF)},
	}}, nil
}

func (h *handlers) validate(_ context.Context, args map[string]any) (ToolResult, error) {
	var a documentArgs
	if err := decode(args, &a); err != nil {
		return ToolResult{}, err
	}
	req, err := a.request()
	if err != nil {
		return ToolResult{}, err
	}
	fields := h.svc.Validate(req.Record, req.Type)
	return jsonResult(map[string]any{"valid": len(fields) == 0, "errors": fields})
}

func (h *handlers) newNumber(_ context.Context, args map[string]any) (ToolResult, error) {
	var a documentArgs
	if err := decode(args, &a); err != nil {
		return ToolResult{}, err
	}
	req, err := a.request()
	if err != nil {
		return ToolResult{}, err
	}
	return textResult("%s", h.svc.NewDocumentNumber(req.Type)), nil
}

func (h *handlers) saveDraft(ctx context.Context, args map[string]any) (ToolResult, error) {
	var a documentArgs
	if err := decode(args, &a); err != nil {
		return ToolResult{}, err
	}
	req, err := a.request()
	if err != nil {
		return ToolResult{}, err
	}
	d, err := h.svc.SaveDraft(ctx, req.Record, req.Type)
	if err != nil {
		return ToolResult{}, err
	}
	return jsonResult(map[string]any{"id": d.ID, "savedAt": d.SavedAt})
}

func (h *handlers) listDrafts(ctx context.Context, _ map[string]any) (ToolResult, error) {
	drafts, err := h.svc.Drafts(ctx)
	if err != nil {
		return ToolResult{}, err
	}
	return jsonResult(drafts)
}

func (h *handlers) deleteDraft(ctx context.Context, args map[string]any) (ToolResult, error) {
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return ToolResult{}, fmt.Errorf("missing 'id' argument")
	}
	if err := h.svc.DeleteDraft(ctx, id); err != nil {
		return ToolResult{}, err
	}
	return textResult("Draft %s deleted", id), nil
}

func (h *handlers) listHistory(ctx context.Context, _ map[string]any) (ToolResult, error) {
	entries, err := h.svc.History(ctx)
	if err != nil {
		return ToolResult{}, err
	}
	return jsonResult(entries)
}

func (h *handlers) saveTemplate(ctx context.Context, args map[string]any) (ToolResult, error) {
	var tpl store.ClientTemplate
	if err := decode(args, &tpl); err != nil {
		return ToolResult{}, err
	}
	saved, err := h.svc.SaveClientTemplate(ctx, tpl)
	if err != nil {
		return ToolResult{}, err
	}
	return jsonResult(saved)
}

func (h *handlers) listTemplates(ctx context.Context, _ map[string]any) (ToolResult, error) {
	tpls, err := h.svc.ClientTemplates(ctx)
	if err != nil {
		return ToolResult{}, err
	}
	return jsonResult(tpls)
}

func (h *handlers) deleteTemplate(ctx context.Context, args map[string]any) (ToolResult, error) {
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return ToolResult{}, fmt.Errorf("missing 'id' argument")
	}
	if err := h.svc.DeleteClientTemplate(ctx, id); err != nil {
		return ToolResult{}, err
	}
	return textResult("Client template %s deleted", id), nil
}

func (h *handlers) usage(ctx context.Context, _ map[string]any) (ToolResult, error) {
	u, err := h.svc.Usage(ctx)
	if err != nil {
		return ToolResult{}, err
	}
	return jsonResult(u)
}
