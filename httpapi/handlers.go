package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/service"
	"github.com/lvillar/invoicekit/store"
	"github.com/lvillar/invoicekit/theme"
)

// documentBody is the JSON body of the document endpoints. The document
// type comes from the path.
type documentBody struct {
	Theme   string            `json:"theme"`
	IsDraft bool              `json:"isDraft"`
	Code    canvas.CodeKind   `json:"code"`
	Record  invoicekit.Record `json:"record"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json body: %v", invoicekit.ErrInvalidParam, err)
	}
	return nil
}

func (h *Handler) documentRequest(w http.ResponseWriter, r *http.Request) (service.Request, error) {
	typ, err := invoicekit.ParseDocumentType(chi.URLParam(r, "type"))
	if err != nil {
		return service.Request{}, err
	}
	var body documentBody
	if err := decodeBody(w, r, &body); err != nil {
		return service.Request{}, err
	}
	switch body.Code {
	case canvas.CodeNone, canvas.CodeQR, canvas.CodePDF417:
	default:
		return service.Request{}, fmt.Errorf("%w: unknown code kind %q", invoicekit.ErrInvalidParam, body.Code)
	}
	return service.Request{
		Type:   typ,
		Theme:  body.Theme,
		Record: body.Record,
		Draft:  body.IsDraft,
		Code:   body.Code,
	}, nil
}

func writePDF(w http.ResponseWriter, res service.Result, disposition string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.Header().Set("X-Document-Total", res.Totals.GrandTotal.StringFixed(2))
	for _, warning := range res.Warnings {
		w.Header().Add("X-Warning", warning)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}

func (h *Handler) generateDocument(w http.ResponseWriter, r *http.Request) {
	req, err := h.documentRequest(w, r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	res, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writePDF(w, res, "attachment")
}

func (h *Handler) previewDocument(w http.ResponseWriter, r *http.Request) {
	req, err := h.documentRequest(w, r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	res, err := h.service.Preview(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writePDF(w, res, "inline")
}

func (h *Handler) validateDocument(w http.ResponseWriter, r *http.Request) {
	req, err := h.documentRequest(w, r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	fields := h.service.Validate(req.Record, req.Type)
	writeSuccess(w, http.StatusOK, map[string]any{"valid": len(fields) == 0, "errors": fields})
}

func (h *Handler) newDocumentNumber(w http.ResponseWriter, r *http.Request) {
	typ, err := invoicekit.ParseDocumentType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"documentNumber": h.service.NewDocumentNumber(typ)})
}

func (h *Handler) listThemes(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, theme.All())
}

func (h *Handler) listCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Currencies())
}

func (h *Handler) getUsage(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Usage(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, u)
}

type draftBody struct {
	DocumentType string            `json:"type"`
	Record       invoicekit.Record `json:"data"`
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request) {
	var body draftBody
	if err := decodeBody(w, r, &body); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	typ, err := invoicekit.ParseDocumentType(body.DocumentType)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	d, err := h.service.SaveDraft(r.Context(), body.Record, typ)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, d)
}

func (h *Handler) listDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.service.Drafts(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, drafts)
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Draft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, d)
}

func (h *Handler) deleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDraft(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, entries)
}

func (h *Handler) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHistory(r.Context()); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportHistory(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.HistoryXLSX(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	name := "history-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *Handler) saveTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl store.ClientTemplate
	if err := decodeBody(w, r, &tpl); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	saved, err := h.service.SaveClientTemplate(r.Context(), tpl)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, saved)
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := h.service.ClientTemplates(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, tpls)
}

func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteClientTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
