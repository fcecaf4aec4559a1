// Package httpapi serves the document service over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lvillar/invoicekit/service"
)

// maxBodyBytes bounds request bodies; logos travel inline as data URLs.
const maxBodyBytes = 10 << 20

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, logger: logger}
}

// NewRouter returns the API routes.
func NewRouter(svc *service.Service, logger *slog.Logger) http.Handler {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })

	r.Route("/v1", func(r chi.Router) {
		r.Get("/themes", h.listThemes)
		r.Get("/currencies", h.listCurrencies)
		r.Get("/usage", h.getUsage)

		r.Route("/documents/{type}", func(r chi.Router) {
			r.Post("/", h.generateDocument)
			r.Post("/preview", h.previewDocument)
			r.Post("/validate", h.validateDocument)
			r.Get("/number", h.newDocumentNumber)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", h.listDrafts)
			r.Post("/", h.saveDraft)
			r.Get("/{id}", h.getDraft)
			r.Delete("/{id}", h.deleteDraft)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.listHistory)
			r.Delete("/", h.clearHistory)
			r.Get("/export", h.exportHistory)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.listTemplates)
			r.Post("/", h.saveTemplate)
			r.Delete("/{id}", h.deleteTemplate)
		})
	})
	return r
}
