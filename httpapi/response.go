package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/validate"
)

type apiError struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"status":  "success",
		"message": message,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeDomainError maps service errors to a status code and error body.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validate.Errors
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{
			Status:  "error",
			Code:    "VALIDATION_ERROR",
			Message: "the document has invalid fields",
			Fields:  ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, invoicekit.ErrQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", err.Error())
	case errors.Is(err, invoicekit.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, invoicekit.ErrInvalidParam):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, invoicekit.ErrStorage):
		h.logger.Error("http.storage.failed", "path", r.URL.Path, "err", err, "request_id", requestIDFromContext(r.Context()))
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service unavailable")
	default:
		h.logger.Error("http.request.failed", "path", r.URL.Path, "err", err, "request_id", requestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
