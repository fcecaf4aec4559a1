package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lvillar/invoicekit"
)

// HistoryEntry records one generated document.
type HistoryEntry struct {
	ID             string                  `json:"id"`
	DocumentType   invoicekit.DocumentType `json:"type"`
	DocumentNumber string                  `json:"documentNumber"`
	ClientName     string                  `json:"clientName"`
	Currency       string                  `json:"currency"`
	Total          string                  `json:"total"` // grand total, two decimals
	Filename       string                  `json:"filename"`
	CreatedAt      time.Time               `json:"createdAt"`
	Record         invoicekit.Record       `json:"data"`
}

// AddToHistory prepends an entry for a generated document and trims the
// history to MaxHistory entries. The logo is not kept.
func (s *Store) AddToHistory(ctx context.Context, rec invoicekit.Record, t invoicekit.DocumentType, filename string) (HistoryEntry, error) {
	entries, err := load[HistoryEntry](ctx, s, "AddToHistory", KeyHistory)
	if err != nil {
		return HistoryEntry{}, err
	}

	rec.BusinessLogo = nil
	e := HistoryEntry{
		ID:             uuid.NewString(),
		DocumentType:   t,
		DocumentNumber: rec.DocumentNumber,
		ClientName:     rec.ClientName,
		Currency:       rec.Currency,
		Total:          rec.Totals(t).GrandTotal.StringFixed(2),
		Filename:       filename,
		CreatedAt:      s.now().UTC(),
		Record:         rec,
	}
	entries = append([]HistoryEntry{e}, entries...)
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}

	if err := save(ctx, s, "AddToHistory", KeyHistory, entries); err != nil {
		return HistoryEntry{}, err
	}
	return e, nil
}

// History returns generated documents, newest first.
func (s *Store) History(ctx context.Context) ([]HistoryEntry, error) {
	return load[HistoryEntry](ctx, s, "History", KeyHistory)
}

// ClearHistory removes every history entry.
func (s *Store) ClearHistory(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyHistory); err != nil {
		return invoicekit.StorageError("ClearHistory", err)
	}
	return nil
}
