package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lvillar/invoicekit"
)

// Draft is a saved, not yet generated document.
type Draft struct {
	ID           string                  `json:"id"`
	DocumentType invoicekit.DocumentType `json:"type"`
	Record       invoicekit.Record       `json:"data"`
	SavedAt      time.Time               `json:"savedAt"`
}

// SaveDraft stores rec as a draft. A draft with the same document number and
// type is replaced and keeps its ID. The saved draft moves to the front.
func (s *Store) SaveDraft(ctx context.Context, rec invoicekit.Record, t invoicekit.DocumentType) (Draft, error) {
	drafts, err := load[Draft](ctx, s, "SaveDraft", KeyDrafts)
	if err != nil {
		return Draft{}, err
	}

	d := Draft{ID: uuid.NewString(), DocumentType: t, Record: rec, SavedAt: s.now().UTC()}
	kept := make([]Draft, 0, len(drafts)+1)
	for _, old := range drafts {
		if rec.DocumentNumber != "" && old.DocumentType == t && old.Record.DocumentNumber == rec.DocumentNumber {
			d.ID = old.ID
			continue
		}
		kept = append(kept, old)
	}
	kept = append([]Draft{d}, kept...)

	if err := save(ctx, s, "SaveDraft", KeyDrafts, kept); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Drafts returns every saved draft, most recently saved first.
func (s *Store) Drafts(ctx context.Context) ([]Draft, error) {
	return load[Draft](ctx, s, "Drafts", KeyDrafts)
}

// Draft returns the draft with the given ID.
func (s *Store) Draft(ctx context.Context, id string) (Draft, error) {
	drafts, err := s.Drafts(ctx)
	if err != nil {
		return Draft{}, err
	}
	for _, d := range drafts {
		if d.ID == id {
			return d, nil
		}
	}
	return Draft{}, fmt.Errorf("draft %s: %w", id, invoicekit.ErrNotFound)
}

// DeleteDraft removes the draft with the given ID.
func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	drafts, err := load[Draft](ctx, s, "DeleteDraft", KeyDrafts)
	if err != nil {
		return err
	}
	for i, d := range drafts {
		if d.ID == id {
			return save(ctx, s, "DeleteDraft", KeyDrafts, append(drafts[:i], drafts[i+1:]...))
		}
	}
	return fmt.Errorf("draft %s: %w", id, invoicekit.ErrNotFound)
}
