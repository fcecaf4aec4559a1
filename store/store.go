// Package store keeps drafts, the generation history and client templates
// as JSON arrays under fixed keys of a kv.Store.
//
// Every operation reads the whole collection, changes it and writes it
// back. There are no transactions: two concurrent writers may lose an
// update, exactly like two browser tabs sharing local storage.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/kv"
)

// Keys under which the collections are stored.
const (
	KeyDrafts          = "invoiceDrafts"
	KeyHistory         = "invoiceHistory"
	KeyClientTemplates = "clientTemplates"
)

// MaxHistory is the number of history entries kept.
const MaxHistory = 50

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report unreadable collections.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store persists drafts, history and client templates.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Store over backend.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{kv: backend, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// load reads the collection under key. A missing key is an empty
// collection, and so is malformed JSON, which is logged.
func load[T any](ctx context.Context, s *Store, op, key string) ([]T, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, invoicekit.StorageError(op, err)
	}
	if !ok || raw == "" {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logger.Warn("store.decode.failed", "key", key, "err", err)
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func save[T any](ctx context.Context, s *Store, op, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return invoicekit.WrapError(op, err)
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return invoicekit.StorageError(op, err)
	}
	return nil
}
