package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/kv"
)

type failingKV struct{ kv.Store }

var errBroken = errors.New("disk full")

func (failingKV) Set(context.Context, string, string) error { return errBroken }

func newStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(mem, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	return s, mem
}

func rec(number string) invoicekit.Record {
	return invoicekit.Record{
		DocumentNumber: number,
		Date:           "2024-03-01",
		BusinessName:   "Acme",
		ClientName:     "Bob",
		Items:          []invoicekit.Item{{Description: "Widget", Quantity: 2, Price: 10}},
		Tax:            10,
		Currency:       "USD",
	}
}

func TestDrafts(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	a, err := s.SaveDraft(ctx, rec("INV-1"), invoicekit.Invoice)
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if _, err := s.SaveDraft(ctx, rec("INV-2"), invoicekit.Invoice); err != nil {
		t.Fatal(err)
	}
	// same number, different type: separate draft
	if _, err := s.SaveDraft(ctx, rec("INV-1"), invoicekit.Receipt); err != nil {
		t.Fatal(err)
	}

	updated := rec("INV-1")
	updated.ClientName = "Carol"
	b, err := s.SaveDraft(ctx, updated, invoicekit.Invoice)
	if err != nil {
		t.Fatal(err)
	}
	if b.ID != a.ID {
		t.Errorf("replaced draft changed ID: %s -> %s", a.ID, b.ID)
	}

	drafts, err := s.Drafts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 3 {
		t.Fatalf("drafts = %d, want 3", len(drafts))
	}
	if drafts[0].ID != a.ID || drafts[0].Record.ClientName != "Carol" {
		t.Errorf("most recent draft = %+v", drafts[0])
	}

	got, err := s.Draft(ctx, a.ID)
	if err != nil || got.Record.ClientName != "Carol" {
		t.Errorf("Draft = %+v, %v", got, err)
	}

	if err := s.DeleteDraft(ctx, a.ID); err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	if err := s.DeleteDraft(ctx, a.ID); !errors.Is(err, invoicekit.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if drafts, _ := s.Drafts(ctx); len(drafts) != 2 {
		t.Errorf("drafts after delete = %d", len(drafts))
	}
}

func TestHistoryNewestFirstAndCapped(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for i := 0; i < MaxHistory+5; i++ {
		n := fmt.Sprintf("INV-%d", i)
		if _, err := s.AddToHistory(ctx, rec(n), invoicekit.Invoice, "invoice_"+n+".pdf"); err != nil {
			t.Fatalf("AddToHistory %d: %v", i, err)
		}
	}
	h, err := s.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != MaxHistory {
		t.Fatalf("history = %d, want %d", len(h), MaxHistory)
	}
	last := fmt.Sprintf("INV-%d", MaxHistory+4)
	if h[0].DocumentNumber != last || h[0].Filename != "invoice_"+last+".pdf" {
		t.Errorf("newest entry = %+v", h[0])
	}
	if h[0].Total != "22.00" || h[0].Currency != "USD" {
		t.Errorf("total = %q %q", h[0].Total, h[0].Currency)
	}
	if !h[0].CreatedAt.After(h[1].CreatedAt) {
		t.Error("history is not newest first")
	}

	if err := s.ClearHistory(ctx); err != nil {
		t.Fatal(err)
	}
	if h, _ := s.History(ctx); len(h) != 0 {
		t.Errorf("history after clear = %d", len(h))
	}
}

func TestHistoryDropsLogo(t *testing.T) {
	s, _ := newStore(t)
	r := rec("INV-1")
	r.BusinessLogo = invoicekit.Image("\x89PNG....")
	e, err := s.AddToHistory(context.Background(), r, invoicekit.Invoice, "x.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Record.BusinessLogo) != 0 {
		t.Error("history entry kept the logo")
	}
	if len(r.BusinessLogo) == 0 {
		t.Error("caller's record was modified")
	}
}

func TestClientTemplates(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if _, err := s.SaveClientTemplate(ctx, ClientTemplate{}); !errors.Is(err, invoicekit.ErrInvalidParam) {
		t.Errorf("empty template error = %v", err)
	}

	bob, err := s.SaveClientTemplate(ctx, ClientTemplate{ClientName: "Bob", ClientDetails: "1 Main St"})
	if err != nil {
		t.Fatal(err)
	}
	if bob.ID == "" || bob.Name != "Bob" {
		t.Errorf("saved template = %+v", bob)
	}
	if _, err := s.SaveClientTemplate(ctx, ClientTemplate{Name: "Carol Co", ClientName: "Carol"}); err != nil {
		t.Fatal(err)
	}

	bob.ClientDetails = "2 Main St"
	if _, err := s.SaveClientTemplate(ctx, bob); err != nil {
		t.Fatal(err)
	}
	tpls, err := s.ClientTemplates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tpls) != 2 || tpls[0].ClientDetails != "2 Main St" {
		t.Fatalf("templates = %+v", tpls)
	}

	applied := tpls[0].Apply(rec("INV-9"))
	if applied.ClientName != "Bob" || applied.ClientDetails != "2 Main St" {
		t.Errorf("Apply = %+v", applied)
	}

	if err := s.DeleteClientTemplate(ctx, bob.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteClientTemplate(ctx, "nope"); !errors.Is(err, invoicekit.ErrNotFound) {
		t.Errorf("delete unknown = %v", err)
	}
}

func TestMalformedJSONIsEmpty(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()
	for _, key := range []string{KeyDrafts, KeyHistory, KeyClientTemplates} {
		_ = mem.Set(ctx, key, "{not json")
	}
	if d, err := s.Drafts(ctx); err != nil || len(d) != 0 {
		t.Errorf("Drafts = %v, %v", d, err)
	}
	if h, err := s.History(ctx); err != nil || len(h) != 0 {
		t.Errorf("History = %v, %v", h, err)
	}
	if c, err := s.ClientTemplates(ctx); err != nil || len(c) != 0 {
		t.Errorf("ClientTemplates = %v, %v", c, err)
	}
	// writing recovers the collection
	if _, err := s.SaveDraft(ctx, rec("INV-1"), invoicekit.Invoice); err != nil {
		t.Fatal(err)
	}
	if d, _ := s.Drafts(ctx); len(d) != 1 {
		t.Errorf("drafts after save = %d", len(d))
	}
}

func TestStorageErrors(t *testing.T) {
	s := New(failingKV{kv.NewMemory()})
	_, err := s.SaveDraft(context.Background(), rec("INV-1"), invoicekit.Invoice)
	if !errors.Is(err, invoicekit.ErrStorage) || !errors.Is(err, errBroken) {
		t.Errorf("SaveDraft error = %v", err)
	}
	var opErr *invoicekit.Error
	if !errors.As(err, &opErr) || opErr.Op != "SaveDraft" {
		t.Errorf("error op = %+v", opErr)
	}
}
