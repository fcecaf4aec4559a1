package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/kv"
)

func TestFreePlanLimit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)
	g := New(kv.NewMemory(), Free, WithClock(func() time.Time { return now }))

	for i := 0; i < 5; i++ {
		d, err := g.CanGenerate(ctx, invoicekit.Invoice)
		if err != nil || !d.Allowed {
			t.Fatalf("invoice %d: %+v, %v", i, d, err)
		}
		if err := g.Increment(ctx, invoicekit.Invoice); err != nil {
			t.Fatal(err)
		}
	}

	d, err := g.CanGenerate(ctx, invoicekit.Invoice)
	if err != nil || d.Allowed || d.Reason == "" {
		t.Errorf("sixth invoice: %+v, %v", d, err)
	}
	if d, _ := g.CanGenerate(ctx, invoicekit.Receipt); !d.Allowed {
		t.Error("receipts share the invoice counter")
	}

	err = g.Check(ctx, invoicekit.Invoice)
	if !errors.Is(err, invoicekit.ErrQuotaExceeded) {
		t.Fatalf("Check = %v", err)
	}
	var qe *ExceededError
	if !errors.As(err, &qe) || qe.Limit != 5 || qe.Month != "2024-03" {
		t.Errorf("ExceededError = %+v", qe)
	}

	u, _ := g.Usage(ctx)
	if u.Counts[invoicekit.Invoice] != 5 || u.Month != "2024-03" {
		t.Errorf("usage = %+v", u)
	}

	// next month starts from zero
	now = now.Add(2 * time.Hour)
	if d, _ := g.CanGenerate(ctx, invoicekit.Invoice); !d.Allowed {
		t.Error("counter did not reset on month rollover")
	}
	if u, _ := g.Usage(ctx); u.Month != "2024-04" || u.Counts[invoicekit.Invoice] != 0 {
		t.Errorf("usage after rollover = %+v", u)
	}
}

func TestUnlimited(t *testing.T) {
	ctx := context.Background()
	g := New(kv.NewMemory(), Unlimited)
	for i := 0; i < 20; i++ {
		if err := g.Increment(ctx, invoicekit.Receipt); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Check(ctx, invoicekit.Receipt); err != nil {
		t.Errorf("unlimited plan refused: %v", err)
	}
	if Unlimited.Limit(invoicekit.Invoice) != -1 {
		t.Error("unlimited plan reports a limit")
	}
}

func TestZeroLimitPlan(t *testing.T) {
	g := New(kv.NewMemory(), Plan{Name: "receipts-only", Limits: map[invoicekit.DocumentType]int{invoicekit.Invoice: 0}})
	if d, _ := g.CanGenerate(context.Background(), invoicekit.Invoice); d.Allowed {
		t.Error("zero limit allowed an invoice")
	}
	if d, _ := g.CanGenerate(context.Background(), invoicekit.Receipt); !d.Allowed {
		t.Error("missing limit should be unlimited")
	}
}

func TestMalformedUsage(t *testing.T) {
	mem := kv.NewMemory()
	_ = mem.Set(context.Background(), Key, "garbage")
	g := New(mem, Free)
	u, err := g.Usage(context.Background())
	if err != nil || len(u.Counts) != 0 {
		t.Errorf("usage = %+v, %v", u, err)
	}
}
