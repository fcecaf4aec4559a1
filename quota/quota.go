// Package quota limits how many documents of each type can be generated per
// calendar month.
package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/kv"
)

// Key is where usage counters are stored.
const Key = "usageStats"

const monthLayout = "2006-01"

// Plan is a subscription tier. A negative or missing limit is unlimited.
type Plan struct {
	Name   string                          `json:"name" yaml:"name"`
	Limits map[invoicekit.DocumentType]int `json:"limits" yaml:"limits"`
}

// Free allows five invoices and five receipts a month.
var Free = Plan{
	Name:   "free",
	Limits: map[invoicekit.DocumentType]int{invoicekit.Invoice: 5, invoicekit.Receipt: 5},
}

// Unlimited has no limits.
var Unlimited = Plan{Name: "unlimited"}

// Limit returns the monthly limit for t, or -1 when unlimited.
func (p Plan) Limit(t invoicekit.DocumentType) int {
	n, ok := p.Limits[t]
	if !ok || n < 0 {
		return -1
	}
	return n
}

// Usage is the month's counters.
type Usage struct {
	Month  string                          `json:"month"`
	Counts map[invoicekit.DocumentType]int `json:"counts"`
}

// Decision is the answer to CanGenerate.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// ExceededError reports a reached monthly limit. It unwraps to
// invoicekit.ErrQuotaExceeded.
type ExceededError struct {
	Type  invoicekit.DocumentType
	Limit int
	Month string
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("monthly limit of %d %ss reached for %s", e.Limit, e.Type, e.Month)
}

func (e *ExceededError) Unwrap() error {
	return invoicekit.ErrQuotaExceeded
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = l
	}
}

// Gate checks and counts generated documents.
type Gate struct {
	kv     kv.Store
	plan   Plan
	now    func() time.Time
	logger *slog.Logger
}

// New returns a Gate enforcing plan.
func New(backend kv.Store, plan Plan, opts ...Option) *Gate {
	g := &Gate{kv: backend, plan: plan, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Plan returns the enforced plan.
func (g *Gate) Plan() Plan {
	return g.plan
}

// Usage returns this month's counters. Counters of an earlier month read
// as zero.
func (g *Gate) Usage(ctx context.Context) (Usage, error) {
	month := g.now().Format(monthLayout)
	fresh := Usage{Month: month, Counts: map[invoicekit.DocumentType]int{}}

	raw, ok, err := g.kv.Get(ctx, Key)
	if err != nil {
		return Usage{}, invoicekit.StorageError("Usage", err)
	}
	if !ok {
		return fresh, nil
	}
	var u Usage
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		g.logger.Warn("quota.decode.failed", "err", err)
		return fresh, nil
	}
	if u.Month != month {
		return fresh, nil
	}
	if u.Counts == nil {
		u.Counts = map[invoicekit.DocumentType]int{}
	}
	return u, nil
}

// CanGenerate reports whether one more document of type t fits this
// month's limit.
func (g *Gate) CanGenerate(ctx context.Context, t invoicekit.DocumentType) (Decision, error) {
	u, err := g.Usage(ctx)
	if err != nil {
		return Decision{}, err
	}
	limit := g.plan.Limit(t)
	if limit < 0 || u.Counts[t] < limit {
		return Decision{Allowed: true}, nil
	}
	return Decision{
		Reason: fmt.Sprintf("You have reached the %s plan limit of %d %ss this month. Upgrade to generate more.", g.plan.Name, limit, t),
	}, nil
}

// Check is CanGenerate as an error: it returns *ExceededError when the
// limit is reached.
func (g *Gate) Check(ctx context.Context, t invoicekit.DocumentType) error {
	d, err := g.CanGenerate(ctx, t)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return &ExceededError{Type: t, Limit: g.plan.Limit(t), Month: g.now().Format(monthLayout)}
	}
	return nil
}

// Increment counts one generated document of type t.
func (g *Gate) Increment(ctx context.Context, t invoicekit.DocumentType) error {
	u, err := g.Usage(ctx)
	if err != nil {
		return err
	}
	u.Counts[t]++
	b, err := json.Marshal(u)
	if err != nil {
		return invoicekit.WrapError("Increment", err)
	}
	if err := g.kv.Set(ctx, Key, string(b)); err != nil {
		return invoicekit.StorageError("Increment", err)
	}
	return nil
}
