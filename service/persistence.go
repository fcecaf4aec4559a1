package service

import (
	"context"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/export"
	"github.com/lvillar/invoicekit/quota"
	"github.com/lvillar/invoicekit/store"
)

func (s *Service) SaveDraft(ctx context.Context, rec invoicekit.Record, t invoicekit.DocumentType) (store.Draft, error) {
	if err := checkType(t); err != nil {
		return store.Draft{}, err
	}
	return s.store.SaveDraft(ctx, rec, t)
}

func (s *Service) Drafts(ctx context.Context) ([]store.Draft, error) {
	return s.store.Drafts(ctx)
}

func (s *Service) Draft(ctx context.Context, id string) (store.Draft, error) {
	return s.store.Draft(ctx, id)
}

func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	return s.store.DeleteDraft(ctx, id)
}

func (s *Service) History(ctx context.Context) ([]store.HistoryEntry, error) {
	return s.store.History(ctx)
}

func (s *Service) ClearHistory(ctx context.Context) error {
	return s.store.ClearHistory(ctx)
}

// HistoryXLSX exports the history as a spreadsheet.
func (s *Service) HistoryXLSX(ctx context.Context) ([]byte, error) {
	entries, err := s.store.History(ctx)
	if err != nil {
		return nil, err
	}
	b, err := export.HistoryXLSX(entries)
	if err != nil {
		return nil, invoicekit.WrapError("HistoryXLSX", err)
	}
	s.logger.Info("export.xlsx.ok", "rows", len(entries), "bytes", len(b))
	return b, nil
}

func (s *Service) SaveClientTemplate(ctx context.Context, tpl store.ClientTemplate) (store.ClientTemplate, error) {
	return s.store.SaveClientTemplate(ctx, tpl)
}

func (s *Service) ClientTemplates(ctx context.Context) ([]store.ClientTemplate, error) {
	return s.store.ClientTemplates(ctx)
}

func (s *Service) DeleteClientTemplate(ctx context.Context, id string) error {
	return s.store.DeleteClientTemplate(ctx, id)
}

// UsageReport is this month's usage next to the plan limits.
type UsageReport struct {
	Plan   string                          `json:"plan"`
	Month  string                          `json:"month"`
	Counts map[invoicekit.DocumentType]int `json:"counts"`
	Limits map[invoicekit.DocumentType]int `json:"limits"` // -1 is unlimited
}

func (s *Service) Usage(ctx context.Context) (UsageReport, error) {
	u, err := s.quota.Usage(ctx)
	if err != nil {
		return UsageReport{}, err
	}
	plan := s.quota.Plan()
	limits := map[invoicekit.DocumentType]int{}
	for _, t := range []invoicekit.DocumentType{invoicekit.Invoice, invoicekit.Receipt} {
		limits[t] = plan.Limit(t)
	}
	return UsageReport{Plan: plan.Name, Month: u.Month, Counts: u.Counts, Limits: limits}, nil
}

// CanGenerate reports whether another document of type t is allowed.
func (s *Service) CanGenerate(ctx context.Context, t invoicekit.DocumentType) (quota.Decision, error) {
	return s.quota.CanGenerate(ctx, t)
}
