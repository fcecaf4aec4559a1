// Package service ties validation, the usage gate, rendering, archiving
// and history together behind the operations the front ends expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/archive"
	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/kv"
	"github.com/lvillar/invoicekit/layout"
	"github.com/lvillar/invoicekit/pdfdoc"
	"github.com/lvillar/invoicekit/quota"
	"github.com/lvillar/invoicekit/store"
	"github.com/lvillar/invoicekit/theme"
	"github.com/lvillar/invoicekit/validate"
)

// Deps are the collaborators of a Service. Nil Store and Quota default to
// in-memory ones without limits; a nil Sink disables archiving.
type Deps struct {
	Store         *store.Store
	Quota         *quota.Gate
	Sink          archive.Sink
	Currencies    invoicekit.CurrencyTable
	Logger        *slog.Logger
	RenderOptions []pdfdoc.Option
	Now           func() time.Time
}

// Service implements document generation and the persistence operations
// around it.
type Service struct {
	store      *store.Store
	quota      *quota.Gate
	sink       archive.Sink
	currencies invoicekit.CurrencyTable
	logger     *slog.Logger
	renderOpts []pdfdoc.Option
	now        func() time.Time
}

// New returns a Service.
func New(d Deps) *Service {
	s := &Service{
		store:      d.Store,
		quota:      d.Quota,
		sink:       d.Sink,
		currencies: d.Currencies,
		logger:     d.Logger,
		now:        d.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.currencies == nil {
		s.currencies = invoicekit.DefaultCurrencies
	}
	if s.store == nil || s.quota == nil {
		mem := kv.NewMemory()
		if s.store == nil {
			s.store = store.New(mem, store.WithLogger(s.logger))
		}
		if s.quota == nil {
			s.quota = quota.New(mem, quota.Unlimited, quota.WithLogger(s.logger))
		}
	}
	s.renderOpts = append([]pdfdoc.Option{pdfdoc.WithLogger(s.logger)}, d.RenderOptions...)
	return s
}

// Request asks for one rendered document.
type Request struct {
	Type   invoicekit.DocumentType
	Theme  string
	Record invoicekit.Record
	Draft  bool
	Code   canvas.CodeKind
}

// Result is a rendered document. Warnings lists persistence steps that
// failed after the PDF was produced.
type Result struct {
	PDF      []byte
	Filename string
	Totals   invoicekit.Totals
	Location string // archive location, if archived
	Warnings []string
}

func (s *Service) input(req Request) layout.Input {
	return layout.Input{
		Record:     req.Record,
		Type:       req.Type,
		Theme:      theme.Get(req.Theme),
		Draft:      req.Draft,
		Currencies: s.currencies,
		Code:       req.Code,
	}
}

func checkType(t invoicekit.DocumentType) error {
	if t != invoicekit.Invoice && t != invoicekit.Receipt {
		return fmt.Errorf("%w: unknown document type %q", invoicekit.ErrInvalidParam, t)
	}
	return nil
}

// Generate validates the record, checks the monthly limit, renders the PDF
// and then archives it, records it in the history and counts it. Failures
// after rendering do not fail the call; they are returned as warnings.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if err := checkType(req.Type); err != nil {
		return Result{}, err
	}
	if err := validate.Check(req.Record, req.Type); err != nil {
		return Result{}, err
	}
	if err := s.quota.Check(ctx, req.Type); err != nil {
		var qe *quota.ExceededError
		if errors.As(err, &qe) {
			s.logger.Info("document.quota.exceeded", "type", req.Type, "limit", qe.Limit)
		}
		return Result{}, err
	}

	res, err := s.render(req)
	if err != nil {
		return Result{}, err
	}

	if s.sink != nil {
		loc, err := s.sink.Put(ctx, res.Filename, res.PDF)
		if err != nil {
			res.Warnings = append(res.Warnings, "archive: "+err.Error())
			s.logger.Warn("document.archive.failed", "filename", res.Filename, "err", err)
		} else {
			res.Location = loc
		}
	}
	if _, err := s.store.AddToHistory(ctx, req.Record, req.Type, res.Filename); err != nil {
		res.Warnings = append(res.Warnings, "history: "+err.Error())
		s.logger.Warn("document.history.failed", "filename", res.Filename, "err", err)
	}
	if err := s.quota.Increment(ctx, req.Type); err != nil {
		res.Warnings = append(res.Warnings, "usage: "+err.Error())
		s.logger.Warn("document.usage.failed", "type", req.Type, "err", err)
	}

	s.logger.Info("document.generated",
		"type", req.Type,
		"number", req.Record.DocumentNumber,
		"theme", req.Theme,
		"bytes", len(res.PDF),
		"warnings", len(res.Warnings),
	)
	return res, nil
}

// Preview renders without validating, counting or recording anything.
func (s *Service) Preview(_ context.Context, req Request) (Result, error) {
	if err := checkType(req.Type); err != nil {
		return Result{}, err
	}
	return s.render(req)
}

// Layout returns the drawing operations of a document instead of a PDF.
func (s *Service) Layout(req Request) (canvas.Document, error) {
	if err := checkType(req.Type); err != nil {
		return canvas.Document{}, err
	}
	return layout.Render(s.input(req), pdfdoc.NewMeasurer()), nil
}

func (s *Service) render(req Request) (Result, error) {
	pdf, err := pdfdoc.Bytes(s.input(req), s.renderOpts...)
	if err != nil {
		return Result{}, invoicekit.WrapError("Render", err)
	}
	return Result{
		PDF:      pdf,
		Filename: pdfdoc.Filename(req.Type, req.Record.DocumentNumber, s.now()),
		Totals:   req.Record.Totals(req.Type),
	}, nil
}

// Validate returns field errors for rec; an empty map means valid.
func (s *Service) Validate(rec invoicekit.Record, t invoicekit.DocumentType) map[string]string {
	return validate.Record(rec, t)
}

// NewDocumentNumber suggests a number for a new document of type t.
func (s *Service) NewDocumentNumber(t invoicekit.DocumentType) string {
	return invoicekit.NewDocumentNumber(t, s.now(), nil)
}

// Currencies returns the currency table.
func (s *Service) Currencies() invoicekit.CurrencyTable {
	return s.currencies
}
