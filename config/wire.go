package config

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/lvillar/invoicekit/archive"
	"github.com/lvillar/invoicekit/kv"
	"github.com/lvillar/invoicekit/pdfdoc"
	"github.com/lvillar/invoicekit/quota"
	"github.com/lvillar/invoicekit/service"
	"github.com/lvillar/invoicekit/store"
)

// NewLogger returns a text or JSON slog logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RenderOptions translates the render section into pdfdoc options.
func (c Config) RenderOptions() []pdfdoc.Option {
	var opts []pdfdoc.Option
	if c.Render.Letterhead != "" {
		opts = append(opts, pdfdoc.WithLetterhead(c.Render.Letterhead))
	}
	if c.Render.FontRegular != "" {
		family := c.Render.FontFamily
		if family == "" {
			family = "DejaVu"
		}
		opts = append(opts, pdfdoc.WithUTF8Font(family, c.Render.FontDir, c.Render.FontRegular, c.Render.FontBold))
	}
	if c.Render.Compress != nil {
		opts = append(opts, pdfdoc.WithCompression(*c.Render.Compress))
	}
	return opts
}

// NewService opens the configured store and archive and returns the
// service built on them. cleanup releases the store.
func (c Config) NewService(ctx context.Context, logger *slog.Logger) (svc *service.Service, cleanup func() error, err error) {
	backend, err := kv.Open(ctx, c.Store)
	if err != nil {
		return nil, nil, err
	}
	sink, err := archive.Open(c.Archive)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	svc = service.New(service.Deps{
		Store:         store.New(backend, store.WithLogger(logger)),
		Quota:         quota.New(backend, c.QuotaPlan(), quota.WithLogger(logger)),
		Sink:          sink,
		Currencies:    c.CurrencyTable(),
		Logger:        logger,
		RenderOptions: c.RenderOptions(),
	})
	logger.Debug("service.ready",
		"store", c.Store.Driver,
		"archive", c.Archive.Kind,
		"plan", c.QuotaPlan().Name,
	)
	return svc, backend.Close, nil
}
