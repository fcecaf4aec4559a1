package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/canvas"
	"github.com/lvillar/invoicekit/config"
	"github.com/lvillar/invoicekit/httpapi"
	"github.com/lvillar/invoicekit/service"
	"github.com/lvillar/invoicekit/theme"
	"github.com/lvillar/invoicekit/validate"
)

// env is what every command needs once the configuration is loaded.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     config.Config
	logger  *slog.Logger
	svc     *service.Service
	cleanup func() error
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      "invoicekit",
		Usage:     "render invoices and receipts as PDF",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "invoicekit.yaml",
				Usage:   "configuration file; missing is fine",
				EnvVars: []string{"INVOICEKIT_CONFIG"},
			},
		},
		Before: e.setup,
		After:  e.teardown,
		Commands: []*cli.Command{
			renderCommand(e),
			serveCommand(e),
			draftsCommand(e),
			historyCommand(e),
			templatesCommand(e),
			{
				Name:  "usage",
				Usage: "show this month's document counts and plan limits",
				Action: func(c *cli.Context) error {
					u, err := e.svc.Usage(c.Context)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintf(tw, "PLAN\t%s\nMONTH\t%s\n", u.Plan, u.Month)
					for _, t := range []invoicekit.DocumentType{invoicekit.Invoice, invoicekit.Receipt} {
						limit := "unlimited"
						if n := u.Limits[t]; n >= 0 {
							limit = fmt.Sprint(n)
						}
						fmt.Fprintf(tw, "%s\t%d / %s\n", t, u.Counts[t], limit)
					}
					return tw.Flush()
				},
			},
			{
				Name:  "themes",
				Usage: "list the themes",
				Action: func(c *cli.Context) error {
					tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "KEY\tNAME")
					for _, t := range theme.All() {
						fmt.Fprintf(tw, "%s\t%s\n", t.Key, t.Name)
					}
					return tw.Flush()
				},
			},
			{
				Name:  "number",
				Usage: "suggest a new document number",
				Flags: []cli.Flag{typeFlag()},
				Action: func(c *cli.Context) error {
					t, err := invoicekit.ParseDocumentType(c.String("type"))
					if err != nil {
						return err
					}
					fmt.Fprintln(e.stdout, e.svc.NewDocumentNumber(t))
					return nil
				},
			},
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.logger = cfg.NewLogger(e.stderr)
	e.svc, e.cleanup, err = cfg.NewService(c.Context, e.logger)
	return err
}

func (e *env) teardown(*cli.Context) error {
	if e.cleanup == nil {
		return nil
	}
	return e.cleanup()
}

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Value:   string(invoicekit.Invoice),
		Usage:   "invoice or receipt",
	}
}

func renderCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a JSON record as a PDF",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Value: "-", Usage: "record JSON file, - for stdin"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PDF; defaults to the document file name"},
			typeFlag(),
			&cli.StringFlag{Name: "theme", Value: theme.DefaultKey, Usage: "theme key"},
			&cli.BoolFlag{Name: "draft", Usage: "stamp a DRAFT watermark"},
			&cli.StringFlag{Name: "code", Usage: "add a qr or pdf417 code"},
			&cli.BoolFlag{Name: "preview", Usage: "skip validation, usage limits and history"},
		},
		Action: func(c *cli.Context) error {
			t, err := invoicekit.ParseDocumentType(c.String("type"))
			if err != nil {
				return err
			}
			code := canvas.CodeKind(c.String("code"))
			switch code {
			case canvas.CodeNone, canvas.CodeQR, canvas.CodePDF417:
			default:
				return fmt.Errorf("unknown code kind %q", code)
			}
			rec, err := e.readRecord(c.String("in"))
			if err != nil {
				return err
			}

			req := service.Request{Type: t, Theme: c.String("theme"), Record: rec, Draft: c.Bool("draft"), Code: code}
			var res service.Result
			if c.Bool("preview") {
				res, err = e.svc.Preview(c.Context, req)
			} else {
				res, err = e.svc.Generate(c.Context, req)
			}
			var ve *validate.Errors
			if errors.As(err, &ve) {
				fields := make([]string, 0, len(ve.Fields))
				for field := range ve.Fields {
					fields = append(fields, field)
				}
				sort.Strings(fields)
				for _, field := range fields {
					fmt.Fprintf(e.stderr, "  %s: %s\n", field, ve.Fields[field])
				}
				return ve
			}
			if err != nil {
				return err
			}

			out := c.String("out")
			if out == "" {
				out = res.Filename
			}
			if out == "-" {
				_, err = e.stdout.Write(res.PDF)
				return err
			}
			if err := os.WriteFile(out, res.PDF, 0o644); err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(e.stderr, "warning: %s\n", w)
			}
			fmt.Fprintf(e.stdout, "%s (%d bytes, total %s)\n", out, len(res.PDF), res.Totals.GrandTotal.StringFixed(2))
			return nil
		},
	}
}

func (e *env) readRecord(path string) (invoicekit.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(e.stdin)
	} else {
		data, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return invoicekit.Record{}, err
	}
	var rec invoicekit.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return invoicekit.Record{}, fmt.Errorf("parsing record: %w", err)
	}
	return rec, nil
}

func serveCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address; overrides http_addr"},
		},
		Action: func(c *cli.Context) error {
			addr := e.cfg.HTTPAddr
			if c.String("addr") != "" {
				addr = c.String("addr")
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewRouter(e.svc, e.logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				e.logger.Info("http.listen", "addr", addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			e.logger.Info("http.shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
