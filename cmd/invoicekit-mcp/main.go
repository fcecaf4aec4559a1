// Command invoicekit-mcp is an MCP (Model Context Protocol) server that lets
// AI assistants generate invoices and receipts.
//
// # Installation
//
//	go install github.com/lvillar/invoicekit/cmd/invoicekit-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "invoicekit": {
//	      "command": "invoicekit-mcp",
//	      "env": {"INVOICEKIT_CONFIG": "/path/to/invoicekit.yaml"}
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - generate_document: validate, render and record a document
//   - preview_document: render without validating or recording
//   - validate_document: report invalid fields
//   - new_document_number: suggest a document number
//   - save_draft, list_drafts, delete_draft: manage drafts
//   - list_history: list generated documents
//   - save_client_template, list_client_templates, delete_client_template
//   - usage: monthly counts and plan limits
//
// # Available Resources
//
//   - invoicekit://themes
//   - invoicekit://currencies
//
// Logs go to stderr; stdout carries the protocol.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lvillar/invoicekit/config"
	"github.com/lvillar/invoicekit/mcp"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "invoicekit-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := os.Getenv("INVOICEKIT_CONFIG")
	if path == "" {
		path = "invoicekit.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	svc, cleanup, err := cfg.NewService(ctx, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	server := mcp.NewServer(mcp.WithLogger(logger), mcp.WithVersion(version))
	mcp.RegisterTools(server, svc)
	mcp.RegisterResources(server, cfg.CurrencyTable())

	return server.Run(ctx)
}
