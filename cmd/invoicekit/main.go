// Command invoicekit renders invoices and receipts and serves the HTTP API.
//
// # Installation
//
//	go install github.com/lvillar/invoicekit/cmd/invoicekit@latest
//
// # Examples
//
//	invoicekit render --in acme.json --type invoice --theme modern --out acme.pdf
//	invoicekit render --in acme.json --draft --preview
//	invoicekit serve --addr :8080
//	invoicekit history export --out history.xlsx
//	invoicekit usage
//
// Configuration is read from invoicekit.yaml (or --config) and INVOICEKIT_*
// environment variables.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "invoicekit: %v\n", err)
		os.Exit(1)
	}
}
