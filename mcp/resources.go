package mcp

import (
	"context"
	"encoding/json"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/theme"
)

// RegisterResources adds the read-only catalog resources: the themes and
// the currency table documents can be rendered with.
func RegisterResources(s *Server, currencies invoicekit.CurrencyTable) {
	if currencies == nil {
		currencies = invoicekit.DefaultCurrencies
	}
	s.AddResource(Resource{
		URI:         "invoicekit://themes",
		Name:        "Themes",
		Description: "Theme keys, names and colors accepted by the theme argument",
		MIMEType:    "application/json",
		Handler:     jsonResource(theme.All()),
	})
	s.AddResource(Resource{
		URI:         "invoicekit://currencies",
		Name:        "Currencies",
		Description: "Currency codes and the symbols printed for them; unknown codes print $",
		MIMEType:    "application/json",
		Handler:     jsonResource(currencies),
	})
}

func jsonResource(v any) ResourceHandler {
	return func(_ context.Context, uri string) ([]ResourceContent, error) {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return []ResourceContent{{URI: uri, MIMEType: "application/json", Text: string(b)}}, nil
	}
}
