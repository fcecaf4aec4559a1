package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lvillar/invoicekit"
)

var nonBlank = map[string]any{"type": "string", "minLength": 1, "pattern": `\S`}

func percent() map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "maximum": 100}
}

// recordSchema describes a valid record of type t.
func recordSchema(t invoicekit.DocumentType) map[string]any {
	props := map[string]any{
		"businessName": nonBlank,
		"clientName":   nonBlank,
		"date":         map[string]any{"type": "string", "minLength": 1, "format": "date"},
		"dueDate":      map[string]any{"type": "string", "format": "date"},
		"tax":          percent(),
		"discount":     percent(),
		"currency":     map[string]any{"type": "string", "pattern": "^[A-Za-z]{3}$"},
	}
	required := []string{"businessName", "clientName", "date", "currency"}

	if t == invoicekit.Receipt {
		props["amount"] = map[string]any{"type": "number", "exclusiveMinimum": 0}
		required = append(required, "amount")
	} else {
		props["items"] = map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"description", "quantity", "price"},
				"properties": map[string]any{
					"description": nonBlank,
					"quantity":    map[string]any{"type": "number", "exclusiveMinimum": 0},
					"price":       map[string]any{"type": "number", "exclusiveMinimum": 0},
				},
			},
		}
		required = append(required, "items")
	}

	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"required":   required,
		"properties": props,
	}
}

func compile(t invoicekit.DocumentType) (*jsonschema.Schema, error) {
	b, err := json.Marshal(recordSchema(t))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	url := string(t) + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

var schemas = sync.OnceValue(func() map[invoicekit.DocumentType]*jsonschema.Schema {
	out := make(map[invoicekit.DocumentType]*jsonschema.Schema, 2)
	for _, t := range []invoicekit.DocumentType{invoicekit.Invoice, invoicekit.Receipt} {
		s, err := compile(t)
		if err != nil {
			panic(fmt.Sprintf("validate: %s schema: %v", t, err))
		}
		out[t] = s
	}
	return out
})
