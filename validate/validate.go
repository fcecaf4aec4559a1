// Package validate checks an invoice or receipt record before it is
// rendered. Problems are reported per field so a form can show them inline.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lvillar/invoicekit"
)

// Errors maps field paths such as "clientName" or "items.0.price" to a
// message. It unwraps to invoicekit.ErrValidation.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Errors) Unwrap() error {
	return invoicekit.ErrValidation
}

// Check returns *Errors when rec is not valid for t, nil otherwise.
func Check(rec invoicekit.Record, t invoicekit.DocumentType) error {
	if fields := Record(rec, t); len(fields) > 0 {
		return &Errors{Fields: fields}
	}
	return nil
}

// Record validates rec as a document of type t. An empty map means valid.
func Record(rec invoicekit.Record, t invoicekit.DocumentType) map[string]string {
	if t != invoicekit.Receipt {
		t = invoicekit.Invoice
	}
	out := map[string]string{}

	doc, err := instance(rec)
	if err != nil {
		out["record"] = err.Error()
		return out
	}
	if err := schemas()[t].Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			out["record"] = err.Error()
			return out
		}
		collect(ve, rec, out)
	}

	if _, bad := out["date"]; !bad && t == invoicekit.Invoice && strings.TrimSpace(rec.DueDate) != "" {
		due, derr := time.Parse(invoicekit.DateLayout, strings.TrimSpace(rec.DueDate))
		if derr == nil && due.Before(rec.ParsedDate()) {
			out["dueDate"] = "Due date cannot be before the invoice date"
		}
	}
	return out
}

// instance converts rec into the generic JSON value the schema validates.
// Non-finite numbers become 0 so they can be encoded.
func instance(rec invoicekit.Record) (any, error) {
	rec.Amount = invoicekit.Num(rec.Amount)
	rec.Tax = invoicekit.Num(rec.Tax)
	rec.Discount = invoicekit.Num(rec.Discount)
	rec.BusinessLogo = nil
	items := make([]invoicekit.Item, len(rec.Items))
	for i, it := range rec.Items {
		items[i] = invoicekit.Item{Description: it.Description, Quantity: invoicekit.Num(it.Quantity), Price: invoicekit.Num(it.Price)}
	}
	rec.Items = items

	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return v, nil
}

var quoted = regexp.MustCompile(`'([^']+)'`)

// collect walks the leaf errors. The first message for a field wins.
func collect(ve *jsonschema.ValidationError, rec invoicekit.Record, out map[string]string) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			collect(c, rec, out)
		}
		return
	}

	base := fieldPath(ve.InstanceLocation)
	if strings.HasSuffix(ve.KeywordLocation, "/required") {
		for _, m := range quoted.FindAllStringSubmatch(ve.Message, -1) {
			add(out, join(base, m[1]), rec)
		}
		return
	}
	if base == "" {
		out["record"] = ve.Message
		return
	}
	add(out, base, rec)
}

func add(out map[string]string, field string, rec invoicekit.Record) {
	if _, ok := out[field]; !ok {
		out[field] = message(field, rec)
	}
}

// fieldPath turns a JSON pointer ("/items/0/price") into "items.0.price".
func fieldPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "#")
	return strings.ReplaceAll(strings.TrimPrefix(pointer, "/"), "/", ".")
}

func join(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func message(field string, rec invoicekit.Record) string {
	name := field
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		name = field[i+1:]
	}
	switch name {
	case "businessName":
		return "Business name is required"
	case "clientName":
		return "Client name is required"
	case "date":
		if strings.TrimSpace(rec.Date) == "" {
			return "Date is required"
		}
		return "Date must be a valid date (YYYY-MM-DD)"
	case "dueDate":
		return "Due date must be a valid date (YYYY-MM-DD)"
	case "items":
		return "At least one item is required"
	case "description":
		return "Description is required"
	case "quantity":
		return "Quantity must be greater than 0"
	case "price":
		return "Price must be greater than 0"
	case "amount":
		return "Amount must be greater than 0"
	case "tax":
		return "Tax must be between 0 and 100"
	case "discount":
		return "Discount must be between 0 and 100"
	case "currency":
		return "Select a valid currency"
	}
	return "Invalid value"
}
