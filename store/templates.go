package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lvillar/invoicekit"
)

// ClientTemplate is a reusable client block.
type ClientTemplate struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ClientName    string    `json:"clientName"`
	ClientDetails string    `json:"clientDetails"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Apply copies the template's client fields into rec.
func (c ClientTemplate) Apply(rec invoicekit.Record) invoicekit.Record {
	rec.ClientName = c.ClientName
	rec.ClientDetails = c.ClientDetails
	return rec
}

// SaveClientTemplate stores tpl. A template without an ID gets a new one; a
// template whose ID exists replaces it. An empty Name defaults to the client
// name.
func (s *Store) SaveClientTemplate(ctx context.Context, tpl ClientTemplate) (ClientTemplate, error) {
	if strings.TrimSpace(tpl.ClientName) == "" {
		return ClientTemplate{}, fmt.Errorf("%w: client name is required", invoicekit.ErrInvalidParam)
	}
	tpls, err := load[ClientTemplate](ctx, s, "SaveClientTemplate", KeyClientTemplates)
	if err != nil {
		return ClientTemplate{}, err
	}

	if tpl.Name == "" {
		tpl.Name = tpl.ClientName
	}
	replaced := false
	if tpl.ID != "" {
		for i, old := range tpls {
			if old.ID == tpl.ID {
				tpl.CreatedAt = old.CreatedAt
				tpls[i] = tpl
				replaced = true
				break
			}
		}
	} else {
		tpl.ID = uuid.NewString()
	}
	if !replaced {
		tpl.CreatedAt = s.now().UTC()
		tpls = append(tpls, tpl)
	}

	if err := save(ctx, s, "SaveClientTemplate", KeyClientTemplates, tpls); err != nil {
		return ClientTemplate{}, err
	}
	return tpl, nil
}

// ClientTemplates returns the saved templates in creation order.
func (s *Store) ClientTemplates(ctx context.Context) ([]ClientTemplate, error) {
	return load[ClientTemplate](ctx, s, "ClientTemplates", KeyClientTemplates)
}

// DeleteClientTemplate removes the template with the given ID.
func (s *Store) DeleteClientTemplate(ctx context.Context, id string) error {
	tpls, err := load[ClientTemplate](ctx, s, "DeleteClientTemplate", KeyClientTemplates)
	if err != nil {
		return err
	}
	for i, t := range tpls {
		if t.ID == id {
			return save(ctx, s, "DeleteClientTemplate", KeyClientTemplates, append(tpls[:i], tpls[i+1:]...))
		}
	}
	return fmt.Errorf("client template %s: %w", id, invoicekit.ErrNotFound)
}
