// Package kv is the string key-value store the persistence layer is built
// on. It plays the part a browser's local storage plays for a single-page
// app: whole JSON documents are read and written under fixed keys.
//
// Backends: in-process memory, SQLite (modernc.org/sqlite), PostgreSQL
// (pgx) and Redis (go-redis).
package kv

import (
	"context"
	"fmt"
	"strings"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config selects and addresses a backend.
type Config struct {
	Driver string `yaml:"driver"` // memory (default), sqlite, postgres, redis
	DSN    string `yaml:"dsn"`    // file path, postgres DSN or redis URL / host:port
	// Namespace prefixes every key, so several apps can share one database.
	Namespace string `yaml:"namespace"`
}

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		s = NewMemory()
	case DriverSQLite, "sqlite3":
		s, err = OpenSQLite(ctx, cfg.DSN)
	case DriverPostgres, "pgsql", "postgresql":
		s, err = OpenPostgres(ctx, cfg.DSN)
	case DriverRedis:
		s, err = OpenRedis(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Namespace != "" {
		s = WithNamespace(s, cfg.Namespace)
	}
	return s, nil
}

// WithNamespace returns a Store that prefixes every key with ns and ":".
func WithNamespace(s Store, ns string) Store {
	return &namespaced{Store: s, prefix: ns + ":"}
}

type namespaced struct {
	Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.Store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.Store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.Store.Delete(ctx, n.prefix+key)
}
