// Package config loads the application configuration shared by the CLI, the
// HTTP server and the MCP server: a YAML file with INVOICEKIT_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lvillar/invoicekit"
	"github.com/lvillar/invoicekit/archive"
	"github.com/lvillar/invoicekit/kv"
	"github.com/lvillar/invoicekit/quota"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INVOICEKIT_"

// Config is the resolved runtime configuration.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	Log struct {
		Format string `yaml:"format"` // text or json
		Level  string `yaml:"level"`
	} `yaml:"log"`

	Store   kv.Config      `yaml:"store"`
	Archive archive.Config `yaml:"archive"`

	// Plan is "free", "unlimited" or a custom plan with its own limits.
	Plan struct {
		Name   string         `yaml:"name"`
		Limits map[string]int `yaml:"limits"`
	} `yaml:"plan"`

	Render struct {
		Letterhead  string `yaml:"letterhead"`
		FontFamily  string `yaml:"font_family"`
		FontDir     string `yaml:"font_dir"`
		FontRegular string `yaml:"font_regular"`
		FontBold    string `yaml:"font_bold"`
		Compress    *bool  `yaml:"compress"`
	} `yaml:"render"`

	// Currencies replaces the built-in currency table when non-empty.
	Currencies []invoicekit.Currency `yaml:"currencies"`
}

// Default returns the configuration used when no file exists: an in-memory
// store, no archive and the free plan.
func Default() Config {
	var cfg Config
	cfg.HTTPAddr = ":8080"
	cfg.Log.Format = "text"
	cfg.Log.Level = "info"
	cfg.Store.Driver = kv.DriverMemory
	cfg.Plan.Name = quota.Free.Name
	return cfg
}

// Load reads path over the defaults and then applies environment
// overrides. A missing file is not an error; an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.HTTPAddr = envOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.Log.Format = envOrDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Level = envOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Store.Driver = envOrDefault("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = envOrDefault("STORE_DSN", cfg.Store.DSN)
	cfg.Store.Namespace = envOrDefault("STORE_NAMESPACE", cfg.Store.Namespace)
	cfg.Archive.Kind = envOrDefault("ARCHIVE_KIND", cfg.Archive.Kind)
	cfg.Archive.Dir = envOrDefault("ARCHIVE_DIR", cfg.Archive.Dir)
	cfg.Archive.Region = envOrDefault("ARCHIVE_REGION", cfg.Archive.Region)
	cfg.Archive.Bucket = envOrDefault("ARCHIVE_BUCKET", cfg.Archive.Bucket)
	cfg.Archive.Prefix = envOrDefault("ARCHIVE_PREFIX", cfg.Archive.Prefix)
	cfg.Plan.Name = envOrDefault("PLAN", cfg.Plan.Name)
	cfg.Render.Letterhead = envOrDefault("LETTERHEAD", cfg.Render.Letterhead)
	cfg.Render.FontFamily = envOrDefault("FONT_FAMILY", cfg.Render.FontFamily)
	cfg.Render.FontDir = envOrDefault("FONT_DIR", cfg.Render.FontDir)
	cfg.Render.FontRegular = envOrDefault("FONT_REGULAR", cfg.Render.FontRegular)
	cfg.Render.FontBold = envOrDefault("FONT_BOLD", cfg.Render.FontBold)
	if v, ok := envBool("COMPRESS"); ok {
		cfg.Render.Compress = &v
	}
	for _, t := range []invoicekit.DocumentType{invoicekit.Invoice, invoicekit.Receipt} {
		name := strings.ToUpper(string(t)) + "_LIMIT"
		if n, ok := envInt(name); ok {
			if cfg.Plan.Limits == nil {
				cfg.Plan.Limits = map[string]int{}
			}
			cfg.Plan.Limits[string(t)] = n
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Store.Driver) {
	case "", kv.DriverMemory:
	case kv.DriverSQLite, "sqlite3", kv.DriverPostgres, "pgsql", "postgresql", kv.DriverRedis:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Archive.Kind == "s3" && c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket is required for s3")
	}
	if (c.Render.FontRegular == "") != (c.Render.FontBold == "") {
		return fmt.Errorf("render.font_regular and render.font_bold must be set together")
	}
	return nil
}

// QuotaPlan returns the plan to enforce. Configured limits override the
// named plan's; an unknown name without limits is unlimited.
func (c Config) QuotaPlan() quota.Plan {
	var plan quota.Plan
	switch strings.ToLower(c.Plan.Name) {
	case "", quota.Free.Name:
		plan = quota.Free
	case quota.Unlimited.Name:
		plan = quota.Unlimited
	default:
		plan = quota.Plan{Name: c.Plan.Name}
	}
	if len(c.Plan.Limits) == 0 {
		return plan
	}
	limits := make(map[invoicekit.DocumentType]int, len(plan.Limits)+len(c.Plan.Limits))
	for t, n := range plan.Limits {
		limits[t] = n
	}
	for t, n := range c.Plan.Limits {
		limits[invoicekit.DocumentType(strings.ToLower(t))] = n
	}
	plan.Limits = limits
	return plan
}

// CurrencyTable returns the configured currencies or the built-in table.
func (c Config) CurrencyTable() invoicekit.CurrencyTable {
	if len(c.Currencies) == 0 {
		return invoicekit.DefaultCurrencies
	}
	return invoicekit.CurrencyTable(c.Currencies)
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(EnvPrefix + name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(EnvPrefix + name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envBool(name string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvPrefix + name))) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}
