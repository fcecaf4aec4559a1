package pdfdoc

import "log/slog"

// Option is a functional option for configuring a render call.
type Option func(*config)

type config struct {
	letterhead string
	fontFamily string
	fontDir    string
	fontFiles  [2]string // regular, bold
	compress   bool
	logger     *slog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{compress: true}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// WithLetterhead draws page 1 of the PDF at path beneath every page.
func WithLetterhead(path string) Option {
	return func(c *config) {
		c.letterhead = path
	}
}

// WithUTF8Font registers a TrueType family for all document text, which is
// needed for currency symbols outside Windows-1252 (₹, ₦, ₵). regular and
// bold are file names inside dir.
//
// Without it the core Helvetica font is used.
func WithUTF8Font(family, dir, regular, bold string) Option {
	return func(c *config) {
		c.fontFamily = family
		c.fontDir = dir
		c.fontFiles = [2]string{regular, bold}
	}
}

// WithCompression toggles page stream compression (default: on).
func WithCompression(on bool) Option {
	return func(c *config) {
		c.compress = on
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
