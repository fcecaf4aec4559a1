// Package archive stores copies of rendered PDFs.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink stores a rendered document under name and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (location string, err error)
}

// Config selects a sink.
type Config struct {
	Kind   string `yaml:"kind"` // "" (disabled), dir, s3
	Dir    string `yaml:"dir"`
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// Open returns the sink described by cfg, or nil when archiving is disabled.
func Open(cfg Config) (Sink, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "none":
		return nil, nil
	case "dir":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("archive: dir is empty")
		}
		return Dir{Path: cfg.Dir}, nil
	case "s3":
		return NewS3(cfg.Region, cfg.Bucket, cfg.Prefix)
	}
	return nil, fmt.Errorf("archive: unknown kind %q", cfg.Kind)
}

// Dir writes documents into a local directory.
type Dir struct {
	Path string
}

// Put writes data to Path/name atomically. Only the base of name is used.
func (d Dir) Put(_ context.Context, name string, data []byte) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return "", fmt.Errorf("archive: invalid name %q", name)
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return "", fmt.Errorf("archive: creating %s: %w", d.Path, err)
	}

	tmp, err := os.CreateTemp(d.Path, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("archive: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("archive: writing %s: %w", base, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("archive: writing %s: %w", base, err)
	}

	dst := filepath.Join(d.Path, base)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("archive: %w", err)
	}
	if abs, err := filepath.Abs(dst); err == nil {
		dst = abs
	}
	return dst, nil
}
