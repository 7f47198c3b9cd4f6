// Package config loads and validates linejournal configuration.
//
// Configuration comes from an optional YAML file layered over Default().
// The merged result is checked against the CUE schema embedded from
// schema.cue before anything uses it. Values are passed explicitly to the
// components that need them; nothing here is process-wide state.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds every configurable value.
type Config struct {
	// WatchDir is the directory whose files are tracked.
	WatchDir string `yaml:"watch_dir" json:"watch_dir"`

	// JournalDir holds journal files (file backend) and is the default home
	// of the SQLite database.
	JournalDir string `yaml:"journal_dir" json:"journal_dir"`

	// Retention is the maximum number of records kept per journal.
	Retention int `yaml:"retention" json:"retention"`

	// Prefix starts every journal identifier.
	Prefix string `yaml:"prefix" json:"prefix"`

	// Extensions lists the file extensions that are tracked.
	Extensions []string `yaml:"extensions" json:"extensions"`

	// Backend is "file" or "sqlite".
	Backend string `yaml:"backend" json:"backend"`

	// Database is the SQLite path when Backend is "sqlite".
	Database string `yaml:"database" json:"database"`

	// Format is the record format for new entries: "v2" or "legacy".
	Format string `yaml:"format" json:"format"`

	// MetricsAddr, when set, serves Prometheus metrics while watching.
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`

	Log LogConfig `yaml:"log" json:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WatchDir:   "folder_1",
		JournalDir: "folder_2",
		Retention:  50,
		Prefix:     "j1",
		Extensions: []string{".txt"},
		Backend:    BackendFile,
		Format:     "v2",
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over Default() and validates the result.
// An empty path yields the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := decodeYAML(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Normalize fills derived defaults: a SQLite database next to the journals
// and lower-cased, dot-prefixed extensions.
func (c *Config) Normalize() {
	if c.Backend == BackendSQLite && c.Database == "" && c.JournalDir != "" {
		c.Database = filepath.Join(c.JournalDir, "journals.db")
	}
	exts := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	c.Extensions = exts
}

// Validate normalizes c and checks it against the CUE schema.
func (c *Config) Validate() error {
	c.Normalize()

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Details: strings.TrimSpace(cueerrors.Details(err, nil)), Err: err}
	}
	return nil
}

// ValidationError reports a configuration that violates the schema.
type ValidationError struct {
	Details string
	Err     error
}

func (e *ValidationError) Error() string {
	return "invalid config: " + e.Details
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Matches reports whether path has one of the tracked extensions.
func (c Config) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
