// Package config holds the runtime configuration of the analyzer: where the
// dated snapshot files live and which optional enrichment tables to load.
//
// Precedence, lowest to highest: built-in defaults, YAML config file,
// environment variables, command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names honored by FromEnv.
const (
	EnvAccountsDir = "ACCOUNT_DATA_DIR"
	EnvCasesDir    = "CASE_DATA_DIR"
	EnvMappingFile = "CUSTOMER_MAPPING_FILE"
)

// Config is the complete analyzer configuration.
type Config struct {
	// AccountsDir is the root of the account snapshot tree; per-customer
	// subdirectories are optional under it.
	AccountsDir string `yaml:"accountsDir"`
	// CasesDir holds the monthly case files.
	CasesDir string `yaml:"casesDir"`
	// MappingFile is the optional payer-ID to customer-name table.
	MappingFile string `yaml:"mappingFile"`
	// SegmentFile is the optional workload segmentation rule table.
	SegmentFile string `yaml:"segmentFile"`
	// ProductTag is the product token expected in snapshot filenames.
	ProductTag string `yaml:"productTag"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{ProductTag: "CMC"}
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv overlays set environment variables onto cfg.
func FromEnv(cfg Config) Config {
	if v := os.Getenv(EnvAccountsDir); v != "" {
		cfg.AccountsDir = v
	}
	if v := os.Getenv(EnvCasesDir); v != "" {
		cfg.CasesDir = v
	}
	if v := os.Getenv(EnvMappingFile); v != "" {
		cfg.MappingFile = v
	}
	return cfg
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var errs errlist
	if c.AccountsDir == "" && c.CasesDir == "" {
		errs.add("no data directory configured: set accountsDir or casesDir")
	}
	for _, dir := range []struct{ name, path string }{
		{"accountsDir", c.AccountsDir},
		{"casesDir", c.CasesDir},
	} {
		if dir.path == "" {
			continue
		}
		info, err := os.Stat(dir.path)
		switch {
		case err != nil:
			errs.add("%s %s: %v", dir.name, dir.path, err)
		case !info.IsDir():
			errs.add("%s %s: not a directory", dir.name, dir.path)
		}
	}
	if c.ProductTag == "" {
		errs.add("productTag must not be empty")
	}
	return errs.err()
}

// errlist aggregates multiple validation issues into a single error.
type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	if e == nil {
		return
	}
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if e == nil || len(e.msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(e.msgs, "\n"))
}
