// Package config handles depositor configuration.
package config

import (
	"fmt"
	"os"

	"github.com/aknutsen/depositor/internal/deposit"
	"gopkg.in/yaml.v3"
)

// Config represents depositor configuration stored in depositor.yml.
type Config struct {
	Provider  string   `yaml:"provider"`             // "zenodo" or "invenio"
	BaseURL   string   `yaml:"base_url"`             // Provider API base URL
	ArchiveDB string   `yaml:"archive_db,omitempty"` // Path to the SQLite archive
	Defaults  Defaults `yaml:"defaults,omitempty"`
	RateLimit float64  `yaml:"rate_limit,omitempty"` // Requests per second to the provider
}

// Defaults are metadata values applied to every deposit unless the
// caller's metadata already sets them.
type Defaults struct {
	License     string `yaml:"license,omitempty"`
	AccessRight string `yaml:"access_right,omitempty"`
	Community   string `yaml:"community,omitempty"`
	UploadType  string `yaml:"upload_type,omitempty"`
}

// LoadConfig reads and validates depositor.yml from the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Provider == "" {
		c.Provider = string(deposit.ProviderZenodo)
	}
	if !deposit.Provider(c.Provider).Valid() {
		return fmt.Errorf("unknown provider %q (expected zenodo or invenio)", c.Provider)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if c.RateLimit == 0 {
		c.RateLimit = 5
	}
	return nil
}

// ApplyDefaults fills metadata fields the caller left unset. The input map
// is modified in place; a nil map is returned as a fresh one.
func (c *Config) ApplyDefaults(md map[string]any) map[string]any {
	if md == nil {
		md = make(map[string]any)
	}
	set := func(key, value string) {
		if value == "" {
			return
		}
		if _, ok := md[key]; !ok {
			md[key] = value
		}
	}
	set("license", c.Defaults.License)
	set("access_right", c.Defaults.AccessRight)
	set("upload_type", c.Defaults.UploadType)
	if c.Defaults.Community != "" {
		if _, ok := md["communities"]; !ok {
			md["communities"] = []any{map[string]any{"identifier": c.Defaults.Community}}
		}
	}
	return md
}
