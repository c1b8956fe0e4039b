package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "depositor.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
provider: invenio
base_url: https://repo.example.org
archive_db: /var/lib/depositor/archive.db
rate_limit: 2.5
defaults:
  license: cc-by-4.0
  access_right: open
  community: fishtree
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Provider != "invenio" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.BaseURL != "https://repo.example.org" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v", cfg.RateLimit)
	}
	if cfg.Defaults.License != "cc-by-4.0" {
		t.Errorf("License = %q", cfg.Defaults.License)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "base_url: https://zenodo.org\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Provider != "zenodo" {
		t.Errorf("Provider = %q, want default zenodo", cfg.Provider)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("RateLimit = %v, want default 5", cfg.RateLimit)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown provider",
			content: "provider: figshare\nbase_url: https://x.org\n",
			wantErr: "unknown provider",
		},
		{
			name:    "missing base URL",
			content: "provider: zenodo\n",
			wantErr: "base_url is required",
		},
		{
			name:    "negative rate limit",
			content: "base_url: https://x.org\nrate_limit: -1\n",
			wantErr: "rate_limit",
		},
		{
			name:    "invalid yaml",
			content: "provider: [unclosed\n",
			wantErr: "parsing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{
		Defaults: Defaults{
			License:     "cc-by-4.0",
			AccessRight: "open",
			Community:   "fishtree",
			UploadType:  "publication",
		},
	}

	md := cfg.ApplyDefaults(map[string]any{
		"license": "mit",
		"title":   "A thread",
	})

	if md["license"] != "mit" {
		t.Errorf("license = %v, caller value should win", md["license"])
	}
	if md["access_right"] != "open" {
		t.Errorf("access_right = %v", md["access_right"])
	}
	if md["upload_type"] != "publication" {
		t.Errorf("upload_type = %v", md["upload_type"])
	}
	communities, ok := md["communities"].([]any)
	if !ok || len(communities) != 1 {
		t.Fatalf("communities = %v", md["communities"])
	}

	// Nil map gets a fresh one.
	md = cfg.ApplyDefaults(nil)
	if md["license"] != "cc-by-4.0" {
		t.Errorf("license from nil map = %v", md["license"])
	}
}
