package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/brokerage"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	yaml := `
api_key: demo
bank_file: /tmp/bank.json
cache_dir: /tmp/cache
cache_ttl: 5m
watermark_file: /tmp/watermark
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIKey != "demo" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "demo")
	}
	if cfg.BankFile != "/tmp/bank.json" {
		t.Errorf("BankFile = %q, want %q", cfg.BankFile, "/tmp/bank.json")
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %s, want 5m", cfg.CacheTTL)
	}
}

func TestLoadConfig_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_BROKERAGE_KEY", "secret123")

	path := writeTempFile(t, "api_key: ${TEST_BROKERAGE_KEY}\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIKey != "secret123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret123")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	// A missing config file is fine, every field gets a default.
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.BankFile == "" || cfg.CacheDir == "" || cfg.WatermarkFile == "" {
		t.Errorf("missing path defaults: %+v", cfg)
	}
	if cfg.CacheTTL != brokerage.DefaultCacheTTL {
		t.Errorf("CacheTTL = %s, want %s", cfg.CacheTTL, brokerage.DefaultCacheTTL)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeTempFile(t, "api_key: demo\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIKey != "demo" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "demo")
	}
	if cfg.CacheTTL != brokerage.DefaultCacheTTL {
		t.Errorf("CacheTTL = %s, want default %s", cfg.CacheTTL, brokerage.DefaultCacheTTL)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := writeTempFile(t, "api_key: [unclosed\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted malformed yaml")
	}
}

func TestParseAsOf(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "0001-01-01T00:00:00Z", false},
		{"2025-03-05T15:00:00Z", "2025-03-05T15:00:00Z", false},
		{"2025-03-05", "2025-03-05T23:59:59Z", false},
		{"yesterday", "", true},
	}
	for _, test := range tests {
		got, err := parseAsOf(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("parseAsOf(%q) succeeded, want error", test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAsOf(%q): %v", test.in, err)
			continue
		}
		if got.Format(time.RFC3339) != test.want {
			t.Errorf("parseAsOf(%q) = %s, want %s", test.in, got.Format(time.RFC3339), test.want)
		}
	}
}
