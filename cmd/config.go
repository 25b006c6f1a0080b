package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/brokerage"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration of the bkr tool. Every field has a
// default, so the tool works with no config file at all.
type Config struct {
	APIKey        string        `yaml:"api_key"`        // Alpha Vantage key; flag and env take precedence
	BankFile      string        `yaml:"bank_file"`      // where the bank state lives
	CacheDir      string        `yaml:"cache_dir"`      // price cache root directory
	CacheTTL      time.Duration `yaml:"cache_ttl"`      // how long cached provider responses stay fresh
	WatermarkFile string        `yaml:"watermark_file"` // dividend reconciler watermark
}

// LoadConfig reads a YAML config file and expands environment variables. A
// missing file is not an error: the defaults apply.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		// Expand ${VAR} environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	root := defaultRoot()
	if c.BankFile == "" {
		c.BankFile = filepath.Join(root, "bank.json")
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(root, "cache")
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = brokerage.DefaultCacheTTL
	}
	if c.WatermarkFile == "" {
		c.WatermarkFile = filepath.Join(root, "watermark")
	}
}

// defaultRoot is where all bkr state lives unless the config says otherwise.
func defaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".brokerage"
	}
	return filepath.Join(home, ".brokerage")
}

// DefaultConfigFile is the config path used when the -config flag is empty.
func DefaultConfigFile() string {
	return filepath.Join(defaultRoot(), "config.yaml")
}
