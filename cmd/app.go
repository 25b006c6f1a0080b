// Package cmd implements the CLI application to manage a brokerage.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&openCmd{}, "accounts")
	c.Register(&closeCmd{}, "accounts")
	c.Register(&accountsCmd{}, "accounts")

	c.Register(&depositCmd{}, "transactions")
	c.Register(&withdrawCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")

	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")
	c.Register(&reconcileCmd{}, "trading")

	c.Register(&priceCmd{}, "market data")
	c.Register(&searchCmd{}, "market data")
	c.Register(&holdingCmd{}, "market data")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the config file. Defaults to ~/.brokerage/config.yaml")

func loadConfig() (*Config, error) {
	path := *configFile
	if path == "" {
		path = DefaultConfigFile()
	}
	return LoadConfig(path)
}

// openBank loads the bank state from the configured file.
func openBank(cfg *Config) (*brokerage.Bank, error) {
	bank, err := brokerage.LoadBank(cfg.BankFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, bank file does not exist, starting with an empty bank instead")
		return brokerage.NewBank(), nil
	}
	return bank, err
}

// saveBank persists the bank state back to the configured file.
func saveBank(cfg *Config, bank *brokerage.Bank) error {
	return brokerage.SaveBank(cfg.BankFile, bank)
}

// newProvider builds the market-data stack: the Alpha Vantage client behind
// the disk price cache. The returned cache must be Flushed before exiting so
// background writes land.
func newProvider(cfg *Config) (*brokerage.PriceCache, error) {
	key := brokerage.AlphaVantageToken()
	if key == "" {
		key = cfg.APIKey
	}
	if key == "" {
		return nil, fmt.Errorf("no Alpha Vantage API key: set -alphavantage-token, the ALPHAVANTAGE_TOKEN environment variable, or api_key in the config")
	}
	return brokerage.NewPriceCache(brokerage.NewAlphaVantage(key), cfg.CacheDir, cfg.CacheTTL), nil
}

// printMarkdown renders markdown to the terminal. When rendering fails the
// raw markdown is still printed.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// parseAsOf parses the -asof flag: empty means now, a full RFC3339 timestamp
// is taken as-is, and a bare date means the end of that day.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := brokerage.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -asof %q: want a date or an RFC3339 timestamp", s)
	}
	return d.Add(1).UTC().Add(-time.Second), nil
}
