package brokerage

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached provider response stays fresh.
const DefaultCacheTTL = 30 * time.Minute

// PriceCache is a TTL-gated disk cache in front of a PriceProvider. It
// implements PriceProvider itself, so it can be dropped in front of any
// provider transparently.
//
// Entries are laid out as <root>/<call kind>/<symbol>/<interval-or-none>/data.json
// and their freshness is judged by file modification time against the TTL.
// A cache entry that cannot be read or decoded counts as a miss, never as an
// error. Fresh payloads are persisted fire-and-forget: a failed write is
// logged and dropped, and the caller gets the payload either way. A lost
// write only costs an extra provider call later, never wrong data.
type PriceCache struct {
	provider PriceProvider
	root     string
	ttl      time.Duration
	writes   sync.WaitGroup
}

// NewPriceCache creates a cache rooted at dir in front of provider.
func NewPriceCache(provider PriceProvider, dir string, ttl time.Duration) *PriceCache {
	return &PriceCache{provider: provider, root: dir, ttl: ttl}
}

// Flush blocks until all pending background cache writes are done. Callers on
// the trading path never need it; it exists for orderly shutdown and tests.
func (c *PriceCache) Flush() {
	c.writes.Wait()
}

func (c *PriceCache) entry(kind, symbol, interval string) string {
	if interval == "" {
		interval = "none"
	}
	return filepath.Join(c.root, kind, url.PathEscape(symbol), interval, "data.json")
}

// fresh reports whether the entry exists and was written less than one TTL ago.
func (c *PriceCache) fresh(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < c.ttl
}

// cached serves payload from the cache entry when fresh, and otherwise calls
// the provider and persists the fresh payload in the background.
func cached[T any](c *PriceCache, path string, call func() (T, error)) (T, error) {
	if c.fresh(path) {
		var payload T
		data, err := os.ReadFile(path)
		if err == nil && json.Unmarshal(data, &payload) == nil {
			return payload, nil
		}
		// unreadable or corrupt entry, fall through to the provider
	}

	payload, err := call()
	if err != nil {
		return payload, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("cache marshal err (ignored): %v", err)
		return payload, nil
	}
	c.writes.Add(1)
	go func() {
		defer c.writes.Done()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			log.Printf("cache write err (ignored): %v", err)
			return
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			log.Printf("cache write err (ignored): %v", err)
		}
	}()
	return payload, nil
}

// GetTimeSeries implements PriceProvider.
func (c *PriceCache) GetTimeSeries(ctx context.Context, symbol string, interval Interval) (*TimeSeries, error) {
	path := c.entry("time_series", symbol, string(interval))
	return cached(c, path, func() (*TimeSeries, error) {
		return c.provider.GetTimeSeries(ctx, symbol, interval)
	})
}

// SearchTickers implements PriceProvider.
func (c *PriceCache) SearchTickers(ctx context.Context, query string) ([]TickerInfo, error) {
	path := c.entry("search", query, "")
	return cached(c, path, func() ([]TickerInfo, error) {
		return c.provider.SearchTickers(ctx, query)
	})
}

// GetDividends implements PriceProvider.
func (c *PriceCache) GetDividends(ctx context.Context, symbol string) (*DividendHistory, error) {
	path := c.entry("dividends", symbol, "")
	return cached(c, path, func() (*DividendHistory, error) {
		return c.provider.GetDividends(ctx, symbol)
	})
}
