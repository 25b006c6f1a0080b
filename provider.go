package brokerage

import (
	"context"
	"time"
)

// Interval identifies the granularity of an intraday time series.
type Interval string

const (
	Interval1Min  Interval = "1min"
	Interval5Min  Interval = "5min"
	Interval15Min Interval = "15min"
	Interval30Min Interval = "30min"
	Interval60Min Interval = "60min"
)

// PricePoint is a single entry of a time series.
type PricePoint struct {
	Time          time.Time `json:"timestamp"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
}

// TimeSeries is an ordered sequence of price points for one symbol, oldest
// first.
type TimeSeries struct {
	Symbol   string       `json:"symbol"`
	Interval Interval     `json:"interval"`
	Points   []PricePoint `json:"points"`
}

// Latest returns the most recent point at or before asOf. A zero asOf means
// "no bound". The second return value reports whether any point qualified.
func (ts *TimeSeries) Latest(asOf time.Time) (PricePoint, bool) {
	for i := len(ts.Points) - 1; i >= 0; i-- {
		p := ts.Points[i]
		if asOf.IsZero() || !p.Time.After(asOf) {
			return p, true
		}
	}
	return PricePoint{}, false
}

// TickerInfo describes a tradable instrument as returned by a symbol search,
// including its published trading hours.
type TickerInfo struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name,omitempty"`
	MarketOpen  string `json:"market_open"`  // local wall clock, e.g. "09:30"
	MarketClose string `json:"market_close"` // local wall clock, e.g. "16:00"
	Timezone    string `json:"timezone,omitempty"`
}

// DividendEvent is a single dividend payment of Amount per share on PayDate.
type DividendEvent struct {
	PayDate Date    `json:"payment_date"`
	Amount  float64 `json:"amount"`
}

// DividendHistory is the list of known dividend payments for one symbol,
// oldest first.
type DividendHistory struct {
	Symbol string          `json:"symbol"`
	Events []DividendEvent `json:"events"`
}

// PriceProvider is the capability the broker consumes for market data. The
// concrete implementation talks to a remote service and is expected to be
// slow; implementations must honor the context's deadline, and callers must
// never invoke a provider while holding the Bank's lock.
//
// PriceCache implements PriceProvider as well, so a cache can be dropped in
// front of any provider transparently.
type PriceProvider interface {
	// GetTimeSeries returns the intraday series for a symbol at the given interval.
	GetTimeSeries(ctx context.Context, symbol string, interval Interval) (*TimeSeries, error)
	// SearchTickers returns the instruments matching a query, with trading-hours metadata.
	SearchTickers(ctx context.Context, query string) ([]TickerInfo, error)
	// GetDividends returns the dividend payment history for a symbol.
	GetDividends(ctx context.Context, symbol string) (*DividendHistory, error)
}
