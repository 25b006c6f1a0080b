package brokerage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTradeTimeout bounds the provider round-trips of a single trade when
// the caller did not set a deadline of its own.
const DefaultTradeTimeout = 30 * time.Second

// Broker orchestrates trades: it resolves a price through the provider,
// validates market hours, and only then mutates the target account through
// the Bank. All provider I/O happens before the Bank is touched, so a slow
// provider round-trip never blocks unrelated account operations.
type Broker struct {
	bank     *Bank
	provider PriceProvider
	timeout  time.Duration
}

// NewBroker creates a broker trading against bank with prices from provider.
// The provider is typically a PriceCache.
func NewBroker(bank *Bank, provider PriceProvider) *Broker {
	return &Broker{bank: bank, provider: provider, timeout: DefaultTradeTimeout}
}

// Bank returns the bank this broker trades against.
func (b *Broker) Bank() *Bank { return b.bank }

// withDeadline bounds ctx with the default trade timeout unless the caller
// already set a deadline.
func (b *Broker) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// Price returns the price of a symbol as of the given instant: the adjusted
// close of the latest intraday entry at or before asOf. A zero asOf means
// "latest known". It fails with ErrPriceUnavailable when no entry qualifies.
func (b *Broker) Price(ctx context.Context, symbol string, asOf time.Time) (Money, error) {
	ctx, cancel := b.withDeadline(ctx)
	defer cancel()

	ts, err := b.provider.GetTimeSeries(ctx, symbol, Interval1Min)
	if err != nil {
		return Money{}, err
	}
	point, ok := ts.Latest(asOf)
	if !ok {
		return Money{}, fmt.Errorf("%w: no price for %q as of %s", ErrPriceUnavailable, symbol, asOf.Format(time.RFC3339))
	}
	return M(point.AdjustedClose), nil
}

// CurrentValue returns price times quantity for a symbol as of an instant.
// It is a pure read, the bank is never touched.
func (b *Broker) CurrentValue(ctx context.Context, symbol string, quantity Quantity, asOf time.Time) (Money, error) {
	price, err := b.Price(ctx, symbol, asOf)
	if err != nil {
		return Money{}, err
	}
	return price.Mul(quantity), nil
}

// Buy purchases quantity units of symbol in the given investment account and
// returns the account's new balance. The price is resolved and the market
// hours validated before the bank's lock is taken.
func (b *Broker) Buy(ctx context.Context, accountID int, symbol string, quantity Quantity, asOf time.Time) (Money, error) {
	ctx, cancel := b.withDeadline(ctx)
	defer cancel()

	price, err := b.Price(ctx, symbol, asOf)
	if err != nil {
		return Money{}, err
	}
	if err := b.checkMarketOpen(ctx, symbol, asOf); err != nil {
		return Money{}, err
	}
	return b.bank.Purchase(accountID, symbol, price, quantity)
}

// Sell sells quantity units of symbol in the given investment account and
// returns the account's new balance. The same market-hours policy as Buy
// applies.
func (b *Broker) Sell(ctx context.Context, accountID int, symbol string, quantity Quantity, asOf time.Time) (Money, error) {
	ctx, cancel := b.withDeadline(ctx)
	defer cancel()

	price, err := b.Price(ctx, symbol, asOf)
	if err != nil {
		return Money{}, err
	}
	if err := b.checkMarketOpen(ctx, symbol, asOf); err != nil {
		return Money{}, err
	}
	return b.bank.Sell(accountID, symbol, price, quantity)
}

// checkMarketOpen validates that at (or now, when zero) falls on a weekday
// inside the symbol's published trading window. The ticker metadata comes
// from the provider and is cached like any other call.
func (b *Broker) checkMarketOpen(ctx context.Context, symbol string, at time.Time) error {
	infos, err := b.provider.SearchTickers(ctx, symbol)
	if err != nil {
		return err
	}
	var info *TickerInfo
	for i := range infos {
		if strings.EqualFold(infos[i].Symbol, symbol) {
			info = &infos[i]
			break
		}
	}
	if info == nil {
		return fmt.Errorf("%w: no trading-hours metadata for %q", ErrUpstreamProvider, symbol)
	}
	if info.MarketOpen == "" || info.MarketClose == "" {
		// No published window, nothing to enforce.
		return nil
	}

	loc, err := parseUTCOffset(info.Timezone)
	if err != nil {
		return fmt.Errorf("%w: bad timezone %q for %q: %w", ErrUpstreamProvider, info.Timezone, symbol, err)
	}
	if at.IsZero() {
		at = time.Now()
	}
	local := at.In(loc)
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return fmt.Errorf("%w: %q does not trade on %s", ErrMarketClosed, symbol, wd)
	}
	open, err := minuteOfDay(info.MarketOpen)
	if err != nil {
		return fmt.Errorf("%w: bad market open %q for %q: %w", ErrUpstreamProvider, info.MarketOpen, symbol, err)
	}
	close, err := minuteOfDay(info.MarketClose)
	if err != nil {
		return fmt.Errorf("%w: bad market close %q for %q: %w", ErrUpstreamProvider, info.MarketClose, symbol, err)
	}
	clock := local.Hour()*60 + local.Minute()
	if clock < open || clock >= close {
		return fmt.Errorf("%w: %q trades %s-%s (%s)", ErrMarketClosed, symbol, info.MarketOpen, info.MarketClose, info.Timezone)
	}
	return nil
}

// minuteOfDay parses a wall clock like "09:30" into minutes since midnight.
func minuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// parseUTCOffset turns a provider timezone like "UTC-04" or "UTC+05:30" into
// a fixed-offset location. An empty string means UTC.
func parseUTCOffset(s string) (*time.Location, error) {
	if s == "" || s == "UTC" {
		return time.UTC, nil
	}
	rest, ok := strings.CutPrefix(s, "UTC")
	if !ok {
		return nil, fmt.Errorf("expected UTC offset, got %q", s)
	}
	sign := 1
	switch {
	case strings.HasPrefix(rest, "+"):
		rest = rest[1:]
	case strings.HasPrefix(rest, "-"):
		sign = -1
		rest = rest[1:]
	default:
		return nil, fmt.Errorf("expected UTC offset, got %q", s)
	}
	hours, minutes := rest, "0"
	if h, m, found := strings.Cut(rest, ":"); found {
		hours, minutes = h, m
	}
	hh, err := strconv.Atoi(hours)
	if err != nil {
		return nil, fmt.Errorf("expected UTC offset, got %q", s)
	}
	mm, err := strconv.Atoi(minutes)
	if err != nil {
		return nil, fmt.Errorf("expected UTC offset, got %q", s)
	}
	return time.FixedZone(s, sign*(hh*3600+mm*60)), nil
}
