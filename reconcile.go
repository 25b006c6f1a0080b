package brokerage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Reconciler sweeps dividend history from the provider into the bank's
// investment accounts. Its state is two cursors: a watermark file holding the
// earliest unchecked date, and the Dividend transactions already present in
// each account's log, which form the dedup ledger. The latter is derived from
// the log on every sweep, never stored separately, so the log stays the
// single source of truth.
type Reconciler struct {
	bank          *Bank
	provider      PriceProvider
	watermarkPath string
}

// NewReconciler creates a reconciler crediting dividends into bank from
// provider, persisting its watermark at watermarkPath.
func NewReconciler(bank *Bank, provider PriceProvider, watermarkPath string) *Reconciler {
	return &Reconciler{bank: bank, provider: provider, watermarkPath: watermarkPath}
}

// Watermark returns the reconciler's last-checked instant, or the zero time
// when no sweep ever completed.
func (r *Reconciler) Watermark() (time.Time, error) {
	data, err := os.ReadFile(r.watermarkPath)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: reading watermark: %w", ErrPersistence, err)
	}
	wm, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid watermark: %w", ErrPersistence, err)
	}
	return wm.UTC(), nil
}

func (r *Reconciler) setWatermark(t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(r.watermarkPath), 0755); err != nil {
		return fmt.Errorf("%w: creating watermark directory: %w", ErrPersistence, err)
	}
	data := []byte(t.UTC().Format(time.RFC3339) + "\n")
	if err := os.WriteFile(r.watermarkPath, data, 0644); err != nil {
		return fmt.Errorf("%w: writing watermark: %w", ErrPersistence, err)
	}
	return nil
}

// Sweep reconciles dividend payments with payment dates in (watermark, target]
// into every investment account, and advances the watermark to target once
// the whole sweep succeeded. A zero target means "now".
//
// The very first sweep only initializes the watermark: nothing that was paid
// before the reconciler existed is ever credited. Re-running a sweep over the
// same or an overlapping range pays each (account, asset, payment date) at
// most once, whatever the held quantity was at either run.
//
// Dividend history is fetched once per symbol per sweep and always outside
// the bank's lock; each credit then takes the lock only briefly.
func (r *Reconciler) Sweep(ctx context.Context, target time.Time) (int, error) {
	if target.IsZero() {
		target = time.Now().UTC()
	}
	target = target.UTC()

	watermark, err := r.Watermark()
	if err != nil {
		return 0, err
	}
	if watermark.IsZero() {
		log.Printf("dividend reconciler: first run, starting from %s", target.Format(time.RFC3339))
		return 0, r.setWatermark(target)
	}
	if !target.After(watermark) {
		return 0, nil
	}

	holdings := r.bank.InvestmentHoldings()
	histories := make(map[string]*DividendHistory)

	paid := 0
	for _, accountID := range slices.Sorted(maps.Keys(holdings)) {
		paidDates, err := r.bank.PaidDividends(accountID)
		if err != nil {
			return paid, err
		}
		for _, symbol := range slices.Sorted(maps.Keys(holdings[accountID])) {
			history, ok := histories[symbol]
			if !ok {
				history, err = r.provider.GetDividends(ctx, symbol)
				if err != nil {
					return paid, err
				}
				histories[symbol] = history
			}

			holding := holdings[accountID][symbol]
			for _, event := range history.Events {
				payDate := event.PayDate.UTC()
				if !payDate.After(watermark) || payDate.After(target) {
					continue
				}
				if paidDates[symbol][event.PayDate] {
					continue
				}
				amount := M(event.Amount).Mul(holding.Quantity)
				if _, err := r.bank.CreditDividend(accountID, symbol, holding.Quantity, amount, payDate); err != nil {
					return paid, err
				}
				paid++
			}
		}
	}

	return paid, r.setWatermark(target)
}
