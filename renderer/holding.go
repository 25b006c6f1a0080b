package renderer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/brokerage"
)

// Holdings renders an investment account's positions as a markdown report.
// Market values are optional: symbols present in values get a Value column
// entry, so the report degrades gracefully when the provider is unreachable.
func Holdings(acc brokerage.InvestmentAccount, values map[string]brokerage.Money) string {
	var b strings.Builder
	title := acc.Nickname()
	if title == "" {
		title = fmt.Sprintf("Account %d", acc.ID())
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Cash balance: %s\n\n", acc.Balance())

	holdings := acc.Holdings()
	if len(holdings) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Quantity | Avg Cost | Cost Basis | Value |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, symbol := range slices.Sorted(maps.Keys(holdings)) {
		h := holdings[symbol]
		value := ""
		if price, ok := values[symbol]; ok {
			value = price.Mul(h.Quantity).String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			symbol, h.Quantity, h.AverageCost, h.CostBasis(), value)
	}
	return b.String()
}
