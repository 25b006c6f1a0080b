package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/brokerage"
)

// Transactions renders a transaction log as a markdown table, oldest first.
func Transactions(txs []brokerage.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Kind | Security | Quantity | Amount | Description |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|:---|")
	for _, tx := range txs {
		quantity := ""
		if !tx.Quantity.IsZero() {
			quantity = tx.Quantity.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			tx.Date.Format("2006-01-02 15:04"),
			tx.Kind,
			tx.Security,
			quantity,
			tx.CashEffect().SignedString(),
			tx.Description,
		)
	}
	return b.String()
}
