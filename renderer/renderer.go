// Package renderer turns brokerage data into markdown reports for the
// command-line tool to display.
package renderer

import (
	"fmt"

	"github.com/etnz/brokerage"
)

// Transaction renders a transaction to a one-line string.
func Transaction(tx brokerage.Transaction) string {
	switch tx.Kind {
	case brokerage.KindDeposit:
		return fmt.Sprintf("Deposited %s", tx.Amount)
	case brokerage.KindWithdraw:
		return fmt.Sprintf("Withdrew %s", tx.Amount)
	case brokerage.KindPurchase:
		return fmt.Sprintf("Bought %s of %s for %s", tx.Quantity, tx.Security, tx.Amount)
	case brokerage.KindSale:
		return fmt.Sprintf("Sold %s of %s for %s", tx.Quantity, tx.Security, tx.Amount)
	case brokerage.KindDividend:
		return fmt.Sprintf("Dividend of %s for %s", tx.Amount, tx.Security)
	default:
		return string(tx.Kind)
	}
}
