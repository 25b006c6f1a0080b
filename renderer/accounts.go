package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/brokerage"
)

// Accounts renders a summary of every account in the bank.
func Accounts(bank *brokerage.Bank) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Accounts\n\n")

	checking := bank.CheckingIDs()
	investment := bank.InvestmentIDs()
	if len(checking) == 0 && len(investment) == 0 {
		fmt.Fprintln(&b, "No accounts.")
		return b.String()
	}

	if len(checking) > 0 {
		fmt.Fprintf(&b, "## Checking\n\n")
		fmt.Fprintln(&b, "| Id | Nickname | Balance |")
		fmt.Fprintln(&b, "|---:|:---|---:|")
		for _, id := range checking {
			acc, err := bank.Checking(id)
			if err != nil {
				continue
			}
			fmt.Fprintf(&b, "| %d | %s | %s |\n", acc.ID(), acc.Nickname(), acc.Balance())
		}
		fmt.Fprintln(&b)
	}

	if len(investment) > 0 {
		fmt.Fprintf(&b, "## Investment\n\n")
		fmt.Fprintln(&b, "| Id | Nickname | Balance | Positions |")
		fmt.Fprintln(&b, "|---:|:---|---:|---:|")
		for _, id := range investment {
			acc, err := bank.Investment(id)
			if err != nil {
				continue
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %d |\n", acc.ID(), acc.Nickname(), acc.Balance(), len(acc.Holdings()))
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

// Tickers renders symbol search results as a markdown table.
func Tickers(infos []brokerage.TickerInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Matches\n\n")
	if len(infos) == 0 {
		fmt.Fprintln(&b, "No matches.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Symbol | Name | Open | Close | Timezone |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|")
	for _, info := range infos {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			info.Symbol, info.Name, info.MarketOpen, info.MarketClose, info.Timezone)
	}
	return b.String()
}
