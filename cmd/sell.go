package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

type sellCmd struct {
	account  int
	symbol   string
	quantity float64
	asOf     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell a security from an investment account" }
func (*sellCmd) Usage() string {
	return `bkr sell -account <id> -symbol <ticker> -quantity <units> [-asof <date>]

  Sells at the latest known price as of the given instant (default now). The
  trade is rejected outside the security's trading hours or when the account
  does not hold enough units.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.account, "account", 0, "Id of the investment account.")
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol to sell.")
	f.Float64Var(&c.quantity, "quantity", 0, "Number of units, fractional allowed.")
	f.StringVar(&c.asOf, "asof", "", "Price instant, a date or an RFC3339 timestamp. Defaults to now.")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseAsOf(c.asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	bank, err := openBank(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	provider, err := newProvider(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer provider.Flush()

	broker := brokerage.NewBroker(bank, provider)
	balance, err := broker.Sell(ctx, c.account, c.symbol, brokerage.Q(c.quantity), asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveBank(cfg, bank); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Sold %s of %s. New balance: %s\n", brokerage.Q(c.quantity), c.symbol, balance)
	return subcommands.ExitSuccess
}
