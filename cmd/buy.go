package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

type buyCmd struct {
	account  int
	symbol   string
	quantity float64
	asOf     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy a security in an investment account" }
func (*buyCmd) Usage() string {
	return `bkr buy -account <id> -symbol <ticker> -quantity <units> [-asof <date>]

  Buys at the latest known price as of the given instant (default now). The
  trade is rejected outside the security's trading hours or when the cash
  balance cannot cover the cost.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.account, "account", 0, "Id of the investment account.")
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol to buy.")
	f.Float64Var(&c.quantity, "quantity", 0, "Number of units, fractional allowed.")
	f.StringVar(&c.asOf, "asof", "", "Price instant, a date or an RFC3339 timestamp. Defaults to now.")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	balance, err := broker.Buy(ctx, c.account, c.symbol, brokerage.Q(c.quantity), asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveBank(cfg, bank); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Bought %s of %s. New balance: %s\n", brokerage.Q(c.quantity), c.symbol, balance)
	return subcommands.ExitSuccess
}
