package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

type priceCmd struct {
	symbol string
	asOf   string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "show the price of a security" }
func (*priceCmd) Usage() string {
	return `bkr price -symbol <ticker> [-asof <date>]

  Prints the latest known price as of the given instant (default now).
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol to price.")
	f.StringVar(&c.asOf, "asof", "", "Price instant, a date or an RFC3339 timestamp. Defaults to now.")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	provider, err := newProvider(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer provider.Flush()

	// Pricing never mutates accounts, an empty bank serves as well.
	broker := brokerage.NewBroker(brokerage.NewBank(), provider)
	price, err := broker.Price(ctx, c.symbol, asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %s\n", c.symbol, price)
	return subcommands.ExitSuccess
}
