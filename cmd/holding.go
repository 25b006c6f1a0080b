package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/renderer"
	"github.com/google/subcommands"
)

type holdingCmd struct {
	account int
	noPrice bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "show an investment account's positions" }
func (*holdingCmd) Usage() string {
	return `bkr holding -account <id> [-no-price]

  Shows the positions of an investment account with their cost basis and,
  unless -no-price is set, their current market value.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.account, "account", 0, "Id of the investment account.")
	f.BoolVar(&c.noPrice, "no-price", false, "Skip fetching market prices.")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	acc, err := bank.Investment(c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	// The report degrades to cost basis only when prices cannot be fetched.
	values := make(map[string]brokerage.Money)
	if !c.noPrice && len(acc.Holdings()) > 0 {
		provider, err := newProvider(cfg)
		if err != nil {
			log.Printf("skipping market values: %v", err)
		} else {
			defer provider.Flush()
			broker := brokerage.NewBroker(bank, provider)
			for symbol := range acc.Holdings() {
				price, err := broker.Price(ctx, symbol, time.Time{})
				if err != nil {
					log.Printf("no market value for %s: %v", symbol, err)
					continue
				}
				values[symbol] = price
			}
		}
	}

	printMarkdown(renderer.Holdings(acc, values))
	return subcommands.ExitSuccess
}
