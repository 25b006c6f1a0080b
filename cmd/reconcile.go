package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

type reconcileCmd struct {
	target string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "credit missed dividend payments" }
func (*reconcileCmd) Usage() string {
	return `bkr reconcile [-target <date>]

  Checks the dividend history of every held security and credits payments
  with a payment date since the last reconciliation, up to the target date
  (default now). The first run only records the starting point.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.target, "target", "", "Reconcile up to this date. Defaults to now.")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var target time.Time
	if c.target != "" {
		var err error
		if target, err = parseAsOf(c.target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
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

	reconciler := brokerage.NewReconciler(bank, provider, cfg.WatermarkFile)
	paid, err := reconciler.Sweep(ctx, target)
	// Credits that landed before the error are kept, so save in every case.
	if paid > 0 {
		if err := saveBank(cfg, bank); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Credited %d dividend payment(s)\n", paid)
	return subcommands.ExitSuccess
}
