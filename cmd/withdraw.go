package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

type withdrawCmd struct {
	typ         string
	account     int
	amount      float64
	description string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw cash from an account" }
func (*withdrawCmd) Usage() string {
	return `bkr withdraw -type <checking|investment> -account <id> -amount <dollars> [-m <note>]

  Debits the amount from the account and prints the new balance. Fails when
  the balance would go negative.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "checking", "Account type (checking or investment).")
	f.IntVar(&c.account, "account", 0, "Id of the target account.")
	f.Float64Var(&c.amount, "amount", 0, "Amount in dollars.")
	f.StringVar(&c.description, "m", "", "Optional note recorded with the transaction.")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := brokerage.ParseAccountType(c.typ)
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

	balance, err := bank.Withdraw(typ, c.account, brokerage.M(c.amount), c.description)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveBank(cfg, bank); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("New balance: %s\n", balance)
	return subcommands.ExitSuccess
}
