package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

type openCmd struct {
	typ      string
	nickname string
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "open a new checking or investment account" }
func (*openCmd) Usage() string {
	return `bkr open -type <checking|investment> [-nickname <name>]

  Opens a new account and prints its id.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "checking", "Account type (checking or investment).")
	f.StringVar(&c.nickname, "nickname", "", "Optional nickname for the account.")
}

func (c *openCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	id := bank.Open(c.nickname, typ)
	if err := saveBank(cfg, bank); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Opened %s account %d\n", typ, id)
	return subcommands.ExitSuccess
}
