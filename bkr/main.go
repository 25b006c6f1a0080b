package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/brokerage/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion runs first: when invoked by the shell's completion
	// hook this call prints candidates and exits.
	completion().Complete("bkr")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	accountType := predict.Set{"checking", "investment"}
	accountFlags := map[string]complete.Predictor{
		"type":    accountType,
		"account": predict.Something,
	}
	cashFlags := map[string]complete.Predictor{
		"type":    accountType,
		"account": predict.Something,
		"amount":  predict.Something,
		"m":       predict.Nothing,
	}
	tradeFlags := map[string]complete.Predictor{
		"account":  predict.Something,
		"symbol":   predict.Something,
		"quantity": predict.Something,
		"asof":     predict.Something,
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":             predict.Files("*.yaml"),
			"alphavantage-token": predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"open": {Flags: map[string]complete.Predictor{
				"type":     accountType,
				"nickname": predict.Nothing,
			}},
			"close":    {Flags: accountFlags},
			"accounts": {},
			"deposit":  {Flags: cashFlags},
			"withdraw": {Flags: cashFlags},
			"buy":      {Flags: tradeFlags},
			"sell":     {Flags: tradeFlags},
			"price": {Flags: map[string]complete.Predictor{
				"symbol": predict.Something,
				"asof":   predict.Something,
			}},
			"search": {Flags: map[string]complete.Predictor{
				"q": predict.Something,
			}},
			"holding": {Flags: map[string]complete.Predictor{
				"account":  predict.Something,
				"no-price": predict.Nothing,
			}},
			"tx": {Flags: map[string]complete.Predictor{
				"type":    accountType,
				"account": predict.Something,
				"head":    predict.Something,
				"tail":    predict.Something,
			}},
			"reconcile": {Flags: map[string]complete.Predictor{
				"target": predict.Something,
			}},
		},
	}
}
