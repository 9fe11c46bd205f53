package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Liberdus/token-bridge-go/cmd"
	"github.com/Liberdus/token-bridge-go/state"
)

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Configuration file (json, yaml, toml or env)",
		EnvVars: []string{cmd.ENV_CONFIG_FILE_PATH},
	}
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Log preset: debug, info or production. Overrides LOG_LEVEL",
	}
)

var (
	AddressFlag = &cli.StringFlag{
		Name:  "address",
		Usage: "Ethereum (0x...) or native (64 hex chars) address, defaults to the connected account",
	}
	AmountFlag = &cli.StringFlag{
		Name:     "amount",
		Usage:    "Amount of tokens to bridge out, e.g. 1.5",
		Required: true,
	}
	WaitFlag = &cli.BoolFlag{
		Name:  "wait",
		Usage: "Follow the transaction on the coordinator until it is completed or failed",
	}
	ModeFlag = &cli.StringFlag{
		Name:  "mode",
		Usage: "Searched field: txid, sender, type or status",
		Value: "txid",
	}
	QueryFlag = &cli.StringFlag{
		Name:  "query",
		Usage: "Search query, empty lists every transaction",
	}
	PageFlag = &cli.IntFlag{
		Name:  "page",
		Usage: "Page to fetch",
		Value: 1,
	}
	LimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: fmt.Sprintf("Maximum number of journal entries, 0 or less uses %d", state.DefaultListLimit),
		Value: 20,
	}
)
