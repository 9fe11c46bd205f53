package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Liberdus/token-bridge-go/bridgein"
	"github.com/Liberdus/token-bridge-go/cmd"
	"github.com/Liberdus/token-bridge-go/logconfig"
	"github.com/Liberdus/token-bridge-go/reporter"
)

var app = cli.NewApp()

var (
	Version = "1.0.0"
)

// init initializes CLI
func init() {
	app.Name = "bridge"
	app.Usage = "Liberdus token bridge command line tool"
	app.Version = Version
	app.EnableBashCompletion = true
	app.Before = setup
	app.Commands = []*cli.Command{
		&balanceCommand,
		&bridgeOutCommand,
		&bridgeInCommand,
		&transactionsCommand,
		&exploreCommand,
		&historyCommand,
		&convertCommand,
		&serveCommand,
		&pingCommand,
	}

	app.Flags = append(app.Flags, ConfigFlag, VerbosityFlag)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// setup reads the configuration file and configures the logger.
func setup(c *cli.Context) error {
	if err := cmd.InitializeViper(c.String(ConfigFlag.Name)); err != nil {
		return err
	}
	cfg := cmd.PrepareBridgeConfig()
	level := cfg.LogLevel
	if v := c.String(VerbosityFlag.Name); v != "" {
		level = v
	}
	logconfig.ConfigByName(level)
	return nil
}

// withApp builds the bridge app, runs fn and releases the app. ctx is
// cancelled on SIGINT or SIGTERM.
func withApp(c *cli.Context, fn func(ctx context.Context, ba *cmd.BridgeApp) error) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ba, err := cmd.NewBridgeApp(ctx, cmd.PrepareBridgeConfig())
	if err != nil {
		return err
	}
	defer ba.Close()

	return fn(ctx, ba)
}

var balanceCommand = cli.Command{
	Name:  "balance",
	Usage: "show the token balance of an address",
	Flags: []cli.Flag{AddressFlag},
	Action: func(c *cli.Context) error {
		return withApp(c, func(ctx context.Context, ba *cmd.BridgeApp) error {
			return cmd.PrintBalance(ctx, c.App.Writer, ba.BridgeOut, c.String(AddressFlag.Name))
		})
	},
}

var bridgeOutCommand = cli.Command{
	Name:        "bridge-out",
	Usage:       "convert tokens back to native coins",
	Description: "Burns the amount on the token contract. The coordinator releases the native coins to the same account.",
	Flags:       []cli.Flag{AmountFlag, WaitFlag},
	Action: func(c *cli.Context) error {
		return withApp(c, func(ctx context.Context, ba *cmd.BridgeApp) error {
			cmd.PrintWelcome(c.App.Writer, ba)
			return cmd.BridgeOut(ctx, c.App.Writer, ba, c.String(AmountFlag.Name), c.Bool(WaitFlag.Name))
		})
	},
}

var bridgeInCommand = cli.Command{
	Name:  "bridge-in",
	Usage: "print how to convert native coins to tokens",
	Action: func(c *cli.Context) error {
		cfg := cmd.PrepareBridgeConfig()
		return bridgein.NewInstructions(cfg.BridgeInAccount).Render(c.App.Writer)
	},
}

var transactionsCommand = cli.Command{
	Name:    "transactions",
	Aliases: []string{"txs"},
	Usage:   "list bridge transactions known to the coordinator",
	Flags:   []cli.Flag{ModeFlag, QueryFlag, PageFlag},
	Action: func(c *cli.Context) error {
		return withApp(c, func(ctx context.Context, ba *cmd.BridgeApp) error {
			return cmd.ListTransactions(ctx, c.App.Writer, ba.Coordinator,
				c.String(ModeFlag.Name), c.String(QueryFlag.Name), c.Int(PageFlag.Name))
		})
	},
}

var exploreCommand = cli.Command{
	Name:  "explore",
	Usage: "browse bridge transactions interactively",
	Action: func(c *cli.Context) error {
		return withApp(c, func(ctx context.Context, ba *cmd.BridgeApp) error {
			session := ba.Explorer(ctx)
			defer session.Close()
			return cmd.RunExplorer(ctx, session, os.Stdin, c.App.Writer)
		})
	},
}

var historyCommand = cli.Command{
	Name:  "history",
	Usage: "list bridge outs submitted from the connected account",
	Flags: []cli.Flag{LimitFlag},
	Action: func(c *cli.Context) error {
		return withApp(c, func(ctx context.Context, ba *cmd.BridgeApp) error {
			if _, err := ba.BridgeOut.SyncJournal(ctx); err != nil {
				logger.Warnf("failed to synchronize journal: %v", err)
			}
			entries, err := ba.BridgeOut.History(c.Int(LimitFlag.Name))
			if err != nil {
				return err
			}
			cmd.PrintHistory(c.App.Writer, entries)
			return nil
		})
	},
}

var convertCommand = cli.Command{
	Name:      "convert",
	Usage:     "print the ethereum and native forms of an address",
	ArgsUsage: "<address>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("expected one address, got %d arguments", c.NArg())
		}
		return cmd.ConvertAddress(c.App.Writer, c.Args().First())
	},
}

var serveCommand = cli.Command{
	Name:  "serve",
	Usage: "run the http backend with the websocket notification stream",
	Action: func(c *cli.Context) error {
		cfg := cmd.PrepareBridgeConfig()
		fmt.Fprintf(c.App.Writer, "Starting bridge server on %s:%s... press Ctrl+C to stop\n", cfg.HttpIp, cfg.HttpPort)
		return cmd.StartBridgeServerAndWait(cfg)
	},
}

var pingCommand = cli.Command{
	Name:  "ping",
	Usage: "check that a bridge server is answering on HTTP_IP:HTTP_PORT",
	Action: func(c *cli.Context) error {
		cfg := cmd.PrepareBridgeConfig()
		ip := cfg.HttpIp
		if ip == "" || ip == cmd.DEFAULT_HTTP_IP {
			ip = "127.0.0.1"
		}
		msg, err := reporter.NewHttpReader(ip, cfg.HttpPort).GetHello()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s:%s says %s\n", ip, cfg.HttpPort, msg)
		return nil
	},
}
