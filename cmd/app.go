// BridgeApp = etherman + wallet + coordinator client + journal + notifications.
// Both the command line tool and the http server are built on top of it.

package cmd

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"

	"github.com/Liberdus/token-bridge-go/bridgein"
	"github.com/Liberdus/token-bridge-go/bridgeout"
	"github.com/Liberdus/token-bridge-go/coordinator"
	"github.com/Liberdus/token-bridge-go/etherman"
	"github.com/Liberdus/token-bridge-go/explorer"
	"github.com/Liberdus/token-bridge-go/notify"
	"github.com/Liberdus/token-bridge-go/reporter"
	"github.com/Liberdus/token-bridge-go/state"
	"github.com/Liberdus/token-bridge-go/wallet"
)

type BridgeApp struct {
	Config *BridgeConfig

	Etherman     *etherman.Etherman
	Coordinator  *coordinator.Client
	Wallet       *wallet.Wallet // nil when no credentials are configured
	BridgeOut    *bridgeout.Service
	Instructions *bridgein.Instructions
	StateDB      *state.StateDB

	// Hub fans notifications out to websocket subscribers, Notifier also
	// writes them to the log.
	Hub      *notify.Hub
	Notifier notify.Notifier

	db *sql.DB
}

// NewBridgeApp dials the json rpc endpoint of cfg and builds the app on it.
func NewBridgeApp(ctx context.Context, cfg *BridgeConfig) (*BridgeApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 1. Etherman
	ether, err := etherman.NewEtherman(cfg.EthermanConfig())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create etherman")
	}
	logger.WithFields(logger.Fields{
		"rpc":      cfg.EthRpcUrl,
		"contract": ether.ContractAddress().Hex(),
	}).Debug("etherman created")

	// 2. Journal database
	db, err := OpenDatabase(cfg.DbFilePath)
	if err != nil {
		return nil, err
	}

	app, err := NewBridgeAppWithEtherman(ctx, cfg, ether, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

// NewBridgeAppWithEtherman builds the remaining components on an existing
// etherman and journal database. The app owns db afterwards.
func NewBridgeAppWithEtherman(ctx context.Context, cfg *BridgeConfig, ether *etherman.Etherman, db *sql.DB) (*BridgeApp, error) {
	st, err := state.NewStateDB(db)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create statedb")
	}

	app := &BridgeApp{
		Config:       cfg,
		Etherman:     ether,
		Coordinator:  coordinator.NewClient(cfg.CoordinatorConfig()),
		Instructions: bridgein.NewInstructions(cfg.BridgeInAccount),
		StateDB:      st,
		Hub:          notify.NewHub(notify.DefaultHubBuffer),
		db:           db,
	}
	app.Notifier = notify.Multi{notify.LogNotifier{}, app.Hub}

	// Wallet is optional, without it the app is read only.
	var signer bridgeout.Signer
	walletCfg := cfg.WalletConfig()
	if !walletCfg.Empty() {
		w, err := wallet.Connect(ctx, walletCfg, ether)
		if err != nil {
			app.Hub.Close()
			st.Close()
			return nil, errors.Wrap(err, "failed to connect wallet")
		}
		app.Wallet = w
		signer = w
	} else {
		logger.Info("no wallet configured, bridge out is disabled")
	}

	app.BridgeOut = bridgeout.NewService(cfg.BridgeOutConfig(), ether, signer, st, app.Notifier)
	return app, nil
}

// OpenDatabase opens the sqlite journal at path.
func OpenDatabase(path string) (*sql.DB, error) {
	if path == "" {
		path = DEFAULT_DB_FILE_PATH
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	if path == ":memory:" {
		// every connection to :memory: is a new empty database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func (app *BridgeApp) Reporter() *reporter.HttpReporter {
	return reporter.NewHttpReporter(
		app.Config.HttpIp,
		app.Config.HttpPort,
		app.Coordinator,
		app.BridgeOut,
		app.Instructions,
		app.Hub,
	)
}

// Explorer opens a search session on the coordinator. Close it when done.
func (app *BridgeApp) Explorer(ctx context.Context) *explorer.Session {
	return explorer.NewSession(ctx, app.Coordinator, app.Notifier, explorer.DefaultDebounce)
}

// Watcher follows the network of the wallet, nil without a wallet.
func (app *BridgeApp) Watcher() *wallet.Watcher {
	if app.Wallet == nil {
		return nil
	}
	return wallet.NewWatcher(app.Wallet, app.Etherman, frequencyToWatchChain)
}

func (app *BridgeApp) Close() {
	app.Hub.Close()
	app.StateDB.Close()
	if err := app.db.Close(); err != nil {
		logger.WithError(err).Warn("failed to close database")
	}
}
