// Server = http reporter + journal synchronization + wallet network watcher.
// All components are configured via environment variables (strings!).

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Liberdus/token-bridge-go/notify"
	"github.com/Liberdus/token-bridge-go/wallet"
)

// RunBridgeServer runs the long lived components of app until ctx is done
// or one of them fails. A cancelled ctx is a clean exit.
func RunBridgeServer(ctx context.Context, app *BridgeApp) error {
	g, ctx := errgroup.WithContext(ctx)

	// 1. Http reporter
	rp := app.Reporter()
	g.Go(func() error {
		return rp.Run(ctx)
	})

	// 2. Journal synchronization, only meaningful with a wallet
	if app.BridgeOut.Connected() {
		g.Go(func() error {
			return app.BridgeOut.Run(ctx, frequencyToSyncJournal)
		})
	}

	// 3. Network watcher, forwards network switches to the subscribers
	if wt := app.Watcher(); wt != nil {
		g.Go(func() error {
			return wt.Run(ctx)
		})
		g.Go(func() error {
			return forwardNetworkChanges(ctx, wt.Events(), app.Notifier)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func forwardNetworkChanges(ctx context.Context, events <-chan wallet.NetworkChanged, notifier notify.Notifier) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			notifier.Notify(notify.Info(fmt.Sprintf(
				"Network changed from %s to %s",
				wallet.ChainName(ev.Old),
				wallet.ChainName(ev.New),
			)))
		}
	}
}

// StartBridgeServerAndWait builds the app of cfg and serves until SIGINT
// or SIGTERM.
func StartBridgeServerAndWait(cfg *BridgeConfig) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Launch a new goroutine to handle the signal
	go func() {
		select {
		case sig := <-sigCh:
			logger.WithField("signal", sig.String()).Info("cancelling context")
			cancel()
		case <-ctx.Done():
		}
	}()

	app, err := NewBridgeApp(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "failed to create bridge app")
	}
	defer app.Close()

	return RunBridgeServer(ctx, app)
}
