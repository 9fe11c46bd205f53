package wallet

import (
	"context"
	"math/big"
	"time"

	logger "github.com/sirupsen/logrus"
)

const DefaultWatchInterval = 5 * time.Second

// NetworkChanged is published when the provider switches networks.
type NetworkChanged struct {
	Old *big.Int
	New *big.Int
}

// Watcher polls the provider chain id and keeps the wallet on the current
// network.
type Watcher struct {
	wallet   *Wallet
	reader   ChainReader
	interval time.Duration
	events   chan NetworkChanged
}

func NewWatcher(w *Wallet, reader ChainReader, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		wallet:   w,
		reader:   reader,
		interval: interval,
		events:   make(chan NetworkChanged, 1),
	}
}

// Events delivers network changes. A change is dropped when the previous
// one has not been read yet.
func (wt *Watcher) Events() <-chan NetworkChanged {
	return wt.events
}

// Poll checks the chain id once and reports whether it changed.
func (wt *Watcher) Poll(ctx context.Context) (*NetworkChanged, error) {
	chainID, err := wt.reader.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	old := wt.wallet.ChainID()
	if old.Cmp(chainID) == 0 {
		return nil, nil
	}

	wt.wallet.setChainID(chainID)
	ev := &NetworkChanged{Old: old, New: new(big.Int).Set(chainID)}

	fields := logger.Fields{"old": old.String(), "new": chainID.String(), "network": ChainName(chainID)}
	if !IsSupportedChain(chainID) {
		logger.WithFields(fields).Warn("switched to an unsupported network")
	} else {
		logger.WithFields(fields).Info("network changed")
	}

	select {
	case wt.events <- *ev:
	default:
	}
	return ev, nil
}

// Run polls until ctx is done. Poll errors are logged and do not stop the
// watcher.
func (wt *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(wt.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := wt.Poll(ctx); err != nil && ctx.Err() == nil {
				logger.WithField("address", wt.wallet.Address().Hex()).Warnf("failed to poll chain id: %v", err)
			}
		}
	}
}
