package bridgeout

import (
	"context"
	"math/big"
	"time"

	"github.com/Liberdus/token-bridge-go/etherman"
	"github.com/Liberdus/token-bridge-go/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

const MinSyncInterval = 100 * time.Millisecond

// SyncJournal brings the journal up to date with the chain:
//  1. submitted entries whose receipt is now available are marked mined
//     or reverted;
//  2. BridgedOut events of the account that are missing from the journal
//     (sent from another session) are imported.
//
// The last scanned block is kept under state.KeyJournalCursor. It returns
// the number of journal entries written.
func (s *Service) SyncJournal(ctx context.Context) (int, error) {
	if !s.Connected() {
		return 0, ErrWalletNotConnected
	}

	updated, err := s.settlePending(ctx)
	if err != nil {
		return updated, err
	}

	imported, err := s.importEvents(ctx)
	return updated + imported, err
}

func (s *Service) settlePending(ctx context.Context) (int, error) {
	pending, err := s.journal.GetPendingBridgeOuts()
	if err != nil {
		return 0, err
	}

	address := s.signer.Address()
	n := 0
	for _, b := range pending {
		if b.Sender != address {
			continue
		}

		receipt, err := s.contract.WaitForTxReceipt(ctx, b.TxHash, s.cfg.ReceiptInterval, 1)
		if errors.Is(err, etherman.ErrReceiptTimeout) {
			continue
		}
		if err != nil {
			return n, err
		}

		status := state.BridgeOutStatusMined
		if receipt.Status != types.ReceiptStatusSuccessful {
			status = state.BridgeOutStatusReverted
		}
		if err := s.journal.UpdateBridgeOutStatus(b.TxHash, status, receipt.BlockNumber.Uint64()); err != nil {
			return n, err
		}
		logger.WithFields(logger.Fields{"txHash": b.TxHash.Hex(), "status": status}).Info("settled pending bridge out")
		n++
	}
	return n, nil
}

func (s *Service) importEvents(ctx context.Context) (int, error) {
	latest, err := s.contract.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}

	cursor, ok, err := s.journal.GetKeyedValue(state.KeyJournalCursor)
	if err != nil {
		return 0, err
	}
	var from uint64
	switch {
	case ok:
		if cursor.Uint64() >= latest {
			return 0, nil
		}
		from = cursor.Uint64() + 1
	case s.cfg.SyncStartBlock < 0:
		// no history wanted, follow the chain from its head
		from = latest
	default:
		from = uint64(s.cfg.SyncStartBlock)
	}

	batch := s.cfg.SyncBatchSize
	if batch == 0 {
		batch = DefaultConfig().SyncBatchSize
	}

	address := s.signer.Address()
	n := 0
	for from <= latest {
		to := from + batch - 1
		if to > latest {
			to = latest
		}

		events, err := s.contract.GetEventLogs(ctx, new(big.Int).SetUint64(from), new(big.Int).SetUint64(to))
		if err != nil {
			return n, err
		}

		for _, ev := range events {
			if ev.From != address {
				continue
			}
			ok, err := s.journal.HasBridgeOut(ev.Raw.TxHash)
			if err != nil {
				return n, err
			}
			if ok {
				continue
			}

			createdAt := time.Now()
			if ev.Timestamp != nil && ev.Timestamp.IsInt64() {
				createdAt = time.Unix(ev.Timestamp.Int64(), 0)
			}
			b := &state.BridgeOut{
				TxHash:      ev.Raw.TxHash,
				Sender:      ev.From,
				Recipient:   ev.TargetAddress,
				Amount:      new(big.Int).Set(ev.Amount),
				ChainID:     new(big.Int).Set(ev.ChainId),
				BlockNumber: ev.Raw.BlockNumber,
				Status:      state.BridgeOutStatusMined,
				CreatedAt:   createdAt,
			}
			if err := s.journal.InsertBridgeOut(b); err != nil {
				return n, err
			}
			logger.WithFields(logger.Fields{
				"txHash": b.TxHash.Hex(),
				"block":  b.BlockNumber,
				"amount": b.Amount.String(),
			}).Info("imported bridge out from chain")
			n++
		}

		if err := s.journal.SetKeyedValue(state.KeyJournalCursor, new(big.Int).SetUint64(to)); err != nil {
			return n, err
		}
		from = to + 1
	}
	return n, nil
}

// Run calls SyncJournal every interval until ctx is done. Failed rounds
// are logged and tried again on the next tick.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval < MinSyncInterval {
		interval = MinSyncInterval
	}

	logger.Debug("starting journal synchronization")
	defer logger.Debug("stopping journal synchronization")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n, err := s.SyncJournal(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warnf("journal sync failed: err=%v", err)
			} else if n > 0 {
				logger.WithField("entries", n).Debug("journal synced")
			}
		}
	}
}
