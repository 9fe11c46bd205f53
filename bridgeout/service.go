package bridgeout

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/Liberdus/token-bridge-go/common"
	"github.com/Liberdus/token-bridge-go/etherman"
	"github.com/Liberdus/token-bridge-go/notify"
	"github.com/Liberdus/token-bridge-go/state"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

// Contract is the token contract surface used to bridge out.
type Contract interface {
	BalanceOf(ctx context.Context, addr ethcommon.Address) (*big.Int, error)
	BridgeOut(auth *bind.TransactOpts, amount *big.Int, recipient ethcommon.Address, chainID *big.Int) (*types.Transaction, error)
	WaitForTxReceipt(ctx context.Context, txHash ethcommon.Hash, interval time.Duration, maxTries int) (*types.Receipt, error)
	ParseBridgeOutLogs(receipt *types.Receipt) *etherman.ContractEvents
	GetEventLogs(ctx context.Context, from, to *big.Int) ([]etherman.BridgedOutEvent, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Signer is the connected wallet.
type Signer interface {
	Address() ethcommon.Address
	ChainID() *big.Int
	Auth(ctx context.Context) (*bind.TransactOpts, error)
}

// Journal records the bridge outs submitted from this account.
type Journal interface {
	InsertBridgeOut(b *state.BridgeOut) error
	HasBridgeOut(txHash ethcommon.Hash) (bool, error)
	UpdateBridgeOutStatus(txHash ethcommon.Hash, status state.BridgeOutStatus, blockNumber uint64) error
	ListBridgeOuts(sender ethcommon.Address, limit int) ([]*state.BridgeOut, error)
	GetPendingBridgeOuts() ([]*state.BridgeOut, error)
	GetKeyedValue(key string) (*big.Int, bool, error)
	SetKeyedValue(key string, value *big.Int) error
}

type Balance struct {
	Wei       *big.Int `json:"-"`
	Value     string   `json:"value"`
	Formatted string   `json:"formatted"`
}

func newBalance(wei *big.Int) *Balance {
	return &Balance{
		Wei:       wei,
		Value:     wei.String(),
		Formatted: common.FormatUnits(wei, common.TokenDecimals),
	}
}

type Result struct {
	TxHash      ethcommon.Hash
	BlockNumber uint64
	Status      state.BridgeOutStatus
	Events      *etherman.ContractEvents
	Balance     *Balance
}

type Service struct {
	cfg      *Config
	contract Contract
	signer   Signer
	journal  Journal
	notifier notify.Notifier

	// one submission at a time
	submitting sync.Mutex
}

func NewService(cfg *Config, contract Contract, signer Signer, journal Journal, notifier notify.Notifier) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{
		cfg:      cfg,
		contract: contract,
		signer:   signer,
		journal:  journal,
		notifier: notifier,
	}
}

func (s *Service) Connected() bool {
	return s.signer != nil
}

func (s *Service) Address() (ethcommon.Address, error) {
	if !s.Connected() {
		return ethcommon.Address{}, ErrWalletNotConnected
	}
	return s.signer.Address(), nil
}

// Balance reads the token balance of the connected account.
func (s *Service) Balance(ctx context.Context) (*Balance, error) {
	if !s.Connected() {
		return nil, ErrWalletNotConnected
	}
	return s.BalanceOf(ctx, s.signer.Address())
}

func (s *Service) BalanceOf(ctx context.Context, addr ethcommon.Address) (*Balance, error) {
	wei, err := s.contract.BalanceOf(ctx, addr)
	if err != nil {
		return nil, err
	}
	return newBalance(wei), nil
}

// CanSubmit reports whether a submission may be attempted: the amount is
// set, non zero and the balance is not empty.
func CanSubmit(amountInput string, balance *big.Int) bool {
	amountInput = strings.TrimSpace(amountInput)
	if amountInput == "" || amountInput == "0" {
		return false
	}
	if balance == nil || balance.Sign() <= 0 {
		return false
	}
	amount, err := ParseAmount(amountInput)
	return err == nil && amount.Sign() > 0
}

// ParseAmount converts the amount typed by the user into the smallest unit.
func ParseAmount(amountInput string) (*big.Int, error) {
	amountInput = strings.TrimSpace(amountInput)
	if amountInput == "" || !common.IsAmountInput(amountInput) {
		return nil, errors.Wrapf(ErrInvalidAmount, "amount=%q", amountInput)
	}
	amount, err := common.ParseUnits(amountInput, common.TokenDecimals)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, errors.Wrap(ErrInvalidAmount, "amount must be greater than zero")
	}
	return amount, nil
}

// Submit bridges amountInput tokens of the connected account back to the
// native chain and waits for the transaction to be mined. The outcome is
// notified and journaled. Nothing is retried.
func (s *Service) Submit(ctx context.Context, amountInput string) (*Result, error) {
	res, err := s.submit(ctx, amountInput)
	if err != nil {
		s.notifier.Notify(notify.Error(err))
		return res, err
	}
	s.notifier.Notify(notify.Success("Submitted Signature: " + res.TxHash.Hex()))
	return res, nil
}

func (s *Service) submit(ctx context.Context, amountInput string) (*Result, error) {
	if !s.submitting.TryLock() {
		return nil, ErrSubmissionInFlight
	}
	defer s.submitting.Unlock()

	if !s.Connected() {
		return nil, ErrWalletNotConnected
	}

	amount, err := ParseAmount(amountInput)
	if err != nil {
		return nil, err
	}

	sender := s.signer.Address()
	balance, err := s.contract.BalanceOf(ctx, sender)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(balance) > 0 {
		return nil, errors.Wrapf(ErrInsufficientBalance, "amount=%s balance=%s",
			common.FormatUnits(amount, common.TokenDecimals), common.FormatUnits(balance, common.TokenDecimals))
	}

	auth, err := s.signer.Auth(ctx)
	if err != nil {
		return nil, err
	}
	chainID := s.signer.ChainID()

	// the tokens are credited to the same account on the native chain
	tx, err := s.contract.BridgeOut(auth, amount, sender, chainID)
	if err != nil {
		return nil, err
	}

	newLogger := logger.WithFields(logger.Fields{
		"txHash": tx.Hash().Hex(),
		"amount": amount.String(),
	})

	record := &state.BridgeOut{
		TxHash:    tx.Hash(),
		Sender:    sender,
		Recipient: sender,
		Amount:    amount,
		ChainID:   chainID,
		Status:    state.BridgeOutStatusSubmitted,
		CreatedAt: time.UnixMilli(time.Now().UnixMilli()),
	}
	if err := s.journal.InsertBridgeOut(record); err != nil {
		// the transaction is out, a journal failure must not hide it
		newLogger.Errorf("failed to journal bridge out: err=%v", err)
	}

	res := &Result{TxHash: tx.Hash(), Status: state.BridgeOutStatusSubmitted}

	receipt, err := s.contract.WaitForTxReceipt(ctx, tx.Hash(), s.cfg.ReceiptInterval, s.cfg.ReceiptMaxTries)
	if err != nil {
		return res, err
	}

	res.BlockNumber = receipt.BlockNumber.Uint64()
	res.Status = state.BridgeOutStatusMined
	if receipt.Status != types.ReceiptStatusSuccessful {
		res.Status = state.BridgeOutStatusReverted
	}
	if err := s.journal.UpdateBridgeOutStatus(tx.Hash(), res.Status, res.BlockNumber); err != nil {
		newLogger.Errorf("failed to update journal: err=%v", err)
	}

	if res.Status == state.BridgeOutStatusReverted {
		return res, errors.Wrapf(ErrTransactionReverted, "txHash=%s", tx.Hash().Hex())
	}

	res.Events = s.contract.ParseBridgeOutLogs(receipt)
	for _, ev := range res.Events.BridgedOut {
		newLogger.WithFields(logger.Fields{
			"from":    ev.From.Hex(),
			"target":  ev.TargetAddress.Hex(),
			"chainId": ev.ChainId.String(),
		}).Info("BridgedOut event")
	}
	for _, ev := range res.Events.Transfers {
		newLogger.WithFields(logger.Fields{
			"from":  ev.From.Hex(),
			"to":    ev.To.Hex(),
			"value": ev.Value.String(),
		}).Debug("Transfer event")
	}

	if wei, err := s.contract.BalanceOf(ctx, sender); err != nil {
		newLogger.Warnf("failed to refresh balance: err=%v", err)
	} else {
		res.Balance = newBalance(wei)
	}

	return res, nil
}

// History returns the journaled bridge outs of the connected account,
// newest first.
func (s *Service) History(limit int) ([]*state.BridgeOut, error) {
	if !s.Connected() {
		return nil, ErrWalletNotConnected
	}
	return s.journal.ListBridgeOuts(s.signer.Address(), limit)
}
