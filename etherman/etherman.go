package etherman

import (
	"context"
	"math/big"
	"time"

	"github.com/Liberdus/token-bridge-go/common"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

const (
	DefaultReceiptInterval = 2 * time.Second
	DefaultReceiptMaxTries = 90
)

var (
	ErrInvalidContractAddress = errors.New("invalid contract address")
	ErrReceiptTimeout         = errors.New("transaction receipt not found")
)

// EthereumClient is the subset of the node API the bridge needs. It is
// satisfied by *ethclient.Client and the simulated backend client.
type EthereumClient interface {
	ethereum.ChainReader
	ethereum.ChainStateReader
	ethereum.LogFilterer
	ethereum.TransactionReader

	bind.ContractBackend

	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

type Etherman struct {
	ethClient       EthereumClient
	contractAddress ethcommon.Address
	contract        *bind.BoundContract
}

func NewEtherman(cfg *Config) (*Etherman, error) {
	if !common.IsEthereumAddress(cfg.ContractAddress) {
		return nil, errors.Wrapf(ErrInvalidContractAddress, "address=%s", cfg.ContractAddress)
	}

	ethClient, err := ethclient.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial ethereum node url=%s", cfg.URL)
	}

	return NewEthermanWithClient(ethClient, ethcommon.HexToAddress(cfg.ContractAddress)), nil
}

func NewEthermanWithClient(ethClient EthereumClient, contractAddress ethcommon.Address) *Etherman {
	return &Etherman{
		ethClient:       ethClient,
		contractAddress: contractAddress,
		contract:        bind.NewBoundContract(contractAddress, tokenBridgeABI, ethClient, ethClient, ethClient),
	}
}

func (etherman *Etherman) Client() EthereumClient {
	return etherman.ethClient
}

func (etherman *Etherman) ContractAddress() ethcommon.Address {
	return etherman.contractAddress
}

func (etherman *Etherman) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := etherman.ethClient.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain id")
	}
	return chainID, nil
}

func (etherman *Etherman) BlockNumber(ctx context.Context) (uint64, error) {
	num, err := etherman.ethClient.BlockNumber(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get block number")
	}
	return num, nil
}

// BalanceOf returns the token balance of addr in the smallest unit.
func (etherman *Etherman) BalanceOf(ctx context.Context, addr ethcommon.Address) (*big.Int, error) {
	var out []interface{}
	err := etherman.contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call balanceOf account=%s", addr.Hex())
	}
	balance := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return balance, nil
}

// EthBalance returns the native currency balance of addr, used to tell
// the user whether gas can be paid.
func (etherman *Etherman) EthBalance(ctx context.Context, addr ethcommon.Address) (*big.Int, error) {
	balance, err := etherman.ethClient.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get balance account=%s", addr.Hex())
	}
	return balance, nil
}

// BridgeOut burns amount tokens of auth.From and asks the bridge to credit
// recipient on the native chain.
func (etherman *Etherman) BridgeOut(auth *bind.TransactOpts, amount *big.Int, recipient ethcommon.Address, chainID *big.Int) (*types.Transaction, error) {
	tx, err := etherman.contract.Transact(auth, "bridgeOut", amount, recipient, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send bridgeOut")
	}

	logger.WithFields(logger.Fields{
		"txHash":    tx.Hash().Hex(),
		"from":      auth.From.Hex(),
		"recipient": recipient.Hex(),
		"amount":    amount.String(),
		"chainId":   chainID.String(),
	}).Info("bridgeOut tx sent")

	return tx, nil
}

// WaitForTxReceipt polls the node every interval until the receipt is
// available, at most maxTries times.
func (etherman *Etherman) WaitForTxReceipt(ctx context.Context, txHash ethcommon.Hash, interval time.Duration, maxTries int) (*types.Receipt, error) {
	if interval <= 0 {
		interval = DefaultReceiptInterval
	}
	if maxTries <= 0 {
		maxTries = DefaultReceiptMaxTries
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for try := 1; ; try++ {
		receipt, err := etherman.ethClient.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil && receipt.BlockNumber != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, errors.Wrapf(err, "failed to get transaction receipt txHash=%s", txHash.Hex())
		}
		if try >= maxTries {
			return nil, errors.Wrapf(ErrReceiptTimeout, "txHash=%s tries=%d", txHash.Hex(), maxTries)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ParseBridgeOutLogs decodes the events emitted by the contract in receipt.
// Logs of other contracts and logs that do not decode are skipped.
func (etherman *Etherman) ParseBridgeOutLogs(receipt *types.Receipt) *ContractEvents {
	events := &ContractEvents{}
	for _, vlog := range receipt.Logs {
		if vlog == nil || vlog.Address != etherman.contractAddress || len(vlog.Topics) == 0 {
			continue
		}

		switch vlog.Topics[0] {
		case BridgedOutSignatureHash:
			ev, err := etherman.unpackBridgedOut(*vlog)
			if err != nil {
				logger.WithField("txHash", vlog.TxHash.Hex()).Debugf("skipping undecodable BridgedOut log: %v", err)
				continue
			}
			events.BridgedOut = append(events.BridgedOut, *ev)
		case TransferSignatureHash:
			ev := new(TransferEvent)
			if err := etherman.contract.UnpackLog(ev, EventTransfer, *vlog); err != nil {
				logger.WithField("txHash", vlog.TxHash.Hex()).Debugf("skipping undecodable Transfer log: %v", err)
				continue
			}
			ev.Raw = *vlog
			events.Transfers = append(events.Transfers, *ev)
		default:
			logger.WithField("topic", vlog.Topics[0].Hex()).Debug("skipping unknown event")
		}
	}
	return events
}

// GetEventLogs returns the BridgedOut events emitted in blocks [from, to].
// A nil to means the latest block.
func (etherman *Etherman) GetEventLogs(ctx context.Context, from, to *big.Int) ([]BridgedOutEvent, error) {
	logs, err := etherman.ethClient.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: from,
		ToBlock:   to,
		Addresses: []ethcommon.Address{etherman.contractAddress},
		Topics:    [][]ethcommon.Hash{{BridgedOutSignatureHash}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to filter logs")
	}

	bridgedOut := make([]BridgedOutEvent, 0, len(logs))
	for _, vlog := range logs {
		ev, err := etherman.unpackBridgedOut(vlog)
		if err != nil {
			return nil, err
		}
		bridgedOut = append(bridgedOut, *ev)
	}
	return bridgedOut, nil
}

func (etherman *Etherman) unpackBridgedOut(vlog types.Log) (*BridgedOutEvent, error) {
	ev := new(BridgedOutEvent)
	if err := etherman.contract.UnpackLog(ev, EventBridgedOut, vlog); err != nil {
		return nil, errors.Wrap(err, "failed to unpack BridgedOut")
	}
	ev.Raw = vlog
	return ev, nil
}
