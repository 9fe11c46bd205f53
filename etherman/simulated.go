package etherman

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/pkg/errors"
)

var (
	SimulatedChainID = big.NewInt(1337)
	blockGasLimit    = uint64(999999999999999999)
	initialBalance   = new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
)

// SimulatedChain is an in-memory chain with funded accounts, for tests.
type SimulatedChain struct {
	Backend  *simulated.Backend
	Accounts []*bind.TransactOpts
}

func NewSimulatedChain() *SimulatedChain {
	// create accounts
	nAccount := 4
	accounts := make([]*bind.TransactOpts, nAccount)
	for i := 0; i < nAccount; i++ {
		accounts[i] = newAuth()
	}

	// allocate funds to accounts
	genesisAlloc := map[ethcommon.Address]types.Account{}
	for _, account := range accounts {
		genesisAlloc[account.From] = types.Account{
			Balance: new(big.Int).Set(initialBalance),
		}
	}

	backend := simulated.NewBackend(genesisAlloc, simulated.WithBlockGasLimit(blockGasLimit))

	return &SimulatedChain{
		Backend:  backend,
		Accounts: accounts,
	}
}

// Etherman binds an Etherman to the simulated client. Nothing is deployed
// at contractAddress.
func (sim *SimulatedChain) Etherman(contractAddress ethcommon.Address) *Etherman {
	return NewEthermanWithClient(sim.Backend.Client(), contractAddress)
}

// SendEther transfers value wei between two simulated accounts and returns
// the pending transaction. Call Backend.Commit() to mine it.
func (sim *SimulatedChain) SendEther(ctx context.Context, from *bind.TransactOpts, to ethcommon.Address, value *big.Int) (*types.Transaction, error) {
	client := sim.Backend.Client()

	nonce, err := client.PendingNonceAt(ctx, from.From)
	if err != nil {
		return nil, err
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      21000,
		GasPrice: new(big.Int).Mul(gasPrice, big.NewInt(2)),
	})
	signed, err := from.Signer(from.From, tx)
	if err != nil {
		return nil, err
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		return nil, err
	}
	return signed, nil
}

func (sim *SimulatedChain) Close() error {
	return sim.Backend.Close()
}

func newAuth() *bind.TransactOpts {
	sk, _ := crypto.GenerateKey()
	auth, _ := bind.NewKeyedTransactorWithChainID(sk, SimulatedChainID)
	return auth
}

// NewBridgedOutLog builds the log bridgeOut() would emit from contract.
func NewBridgedOutLog(contract, from ethcommon.Address, amount *big.Int, target ethcommon.Address, chainID, timestamp *big.Int) (*types.Log, error) {
	event := tokenBridgeABI.Events[EventBridgedOut]
	data, err := event.Inputs.NonIndexed().Pack(amount, timestamp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack BridgedOut data")
	}
	return &types.Log{
		Address: contract,
		Topics: []ethcommon.Hash{
			event.ID,
			ethcommon.BytesToHash(from.Bytes()),
			ethcommon.BytesToHash(target.Bytes()),
			ethcommon.BigToHash(chainID),
		},
		Data: data,
	}, nil
}

// NewTransferLog builds an ERC20 Transfer log emitted by contract.
func NewTransferLog(contract, from, to ethcommon.Address, value *big.Int) (*types.Log, error) {
	event := tokenBridgeABI.Events[EventTransfer]
	data, err := event.Inputs.NonIndexed().Pack(value)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack Transfer data")
	}
	return &types.Log{
		Address: contract,
		Topics: []ethcommon.Hash{
			event.ID,
			ethcommon.BytesToHash(from.Bytes()),
			ethcommon.BytesToHash(to.Bytes()),
		},
		Data: data,
	}, nil
}
