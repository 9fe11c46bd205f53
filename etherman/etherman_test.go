package etherman

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/Liberdus/token-bridge-go/common"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contractAddr = ethcommon.HexToAddress("0x4EA46e5dD276eeB5D423465b4aFf646AC3f7bd74")

func TestEventSignatures(t *testing.T) {
	assert.Equal(t, BridgedOutSignatureHash, tokenBridgeABI.Events[EventBridgedOut].ID)
	assert.Equal(t, TransferSignatureHash, tokenBridgeABI.Events[EventTransfer].ID)
	assert.Contains(t, tokenBridgeABI.Methods, "balanceOf")
	assert.Contains(t, tokenBridgeABI.Methods, "bridgeOut")
}

func TestNewEthermanInvalidAddress(t *testing.T) {
	_, err := NewEtherman(&Config{URL: "http://127.0.0.1:8545", ContractAddress: "0x1234"})
	assert.ErrorIs(t, err, ErrInvalidContractAddress)
}

func TestChainIDAndBalances(t *testing.T) {
	sim := NewSimulatedChain()
	defer sim.Close()
	etherman := sim.Etherman(contractAddr)
	ctx := context.Background()

	chainID, err := etherman.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, SimulatedChainID.String(), chainID.String())
	assert.Equal(t, contractAddr, etherman.ContractAddress())

	balance, err := etherman.EthBalance(ctx, sim.Accounts[0].From)
	require.NoError(t, err)
	assert.Equal(t, initialBalance.String(), balance.String())

	// no contract deployed at the address
	_, err = etherman.BalanceOf(ctx, sim.Accounts[0].From)
	assert.ErrorIs(t, err, bind.ErrNoCode)

	_, err = etherman.BridgeOut(sim.Accounts[0], big.NewInt(1), sim.Accounts[0].From, chainID)
	assert.ErrorIs(t, err, bind.ErrNoCode)
}

func TestWaitForTxReceipt(t *testing.T) {
	sim := NewSimulatedChain()
	defer sim.Close()
	etherman := sim.Etherman(contractAddr)
	ctx := context.Background()

	tx, err := sim.SendEther(ctx, sim.Accounts[0], sim.Accounts[1].From, big.NewInt(1000))
	require.NoError(t, err)

	_, err = etherman.WaitForTxReceipt(ctx, tx.Hash(), 5*time.Millisecond, 2)
	assert.ErrorIs(t, err, ErrReceiptTimeout)

	sim.Backend.Commit()
	receipt, err := etherman.WaitForTxReceipt(ctx, tx.Hash(), 5*time.Millisecond, 2)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	num, err := etherman.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, receipt.BlockNumber.Uint64(), num)
}

func TestWaitForTxReceiptCancelled(t *testing.T) {
	sim := NewSimulatedChain()
	defer sim.Close()
	etherman := sim.Etherman(contractAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := etherman.WaitForTxReceipt(ctx, ethcommon.Hash(common.RandBytes32()), 10*time.Millisecond, 1000)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseBridgeOutLogs(t *testing.T) {
	sim := NewSimulatedChain()
	defer sim.Close()
	etherman := sim.Etherman(contractAddr)

	from := common.RandEthAddress()
	amount := big.NewInt(1_500_000)
	chainID := big.NewInt(137)
	ts := big.NewInt(1718000000)

	bridged, err := NewBridgedOutLog(contractAddr, from, amount, from, chainID, ts)
	require.NoError(t, err)
	transfer, err := NewTransferLog(contractAddr, from, ethcommon.Address{}, amount)
	require.NoError(t, err)
	foreign, err := NewBridgedOutLog(common.RandEthAddress(), from, amount, from, chainID, ts)
	require.NoError(t, err)

	broken := *bridged
	broken.Data = []byte{0x01}
	unknown := &types.Log{Address: contractAddr, Topics: []ethcommon.Hash{ethcommon.Hash(common.RandBytes32())}}
	anonymous := &types.Log{Address: contractAddr}

	receipt := &types.Receipt{Logs: []*types.Log{transfer, foreign, &broken, unknown, anonymous, bridged, nil}}
	events := etherman.ParseBridgeOutLogs(receipt)

	require.Len(t, events.BridgedOut, 1)
	require.Len(t, events.Transfers, 1)
	assert.Equal(t, 2, events.Len())

	ev := events.BridgedOut[0]
	assert.Equal(t, from, ev.From)
	assert.Equal(t, from, ev.TargetAddress)
	assert.Equal(t, amount.String(), ev.Amount.String())
	assert.Equal(t, chainID.String(), ev.ChainId.String())
	assert.Equal(t, ts.String(), ev.Timestamp.String())
	assert.Equal(t, *bridged, ev.Raw)

	tr := events.Transfers[0]
	assert.Equal(t, from, tr.From)
	assert.Equal(t, ethcommon.Address{}, tr.To)
	assert.Equal(t, amount.String(), tr.Value.String())
}

func TestGetEventLogsEmpty(t *testing.T) {
	sim := NewSimulatedChain()
	defer sim.Close()
	etherman := sim.Etherman(contractAddr)
	sim.Backend.Commit()

	events, err := etherman.GetEventLogs(context.Background(), big.NewInt(0), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}
