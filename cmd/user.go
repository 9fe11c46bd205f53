package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/Liberdus/token-bridge-go/bridgeout"
	"github.com/Liberdus/token-bridge-go/common"
	"github.com/Liberdus/token-bridge-go/coordinator"
	"github.com/Liberdus/token-bridge-go/explorer"
	"github.com/Liberdus/token-bridge-go/wallet"
)

const frequencyToPollCoordinator = 5 * time.Second

var ErrInvalidAddress = errors.New("address must be a 0x address or a 64 character hex address")

// PrintWelcome writes the connection summary shown before every command.
func PrintWelcome(w io.Writer, app *BridgeApp) {
	fmt.Fprintln(w, strings.Repeat("=", 30))
	fmt.Fprintf(w, "Connected to: %s\n", app.Config.EthRpcUrl)
	fmt.Fprintf(w, "Bridge contract address: %s\n", app.Etherman.ContractAddress().Hex())
	fmt.Fprintf(w, "Coordinator: %s\n", app.Config.CoordinatorUrl)
	if app.Wallet != nil {
		fmt.Fprintf(w, "Network: %s\n", wallet.ChainName(app.Wallet.ChainID()))
		fmt.Fprintf(w, "Your address: %s\n", app.Wallet.Address().Hex())
	} else {
		fmt.Fprintln(w, "No wallet connected")
	}
	fmt.Fprintln(w, strings.Repeat("=", 30))
}

// PrintBalance writes the token balance of address, or of the connected
// account when address is empty. Native addresses are accepted.
func PrintBalance(ctx context.Context, w io.Writer, svc *bridgeout.Service, address string) error {
	var addr ethcommon.Address
	if address == "" {
		a, err := svc.Address()
		if err != nil {
			return err
		}
		addr = a
	} else {
		converted := common.ToEthereumAddress(address)
		if !common.IsEthereumAddress(converted) {
			// native addresses without the ethereum padding have no token account
			return ErrInvalidAddress
		}
		addr = ethcommon.HexToAddress(converted)
	}

	bal, err := svc.BalanceOf(ctx, addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Balance of %s: %s %s\n", addr.Hex(), bal.Formatted, common.TokenSymbol)
	return nil
}

// BridgeOut submits amount and prints the outcome. With wait it then
// follows the transaction on the coordinator until it is final.
func BridgeOut(ctx context.Context, w io.Writer, app *BridgeApp, amount string, wait bool) error {
	res, err := app.BridgeOut.Submit(ctx, amount)
	if res != nil {
		fmt.Fprintf(w, "Transaction: %s\n", res.TxHash.Hex())
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Mined in block %d\n", res.BlockNumber)
	if res.Events != nil {
		for _, ev := range res.Events.BridgedOut {
			fmt.Fprintf(w, "Bridged out %s %s to %s on %s\n",
				common.FormatUnits(ev.Amount, common.TokenDecimals), common.TokenSymbol,
				common.ToShardusAddress(ev.TargetAddress.Hex()), wallet.ChainName(ev.ChainId))
		}
	}
	if res.Balance != nil {
		fmt.Fprintf(w, "New balance: %s %s\n", res.Balance.Formatted, common.TokenSymbol)
	}

	if !wait {
		return nil
	}

	txID := strings.ToLower(common.Trim0xPrefix(res.TxHash.Hex()))
	fmt.Fprintln(w, "Waiting for the coordinator to settle the transaction...")
	tx, err := app.Coordinator.WaitForStatus(ctx, txID, frequencyToPollCoordinator)
	if err != nil {
		return errors.Wrap(err, "failed to wait for coordinator")
	}
	fmt.Fprintf(w, "Status: %s\n", tx.Status)
	if tx.Receipt != "" {
		fmt.Fprintf(w, "Receipt: %s\n", tx.Receipt)
	}
	if tx.Status == coordinator.StatusFailed {
		return errors.Errorf("bridge out %s failed on the coordinator", txID)
	}
	return nil
}

// ListTransactions fetches one page of the coordinator's history and
// prints it.
func ListTransactions(ctx context.Context, w io.Writer, fetcher explorer.Fetcher, mode, query string, page int) error {
	m, err := explorer.ParseSearchMode(mode)
	if err != nil {
		return err
	}
	search := explorer.Search{Mode: m, Query: query, Page: page}
	params, err := search.Params()
	if err != nil {
		return err
	}
	res, err := fetcher.ListTransactions(ctx, params)
	if err != nil {
		return err
	}
	PrintTransactions(w, res.Transactions, explorer.Pager{Page: res.Page, TotalPages: res.TotalPages})
	return nil
}

// ConvertAddress prints both encodings of address.
func ConvertAddress(w io.Writer, address string) error {
	address = strings.TrimSpace(address)
	if !common.IsEthereumAddress(address) && !common.IsHexShardusAddress(address) {
		return ErrInvalidAddress
	}
	fmt.Fprintf(w, "Ethereum: %s\n", common.ToEthereumAddress(address))
	fmt.Fprintf(w, "Shardus:  %s\n", common.ToShardusAddress(address))
	return nil
}
