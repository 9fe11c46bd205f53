package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/Liberdus/token-bridge-go/common"
	"github.com/Liberdus/token-bridge-go/coordinator"
	"github.com/Liberdus/token-bridge-go/explorer"
	"github.com/Liberdus/token-bridge-go/state"
	"github.com/Liberdus/token-bridge-go/wallet"
)

// FileExists checks if a file exists and is readable
func FileExists(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()
	return true
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	return table
}

// PrintTransactions writes one row per coordinator transaction followed by
// the pager line.
func PrintTransactions(w io.Writer, txs []coordinator.Transaction, pager explorer.Pager) {
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions found")
	} else {
		table := newTable(w, "TX ID", "SENDER", "VALUE", "TYPE", "STATUS", "RECEIPT", "CREATED")
		for _, v := range explorer.NewTransactionViews(txs) {
			receipt := v.Receipt
			if receipt == "" {
				receipt = "-"
			}
			table.Append([]string{
				v.ShortTxID,
				v.SenderEthereum,
				v.FormattedValue,
				v.Type,
				v.Status,
				receipt,
				v.CreatedAt,
			})
		}
		table.Render()
	}
	fmt.Fprintf(w, "Page %d of %d%s%s\n", pager.Page, pager.TotalPages,
		ternary(pager.HasPrev(), " [p]rev", ""),
		ternary(pager.HasNext(), " [n]ext", ""))
}

// PrintHistory writes the journal entries of the connected account.
func PrintHistory(w io.Writer, entries []*state.BridgeOut) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No bridge out submitted from this account")
		return
	}
	table := newTable(w, "TX HASH", "AMOUNT", "CHAIN", "STATUS", "BLOCK", "CREATED")
	for _, b := range entries {
		block := "-"
		if b.BlockNumber > 0 {
			block = strconv.FormatUint(b.BlockNumber, 10)
		}
		table.Append([]string{
			b.TxHash.Hex(),
			common.FormatUnits(b.Amount, common.TokenDecimals) + " " + common.TokenSymbol,
			wallet.ChainName(b.ChainID),
			string(b.Status),
			block,
			b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	table.Render()
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
