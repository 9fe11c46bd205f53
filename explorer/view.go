package explorer

import (
	"time"

	"github.com/Liberdus/token-bridge-go/common"
	"github.com/Liberdus/token-bridge-go/coordinator"
)

// TransactionView is a transaction prepared for display.
type TransactionView struct {
	TxID           string `json:"txId"`
	ShortTxID      string `json:"shortTxId"`
	Sender         string `json:"sender"`
	SenderEthereum string `json:"senderEthereum"`
	Value          string `json:"value"`
	FormattedValue string `json:"formattedValue"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	Receipt        string `json:"receipt"`
	CreatedAt      string `json:"createdAt"`
	TxTimestamp    int64  `json:"txTimestamp"`
}

func NewTransactionView(tx *coordinator.Transaction) *TransactionView {
	created := "N/A"
	if tx.TxTimestamp > 0 {
		created = time.UnixMilli(tx.TxTimestamp).UTC().Format(time.RFC3339)
	}
	return &TransactionView{
		TxID:           tx.TxID,
		ShortTxID:      common.ShortenAddress(tx.TxID),
		Sender:         tx.Sender,
		SenderEthereum: common.ToEthereumAddress(tx.Sender),
		Value:          tx.Value,
		FormattedValue: common.FormatTokenValue(tx.Value),
		Type:           tx.Type.String(),
		Status:         tx.Status.String(),
		Receipt:        tx.Receipt,
		CreatedAt:      created,
		TxTimestamp:    tx.TxTimestamp,
	}
}

func NewTransactionViews(txs []coordinator.Transaction) []*TransactionView {
	views := make([]*TransactionView, 0, len(txs))
	for i := range txs {
		views = append(views, NewTransactionView(&txs[i]))
	}
	return views
}
