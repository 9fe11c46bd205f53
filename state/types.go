package state

import (
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

type BridgeOutStatus string

const (
	BridgeOutStatusSubmitted BridgeOutStatus = "submitted"
	BridgeOutStatusMined     BridgeOutStatus = "mined"
	BridgeOutStatusReverted  BridgeOutStatus = "reverted"
)

func (s BridgeOutStatus) Valid() bool {
	switch s {
	case BridgeOutStatusSubmitted, BridgeOutStatusMined, BridgeOutStatusReverted:
		return true
	}
	return false
}

// BridgeOut is a bridge-out transaction sent by the local wallet. Only the
// on-chain outcome is tracked here, the cross-chain status belongs to the
// coordinator.
type BridgeOut struct {
	TxHash      ethcommon.Hash
	Sender      ethcommon.Address
	Recipient   ethcommon.Address
	Amount      *big.Int
	ChainID     *big.Int
	BlockNumber uint64
	Status      BridgeOutStatus
	CreatedAt   time.Time
}

func (b *BridgeOut) String() string {
	return fmt.Sprintf("%+v", *b)
}

type JSONBridgeOut struct {
	TxHash      string `json:"tx_hash"`
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	ChainID     string `json:"chain_id"`
	BlockNumber uint64 `json:"block_number"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
}

func (b *BridgeOut) ToJSON() *JSONBridgeOut {
	return &JSONBridgeOut{
		TxHash:      b.TxHash.Hex(),
		Sender:      b.Sender.Hex(),
		Recipient:   b.Recipient.Hex(),
		Amount:      b.Amount.String(),
		ChainID:     b.ChainID.String(),
		BlockNumber: b.BlockNumber,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.UnixMilli(),
	}
}
