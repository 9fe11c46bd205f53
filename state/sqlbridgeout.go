package state

import (
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

type sqlBridgeOut struct {
	TxHash      string
	Sender      string // hex without 0x prefix
	Recipient   string
	Amount      string
	ChainID     uint64
	BlockNumber uint64
	Status      string
	CreatedAt   int64
}

// encode converts a BridgeOut into column values. Amount and chain id are
// checked here, the rest is left to the table constraints.
func (s *sqlBridgeOut) encode(b *BridgeOut) (*sqlBridgeOut, error) {
	if b.Amount == nil || b.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("invalid amount: %v", b.Amount)
	}
	if b.ChainID == nil || !b.ChainID.IsUint64() {
		return nil, fmt.Errorf("invalid chain id: %v", b.ChainID)
	}
	if !b.Status.Valid() {
		return nil, fmt.Errorf("invalid status: %s", b.Status)
	}

	s.TxHash = b.TxHash.String()[2:]
	s.Sender = b.Sender.String()[2:]
	s.Recipient = b.Recipient.String()[2:]
	s.Amount = b.Amount.String()
	s.ChainID = b.ChainID.Uint64()
	s.BlockNumber = b.BlockNumber
	s.Status = string(b.Status)
	s.CreatedAt = b.CreatedAt.UnixMilli()

	return s, nil
}

func (s *sqlBridgeOut) decode() (*BridgeOut, error) {
	amount, ok := new(big.Int).SetString(s.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("stored amount is not a decimal integer: %s", s.Amount)
	}

	return &BridgeOut{
		TxHash:      ethcommon.HexToHash(s.TxHash),
		Sender:      ethcommon.HexToAddress(s.Sender),
		Recipient:   ethcommon.HexToAddress(s.Recipient),
		Amount:      amount,
		ChainID:     new(big.Int).SetUint64(s.ChainID),
		BlockNumber: s.BlockNumber,
		Status:      BridgeOutStatus(s.Status),
		CreatedAt:   time.UnixMilli(s.CreatedAt),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBridgeOut(row rowScanner) (*BridgeOut, error) {
	var s sqlBridgeOut
	if err := row.Scan(
		&s.TxHash, &s.Sender, &s.Recipient, &s.Amount,
		&s.ChainID, &s.BlockNumber, &s.Status, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return s.decode()
}
