package etherman

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// BridgedOutEvent is emitted by bridgeOut() once the tokens are burnt.
type BridgedOutEvent struct {
	From          ethcommon.Address
	Amount        *big.Int
	TargetAddress ethcommon.Address
	ChainId       *big.Int
	Timestamp     *big.Int
	Raw           types.Log
}

// TransferEvent is the ERC20 Transfer event. bridgeOut() emits one to the
// zero address.
type TransferEvent struct {
	From  ethcommon.Address
	To    ethcommon.Address
	Value *big.Int
	Raw   types.Log
}

// ContractEvents holds the decoded events of a single receipt.
type ContractEvents struct {
	BridgedOut []BridgedOutEvent
	Transfers  []TransferEvent
}

func (ev *ContractEvents) Len() int {
	return len(ev.BridgedOut) + len(ev.Transfers)
}
