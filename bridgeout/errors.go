package bridgeout

import (
	"github.com/Liberdus/token-bridge-go/common"
	"github.com/Liberdus/token-bridge-go/wallet"
	"github.com/pkg/errors"
)

var (
	ErrInvalidAmount       = common.ErrInvalidAmount
	ErrWalletNotConnected  = wallet.ErrWalletNotConnected
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransactionReverted = errors.New("bridgeOut transaction reverted")
	ErrSubmissionInFlight  = errors.New("a bridge out is already being submitted")
)
