package wallet

import (
	"fmt"
	"math/big"
)

// SupportedChains are the networks the token contract is deployed on.
var SupportedChains = map[uint64]string{
	1:        "Ethereum",
	31337:    "Localhost",
	137:      "Polygon",
	80002:    "Polygon Amoy",
	80001:    "Polygon Mumbai",
	11155111: "Sepolia",
}

func IsSupportedChain(chainID *big.Int) bool {
	if chainID == nil || !chainID.IsUint64() {
		return false
	}
	_, ok := SupportedChains[chainID.Uint64()]
	return ok
}

func ChainName(chainID *big.Int) string {
	if IsSupportedChain(chainID) {
		return SupportedChains[chainID.Uint64()]
	}
	return fmt.Sprintf("Unknown (%s)", chainID)
}
