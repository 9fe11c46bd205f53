package etherman

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// TokenBridgeABI is the part of the token contract used by the bridge: the
// ERC20 balance, the bridge out entry point and the events they emit.
const TokenBridgeABI = `[
	{
		"type": "function",
		"name": "balanceOf",
		"stateMutability": "view",
		"inputs": [{"name": "account", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "bridgeOut",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "amount", "type": "uint256"},
			{"name": "targetAddress", "type": "address"},
			{"name": "chainId", "type": "uint256"}
		],
		"outputs": []
	},
	{
		"type": "event",
		"name": "BridgedOut",
		"anonymous": false,
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false},
			{"name": "targetAddress", "type": "address", "indexed": true},
			{"name": "chainId", "type": "uint256", "indexed": true},
			{"name": "timestamp", "type": "uint256", "indexed": false}
		]
	},
	{
		"type": "event",
		"name": "Transfer",
		"anonymous": false,
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "to", "type": "address", "indexed": true},
			{"name": "value", "type": "uint256", "indexed": false}
		]
	}
]`

const (
	EventBridgedOut = "BridgedOut"
	EventTransfer   = "Transfer"
)

var (
	// Events
	BridgedOutSignatureHash = crypto.Keccak256Hash([]byte("BridgedOut(address,uint256,address,uint256,uint256)"))
	TransferSignatureHash   = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
)

var tokenBridgeABI = mustParseABI(TokenBridgeABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}
