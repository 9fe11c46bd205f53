package common

import (
	"regexp"
	"strings"
)

// A native (shardus) address is 64 characters long. An ethereum address is
// embedded into it by dropping the 0x prefix and right padding with zeros.
const (
	ShardusAddressLength = 64
	ethAddressHexLength  = 40
)

var (
	ethAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	shardusPadding  = strings.Repeat("0", ShardusAddressLength-ethAddressHexLength)
)

func IsEthereumAddress(addr string) bool {
	return ethAddressRegex.MatchString(addr)
}

// IsShardusAddress only checks the length, the coordinator accepts any
// 64 character identifier.
func IsShardusAddress(addr string) bool {
	return len(addr) == ShardusAddressLength
}

// IsHexShardusAddress is the stricter form used to validate user input.
func IsHexShardusAddress(addr string) bool {
	return IsShardusAddress(addr) && IsHexString(addr)
}

// ToShardusAddress converts an ethereum address to the native format.
// Inputs of any other shape are returned unchanged.
func ToShardusAddress(addr string) string {
	if IsShardusAddress(addr) {
		return addr
	}
	if IsEthereumAddress(addr) {
		return addr[2:] + shardusPadding
	}
	return addr
}

// ToEthereumAddress converts a zero padded native address back to the
// ethereum format. Inputs of any other shape are returned unchanged.
func ToEthereumAddress(addr string) string {
	if IsEthereumAddress(addr) {
		return addr
	}
	if IsShardusAddress(addr) && strings.HasSuffix(addr, shardusPadding) {
		return Prepend0xPrefix(addr[:ethAddressHexLength])
	}
	return addr
}
