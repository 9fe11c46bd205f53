package common

import (
	"crypto/rand"
	"regexp"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

var hexStringRegex = regexp.MustCompile(`^[a-fA-F0-9]*$`)

// Trim 0x or 0X prefix off the string.
func Trim0xPrefix(str string) string {
	s := strings.TrimPrefix(str, "0x")
	return strings.TrimPrefix(s, "0X")
}

func Prepend0xPrefix(str string) string {
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		return str
	}
	return "0x" + str
}

// IsHexString reports whether s is made of hex digits only. An optional 0x
// prefix is not accepted here; callers trim it first when it is allowed.
func IsHexString(s string) bool {
	return hexStringRegex.MatchString(s)
}

// ShortenAddress keeps the first 6 and the last 4 characters, e.g.
// 0xabcd...1234. Short inputs are returned unchanged.
func ShortenAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// RandBytes32 generates [32]byte with random values
func RandBytes32() [32]byte {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return [32]byte{}
	}
	return b
}

func RandEthAddress() ethcommon.Address {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return ethcommon.Address{}
	}
	return ethcommon.BytesToAddress(b)
}
