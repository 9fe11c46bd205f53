package common

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	TokenDecimals = 18
	TokenSymbol   = "LIB"

	// digits shown in transaction tables
	displayDecimals = 6
)

var (
	ErrInvalidAmount = errors.New("invalid amount")

	amountInputRegex = regexp.MustCompile(`^\d*\.?\d*$`)
)

// IsAmountInput reports whether s is acceptable as (possibly partial)
// amount input: digits with at most one decimal point. The empty string is
// accepted so that a cleared field stays valid.
func IsAmountInput(s string) bool {
	return amountInputRegex.MatchString(s)
}

// ParseUnits converts a decimal string into its smallest unit
// representation, i.e. s * 10^decimals.
func ParseUnits(s string, decimals int32) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return nil, errors.Wrapf(ErrInvalidAmount, "empty amount %q", s)
	}
	if strings.HasPrefix(s, "-") {
		return nil, errors.Wrapf(ErrInvalidAmount, "negative amount %q", s)
	}
	// plain digits only, decimal would also take exponents and a sign
	if !amountInputRegex.MatchString(s) {
		return nil, errors.Wrapf(ErrInvalidAmount, "malformed amount %q", s)
	}

	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	if len(frac) > int(decimals) {
		return nil, errors.Wrapf(ErrInvalidAmount, "too many decimals in %q (max %d)", s, decimals)
	}
	if intPart == "" {
		intPart = "0"
	}
	normalized := intPart
	if frac != "" {
		normalized += "." + frac
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q: %v", s, err)
	}
	if d.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "negative amount %q", s)
	}

	return d.Shift(decimals).BigInt(), nil
}

// FormatUnits is the inverse of ParseUnits. Trailing zeros are dropped.
func FormatUnits(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}

// FormatTokenValue renders a decimal integer string given in the smallest
// unit as a token amount with six fraction digits, e.g. "1.500000 LIB".
// Values that do not parse are returned as they are.
func FormatTokenValue(value string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return d.Shift(-TokenDecimals).StringFixed(displayDecimals) + " " + TokenSymbol
}
