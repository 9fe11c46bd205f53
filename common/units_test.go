package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAmountInput(t *testing.T) {
	for _, s := range []string{"", "0", "12", "1.", ".5", "1.25", "0001"} {
		assert.True(t, IsAmountInput(s), s)
	}
	for _, s := range []string{"-1", "1.2.3", "1e18", "abc", " 1", "1,5"} {
		assert.False(t, IsAmountInput(s), s)
	}
}

func TestParseUnits(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)

	v, err := ParseUnits("1", TokenDecimals)
	require.NoError(t, err)
	assert.Equal(t, oneEther, v)

	v, err = ParseUnits("1.5", TokenDecimals)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", v.String())

	v, err = ParseUnits(".25", TokenDecimals)
	require.NoError(t, err)
	assert.Equal(t, "250000000000000000", v.String())

	v, err = ParseUnits("2.", TokenDecimals)
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000", v.String())

	v, err = ParseUnits("0.000000000000000001", TokenDecimals)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), v)

	// trailing zeros beyond the precision are harmless
	v, err = ParseUnits("1.0000000000000000000000", TokenDecimals)
	require.NoError(t, err)
	assert.Equal(t, oneEther, v)

	v, err = ParseUnits("0", TokenDecimals)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())
}

func TestParseUnitsInvalid(t *testing.T) {
	for _, s := range []string{"", ".", "-1", "abc", "0.0000000000000000001", "1.2.3", "1e3", "1e-20", "+5", "1E3", " 1 000"} {
		_, err := ParseUnits(s, TokenDecimals)
		assert.ErrorIs(t, err, ErrInvalidAmount, s)
	}
}

func TestFormatUnits(t *testing.T) {
	v, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, "1.5", FormatUnits(v, TokenDecimals))
	assert.Equal(t, "0", FormatUnits(big.NewInt(0), TokenDecimals))
	assert.Equal(t, "0", FormatUnits(nil, TokenDecimals))

	for _, s := range []string{"1", "0.5", "123.456", "0.000000000000000001"} {
		wei, err := ParseUnits(s, TokenDecimals)
		require.NoError(t, err)
		assert.Equal(t, s, FormatUnits(wei, TokenDecimals))
	}
}

func TestFormatTokenValue(t *testing.T) {
	assert.Equal(t, "1.000000 LIB", FormatTokenValue("1000000000000000000"))
	assert.Equal(t, "0.500000 LIB", FormatTokenValue("500000000000000000"))
	assert.Equal(t, "0.000000 LIB", FormatTokenValue("0"))
	assert.Equal(t, "not-a-number", FormatTokenValue("not-a-number"))
}
