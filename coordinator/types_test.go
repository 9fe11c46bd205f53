package coordinator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	for in, want := range map[string]TransactionType{
		"0": BridgeIn, "1": BridgeOut,
		"bridge_in": BridgeIn, "BRIDGE_OUT": BridgeOut,
		"in": BridgeIn, " Out ": BridgeOut,
	} {
		got, err := ParseTransactionType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"2", "-1", "sideways", ""} {
		_, err := ParseTransactionType(in)
		assert.Error(t, err, in)
	}
}

func TestParseTransactionStatus(t *testing.T) {
	for in, want := range map[string]TransactionStatus{
		"0": StatusPending, "1": StatusProcessing, "2": StatusCompleted, "3": StatusFailed,
		"pending": StatusPending, "FAILED": StatusFailed,
	} {
		got, err := ParseTransactionStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"4", "-1", "done", "1.5"} {
		_, err := ParseTransactionStatus(in)
		assert.Error(t, err, in)
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "BRIDGE_OUT", BridgeOut.String())
	assert.Equal(t, "PROCESSING", StatusProcessing.String())
	assert.Equal(t, "TransactionStatus(9)", TransactionStatus(9).String())
	assert.True(t, StatusFailed.Final())
	assert.False(t, StatusProcessing.Final())
}

func TestTransactionEncodesCodes(t *testing.T) {
	tx := Transaction{TxID: "a", Type: BridgeOut, Status: StatusFailed}
	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(1), raw["type"])
	assert.Equal(t, float64(3), raw["status"])

	var back Transaction
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tx, back)
}
