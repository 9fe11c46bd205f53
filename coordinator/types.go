package coordinator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type TransactionType int

const (
	BridgeIn TransactionType = iota
	BridgeOut
)

var transactionTypeNames = []string{"BRIDGE_IN", "BRIDGE_OUT"}

func (t TransactionType) Valid() bool {
	return t >= BridgeIn && t <= BridgeOut
}

func (t TransactionType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TransactionType(%d)", int(t))
	}
	return transactionTypeNames[t]
}

// ParseTransactionType accepts the numeric code or the name, case
// insensitively. "in" and "out" are accepted as short forms.
func ParseTransactionType(s string) (TransactionType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "IN":
		return BridgeIn, nil
	case "OUT":
		return BridgeOut, nil
	}
	for i, name := range transactionTypeNames {
		if s == name {
			return TransactionType(i), nil
		}
	}
	code, err := strconv.Atoi(s)
	if err != nil || !TransactionType(code).Valid() {
		return 0, fmt.Errorf("unknown transaction type %q", s)
	}
	return TransactionType(code), nil
}

// UnmarshalJSON keeps codes it does not know, they render as
// TransactionType(n) instead of failing the whole page.
func (t *TransactionType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, func(s string) (int, error) {
		tt, err := ParseTransactionType(s)
		return int(tt), err
	})
	if err != nil {
		return err
	}
	*t = TransactionType(v)
	return nil
}

type TransactionStatus int

const (
	StatusPending TransactionStatus = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)

var transactionStatusNames = []string{"PENDING", "PROCESSING", "COMPLETED", "FAILED"}

func (s TransactionStatus) Valid() bool {
	return s >= StatusPending && s <= StatusFailed
}

func (s TransactionStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("TransactionStatus(%d)", int(s))
	}
	return transactionStatusNames[s]
}

// Final reports whether the coordinator will not move the transaction any
// further.
func (s TransactionStatus) Final() bool {
	return s == StatusCompleted || s == StatusFailed
}

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range transactionStatusNames {
		if s == name {
			return TransactionStatus(i), nil
		}
	}
	code, err := strconv.Atoi(s)
	if err != nil || !TransactionStatus(code).Valid() {
		return 0, fmt.Errorf("unknown transaction status %q", s)
	}
	return TransactionStatus(code), nil
}

// UnmarshalJSON keeps codes it does not know. The coordinator may add
// states, such a record shows as TransactionStatus(n).
func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, func(str string) (int, error) {
		st, err := ParseTransactionStatus(str)
		return int(st), err
	})
	if err != nil {
		return err
	}
	*s = TransactionStatus(v)
	return nil
}

// unknownEnumName is the code of a name that does not parse.
const unknownEnumName = -1

// the coordinator sends enums as numbers, older deployments as names
func unmarshalEnum(data []byte, parse func(string) (int, error)) (int, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		v, err := parse(s)
		if err != nil {
			return unknownEnumName, nil
		}
		return v, nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Transaction is a bridge transaction as tracked by the coordinator. The
// record is owned by the coordinator, clients only ever read snapshots.
type Transaction struct {
	TxID        string            `json:"txId"`
	Sender      string            `json:"sender"`
	Value       string            `json:"value"` // decimal integer, smallest unit
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	Receipt     string            `json:"receipt"` // empty until settled
	TxTimestamp int64             `json:"txTimestamp"`
}

type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	TotalPages   int           `json:"totalPages"`
	Page         int           `json:"page"`
}

// ListParams are the optional filters of GET /transaction. Zero values are
// not sent.
type ListParams struct {
	TxID          string
	SenderAddress string
	Type          *TransactionType
	Status        *TransactionStatus
	Page          int
}

type listResponse struct {
	Ok *struct {
		Transactions []Transaction `json:"transactions"`
		TotalPages   int           `json:"totalPages"`
	} `json:"Ok"`
	Err json.RawMessage `json:"Err"`
}
