package explorer

import (
	"fmt"
	"strings"
)

// SearchMode selects which transaction field the query filters on.
type SearchMode int

const (
	ModeTxID SearchMode = iota
	ModeSender
	ModeType
	ModeStatus
)

var searchModeNames = []string{"txid", "sender", "type", "status"}

func (m SearchMode) String() string {
	if m < ModeTxID || m > ModeStatus {
		return fmt.Sprintf("SearchMode(%d)", int(m))
	}
	return searchModeNames[m]
}

// Placeholder is the input hint shown for the mode.
func (m SearchMode) Placeholder() string {
	switch m {
	case ModeTxID:
		return "Transaction ID (64 hex chars)"
	case ModeSender:
		return "Sender address (0x... or 64 hex chars)"
	case ModeType:
		return "0 = BRIDGE_IN, 1 = BRIDGE_OUT"
	case ModeStatus:
		return "0 = PENDING, 1 = PROCESSING, 2 = COMPLETED, 3 = FAILED"
	default:
		return ""
	}
}

func ParseSearchMode(s string) (SearchMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeTxID, nil
	}
	for i, name := range searchModeNames {
		if s == name {
			return SearchMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown search mode %q, expected one of %s", s, strings.Join(searchModeNames, "|"))
}
