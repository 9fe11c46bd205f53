package explorer

import (
	"strings"

	"github.com/Liberdus/token-bridge-go/common"
	"github.com/Liberdus/token-bridge-go/coordinator"
	"github.com/pkg/errors"
)

const txIDHexLength = 64

var ErrInvalidQuery = errors.New("invalid search query")

// ValidateQuery checks q against the rules of the mode. An empty query is
// valid and means no filter.
func ValidateQuery(mode SearchMode, q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}

	switch mode {
	case ModeTxID:
		id := common.Trim0xPrefix(q)
		if len(id) != txIDHexLength || !common.IsHexString(id) {
			return errors.Wrap(ErrInvalidQuery, "transaction id must be 64 hex characters")
		}
	case ModeSender:
		if !common.IsEthereumAddress(q) && !common.IsHexShardusAddress(q) {
			return errors.Wrap(ErrInvalidQuery, "sender must be a 0x address or a 64 character hex address")
		}
	case ModeType:
		if _, err := coordinator.ParseTransactionType(q); err != nil {
			return errors.Wrap(ErrInvalidQuery, "type must be 0 (BRIDGE_IN) or 1 (BRIDGE_OUT)")
		}
	case ModeStatus:
		if _, err := coordinator.ParseTransactionStatus(q); err != nil {
			return errors.Wrap(ErrInvalidQuery, "status must be between 0 and 3")
		}
	default:
		return errors.Wrapf(ErrInvalidQuery, "unknown mode %s", mode)
	}
	return nil
}

// Search is a validated query for one page of results.
type Search struct {
	Mode  SearchMode
	Query string
	Page  int
}

// Params maps the search onto the coordinator query parameters.
func (s Search) Params() (*coordinator.ListParams, error) {
	if err := ValidateQuery(s.Mode, s.Query); err != nil {
		return nil, err
	}

	params := &coordinator.ListParams{Page: s.Page}
	if params.Page < 1 {
		params.Page = 1
	}

	q := strings.TrimSpace(s.Query)
	if q == "" {
		return params, nil
	}

	switch s.Mode {
	case ModeTxID:
		params.TxID = strings.ToLower(common.Trim0xPrefix(q))
	case ModeSender:
		params.SenderAddress = common.ToShardusAddress(q)
	case ModeType:
		t, _ := coordinator.ParseTransactionType(q)
		params.Type = &t
	case ModeStatus:
		st, _ := coordinator.ParseTransactionStatus(q)
		params.Status = &st
	}
	return params, nil
}
