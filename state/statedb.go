package state

import (
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/Liberdus/token-bridge-go/database"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	// block from which the journal was last reconciled with chain logs
	KeyJournalCursor = "journal_cursor"

	DefaultListLimit = 50
)

var ErrBridgeOutNotFound = errors.New("bridge-out not found in statedb")

type StateDB struct {
	stmtCache *database.StmtCache
}

func NewStateDB(db *sql.DB) (*StateDB, error) {
	// 1. Create the tables.
	if _, err := db.Exec(bridgeOutTable + bridgeOutSenderIndex + kvTable); err != nil {
		return nil, err
	}

	// 2. A stmt cache + db.
	return &StateDB{
		stmtCache: database.NewStmtCache(db),
	}, nil
}

func (st *StateDB) Close() {
	st.stmtCache.Clear()
}

func (st *StateDB) GetKeyedValue(key string) (*big.Int, bool, error) {
	query := `SELECT value FROM kv WHERE key = ?`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return nil, false, err
	}

	var value string
	if err := stmt.QueryRow(key).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}

	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, false, fmt.Errorf("stored value for key=%s is not a decimal integer: %s", key, value)
	}
	return v, true, nil
}

func (st *StateDB) SetKeyedValue(key string, value *big.Int) error {
	query := `INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return err
	}

	_, err = stmt.Exec(key, value.String())
	return err
}

func (st *StateDB) InsertBridgeOut(b *BridgeOut) error {
	query := `INSERT INTO bridge_out (` + bridgeOutColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return err
	}

	s := &sqlBridgeOut{}
	s, err = s.encode(b)
	if err != nil {
		return err
	}

	_, err = stmt.Exec(s.TxHash, s.Sender, s.Recipient, s.Amount, s.ChainID, s.BlockNumber, s.Status, s.CreatedAt)
	return err
}

func (st *StateDB) HasBridgeOut(txHash ethcommon.Hash) (bool, error) {
	_, ok, err := st.GetBridgeOut(txHash)
	return ok, err
}

func (st *StateDB) GetBridgeOut(txHash ethcommon.Hash) (*BridgeOut, bool, error) {
	query := `SELECT` + bridgeOutColumns + `FROM bridge_out WHERE txHash = ?`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return nil, false, err
	}

	b, err := scanBridgeOut(stmt.QueryRow(txHash.String()[2:]))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}

	return b, true, nil
}

// UpdateBridgeOutStatus records the on-chain outcome of a submitted
// bridge-out.
func (st *StateDB) UpdateBridgeOutStatus(txHash ethcommon.Hash, status BridgeOutStatus, blockNumber uint64) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %s", status)
	}

	_, ok, err := st.GetBridgeOut(txHash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: txHash=%v", ErrBridgeOutNotFound, txHash)
	}

	query := `UPDATE bridge_out SET status = ?, blockNumber = ? WHERE txHash = ?`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return err
	}

	_, err = stmt.Exec(string(status), blockNumber, txHash.String()[2:])
	return err
}

// ListBridgeOuts returns the newest bridge-outs of sender first. A limit
// <= 0 means DefaultListLimit.
func (st *StateDB) ListBridgeOuts(sender ethcommon.Address, limit int) ([]*BridgeOut, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT` + bridgeOutColumns + `FROM bridge_out WHERE sender = ? ORDER BY createdAt DESC, txHash LIMIT ?`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(sender.String()[2:], limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outs := []*BridgeOut{}
	for rows.Next() {
		b, err := scanBridgeOut(rows)
		if err != nil {
			return nil, err
		}
		outs = append(outs, b)
	}

	return outs, rows.Err()
}

// GetPendingBridgeOuts returns the bridge-outs still waiting for a receipt.
func (st *StateDB) GetPendingBridgeOuts() ([]*BridgeOut, error) {
	query := `SELECT` + bridgeOutColumns + `FROM bridge_out WHERE status = ? ORDER BY createdAt`
	stmt, err := st.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(string(BridgeOutStatusSubmitted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outs := []*BridgeOut{}
	for rows.Next() {
		b, err := scanBridgeOut(rows)
		if err != nil {
			return nil, err
		}
		outs = append(outs, b)
	}

	return outs, rows.Err()
}
