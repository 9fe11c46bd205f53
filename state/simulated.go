package state

import (
	"database/sql"
	"math/big"
	"time"

	"github.com/Liberdus/token-bridge-go/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/sirupsen/logrus"
)

// getMemoryDB pins the pool to one connection, every new sqlite
// connection to :memory: would otherwise see an empty database.
func getMemoryDB() *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		logger.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	return db
}

func RandBridgeOut(amount int64, status BridgeOutStatus) *BridgeOut {
	return &BridgeOut{
		TxHash:    common.RandBytes32(),
		Sender:    common.RandEthAddress(),
		Recipient: common.RandEthAddress(),
		Amount:    big.NewInt(amount),
		ChainID:   big.NewInt(1337),
		Status:    status,
		CreatedAt: time.UnixMilli(time.Now().UnixMilli()),
	}
}

// NewMemoryStateDB returns a StateDB backed by an in-memory sqlite
// database, used by tests of the packages above state.
func NewMemoryStateDB() (*StateDB, error) {
	return NewStateDB(getMemoryDB())
}
