package bridgeout

import (
	"time"

	"github.com/Liberdus/token-bridge-go/etherman"
)

type Config struct {
	// ReceiptInterval is the delay between two receipt lookups
	ReceiptInterval time.Duration

	// ReceiptMaxTries bounds the receipt lookups of a submission
	ReceiptMaxTries int

	// SyncBatchSize is the number of blocks scanned per log query in SyncJournal
	SyncBatchSize uint64

	// SyncStartBlock is where the first SyncJournal starts scanning when no
	// cursor is stored yet. Negative means the chain head at that time.
	SyncStartBlock int64
}

func DefaultConfig() *Config {
	return &Config{
		ReceiptInterval: etherman.DefaultReceiptInterval,
		ReceiptMaxTries: etherman.DefaultReceiptMaxTries,
		SyncBatchSize:   5000,
		SyncStartBlock:  -1,
	}
}
