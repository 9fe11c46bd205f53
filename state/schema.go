package state

import "strings"

var (
	strZeroBytes32 = strings.Repeat("0", 64)
	strZeroBytes20 = strings.Repeat("0", 40)

	// bridge-out transactions submitted from this tool. Amount is a decimal
	// string since uint256 values do not fit into sqlite integers.
	bridgeOutTable = `CREATE TABLE IF NOT EXISTS bridge_out (
		txHash CHAR(64) PRIMARY KEY NOT NULL,
		sender CHAR(40) NOT NULL,
		recipient CHAR(40) NOT NULL,
		amount VARCHAR(78) NOT NULL,
		chainId BIGINT UNSIGNED NOT NULL,
		blockNumber BIGINT UNSIGNED NOT NULL DEFAULT 0,
		status VARCHAR(10) NOT NULL,
		createdAt BIGINT NOT NULL,
		CONSTRAINT chk_status CHECK (status IN ('submitted', 'mined', 'reverted')),
		CONSTRAINT chk_amount CHECK (amount != '' AND amount != '0'),
		CONSTRAINT chk_txHash CHECK (txHash != '` + strZeroBytes32 + `'),
		CONSTRAINT chk_sender CHECK (sender != '` + strZeroBytes20 + `')
	);`

	bridgeOutSenderIndex = `CREATE INDEX IF NOT EXISTS idx_bridge_out_sender ON bridge_out (sender, createdAt);`

	// key-value pairs, keys are short names and values are decimal strings
	kvTable = `CREATE TABLE IF NOT EXISTS kv (
		key VARCHAR(64) PRIMARY KEY NOT NULL,
		value VARCHAR(78) NOT NULL
	);`

	bridgeOutColumns = " txHash, sender, recipient, amount, chainId, blockNumber, status, createdAt "
)
