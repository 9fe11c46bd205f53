package cmd

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Liberdus/token-bridge-go/bridgeout"
	"github.com/Liberdus/token-bridge-go/coordinator"
	"github.com/Liberdus/token-bridge-go/etherman"
	"github.com/Liberdus/token-bridge-go/wallet"
)

const (
	ENV_CONFIG_FILE_PATH = "BRIDGE_CONFIG"

	// Contract the web client talks to on every supported network.
	DEFAULT_CONTRACT_ADDRESS = "0x4EA46e5dD276eeB5D423465b4aFf646AC3f7bd74"
	DEFAULT_HTTP_IP          = "0.0.0.0"
	DEFAULT_HTTP_PORT        = "8080"
	DEFAULT_DB_FILE_PATH     = "bridge.sqlite"

	// background loops of the server
	frequencyToSyncJournal = 10 * time.Second
	frequencyToWatchChain  = wallet.DefaultWatchInterval
)

// Keep the configuration's fields as "text" as possible.
// Its easier to load it from env vars or a config file.
type BridgeConfig struct {
	// eth side
	EthRpcUrl       string // json rpc url
	ContractAddress string // bridge token contract

	// wallet side, either a raw key or a keystore account. Both empty = read only.
	EthPrivateKey    string
	KeystoreDir      string
	KeystoreAddress  string
	KeystorePassword string

	// coordinator side
	CoordinatorUrl string

	// state side
	DbFilePath string // db file path, ":memory:" keeps the journal in memory

	// Http side
	HttpIp   string // eg. 0.0.0.0
	HttpPort string // eg. 8080

	// journal sync, first block scanned for past bridge outs. -1 = chain head.
	SyncStartBlock int64

	// bridge in
	BridgeInAccount string

	LogLevel string // debug, info or production
}

// InitializeViper reads filePath into viper. Env variables still take
// precedence over the file.
func InitializeViper(filePath string) error {
	viper.AutomaticEnv()
	if filePath == "" {
		return nil
	}
	if !FileExists(filePath) {
		return errors.Errorf("configuration file not found: %s", filePath)
	}
	viper.SetConfigFile(filePath)
	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, "error reading configuration file")
	}
	return nil
}

// PrepareBridgeConfig reads configuration variables and returns a BridgeConfig.
func PrepareBridgeConfig() *BridgeConfig {
	viper.SetDefault("CONTRACT_ADDRESS", DEFAULT_CONTRACT_ADDRESS)
	viper.SetDefault("HTTP_IP", DEFAULT_HTTP_IP)
	viper.SetDefault("HTTP_PORT", DEFAULT_HTTP_PORT)
	viper.SetDefault("DB_FILE_PATH", DEFAULT_DB_FILE_PATH)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SYNC_START_BLOCK", -1)

	return &BridgeConfig{
		EthRpcUrl:        viper.GetString("ETH_RPC_URL"),
		ContractAddress:  viper.GetString("CONTRACT_ADDRESS"),
		EthPrivateKey:    viper.GetString("ETH_PRIVATE_KEY"),
		KeystoreDir:      viper.GetString("KEYSTORE_DIR"),
		KeystoreAddress:  viper.GetString("KEYSTORE_ADDRESS"),
		KeystorePassword: viper.GetString("KEYSTORE_PASSWORD"),
		CoordinatorUrl:   viper.GetString("COORDINATOR_URL"),
		DbFilePath:       viper.GetString("DB_FILE_PATH"),
		HttpIp:           viper.GetString("HTTP_IP"),
		HttpPort:         viper.GetString("HTTP_PORT"),
		SyncStartBlock:   viper.GetInt64("SYNC_START_BLOCK"),
		BridgeInAccount:  viper.GetString("BRIDGE_IN_ACCOUNT"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
	}
}

// Validate reports the first missing field needed to talk to the chain and
// the coordinator.
func (c *BridgeConfig) Validate() error {
	if c.EthRpcUrl == "" {
		return errors.New("ETH_RPC_URL is not set")
	}
	if c.CoordinatorUrl == "" {
		return errors.New("COORDINATOR_URL is not set")
	}
	if c.ContractAddress == "" {
		return errors.New("CONTRACT_ADDRESS is not set")
	}
	if c.KeystoreDir != "" && c.KeystoreAddress == "" {
		return errors.New("KEYSTORE_ADDRESS is required with KEYSTORE_DIR")
	}
	return nil
}

func (c *BridgeConfig) EthermanConfig() *etherman.Config {
	return &etherman.Config{
		URL:             c.EthRpcUrl,
		ContractAddress: c.ContractAddress,
	}
}

func (c *BridgeConfig) WalletConfig() *wallet.Config {
	return &wallet.Config{
		PrivateKey:       c.EthPrivateKey,
		KeystoreDir:      c.KeystoreDir,
		KeystoreAddress:  c.KeystoreAddress,
		KeystorePassword: c.KeystorePassword,
	}
}

func (c *BridgeConfig) CoordinatorConfig() *coordinator.Config {
	return &coordinator.Config{URL: c.CoordinatorUrl}
}

func (c *BridgeConfig) BridgeOutConfig() *bridgeout.Config {
	cfg := bridgeout.DefaultConfig()
	cfg.SyncStartBlock = c.SyncStartBlock
	return cfg
}
