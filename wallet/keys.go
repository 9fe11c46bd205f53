package wallet

import (
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/Liberdus/token-bridge-go/common"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

var (
	ErrNoCredentials     = errors.New("no private key or keystore configured")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrAccountNotFound   = errors.New("account not found in keystore")
)

// StringToPrivateKey parses a hex encoded secp256k1 key, 0x prefix optional.
func StringToPrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	sk, err := crypto.HexToECDSA(common.Trim0xPrefix(hexKey))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	return sk, nil
}

// NewAuth creates the transactor of sk for chainID.
func NewAuth(sk *ecdsa.PrivateKey, chainID *big.Int) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(sk, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transactor")
	}
	return auth, nil
}

// LoadKey returns the signing key described by cfg.
func LoadKey(cfg *Config) (*ecdsa.PrivateKey, error) {
	if cfg.Empty() {
		return nil, ErrNoCredentials
	}
	if cfg.PrivateKey != "" {
		return StringToPrivateKey(cfg.PrivateKey)
	}
	return loadKeystoreKey(cfg.KeystoreDir, cfg.KeystoreAddress, cfg.KeystorePassword)
}

func loadKeystoreKey(dir, address, passphrase string) (*ecdsa.PrivateKey, error) {
	if !common.IsEthereumAddress(address) {
		return nil, errors.Errorf("invalid keystore address %q", address)
	}
	want := ethcommon.HexToAddress(address)

	path, err := findKeyFile(dir, want)
	if err != nil {
		return nil, err
	}

	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read key file")
	}
	key, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt key file")
	}
	if key.Address != want {
		return nil, errors.Errorf("key file %s holds %s, not %s", path, key.Address.Hex(), want.Hex())
	}
	return key.PrivateKey, nil
}

// findKeyFile scans dir once for the key file of addr. keystore.KeyStore
// would do the same but keeps a directory watcher running afterwards.
func findKeyFile(dir string, addr ethcommon.Address) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read keystore dir %s", dir)
	}

	for _, entry := range entries {
		// editors and the keystore itself leave hidden and temp files around
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || strings.HasSuffix(entry.Name(), "~") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var header struct {
			Address string `json:"address"`
		}
		if err := json.Unmarshal(data, &header); err != nil || !ethcommon.IsHexAddress(header.Address) {
			continue
		}
		if ethcommon.HexToAddress(header.Address) == addr {
			return path, nil
		}
	}
	return "", errors.Wrapf(ErrAccountNotFound, "address=%s dir=%s", addr.Hex(), dir)
}
