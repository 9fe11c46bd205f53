package wallet

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

var ErrWalletNotConnected = errors.New("wallet not connected")

type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Wallet is a connected signing account. The chain id follows the network
// the provider reports, see Watcher.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address ethcommon.Address

	mu      sync.RWMutex
	chainID *big.Int
}

// Connect loads the key of cfg and binds it to the network of reader.
func Connect(ctx context.Context, cfg *Config, reader ChainReader) (*Wallet, error) {
	key, err := LoadKey(cfg)
	if err != nil {
		return nil, err
	}
	return ConnectWithKey(ctx, key, reader)
}

func ConnectWithKey(ctx context.Context, key *ecdsa.PrivateKey, reader ChainReader) (*Wallet, error) {
	chainID, err := reader.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain id")
	}

	w := &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}

	fields := logger.Fields{"address": w.address.Hex(), "chainId": chainID.String(), "network": ChainName(chainID)}
	if !IsSupportedChain(chainID) {
		logger.WithFields(fields).Warn("connected to an unsupported network")
	} else {
		logger.WithFields(fields).Info("wallet connected")
	}
	return w, nil
}

func (w *Wallet) Address() ethcommon.Address {
	return w.address
}

func (w *Wallet) ChainID() *big.Int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return new(big.Int).Set(w.chainID)
}

func (w *Wallet) setChainID(chainID *big.Int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chainID = new(big.Int).Set(chainID)
}

// Auth returns a transactor signing for the current chain id.
func (w *Wallet) Auth(ctx context.Context) (*bind.TransactOpts, error) {
	if w == nil {
		return nil, ErrWalletNotConnected
	}
	auth, err := NewAuth(w.key, w.ChainID())
	if err != nil {
		return nil, err
	}
	auth.Context = ctx
	return auth, nil
}
