package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Liberdus/token-bridge-go/etherman"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	mu  sync.Mutex
	id  *big.Int
	err error
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Set(f.id), nil
}

func (f *fakeChain) set(id int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.id = big.NewInt(id)
	f.err = err
}

func TestStringToPrivateKey(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	raw := hex.EncodeToString(crypto.FromECDSA(sk))

	for _, s := range []string{raw, "0x" + raw} {
		got, err := StringToPrivateKey(s)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(sk.PublicKey), crypto.PubkeyToAddress(got.PublicKey))
	}

	_, err = StringToPrivateKey("0x1234")
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestLoadKeyFromKeystore(t *testing.T) {
	dir := t.TempDir()
	acc, err := keystore.StoreKey(dir, "secret", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	got, err := LoadKey(&Config{KeystoreDir: dir, KeystoreAddress: acc.Address.Hex(), KeystorePassword: "secret"})
	require.NoError(t, err)
	assert.Equal(t, acc.Address, crypto.PubkeyToAddress(got.PublicKey))

	_, err = LoadKey(&Config{KeystoreDir: dir, KeystoreAddress: acc.Address.Hex(), KeystorePassword: "wrong"})
	assert.Error(t, err)

	other := acc.Address
	other[0] ^= 0xff
	_, err = LoadKey(&Config{KeystoreDir: dir, KeystoreAddress: other.Hex()})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = LoadKey(&Config{})
	assert.ErrorIs(t, err, ErrNoCredentials)
	_, err = LoadKey(nil)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestLoadKeyFromKeystoreSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	acc, err := keystore.StoreKey(dir, "secret", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	_, err = keystore.StoreKey(dir, "other", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not json"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"address": 12}`), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "backup"), 0o700))

	got, err := LoadKey(&Config{KeystoreDir: dir, KeystoreAddress: acc.Address.Hex(), KeystorePassword: "secret"})
	require.NoError(t, err)
	assert.Equal(t, acc.Address, crypto.PubkeyToAddress(got.PublicKey))

	_, err = LoadKey(&Config{KeystoreDir: filepath.Join(dir, "missing"), KeystoreAddress: acc.Address.Hex(), KeystorePassword: "secret"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}

func TestConnect(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	chain := &fakeChain{id: big.NewInt(137)}

	w, err := Connect(context.Background(), &Config{PrivateKey: hex.EncodeToString(crypto.FromECDSA(sk))}, chain)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(sk.PublicKey), w.Address())
	assert.Equal(t, int64(137), w.ChainID().Int64())

	// callers get a copy
	w.ChainID().SetInt64(1)
	assert.Equal(t, int64(137), w.ChainID().Int64())

	auth, err := w.Auth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, w.Address(), auth.From)
	assert.NotNil(t, auth.Context)

	chain.set(0, errors.New("provider gone"))
	_, err = ConnectWithKey(context.Background(), sk, chain)
	assert.Error(t, err)

	var nilWallet *Wallet
	_, err = nilWallet.Auth(context.Background())
	assert.ErrorIs(t, err, ErrWalletNotConnected)
}

func TestConnectSimulated(t *testing.T) {
	sim := etherman.NewSimulatedChain()
	defer sim.Close()

	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	w, err := ConnectWithKey(context.Background(), sk, sim.Backend.Client())
	require.NoError(t, err)
	assert.Equal(t, etherman.SimulatedChainID.Int64(), w.ChainID().Int64())
	assert.False(t, IsSupportedChain(w.ChainID()))
}

func TestChains(t *testing.T) {
	assert.True(t, IsSupportedChain(big.NewInt(11155111)))
	assert.True(t, IsSupportedChain(big.NewInt(31337)))
	assert.False(t, IsSupportedChain(big.NewInt(5)))
	assert.False(t, IsSupportedChain(nil))
	assert.Equal(t, "Polygon Amoy", ChainName(big.NewInt(80002)))
	assert.Equal(t, "Unknown (5)", ChainName(big.NewInt(5)))
}

func TestWatcherPoll(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	chain := &fakeChain{id: big.NewInt(1)}
	w, err := ConnectWithKey(context.Background(), sk, chain)
	require.NoError(t, err)

	wt := NewWatcher(w, chain, time.Hour)
	ev, err := wt.Poll(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ev)

	chain.set(137, nil)
	ev, err = wt.Poll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, int64(1), ev.Old.Int64())
	assert.Equal(t, int64(137), ev.New.Int64())
	assert.Equal(t, int64(137), w.ChainID().Int64())

	got := <-wt.Events()
	assert.Equal(t, int64(137), got.New.Int64())

	auth, err := w.Auth(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, auth.Signer)

	chain.set(137, errors.New("timeout"))
	_, err = wt.Poll(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int64(137), w.ChainID().Int64())
}

func TestWatcherRun(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	chain := &fakeChain{id: big.NewInt(1)}
	w, err := ConnectWithKey(context.Background(), sk, chain)
	require.NoError(t, err)

	wt := NewWatcher(w, chain, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- wt.Run(ctx) }()

	chain.set(11155111, nil)
	select {
	case ev := <-wt.Events():
		assert.Equal(t, int64(11155111), ev.New.Int64())
	case <-time.After(time.Second):
		t.Fatal("no network change observed")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
