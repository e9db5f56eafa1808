package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/minedash/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestAddWatchOnlyWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	w, err := mgr.AddWatchOnly("watcher", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	require.NoError(t, err)
	assert.Equal(t, testAddress, w.Address, "address is stored checksummed")
	assert.False(t, w.CanSign())
}

func TestAddWatchOnlyRejectsBadAddress(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, err := mgr.AddWatchOnly("bad", "0x1234")
	assert.ErrorIs(t, err, wallet.ErrInvalidAddress)
}

func TestAddSigningWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	w, err := mgr.AddWithKey("signer", testKey)
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, testAddress, w.Address)
	assert.Equal(t, "minedash.signer", w.KeyRef)

	stored, err := mgr.Keystore().Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, testKey[2:], stored)
}

func TestAddDuplicateWalletErrors(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	_, err := mgr.AddWithKey("dup", testKey)
	require.NoError(t, err)

	_, err = mgr.AddWithKey("dup", testKey)
	assert.ErrorIs(t, err, wallet.ErrWalletExists)

	_, err = mgr.AddWatchOnly("dup", testAddress)
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
}

func TestInvalidPrivateKey(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, err := mgr.AddWithKey("bad", "not-a-valid-key")
	assert.ErrorIs(t, err, wallet.ErrInvalidKey)
}

func TestGenerateWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	w, err := mgr.Generate("fresh")
	require.NoError(t, err)
	assert.True(t, w.CanSign())
	assert.Len(t, w.Address, 42)

	signer, err := wallet.NewSigner(w, mgr.Keystore())
	require.NoError(t, err)
	assert.Equal(t, w.Address, signer.Address().Hex())
}

func TestListWalletsSorted(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	for _, n := range []string{"charlie", "alice", "bob"} {
		_, err := mgr.AddWatchOnly(n, testAddress)
		require.NoError(t, err)
	}

	wallets, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, wallets, 3)
	assert.Equal(t, "alice", wallets[0].Name)
	assert.Equal(t, "charlie", wallets[2].Name)
}

func TestRemoveWalletDeletesKey(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	w, err := mgr.AddWithKey("w1", testKey)
	require.NoError(t, err)

	require.NoError(t, mgr.Remove("w1"))

	_, err = mgr.Get("w1")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)

	_, err = mgr.Keystore().Retrieve(w.KeyRef)
	assert.ErrorIs(t, err, wallet.ErrKeyNotFound)
}

func TestRemoveNonExistentWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	assert.ErrorIs(t, mgr.Remove("ghost"), wallet.ErrWalletNotFound)
}

func TestDefaultWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	_, err := mgr.Default()
	assert.ErrorIs(t, err, wallet.ErrNoWallet)

	_, err = mgr.AddWatchOnly("only", testAddress)
	require.NoError(t, err)
	w, err := mgr.Default()
	require.NoError(t, err)
	assert.Equal(t, "only", w.Name, "single wallet is the default")

	_, err = mgr.AddWatchOnly("second", testAddress)
	require.NoError(t, err)
	_, err = mgr.Default()
	assert.ErrorIs(t, err, wallet.ErrNoWallet)

	require.NoError(t, mgr.SetDefault("second"))
	w, err = mgr.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "second", w.Name)
}

func TestSetDefaultUnknown(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	assert.ErrorIs(t, mgr.SetDefault("ghost"), wallet.ErrWalletNotFound)
}

func TestManagerPersistsThroughJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wallets.json")
	ks := wallet.NewInMemoryKeystore()

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	_, err := mgr.AddWithKey("miner", testKey)
	require.NoError(t, err)
	require.NoError(t, mgr.SetDefault("miner"))

	reopened := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	w, err := reopened.Default()
	require.NoError(t, err)
	assert.Equal(t, testAddress, w.Address)
	assert.True(t, w.IsDefault)
}
