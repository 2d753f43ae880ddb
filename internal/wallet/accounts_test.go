package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenforge/permit721/internal/wallet"
)

// Well-known Hardhat/Anvil test account #0 — never fund on mainnet.
const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func newTestManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithInMemoryStore(),
		wallet.WithKeystore(wallet.NewInMemoryKeystore()),
	)
}

func TestAddWatchOnly(t *testing.T) {
	m := newTestManager()

	err := m.Add("alice", &wallet.Account{
		Name:    "alice",
		Address: testSignerAddr,
		Type:    wallet.TypeWatchOnly,
	})
	require.NoError(t, err)

	a, err := m.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, a.Address)
	assert.Equal(t, wallet.TypeWatchOnly, a.Type)
	assert.Empty(t, a.KeyRef)
	assert.NotEmpty(t, a.CreatedAt)
}

func TestAddDuplicate(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.Add("alice", &wallet.Account{Name: "alice", Address: testSignerAddr, Type: wallet.TypeWatchOnly}))
	err := m.Add("alice", &wallet.Account{Name: "alice", Address: testSignerAddr, Type: wallet.TypeWatchOnly})
	assert.ErrorIs(t, err, wallet.ErrAccountExists)

	err = m.AddWithKey("alice", testPrivKeyHex)
	assert.ErrorIs(t, err, wallet.ErrAccountExists)
}

func TestAddWithKeyDerivesAddress(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.AddWithKey("signer", testPrivKeyHex))

	a, err := m.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, a.Address)
	assert.Equal(t, wallet.TypeSigning, a.Type)
	assert.NotEmpty(t, a.KeyRef, "signing accounts carry a keystore reference")

	// The key round-trips through the keystore.
	key, err := m.Keystore().Retrieve(a.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, key)
}

func TestAddWithKeyAcceptsHexPrefix(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.AddWithKey("signer", "0x"+testPrivKeyHex))
	a, err := m.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, a.Address)
}

func TestAddWithKeyRejectsGarbage(t *testing.T) {
	m := newTestManager()

	err := m.AddWithKey("signer", "not-a-key")
	assert.ErrorIs(t, err, wallet.ErrInvalidKey)

	_, err = m.Get("signer")
	assert.ErrorIs(t, err, wallet.ErrAccountNotFound)
}

func TestRemoveDeletesStoredKey(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWithKey("signer", testPrivKeyHex))

	a, err := m.Get("signer")
	require.NoError(t, err)
	ref := a.KeyRef

	require.NoError(t, m.Remove("signer"))

	_, err = m.Get("signer")
	assert.ErrorIs(t, err, wallet.ErrAccountNotFound)
	_, err = m.Keystore().Retrieve(ref)
	assert.Error(t, err, "the private key must not outlive the account")
}

func TestRemoveUnknown(t *testing.T) {
	m := newTestManager()
	assert.ErrorIs(t, m.Remove("ghost"), wallet.ErrAccountNotFound)
}

func TestDefaultAccount(t *testing.T) {
	m := newTestManager()

	assert.Nil(t, m.Default())

	require.NoError(t, m.Add("alice", &wallet.Account{Name: "alice", Address: testSignerAddr, Type: wallet.TypeWatchOnly}))

	// A lone account is the implicit default.
	d := m.Default()
	require.NotNil(t, d)
	assert.Equal(t, "alice", d.Name)

	require.NoError(t, m.Add("bob", &wallet.Account{Name: "bob", Address: testSignerAddr, Type: wallet.TypeWatchOnly}))
	assert.Nil(t, m.Default(), "two accounts, none marked: no default")

	require.NoError(t, m.SetDefault("bob"))
	d = m.Default()
	require.NotNil(t, d)
	assert.Equal(t, "bob", d.Name)

	// Switching moves the flag, it does not duplicate it.
	require.NoError(t, m.SetDefault("alice"))
	defaults := 0
	for _, a := range m.List() {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	assert.ErrorIs(t, m.SetDefault("ghost"), wallet.ErrAccountNotFound)
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	ks := wallet.NewInMemoryKeystore()

	m := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	require.NoError(t, m.Add("alice", &wallet.Account{Name: "alice", Address: testSignerAddr, Type: wallet.TypeWatchOnly}))
	require.NoError(t, m.SetDefault("alice"))

	// A fresh manager over the same file sees the same accounts.
	m2 := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	a, err := m2.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, a.Address)
	assert.True(t, a.IsDefault)
}

func TestJSONStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	accounts, err := wallet.NewJSONStore(path).Load()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
