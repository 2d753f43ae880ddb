package wallet

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known Hardhat/Anvil test account #0 — never fund on mainnet.
const (
	signKeyHex  = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	signKeyAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func signingAccount(t *testing.T, ks KeystoreBackend) *Account {
	t.Helper()
	ref, err := ks.Store("signer", signKeyHex)
	require.NoError(t, err)
	return &Account{Name: "signer", Address: signKeyAddr, Type: TypeSigning, KeyRef: ref}
}

func TestSignDigestRoundTrip(t *testing.T) {
	ks := NewInMemoryKeystore()
	a := signingAccount(t, ks)
	digest := crypto.Keccak256([]byte("some digest"))

	sig, err := SignDigest(a, ks, digest)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64], "V must be Ethereum-style")

	recovered, err := RecoverDigest(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(signKeyAddr), recovered)
}

func TestSignDigestWatchOnly(t *testing.T) {
	ks := NewInMemoryKeystore()
	a := &Account{Name: "watcher", Address: signKeyAddr, Type: TypeWatchOnly}

	_, err := SignDigest(a, ks, make([]byte, 32))
	assert.Error(t, err)
}

func TestSignDigestLengthChecks(t *testing.T) {
	ks := NewInMemoryKeystore()
	a := signingAccount(t, ks)

	_, err := SignDigest(a, ks, []byte("short"))
	assert.Error(t, err)

	_, err = RecoverDigest(make([]byte, 32), make([]byte, 10))
	assert.Error(t, err)
}

func TestSignDigestMissingKey(t *testing.T) {
	ks := NewInMemoryKeystore()
	a := &Account{Name: "signer", Address: signKeyAddr, Type: TypeSigning, KeyRef: "gone"}

	_, err := SignDigest(a, ks, make([]byte, 32))
	assert.Error(t, err)
}

func TestRecoverDigestAcceptsRawV(t *testing.T) {
	ks := NewInMemoryKeystore()
	a := signingAccount(t, ks)
	digest := crypto.Keccak256([]byte("raw v"))

	sig, err := SignDigest(a, ks, digest)
	require.NoError(t, err)
	sig[64] -= 27 // back to the raw recovery id

	recovered, err := RecoverDigest(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(signKeyAddr), recovered)
}
