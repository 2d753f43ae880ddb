package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenforge/permit721/internal/registry"
)

func TestSnapshotRoundTrip(t *testing.T) {
	r := newTestRegistry(t)

	id1, _ := r.Mint(minter, alice, "1.json")
	id2, _ := r.Mint(minter, alice, "2.json")
	id3, _ := r.Mint(minter, bob, "3.json")
	require.NoError(t, r.Approve(alice, bob, id1))
	require.NoError(t, r.SetApprovalForAll(alice, carol, true))
	require.NoError(t, r.TransferFrom(bob, bob, carol, id3))
	require.NoError(t, r.Burn(alice, id2))

	cfg := registry.Config{
		Name:      "Test Token",
		Symbol:    "TST",
		BaseURI:   "https://www.test.com/",
		MaxSupply: 100,
		Minter:    minter,
	}
	restored, err := registry.FromSnapshot(cfg, r.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, r.TotalSupply(), restored.TotalSupply())

	owner, err := restored.OwnerOf(id1)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	approved, err := restored.GetApproved(id1)
	require.NoError(t, err)
	assert.Equal(t, bob, approved)

	assert.True(t, restored.IsApprovedForAll(alice, carol))
	assert.False(t, restored.IsApprovedForAll(bob, carol))

	nonce, err := restored.Nonces(id3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)

	uri, err := restored.TokenURI(id1)
	require.NoError(t, err)
	assert.Equal(t, "https://www.test.com/1.json", uri)

	// Enumeration order survives.
	got, err := restored.TokenByIndex(1)
	require.NoError(t, err)
	first, err := r.TokenByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// Retired ids stay retired.
	_, err = restored.OwnerOf(id2)
	assert.ErrorIs(t, err, registry.ErrNotFound)
	next, err := restored.Mint(minter, alice, "4.json")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), next, "id counter survives the round trip")

	checkConsistency(t, restored, alice, bob, carol)
}

func TestFromSnapshotRejectsBadData(t *testing.T) {
	cfg := registry.Config{Name: "T", Symbol: "T", MaxSupply: 10, Minter: minter}

	_, err := registry.FromSnapshot(cfg, &registry.Snapshot{
		Tokens: map[uint64]registry.TokenSnapshot{1: {Owner: "not-an-address"}},
		NextID: 2,
	})
	assert.Error(t, err)

	_, err = registry.FromSnapshot(cfg, &registry.Snapshot{
		Tokens: map[uint64]registry.TokenSnapshot{},
		Order:  []uint64{7},
		NextID: 2,
	})
	assert.Error(t, err)

	// Owned entries referencing unknown tokens.
	_, err = registry.FromSnapshot(cfg, &registry.Snapshot{
		Tokens: map[uint64]registry.TokenSnapshot{1: {Owner: alice.Hex()}},
		Order:  []uint64{1},
		Owned:  map[string][]uint64{alice.Hex(): {1, 7}},
		NextID: 2,
	})
	assert.Error(t, err)

	// Owned entries listed under the wrong owner.
	_, err = registry.FromSnapshot(cfg, &registry.Snapshot{
		Tokens: map[uint64]registry.TokenSnapshot{1: {Owner: alice.Hex()}},
		Order:  []uint64{1},
		Owned:  map[string][]uint64{bob.Hex(): {1}},
		NextID: 2,
	})
	assert.Error(t, err)

	// Owned keyed by a malformed address.
	_, err = registry.FromSnapshot(cfg, &registry.Snapshot{
		Tokens: map[uint64]registry.TokenSnapshot{1: {Owner: alice.Hex()}},
		Order:  []uint64{1},
		Owned:  map[string][]uint64{"not-an-address": {1}},
		NextID: 2,
	})
	assert.Error(t, err)
}

func TestSnapshotIsDetached(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")

	snap := r.Snapshot()
	require.NoError(t, r.TransferFrom(alice, alice, bob, id))

	assert.Equal(t, alice.Hex(), snap.Tokens[id].Owner, "snapshot must not track later mutations")
}
