package registry_test

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenforge/permit721/internal/registry"
)

// acceptingReceiver records the callback arguments and accepts the token.
type acceptingReceiver struct {
	operator common.Address
	from     common.Address
	tokenID  uint64
	data     []byte
	calls    int
}

func (a *acceptingReceiver) OnTokenReceived(operator, from common.Address, tokenID uint64, data []byte) ([4]byte, error) {
	a.operator, a.from, a.tokenID, a.data = operator, from, tokenID, data
	a.calls++
	return registry.AcceptanceSelector, nil
}

// rejectingReceiver answers with the wrong selector.
type rejectingReceiver struct{}

func (rejectingReceiver) OnTokenReceived(common.Address, common.Address, uint64, []byte) ([4]byte, error) {
	return [4]byte{0xde, 0xad, 0xbe, 0xef}, nil
}

// erroringReceiver fails outright.
type erroringReceiver struct{}

func (erroringReceiver) OnTokenReceived(common.Address, common.Address, uint64, []byte) ([4]byte, error) {
	return [4]byte{}, errors.New("receiver exploded")
}

func TestTransferByOwner(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	r.DrainEvents()

	require.NoError(t, r.TransferFrom(alice, alice, bob, id))

	owner, err := r.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
	assert.Equal(t, uint64(0), r.BalanceOf(alice))
	assert.Equal(t, uint64(1), r.BalanceOf(bob))

	nonce, _ := r.Nonces(id)
	assert.Equal(t, uint64(1), nonce, "transfer advances the nonce by one")

	events := r.DrainEvents()
	require.Len(t, events, 1)
	ev := events[0].(registry.TransferEvent)
	assert.Equal(t, alice, ev.Sender)
	assert.Equal(t, bob, ev.Receiver)
	assert.Equal(t, id, ev.TokenID)

	checkConsistency(t, r, alice, bob, carol)
}

func TestTransferByApprovedSpender(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	require.NoError(t, r.Approve(alice, bob, id))

	require.NoError(t, r.TransferFrom(bob, alice, carol, id))

	owner, _ := r.OwnerOf(id)
	assert.Equal(t, carol, owner)

	// The single-token approval is consumed by the transfer.
	approved, err := r.GetApproved(id)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, approved)
}

func TestTransferByOperator(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	require.NoError(t, r.SetApprovalForAll(alice, bob, true))

	require.NoError(t, r.TransferFrom(bob, alice, carol, id))

	owner, _ := r.OwnerOf(id)
	assert.Equal(t, carol, owner)
}

func TestTransferToSelf(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")

	require.NoError(t, r.TransferFrom(alice, alice, alice, id))

	assert.Equal(t, uint64(1), r.BalanceOf(alice))
	nonce, _ := r.Nonces(id)
	assert.Equal(t, uint64(1), nonce, "self-transfer still advances the nonce")
	checkConsistency(t, r, alice, bob)
}

func TestTransferErrors(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")

	assert.ErrorIs(t, r.TransferFrom(alice, alice, bob, 99), registry.ErrNotFound)
	assert.ErrorIs(t, r.TransferFrom(alice, bob, carol, id), registry.ErrOwnerMismatch)
	assert.ErrorIs(t, r.TransferFrom(alice, alice, common.Address{}, id), registry.ErrInvalidRecipient)
	assert.ErrorIs(t, r.TransferFrom(bob, alice, carol, id), registry.ErrUnauthorized)

	// Nothing moved, nothing advanced.
	owner, _ := r.OwnerOf(id)
	assert.Equal(t, alice, owner)
	nonce, _ := r.Nonces(id)
	assert.Equal(t, uint64(0), nonce)
}

func TestApprovalDoesNotSurviveTransfer(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	require.NoError(t, r.Approve(alice, bob, id))

	require.NoError(t, r.TransferFrom(alice, alice, carol, id))

	// bob's grant died with the transfer; he cannot move the token on.
	err := r.TransferFrom(bob, carol, bob, id)
	assert.ErrorIs(t, err, registry.ErrUnauthorized)
}

// ---------------------------------------------------------------------------
// Safe transfers
// ---------------------------------------------------------------------------

func TestSafeTransferToPlainAccount(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")

	require.NoError(t, r.SafeTransferFrom(alice, alice, bob, id, nil))

	owner, _ := r.OwnerOf(id)
	assert.Equal(t, bob, owner)
}

func TestSafeTransferInvokesReceiver(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	require.NoError(t, r.Approve(alice, bob, id))

	rcv := &acceptingReceiver{}
	r.RegisterReceiver(carol, rcv)

	require.NoError(t, r.SafeTransferFrom(bob, alice, carol, id, []byte{0x01, 0x02}))

	assert.Equal(t, 1, rcv.calls)
	assert.Equal(t, bob, rcv.operator, "operator is the caller, not the owner")
	assert.Equal(t, alice, rcv.from)
	assert.Equal(t, id, rcv.tokenID)
	assert.Equal(t, []byte{0x01, 0x02}, rcv.data)
}

func TestSafeTransferRejectionRollsBack(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	require.NoError(t, r.Approve(alice, bob, id))
	r.DrainEvents()

	r.RegisterReceiver(carol, rejectingReceiver{})

	err := r.SafeTransferFrom(alice, alice, carol, id, nil)
	assert.ErrorIs(t, err, registry.ErrUnsafeRecipient)

	// The already-applied transfer is fully unwound.
	owner, _ := r.OwnerOf(id)
	assert.Equal(t, alice, owner)
	assert.Equal(t, uint64(1), r.BalanceOf(alice))
	assert.Equal(t, uint64(0), r.BalanceOf(carol))

	nonce, _ := r.Nonces(id)
	assert.Equal(t, uint64(0), nonce)

	approved, _ := r.GetApproved(id)
	assert.Equal(t, bob, approved, "cleared approval is restored on rollback")

	assert.Empty(t, r.DrainEvents(), "no events survive a rolled-back transfer")
	checkConsistency(t, r, alice, bob, carol)
}

func TestSafeTransferReceiverErrorRollsBack(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	r.RegisterReceiver(carol, erroringReceiver{})

	err := r.SafeTransferFrom(alice, alice, carol, id, nil)
	assert.ErrorIs(t, err, registry.ErrUnsafeRecipient)

	owner, _ := r.OwnerOf(id)
	assert.Equal(t, alice, owner)
}

// reentrantReceiver forwards every token it receives straight to sink.
type reentrantReceiver struct {
	reg  *registry.Registry
	self common.Address
	sink common.Address
	err  error
}

func (f *reentrantReceiver) OnTokenReceived(_, _ common.Address, tokenID uint64, _ []byte) ([4]byte, error) {
	// Post-transfer state: the receiver owns the token and may move it.
	f.err = f.reg.TransferFrom(f.self, f.self, f.sink, tokenID)
	return registry.AcceptanceSelector, nil
}

func TestSafeTransferReentrancyObservesNewState(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	r.DrainEvents()

	fwd := &reentrantReceiver{reg: r, self: bob, sink: carol}
	r.RegisterReceiver(bob, fwd)

	require.NoError(t, r.SafeTransferFrom(alice, alice, bob, id, nil))
	require.NoError(t, fwd.err, "receiver owns the token inside the callback")

	owner, _ := r.OwnerOf(id)
	assert.Equal(t, carol, owner)

	nonce, _ := r.Nonces(id)
	assert.Equal(t, uint64(2), nonce, "two hops, two nonce bumps")

	events := r.DrainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, bob, events[0].(registry.TransferEvent).Receiver)
	assert.Equal(t, carol, events[1].(registry.TransferEvent).Receiver)

	checkConsistency(t, r, alice, bob, carol)
}

// rejectAfterReenter re-enters and then rejects, so its own effects must
// vanish along with the outer transfer.
type rejectAfterReenter struct {
	reg  *registry.Registry
	self common.Address
	sink common.Address
}

func (f *rejectAfterReenter) OnTokenReceived(_, _ common.Address, tokenID uint64, _ []byte) ([4]byte, error) {
	_ = f.reg.TransferFrom(f.self, f.self, f.sink, tokenID)
	return [4]byte{}, errors.New("changed my mind")
}

func TestSafeTransferRollbackDiscardsReentrantEffects(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.Mint(minter, alice, "1.json")
	r.DrainEvents()

	r.RegisterReceiver(bob, &rejectAfterReenter{reg: r, self: bob, sink: carol})

	err := r.SafeTransferFrom(alice, alice, bob, id, nil)
	assert.ErrorIs(t, err, registry.ErrUnsafeRecipient)

	// Both the outer transfer and the nested one are gone.
	owner, _ := r.OwnerOf(id)
	assert.Equal(t, alice, owner)
	assert.Equal(t, uint64(0), r.BalanceOf(carol))
	nonce, _ := r.Nonces(id)
	assert.Equal(t, uint64(0), nonce)
	assert.Empty(t, r.DrainEvents())

	checkConsistency(t, r, alice, bob, carol)
}
