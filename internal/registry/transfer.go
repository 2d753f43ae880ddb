package registry

import "github.com/ethereum/go-ethereum/common"

// Receiver is the acceptance callback for contract-capable recipients.
// A safe transfer to a registered receiver invokes OnTokenReceived after
// the transfer has been applied; returning anything other than
// AcceptanceSelector (or an error) rejects the token and rolls the whole
// call back.
type Receiver interface {
	OnTokenReceived(operator, from common.Address, tokenID uint64, data []byte) ([4]byte, error)
}

// RegisterReceiver marks addr as contract-capable with the given
// acceptance callback. Safe transfers to unregistered addresses behave
// like transfers to externally-owned accounts.
func (r *Registry) RegisterReceiver(addr common.Address, rcv Receiver) {
	r.receivers[addr] = rcv
}

// DeregisterReceiver removes addr's callback.
func (r *Registry) DeregisterReceiver(addr common.Address) {
	delete(r.receivers, addr)
}

// TransferFrom moves id from from to to. The caller must be authorized
// (owner, approved spender, or operator — including a spender granted by
// permit). On success the prior approval is cleared, the nonce advances
// by exactly one, and a single Transfer event is emitted.
func (r *Registry) TransferFrom(caller, from, to common.Address, id uint64) error {
	return r.atomically(func() error {
		return r.transfer(caller, from, to, id)
	})
}

// SafeTransferFrom is TransferFrom plus recipient acceptance: when to is
// a registered receiver, its callback runs after the state change and
// must return AcceptanceSelector. The callback may re-enter the
// registry; it observes the post-transfer state. A rejection rolls back
// everything, reentrant effects included.
func (r *Registry) SafeTransferFrom(caller, from, to common.Address, id uint64, data []byte) error {
	return r.atomically(func() error {
		if err := r.transfer(caller, from, to, id); err != nil {
			return err
		}
		rcv, ok := r.receivers[to]
		if !ok {
			return nil
		}
		sel, err := rcv.OnTokenReceived(caller, from, id, data)
		if err != nil || sel != AcceptanceSelector {
			return ErrUnsafeRecipient
		}
		return nil
	})
}

// transfer is the shared transition. Callers wrap it in atomically.
func (r *Registry) transfer(caller, from, to common.Address, id uint64) error {
	t, ok := r.st.tokens[id]
	if !ok {
		return ErrNotFound
	}
	if t.owner != from {
		return ErrOwnerMismatch
	}
	if to == (common.Address{}) {
		return ErrInvalidRecipient
	}
	if !r.IsAuthorized(caller, id) {
		return ErrUnauthorized
	}

	t.approved = common.Address{}
	r.st.balances[from]--
	r.st.balances[to]++
	r.st.indexRemove(from, id, false)
	t.owner = to
	r.st.indexAdd(to, id, false)

	// Sole mutation point for the nonce: any signed-but-unused permit
	// over the old nonce is unverifiable from here on.
	t.nonce++

	r.st.emit(TransferEvent{Sender: from, Receiver: to, TokenID: id})
	return nil
}
