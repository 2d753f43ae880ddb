// Package registry implements the ownership ledger for a non-fungible
// token collection: token → owner mapping, balances, single-spender and
// operator approvals, per-token transfer nonces, and the mint, transfer
// and burn transitions that keep them consistent.
//
// Every mutating entry point is transactional: the ledger is snapshotted
// on entry and restored on any failure, so a call commits fully or not
// at all. The registry is not safe for concurrent use — the execution
// model is one call at a time, and receiver callbacks may legally
// re-enter during a safe transfer.
package registry

import (
	"github.com/ethereum/go-ethereum/common"
)

// Config fixes a collection's identity at construction.
type Config struct {
	Name      string
	Symbol    string
	BaseURI   string
	MaxSupply uint64         // 0 = unlimited
	Minter    common.Address // only account allowed to mint
}

// Registry is a single non-fungible token collection.
type Registry struct {
	cfg       Config
	st        *state
	receivers map[common.Address]Receiver
}

// New creates an empty registry for the given collection.
func New(cfg Config) *Registry {
	return &Registry{
		cfg:       cfg,
		st:        newState(),
		receivers: make(map[common.Address]Receiver),
	}
}

// atomically runs fn against the live ledger. On error the ledger is
// restored to its state at entry, discarding any mutations and events
// fn (or code it called into, reentrant calls included) produced.
func (r *Registry) atomically(fn func() error) error {
	snap := r.st.clone()
	if err := fn(); err != nil {
		r.st = snap
		return err
	}
	return nil
}

// Mint creates the next token id for to, owned by to with a fresh nonce.
// Only the configured minter may call it.
func (r *Registry) Mint(caller, to common.Address, uri string) (uint64, error) {
	var id uint64
	err := r.atomically(func() error {
		if caller != r.cfg.Minter {
			return ErrUnauthorized
		}
		if to == (common.Address{}) {
			return ErrInvalidRecipient
		}
		if r.cfg.MaxSupply > 0 && uint64(len(r.st.tokens)) >= r.cfg.MaxSupply {
			return ErrSupplyExhausted
		}
		id = r.st.nextID
		if _, exists := r.st.tokens[id]; exists || r.st.retired[id] {
			return ErrAlreadyExists
		}
		r.st.nextID++
		r.st.tokens[id] = &token{owner: to, uri: uri}
		r.st.balances[to]++
		r.st.indexAdd(to, id, true)
		r.st.emit(TransferEvent{Sender: common.Address{}, Receiver: to, TokenID: id})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Burn destroys a token. The caller must hold owner, approved or
// operator standing. The id is retired permanently: later lookups fail
// with ErrNotFound and the id is never minted again.
func (r *Registry) Burn(caller common.Address, id uint64) error {
	return r.atomically(func() error {
		t, ok := r.st.tokens[id]
		if !ok {
			return ErrNotFound
		}
		if !r.IsAuthorized(caller, id) {
			return ErrUnauthorized
		}
		owner := t.owner
		delete(r.st.tokens, id)
		r.st.retired[id] = true
		r.st.balances[owner]--
		r.st.indexRemove(owner, id, true)
		r.st.emit(TransferEvent{Sender: owner, Receiver: common.Address{}, TokenID: id})
		return nil
	})
}

// OwnerOf returns the current owner. Burned and never-minted ids both
// fail with ErrNotFound.
func (r *Registry) OwnerOf(id uint64) (common.Address, error) {
	t, ok := r.st.tokens[id]
	if !ok {
		return common.Address{}, ErrNotFound
	}
	return t.owner, nil
}

// BalanceOf returns the number of tokens owned by account. Unknown
// accounts hold zero; this never fails.
func (r *Registry) BalanceOf(account common.Address) uint64 {
	return r.st.balances[account]
}

// TotalSupply returns the count of live (minted, not burned) tokens.
func (r *Registry) TotalSupply() uint64 {
	return uint64(len(r.st.tokens))
}

// Nonces returns the token's transfer nonce. The nonce advances only on
// transfer, never on approval or permit, and binds permit signatures to
// the token's current ownership epoch.
func (r *Registry) Nonces(id uint64) (uint64, error) {
	t, ok := r.st.tokens[id]
	if !ok {
		return 0, ErrNotFound
	}
	return t.nonce, nil
}

// Approve sets spender as the single approved address for id (last
// write wins). The caller must be the owner or one of the owner's
// operators.
func (r *Registry) Approve(caller, spender common.Address, id uint64) error {
	return r.atomically(func() error {
		t, ok := r.st.tokens[id]
		if !ok {
			return ErrNotFound
		}
		if caller != t.owner && !r.st.operators[t.owner][caller] {
			return ErrUnauthorized
		}
		t.approved = spender
		r.st.emit(ApprovalEvent{Owner: t.owner, Approved: spender, TokenID: id})
		return nil
	})
}

// GrantApproval applies an approval on behalf of the token's owner. It
// is the commit half of a validated permit: signature checks are the
// caller's job, the registry only records the grant and emits the
// Approval event.
func (r *Registry) GrantApproval(spender common.Address, id uint64) error {
	return r.atomically(func() error {
		t, ok := r.st.tokens[id]
		if !ok {
			return ErrNotFound
		}
		t.approved = spender
		r.st.emit(ApprovalEvent{Owner: t.owner, Approved: spender, TokenID: id})
		return nil
	})
}

// GetApproved returns the approved spender for id, or the zero address
// when none is set.
func (r *Registry) GetApproved(id uint64) (common.Address, error) {
	t, ok := r.st.tokens[id]
	if !ok {
		return common.Address{}, ErrNotFound
	}
	return t.approved, nil
}

// SetApprovalForAll grants or revokes operator standing over all of the
// caller's current and future tokens. Idempotent; self-approval is
// rejected.
func (r *Registry) SetApprovalForAll(caller, operator common.Address, enabled bool) error {
	return r.atomically(func() error {
		if caller == operator {
			return ErrSelfApproval
		}
		ops := r.st.operators[caller]
		if ops == nil {
			ops = make(map[common.Address]bool)
			r.st.operators[caller] = ops
		}
		if enabled {
			ops[operator] = true
		} else {
			delete(ops, operator)
		}
		r.st.emit(ApprovalForAllEvent{Owner: caller, Operator: operator, Enabled: enabled})
		return nil
	})
}

// IsApprovedForAll reports whether operator may manage all of owner's
// tokens.
func (r *Registry) IsApprovedForAll(owner, operator common.Address) bool {
	return r.st.operators[owner][operator]
}

// DrainEvents returns the events committed since the last drain and
// clears the journal. Rolled-back calls contribute nothing.
func (r *Registry) DrainEvents() []Event {
	evs := r.st.journal
	r.st.journal = nil
	return evs
}
