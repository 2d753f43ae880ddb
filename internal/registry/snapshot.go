package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the JSON-serializable form of the ledger, used to persist
// a registry between CLI invocations. Balances and the per-owner
// enumeration index are rebuilt on restore; only authoritative state is
// stored.
type Snapshot struct {
	Tokens  map[uint64]TokenSnapshot `json:"tokens"`
	Order   []uint64                 `json:"order"` // global enumeration order
	Owned   map[string][]uint64      `json:"owned"` // owner hex → ids, enumeration order
	Ops     map[string][]string      `json:"operators"`
	Retired []uint64                 `json:"retired"`
	NextID  uint64                   `json:"next_id"`
}

// TokenSnapshot is one persisted token entry.
type TokenSnapshot struct {
	Owner    string `json:"owner"`
	Approved string `json:"approved,omitempty"`
	Nonce    uint64 `json:"nonce"`
	URI      string `json:"uri,omitempty"`
}

// Snapshot captures the current ledger.
func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{
		Tokens: make(map[uint64]TokenSnapshot, len(r.st.tokens)),
		Order:  append([]uint64(nil), r.st.allTokens...),
		Owned:  make(map[string][]uint64, len(r.st.ownerTokens)),
		Ops:    make(map[string][]string, len(r.st.operators)),
		NextID: r.st.nextID,
	}
	for id, t := range r.st.tokens {
		ts := TokenSnapshot{Owner: t.owner.Hex(), Nonce: t.nonce, URI: t.uri}
		if t.approved != (common.Address{}) {
			ts.Approved = t.approved.Hex()
		}
		s.Tokens[id] = ts
	}
	for owner, ids := range r.st.ownerTokens {
		if len(ids) > 0 {
			s.Owned[owner.Hex()] = append([]uint64(nil), ids...)
		}
	}
	for owner, ops := range r.st.operators {
		for op, on := range ops {
			if on {
				s.Ops[owner.Hex()] = append(s.Ops[owner.Hex()], op.Hex())
			}
		}
	}
	for id := range r.st.retired {
		s.Retired = append(s.Retired, id)
	}
	return s
}

// FromSnapshot rebuilds a registry from a persisted snapshot.
func FromSnapshot(cfg Config, s *Snapshot) (*Registry, error) {
	r := New(cfg)
	st := r.st
	st.nextID = s.NextID
	for _, id := range s.Retired {
		st.retired[id] = true
	}
	for id, ts := range s.Tokens {
		if !common.IsHexAddress(ts.Owner) {
			return nil, fmt.Errorf("token %d: bad owner address %q", id, ts.Owner)
		}
		t := &token{
			owner: common.HexToAddress(ts.Owner),
			nonce: ts.Nonce,
			uri:   ts.URI,
		}
		if ts.Approved != "" {
			t.approved = common.HexToAddress(ts.Approved)
		}
		st.tokens[id] = t
		st.balances[t.owner]++
	}
	for i, id := range s.Order {
		if _, ok := st.tokens[id]; !ok {
			return nil, fmt.Errorf("enumeration order references unknown token %d", id)
		}
		st.allIndex[id] = i
	}
	st.allTokens = append([]uint64(nil), s.Order...)
	for ownerHex, ids := range s.Owned {
		if !common.IsHexAddress(ownerHex) {
			return nil, fmt.Errorf("owned index: bad owner address %q", ownerHex)
		}
		owner := common.HexToAddress(ownerHex)
		for i, id := range ids {
			t, ok := st.tokens[id]
			if !ok {
				return nil, fmt.Errorf("owned index for %s references unknown token %d", ownerHex, id)
			}
			if t.owner != owner {
				return nil, fmt.Errorf("owned index lists token %d under %s but its owner is %s", id, ownerHex, t.owner.Hex())
			}
			st.ownerIndex[id] = i
		}
		st.ownerTokens[owner] = append([]uint64(nil), ids...)
	}
	for ownerHex, ops := range s.Ops {
		owner := common.HexToAddress(ownerHex)
		m := make(map[common.Address]bool, len(ops))
		for _, op := range ops {
			m[common.HexToAddress(op)] = true
		}
		st.operators[owner] = m
	}
	return r, nil
}
