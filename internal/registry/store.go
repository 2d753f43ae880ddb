package registry

import "github.com/ethereum/go-ethereum/common"

// token is the per-id ledger entry. A token exists while it has an entry
// here; burned ids move to the retired set and never come back.
type token struct {
	owner    common.Address
	approved common.Address // zero = no approved spender
	nonce    uint64
	uri      string
}

// state is the whole mutable ledger. Mutating entry points clone it on
// entry and restore the clone on failure, so a call either commits fully
// or leaves no trace (events included).
type state struct {
	tokens    map[uint64]*token
	balances  map[common.Address]uint64
	operators map[common.Address]map[common.Address]bool
	retired   map[uint64]bool
	nextID    uint64

	// Enumeration indexes. allTokens/ownerTokens keep insertion order
	// with swap-remove; the *Index maps hold each id's position.
	allTokens   []uint64
	allIndex    map[uint64]int
	ownerTokens map[common.Address][]uint64
	ownerIndex  map[uint64]int

	// journal collects events emitted during the current call tree.
	journal []Event
}

func newState() *state {
	return &state{
		tokens:      make(map[uint64]*token),
		balances:    make(map[common.Address]uint64),
		operators:   make(map[common.Address]map[common.Address]bool),
		retired:     make(map[uint64]bool),
		nextID:      1,
		allIndex:    make(map[uint64]int),
		ownerTokens: make(map[common.Address][]uint64),
		ownerIndex:  make(map[uint64]int),
	}
}

// clone deep-copies the ledger, journal included.
func (s *state) clone() *state {
	c := &state{
		tokens:      make(map[uint64]*token, len(s.tokens)),
		balances:    make(map[common.Address]uint64, len(s.balances)),
		operators:   make(map[common.Address]map[common.Address]bool, len(s.operators)),
		retired:     make(map[uint64]bool, len(s.retired)),
		nextID:      s.nextID,
		allTokens:   append([]uint64(nil), s.allTokens...),
		allIndex:    make(map[uint64]int, len(s.allIndex)),
		ownerTokens: make(map[common.Address][]uint64, len(s.ownerTokens)),
		ownerIndex:  make(map[uint64]int, len(s.ownerIndex)),
		journal:     append([]Event(nil), s.journal...),
	}
	for id, t := range s.tokens {
		cp := *t
		c.tokens[id] = &cp
	}
	for a, b := range s.balances {
		c.balances[a] = b
	}
	for owner, ops := range s.operators {
		m := make(map[common.Address]bool, len(ops))
		for op, v := range ops {
			m[op] = v
		}
		c.operators[owner] = m
	}
	for id := range s.retired {
		c.retired[id] = true
	}
	for id, i := range s.allIndex {
		c.allIndex[id] = i
	}
	for owner, ids := range s.ownerTokens {
		c.ownerTokens[owner] = append([]uint64(nil), ids...)
	}
	for id, i := range s.ownerIndex {
		c.ownerIndex[id] = i
	}
	return c
}

// indexAdd appends id to the owner and global enumeration indexes.
// Global index entries survive transfers; owner entries do not.
func (s *state) indexAdd(owner common.Address, id uint64, global bool) {
	if global {
		s.allIndex[id] = len(s.allTokens)
		s.allTokens = append(s.allTokens, id)
	}
	s.ownerIndex[id] = len(s.ownerTokens[owner])
	s.ownerTokens[owner] = append(s.ownerTokens[owner], id)
}

// indexRemove swap-removes id from the owner index and, when global is
// set, from the global index too.
func (s *state) indexRemove(owner common.Address, id uint64, global bool) {
	ids := s.ownerTokens[owner]
	pos := s.ownerIndex[id]
	last := len(ids) - 1
	if pos != last {
		moved := ids[last]
		ids[pos] = moved
		s.ownerIndex[moved] = pos
	}
	s.ownerTokens[owner] = ids[:last]
	delete(s.ownerIndex, id)

	if !global {
		return
	}
	pos = s.allIndex[id]
	last = len(s.allTokens) - 1
	if pos != last {
		moved := s.allTokens[last]
		s.allTokens[pos] = moved
		s.allIndex[moved] = pos
	}
	s.allTokens = s.allTokens[:last]
	delete(s.allIndex, id)
}

func (s *state) emit(e Event) {
	s.journal = append(s.journal, e)
}
