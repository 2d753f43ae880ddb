package registry

import "github.com/ethereum/go-ethereum/common"

// Enumeration uses 1-based indices, matching the on-chain interface the
// collection mirrors: index 1 is the first live token.

// TokenByIndex returns the id at position index over all live tokens.
func (r *Registry) TokenByIndex(index uint64) (uint64, error) {
	if index == 0 || index > uint64(len(r.st.allTokens)) {
		return 0, ErrNotFound
	}
	return r.st.allTokens[index-1], nil
}

// TokenOfOwnerByIndex returns the id at position index among owner's
// tokens.
func (r *Registry) TokenOfOwnerByIndex(owner common.Address, index uint64) (uint64, error) {
	ids := r.st.ownerTokens[owner]
	if index == 0 || index > uint64(len(ids)) {
		return 0, ErrNotFound
	}
	return ids[index-1], nil
}
