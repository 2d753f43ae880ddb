package registry

import "github.com/ethereum/go-ethereum/common"

// IsAuthorized reports whether caller may act on id: the caller is the
// owner, the approved spender, or an operator of the owner. It reads
// ownership fresh on every call — approval state can change between
// check and use within one logical operation (reentrancy through a
// receiver callback), so nothing here is cached. Unknown ids are simply
// unauthorized for everyone.
func (r *Registry) IsAuthorized(caller common.Address, id uint64) bool {
	t, ok := r.st.tokens[id]
	if !ok {
		return false
	}
	if caller == t.owner || caller == t.approved {
		return true
	}
	return r.st.operators[t.owner][caller]
}
