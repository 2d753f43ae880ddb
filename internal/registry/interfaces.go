package registry

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// InterfaceID is an ERC-165 interface identifier (4 bytes).
type InterfaceID [4]byte

// Interface ids the registry answers true for. The values are the XOR
// of each interface's function selectors, fixed by the standards.
var (
	IDERC165     = InterfaceID{0x01, 0xff, 0xc9, 0xa7}
	IDERC721     = InterfaceID{0x80, 0xac, 0x58, 0xcd}
	IDMetadata   = InterfaceID{0x5b, 0x5e, 0x13, 0x9f}
	IDEnumerable = InterfaceID{0x78, 0x0e, 0x9d, 0x63}
	IDReceiver   = InterfaceID{0x15, 0x0b, 0x7a, 0x02}
	IDPermit     = InterfaceID{0x56, 0x04, 0xe2, 0x25}
)

// AcceptanceSelector is the value a receiver callback must return to
// accept a safe transfer: the 4-byte selector of the acceptance
// function, which equals the receiver interface id.
var AcceptanceSelector = selector("onERC721Received(address,address,uint256,bytes)")

// selector computes the 4-byte Keccak-256 selector of a function
// signature.
func selector(sig string) [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	var out [4]byte
	copy(out[:], h.Sum(nil)[:4])
	return out
}

// SupportsInterface reports whether the registry implements the given
// interface: the base registry, the metadata and enumerable extensions,
// the safe-receiver acknowledgement, and the permit extension.
// Everything else, including malformed identifiers, is false.
func (r *Registry) SupportsInterface(id InterfaceID) bool {
	switch id {
	case IDERC165, IDERC721, IDMetadata, IDEnumerable, IDReceiver, IDPermit:
		return true
	}
	return false
}

// ParseInterfaceID parses a hex interface id ("0x80ac58cd" or bare).
func ParseInterfaceID(s string) (InterfaceID, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return InterfaceID{}, fmt.Errorf("invalid interface id hex: %w", err)
	}
	if len(raw) != 4 {
		return InterfaceID{}, fmt.Errorf("interface id must be 4 bytes, got %d", len(raw))
	}
	var id InterfaceID
	copy(id[:], raw)
	return id, nil
}

// String renders the id as 0x-prefixed hex.
func (id InterfaceID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}
