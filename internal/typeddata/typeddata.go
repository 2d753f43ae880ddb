// Package typeddata builds the EIP-712 digest a permit signer commits
// to. The digest binds the registry's domain (name, version, chain id,
// registry address) to the permit fields (spender, tokenId, nonce,
// deadline); changing any of them — wrong chain, wrong registry, wrong
// field — produces a different digest and invalidates the signature.
package typeddata

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Fixed domain identity. These match the contract this registry mirrors;
// signatures produced against it verify here unchanged.
const (
	DomainName    = "Vyper EIP4494"
	DomainVersion = "1.0.0"
)

// Domain is the variable half of the signing domain.
type Domain struct {
	ChainID  uint64
	Contract common.Address // the registry's own identity
}

// Permit is the signed message: approve Spender for TokenID, valid while
// the token's nonce is Nonce and the time is at or before Deadline.
type Permit struct {
	Spender  common.Address
	TokenID  uint64
	Nonce    uint64
	Deadline uint64
}

var permitTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Permit": {
		{Name: "spender", Type: "address"},
		{Name: "tokenId", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
	},
}

// Digest returns the 32-byte hash the permit signer must sign: the
// standard two-level structured-data scheme (domain separator + struct
// hash under the \x19\x01 prefix).
func Digest(d Domain, p Permit) ([]byte, error) {
	td := apitypes.TypedData{
		Types:       permitTypes,
		PrimaryType: "Permit",
		Domain: apitypes.TypedDataDomain{
			Name:              DomainName,
			Version:           DomainVersion,
			ChainId:           math.NewHexOrDecimal256(int64(d.ChainID)),
			VerifyingContract: d.Contract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"spender":  p.Spender.Hex(),
			"tokenId":  u256(p.TokenID),
			"nonce":    u256(p.Nonce),
			"deadline": u256(p.Deadline),
		},
	}
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return nil, fmt.Errorf("hashing permit: %w", err)
	}
	return digest, nil
}

func u256(v uint64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).SetUint64(v))
}

// RegistryAddress derives a stable address identity for a registry that
// has no deployed contract: the last 20 bytes of
// keccak256(name || "/" || symbol).
func RegistryAddress(name, symbol string) common.Address {
	h := crypto.Keccak256([]byte(name + "/" + symbol))
	return common.BytesToAddress(h[12:])
}
