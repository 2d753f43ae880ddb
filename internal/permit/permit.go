// Package permit validates gas-less, signature-based approvals: a token
// owner signs an EIP-712 permit off-line, and any party may submit it to
// grant the named spender approval over one token. Replay is bounded by
// the token's transfer nonce and the signer's deadline.
package permit

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tokenforge/permit721/internal/registry"
	"github.com/tokenforge/permit721/internal/typeddata"
)

// Verifier recovers the signing identity from a 32-byte digest and a
// 65-byte signature. The production implementation is Ecrecover; tests
// may substitute their own.
type Verifier func(digest, sig []byte) (common.Address, error)

// Protocol validates permits against one registry.
type Protocol struct {
	reg     *registry.Registry
	domain  typeddata.Domain
	recover Verifier
	now     func() time.Time
}

// Option configures a Protocol.
type Option func(*Protocol)

// WithVerifier replaces the signature recovery primitive.
func WithVerifier(v Verifier) Option {
	return func(p *Protocol) { p.recover = v }
}

// WithClock replaces the deadline clock (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(p *Protocol) { p.now = now }
}

// New creates a permit protocol bound to reg and the given signing
// domain.
func New(reg *registry.Registry, domain typeddata.Domain, opts ...Option) *Protocol {
	p := &Protocol{
		reg:     reg,
		domain:  domain,
		recover: Ecrecover,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Domain returns the protocol's signing domain.
func (p *Protocol) Domain() typeddata.Domain { return p.domain }

// Digest returns the digest a signer must sign to permit spender over
// tokenID at the token's current nonce.
func (p *Protocol) Digest(spender common.Address, tokenID, deadline uint64) ([]byte, error) {
	nonce, err := p.reg.Nonces(tokenID)
	if err != nil {
		return nil, err
	}
	return typeddata.Digest(p.domain, typeddata.Permit{
		Spender:  spender,
		TokenID:  tokenID,
		Nonce:    nonce,
		Deadline: deadline,
	})
}

// Submit validates a permit and, on success, grants spender the
// single-token approval and emits the Approval event.
//
// The transaction sender is irrelevant: authorization derives entirely
// from the signature, so Submit takes no caller. The nonce is not
// consumed — a valid permit stays replayable (idempotently re-granting
// the same approval) until its deadline passes or a transfer advances
// the nonce.
func (p *Protocol) Submit(spender common.Address, tokenID, deadline uint64, sig []byte) error {
	// deadline == now is still valid; only a strictly past deadline fails.
	if uint64(p.now().Unix()) > deadline {
		return registry.ErrExpired
	}

	owner, err := p.reg.OwnerOf(tokenID)
	if err != nil {
		return err
	}

	digest, err := p.Digest(spender, tokenID, deadline)
	if err != nil {
		return err
	}

	signer, err := p.recover(digest, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", registry.ErrInvalidSignature, err)
	}
	if signer == (common.Address{}) {
		return registry.ErrInvalidSignature
	}
	if signer != owner {
		return registry.ErrUnauthorized
	}

	return p.reg.GrantApproval(spender, tokenID)
}

// Ecrecover is the production Verifier: secp256k1 public key recovery
// over a raw digest, accepting V as 27/28 or 0/1.
func Ecrecover(digest, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: expected 65 bytes, got %d", len(sig))
	}
	normalized := make([]byte, 65)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pubKey, err := crypto.SigToPub(digest, normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("recovering signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}
