package registry

import "errors"

// Errors. Every failed operation returns one of these (possibly wrapped);
// match with errors.Is. A failure aborts the whole call — no partial state.
var (
	ErrNotFound         = errors.New("token does not exist")
	ErrAlreadyExists    = errors.New("token already exists")
	ErrInvalidRecipient = errors.New("recipient is the zero address")
	ErrOwnerMismatch    = errors.New("from address is not the token owner")
	ErrUnauthorized     = errors.New("caller is not owner, approved, or operator")
	ErrSelfApproval     = errors.New("owner cannot be their own operator")
	ErrUnsafeRecipient  = errors.New("recipient did not accept the token")
	ErrSupplyExhausted  = errors.New("max supply reached")
	ErrExpired          = errors.New("permit deadline has passed")
	ErrInvalidSignature = errors.New("signature recovery failed")
)
