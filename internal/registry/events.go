package registry

import "github.com/ethereum/go-ethereum/common"

// Event is a record of a committed state change. Exactly one event is
// emitted per successful mutating call. Events from a rolled-back call
// are discarded with the rest of the call's mutations.
type Event interface {
	eventKind() string
}

// TransferEvent records an ownership change. Mints carry a zero Sender,
// burns a zero Receiver.
type TransferEvent struct {
	Sender   common.Address
	Receiver common.Address
	TokenID  uint64
}

// ApprovalEvent records a single-token approval grant, whether set
// directly by the owner or applied from a validated permit.
type ApprovalEvent struct {
	Owner    common.Address
	Approved common.Address
	TokenID  uint64
}

// ApprovalForAllEvent records an operator toggle.
type ApprovalForAllEvent struct {
	Owner    common.Address
	Operator common.Address
	Enabled  bool
}

func (TransferEvent) eventKind() string       { return "Transfer" }
func (ApprovalEvent) eventKind() string       { return "Approval" }
func (ApprovalForAllEvent) eventKind() string { return "ApprovalForAll" }

// Kind returns the event's name as it appears in the event log.
func Kind(e Event) string { return e.eventKind() }
