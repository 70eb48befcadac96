package listener

import (
	"sync"
	"weak"

	"github.com/nerrad567/locmux/internal/accuracy"
	"github.com/nerrad567/locmux/internal/geo"
)

// Owner is the identity token anchoring a registration to its observer's
// lifetime. Allocate one with NewOwner, keep it reachable while updates are
// wanted, and pass it to Register and Deregister. The registry references it
// only weakly.
type Owner struct {
	// At least 16 bytes so each Owner gets its own heap block. Smaller
	// pointer-free allocations go through the runtime's tiny allocator,
	// which packs several into one block; a shared block stays reachable
	// while any occupant lives, and the weak pointer for a dead Owner
	// would then never go nil.
	_ [16]byte
}

// NewOwner allocates a fresh identity token.
func NewOwner() *Owner {
	return &Owner{}
}

// Update is one notification delivered to a listener: either a successful
// fix (Position set, Err nil) or a positioning failure (Position nil, Err
// set). Exactly one of the two is present.
type Update struct {
	Position *geo.Position
	Err      error
}

// Callback receives updates for a registration. Callbacks are invoked from
// the manager's single delivery goroutine, in FIFO order per listener, and
// may safely call back into Register or Deregister.
type Callback func(Update)

// Request is an immutable observation request. It is passed by value into
// the registry; the caller retains ownership of the original.
type Request struct {
	Tier      accuracy.Tier
	Frequency accuracy.Frequency
	Notify    Callback
}

// Entry is a live registry record for one observer identity. Entries are
// created on registration, replaced wholesale on re-registration of the same
// identity, and destroyed on deregistration or reaping.
type Entry struct {
	key weak.Pointer[Owner] // nil Value() means the observer is dead
	seq uint64
	req Request

	mu            sync.Mutex
	lastDelivered *geo.Position
}

// Request returns the observation request this entry carries.
func (e *Entry) Request() Request {
	return e.req
}

// Alive reports whether the owning identity is still reachable. Inherently
// racy at exactly the margin of liveness; the registry treats it as
// best-effort.
func (e *Entry) Alive() bool {
	return e.key.Value() != nil
}

// LastDelivered returns the most recent position delivered to this entry,
// or nil if none has been delivered since (re-)registration.
func (e *Entry) LastDelivered() *geo.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDelivered
}

// MarkDelivered records p as the last delivered position. The delivered
// position, not the raw device position, is the reference point for
// changes-only distance filtering.
func (e *Entry) MarkDelivered(p geo.Position) {
	e.mu.Lock()
	e.lastDelivered = &p
	e.mu.Unlock()
}
