package protocol

import "sync"

// CommandSpec is the per-ID binding the Registry holds (§4.4). Decoding
// the incoming payload is left to Handle (the catalog owns wire shapes);
// Handle is the only hook the Dispatcher calls once a Message for this ID
// arrives.
type CommandSpec struct {
	ID     uint32
	IDWide bool
	Name   string

	// Handle processes a decoded Data/NAData payload and returns the
	// bytes to carry back in the ACK, or an error to carry back in the
	// NAK (§4.5 dispatch rules). NAData results are discarded by the
	// Dispatcher regardless of what Handle returns.
	Handle func(payload []byte) ([]byte, error)

	// DecodeAck and DecodeNak are stored with the spec, but the
	// Dispatcher never calls them: the ACK/NAK payload for an outgoing
	// message is returned to the SendMessage caller instead. Both may be
	// nil.
	DecodeAck func(payload []byte) error
	DecodeNak func(payload []byte) error
}

// Registry is the Command Registry (§4.4): the fixed set of command IDs
// this peer supports, immutable after construction and safe for
// concurrent reads (§5 "may be read concurrently").
type Registry struct {
	mu      sync.RWMutex
	specs   map[uint32]*CommandSpec
	order   []uint32
	maxIDs  int
}

// NewRegistry creates an empty Registry bounded to maxIDs entries. maxIDs
// matches the "maximum number of supported IDs" construction-time
// parameter called out in §9 - a firmware build sizes this to the exact
// count of commands it compiles in.
func NewRegistry(maxIDs int) *Registry {
	if maxIDs < 1 {
		maxIDs = 1
	}
	return &Registry{
		specs:  make(map[uint32]*CommandSpec, maxIDs),
		order:  make([]uint32, 0, maxIDs),
		maxIDs: maxIDs,
	}
}

// Register adds spec to the registry. It is intended to run once at
// startup, before the Dispatcher begins processing frames; callers that
// need it to run concurrently with lookups should treat that as a misuse
// of the registry's "fixed at construction" contract (§4.4).
func (r *Registry) Register(spec *CommandSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[spec.ID]; exists {
		return &DispatchError{ID: spec.ID, Err: ErrProtocolInvariant}
	}
	if len(r.order) >= r.maxIDs {
		return ErrBufferFull
	}
	r.specs[spec.ID] = spec
	r.order = append(r.order, spec.ID)
	return nil
}

// Lookup returns the CommandSpec for id, or ok=false if unsupported.
func (r *Registry) Lookup(id uint32) (*CommandSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[id]
	return spec, ok
}

// IsSupported reports whether id has a registered CommandSpec.
func (r *Registry) IsSupported(id uint32) bool {
	_, ok := r.Lookup(id)
	return ok
}

// SupportedIDs returns every registered ID, in registration order, as the
// 32-bit IDs a wide-ID catalog entry or internal caller expects.
func (r *Registry) SupportedIDs() []uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]uint32, len(r.order))
	copy(out, r.order)
	return out
}

// SupportedIDs16 returns the registered IDs that fit a 16-bit encoding, in
// registration order - the payload shape the Supported IDs command (§6
// ID 0x00) sends over the wire.
func (r *Registry) SupportedIDs16() []uint16 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]uint16, 0, len(r.order))
	for _, id := range r.order {
		if fitsIn16Bits(id) {
			out = append(out, uint16(id))
		}
	}
	return out
}
