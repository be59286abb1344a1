package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the taxonomy in §7. No exception escapes the core -
// every operation returns one of these (possibly wrapped) or nil.
var (
	// ErrBufferFull is a buffer-pressure error: enqueue into a full
	// ChunkFIFO. The caller decides whether to drop or back-pressure.
	ErrBufferFull = errors.New("protocol: byte buffer full")

	// ErrUnsupportedID is a dispatch error: a Data message named an ID
	// this registry has no CommandSpec for.
	ErrUnsupportedID = errors.New("protocol: unsupported command id")

	// ErrOutstandingCollision is a peer-state condition: two concurrent
	// outgoing messages with the same ID (§9 "collisions must be
	// serialized or rejected with a clear error").
	ErrOutstandingCollision = errors.New("protocol: outstanding message already pending for id")

	// ErrOutstandingFull is a peer-state condition: SendMessage was
	// called while cfg.MaxOutstanding sends were already awaiting an
	// ACK/NAK (§9 "small fixed-capacity outstanding-response table").
	ErrOutstandingFull = errors.New("protocol: outstanding response table full")

	// ErrNoOutstanding marks an ACK/NAK with no matching outgoing
	// message - the Dispatcher logs and discards these, it never
	// returns this error to a caller.
	ErrNoOutstanding = errors.New("protocol: no outstanding message for id")

	// ErrProtocolInvariant marks a fatal-but-survivable fault (§7): the
	// core remains usable but the event should be logged.
	ErrProtocolInvariant = errors.New("protocol: invariant violation")
)

// FrameError describes a malformed frame observed by the Framer (§7
// "Framing errors"). ID is valid only when HasID is true - some framing
// violations are detected before the ID can be recovered.
type FrameError struct {
	HasID  bool
	ID     uint32
	IDWide bool
	Reason string
}

func (e *FrameError) Error() string {
	if e.HasID {
		return fmt.Sprintf("protocol: frame error for id %#x: %s", e.ID, e.Reason)
	}
	return "protocol: frame error: " + e.Reason
}

// Is reports whether a FrameError represents an invariant violation
// (§7 "receiving a continuation without an in-flight message") as opposed
// to an ordinary malformed-wire condition.
func (e *FrameError) Is(target error) bool {
	return target == ErrProtocolInvariant && e.Reason == reasonUnexpectedContinuation
}

const (
	reasonOversizeLength         = "length field exceeds chunk capacity"
	reasonKindMismatch           = "continuation kind does not match in-flight message"
	reasonUnexpectedContinuation = "continuation frame with no in-flight message"
	reasonTruncated              = "frame shorter than its declared length"
	reasonSplitAckNak            = "ACK/NAK frame may not be split across continuations"
)

// PeerStateError reports a peer-state condition (§7): repeated Sync while
// awaiting an ACK/NAK, cancelling the outstanding send for ID.
type PeerStateError struct {
	ID     uint32
	Reason string
}

func (e *PeerStateError) Error() string {
	return fmt.Sprintf("protocol: peer state error for id %#x: %s", e.ID, e.Reason)
}

// CancellationError reports SendMessage giving up on an outstanding send
// because its context expired (§5 Cancellation and timeouts). The
// Dispatcher has no shutdown method, so nothing else produces this error.
type CancellationError struct {
	ID     uint32
	Reason string
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("protocol: send for id %#x cancelled: %s", e.ID, e.Reason)
}

// DispatchError wraps a handler failure so callers can see which ID
// failed and unwrap to the handler's own error.
type DispatchError struct {
	ID  uint32
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("protocol: dispatch error for id %#x: %v", e.ID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NakError lets a CommandSpec.Handle carry a command-specific NAK payload
// (§6 - several commands define one, e.g. Flash Mode's reason byte) back
// to the Dispatcher without widening Handle's signature to three return
// values. A Handle that returns a plain error gets an empty NAK payload.
type NakError struct {
	Payload []byte
}

func (e *NakError) Error() string {
	return fmt.Sprintf("protocol: command nak (%d byte payload)", len(e.Payload))
}
