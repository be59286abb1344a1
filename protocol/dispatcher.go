package protocol

import (
	"context"
	"errors"
	"sync"
	"time"
)

// byteBufferCapacity is the Byte Buffer depth (§4.1: "typical: 8 chunks
// per direction") the Dispatcher allocates for its own rx/tx FIFOs in
// byte-level mode.
const byteBufferCapacity = 8

type sendResult struct {
	ack     bool
	payload []byte
}

type pendingSend struct {
	resultCh chan sendResult
}

// Dispatcher is the heart of the core (§4.5): it drives the receive
// pipeline in byte-level mode, or exposes HandleMessage/SendMessage for a
// caller that owns its own transport buffering in message-level mode. One
// Dispatcher serves one connection.
type Dispatcher struct {
	cfg      Config
	registry *Registry
	rx       *ChunkFIFO
	tx       *ChunkFIFO
	dec      *Decoder

	mu          sync.Mutex
	outstanding map[uint32]*pendingSend
	syncStreak  int

	clock        func() time.Time
	lastSendTime time.Time

	// OnUnsolicited is called for an ACK/NAK with no matching outstanding
	// send (§4.5 "Unsolicited ACK/NAK: log, do not propagate").
	OnUnsolicited func(kind Kind, id uint32)

	// OnFault is called for invariant violations the Dispatcher survives
	// (§7 "the core remains usable but logs the event").
	OnFault func(err error)
}

// NewDispatcher creates a Dispatcher in byte-level mode, with its own
// rx/tx Byte Buffers and Decoder, driven by ProcessRX/EnqueueRX/DequeueTX.
func NewDispatcher(cfg Config, registry *Registry) *Dispatcher {
	return &Dispatcher{
		cfg:         cfg,
		registry:    registry,
		rx:          NewChunkFIFO(byteBufferCapacity),
		tx:          NewChunkFIFO(byteBufferCapacity),
		dec:         NewDecoder(cfg),
		outstanding: make(map[uint32]*pendingSend),
		clock:       time.Now,
	}
}

// EnqueueRX feeds one received chunk into the Dispatcher's receive Byte
// Buffer, for ProcessRX to drain.
func (d *Dispatcher) EnqueueRX(c Chunk) error {
	return d.rx.Enqueue(c)
}

// DequeueTX removes one chunk ProcessRX (or MaybeSendSync) has queued for
// transmission.
func (d *Dispatcher) DequeueTX() (Chunk, bool) {
	return d.tx.Dequeue()
}

func peekKind(c Chunk) Kind {
	if c.Len == 0 {
		return kindReserved
	}
	return Kind(c.Bytes[0] >> 5)
}

// ProcessRX drains the receive Byte Buffer, running the Framer and
// Dispatcher over every queued chunk, and returns the number of complete
// messages processed (§4.5 byte-level mode). It keeps draining past the
// first error so one malformed frame cannot stall the whole buffer; the
// first error encountered is returned once draining completes.
func (d *Dispatcher) ProcessRX() (int, error) {
	count := 0
	var firstErr error
	note := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	for {
		c, ok := d.rx.Dequeue()
		if !ok {
			break
		}
		if peekKind(c) == KindSync {
			d.noteSyncObserved()
		} else {
			d.noteNonSyncObserved()
		}

		msg, ferr := d.dec.DecodeChunk(c)
		if ferr != nil {
			note(ferr)
			if ferr.HasID {
				if err := d.sendFrame(KindNAK, ferr.ID, ferr.IDWide, nil); err != nil {
					note(err)
				}
			} else if errors.Is(ferr, ErrProtocolInvariant) && d.OnFault != nil {
				d.OnFault(ferr)
			}
			continue
		}
		if msg == nil {
			continue
		}

		count++
		if err := d.dispatchIncoming(*msg); err != nil {
			note(err)
		}
	}
	return count, firstErr
}

// dispatchIncoming applies the §4.5 dispatch rules to one reassembled
// Message.
func (d *Dispatcher) dispatchIncoming(msg Message) error {
	switch msg.Kind {
	case KindData:
		spec, ok := d.registry.Lookup(msg.ID)
		if !ok {
			return d.sendFrame(KindNAK, msg.ID, msg.IDWide, nil)
		}
		ack, err := spec.Handle(msg.Payload)
		if err != nil {
			return d.sendFrame(KindNAK, msg.ID, msg.IDWide, nakPayloadFor(err))
		}
		return d.sendFrame(KindACK, msg.ID, msg.IDWide, ack)

	case KindNAData:
		if spec, ok := d.registry.Lookup(msg.ID); ok {
			_, _ = spec.Handle(msg.Payload)
		}
		return nil

	case KindACK:
		d.resolveOutstanding(msg.ID, sendResult{ack: true, payload: msg.Payload})
		return nil

	case KindNAK:
		d.resolveOutstanding(msg.ID, sendResult{ack: false, payload: msg.Payload})
		return nil
	}
	return nil
}

func nakPayloadFor(err error) []byte {
	var nakErr *NakError
	if errors.As(err, &nakErr) {
		return nakErr.Payload
	}
	return nil
}

// sendFrame encodes (kind, id, payload) and queues the resulting chunks
// on the transmit Byte Buffer (§4.3, §4.5 "encodes the response ... queues
// chunks on the transmit Byte Buffer").
func (d *Dispatcher) sendFrame(kind Kind, id uint32, idWide bool, payload []byte) error {
	d.noteFrameSent()
	return Encode(d.cfg, kind, id, idWide, payload, func(c Chunk) {
		_ = d.tx.Enqueue(c)
	})
}

// MaybeSendSync queues a Sync frame if nothing has gone out since
// cfg.SyncInterval ago (§4.5 keep-alive). It returns whether a Sync was
// queued.
func (d *Dispatcher) MaybeSendSync() bool {
	now := d.clock()
	d.mu.Lock()
	due := now.Sub(d.lastSendTime) >= d.cfg.SyncInterval
	d.mu.Unlock()
	if !due {
		return false
	}
	_ = d.tx.Enqueue(EncodeSync(d.cfg))
	d.mu.Lock()
	d.lastSendTime = now
	d.mu.Unlock()
	return true
}

func (d *Dispatcher) noteNonSyncObserved() {
	d.mu.Lock()
	d.syncStreak = 0
	d.mu.Unlock()
}

// noteFrameSent records an outgoing non-Sync frame for MaybeSendSync and,
// like an incoming one, resets the repeated-Sync streak.
func (d *Dispatcher) noteFrameSent() {
	d.mu.Lock()
	d.syncStreak = 0
	d.lastSendTime = d.clock()
	d.mu.Unlock()
}

// noteSyncObserved implements the §4.5/§5 rule that more than one Sync
// seen while a send is outstanding means the peer has lost state: every
// outstanding send is cancelled with a PeerStateError. The core tracks
// one global streak rather than a per-ID one (documented simplification:
// §4.5 does not specify whether the count is per-message or connection-
// wide, and a connection-wide counter is the simpler, sufficient reading).
func (d *Dispatcher) noteSyncObserved() {
	d.mu.Lock()
	d.syncStreak++
	streak := d.syncStreak
	var cancelled []struct {
		id uint32
		ch chan sendResult
	}
	if streak > 1 && len(d.outstanding) > 0 {
		for id, p := range d.outstanding {
			cancelled = append(cancelled, struct {
				id uint32
				ch chan sendResult
			}{id, p.resultCh})
			delete(d.outstanding, id)
		}
	}
	d.mu.Unlock()

	for _, c := range cancelled {
		if d.OnFault != nil {
			d.OnFault(&PeerStateError{ID: c.id, Reason: "repeated Sync while awaiting response"})
		}
		close(c.ch)
	}
}

func (d *Dispatcher) resolveOutstanding(id uint32, result sendResult) {
	d.mu.Lock()
	p, ok := d.outstanding[id]
	if ok {
		delete(d.outstanding, id)
	}
	d.mu.Unlock()

	if !ok {
		if d.OnUnsolicited != nil {
			kind := KindACK
			if !result.ack {
				kind = KindNAK
			}
			d.OnUnsolicited(kind, id)
		}
		return
	}
	p.resultCh <- result
	close(p.resultCh)
}

// HandleMessage performs only the §4.5 message-level dispatch: look up
// the handler, invoke it, and report what (if anything) the caller should
// transmit as a response. It touches neither the Dispatcher's own Byte
// Buffers nor the Decoder - the caller owns transport-side framing.
func (d *Dispatcher) HandleMessage(msg Message) (respKind Kind, respPayload []byte, hasResponse bool) {
	switch msg.Kind {
	case KindData:
		spec, ok := d.registry.Lookup(msg.ID)
		if !ok {
			return KindNAK, nil, true
		}
		ack, err := spec.Handle(msg.Payload)
		if err != nil {
			return KindNAK, nakPayloadFor(err), true
		}
		return KindACK, ack, true

	case KindNAData:
		if spec, ok := d.registry.Lookup(msg.ID); ok {
			_, _ = spec.Handle(msg.Payload)
		}
		return 0, nil, false

	case KindACK:
		d.resolveOutstanding(msg.ID, sendResult{ack: true, payload: msg.Payload})
		return 0, nil, false

	case KindNAK:
		d.resolveOutstanding(msg.ID, sendResult{ack: false, payload: msg.Payload})
		return 0, nil, false
	}
	return 0, nil, false
}

// NoteSyncReceived lets a message-level caller (which does its own frame
// decoding) report an observed Sync frame, driving the same repeated-Sync
// cancellation as byte-level mode's ProcessRX.
func (d *Dispatcher) NoteSyncReceived() {
	d.noteSyncObserved()
}

// NoteActivityReceived lets a message-level caller report any non-Sync
// frame, resetting the repeated-Sync streak.
func (d *Dispatcher) NoteActivityReceived() {
	d.noteNonSyncObserved()
}

// SendMessage sends (kind, id, payload) via transmit and blocks until a
// matching ACK/NAK arrives (reported through HandleMessage or ProcessRX),
// ctx is cancelled, or ctx carries no deadline and cfg.SendTimeout elapses
// (§4.5 "send_message(...) -> await response", §5 cancellation). transmit
// is responsible for actually getting the encoded chunks to the peer -
// byte-level callers pass a function that calls Encode into the
// Dispatcher's own tx FIFO; message-level callers pass their transport.
func (d *Dispatcher) SendMessage(ctx context.Context, kind Kind, id uint32, idWide bool, payload []byte, transmit func(Message) error) ([]byte, error) {
	d.mu.Lock()
	if _, exists := d.outstanding[id]; exists {
		d.mu.Unlock()
		return nil, ErrOutstandingCollision
	}
	if d.cfg.MaxOutstanding > 0 && len(d.outstanding) >= d.cfg.MaxOutstanding {
		d.mu.Unlock()
		if d.OnFault != nil {
			d.OnFault(&DispatchError{ID: id, Err: ErrOutstandingFull})
		}
		return nil, ErrOutstandingFull
	}
	p := &pendingSend{resultCh: make(chan sendResult, 1)}
	d.outstanding[id] = p
	d.mu.Unlock()

	cleanup := func() {
		d.mu.Lock()
		delete(d.outstanding, id)
		d.mu.Unlock()
	}

	if _, ok := ctx.Deadline(); !ok && d.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
	}

	if err := transmit(Message{Kind: kind, ID: id, IDWide: idWide, Payload: payload}); err != nil {
		cleanup()
		return nil, err
	}
	d.noteFrameSent()

	select {
	case result, ok := <-p.resultCh:
		if !ok {
			return nil, &PeerStateError{ID: id, Reason: "repeated Sync while awaiting response"}
		}
		if !result.ack {
			return result.payload, &DispatchError{ID: id, Err: &NakError{Payload: result.payload}}
		}
		return result.payload, nil
	case <-ctx.Done():
		cleanup()
		return nil, &CancellationError{ID: id, Reason: ctx.Err().Error()}
	}
}
