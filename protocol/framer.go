package protocol

// rxState is the Decoder's position in the §4.7 receive state machine,
// collapsed to two states since DispatchReady is represented simply by
// DecodeChunk returning a non-nil Message.
type rxState int

const (
	stateIdle rxState = iota
	stateReceiving
)

// Decoder reassembles one peer's frames into complete Messages (§4.2,
// §4.7). It owns exactly one Message Buffer, matching "the receive side
// owns one Message Buffer at a time" (§3 Buffer state): a second message
// cannot begin until the first completes, is abandoned by a Sync, or is
// discarded by a state-machine violation.
type Decoder struct {
	cfg     Config
	state   rxState
	kind    Kind
	idWide  bool
	id      uint32
	payload *scratchPayload
}

// NewDecoder creates a Decoder whose Message Buffer holds up to
// cfg.MaxMessageSize reassembled payload bytes.
func NewDecoder(cfg Config) *Decoder {
	return &Decoder{cfg: cfg, payload: newScratchPayload(cfg.MaxMessageSize)}
}

func (d *Decoder) abandon() {
	d.state = stateIdle
	d.payload.reset()
}

// DecodeChunk processes exactly one received frame (§4.2). It returns a
// non-nil Message when the frame completes a message, or a non-nil
// FrameError when the frame is malformed or violates the in-flight state
// (§4.7 transitions); at most one of the two is non-nil, and both may be
// nil for a frame that is valid but mid-message (a W=1 frame, or Sync).
func (d *Decoder) DecodeChunk(c Chunk) (*Message, *FrameError) {
	data := c.Slice()
	if len(data) == 0 {
		return nil, nil
	}

	kind, cont, idWide, _, lenHigh := unpackHeader(data[0])

	if kind == KindSync {
		// Idle/Receiving + Sync -> Idle (discard any partial message).
		d.abandon()
		return nil, nil
	}
	if kind == kindReserved {
		return nil, nil
	}
	if len(data) < 2 {
		d.abandon()
		return nil, &FrameError{Reason: reasonTruncated}
	}
	length := unpackLength(lenHigh, data[1])
	body := data[2:]

	switch kind {
	case KindACK, KindNAK:
		return d.decodeAckNak(kind, cont, idWide, length, body)
	case KindData, KindNAData:
		return d.decodeFirstFrame(kind, cont, idWide, length, body)
	case KindContinued, KindNAContinued:
		return d.decodeContinuation(kind, cont, length, body)
	}
	return nil, nil
}

// decodeAckNak handles ACK/NAK frames, which always carry their ID and
// payload in a single, unsplit frame (§4.2 edge case: "An ACK/NAK frame
// is never split").
func (d *Decoder) decodeAckNak(kind Kind, cont bool, idWide bool, length uint16, body []byte) (*Message, *FrameError) {
	if cont {
		return nil, &FrameError{Reason: reasonSplitAckNak}
	}
	idW := idWidthBytes(idWide)
	if int(length) < idW || int(length) > len(body) {
		return nil, &FrameError{Reason: reasonOversizeLength}
	}
	id := getID(body, idWide)
	n := int(length) - idW
	payload := make([]byte, n)
	copy(payload, body[idW:idW+n])
	return &Message{Kind: kind, ID: id, IDWide: idWide, Payload: payload}, nil
}

// decodeFirstFrame handles Data/NAData frames (§4.2 rule 4): the start of
// a new message. Arriving while a message is already being reassembled is
// the "Data frame while a message is already in flight" edge case - the
// old message is abandoned and a kind-mismatch FrameError reports its ID
// so the caller can NAK it.
func (d *Decoder) decodeFirstFrame(kind Kind, cont bool, idWide bool, length uint16, body []byte) (*Message, *FrameError) {
	if d.state == stateReceiving {
		id, idW := d.id, d.idWide
		d.abandon()
		return nil, &FrameError{HasID: true, ID: id, IDWide: idW, Reason: reasonKindMismatch}
	}

	idW := idWidthBytes(idWide)
	if idW > len(body) {
		return nil, &FrameError{Reason: reasonTruncated}
	}
	id := getID(body, idWide)
	payloadBytes := body[idW:]

	if !cont {
		n := int(length) - idW
		if n < 0 || n > len(payloadBytes) {
			return nil, &FrameError{HasID: true, ID: id, IDWide: idWide, Reason: reasonOversizeLength}
		}
		out := make([]byte, n)
		copy(out, payloadBytes[:n])
		return &Message{Kind: kind, ID: id, IDWide: idWide, Payload: out}, nil
	}

	// W=1: length counts pending continuation frames, not bytes - this
	// frame itself always carries the maximum first-frame payload (§3).
	cap := d.cfg.firstFrameCapacity(idW)
	if cap > len(payloadBytes) {
		cap = len(payloadBytes)
	}
	d.state = stateReceiving
	d.kind = kind
	d.idWide = idWide
	d.id = id
	d.payload.reset()
	d.payload.append(payloadBytes[:cap])
	return nil, nil
}

// decodeContinuation handles Continued/NAContinued frames (§4.2 rule 5,
// §4.7). A continuation with no in-flight message is the fatal "invariant
// violation" case (§7); a continuation whose kind doesn't match the
// in-flight message's is reported as an ordinary kind mismatch.
func (d *Decoder) decodeContinuation(kind Kind, cont bool, length uint16, body []byte) (*Message, *FrameError) {
	if d.state != stateReceiving {
		return nil, &FrameError{Reason: reasonUnexpectedContinuation}
	}
	if kind != continuationKindFor(d.kind) {
		id, idWide := d.id, d.idWide
		d.abandon()
		return nil, &FrameError{HasID: true, ID: id, IDWide: idWide, Reason: reasonKindMismatch}
	}

	if !cont {
		n := int(length)
		if n > len(body) {
			id, idWide := d.id, d.idWide
			d.abandon()
			return nil, &FrameError{HasID: true, ID: id, IDWide: idWide, Reason: reasonOversizeLength}
		}
		d.payload.append(body[:n])
		msg := &Message{Kind: d.kind, ID: d.id, IDWide: d.idWide, Payload: d.payload.bytes()}
		d.abandon()
		return msg, nil
	}

	cap := d.cfg.contFrameCapacity()
	if cap > len(body) {
		cap = len(body)
	}
	d.payload.append(body[:cap])
	return nil, nil
}

// Encode serializes (kind, id, payload) into one or more chunks and calls
// emit for each, in wire order (§4.3). ACK and NAK are never split - a
// caller handing Encode an oversize ACK/NAK payload gets back
// ErrProtocolInvariant rather than a silently-truncated frame.
func Encode(cfg Config, kind Kind, id uint32, idWide bool, payload []byte, emit func(Chunk)) error {
	idW := idWidthBytes(idWide)

	if kind == KindACK || kind == KindNAK {
		if len(payload) > cfg.ChunkSize-2-idW {
			return ErrProtocolInvariant
		}
		emit(encodeSingleFrame(cfg, kind, id, idWide, payload))
		return nil
	}

	firstCap := cfg.firstFrameCapacity(idW)
	if len(payload) <= firstCap {
		emit(encodeSingleFrame(cfg, kind, id, idWide, payload))
		return nil
	}

	contCap := cfg.contFrameCapacity()
	rest := payload[firstCap:]
	numCont := (len(rest) + contCap - 1) / contCap

	frame := make([]byte, cfg.ChunkSize)
	lenHigh, lenLow := packLength(uint16(numCont))
	frame[0] = packHeader(kind, true, idWide, lenHigh)
	frame[1] = lenLow
	putID(frame[2:2+idW], id, idWide)
	copy(frame[2+idW:], payload[:firstCap])
	emit(NewChunk(frame, cfg.ChunkSize))

	contKind := continuationKindFor(kind)
	for i := 0; i < numCont; i++ {
		pending := numCont - i - 1
		start := i * contCap
		end := start + contCap
		last := pending == 0
		if last || end > len(rest) {
			end = len(rest)
		}
		chunkPayload := rest[start:end]

		cframe := make([]byte, cfg.ChunkSize)
		var lh, ll uint8
		if last {
			lh, ll = packLength(uint16(len(chunkPayload)))
			cframe[0] = packHeader(contKind, false, idWide, lh)
		} else {
			lh, ll = packLength(uint16(pending))
			cframe[0] = packHeader(contKind, true, idWide, lh)
		}
		cframe[1] = ll
		copy(cframe[2:], chunkPayload)
		emit(NewChunk(cframe, cfg.ChunkSize))
	}
	return nil
}

func encodeSingleFrame(cfg Config, kind Kind, id uint32, idWide bool, payload []byte) Chunk {
	idW := idWidthBytes(idWide)
	frame := make([]byte, cfg.ChunkSize)
	length := idW + len(payload)
	lenHigh, lenLow := packLength(uint16(length))
	frame[0] = packHeader(kind, false, idWide, lenHigh)
	frame[1] = lenLow
	putID(frame[2:2+idW], id, idWide)
	copy(frame[2+idW:], payload)
	return NewChunk(frame, cfg.ChunkSize)
}

// EncodeSync returns the one-byte Sync frame (§3), zero-padded to a chunk.
func EncodeSync(cfg Config) Chunk {
	return NewChunk([]byte{SyncByte}, cfg.ChunkSize)
}
