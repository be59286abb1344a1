package device

// FaultWriter is a function type for writing fault/debug messages.
type FaultWriter func(string)

// FaultEvent captures a single protocol-level fault for post-mortem
// analysis: a malformed frame, an unsupported ID, or a timer scheduling
// failure. Kept in a fixed-size ring so a firmware build never allocates
// to record one.
type FaultEvent struct {
	EventType uint8
	Detail    uint8
	Clock     uint32
	Value1    uint32
	Value2    uint32
}

// Fault event type codes.
const (
	FaultFrameError      = 1 // Decoder rejected a frame; the target main loops also record a recovered panic under this code
	FaultUnsupportedID   = 2 // Registry.Lookup missed
	FaultTimerPast       = 3 // a scheduled timer fired too late
	FaultSendTimeout     = 4 // Runtime.Step could not write a chunk to its ChunkSource
	FaultOutstandingFull = 5 // Runtime.Step found the Dispatcher's receive Byte Buffer full
)

const faultRingSize = 32

var (
	faultWriter FaultWriter = func(string) {}
	faultRing   [faultRingSize]FaultEvent
	faultHead   uint8
)

// SetFaultWriter sets the platform-specific fault output function,
// letting a firmware build redirect fault text to UART, USB CDC, etc.
func SetFaultWriter(w FaultWriter) {
	faultWriter = w
}

// RecordFault appends an event to the ring buffer; it never blocks and
// never allocates.
func RecordFault(eventType, detail uint8, clock, value1, value2 uint32) {
	idx := faultHead
	faultRing[idx] = FaultEvent{
		EventType: eventType,
		Detail:    detail,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	faultHead = (idx + 1) % faultRingSize
}

// DumpFaults writes every recorded fault, oldest first, through the
// registered FaultWriter.
func DumpFaults() {
	faultWriter("[FAULT] === fault ring dump ===")
	start := faultHead
	for i := uint8(0); i < faultRingSize; i++ {
		idx := (start + i) % faultRingSize
		evt := &faultRing[idx]
		if evt.EventType == 0 {
			continue
		}
		var name string
		switch evt.EventType {
		case FaultFrameError:
			name = "FRAME_ERROR"
		case FaultUnsupportedID:
			name = "UNSUPPORTED_ID"
		case FaultTimerPast:
			name = "TIMER_PAST"
		case FaultSendTimeout:
			name = "SEND_TIMEOUT"
		case FaultOutstandingFull:
			name = "OUTSTANDING_FULL"
		default:
			name = "UNKNOWN"
		}
		faultWriter("[FAULT] " + name +
			" detail=" + utoa(uint32(evt.Detail)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	faultWriter("[FAULT] === end dump ===")
}

// ClearFaults empties the ring.
func ClearFaults() {
	for i := range faultRing {
		faultRing[i] = FaultEvent{}
	}
	faultHead = 0
}
