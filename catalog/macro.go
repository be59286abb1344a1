package catalog

import "encoding/binary"

// Device -> host command IDs (§6) carrying macro and trigger events.
const (
	IDTriggerHostMacro uint32 = 0x19
	IDKLLTriggerState  uint32 = 0x20
)

// EncodeTriggerHostMacroRequest serializes a list of 16-bit macro IDs.
func EncodeTriggerHostMacroRequest(macroIDs []uint16) []byte {
	return EncodeSupportedIDsAck(macroIDs)
}

// DecodeTriggerHostMacroRequest parses the list of macro IDs to trigger.
func DecodeTriggerHostMacroRequest(payload []byte) []uint16 {
	return DecodeSupportedIDsAck(payload)
}

// EncodeTriggerHostMacroNak serializes the list of macro IDs that failed
// to trigger.
func EncodeTriggerHostMacroNak(failedIDs []uint16) []byte {
	return EncodeSupportedIDsAck(failedIDs)
}

// DecodeTriggerHostMacroNak parses a Trigger Host Macro NAK payload.
func DecodeTriggerHostMacroNak(payload []byte) []uint16 {
	return DecodeSupportedIDsAck(payload)
}

// KLLTriggerEventType distinguishes a key press from a release in a KLL
// Trigger State event.
type KLLTriggerEventType uint8

const (
	KLLTriggerRelease KLLTriggerEventType = 0x00
	KLLTriggerPress   KLLTriggerEventType = 0x01
)

// KLLTriggerEvent is one (type, id, state) triple in a KLL Trigger State
// request (0x20).
type KLLTriggerEvent struct {
	Type  KLLTriggerEventType
	ID    uint16
	State uint8
}

// EncodeKLLTriggerStateRequest serializes a run of trigger events.
func EncodeKLLTriggerStateRequest(events []KLLTriggerEvent) []byte {
	out := make([]byte, 4*len(events))
	for i, e := range events {
		off := i * 4
		out[off] = byte(e.Type)
		binary.LittleEndian.PutUint16(out[off+1:], e.ID)
		out[off+3] = e.State
	}
	return out
}

// DecodeKLLTriggerStateRequest parses a KLL Trigger State request.
func DecodeKLLTriggerStateRequest(payload []byte) []KLLTriggerEvent {
	events := make([]KLLTriggerEvent, 0, len(payload)/4)
	for off := 0; off+4 <= len(payload); off += 4 {
		events = append(events, KLLTriggerEvent{
			Type:  KLLTriggerEventType(payload[off]),
			ID:    binary.LittleEndian.Uint16(payload[off+1:]),
			State: payload[off+3],
		})
	}
	return events
}
