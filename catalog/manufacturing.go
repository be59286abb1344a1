package catalog

import "encoding/binary"

// Manufacturing command IDs (§6). Per Open Question (c), the command/arg
// pair is two adjacent 16-bit fields rather than a tagged union, since a
// union of arbitrary manufacturing test variants has no fixed wire
// encoding.
const (
	IDManufacturingTest       uint32 = 0x50
	IDManufacturingTestResult uint32 = 0x51
)

// EncodeManufacturingTestRequest serializes a command/arg pair (0x50).
func EncodeManufacturingTestRequest(cmd, arg uint16) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint16(out, cmd)
	binary.LittleEndian.PutUint16(out[2:], arg)
	return out
}

// DecodeManufacturingTestRequest parses a Manufacturing Test request.
func DecodeManufacturingTestRequest(payload []byte) (cmd, arg uint16, ok bool) {
	if len(payload) < 4 {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint16(payload), binary.LittleEndian.Uint16(payload[2:]), true
}

// EncodeManufacturingTestResult serializes a command/arg pair followed by
// the test's result payload (0x51).
func EncodeManufacturingTestResult(cmd, arg uint16, result []byte) []byte {
	out := make([]byte, 4+len(result))
	binary.LittleEndian.PutUint16(out, cmd)
	binary.LittleEndian.PutUint16(out[2:], arg)
	copy(out[4:], result)
	return out
}

// DecodeManufacturingTestResult parses a Manufacturing Test Result
// payload.
func DecodeManufacturingTestResult(payload []byte) (cmd, arg uint16, result []byte, ok bool) {
	if len(payload) < 4 {
		return 0, 0, nil, false
	}
	cmd = binary.LittleEndian.Uint16(payload)
	arg = binary.LittleEndian.Uint16(payload[2:])
	result = append([]byte(nil), payload[4:]...)
	return cmd, arg, result, true
}
