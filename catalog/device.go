package catalog

import "encoding/binary"

// Host -> device command IDs (§6) covering device discovery, key
// injection, and layout queries.
const (
	IDGetDeviceProperties uint32 = 0x10
	IDUSBKeyState         uint32 = 0x11
	IDKeyboardLayout      uint32 = 0x12
	IDButtonLayout        uint32 = 0x13
	IDLEDLayout           uint32 = 0x15
	IDFlashMode           uint32 = 0x16
	IDSleepMode           uint32 = 0x1A
)

// DevicePropertyCommand selects which device property Get Device
// Properties (0x10) asks for.
type DevicePropertyCommand uint8

const (
	DevicePropertyList  DevicePropertyCommand = 0x00
	DevicePropertyField DevicePropertyCommand = 0x01
)

// EncodeGetDevicePropertiesRequest serializes the request for 0x10: a
// command byte, and when cmd is DevicePropertyField, a following field ID.
func EncodeGetDevicePropertiesRequest(cmd DevicePropertyCommand, fieldID uint8) []byte {
	if cmd == DevicePropertyField {
		return []byte{byte(cmd), fieldID}
	}
	return []byte{byte(cmd)}
}

// DecodeGetDevicePropertiesRequest parses the 0x10 request.
func DecodeGetDevicePropertiesRequest(payload []byte) (cmd DevicePropertyCommand, fieldID uint8, ok bool) {
	if len(payload) < 1 {
		return 0, 0, false
	}
	cmd = DevicePropertyCommand(payload[0])
	if cmd == DevicePropertyField {
		if len(payload) < 2 {
			return 0, 0, false
		}
		fieldID = payload[1]
	}
	return cmd, fieldID, true
}

// USBKeyMode selects the interpretation of the codes in a USB Key State
// request (0x11): release, press, or toggle.
type USBKeyMode uint8

const (
	USBKeyRelease USBKeyMode = 0x00
	USBKeyPress   USBKeyMode = 0x01
	USBKeyToggle  USBKeyMode = 0x02
)

// EncodeUSBKeyStateRequest serializes a mode byte followed by a run of
// 16-bit USB HID usage codes.
func EncodeUSBKeyStateRequest(mode USBKeyMode, codes []uint16) []byte {
	out := make([]byte, 1+2*len(codes))
	out[0] = byte(mode)
	for i, c := range codes {
		binary.LittleEndian.PutUint16(out[1+i*2:], c)
	}
	return out
}

// DecodeUSBKeyStateRequest parses a USB Key State request.
func DecodeUSBKeyStateRequest(payload []byte) (mode USBKeyMode, codes []uint16, ok bool) {
	if len(payload) < 1 {
		return 0, nil, false
	}
	mode = USBKeyMode(payload[0])
	rest := payload[1:]
	codes = make([]uint16, 0, len(rest)/2)
	for i := 0; i+1 < len(rest); i += 2 {
		codes = append(codes, binary.LittleEndian.Uint16(rest[i:]))
	}
	return mode, codes, true
}

// EncodeUSBKeyStateAck serializes the list of codes the device failed to
// apply (empty when every code succeeded).
func EncodeUSBKeyStateAck(failed []uint16) []byte {
	return EncodeSupportedIDsAck(failed)
}

// DecodeUSBKeyStateAck parses the failed-codes ACK payload.
func DecodeUSBKeyStateAck(payload []byte) []uint16 {
	return DecodeSupportedIDsAck(payload)
}

// KeyboardLayoutEntry is one (scancode, type, usb code) tuple in a
// Keyboard Layout ACK (0x12).
type KeyboardLayoutEntry struct {
	Scancode uint16
	Type     uint8
	USBCode  uint16
}

// EncodeKeyboardLayoutRequest serializes the 1-byte layer index request.
func EncodeKeyboardLayoutRequest(layer uint8) []byte {
	return []byte{layer}
}

// DecodeKeyboardLayoutRequest reads the layer index.
func DecodeKeyboardLayoutRequest(payload []byte) (layer uint8, ok bool) {
	if len(payload) < 1 {
		return 0, false
	}
	return payload[0], true
}

// EncodeKeyboardLayoutAck serializes a keyboard width byte followed by the
// layout's (scancode,type,usbcode) tuples.
func EncodeKeyboardLayoutAck(width uint8, entries []KeyboardLayoutEntry) []byte {
	out := make([]byte, 1+5*len(entries))
	out[0] = width
	for i, e := range entries {
		off := 1 + i*5
		binary.LittleEndian.PutUint16(out[off:], e.Scancode)
		out[off+2] = e.Type
		binary.LittleEndian.PutUint16(out[off+3:], e.USBCode)
	}
	return out
}

// DecodeKeyboardLayoutAck parses a Keyboard Layout ACK payload.
func DecodeKeyboardLayoutAck(payload []byte) (width uint8, entries []KeyboardLayoutEntry, ok bool) {
	if len(payload) < 1 {
		return 0, nil, false
	}
	width = payload[0]
	rest := payload[1:]
	for off := 0; off+5 <= len(rest); off += 5 {
		entries = append(entries, KeyboardLayoutEntry{
			Scancode: binary.LittleEndian.Uint16(rest[off:]),
			Type:     rest[off+2],
			USBCode:  binary.LittleEndian.Uint16(rest[off+3:]),
		})
	}
	return width, entries, true
}

// ButtonLayoutEntry is one physical-button descriptor in a Button Layout
// ACK (0x13): a 16-bit button ID and six axis coordinates.
type ButtonLayoutEntry struct {
	ID                     uint16
	X, Y, Z, RX, RY, RZ    int16
}

// EncodeButtonLayoutAck serializes the Button Layout ACK payload.
func EncodeButtonLayoutAck(entries []ButtonLayoutEntry) []byte {
	out := make([]byte, 14*len(entries))
	for i, e := range entries {
		off := i * 14
		binary.LittleEndian.PutUint16(out[off:], e.ID)
		binary.LittleEndian.PutUint16(out[off+2:], uint16(e.X))
		binary.LittleEndian.PutUint16(out[off+4:], uint16(e.Y))
		binary.LittleEndian.PutUint16(out[off+6:], uint16(e.Z))
		binary.LittleEndian.PutUint16(out[off+8:], uint16(e.RX))
		binary.LittleEndian.PutUint16(out[off+10:], uint16(e.RY))
		binary.LittleEndian.PutUint16(out[off+12:], uint16(e.RZ))
	}
	return out
}

// DecodeButtonLayoutAck parses a Button Layout ACK payload.
func DecodeButtonLayoutAck(payload []byte) []ButtonLayoutEntry {
	entries := make([]ButtonLayoutEntry, 0, len(payload)/14)
	for off := 0; off+14 <= len(payload); off += 14 {
		entries = append(entries, ButtonLayoutEntry{
			ID: binary.LittleEndian.Uint16(payload[off:]),
			X:  int16(binary.LittleEndian.Uint16(payload[off+2:])),
			Y:  int16(binary.LittleEndian.Uint16(payload[off+4:])),
			Z:  int16(binary.LittleEndian.Uint16(payload[off+6:])),
			RX: int16(binary.LittleEndian.Uint16(payload[off+8:])),
			RY: int16(binary.LittleEndian.Uint16(payload[off+10:])),
			RZ: int16(binary.LittleEndian.Uint16(payload[off+12:])),
		})
	}
	return entries
}

// LEDLayoutType selects which LED class an LED Layout request asks about.
type LEDLayoutType uint8

// EncodeLEDLayoutRequest serializes the 1-byte LED-type request.
func EncodeLEDLayoutRequest(t LEDLayoutType) []byte {
	return []byte{byte(t)}
}

// DecodeLEDLayoutRequest reads the LED-type byte.
func DecodeLEDLayoutRequest(payload []byte) (LEDLayoutType, bool) {
	if len(payload) < 1 {
		return 0, false
	}
	return LEDLayoutType(payload[0]), true
}

// EncodeLEDLayoutAck serializes the per-type list of LED pixel indices.
func EncodeLEDLayoutAck(indices []uint16) []byte {
	return EncodeSupportedIDsAck(indices)
}

// DecodeLEDLayoutAck parses an LED Layout ACK payload.
func DecodeLEDLayoutAck(payload []byte) []uint16 {
	return DecodeSupportedIDsAck(payload)
}

// FlashModeNakReason is the 1-byte reason a Flash Mode request was
// refused.
type FlashModeNakReason uint8

const (
	FlashModeNotSupported FlashModeNakReason = 0x00
	FlashModeDisabled     FlashModeNakReason = 0x01
)

// EncodeFlashModeAck serializes the 16-bit scancode the user must press
// to confirm entry into flash mode.
func EncodeFlashModeAck(scancode uint16) []byte {
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, scancode)
	return out
}

// DecodeFlashModeAck parses a Flash Mode ACK payload.
func DecodeFlashModeAck(payload []byte) (uint16, bool) {
	if len(payload) < 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(payload), true
}

// SleepModeNakReason is the 1-byte reason a Sleep Mode request was
// refused (§6).
type SleepModeNakReason uint8

const (
	SleepModeNotSupported SleepModeNakReason = 0x00
	SleepModeDisabled     SleepModeNakReason = 0x01
	SleepModeNotReady     SleepModeNakReason = 0x02
)
