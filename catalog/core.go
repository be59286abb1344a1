// Package catalog implements the Command Catalog (§4.6, §6): the wire
// payload and semantics of every standard HID-IO command ID. Each file
// groups one command family and exposes plain encode/decode functions
// plus a constructor for the protocol.CommandSpec a device or host wires
// into its protocol.Registry - the catalog itself never touches a
// Registry or a Dispatcher.
package catalog

import "encoding/binary"

// Core command IDs (§6), handled by both host and device.
const (
	IDSupportedIDs uint32 = 0x00
	IDGetInfo      uint32 = 0x01
	IDTestPacket   uint32 = 0x02
	IDResetHIDIO   uint32 = 0x03
)

// GetInfoSelector is the 1-byte property selector carried in a Get Info
// request (§6).
type GetInfoSelector uint8

const (
	InfoUnknown            GetInfoSelector = 0x00
	InfoMajorVersion       GetInfoSelector = 0x01
	InfoMinorVersion       GetInfoSelector = 0x02
	InfoPatchVersion       GetInfoSelector = 0x03
	InfoDeviceName         GetInfoSelector = 0x04
	InfoDeviceSerial       GetInfoSelector = 0x05
	InfoDeviceVersion      GetInfoSelector = 0x06
	InfoDeviceMCU          GetInfoSelector = 0x07
	InfoFirmwareName       GetInfoSelector = 0x08
	InfoFirmwareVersion    GetInfoSelector = 0x09
	InfoDeviceVendor       GetInfoSelector = 0x0A
	InfoOSType             GetInfoSelector = 0x0B
	InfoOSVersion          GetInfoSelector = 0x0C
	InfoHostSoftwareName   GetInfoSelector = 0x0D
)

// EncodeSupportedIDsAck serializes the ACK payload for Supported IDs
// (0x00): a flat list of little-endian 16-bit IDs.
func EncodeSupportedIDsAck(ids []uint16) []byte {
	out := make([]byte, len(ids)*2)
	for i, id := range ids {
		binary.LittleEndian.PutUint16(out[i*2:], id)
	}
	return out
}

// DecodeSupportedIDsAck parses a Supported IDs ACK payload.
func DecodeSupportedIDsAck(payload []byte) []uint16 {
	out := make([]uint16, 0, len(payload)/2)
	for i := 0; i+1 < len(payload); i += 2 {
		out = append(out, binary.LittleEndian.Uint16(payload[i:]))
	}
	return out
}

// EncodeGetInfoRequest serializes the 1-byte Get Info request.
func EncodeGetInfoRequest(sel GetInfoSelector) []byte {
	return []byte{byte(sel)}
}

// DecodeGetInfoRequest reads the selector out of a Get Info request.
func DecodeGetInfoRequest(payload []byte) (GetInfoSelector, bool) {
	if len(payload) < 1 {
		return InfoUnknown, false
	}
	return GetInfoSelector(payload[0]), true
}

// EncodeGetInfoVersionAck encodes a u16 version value: a protocol-version
// component (selectors 0x01-0x03), or the firmware version (0x09) as the
// device package answers it.
func EncodeGetInfoVersionAck(v uint16) []byte {
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, v)
	return out
}

// DecodeGetInfoVersionAck reads a u16 protocol-version component.
func DecodeGetInfoVersionAck(payload []byte) (uint16, bool) {
	if len(payload) < 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(payload), true
}

// EncodeGetInfoStringAck encodes a UTF-8 string property value (device
// name, serial, MCU, firmware name, vendor, OS version, host software
// name).
func EncodeGetInfoStringAck(s string) []byte {
	return []byte(s)
}

// DecodeGetInfoStringAck decodes a UTF-8 string property value.
func DecodeGetInfoStringAck(payload []byte) string {
	return string(payload)
}

// EncodeGetInfoUnknownSelectorNak echoes the requested selector byte back,
// per §6 "Unknown selector -> NAK with the requested selector byte echoed".
func EncodeGetInfoUnknownSelectorNak(sel GetInfoSelector) []byte {
	return []byte{byte(sel)}
}
