package catalog

import "encoding/binary"

// Host -> device command IDs (§6) for LED pixel control.
const (
	IDPixelSetting   uint32 = 0x21
	IDPixelSet1Ch8b  uint32 = 0x22
	IDPixelSet3Ch8b  uint32 = 0x23
	IDPixelSet1Ch16b uint32 = 0x24
	IDPixelSet3Ch16b uint32 = 0x25
)

// PixelSettingCommand selects the sub-operation a Pixel Setting request
// performs (enable/disable control, reset, or clear of the pixel buffer).
type PixelSettingCommand uint16

const (
	PixelSettingControl PixelSettingCommand = 0x00
	PixelSettingReset   PixelSettingCommand = 0x01
	PixelSettingClear   PixelSettingCommand = 0x02
)

// EncodePixelSettingRequest serializes a command/arg pair (0x21).
func EncodePixelSettingRequest(cmd PixelSettingCommand, arg uint16) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint16(out, uint16(cmd))
	binary.LittleEndian.PutUint16(out[2:], arg)
	return out
}

// DecodePixelSettingRequest parses a Pixel Setting request.
func DecodePixelSettingRequest(payload []byte) (cmd PixelSettingCommand, arg uint16, ok bool) {
	if len(payload) < 4 {
		return 0, 0, false
	}
	return PixelSettingCommand(binary.LittleEndian.Uint16(payload)), binary.LittleEndian.Uint16(payload[2:]), true
}

// RGB8 is one 8-bit-per-channel pixel value.
type RGB8 struct{ R, G, B uint8 }

// RGB16 is one 16-bit-per-channel pixel value.
type RGB16 struct{ R, G, B uint16 }

// EncodePixelSet1Ch8b serializes a single-channel, 8-bit-per-pixel Pixel
// Set request (0x22): a starting pixel index followed by one byte per
// pixel.
func EncodePixelSet1Ch8b(start uint16, values []uint8) []byte {
	out := make([]byte, 2+len(values))
	binary.LittleEndian.PutUint16(out, start)
	copy(out[2:], values)
	return out
}

// DecodePixelSet1Ch8b parses a single-channel, 8-bit Pixel Set request.
func DecodePixelSet1Ch8b(payload []byte) (start uint16, values []uint8, ok bool) {
	if len(payload) < 2 {
		return 0, nil, false
	}
	start = binary.LittleEndian.Uint16(payload)
	values = append([]uint8(nil), payload[2:]...)
	return start, values, true
}

// EncodePixelSet3Ch8b serializes a 3-channel (RGB), 8-bit-per-channel
// Pixel Set request (0x23).
func EncodePixelSet3Ch8b(start uint16, pixels []RGB8) []byte {
	out := make([]byte, 2+3*len(pixels))
	binary.LittleEndian.PutUint16(out, start)
	for i, p := range pixels {
		off := 2 + i*3
		out[off], out[off+1], out[off+2] = p.R, p.G, p.B
	}
	return out
}

// DecodePixelSet3Ch8b parses a 3-channel, 8-bit Pixel Set request.
func DecodePixelSet3Ch8b(payload []byte) (start uint16, pixels []RGB8, ok bool) {
	if len(payload) < 2 {
		return 0, nil, false
	}
	start = binary.LittleEndian.Uint16(payload)
	rest := payload[2:]
	pixels = make([]RGB8, 0, len(rest)/3)
	for off := 0; off+3 <= len(rest); off += 3 {
		pixels = append(pixels, RGB8{R: rest[off], G: rest[off+1], B: rest[off+2]})
	}
	return start, pixels, true
}

// EncodePixelSet1Ch16b serializes a single-channel, 16-bit-per-pixel
// Pixel Set request (0x24).
func EncodePixelSet1Ch16b(start uint16, values []uint16) []byte {
	out := make([]byte, 2+2*len(values))
	binary.LittleEndian.PutUint16(out, start)
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[2+i*2:], v)
	}
	return out
}

// DecodePixelSet1Ch16b parses a single-channel, 16-bit Pixel Set request.
func DecodePixelSet1Ch16b(payload []byte) (start uint16, values []uint16, ok bool) {
	if len(payload) < 2 {
		return 0, nil, false
	}
	start = binary.LittleEndian.Uint16(payload)
	rest := payload[2:]
	values = make([]uint16, 0, len(rest)/2)
	for off := 0; off+2 <= len(rest); off += 2 {
		values = append(values, binary.LittleEndian.Uint16(rest[off:]))
	}
	return start, values, true
}

// EncodePixelSet3Ch16b serializes a 3-channel (RGB), 16-bit-per-channel
// Pixel Set request (0x25).
func EncodePixelSet3Ch16b(start uint16, pixels []RGB16) []byte {
	out := make([]byte, 2+6*len(pixels))
	binary.LittleEndian.PutUint16(out, start)
	for i, p := range pixels {
		off := 2 + i*6
		binary.LittleEndian.PutUint16(out[off:], p.R)
		binary.LittleEndian.PutUint16(out[off+2:], p.G)
		binary.LittleEndian.PutUint16(out[off+4:], p.B)
	}
	return out
}

// DecodePixelSet3Ch16b parses a 3-channel, 16-bit Pixel Set request.
func DecodePixelSet3Ch16b(payload []byte) (start uint16, pixels []RGB16, ok bool) {
	if len(payload) < 2 {
		return 0, nil, false
	}
	start = binary.LittleEndian.Uint16(payload)
	rest := payload[2:]
	pixels = make([]RGB16, 0, len(rest)/6)
	for off := 0; off+6 <= len(rest); off += 6 {
		pixels = append(pixels, RGB16{
			R: binary.LittleEndian.Uint16(rest[off:]),
			G: binary.LittleEndian.Uint16(rest[off+2:]),
			B: binary.LittleEndian.Uint16(rest[off+4:]),
		})
	}
	return start, pixels, true
}
