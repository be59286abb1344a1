package catalog

import (
	"reflect"
	"testing"
)

func TestSupportedIDsRoundTrip(t *testing.T) {
	ids := []uint16{0x00, 0x01, 0x17, 0xFFFF}
	got := DecodeSupportedIDsAck(EncodeSupportedIDsAck(ids))
	if !reflect.DeepEqual(got, ids) {
		t.Fatalf("round trip = %v, want %v", got, ids)
	}
}

func TestGetInfoVersionRoundTrip(t *testing.T) {
	payload := EncodeGetInfoVersionAck(0x0105)
	v, ok := DecodeGetInfoVersionAck(payload)
	if !ok || v != 0x0105 {
		t.Fatalf("decoded version = %d, %v, want 0x0105, true", v, ok)
	}
}

func TestGetInfoSelectorRoundTrip(t *testing.T) {
	payload := EncodeGetInfoRequest(InfoFirmwareVersion)
	sel, ok := DecodeGetInfoRequest(payload)
	if !ok || sel != InfoFirmwareVersion {
		t.Fatalf("decoded selector = %v, %v, want InfoFirmwareVersion, true", sel, ok)
	}
}

func TestUTF8CharacterStreamRoundTrip(t *testing.T) {
	s := "hid-io"
	got := DecodeUTF8CharacterStream(EncodeUTF8CharacterStream(s))
	if got != s {
		t.Fatalf("round trip = %q, want %q", got, s)
	}
}

func TestKeyboardLayoutRoundTrip(t *testing.T) {
	entries := []KeyboardLayoutEntry{
		{Scancode: 0x04, Type: 1, USBCode: 0x04},
		{Scancode: 0x05, Type: 1, USBCode: 0x05},
	}
	payload := EncodeKeyboardLayoutAck(104, entries)
	width, got, ok := DecodeKeyboardLayoutAck(payload)
	if !ok || width != 104 || !reflect.DeepEqual(got, entries) {
		t.Fatalf("decoded = %d, %v, %v, want 104, %v, true", width, got, ok, entries)
	}
}

func TestButtonLayoutRoundTrip(t *testing.T) {
	entries := []ButtonLayoutEntry{{ID: 1, X: -10, Y: 20, Z: 0, RX: 1, RY: 2, RZ: 3}}
	got := DecodeButtonLayoutAck(EncodeButtonLayoutAck(entries))
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("round trip = %+v, want %+v", got, entries)
	}
}

func TestPixelSet3Ch8bRoundTrip(t *testing.T) {
	pixels := []RGB8{{R: 255, G: 0, B: 128}, {R: 1, G: 2, B: 3}}
	start, got, ok := DecodePixelSet3Ch8b(EncodePixelSet3Ch8b(10, pixels))
	if !ok || start != 10 || !reflect.DeepEqual(got, pixels) {
		t.Fatalf("decoded = %d, %+v, %v, want 10, %+v, true", start, got, ok, pixels)
	}
}

func TestPixelSet3Ch16bRoundTrip(t *testing.T) {
	pixels := []RGB16{{R: 0xFFFF, G: 0x0000, B: 0x8000}}
	start, got, ok := DecodePixelSet3Ch16b(EncodePixelSet3Ch16b(3, pixels))
	if !ok || start != 3 || !reflect.DeepEqual(got, pixels) {
		t.Fatalf("decoded = %d, %+v, %v, want 3, %+v, true", start, got, ok, pixels)
	}
}

func TestHIDKeyboardStateRoundTrip(t *testing.T) {
	pressed := []uint8{4, 5, 200}
	got, ok := DecodeHIDKeyboardState(EncodeHIDKeyboardState(pressed))
	if !ok || !reflect.DeepEqual(got, pressed) {
		t.Fatalf("decoded = %v, %v, want %v, true", got, ok, pressed)
	}
}

func TestHIDKeyboardLEDStateRoundTrip(t *testing.T) {
	lit := []KeyboardLED{LEDCapsLock, LEDScrollLock}
	got, ok := DecodeHIDKeyboardLEDState(EncodeHIDKeyboardLEDState(lit))
	if !ok || !reflect.DeepEqual(got, lit) {
		t.Fatalf("decoded = %v, %v, want %v, true", got, ok, lit)
	}
}

func TestManufacturingTestResultRoundTrip(t *testing.T) {
	cmd, arg, result, ok := DecodeManufacturingTestResult(EncodeManufacturingTestResult(1, 2, []byte{9, 9, 9}))
	if !ok || cmd != 1 || arg != 2 || !reflect.DeepEqual(result, []byte{9, 9, 9}) {
		t.Fatalf("decoded = %d %d %v %v, want 1 2 [9 9 9] true", cmd, arg, result, ok)
	}
}
