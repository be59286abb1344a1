package device

import (
	"errors"
	"testing"

	"github.com/hidio-go/hidio/catalog"
	"github.com/hidio-go/hidio/protocol"
)

func testState() *State {
	return NewState(Properties{
		DeviceName:      "test-keyboard",
		FirmwareName:    "hidio-fw",
		FirmwareVersion: 0x0105,
	}, 16, nil)
}

func TestRegistrySupportsEveryDeviceID(t *testing.T) {
	reg := NewRegistry(testState())
	for _, id := range deviceIDs {
		if !reg.IsSupported(id) {
			t.Errorf("id %#x not registered", id)
		}
	}
}

func TestSupportedIDsHandlerListsAllIDs(t *testing.T) {
	reg := NewRegistry(testState())
	spec, ok := reg.Lookup(catalog.IDSupportedIDs)
	if !ok {
		t.Fatal("supported_ids not registered")
	}
	ack, err := spec.Handle(nil)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	ids := catalog.DecodeSupportedIDsAck(ack)
	if len(ids) != len(deviceIDs) {
		t.Fatalf("got %d ids, want %d", len(ids), len(deviceIDs))
	}
}

func TestGetInfoFirmwareVersion(t *testing.T) {
	reg := NewRegistry(testState())
	spec, _ := reg.Lookup(catalog.IDGetInfo)
	ack, err := spec.Handle(catalog.EncodeGetInfoRequest(catalog.InfoFirmwareVersion))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	v, ok := catalog.DecodeGetInfoVersionAck(ack)
	if !ok || v != 0x0105 {
		t.Fatalf("got %d, %v, want 0x0105, true", v, ok)
	}
}

func TestGetInfoUnknownSelectorNaks(t *testing.T) {
	reg := NewRegistry(testState())
	spec, _ := reg.Lookup(catalog.IDGetInfo)
	_, err := spec.Handle(catalog.EncodeGetInfoRequest(0x7F))
	var nakErr *protocol.NakError
	if err == nil {
		t.Fatal("expected error for unknown selector")
	}
	if !errors.As(err, &nakErr) {
		t.Fatalf("expected *protocol.NakError, got %T", err)
	}
	if len(nakErr.Payload) != 1 || nakErr.Payload[0] != 0x7F {
		t.Fatalf("nak payload = %v, want [0x7F]", nakErr.Payload)
	}
}

func TestTestPacketEchoesPayload(t *testing.T) {
	reg := NewRegistry(testState())
	spec, _ := reg.Lookup(catalog.IDTestPacket)
	ack, err := spec.Handle([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if string(ack) != "\x01\x02\x03" {
		t.Fatalf("echoed %v, want [1 2 3]", ack)
	}
}

func TestFlashModeNaksWhenDisabled(t *testing.T) {
	s := testState()
	reg := NewRegistry(s)
	spec, _ := reg.Lookup(catalog.IDFlashMode)
	_, err := spec.Handle(nil)
	var nakErr *protocol.NakError
	if !errors.As(err, &nakErr) {
		t.Fatalf("expected *protocol.NakError when flash mode disabled, got %v", err)
	}
	if nakErr.Payload[0] != byte(catalog.FlashModeDisabled) {
		t.Fatalf("nak reason = %v, want FlashModeDisabled", nakErr.Payload)
	}
}

func TestFlashModeAcksWhenEnabled(t *testing.T) {
	s := testState()
	s.FlashEnabled = true
	s.flashScancode = 0x29
	reg := NewRegistry(s)
	spec, _ := reg.Lookup(catalog.IDFlashMode)
	ack, err := spec.Handle(nil)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	sc, ok := catalog.DecodeFlashModeAck(ack)
	if !ok || sc != 0x29 {
		t.Fatalf("got %d, %v, want 0x29, true", sc, ok)
	}
}

func TestPixelSet3Ch8bWritesThroughDriver(t *testing.T) {
	drv := &recordingPixelDriver{}
	s := NewState(Properties{}, 4, drv)
	reg := NewRegistry(s)
	spec, _ := reg.Lookup(catalog.IDPixelSet3Ch8b)
	_, err := spec.Handle(catalog.EncodePixelSet3Ch8b(0, []catalog.RGB8{{R: 255, G: 128, B: 0}}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(drv.sets) != 1 || drv.sets[0] != [4]uint16{0, 255 << 8, 128 << 8, 0} {
		t.Fatalf("driver saw %v", drv.sets)
	}
	if !drv.flushed {
		t.Fatal("expected Flush to be called")
	}
}

func TestPixelSetOutOfRangeIndexIsIgnored(t *testing.T) {
	drv := &recordingPixelDriver{}
	s := NewState(Properties{}, 1, drv)
	reg := NewRegistry(s)
	spec, _ := reg.Lookup(catalog.IDPixelSet3Ch8b)
	_, err := spec.Handle(catalog.EncodePixelSet3Ch8b(0, []catalog.RGB8{{R: 1}, {R: 2}}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(drv.sets) != 1 {
		t.Fatalf("expected only the in-range pixel to be written, got %d writes", len(drv.sets))
	}
}

func TestManufacturingTestDispatchesRegisteredCase(t *testing.T) {
	s := testState()
	s.ManufacturingTests[7] = func(arg uint16) ([]byte, error) {
		return []byte{byte(arg)}, nil
	}
	reg := NewRegistry(s)
	spec, _ := reg.Lookup(catalog.IDManufacturingTest)
	ack, err := spec.Handle(catalog.EncodeManufacturingTestRequest(7, 9))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	cmd, arg, result, ok := catalog.DecodeManufacturingTestResult(ack)
	if !ok || cmd != 7 || arg != 9 || len(result) != 1 || result[0] != 9 {
		t.Fatalf("got %d %d %v %v", cmd, arg, result, ok)
	}
}

func TestManufacturingTestUnregisteredCaseErrors(t *testing.T) {
	reg := NewRegistry(testState())
	spec, _ := reg.Lookup(catalog.IDManufacturingTest)
	if _, err := spec.Handle(catalog.EncodeManufacturingTestRequest(99, 0)); err == nil {
		t.Fatal("expected an error for an unregistered manufacturing test case")
	}
}

type recordingPixelDriver struct {
	sets    [][4]uint16
	flushed bool
}

func (d *recordingPixelDriver) Set(index, r, g, b uint16) error {
	d.sets = append(d.sets, [4]uint16{index, r, g, b})
	return nil
}
func (d *recordingPixelDriver) Clear() error { return nil }
func (d *recordingPixelDriver) Flush() error { d.flushed = true; return nil }
