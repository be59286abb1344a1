package device

import (
	"fmt"

	"github.com/hidio-go/hidio/catalog"
	"github.com/hidio-go/hidio/protocol"
)

// deviceIDs lists every command this package answers, used both to size
// the Registry and to answer Supported IDs (§6 ID 0x00) truthfully.
var deviceIDs = []uint32{
	catalog.IDSupportedIDs,
	catalog.IDGetInfo,
	catalog.IDTestPacket,
	catalog.IDResetHIDIO,
	catalog.IDGetDeviceProperties,
	catalog.IDUSBKeyState,
	catalog.IDKeyboardLayout,
	catalog.IDButtonLayout,
	catalog.IDLEDLayout,
	catalog.IDFlashMode,
	catalog.IDSleepMode,
	catalog.IDPixelSetting,
	catalog.IDPixelSet1Ch8b,
	catalog.IDPixelSet3Ch8b,
	catalog.IDPixelSet1Ch16b,
	catalog.IDPixelSet3Ch16b,
	catalog.IDHIDKeyboardState,
	catalog.IDHIDKeyboardLEDState,
	catalog.IDManufacturingTest,
}

// NewRegistry builds the protocol.Registry a firmware build wires into
// its Dispatcher, binding every catalog command this package understands
// to s's live state.
func NewRegistry(s *State) *protocol.Registry {
	reg := protocol.NewRegistry(len(deviceIDs))

	must := func(spec protocol.CommandSpec) {
		if err := reg.Register(&spec); err != nil {
			panic(fmt.Sprintf("device: registering %s: %v", spec.Name, err))
		}
	}

	must(protocol.CommandSpec{
		ID: catalog.IDSupportedIDs, Name: "supported_ids",
		Handle: func([]byte) ([]byte, error) {
			ids := make([]uint16, len(deviceIDs))
			for i, id := range deviceIDs {
				ids[i] = uint16(id)
			}
			return catalog.EncodeSupportedIDsAck(ids), nil
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDGetInfo, Name: "get_info",
		Handle: func(payload []byte) ([]byte, error) {
			return s.handleGetInfo(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDTestPacket, Name: "test_packet",
		Handle: func(payload []byte) ([]byte, error) {
			return append([]byte(nil), payload...), nil
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDResetHIDIO, Name: "reset_hidio",
		Handle: func([]byte) ([]byte, error) {
			return nil, nil
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDGetDeviceProperties, Name: "get_device_properties",
		Handle: func(payload []byte) ([]byte, error) {
			return s.handleGetDeviceProperties(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDUSBKeyState, Name: "usb_key_state",
		Handle: func(payload []byte) ([]byte, error) {
			return s.handleUSBKeyState(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDKeyboardLayout, Name: "keyboard_layout",
		Handle: func(payload []byte) ([]byte, error) {
			return s.handleKeyboardLayout(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDButtonLayout, Name: "button_layout",
		Handle: func([]byte) ([]byte, error) {
			return catalog.EncodeButtonLayoutAck(s.ButtonLayout), nil
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDLEDLayout, Name: "led_layout",
		Handle: func(payload []byte) ([]byte, error) {
			return s.handleLEDLayout(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDFlashMode, Name: "flash_mode",
		Handle: func([]byte) ([]byte, error) {
			return s.handleFlashMode()
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDSleepMode, Name: "sleep_mode",
		Handle: func([]byte) ([]byte, error) {
			return s.handleSleepMode()
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDPixelSetting, Name: "pixel_setting",
		Handle: func(payload []byte) ([]byte, error) {
			return s.handlePixelSetting(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDPixelSet1Ch8b, Name: "pixel_set_1ch_8b",
		Handle: func(payload []byte) ([]byte, error) {
			return nil, s.handlePixelSet1Ch8b(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDPixelSet3Ch8b, Name: "pixel_set_3ch_8b",
		Handle: func(payload []byte) ([]byte, error) {
			return nil, s.handlePixelSet3Ch8b(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDPixelSet1Ch16b, Name: "pixel_set_1ch_16b",
		Handle: func(payload []byte) ([]byte, error) {
			return nil, s.handlePixelSet1Ch16b(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDPixelSet3Ch16b, Name: "pixel_set_3ch_16b",
		Handle: func(payload []byte) ([]byte, error) {
			return nil, s.handlePixelSet3Ch16b(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDHIDKeyboardState, Name: "hid_keyboard_state",
		Handle: func(payload []byte) ([]byte, error) {
			return nil, s.handleHIDKeyboardState(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDHIDKeyboardLEDState, Name: "hid_keyboard_led_state",
		Handle: func(payload []byte) ([]byte, error) {
			return nil, s.handleHIDKeyboardLEDState(payload)
		},
	})

	must(protocol.CommandSpec{
		ID: catalog.IDManufacturingTest, Name: "manufacturing_test",
		Handle: func(payload []byte) ([]byte, error) {
			return s.handleManufacturingTest(payload)
		},
	})

	return reg
}
