package device

import (
	"errors"
	"fmt"

	"github.com/hidio-go/hidio/catalog"
	"github.com/hidio-go/hidio/protocol"
)

var errMalformedPayload = errors.New("device: malformed payload")

func (s *State) handleGetInfo(payload []byte) ([]byte, error) {
	sel, ok := catalog.DecodeGetInfoRequest(payload)
	if !ok {
		return nil, errMalformedPayload
	}
	switch sel {
	case catalog.InfoMajorVersion:
		return catalog.EncodeGetInfoVersionAck(s.Props.MajorVersion), nil
	case catalog.InfoMinorVersion:
		return catalog.EncodeGetInfoVersionAck(s.Props.MinorVersion), nil
	case catalog.InfoPatchVersion:
		return catalog.EncodeGetInfoVersionAck(s.Props.PatchVersion), nil
	case catalog.InfoDeviceName:
		return catalog.EncodeGetInfoStringAck(s.Props.DeviceName), nil
	case catalog.InfoDeviceSerial:
		return catalog.EncodeGetInfoStringAck(s.Props.DeviceSerial), nil
	case catalog.InfoDeviceVersion:
		return catalog.EncodeGetInfoStringAck(s.Props.DeviceVersion), nil
	case catalog.InfoDeviceMCU:
		return catalog.EncodeGetInfoStringAck(s.Props.DeviceMCU), nil
	case catalog.InfoDeviceVendor:
		return catalog.EncodeGetInfoStringAck(s.Props.DeviceVendor), nil
	case catalog.InfoFirmwareName:
		return catalog.EncodeGetInfoStringAck(s.Props.FirmwareName), nil
	case catalog.InfoFirmwareVersion:
		return catalog.EncodeGetInfoVersionAck(s.Props.FirmwareVersion), nil
	default:
		return nil, &protocol.NakError{Payload: catalog.EncodeGetInfoUnknownSelectorNak(sel)}
	}
}

func (s *State) handleGetDeviceProperties(payload []byte) ([]byte, error) {
	cmd, fieldID, ok := catalog.DecodeGetDevicePropertiesRequest(payload)
	if !ok {
		return nil, errMalformedPayload
	}
	switch cmd {
	case catalog.DevicePropertyList:
		return []byte{0, 1, 2}, nil
	case catalog.DevicePropertyField:
		return []byte{fieldID}, nil
	default:
		return nil, fmt.Errorf("device: unknown device property command %d", cmd)
	}
}

func (s *State) handleUSBKeyState(payload []byte) ([]byte, error) {
	mode, _, ok := catalog.DecodeUSBKeyStateRequest(payload)
	if !ok {
		return nil, errMalformedPayload
	}
	s.USBKeyMode = mode
	// A real firmware build injects codes into the USB HID report here;
	// every code is accepted in the absence of a concrete keymap.
	return catalog.EncodeUSBKeyStateAck(nil), nil
}

func (s *State) handleKeyboardLayout(payload []byte) ([]byte, error) {
	layer, ok := catalog.DecodeKeyboardLayoutRequest(payload)
	if !ok {
		return nil, errMalformedPayload
	}
	entries := s.KeyboardLayouts[layer]
	return catalog.EncodeKeyboardLayoutAck(uint8(len(entries)), entries), nil
}

func (s *State) handleLEDLayout(payload []byte) ([]byte, error) {
	t, ok := catalog.DecodeLEDLayoutRequest(payload)
	if !ok {
		return nil, errMalformedPayload
	}
	return catalog.EncodeLEDLayoutAck(s.LEDLayouts[t]), nil
}

func (s *State) handleFlashMode() ([]byte, error) {
	if !s.FlashEnabled {
		return nil, &protocol.NakError{Payload: []byte{byte(catalog.FlashModeDisabled)}}
	}
	return catalog.EncodeFlashModeAck(s.flashScancode), nil
}

func (s *State) handleSleepMode() ([]byte, error) {
	if !s.SleepEnabled {
		return nil, &protocol.NakError{Payload: []byte{byte(catalog.SleepModeNotSupported)}}
	}
	return nil, nil
}

func (s *State) handlePixelSetting(payload []byte) ([]byte, error) {
	cmd, arg, ok := catalog.DecodePixelSettingRequest(payload)
	if !ok {
		return nil, errMalformedPayload
	}
	switch cmd {
	case catalog.PixelSettingControl:
		s.pixelsOn = arg != 0
		return catalog.EncodePixelSettingRequest(cmd, arg), nil
	case catalog.PixelSettingReset:
		if err := s.Pixels.Clear(); err != nil {
			return nil, err
		}
		return catalog.EncodePixelSettingRequest(cmd, 0), nil
	case catalog.PixelSettingClear:
		if err := s.Pixels.Clear(); err != nil {
			return nil, err
		}
		return catalog.EncodePixelSettingRequest(cmd, 0), nil
	default:
		return nil, fmt.Errorf("device: unknown pixel setting command %d", cmd)
	}
}

func (s *State) handlePixelSet1Ch8b(payload []byte) error {
	start, values, ok := catalog.DecodePixelSet1Ch8b(payload)
	if !ok {
		return errMalformedPayload
	}
	for i, v := range values {
		idx := start + uint16(i)
		if idx >= s.PixelCount {
			break
		}
		if err := s.Pixels.Set(idx, uint16(v)<<8, uint16(v)<<8, uint16(v)<<8); err != nil {
			return err
		}
	}
	return s.Pixels.Flush()
}

func (s *State) handlePixelSet3Ch8b(payload []byte) error {
	start, pixels, ok := catalog.DecodePixelSet3Ch8b(payload)
	if !ok {
		return errMalformedPayload
	}
	for i, p := range pixels {
		idx := start + uint16(i)
		if idx >= s.PixelCount {
			break
		}
		if err := s.Pixels.Set(idx, uint16(p.R)<<8, uint16(p.G)<<8, uint16(p.B)<<8); err != nil {
			return err
		}
	}
	return s.Pixels.Flush()
}

func (s *State) handlePixelSet1Ch16b(payload []byte) error {
	start, values, ok := catalog.DecodePixelSet1Ch16b(payload)
	if !ok {
		return errMalformedPayload
	}
	for i, v := range values {
		idx := start + uint16(i)
		if idx >= s.PixelCount {
			break
		}
		if err := s.Pixels.Set(idx, v, v, v); err != nil {
			return err
		}
	}
	return s.Pixels.Flush()
}

func (s *State) handlePixelSet3Ch16b(payload []byte) error {
	start, pixels, ok := catalog.DecodePixelSet3Ch16b(payload)
	if !ok {
		return errMalformedPayload
	}
	for i, p := range pixels {
		idx := start + uint16(i)
		if idx >= s.PixelCount {
			break
		}
		if err := s.Pixels.Set(idx, p.R, p.G, p.B); err != nil {
			return err
		}
	}
	return s.Pixels.Flush()
}

func (s *State) handleHIDKeyboardState(payload []byte) error {
	pressed, ok := catalog.DecodeHIDKeyboardState(payload)
	if !ok {
		return errMalformedPayload
	}
	var bitmask [catalog.NKROBitmaskSize]byte
	for _, code := range pressed {
		bitmask[code/8] |= 1 << (code % 8)
	}
	s.NKRO = bitmask
	return nil
}

func (s *State) handleHIDKeyboardLEDState(payload []byte) error {
	lit, ok := catalog.DecodeHIDKeyboardLEDState(payload)
	if !ok {
		return errMalformedPayload
	}
	var b byte
	for _, led := range lit {
		b |= 1 << uint(led)
	}
	s.LEDState = b
	return nil
}

func (s *State) handleManufacturingTest(payload []byte) ([]byte, error) {
	cmd, arg, ok := catalog.DecodeManufacturingTestRequest(payload)
	if !ok {
		return nil, errMalformedPayload
	}
	fn, ok := s.ManufacturingTests[cmd]
	if !ok {
		return nil, fmt.Errorf("device: unregistered manufacturing test %d", cmd)
	}
	result, err := fn(arg)
	if err != nil {
		return nil, err
	}
	return catalog.EncodeManufacturingTestResult(cmd, arg, result), nil
}
