package device

import (
	"github.com/hidio-go/hidio/catalog"
)

// PixelDriver abstracts the LED chain a Pixel Set/Setting command
// actually drives - a PIO-backed WS2812 chain on hardware
// (targets/pio/pixel_pio.go), or nothing at all in host-mode tests.
type PixelDriver interface {
	Set(index uint16, r, g, b uint16) error
	Clear() error
	Flush() error
}

// noopPixelDriver discards every write - the default when no hardware
// driver has been wired in, and what unit tests use.
type noopPixelDriver struct{}

func (noopPixelDriver) Set(index uint16, r, g, b uint16) error { return nil }
func (noopPixelDriver) Clear() error                           { return nil }
func (noopPixelDriver) Flush() error                           { return nil }

// Properties is the fixed set of device identity strings/versions Get
// Info (§6 ID 0x01) answers from, sized and filled once at construction.
type Properties struct {
	MajorVersion    uint16
	MinorVersion    uint16
	PatchVersion    uint16
	DeviceName      string
	DeviceSerial    string
	DeviceVersion   string
	DeviceMCU       string
	DeviceVendor    string
	FirmwareName    string
	FirmwareVersion uint16
}

// ManufacturingTestFunc runs one manufacturing test case, returning the
// raw result bytes to echo back in a Manufacturing Test Result (0x51).
type ManufacturingTestFunc func(arg uint16) ([]byte, error)

// State holds every piece of construction-time-sized, mutable state the
// catalog's command handlers (registry.go) read and write. A firmware
// build constructs exactly one of these at startup; nothing here grows.
type State struct {
	Props Properties

	Pixels      PixelDriver
	PixelCount  uint16
	pixelsOn    bool

	NKRO       [catalog.NKROBitmaskSize]byte
	LEDState   byte
	USBKeyMode catalog.USBKeyMode

	KeyboardLayouts map[uint8][]catalog.KeyboardLayoutEntry
	ButtonLayout    []catalog.ButtonLayoutEntry
	LEDLayouts      map[catalog.LEDLayoutType][]uint16

	FlashEnabled  bool
	flashScancode uint16

	SleepEnabled bool

	ManufacturingTests map[uint16]ManufacturingTestFunc
}

// NewState builds a State for a device with pixelCount LEDs, using driver
// to actually light them (or a no-op driver if nil).
func NewState(props Properties, pixelCount uint16, driver PixelDriver) *State {
	if driver == nil {
		driver = noopPixelDriver{}
	}
	return &State{
		Props:              props,
		Pixels:             driver,
		PixelCount:         pixelCount,
		KeyboardLayouts:    make(map[uint8][]catalog.KeyboardLayoutEntry),
		LEDLayouts:         make(map[catalog.LEDLayoutType][]uint16),
		ManufacturingTests: make(map[uint16]ManufacturingTestFunc),
	}
}
