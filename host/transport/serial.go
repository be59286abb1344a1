//go:build !wasm

package transport

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig holds the parameters needed to open a raw-HID sideband
// endpoint presented to the host as a serial device.
type SerialConfig struct {
	// Device is the OS device path (e.g. "/dev/ttyACM0", "COM3").
	Device string

	// Baud is the nominal baud rate. USB CDC/HID endpoints ignore it,
	// but tarm/serial still requires a value.
	Baud int

	// ReadTimeout bounds a single Read call on the underlying port.
	// ReadChunk retries across timeouts until a full chunk has arrived,
	// so this only controls how often ReadChunk can notice the context
	// has expired.
	ReadTimeout time.Duration

	// ChunkSize is the fixed transport chunk length negotiated out of
	// band with the device (§1 - typically 64 on USB 2.0 Full-Speed).
	ChunkSize int
}

// DefaultSerialConfig returns sane defaults for a HID-IO sideband endpoint
// reached over a USB CDC/ACM serial device.
func DefaultSerialConfig(device string) SerialConfig {
	return SerialConfig{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 200 * time.Millisecond,
		ChunkSize:   64,
	}
}

// OpenSerial opens cfg.Device and wraps it as a ChunkReadWriter.
func OpenSerial(cfg SerialConfig) (ChunkReadWriter, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: open serial port %s: %w", cfg.Device, err)
	}
	return NewStreamChunkReadWriter(port, cfg.ChunkSize), nil
}
