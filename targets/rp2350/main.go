//go:build rp2350

package main

import (
	"time"

	"github.com/hidio-go/hidio/device"
	"github.com/hidio-go/hidio/protocol"
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

const chunkSize = 64

var (
	inputBuffer [256]byte
	inputHead   int
	inputTail   int
)

// usbChunkSource adapts the byte-oriented USB CDC endpoint to
// device.ChunkSource, buffering inbound bytes until a full chunk has
// arrived.
type usbChunkSource struct{}

func (usbChunkSource) TryReadChunk() (protocol.Chunk, bool) {
	for USBAvailable() > 0 && (inputTail+1)%len(inputBuffer) != inputHead {
		b, err := USBRead()
		if err != nil {
			break
		}
		inputBuffer[inputTail] = b
		inputTail = (inputTail + 1) % len(inputBuffer)
	}

	available := (inputTail - inputHead + len(inputBuffer)) % len(inputBuffer)
	if available < chunkSize {
		return protocol.Chunk{}, false
	}

	var data [chunkSize]byte
	for i := 0; i < chunkSize; i++ {
		data[i] = inputBuffer[inputHead]
		inputHead = (inputHead + 1) % len(inputBuffer)
	}
	return protocol.NewChunk(data[:], chunkSize), true
}

func (usbChunkSource) WriteChunk(c protocol.Chunk) error {
	_, err := USBWriteBytes(c.Slice())
	return err
}

// ws2812PixelDriver implements device.PixelDriver over the bit-banged
// tinygo.org/x/drivers/ws2812 device, since RP2350 support in this
// package's PIO backend has not been wired up.
type ws2812PixelDriver struct {
	dev    ws2812.Device
	pixels []uint8 // GRB bytes, 3 per pixel
}

func newWS2812PixelDriver(pin machine.Pin, count int) *ws2812PixelDriver {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &ws2812PixelDriver{
		dev:    ws2812.New(pin),
		pixels: make([]uint8, count*3),
	}
}

func (d *ws2812PixelDriver) Set(index, r, g, b uint16) error {
	i := int(index) * 3
	if i+2 >= len(d.pixels) {
		return nil
	}
	d.pixels[i] = byte(g >> 8)
	d.pixels[i+1] = byte(r >> 8)
	d.pixels[i+2] = byte(b >> 8)
	return nil
}

func (d *ws2812PixelDriver) Clear() error {
	for i := range d.pixels {
		d.pixels[i] = 0
	}
	return nil
}

func (d *ws2812PixelDriver) Flush() error {
	return d.dev.WriteRaw(d.pixels)
}

func main() {
	InitDebugUART()
	device.SetFaultWriter(DebugPrintln)
	DebugPrintln("[MAIN] Starting main()")

	machine.LockCore(0)

	InitUSB()
	InitClock()
	device.SetHardwareTimerFunc(GetHardwareTime)
	DebugPrintln("[MAIN] USB and clock initialized")

	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		DebugPrintln("[MAIN] Watchdog config failed")
	}

	const pixelCount = 16
	driver := newWS2812PixelDriver(machine.GPIO2, pixelCount)

	state := device.NewState(device.Properties{
		DeviceName:      "hidio-rp2350",
		FirmwareName:    "hidio-fw",
		FirmwareVersion: 0x0100,
		DeviceMCU:       "rp2350",
	}, pixelCount, driver)

	registry := device.NewRegistry(state)
	cfg := protocol.DefaultConfig(chunkSize)
	rt := device.NewRuntime(cfg, registry, usbChunkSource{}, device.TimerFromUS(1000000))

	DebugPrintln("[MAIN] Entering main loop")
	rt.Start()
	for {
		func() {
			defer func() {
				if recover() != nil {
					device.RecordFault(device.FaultFrameError, 0, device.GetTime(), 0, 0)
				}
			}()
			rt.Step()
		}()
		time.Sleep(10 * time.Microsecond)
	}
}
