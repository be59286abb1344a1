//go:build rp2040

package main

import (
	"time"

	"github.com/hidio-go/hidio/device"
	"github.com/hidio-go/hidio/protocol"
	"github.com/hidio-go/hidio/targets/pio"
	"machine"
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

// pixelDriverAdapter implements device.PixelDriver over the PIO WS2812
// backend, converting HID-IO's 16-bit-per-channel values to WS2812's
// 8-bit GRB wire format.
type pixelDriverAdapter struct {
	backend *pio.PIOPixelBackend
	grb     [][3]uint8
}

func (p *pixelDriverAdapter) Set(index, r, g, b uint16) error {
	if int(index) >= len(p.grb) {
		return nil
	}
	p.grb[index] = [3]uint8{byte(g >> 8), byte(r >> 8), byte(b >> 8)}
	return nil
}

func (p *pixelDriverAdapter) Clear() error {
	for i := range p.grb {
		p.grb[i] = [3]uint8{}
	}
	return nil
}

func (p *pixelDriverAdapter) Flush() error {
	p.backend.WriteGRB(p.grb)
	return nil
}

func main() {
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})

	InitUSB()
	InitClock()
	device.SetHardwareTimerFunc(GetHardwareTime)

	const pixelCount = 16
	backend := pio.NewPIOPixelBackend(0, 0)
	_ = backend.Init(uint8(machine.GPIO2))
	driver := &pixelDriverAdapter{backend: backend, grb: make([][3]uint8, pixelCount)}

	state := device.NewState(device.Properties{
		DeviceName:      "hidio-rp2040",
		FirmwareName:    "hidio-fw",
		FirmwareVersion: 0x0100,
		DeviceMCU:       "rp2040",
	}, pixelCount, driver)

	registry := device.NewRegistry(state)
	cfg := protocol.DefaultConfig(chunkSize)
	rt := device.NewRuntime(cfg, registry, usbChunkSource{}, device.TimerFromUS(1000000))

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
