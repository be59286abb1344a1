//go:build rp2040

package pio

// PIO-backed WS2812 pixel backend, adapted from the stepper pulse-train
// backend: the same AssemblerV0/state-machine plumbing, driving a
// single-wire LED protocol instead of a step/dir pair. Each 24-bit GRB
// word is pushed to the state machine one bit at a time, with the PIO
// program stretching the pin-high time per §2's T0H/T1H timing depending
// on the bit value pulled from OSR.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildWS2812Program encodes one PIO program cycle per output bit: pull a
// bit, drive the pin high for the short T1 slice always, then either end
// early (a zero bit) or hold high through T2 as well (a one bit), then
// drop low for the remainder of the bit period.
func buildWS2812Program() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),              // 0: pull block
		asm.Set(rp2pio.SetDestPins, 1).Delay(2).Encode(), // 1: set pins, 1 [2]  (T1: always-high slice)
		asm.Out(rp2pio.OutDestX, 1).Encode(),         // 2: out x, 1 (next data bit)
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(),     // 3: jmp !x-dec-zero -> 4 (zero bit: drop early)
		asm.Jmp(5, rp2pio.JmpAlways).Delay(3).Encode(), // skip ahead, holding high [3] for a one bit
		// zero_bit (addr 4):
		asm.Set(rp2pio.SetDestPins, 0).Delay(3).Encode(), // 4: set pins, 0 [3]
		// bit_done (addr 5):
		asm.Set(rp2pio.SetDestPins, 0).Encode(), // 5: set pins, 0 (ensure low before next pull)
		// .wrap
	}
}

const ws2812PIOOrigin = 0

// PIOPixelBackend drives a WS2812/SK6812-style single-wire LED chain
// using a claimed PIO state machine.
type PIOPixelBackend struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	dIn    machine.Pin
	offset uint8
	pioNum uint8
	smNum  uint8
}

// NewPIOPixelBackend creates a pixel backend bound to one PIO block/state
// machine pair (pioNum 0/1, smNum 0-3), matching the stepper backend's
// construction convention.
func NewPIOPixelBackend(pioNum, smNum uint8) *PIOPixelBackend {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}
	return &PIOPixelBackend{
		pio:    pioHW,
		sm:     pioHW.StateMachine(smNum),
		pioNum: pioNum,
		smNum:  smNum,
	}
}

// Init claims the state machine, loads the WS2812 program, and configures
// dataPin as the LED data line.
func (b *PIOPixelBackend) Init(dataPin uint8) error {
	b.dIn = machine.Pin(dataPin)

	b.sm.TryClaim()

	program := buildWS2812Program()
	offset, err := b.pio.AddProgram(program, ws2812PIOOrigin)
	if err != nil {
		return err
	}
	b.offset = offset

	b.dIn.Configure(machine.PinConfig{Mode: b.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(b.dIn, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1, 0)

	b.sm.Init(offset, cfg)
	b.sm.SetPindirsConsecutive(b.dIn, 1, true)
	b.sm.SetPinsConsecutive(b.dIn, 1, false)
	b.sm.SetEnabled(true)

	return nil
}

// WriteGRB pushes one chain's worth of 24-bit GRB pixel words, bit by
// bit, MSB first per pixel.
func (b *PIOPixelBackend) WriteGRB(pixels [][3]uint8) {
	for _, p := range pixels {
		word := uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
		for bit := 23; bit >= 0; bit-- {
			v := (word >> uint(bit)) & 1
			for b.sm.IsTxFIFOFull() {
			}
			b.sm.TxPut(v << 31)
		}
	}
}

// Stop halts and clears the state machine.
func (b *PIOPixelBackend) Stop() {
	b.sm.SetEnabled(false)
	b.sm.ClearFIFOs()
	b.sm.Restart()
}

// GetName identifies this backend for diagnostics.
func (b *PIOPixelBackend) GetName() string {
	return "PIO-WS2812"
}
