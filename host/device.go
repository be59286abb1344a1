// Package host implements the message-level half of the HID-IO sideband
// protocol (§1): a connection to a single device reached over a
// ChunkReadWriter, with its own Decoder for reassembly and a Dispatcher
// for command handling, leaving transport-side framing to the caller per
// the protocol package's message-level contract.
package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/hidio-go/hidio/catalog"
	"github.com/hidio-go/hidio/host/transport"
	"github.com/hidio-go/hidio/protocol"
)

// Device is a live connection to one HID-IO sideband endpoint.
type Device struct {
	cfg  protocol.Config
	rw   transport.ChunkReadWriter
	dec  *protocol.Decoder
	disp *protocol.Dispatcher
	log  *log.Logger

	writeMu sync.Mutex

	capsOnce sync.Once
	capsMu   sync.Mutex
	caps     []uint16
	capsErr  error

	done chan struct{}
}

// NewDevice wraps rw as a Device, using registry to answer incoming Data/
// NAData messages. logger may be nil, in which case a device-scoped
// logger is created from log.Default().
func NewDevice(cfg protocol.Config, rw transport.ChunkReadWriter, registry *protocol.Registry, logger *log.Logger) *Device {
	if logger == nil {
		logger = log.Default().With("component", "host.Device")
	}
	return &Device{
		cfg:  cfg,
		rw:   rw,
		dec:  protocol.NewDecoder(cfg),
		disp: protocol.NewDispatcher(cfg, registry),
		log:  logger,
		done: make(chan struct{}),
	}
}

// Run reads chunks from the transport until it errors or ctx is
// cancelled, decoding them into messages and answering or resolving each
// one. It is meant to run in its own goroutine for the lifetime of the
// connection; SendMessage may be called concurrently from other
// goroutines while Run is active.
func (d *Device) Run(ctx context.Context) error {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunk, err := d.rw.ReadChunk()
		if err != nil {
			return fmt.Errorf("host: read chunk: %w", err)
		}

		msg, frameErr := d.dec.DecodeChunk(chunk)
		if frameErr != nil {
			d.log.Warn("dropping malformed frame", "reason", frameErr.Reason, "err", frameErr)
			continue
		}
		if msg == nil {
			continue
		}

		if msg.Kind == protocol.KindSync {
			d.disp.NoteSyncReceived()
			continue
		}
		d.disp.NoteActivityReceived()

		respKind, respPayload, hasResponse := d.disp.HandleMessage(*msg)
		if !hasResponse {
			continue
		}
		if err := d.transmit(protocol.Message{Kind: respKind, ID: msg.ID, IDWide: msg.IDWide, Payload: respPayload}); err != nil {
			d.log.Error("failed to send response", "id", msg.ID, "err", err)
		}
	}
}

// transmit encodes msg into one or more chunks and writes them in order.
// Writes are serialized: the read loop and concurrent SendMessage callers
// may both transmit, and frames of two messages must never interleave.
func (d *Device) transmit(msg protocol.Message) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return protocol.Encode(d.cfg, msg.Kind, msg.ID, msg.IDWide, msg.Payload, func(c protocol.Chunk) {
		_ = d.rw.WriteChunk(c)
	})
}

// SendMessage sends a Data message and blocks for the matching ACK/NAK.
func (d *Device) SendMessage(ctx context.Context, kind protocol.Kind, id uint32, idWide bool, payload []byte) ([]byte, error) {
	return d.disp.SendMessage(ctx, kind, id, idWide, payload, d.transmit)
}

// Notify sends a no-ack-expected message (Kind NAData) and returns as
// soon as it has been transmitted - there is no response to wait for
// (§3 Kinds: "NAData - like Data, but the sender expects no ACK/NAK").
func (d *Device) Notify(id uint32, idWide bool, payload []byte) error {
	return d.transmit(protocol.Message{Kind: protocol.KindNAData, ID: id, IDWide: idWide, Payload: payload})
}

// Close shuts down the underlying transport. It does not wait for Run to
// observe the resulting read error; callers that need that should cancel
// Run's context and then Close.
func (d *Device) Close() error {
	return d.rw.Close()
}

// Capabilities returns the device's advertised Supported IDs (§6 ID
// 0x00), caching the result for the lifetime of the Device - a device's
// command set does not change mid-connection.
func (d *Device) Capabilities(ctx context.Context) ([]uint16, error) {
	d.capsOnce.Do(func() {
		payload, err := d.SendMessage(ctx, protocol.KindData, catalog.IDSupportedIDs, false, nil)
		d.capsMu.Lock()
		defer d.capsMu.Unlock()
		if err != nil {
			d.capsErr = fmt.Errorf("host: query supported IDs: %w", err)
			return
		}
		d.caps = catalog.DecodeSupportedIDsAck(payload)
	})
	d.capsMu.Lock()
	defer d.capsMu.Unlock()
	return d.caps, d.capsErr
}

// Supports reports whether id appeared in the device's Supported IDs,
// fetching and caching that list on first use.
func (d *Device) Supports(ctx context.Context, id uint16) (bool, error) {
	ids, err := d.Capabilities(ctx)
	if err != nil {
		return false, err
	}
	for _, have := range ids {
		if have == id {
			return true, nil
		}
	}
	return false, nil
}

// GetInfo issues a Get Info request (§6 ID 0x01) for sel and returns the
// raw ACK payload, leaving selector-specific decoding to the caller.
func (d *Device) GetInfo(ctx context.Context, sel catalog.GetInfoSelector) ([]byte, error) {
	payload, err := d.SendMessage(ctx, protocol.KindData, catalog.IDGetInfo, false, catalog.EncodeGetInfoRequest(sel))
	if err != nil {
		return nil, fmt.Errorf("host: get info %v: %w", sel, err)
	}
	return payload, nil
}

// FirmwareVersion is a convenience accessor over GetInfo(InfoFirmwareVersion).
func (d *Device) FirmwareVersion(ctx context.Context) (uint16, error) {
	payload, err := d.GetInfo(ctx, catalog.InfoFirmwareVersion)
	if err != nil {
		return 0, err
	}
	v, ok := catalog.DecodeGetInfoVersionAck(payload)
	if !ok {
		return 0, fmt.Errorf("host: malformed firmware version reply")
	}
	return v, nil
}

// DeviceName is a convenience accessor over GetInfo(InfoDeviceName).
func (d *Device) DeviceName(ctx context.Context) (string, error) {
	payload, err := d.GetInfo(ctx, catalog.InfoDeviceName)
	if err != nil {
		return "", err
	}
	return catalog.DecodeGetInfoStringAck(payload), nil
}
