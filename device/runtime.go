package device

import (
	"errors"

	"github.com/hidio-go/hidio/protocol"
)

// ChunkSource is the non-blocking chunk transport a firmware build's
// cooperative main loop polls every iteration - typically backed by a
// USB HID report endpoint. TryReadChunk returns ok=false when no chunk is
// waiting rather than blocking, since nothing else can run while the
// single firmware loop is stalled. WriteChunk may block briefly (e.g.
// busy-waiting on a full endpoint FIFO), matching the busy-wait the PIO
// backends already use for their own hardware FIFOs.
type ChunkSource interface {
	TryReadChunk() (protocol.Chunk, bool)
	WriteChunk(protocol.Chunk) error
}

// Runtime ties one Dispatcher, its Registry, and a ChunkSource together
// with the periodic Sync scheduler, driven one Step per cooperative-loop
// iteration.
type Runtime struct {
	disp  *protocol.Dispatcher
	src   ChunkSource
	sched *SyncScheduler
}

// NewRuntime builds a Runtime over src, emitting a keep-alive Sync every
// syncIntervalTicks when nothing else has gone out.
func NewRuntime(cfg protocol.Config, registry *protocol.Registry, src ChunkSource, syncIntervalTicks uint32) *Runtime {
	disp := protocol.NewDispatcher(cfg, registry)
	return &Runtime{
		disp:  disp,
		src:   src,
		sched: NewSyncScheduler(disp, syncIntervalTicks),
	}
}

// Dispatcher exposes the underlying Dispatcher, e.g. for OnFault/OnUnsolicited hooks.
func (r *Runtime) Dispatcher() *protocol.Dispatcher {
	return r.disp
}

// Start arms the Sync scheduler; call once before the first Step.
func (r *Runtime) Start() {
	TimerInit()
	r.sched.Start()
}

// Step runs one cooperative-loop iteration: drain any waiting inbound
// chunk, dispatch everything that completed, flush outbound chunks, and
// run due timers. It never blocks waiting for input.
func (r *Runtime) Step() {
	if c, ok := r.src.TryReadChunk(); ok {
		if err := r.disp.EnqueueRX(c); err != nil {
			RecordFault(FaultOutstandingFull, 0, GetTime(), 0, 0)
		}
	}

	if _, err := r.disp.ProcessRX(); err != nil {
		var frameErr *protocol.FrameError
		if errors.As(err, &frameErr) {
			RecordFault(FaultFrameError, 0, GetTime(), uint32(frameErr.ID), 0)
		}
	}

	for {
		c, ok := r.disp.DequeueTX()
		if !ok {
			break
		}
		if err := r.src.WriteChunk(c); err != nil {
			RecordFault(FaultSendTimeout, 0, GetTime(), 0, 0)
		}
	}

	ProcessTimers()
}

// Run calls Start and then Step forever - the typical firmware main loop
// body once hardware init has finished.
func (r *Runtime) Run() {
	r.Start()
	for {
		r.Step()
	}
}
