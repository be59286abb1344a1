package device

import "github.com/hidio-go/hidio/protocol"

// SyncScheduler drives the periodic keep-alive Sync frame a firmware
// peer emits when nothing else has gone out (§4.5), using one Timer
// rather than a free-running ticker - the cooperative loop calls
// ProcessTimers once per iteration and the Handler below reschedules
// itself.
type SyncScheduler struct {
	timer    Timer
	disp     *protocol.Dispatcher
	interval uint32
}

// NewSyncScheduler creates a scheduler that asks disp to emit a Sync
// frame every intervalTicks, via disp.MaybeSendSync (which itself only
// actually sends when nothing else has gone out recently).
func NewSyncScheduler(disp *protocol.Dispatcher, intervalTicks uint32) *SyncScheduler {
	return &SyncScheduler{disp: disp, interval: intervalTicks}
}

// Start schedules the first tick.
func (s *SyncScheduler) Start() {
	s.timer.WakeTime = GetTime() + s.interval
	s.timer.Handler = s.fire
	ScheduleTimer(&s.timer)
}

// Stop cancels any pending tick.
func (s *SyncScheduler) Stop() {
	CancelTimer(&s.timer)
}

func (s *SyncScheduler) fire(t *Timer) uint8 {
	s.disp.MaybeSendSync()
	t.WakeTime = t.WakeTime + s.interval
	return SFReschedule
}
