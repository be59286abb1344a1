// Package device is the firmware half of HID-IO: it wires the Command
// Catalog's payload codecs into a protocol.Registry, drives the
// byte-level Dispatcher against a chunked USB/serial endpoint, and keeps
// the construction-time-sized state (pixel buffer, NKRO bitmask, pending
// faults) the catalog's handlers operate on.
package device

// Timer frequencies for the MCU clocks this package targets.
const (
	TimerFreq = 12000000 // 12MHz default timer frequency
)

var (
	systemTicks uint32
	bootTime    uint64
)

// GetTime returns the current system time in timer ticks.
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for tests and host-mode
// simulation, where there is no free-running hardware counter).
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// GetUptime returns uptime in timer ticks since TimerInit.
func GetUptime() uint64 {
	return uint64(GetTime()) - bootTime
}

// TimerFromUS converts microseconds to timer ticks.
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds.
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerInit records the boot time so GetUptime reads zero at startup.
func TimerInit() {
	bootTime = uint64(GetTime())
}

// Timer is a scheduled one-shot or repeating event, ordered into
// timerList by WakeTime. SyncScheduler (scheduler.go) uses exactly one of
// these to drive the periodic keep-alive Sync frame (§4.5); a firmware
// build with additional periodic work (e.g. a pixel refresh tick) can
// schedule more.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	// SFDone tells the dispatch loop not to reschedule this timer.
	SFDone = 0
	// SFReschedule tells the dispatch loop to reinsert this timer once
	// its Handler has updated WakeTime.
	SFReschedule = 1

	// TimerPastThreshold bounds how far behind a timer may fire before
	// it is treated as a scheduling failure rather than ordinary jitter
	// (100ms at the 12MHz tick rate above).
	TimerPastThreshold = 1200000
)

var (
	timerList       *Timer
	currentTime     uint32
	timerPastErrors uint32
)

// ScheduleTimer inserts t into the sorted timer list.
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	insertTimer(t)
}

// CancelTimer removes t from the sorted timer list, if present.
func CancelTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	if timerList == t {
		timerList = t.Next
		t.Next = nil
		return
	}
	for cur := timerList; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// insertTimer inserts t in WakeTime order, using signed wraparound
// comparison (valid within half the 32-bit tick range, about 3 minutes
// at the 12MHz rate above - matching Klipper's own sched_add_timer).
func insertTimer(t *Timer) {
	if timerList == nil || int32(t.WakeTime-timerList.WakeTime) < 0 {
		t.Next = timerList
		timerList = t
		return
	}
	current := timerList
	for current.Next != nil && int32(current.Next.WakeTime-t.WakeTime) < 0 {
		current = current.Next
	}
	t.Next = current.Next
	current.Next = t
}

// TimerDispatch processes every timer whose WakeTime has passed.
func TimerDispatch() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for timerList != nil && int32(currentTime-timerList.WakeTime) >= 0 {
		timer := timerList
		timerList = timer.Next
		timer.Next = nil

		timeDiff := int32(currentTime - timer.WakeTime)
		if timeDiff > int32(TimerPastThreshold) {
			timerPastErrors++
			RecordFault(FaultTimerPast, 0, currentTime, timer.WakeTime, uint32(timeDiff))
		}

		result := timer.Handler(timer)
		if result == SFReschedule {
			insertTimer(timer)
		}

		currentTime = GetTime()
	}
}

// ProcessTimers refreshes currentTime and runs TimerDispatch - call this
// once per cooperative-loop iteration.
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}

// GetTimerPastErrors returns the count of timer-scheduling failures.
func GetTimerPastErrors() uint32 {
	return timerPastErrors
}
