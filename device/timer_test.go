package device

import "testing"

func resetTimers() {
	timerList = nil
	currentTime = 0
	timerPastErrors = 0
	bootTime = 0
	SetTime(0)
}

func TestScheduleTimerOrdersByWakeTime(t *testing.T) {
	resetTimers()
	var order []int
	mk := func(id int, wake uint32) *Timer {
		return &Timer{WakeTime: wake, Handler: func(*Timer) uint8 {
			order = append(order, id)
			return SFDone
		}}
	}
	ScheduleTimer(mk(3, 300))
	ScheduleTimer(mk(1, 100))
	ScheduleTimer(mk(2, 200))

	SetTime(300)
	ProcessTimers()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("dispatch order = %v, want [1 2 3]", order)
	}
}

func TestScheduleTimerHandlesWraparound(t *testing.T) {
	resetTimers()
	var fired []uint32
	SetTime(0xFFFFFFF0)
	ScheduleTimer(&Timer{WakeTime: 0x10, Handler: func(*Timer) uint8 {
		fired = append(fired, GetTime())
		return SFDone
	}})
	ScheduleTimer(&Timer{WakeTime: 0xFFFFFFF5, Handler: func(*Timer) uint8 {
		fired = append(fired, GetTime())
		return SFDone
	}})

	SetTime(0xFFFFFFF5)
	ProcessTimers()
	if len(fired) != 1 {
		t.Fatalf("expected only the earlier (pre-wrap) timer to fire, got %d firings", len(fired))
	}

	SetTime(0x20)
	ProcessTimers()
	if len(fired) != 2 {
		t.Fatalf("expected the post-wrap timer to fire after wraparound, got %d firings", len(fired))
	}
}

func TestCancelTimerRemovesPendingTimer(t *testing.T) {
	resetTimers()
	fired := false
	timer := &Timer{WakeTime: 100, Handler: func(*Timer) uint8 {
		fired = true
		return SFDone
	}}
	ScheduleTimer(timer)
	CancelTimer(timer)

	SetTime(200)
	ProcessTimers()
	if fired {
		t.Fatal("cancelled timer fired")
	}
}

func TestTimerRescheduleOnSFReschedule(t *testing.T) {
	resetTimers()
	fires := 0
	timer := &Timer{WakeTime: 10}
	timer.Handler = func(tm *Timer) uint8 {
		fires++
		if fires >= 3 {
			return SFDone
		}
		tm.WakeTime += 10
		return SFReschedule
	}
	ScheduleTimer(timer)

	SetTime(40)
	ProcessTimers()
	if fires != 3 {
		t.Fatalf("fires = %d, want 3", fires)
	}
}

func TestTimerPastThresholdRecordsFault(t *testing.T) {
	resetTimers()
	ClearFaults()
	before := GetTimerPastErrors()

	ScheduleTimer(&Timer{WakeTime: 0, Handler: func(*Timer) uint8 { return SFDone }})
	SetTime(TimerPastThreshold + 1000)
	ProcessTimers()

	if GetTimerPastErrors() != before+1 {
		t.Fatalf("GetTimerPastErrors() = %d, want %d", GetTimerPastErrors(), before+1)
	}
}
