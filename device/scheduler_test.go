package device

import (
	"testing"
	"time"

	"github.com/hidio-go/hidio/protocol"
)

func TestSyncSchedulerFiresAfterInterval(t *testing.T) {
	ClearFaults()
	SetTime(0)

	cfg := protocol.DefaultConfig(64)
	cfg.SyncInterval = 0 // MaybeSendSync should always be willing to send
	reg := protocol.NewRegistry(4)
	disp := protocol.NewDispatcher(cfg, reg)

	sched := NewSyncScheduler(disp, 100)
	sched.Start()

	SetTime(50)
	ProcessTimers()
	if _, ok := disp.DequeueTX(); ok {
		t.Fatal("sync fired before its interval elapsed")
	}

	SetTime(150)
	ProcessTimers()
	c, ok := disp.DequeueTX()
	if !ok {
		t.Fatal("expected a Sync frame to have been queued")
	}
	if protocol.Kind(c.Bytes[0]>>5) != protocol.KindSync {
		t.Fatalf("queued frame kind = %v, want Sync", c.Bytes[0]>>5)
	}
}

func TestTimerInitRecordsBootTime(t *testing.T) {
	SetTime(1000)
	TimerInit()
	if GetUptime() != 0 {
		t.Fatalf("uptime immediately after TimerInit = %d, want 0", GetUptime())
	}
	SetTime(1100)
	if GetUptime() != 100 {
		t.Fatalf("uptime = %d, want 100", GetUptime())
	}
	_ = time.Second
}
