package protocol

import "testing"

// TestScenarioSyncOnly reproduces §8 scenario 1: a Sync-only frame
// delivers no message and leaves the decoder idle.
func TestScenarioSyncOnly(t *testing.T) {
	cfg := testConfig()
	dec := NewDecoder(cfg)

	msg, ferr := dec.DecodeChunk(NewChunk([]byte{0x60}, cfg.ChunkSize))
	if msg != nil || ferr != nil {
		t.Fatalf("Sync-only frame produced msg=%v err=%v, want nil, nil", msg, ferr)
	}
}

// TestScenarioShortDataAndAck reproduces §8 scenario 2 end to end: a
// Data frame with a 1-byte payload, handled by a command that returns no
// ACK payload, answered by an ACK with an empty payload.
func TestScenarioShortDataAndAck(t *testing.T) {
	cfg := testConfig()
	reg := NewRegistry(4)
	_ = reg.Register(&CommandSpec{ID: 0x0001, Handle: func(p []byte) ([]byte, error) { return nil, nil }})
	d := NewDispatcher(cfg, reg)

	frame := NewChunk([]byte{0x00, 0x03, 0x01, 0x00, 0x02}, cfg.ChunkSize)
	if frame.Slice()[0] != 0x00 {
		t.Fatal("fixture header byte drifted from the scenario")
	}
	_ = d.EnqueueRX(frame)

	n, err := d.ProcessRX()
	if err != nil || n != 1 {
		t.Fatalf("ProcessRX = %d, %v, want 1, nil", n, err)
	}

	resp, ok := d.DequeueTX()
	if !ok {
		t.Fatal("expected a queued ACK frame")
	}
	got := resp.Slice()
	if got[0] != 0x20 || got[1] != 0x02 || got[2] != 0x01 || got[3] != 0x00 {
		t.Fatalf("ACK frame = % x, want 20 02 01 00 ...", got[:4])
	}
}

// TestScenarioTestPacketRoundTrip reproduces §8 scenario 3.
func TestScenarioTestPacketRoundTrip(t *testing.T) {
	cfg := testConfig()
	reg := NewRegistry(4)
	_ = reg.Register(&CommandSpec{ID: 0x0002, Handle: func(p []byte) ([]byte, error) { return p, nil }})
	d := NewDispatcher(cfg, reg)

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	for _, f := range encodeAll(t, cfg, KindData, 0x0002, false, payload) {
		_ = d.EnqueueRX(f)
	}
	if _, err := d.ProcessRX(); err != nil {
		t.Fatalf("ProcessRX: %v", err)
	}

	resp, ok := d.DequeueTX()
	if !ok {
		t.Fatal("expected a queued ACK frame")
	}
	dec := NewDecoder(cfg)
	msg, ferr := dec.DecodeChunk(resp)
	if ferr != nil {
		t.Fatalf("decoding ACK: %v", ferr)
	}
	if msg == nil || msg.Kind != KindACK {
		t.Fatalf("response = %+v, want ACK", msg)
	}
	for i, b := range payload {
		if msg.Payload[i] != b {
			t.Fatalf("ack payload = % x, want % x", msg.Payload, payload)
		}
	}
}

// TestScenarioMultiFrameData reproduces §8 scenario 4 through the
// Dispatcher: a 100-byte Data message answered by an ACK with an empty
// payload (the handler in this test does not echo).
func TestScenarioMultiFrameData(t *testing.T) {
	cfg := testConfig()
	reg := NewRegistry(4)
	_ = reg.Register(&CommandSpec{ID: 0x0017, Handle: func(p []byte) ([]byte, error) { return nil, nil }})
	d := NewDispatcher(cfg, reg)

	payload := make([]byte, 100)
	frames := encodeAll(t, cfg, KindData, 0x0017, false, payload)
	for _, f := range frames {
		_ = d.EnqueueRX(f)
	}

	n, err := d.ProcessRX()
	if err != nil || n != 1 {
		t.Fatalf("ProcessRX = %d, %v, want 1, nil", n, err)
	}

	resp, ok := d.DequeueTX()
	if !ok {
		t.Fatal("expected a queued ACK frame")
	}
	dec := NewDecoder(cfg)
	msg, ferr := dec.DecodeChunk(resp)
	if ferr != nil || msg == nil || msg.Kind != KindACK || len(msg.Payload) != 0 {
		t.Fatalf("response = %+v, err=%v, want empty ACK", msg, ferr)
	}
}

// TestScenarioUnsupportedID reproduces §8 scenario 5.
func TestScenarioUnsupportedID(t *testing.T) {
	cfg := testConfig()
	reg := NewRegistry(4)
	d := NewDispatcher(cfg, reg)

	for _, f := range encodeAll(t, cfg, KindData, 0xFFFF, false, nil) {
		_ = d.EnqueueRX(f)
	}
	if _, err := d.ProcessRX(); err != nil {
		t.Fatalf("ProcessRX: %v", err)
	}

	resp, ok := d.DequeueTX()
	if !ok {
		t.Fatal("expected a queued NAK frame")
	}
	dec := NewDecoder(cfg)
	msg, ferr := dec.DecodeChunk(resp)
	if ferr != nil || msg == nil || msg.Kind != KindNAK || msg.ID != 0xFFFF || len(msg.Payload) != 0 {
		t.Fatalf("response = %+v, err=%v, want empty NAK for 0xFFFF", msg, ferr)
	}
}

// TestScenarioSyncInterruptsContinuation reproduces §8 scenario 6: the
// first frame of a 100-byte message, then a Sync, then the full message
// resent - delivered exactly once, with the final attempt's payload.
func TestScenarioSyncInterruptsContinuation(t *testing.T) {
	cfg := testConfig()
	dec := NewDecoder(cfg)

	abandoned := make([]byte, 100)
	for i := range abandoned {
		abandoned[i] = 0xAA
	}
	firstAttempt := encodeAll(t, cfg, KindData, 0x0017, false, abandoned)
	if msg, ferr := dec.DecodeChunk(firstAttempt[0]); msg != nil || ferr != nil {
		t.Fatalf("first frame of abandoned attempt: msg=%v err=%v", msg, ferr)
	}

	if msg, ferr := dec.DecodeChunk(EncodeSync(cfg)); msg != nil || ferr != nil {
		t.Fatalf("Sync frame: msg=%v err=%v", msg, ferr)
	}

	final := make([]byte, 100)
	for i := range final {
		final[i] = byte(i)
	}
	retried := encodeAll(t, cfg, KindData, 0x0017, false, final)

	var got *Message
	for _, f := range retried {
		msg, ferr := dec.DecodeChunk(f)
		if ferr != nil {
			t.Fatalf("decoding retried message: %v", ferr)
		}
		if msg != nil {
			got = msg
		}
	}
	if got == nil {
		t.Fatal("expected the retried message to be delivered")
	}
	if got.Payload[0] != 0 || got.Payload[99] != final[99] {
		t.Fatalf("delivered payload = % x..., want the final attempt's bytes", got.Payload[:4])
	}
}
