package protocol

import "testing"

func TestPackUnpackHeaderRoundTrip(t *testing.T) {
	cases := []struct {
		kind   Kind
		cont   bool
		idWide bool
		lenHi  uint8
	}{
		{KindData, false, false, 0},
		{KindData, true, false, 3},
		{KindACK, false, false, 0},
		{KindContinued, false, true, 2},
	}

	for _, c := range cases {
		b := packHeader(c.kind, c.cont, c.idWide, c.lenHi)
		kind, cont, idWide, reserved, lenHi := unpackHeader(b)
		if kind != c.kind || cont != c.cont || idWide != c.idWide || lenHi != c.lenHi {
			t.Errorf("packHeader(%v,%v,%v,%d) -> 0x%02x -> (%v,%v,%v,%d), want (%v,%v,%v,%d)",
				c.kind, c.cont, c.idWide, c.lenHi, b, kind, cont, idWide, lenHi,
				c.kind, c.cont, c.idWide, c.lenHi)
		}
		if reserved {
			t.Errorf("packHeader set the reserved bit for %+v", c)
		}
	}
}

// TestFirstFrameHeaderMatchesScenario pins the bit layout down against the
// worked example in scenario 4: a first Data frame with W=1 and a 16-bit
// ID packs to 0x08, not 0x10 - so the ID-width flag outweighs the
// continuation flag in the header byte.
func TestFirstFrameHeaderMatchesScenario(t *testing.T) {
	b := packHeader(KindData, true, false, 0)
	if b != 0x08 {
		t.Errorf("first-frame header = 0x%02x, want 0x08", b)
	}
}

func TestAckHeaderMatchesScenario(t *testing.T) {
	b := packHeader(KindACK, false, false, 0)
	if b != 0x20 {
		t.Errorf("ACK header = 0x%02x, want 0x20", b)
	}
}

func TestContinuedHeaderMatchesScenario(t *testing.T) {
	b := packHeader(KindContinued, false, false, 0)
	if b != 0x80 {
		t.Errorf("Continued header = 0x%02x, want 0x80", b)
	}
}

func TestSyncByteIsExact(t *testing.T) {
	b := packHeader(KindSync, false, false, 0)
	if b != SyncByte {
		t.Errorf("Sync header = 0x%02x, want 0x%02x", b, SyncByte)
	}
}

func TestPackUnpackLength(t *testing.T) {
	for _, v := range []uint16{0, 1, 255, 256, 1023} {
		hi, lo := packLength(v)
		got := unpackLength(hi, lo)
		if got != v {
			t.Errorf("packLength(%d) round-trip = %d", v, got)
		}
	}
}

func TestPutGetID(t *testing.T) {
	buf16 := make([]byte, 2)
	putID(buf16, 0x1234, false)
	if got := getID(buf16, false); got != 0x1234 {
		t.Errorf("16-bit id round trip = 0x%x, want 0x1234", got)
	}

	buf32 := make([]byte, 4)
	putID(buf32, 0xDEADBEEF, true)
	if got := getID(buf32, true); got != 0xDEADBEEF {
		t.Errorf("32-bit id round trip = 0x%x, want 0xDEADBEEF", got)
	}
}

func TestFitsIn16Bits(t *testing.T) {
	if !fitsIn16Bits(0xFFFF) {
		t.Error("0xFFFF should fit in 16 bits")
	}
	if fitsIn16Bits(0x10000) {
		t.Error("0x10000 should not fit in 16 bits")
	}
}
