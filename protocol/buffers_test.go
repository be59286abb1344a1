package protocol

import "testing"

func TestChunkFIFOEnqueueDequeueOrder(t *testing.T) {
	fifo := NewChunkFIFO(2)

	if err := fifo.Enqueue(NewChunk([]byte{1}, 4)); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := fifo.Enqueue(NewChunk([]byte{2}, 4)); err != nil {
		t.Fatalf("second enqueue: %v", err)
	}
	if err := fifo.Enqueue(NewChunk([]byte{3}, 4)); err != ErrBufferFull {
		t.Fatalf("enqueue into full fifo = %v, want ErrBufferFull", err)
	}

	c, ok := fifo.Dequeue()
	if !ok || c.Bytes[0] != 1 {
		t.Fatalf("first dequeue = %+v, %v, want byte 1", c, ok)
	}
	c, ok = fifo.Dequeue()
	if !ok || c.Bytes[0] != 2 {
		t.Fatalf("second dequeue = %+v, %v, want byte 2", c, ok)
	}
	if _, ok := fifo.Dequeue(); ok {
		t.Fatal("dequeue on empty fifo reported ok")
	}
}

func TestChunkFIFOFreeAndClear(t *testing.T) {
	fifo := NewChunkFIFO(4)
	if got := fifo.Free(); got != 4 {
		t.Fatalf("Free() = %d, want 4", got)
	}
	_ = fifo.Enqueue(NewChunk([]byte{9}, 1))
	if got := fifo.Free(); got != 3 {
		t.Fatalf("Free() after one enqueue = %d, want 3", got)
	}
	fifo.Clear()
	if got := fifo.Len(); got != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", got)
	}
	if got := fifo.Free(); got != 4 {
		t.Fatalf("Free() after Clear = %d, want 4", got)
	}
}

func TestChunkFIFOWrapsAround(t *testing.T) {
	fifo := NewChunkFIFO(2)
	_ = fifo.Enqueue(NewChunk([]byte{1}, 1))
	_ = fifo.Enqueue(NewChunk([]byte{2}, 1))
	_, _ = fifo.Dequeue()
	_ = fifo.Enqueue(NewChunk([]byte{3}, 1))

	c, ok := fifo.Dequeue()
	if !ok || c.Bytes[0] != 2 {
		t.Fatalf("dequeue after wrap = %+v, want byte 2", c)
	}
	c, ok = fifo.Dequeue()
	if !ok || c.Bytes[0] != 3 {
		t.Fatalf("dequeue after wrap = %+v, want byte 3", c)
	}
}

func TestNewChunkZeroPads(t *testing.T) {
	c := NewChunk([]byte{0xAA, 0xBB}, 8)
	if c.Len != 8 {
		t.Fatalf("Len = %d, want 8", c.Len)
	}
	slice := c.Slice()
	if slice[0] != 0xAA || slice[1] != 0xBB {
		t.Fatalf("leading bytes = %v, want [0xAA 0xBB ...]", slice[:2])
	}
	for i := 2; i < 8; i++ {
		if slice[i] != 0 {
			t.Fatalf("byte %d = 0x%02x, want zero padding", i, slice[i])
		}
	}
}

func TestScratchPayloadAppendTruncatesAtCapacity(t *testing.T) {
	s := newScratchPayload(4)
	n := s.append([]byte{1, 2, 3})
	if n != 3 {
		t.Fatalf("append returned %d, want 3", n)
	}
	n = s.append([]byte{4, 5, 6})
	if n != 1 {
		t.Fatalf("second append returned %d, want 1 (only 1 byte of room left)", n)
	}
	if got := s.bytes(); len(got) != 4 || got[3] != 4 {
		t.Fatalf("bytes() = %v, want [1 2 3 4]", got)
	}
}

func TestScratchPayloadReset(t *testing.T) {
	s := newScratchPayload(4)
	s.append([]byte{1, 2})
	s.reset()
	if got := s.bytes(); len(got) != 0 {
		t.Fatalf("bytes() after reset = %v, want empty", got)
	}
	s.append([]byte{9})
	if got := s.bytes(); len(got) != 1 || got[0] != 9 {
		t.Fatalf("bytes() after reset+append = %v, want [9]", got)
	}
}
