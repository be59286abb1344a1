// Package transport supplies the raw-HID chunk I/O the protocol core
// consumes and emits (spec.md §1 - "the transport itself ... is out of
// scope [of the core]; the core consumes byte chunks of a configured size
// and emits byte chunks of the same size"). Nothing here knows about
// framing, command IDs, or dispatch.
package transport

import (
	"fmt"
	"io"

	"github.com/hidio-go/hidio/protocol"
)

// ChunkReadWriter reads and writes whole transport chunks. Every call to
// ReadChunk blocks until exactly one chunk has arrived; every call to
// WriteChunk sends exactly one chunk.
type ChunkReadWriter interface {
	ReadChunk() (protocol.Chunk, error)
	WriteChunk(protocol.Chunk) error
	Close() error
}

// StreamChunkReadWriter adapts a plain byte stream (a serial port, a raw
// HID device file opened as a stream) into ChunkReadWriter by reading and
// writing fixed-size blocks.
type StreamChunkReadWriter struct {
	rw        io.ReadWriteCloser
	chunkSize int
}

// NewStreamChunkReadWriter wraps rw, reading and writing chunkSize-byte
// blocks.
func NewStreamChunkReadWriter(rw io.ReadWriteCloser, chunkSize int) *StreamChunkReadWriter {
	return &StreamChunkReadWriter{rw: rw, chunkSize: chunkSize}
}

// ReadChunk blocks until a full chunk has been read from the stream.
func (s *StreamChunkReadWriter) ReadChunk() (protocol.Chunk, error) {
	buf := make([]byte, s.chunkSize)
	if _, err := io.ReadFull(s.rw, buf); err != nil {
		return protocol.Chunk{}, fmt.Errorf("transport: read chunk: %w", err)
	}
	return protocol.NewChunk(buf, s.chunkSize), nil
}

// WriteChunk writes exactly one chunk to the stream.
func (s *StreamChunkReadWriter) WriteChunk(c protocol.Chunk) error {
	if _, err := s.rw.Write(c.Slice()); err != nil {
		return fmt.Errorf("transport: write chunk: %w", err)
	}
	return nil
}

// Close closes the underlying stream.
func (s *StreamChunkReadWriter) Close() error {
	return s.rw.Close()
}
