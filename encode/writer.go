package encode

import (
	"bufio"
	"io"
	"sync"

	"github.com/hl7bridge/hl7v2/tree"
)

// Writer provides a streaming interface for writing encoded Element
// Trees. It buffers writes for efficiency.
type Writer interface {
	// Write encodes and writes root's subtree to the underlying writer.
	Write(root *tree.Node) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close flushes any remaining data and releases resources. After
	// Close is called, the Writer should not be used.
	Close() error
}

// writer is the concrete implementation of Writer.
type writer struct {
	w      *bufio.Writer
	enc    Encoder
	mu     sync.Mutex
	closed bool
}

// NewWriter creates a Writer that writes encoded messages to w, using
// buffered I/O. Options control encoding behavior such as line endings
// and delimiter override.
func NewWriter(w io.Writer, opts ...EncoderOption) Writer {
	return &writer{
		w:   bufio.NewWriter(w),
		enc: New(opts...),
	}
}

// Write encodes and writes root's subtree. Safe for concurrent use.
func (wr *writer) Write(root *tree.Node) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if wr.closed {
		return &Error{Message: "writer is closed"}
	}

	data, err := wr.enc.Encode(root)
	if err != nil {
		return err
	}
	if _, err := wr.w.Write(data); err != nil {
		return &Error{Message: "failed to write encoded message", Cause: err}
	}
	return nil
}

// Flush flushes any buffered data. Safe for concurrent use.
func (wr *writer) Flush() error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if wr.closed {
		return &Error{Message: "writer is closed"}
	}
	if err := wr.w.Flush(); err != nil {
		return &Error{Message: "failed to flush buffer", Cause: err}
	}
	return nil
}

// Close flushes any remaining data and marks the writer closed. Safe
// for concurrent use; calling Close more than once is a no-op.
func (wr *writer) Close() error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if wr.closed {
		return nil
	}
	err := wr.w.Flush()
	wr.closed = true
	if err != nil {
		return &Error{Message: "failed to flush on close", Cause: err}
	}
	return nil
}
