package pool

import (
	"io"
	"sync"
)

// DocBufferDefaultSize is the default size of buffers obtained from the
// document pool. Most serialized LLSD documents are well under 4KiB; the
// threshold keeps occasional huge documents from pinning memory in the
// pool.
const (
	DocBufferDefaultSize  = 1024 * 4  // 4KiB
	DocBufferMaxThreshold = 1024 * 64 // 64KiB
)

// ByteBuffer is a growable byte slice used to assemble formatter output
// before it is handed to the caller's sink in a single write.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// WriteByte appends a single byte to the buffer.
func (bb *ByteBuffer) WriteByte(b byte) error {
	bb.B = append(bb.B, b)
	return nil
}

// WriteString appends a string to the buffer.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating.
//
// Small buffers grow by DocBufferDefaultSize to minimize reallocations;
// larger buffers grow by 25% of current capacity to balance memory usage
// and reallocation cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return // Sufficient capacity
	}

	growBy := DocBufferDefaultSize
	if cap(bb.B) > 4*DocBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally. The pool can be configured with a maximum
// size threshold to avoid retaining overly large buffers.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var docDefaultPool = NewByteBufferPool(DocBufferDefaultSize, DocBufferMaxThreshold)

// GetDocBuffer retrieves a ByteBuffer from the default document pool.
func GetDocBuffer() *ByteBuffer {
	return docDefaultPool.Get()
}

// PutDocBuffer returns a ByteBuffer to the default document pool.
func PutDocBuffer(bb *ByteBuffer) {
	docDefaultPool.Put(bb)
}
