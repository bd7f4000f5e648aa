// Package wire implements the little-endian framing primitives of the MDX
// container: scalars, tags, headers, fixed-width literals, the exclusive
// and inclusive size conventions, tag dispatch and order-preserving
// optional blocks.
//
// Decoding works on views into the caller's buffer; nothing is copied
// unless a caller asks for it.
package wire

import (
	"encoding/binary"
	"math"

	"github.com/FocuswithJustin/mdxkit/core/errors"
)

// Reader is a cursor over an immutable byte slice.
type Reader struct {
	data    []byte
	off     int
	base    int  // absolute offset of data[0] in the outermost buffer
	bounded bool // true inside a sized span
}

// NewReader wraps a complete document. Running out of bytes at this level
// reports errors.ErrIncomplete.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.off
}

// Empty reports whether every byte has been consumed.
func (r *Reader) Empty() bool {
	return r.off >= len(r.data)
}

// Offset returns the absolute position of the cursor.
func (r *Reader) Offset() int {
	return r.base + r.off
}

// Rest returns the unread bytes without consuming them.
func (r *Reader) Rest() []byte {
	return r.data[r.off:]
}

func (r *Reader) short(n int) error {
	return &errors.ShortInputError{Need: n, Have: r.Len(), Incomplete: !r.bounded}
}

// need checks that at least n bytes remain and returns the current offset.
func (r *Reader) need(n int) (int, error) {
	if n < 0 || n > r.Len() {
		return 0, r.short(n)
	}
	off := r.off
	r.off += n
	return off, nil
}

// Require checks that count values of size bytes each remain unread
// without consuming them.
func (r *Reader) Require(count uint32, size int) error {
	if total := int64(count) * int64(size); total > int64(r.Len()) {
		return r.short(int(min(total, math.MaxInt32)))
	}
	return nil
}

// Peek returns the next n bytes without consuming them.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, r.short(n)
	}
	return r.data[r.off : r.off+n], nil
}

// Bytes consumes n bytes and returns them as a view.
func (r *Reader) Bytes(n int) ([]byte, error) {
	off, err := r.need(n)
	if err != nil {
		return nil, err
	}
	return r.data[off : off+n : off+n], nil
}

// Skip consumes n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.need(n)
	return err
}

// Sub consumes n bytes and returns a bounded reader over them.
func (r *Reader) Sub(n int) (*Reader, error) {
	off, err := r.need(n)
	if err != nil {
		return nil, err
	}
	return &Reader{
		data:    r.data[off : off+n : off+n],
		base:    r.base + off,
		bounded: true,
	}, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	off, err := r.need(1)
	if err != nil {
		return 0, err
	}
	return r.data[off], nil
}

// ReadUint16 reads a 16-bit unsigned integer in little-endian order.
func (r *Reader) ReadUint16() (uint16, error) {
	off, err := r.need(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.data[off:]), nil
}

// ReadUint32 reads a 32-bit unsigned integer in little-endian order.
func (r *Reader) ReadUint32() (uint32, error) {
	off, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.data[off:]), nil
}

// ReadInt32 reads a 32-bit signed integer in little-endian order.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat32 reads an IEEE 754 single-precision float. The bit pattern is
// kept as is, NaN payloads included.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat32s fills dst.
func (r *Reader) ReadFloat32s(dst []float32) error {
	if _, err := r.Peek(4 * len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i], _ = r.ReadFloat32()
	}
	return nil
}

// ReadUint32s fills dst.
func (r *Reader) ReadUint32s(dst []uint32) error {
	if _, err := r.Peek(4 * len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i], _ = r.ReadUint32()
	}
	return nil
}
