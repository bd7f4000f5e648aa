package wire

import (
	"encoding/binary"
	"math"
)

// Buffer is a growable little-endian output buffer.
type Buffer struct {
	data []byte
}

// NewBuffer returns a buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Bytes returns the encoded bytes. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Write appends raw bytes.
func (b *Buffer) Write(p []byte) {
	b.data = append(b.data, p...)
}

// WriteUint8 appends a single byte.
func (b *Buffer) WriteUint8(v uint8) {
	b.data = append(b.data, v)
}

// WriteUint16 appends a 16-bit unsigned integer in little-endian order.
func (b *Buffer) WriteUint16(v uint16) {
	b.data = binary.LittleEndian.AppendUint16(b.data, v)
}

// WriteUint32 appends a 32-bit unsigned integer in little-endian order.
func (b *Buffer) WriteUint32(v uint32) {
	b.data = binary.LittleEndian.AppendUint32(b.data, v)
}

// WriteInt32 appends a 32-bit signed integer in little-endian order.
func (b *Buffer) WriteInt32(v int32) {
	b.WriteUint32(uint32(v))
}

// WriteFloat32 appends an IEEE 754 single-precision float.
func (b *Buffer) WriteFloat32(v float32) {
	b.WriteUint32(math.Float32bits(v))
}

// WriteFloat32s appends each value in order.
func (b *Buffer) WriteFloat32s(vs ...float32) {
	for _, v := range vs {
		b.WriteFloat32(v)
	}
}

// WriteUint32s appends each value in order.
func (b *Buffer) WriteUint32s(vs ...uint32) {
	for _, v := range vs {
		b.WriteUint32(v)
	}
}
