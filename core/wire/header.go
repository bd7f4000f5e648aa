package wire

import (
	"math"

	"github.com/FocuswithJustin/mdxkit/core/errors"
)

// HeaderSize is the width of a tag plus its u32 size.
const HeaderSize = TagSize + 4

// Header frames a chunk. The meaning of Size depends on the record kind.
type Header struct {
	Tag  Tag
	Size uint32
}

// ReadHeader consumes a header.
func ReadHeader(r *Reader) (Header, error) {
	if _, err := r.Peek(HeaderSize); err != nil {
		return Header{}, err
	}
	t, _ := ReadTag(r)
	size, _ := r.ReadUint32()
	return Header{Tag: t, Size: size}, nil
}

// PeekHeader returns the next header without consuming it.
func PeekHeader(r *Reader) (Header, error) {
	p, err := r.Peek(HeaderSize)
	if err != nil {
		return Header{}, err
	}
	return ReadHeader(NewReader(p))
}

// ExpectHeader consumes a header whose tag must be want.
func ExpectHeader(r *Reader, want Tag) (Header, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return h, err
	}
	if h.Tag != want {
		return h, &errors.TagMismatchError{Expected: want, Found: h.Tag}
	}
	return h, nil
}

// Encode appends the header.
func (h Header) Encode(b *Buffer) {
	h.Tag.Encode(b)
	b.WriteUint32(h.Size)
}

// Size32 converts a computed length to a u32 size field.
func Size32(n int) (uint32, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, &errors.SizeOverflowError{Size: n}
	}
	return uint32(n), nil
}

// WriteHeader appends a header for a body of n bytes.
func WriteHeader(b *Buffer, tag Tag, n int) error {
	size, err := Size32(n)
	if err != nil {
		return err
	}
	Header{Tag: tag, Size: size}.Encode(b)
	return nil
}
