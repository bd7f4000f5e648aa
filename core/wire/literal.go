package wire

import (
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/mdxkit/core/errors"
)

// ReadLiteral consumes a fixed-width text field. Padding NULs are part of
// the returned string.
func ReadLiteral(r *Reader, width int) (string, error) {
	if r.Len() < width {
		return "", &errors.LiteralError{Width: width, Have: r.Len(), Err: errors.ErrLiteralTooShort}
	}
	p, _ := r.Bytes(width)
	if !utf8.Valid(p) {
		return "", &errors.LiteralError{Width: width, Have: width, Err: errors.ErrInvalidUTF8}
	}
	return string(p), nil
}

// WriteLiteral appends s padded with zero bytes to width.
func WriteLiteral(b *Buffer, s string, width int) error {
	if len(s) > width {
		return &errors.LiteralOverflowError{Width: width, Length: len(s)}
	}
	b.Write([]byte(s))
	for i := len(s); i < width; i++ {
		b.WriteUint8(0)
	}
	return nil
}

// TrimLiteral cuts a decoded literal at its first NUL for display.
func TrimLiteral(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
