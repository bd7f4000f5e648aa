package wire

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/mdxkit/core/errors"
)

// TagSize is the width of a tag on the wire.
const TagSize = 4

// Tag is a 4-byte chunk or block identifier.
type Tag [TagSize]byte

// MakeTag converts a 4-character string. It panics on any other length and
// is meant for package-level tag tables.
func MakeTag(s string) Tag {
	if len(s) != TagSize {
		panic(fmt.Sprintf("wire: tag %q is not %d bytes", s, TagSize))
	}
	var t Tag
	copy(t[:], s)
	return t
}

// String renders the tag as ASCII when printable, otherwise as raw bytes.
func (t Tag) String() string {
	return errors.TagString(t)
}

// Printable reports whether every byte is printable ASCII.
func (t Tag) Printable() bool {
	for _, c := range t {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// MarshalText encodes printable tags as their text and others as 0x-prefixed hex.
func (t Tag) MarshalText() ([]byte, error) {
	if t.Printable() {
		return []byte(string(t[:])), nil
	}
	return []byte("0x" + hex.EncodeToString(t[:])), nil
}

// UnmarshalText is the inverse of MarshalText.
func (t *Tag) UnmarshalText(b []byte) error {
	s := string(b)
	if len(s) == 2+2*TagSize && strings.HasPrefix(s, "0x") {
		raw, err := hex.DecodeString(s[2:])
		if err != nil {
			return fmt.Errorf("invalid tag %q: %w", s, err)
		}
		copy(t[:], raw)
		return nil
	}
	if len(s) != TagSize {
		return fmt.Errorf("invalid tag %q: want %d bytes", s, TagSize)
	}
	copy(t[:], s)
	return nil
}

// Encode appends the tag.
func (t Tag) Encode(b *Buffer) {
	b.Write(t[:])
}

// ReadTag consumes a tag.
func ReadTag(r *Reader) (Tag, error) {
	var t Tag
	p, err := r.Bytes(TagSize)
	if err != nil {
		return t, err
	}
	copy(t[:], p)
	return t, nil
}

// PeekTag returns the next tag without consuming it.
func PeekTag(r *Reader) (Tag, error) {
	var t Tag
	p, err := r.Peek(TagSize)
	if err != nil {
		return t, err
	}
	copy(t[:], p)
	return t, nil
}

// ExpectTag consumes a tag and fails with *errors.TagMismatchError when it
// is not want.
func ExpectTag(r *Reader, want Tag) (Tag, error) {
	t, err := ReadTag(r)
	if err != nil {
		return t, err
	}
	if t != want {
		return t, &errors.TagMismatchError{Expected: want, Found: t}
	}
	return t, nil
}
