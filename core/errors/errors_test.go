package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTagString(t *testing.T) {
	tests := []struct {
		name string
		tag  [4]byte
		want string
	}{
		{"ascii", [4]byte{'M', 'D', 'L', 'X'}, "MDLX"},
		{"digits", [4]byte{'K', 'F', 'C', '3'}, "KFC3"},
		{"nul byte", [4]byte{'A', 0, 'C', 'D'}, "[65 0 67 68]"},
		{"high byte", [4]byte{0xff, 0xfe, 0x01, 0x80}, "[255 254 1 128]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TagString(tt.tag); got != tt.want {
				t.Errorf("TagString(%v) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantBase error
	}{
		{
			name:     "tag mismatch",
			err:      &TagMismatchError{Expected: [4]byte{'W', 'X', 'Y', 'Z'}, Found: [4]byte{'A', 'B', 'C', 'D'}},
			wantMsg:  "tag mismatch: expected WXYZ, found ABCD",
			wantBase: ErrTagMismatch,
		},
		{
			name:     "unknown tag with context",
			err:      &UnknownTagError{Tag: [4]byte{'K', 'X', 'X', 'X'}, Context: "node"},
			wantMsg:  "unknown tag KXXX in node",
			wantBase: ErrUnknownTag,
		},
		{
			name:     "unknown tag",
			err:      &UnknownTagError{Tag: [4]byte{'K', 'X', 'X', 'X'}},
			wantMsg:  "unknown tag KXXX",
			wantBase: ErrUnknownTag,
		},
		{
			name:     "unknown enum",
			err:      NewEnum("collision shape", 7),
			wantMsg:  "unknown collision shape value 7",
			wantBase: ErrUnknownEnum,
		},
		{
			name:     "literal too short",
			err:      &LiteralError{Width: 80, Have: 12, Err: ErrLiteralTooShort},
			wantMsg:  "literal too short: need 80 bytes, have 12",
			wantBase: ErrLiteralTooShort,
		},
		{
			name:     "literal utf-8",
			err:      &LiteralError{Width: 80, Have: 80, Err: ErrInvalidUTF8},
			wantMsg:  "80-byte literal: invalid utf-8 in literal",
			wantBase: ErrInvalidUTF8,
		},
		{
			name:     "chunk size",
			err:      &ChunkSizeError{Tag: [4]byte{'T', 'E', 'X', 'S'}, Size: 268, Available: 100},
			wantMsg:  "chunk not enough input: TEXS declares 268 bytes, 100 available",
			wantBase: ErrChunkNotEnoughInput,
		},
		{
			name:     "inclusive too small",
			err:      &InclusiveSizeError{Size: 3, Available: 10},
			wantMsg:  "inclusive size too small: 3",
			wantBase: ErrInclusiveTooSmall,
		},
		{
			name:     "inclusive overrun",
			err:      &InclusiveSizeError{Size: 40, Available: 10},
			wantMsg:  "inclusive not enough input: size 40, 10 available",
			wantBase: ErrInclusiveNotEnoughInput,
		},
		{
			name:     "chunk leftover",
			err:      &LeftoverError{Kind: SpanChunk, Tag: [4]byte{'M', 'O', 'D', 'L'}, Remaining: 2},
			wantMsg:  "chunk leftover: 2 bytes unread in MODL",
			wantBase: ErrChunkLeftover,
		},
		{
			name:     "inclusive leftover",
			err:      &LeftoverError{Kind: SpanInclusive, Remaining: 5},
			wantMsg:  "inclusive leftover: 5 bytes unread",
			wantBase: ErrInclusiveLeftover,
		},
		{
			name:     "short input",
			err:      &ShortInputError{Need: 4, Have: 1},
			wantMsg:  "short input: need 4 bytes, have 1",
			wantBase: ErrShortInput,
		},
		{
			name:     "incomplete",
			err:      &ShortInputError{Need: 8, Have: 3, Incomplete: true},
			wantMsg:  "incomplete input: need 8 bytes, have 3",
			wantBase: ErrIncomplete,
		},
		{
			name:     "size overflow",
			err:      &SizeOverflowError{Size: 1 << 33},
			wantMsg:  "size overflow: 8589934592 does not fit in 32 bits",
			wantBase: ErrSizeOverflow,
		},
		{
			name:     "literal overflow",
			err:      &LiteralOverflowError{Width: 10, Length: 11},
			wantMsg:  "literal overflow: 11 bytes do not fit in 10-byte field",
			wantBase: ErrLiteralOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.wantBase)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	cause := &InclusiveSizeError{Size: 2}
	err := NewParse("MDX", "MTLS/material[1]", 96, cause)

	want := "failed to parse MDX at MTLS/material[1] (offset 96): inclusive size too small: 2"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInclusiveTooSmall) {
		t.Error("ParseError should unwrap to ErrInclusiveTooSmall")
	}
	var size *InclusiveSizeError
	if !As(err, &size) || size.Size != 2 {
		t.Errorf("As() = %v, want the inclusive size error", size)
	}

	t.Run("without path or cause", func(t *testing.T) {
		err := &ParseError{Format: "MDX"}
		if got := err.Error(); got != "failed to parse MDX (offset 0)" {
			t.Errorf("Error() = %q", got)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("bare ParseError should unwrap to ErrInvalidInput")
		}
	})
}

func TestEncodeError(t *testing.T) {
	err := &EncodeError{Format: "MDX", Path: "TEXS/texture[0]", Err: &LiteralOverflowError{Width: 260, Length: 300}}
	want := "failed to encode MDX at TEXS/texture[0]: literal overflow: 300 bytes do not fit in 260-byte field"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrLiteralOverflow) {
		t.Error("EncodeError should unwrap to ErrLiteralOverflow")
	}

	bare := &EncodeError{Format: "MDX", Err: ErrSizeOverflow}
	if got := bare.Error(); got != "failed to encode MDX: size overflow" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      NewNotFound("blob", "abc123"),
			wantMsg:  "blob not found: abc123",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "model"},
			wantMsg:  "model not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "file", ID: "test.mdx", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestValidationAndIOErrors(t *testing.T) {
	v := NewValidation("path", "path traversal detected")
	if got := v.Error(); got != "validation failed for path: path traversal detected" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(v, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}

	cause := fmt.Errorf("permission denied")
	io := NewIO("open", "model.mdx", cause)
	if got := io.Error(); got != "failed to open model.mdx: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if io.Unwrap() != cause {
		t.Error("IOError should unwrap to its cause")
	}

	u := NewUnsupported("archive format", ".rar")
	if got := u.Error(); got != "unsupported archive format: .rar" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(u, ErrUnsupported) {
		t.Error("UnsupportedError should unwrap to ErrUnsupported")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "layer %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrShortInput, "layer %d", 3)
	if got := err.Error(); got != "layer 3: short input" {
		t.Errorf("Wrapf() = %q", got)
	}
	if !Is(Wrap(err, "material 0"), ErrShortInput) {
		t.Error("wrapped chain should reach ErrShortInput")
	}
}
