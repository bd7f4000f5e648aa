// Package errors provides standardized error types and helpers for the mdxkit codebase.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// Decode-side structural failures. Every one of them aborts the current parse.
var (
	ErrTagMismatch             = errors.New("tag mismatch")
	ErrUnknownTag              = errors.New("unknown tag")
	ErrUnknownEnum             = errors.New("unknown enum value")
	ErrLiteralTooShort         = errors.New("literal too short")
	ErrInvalidUTF8             = errors.New("invalid utf-8 in literal")
	ErrChunkNotEnoughInput     = errors.New("chunk not enough input")
	ErrChunkLeftover           = errors.New("chunk leftover")
	ErrInclusiveTooSmall       = errors.New("inclusive size too small")
	ErrInclusiveNotEnoughInput = errors.New("inclusive not enough input")
	ErrInclusiveLeftover       = errors.New("inclusive leftover")
	// ErrShortInput means a scalar did not fit inside a sized span.
	ErrShortInput = errors.New("short input")
	// ErrIncomplete means the outermost stream ended early, usually a truncated file.
	ErrIncomplete = errors.New("incomplete input")
)

// Encode-side failures.
var (
	ErrSizeOverflow    = errors.New("size overflow")
	ErrLiteralOverflow = errors.New("literal overflow")
)

// TagString renders a 4-byte tag as ASCII when every byte is printable,
// otherwise as the raw byte values.
func TagString(t [4]byte) string {
	for _, c := range t {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("[%d %d %d %d]", t[0], t[1], t[2], t[3])
		}
	}
	return string(t[:])
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "blob", "model")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// ParseError locates a decode failure inside a binary document.
type ParseError struct {
	Format string // Format being parsed (e.g., "MDX")
	Path   string // Record path, e.g. "MTLS/material[2]"
	Offset int    // Absolute byte offset of the failing record
	Err    error  // Structural cause
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to parse %s", e.Format)
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	fmt.Fprintf(&b, " (offset %d)", e.Offset)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// EncodeError locates an encode failure inside a model.
type EncodeError struct {
	Format string
	Path   string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to encode %s at %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// TagMismatchError is returned when a decoded tag differs from the expected one.
type TagMismatchError struct {
	Expected [4]byte
	Found    [4]byte
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("tag mismatch: expected %s, found %s", TagString(e.Expected), TagString(e.Found))
}

func (e *TagMismatchError) Unwrap() error {
	return ErrTagMismatch
}

// UnknownTagError is returned by strict sub-block scans.
type UnknownTagError struct {
	Tag     [4]byte
	Context string // Record kind being scanned
}

func (e *UnknownTagError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("unknown tag %s in %s", TagString(e.Tag), e.Context)
	}
	return fmt.Sprintf("unknown tag %s", TagString(e.Tag))
}

func (e *UnknownTagError) Unwrap() error {
	return ErrUnknownTag
}

// UnknownEnumError reports a discriminant outside an enumeration's closed set.
type UnknownEnumError struct {
	Field string
	Value uint32
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("unknown %s value %d", e.Field, e.Value)
}

func (e *UnknownEnumError) Unwrap() error {
	return ErrUnknownEnum
}

// LiteralError is returned when a fixed-width text field cannot be decoded.
// Err is ErrLiteralTooShort or ErrInvalidUTF8.
type LiteralError struct {
	Width int
	Have  int
	Err   error
}

func (e *LiteralError) Error() string {
	if errors.Is(e.Err, ErrLiteralTooShort) {
		return fmt.Sprintf("literal too short: need %d bytes, have %d", e.Width, e.Have)
	}
	return fmt.Sprintf("%d-byte literal: %v", e.Width, e.Err)
}

func (e *LiteralError) Unwrap() error {
	return e.Err
}

// ChunkSizeError is returned when a header declares more bytes than remain.
type ChunkSizeError struct {
	Tag       [4]byte
	Size      uint32 // Declared body size
	Available int    // Bytes left after the header
}

func (e *ChunkSizeError) Error() string {
	return fmt.Sprintf("chunk not enough input: %s declares %d bytes, %d available", TagString(e.Tag), e.Size, e.Available)
}

func (e *ChunkSizeError) Unwrap() error {
	return ErrChunkNotEnoughInput
}

// InclusiveSizeError is returned for a self-inclusive size below 4 or past
// the end of the enclosing span.
type InclusiveSizeError struct {
	Size      uint32
	Available int
}

func (e *InclusiveSizeError) Error() string {
	if e.Size < 4 {
		return fmt.Sprintf("inclusive size too small: %d", e.Size)
	}
	return fmt.Sprintf("inclusive not enough input: size %d, %d available", e.Size, e.Available)
}

func (e *InclusiveSizeError) Unwrap() error {
	if e.Size < 4 {
		return ErrInclusiveTooSmall
	}
	return ErrInclusiveNotEnoughInput
}

// SpanKind distinguishes the two sized-span conventions.
type SpanKind int

const (
	SpanChunk SpanKind = iota
	SpanInclusive
)

// LeftoverError is returned when a sub-parser leaves bytes in its span.
type LeftoverError struct {
	Kind      SpanKind
	Tag       [4]byte // Chunk tag, for SpanChunk
	Remaining int
}

func (e *LeftoverError) Error() string {
	if e.Kind == SpanChunk {
		return fmt.Sprintf("chunk leftover: %d bytes unread in %s", e.Remaining, TagString(e.Tag))
	}
	return fmt.Sprintf("inclusive leftover: %d bytes unread", e.Remaining)
}

func (e *LeftoverError) Unwrap() error {
	if e.Kind == SpanChunk {
		return ErrChunkLeftover
	}
	return ErrInclusiveLeftover
}

// ShortInputError is returned when a primitive read needs more bytes than exist.
type ShortInputError struct {
	Need       int
	Have       int
	Incomplete bool // The outermost stream ran out
}

func (e *ShortInputError) Error() string {
	if e.Incomplete {
		return fmt.Sprintf("incomplete input: need %d bytes, have %d", e.Need, e.Have)
	}
	return fmt.Sprintf("short input: need %d bytes, have %d", e.Need, e.Have)
}

func (e *ShortInputError) Unwrap() error {
	if e.Incomplete {
		return ErrIncomplete
	}
	return ErrShortInput
}

// SizeOverflowError is returned when a computed length does not fit a u32.
type SizeOverflowError struct {
	Size int
}

func (e *SizeOverflowError) Error() string {
	return fmt.Sprintf("size overflow: %d does not fit in 32 bits", e.Size)
}

func (e *SizeOverflowError) Unwrap() error {
	return ErrSizeOverflow
}

// LiteralOverflowError is returned when a string is longer than its field.
type LiteralOverflowError struct {
	Width  int
	Length int
}

func (e *LiteralOverflowError) Error() string {
	return fmt.Sprintf("literal overflow: %d bytes do not fit in %d-byte field", e.Length, e.Width)
}

func (e *LiteralOverflowError) Unwrap() error {
	return ErrLiteralOverflow
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// NewParse creates a ParseError
func NewParse(format, path string, offset int, err error) *ParseError {
	return &ParseError{
		Format: format,
		Path:   path,
		Offset: offset,
		Err:    err,
	}
}

// NewEnum creates an UnknownEnumError
func NewEnum(field string, value uint32) *UnknownEnumError {
	return &UnknownEnumError{Field: field, Value: value}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
