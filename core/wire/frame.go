package wire

import (
	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/internal/logging"
)

// Codec is implemented by every record type through its pointer.
type Codec[T any] interface {
	*T
	Decode(r *Reader, v Version) error
	Encode(b *Buffer, v Version) error
}

// ReadVec reads a u32 count followed by that many records.
func ReadVec[T any, P Codec[T]](r *Reader, v Version) ([]T, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	// Every record takes at least one byte, so a count past the remaining
	// input cannot be satisfied.
	if int64(n) > int64(r.Len()) {
		return nil, r.short(int(n))
	}
	items := make([]T, n)
	for i := range items {
		if err := P(&items[i]).Decode(r, v); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
	}
	return items, nil
}

// WriteVec writes a u32 count followed by each record.
func WriteVec[T any, P Codec[T]](b *Buffer, items []T, v Version) error {
	n, err := Size32(len(items))
	if err != nil {
		return err
	}
	b.WriteUint32(n)
	return WriteAll[T, P](b, items, v)
}

// ReadAll decodes records until r is empty.
func ReadAll[T any, P Codec[T]](r *Reader, v Version) ([]T, error) {
	items := make([]T, 0)
	for i := 0; !r.Empty(); i++ {
		var item T
		if err := P(&item).Decode(r, v); err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		items = append(items, item)
	}
	return items, nil
}

// WriteAll encodes each record back to back.
func WriteAll[T any, P Codec[T]](b *Buffer, items []T, v Version) error {
	for i := range items {
		if err := P(&items[i]).Encode(b, v); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
	}
	return nil
}

// ReadChunkBody consumes a header that must carry tag and returns a bounded
// reader over its body.
func ReadChunkBody(r *Reader, tag Tag) (*Reader, error) {
	h, err := ExpectHeader(r, tag)
	if err != nil {
		return nil, err
	}
	if int64(h.Size) > int64(r.Len()) {
		return nil, &errors.ChunkSizeError{Tag: h.Tag, Size: h.Size, Available: r.Len()}
	}
	return r.Sub(int(h.Size))
}

// DecodeChunk runs fn over the body of a tag chunk. The body must be
// consumed exactly.
func DecodeChunk(r *Reader, tag Tag, fn func(body *Reader) error) error {
	body, err := ReadChunkBody(r, tag)
	if err != nil {
		return err
	}
	if err := fn(body); err != nil {
		return err
	}
	if !body.Empty() {
		return &errors.LeftoverError{Kind: errors.SpanChunk, Tag: tag, Remaining: body.Len()}
	}
	return nil
}

// ReadChunk decodes a chunk whose body is a run of variable-size records.
func ReadChunk[T any, P Codec[T]](r *Reader, tag Tag, v Version) ([]T, error) {
	var items []T
	err := DecodeChunk(r, tag, func(body *Reader) error {
		var err error
		items, err = ReadAll[T, P](body, v)
		return err
	})
	return items, err
}

// ReadFixedChunk decodes a chunk whose body is size/width records of width
// bytes each. A trailing partial record is logged and skipped.
func ReadFixedChunk[T any, P Codec[T]](r *Reader, tag Tag, width int, v Version) ([]T, error) {
	var items []T
	err := DecodeChunk(r, tag, func(body *Reader) error {
		n := body.Len() / width
		if rem := body.Len() % width; rem != 0 {
			logging.Warn("chunk size is not a multiple of its element size",
				"tag", tag.String(), "size", body.Len(), "width", width, "skipped", rem)
		}
		items = make([]T, n)
		for i := range items {
			elem, _ := body.Sub(width)
			if err := P(&items[i]).Decode(elem, v); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
			if !elem.Empty() {
				return &errors.LeftoverError{Kind: errors.SpanChunk, Tag: tag, Remaining: elem.Len()}
			}
		}
		return body.Skip(body.Len())
	})
	return items, err
}

// WriteChunk measures body in a scratch buffer and appends it behind a
// header with the exclusive size.
func WriteChunk(b *Buffer, tag Tag, body func(*Buffer) error) error {
	var scratch Buffer
	if err := body(&scratch); err != nil {
		return err
	}
	if err := WriteHeader(b, tag, scratch.Len()); err != nil {
		return err
	}
	b.Write(scratch.Bytes())
	return nil
}

// WriteRecordChunk writes items as the body of a tag chunk.
func WriteRecordChunk[T any, P Codec[T]](b *Buffer, tag Tag, items []T, v Version) error {
	return WriteChunk(b, tag, func(body *Buffer) error {
		return WriteAll[T, P](body, items, v)
	})
}

// ReadInclusive reads a self-inclusive u32 size and runs fn over the
// following size-4 bytes, which fn must consume exactly.
func ReadInclusive(r *Reader, fn func(span *Reader) error) error {
	n, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if n < 4 {
		return &errors.InclusiveSizeError{Size: n, Available: r.Len()}
	}
	if int64(n-4) > int64(r.Len()) {
		return &errors.InclusiveSizeError{Size: n, Available: r.Len()}
	}
	span, _ := r.Sub(int(n - 4))
	if err := fn(span); err != nil {
		return err
	}
	if !span.Empty() {
		return &errors.LeftoverError{Kind: errors.SpanInclusive, Remaining: span.Len()}
	}
	return nil
}

// WriteInclusive runs fn into a scratch buffer and appends its length plus
// four, then the scratch bytes.
func WriteInclusive(b *Buffer, fn func(*Buffer) error) error {
	var scratch Buffer
	if err := fn(&scratch); err != nil {
		return err
	}
	n, err := Size32(scratch.Len() + 4)
	if err != nil {
		return err
	}
	b.WriteUint32(n)
	b.Write(scratch.Bytes())
	return nil
}
