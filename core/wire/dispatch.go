package wire

import "github.com/FocuswithJustin/mdxkit/core/errors"

// ScanAction tells a tag-only scan whether to keep going.
type ScanAction int

const (
	// Continue scanning after the callback consumed its block.
	Continue ScanAction = iota
	// Stop scanning and leave the cursor where the callback left it.
	Stop
)

// ScanChunks walks header-framed chunks until r is empty. For each chunk fn
// receives the header and a bounded reader over the whole chunk, header
// included, which it must consume.
func ScanChunks(r *Reader, fn func(h Header, chunk *Reader) error) error {
	for !r.Empty() {
		h, err := PeekHeader(r)
		if err != nil {
			return err
		}
		if avail := r.Len() - HeaderSize; int64(h.Size) > int64(avail) {
			return &errors.ChunkSizeError{Tag: h.Tag, Size: h.Size, Available: avail}
		}
		chunk, _ := r.Sub(HeaderSize + int(h.Size))
		if err := fn(h, chunk); err != nil {
			return err
		}
		if !chunk.Empty() {
			return &errors.LeftoverError{Kind: errors.SpanChunk, Tag: h.Tag, Remaining: chunk.Len()}
		}
	}
	return nil
}

// ScanTagged peeks a tag at a time until r is empty and hands the cursor,
// still positioned on the tag, to fn. fn must consume what it recognizes
// before returning Continue.
func ScanTagged(r *Reader, fn func(t Tag, r *Reader) (ScanAction, error)) error {
	for !r.Empty() {
		t, err := PeekTag(r)
		if err != nil {
			return err
		}
		action, err := fn(t, r)
		if err != nil {
			return err
		}
		if action == Stop {
			return nil
		}
	}
	return nil
}
