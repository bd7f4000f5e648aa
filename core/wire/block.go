package wire

import (
	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/internal/logging"
)

// Order records the tags of optional blocks in the sequence they were
// decoded. A nil Order means the container was never decoded and encodes
// in canonical order.
type Order []Tag

// Mode selects how ReadBlocks treats a tag outside its table.
type Mode int

const (
	// Strict fails on an unknown tag.
	Strict Mode = iota
	// UntilUnknown stops on an unknown tag and leaves it unread.
	UntilUnknown
)

// Block binds one optional, tag-introduced sub-block to a field.
type Block struct {
	Tag     Tag
	Present func() bool
	// Decode reads the block body; the tag has already been consumed.
	Decode func(r *Reader, v Version) error
	// Encode writes the block body after the tag.
	Encode func(b *Buffer, v Version) error
}

func blockIndex(blocks []Block, t Tag) int {
	for i := range blocks {
		if blocks[i].Tag == t {
			return i
		}
	}
	return -1
}

// ReadBlocks decodes optional blocks until r is empty or, in UntilUnknown
// mode, an unknown tag is reached. context names the record for errors.
// A repeated tag overwrites the earlier value.
func ReadBlocks(r *Reader, v Version, context string, blocks []Block, mode Mode) (Order, error) {
	order := make(Order, 0)
	err := ScanTagged(r, func(t Tag, r *Reader) (ScanAction, error) {
		i := blockIndex(blocks, t)
		if i < 0 {
			if mode == UntilUnknown {
				return Stop, nil
			}
			return Stop, &errors.UnknownTagError{Tag: t, Context: context}
		}
		_ = r.Skip(TagSize)
		if err := blocks[i].Decode(r, v); err != nil {
			return Stop, errors.Wrapf(err, "%s/%s", context, t)
		}
		order = append(order, t)
		return Continue, nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// WriteBlocks replays order, emitting each present block at most once, then
// appends present blocks the order does not mention in table order.
func WriteBlocks(b *Buffer, v Version, blocks []Block, order Order) error {
	written := make([]bool, len(blocks))
	emit := func(i int) error {
		written[i] = true
		blocks[i].Tag.Encode(b)
		if err := blocks[i].Encode(b, v); err != nil {
			return errors.Wrapf(err, "block %s", blocks[i].Tag)
		}
		return nil
	}

	for _, t := range order {
		i := blockIndex(blocks, t)
		switch {
		case i < 0:
			logging.Warn("order names a block this record does not have", "tag", t.String())
		case written[i]:
		case !blocks[i].Present():
			logging.Warn("order names an absent block", "tag", t.String())
		default:
			if err := emit(i); err != nil {
				return err
			}
		}
	}
	for i := range blocks {
		if !written[i] && blocks[i].Present() {
			if err := emit(i); err != nil {
				return err
			}
		}
	}
	return nil
}
