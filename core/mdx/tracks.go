package mdx

import "github.com/FocuswithJustin/mdxkit/core/wire"

// Interpolation selects how keys of a track are blended.
type Interpolation uint32

const (
	InterpolationNone Interpolation = iota
	InterpolationLinear
	InterpolationHermite
	InterpolationBezier
	interpolationCount
)

// HasTangents reports whether keys carry in and out tangents.
func (i Interpolation) HasTangents() bool {
	return i > InterpolationLinear
}

func (i Interpolation) String() string {
	switch i {
	case InterpolationNone:
		return "none"
	case InterpolationLinear:
		return "linear"
	case InterpolationHermite:
		return "hermite"
	case InterpolationBezier:
		return "bezier"
	}
	return "unknown"
}

// NoGlobalSequence marks a track that follows the sequence timeline.
const NoGlobalSequence = ^uint32(0)

// Key is one keyframe. Tangents are only stored for Hermite and Bezier tracks.
type Key[T any] struct {
	Frame  int32 `json:"frame"`
	Value  T     `json:"value"`
	InTan  T     `json:"inTan"`
	OutTan T     `json:"outTan"`
}

// Track is an animated property.
type Track[T any] struct {
	Interpolation    Interpolation `json:"interpolation"`
	GlobalSequenceID uint32        `json:"globalSequenceId"`
	Keys             []Key[T]      `json:"keys"`
}

func (c valueCodec[T]) readTrack(r *wire.Reader) (*Track[T], error) {
	f := fields{r: r}
	var n uint32
	t := new(Track[T])
	f.u32(&n)
	readEnum(&f, &t.Interpolation, "interpolation", uint32(interpolationCount))
	f.u32(&t.GlobalSequenceID)
	if f.err != nil {
		return nil, f.err
	}

	keySize := 4 + c.size
	if t.Interpolation.HasTangents() {
		keySize += 2 * c.size
	}
	if err := r.Require(n, keySize); err != nil {
		return nil, err
	}
	t.Keys = make([]Key[T], n)
	for i := range t.Keys {
		k := &t.Keys[i]
		k.Frame, _ = r.ReadInt32()
		k.Value, _ = c.read(r)
		if t.Interpolation.HasTangents() {
			k.InTan, _ = c.read(r)
			k.OutTan, _ = c.read(r)
		}
	}
	return t, nil
}

func (c valueCodec[T]) writeTrack(b *wire.Buffer, t *Track[T]) error {
	n, err := wire.Size32(len(t.Keys))
	if err != nil {
		return err
	}
	b.WriteUint32(n)
	b.WriteUint32(uint32(t.Interpolation))
	b.WriteUint32(t.GlobalSequenceID)
	for _, k := range t.Keys {
		b.WriteInt32(k.Frame)
		c.write(b, k.Value)
		if t.Interpolation.HasTangents() {
			c.write(b, k.InTan)
			c.write(b, k.OutTan)
		}
	}
	return nil
}

// trackBlock binds an optional animation track to field. A nil track is absent.
func trackBlock[T any](tag wire.Tag, field **Track[T], c valueCodec[T]) wire.Block {
	return wire.Block{
		Tag:     tag,
		Present: func() bool { return *field != nil },
		Decode: func(r *wire.Reader, _ wire.Version) error {
			t, err := c.readTrack(r)
			if err != nil {
				return err
			}
			*field = t
			return nil
		},
		Encode: func(b *wire.Buffer, _ wire.Version) error {
			return c.writeTrack(b, *field)
		},
	}
}
