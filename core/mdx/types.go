package mdx

import (
	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/core/wire"
)

// Literal widths used across the format.
const (
	NameWidth = 80
	PathWidth = 260
)

type (
	Vec2 [2]float32
	Vec3 [3]float32
	Vec4 [4]float32
)

// Extent is a bounding sphere radius plus an axis-aligned box.
type Extent struct {
	BoundsRadius float32 `json:"boundsRadius"`
	Minimum      Vec3    `json:"minimum"`
	Maximum      Vec3    `json:"maximum"`
}

const extentSize = 28

func (e *Extent) Decode(r *wire.Reader, _ wire.Version) error {
	f := fields{r: r}
	f.f32(&e.BoundsRadius)
	f.vec3(&e.Minimum)
	f.vec3(&e.Maximum)
	return f.err
}

func (e *Extent) Encode(b *wire.Buffer, _ wire.Version) error {
	b.WriteFloat32(e.BoundsRadius)
	b.WriteFloat32s(e.Minimum[:]...)
	b.WriteFloat32s(e.Maximum[:]...)
	return nil
}

func (p *Vec3) Decode(r *wire.Reader, _ wire.Version) error {
	return r.ReadFloat32s(p[:])
}

func (p *Vec3) Encode(b *wire.Buffer, _ wire.Version) error {
	b.WriteFloat32s(p[:]...)
	return nil
}

// fields reads a run of scalars and keeps the first error.
type fields struct {
	r   *wire.Reader
	err error
}

func (f *fields) u8(p *uint8) {
	if f.err == nil {
		*p, f.err = f.r.ReadUint8()
	}
}

func (f *fields) u32(p *uint32) {
	if f.err == nil {
		*p, f.err = f.r.ReadUint32()
	}
}

func (f *fields) i32(p *int32) {
	if f.err == nil {
		*p, f.err = f.r.ReadInt32()
	}
}

func (f *fields) f32(p *float32) {
	if f.err == nil {
		*p, f.err = f.r.ReadFloat32()
	}
}

func (f *fields) vec3(p *Vec3) {
	if f.err == nil {
		f.err = f.r.ReadFloat32s(p[:])
	}
}

func (f *fields) literal(p *string, width int) {
	if f.err == nil {
		*p, f.err = wire.ReadLiteral(f.r, width)
	}
}

func (f *fields) extent(p *Extent) {
	if f.err == nil {
		f.err = p.Decode(f.r, wire.NoVersion)
	}
}

func (f *fields) tag(want wire.Tag) {
	if f.err == nil {
		_, f.err = wire.ExpectTag(f.r, want)
	}
}

func (f *fields) do(fn func() error) {
	if f.err == nil {
		f.err = fn()
	}
}

// readEnum reads a u32 discriminant that must be below count.
func readEnum[E ~uint32](f *fields, p *E, name string, count uint32) {
	if f.err != nil {
		return
	}
	var v uint32
	if v, f.err = f.r.ReadUint32(); f.err != nil {
		return
	}
	if v >= count {
		f.err = errors.NewEnum(name, v)
		return
	}
	*p = E(v)
}

// out writes a run of fields and keeps the first literal error.
type out struct {
	b   *wire.Buffer
	err error
}

func (o *out) literal(s string, width int) {
	if o.err == nil {
		o.err = wire.WriteLiteral(o.b, s, width)
	}
}

func (o *out) do(fn func() error) {
	if o.err == nil {
		o.err = fn()
	}
}

// valueCodec reads and writes one scalar or vector value of fixed size.
type valueCodec[T any] struct {
	size  int
	read  func(*wire.Reader) (T, error)
	write func(*wire.Buffer, T)
}

func readVec3(r *wire.Reader) (Vec3, error) {
	var v Vec3
	err := r.ReadFloat32s(v[:])
	return v, err
}

func readVec4(r *wire.Reader) (Vec4, error) {
	var v Vec4
	err := r.ReadFloat32s(v[:])
	return v, err
}

func readVec2(r *wire.Reader) (Vec2, error) {
	var v Vec2
	err := r.ReadFloat32s(v[:])
	return v, err
}

func readExtent(r *wire.Reader) (Extent, error) {
	var e Extent
	err := e.Decode(r, wire.NoVersion)
	return e, err
}

var (
	floatValues = valueCodec[float32]{size: 4, read: (*wire.Reader).ReadFloat32, write: (*wire.Buffer).WriteFloat32}
	uintValues  = valueCodec[uint32]{size: 4, read: (*wire.Reader).ReadUint32, write: (*wire.Buffer).WriteUint32}
	shortValues = valueCodec[uint16]{size: 2, read: (*wire.Reader).ReadUint16, write: (*wire.Buffer).WriteUint16}
	byteValues  = valueCodec[uint8]{size: 1, read: (*wire.Reader).ReadUint8, write: (*wire.Buffer).WriteUint8}
	vec2Values  = valueCodec[Vec2]{size: 8, read: readVec2, write: func(b *wire.Buffer, v Vec2) { b.WriteFloat32s(v[:]...) }}
	vec3Values  = valueCodec[Vec3]{size: 12, read: readVec3, write: func(b *wire.Buffer, v Vec3) { b.WriteFloat32s(v[:]...) }}
	vec4Values  = valueCodec[Vec4]{size: 16, read: readVec4, write: func(b *wire.Buffer, v Vec4) { b.WriteFloat32s(v[:]...) }}

	extentValues = valueCodec[Extent]{size: extentSize, read: readExtent, write: func(b *wire.Buffer, e Extent) {
		_ = e.Encode(b, wire.NoVersion)
	}}
)

// readVec reads a u32 count followed by that many values. The result is
// never nil.
func (c valueCodec[T]) readVec(r *wire.Reader) ([]T, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if err := r.Require(n, c.size); err != nil {
		return nil, err
	}
	items := make([]T, n)
	for i := range items {
		if items[i], err = c.read(r); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (c valueCodec[T]) writeVec(b *wire.Buffer, items []T) error {
	n, err := wire.Size32(len(items))
	if err != nil {
		return err
	}
	b.WriteUint32(n)
	for _, v := range items {
		c.write(b, v)
	}
	return nil
}

// readTaggedVec expects tag then a counted vector.
func (c valueCodec[T]) readTaggedVec(f *fields, tag wire.Tag, dst *[]T) {
	f.tag(tag)
	if f.err == nil {
		*dst, f.err = c.readVec(f.r)
		f.err = errors.Wrapf(f.err, "%s", tag)
	}
}

func (c valueCodec[T]) writeTaggedVec(o *out, tag wire.Tag, items []T) {
	if o.err == nil {
		tag.Encode(o.b)
		o.err = c.writeVec(o.b, items)
	}
}

// vecBlock binds an optional counted vector introduced by tag. A nil slice
// is absent.
func vecBlock[T any](tag wire.Tag, field *[]T, c valueCodec[T]) wire.Block {
	return wire.Block{
		Tag:     tag,
		Present: func() bool { return *field != nil },
		Decode: func(r *wire.Reader, _ wire.Version) error {
			items, err := c.readVec(r)
			if err != nil {
				return err
			}
			*field = items
			return nil
		},
		Encode: func(b *wire.Buffer, _ wire.Version) error {
			return c.writeVec(b, *field)
		},
	}
}
