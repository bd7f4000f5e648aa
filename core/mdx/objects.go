package mdx

import (
	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/core/wire"
)

// LightType is the kind of light source.
type LightType uint32

const (
	LightOmni LightType = iota
	LightDirectional
	LightAmbient
	lightTypeCount
)

// Light is a node that emits light.
type Light struct {
	Node             `json:",inline" yaml:",inline"`
	Type             LightType `json:"type"`
	AttenuationStart float32   `json:"attenuationStart"`
	AttenuationEnd   float32   `json:"attenuationEnd"`
	Color            Vec3      `json:"color"`
	Intensity        float32   `json:"intensity"`
	AmbientColor     Vec3      `json:"ambientColor"`
	AmbientIntensity float32   `json:"ambientIntensity"`

	AttenuationStartTrack *Track[float32] `json:"attenuationStartTrack,omitzero"`
	AttenuationEndTrack   *Track[float32] `json:"attenuationEndTrack,omitzero"`
	ColorTrack            *Track[Vec3]    `json:"colorTrack,omitzero"`
	IntensityTrack        *Track[float32] `json:"intensityTrack,omitzero"`
	AmbientIntensityTrack *Track[float32] `json:"ambientIntensityTrack,omitzero"`
	AmbientColorTrack     *Track[Vec3]    `json:"ambientColorTrack,omitzero"`
	Visibility            *Track[float32] `json:"visibility,omitzero"`
	Order                 wire.Order      `json:"order"`
}

func (l *Light) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKLAS, &l.AttenuationStartTrack, floatValues),
		trackBlock(tagKLAE, &l.AttenuationEndTrack, floatValues),
		trackBlock(tagKLAC, &l.ColorTrack, vec3Values),
		trackBlock(tagKLAI, &l.IntensityTrack, floatValues),
		trackBlock(tagKLBI, &l.AmbientIntensityTrack, floatValues),
		trackBlock(tagKLBC, &l.AmbientColorTrack, vec3Values),
		trackBlock(tagKLAV, &l.Visibility, floatValues),
	}
}

func (l *Light) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.do(func() error { return l.Node.Decode(span, v) })
		readEnum(&f, &l.Type, "light type", uint32(lightTypeCount))
		f.f32(&l.AttenuationStart)
		f.f32(&l.AttenuationEnd)
		f.vec3(&l.Color)
		f.f32(&l.Intensity)
		f.vec3(&l.AmbientColor)
		f.f32(&l.AmbientIntensity)
		f.do(func() (err error) {
			l.Order, err = wire.ReadBlocks(span, v, "light", l.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (l *Light) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		if err := l.Node.Encode(s, v); err != nil {
			return err
		}
		s.WriteUint32(uint32(l.Type))
		s.WriteFloat32(l.AttenuationStart)
		s.WriteFloat32(l.AttenuationEnd)
		s.WriteFloat32s(l.Color[:]...)
		s.WriteFloat32(l.Intensity)
		s.WriteFloat32s(l.AmbientColor[:]...)
		s.WriteFloat32(l.AmbientIntensity)
		return wire.WriteBlocks(s, v, l.blocks(), l.Order)
	})
}

// Attachment is a named mount point.
type Attachment struct {
	Node         `json:",inline" yaml:",inline"`
	Path         string          `json:"path"`
	AttachmentID uint32          `json:"attachmentId"`
	Visibility   *Track[float32] `json:"visibility,omitzero"`
	Order        wire.Order      `json:"order"`
}

func (a *Attachment) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKATV, &a.Visibility, floatValues),
	}
}

func (a *Attachment) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.do(func() error { return a.Node.Decode(span, v) })
		f.literal(&a.Path, PathWidth)
		f.u32(&a.AttachmentID)
		f.do(func() (err error) {
			a.Order, err = wire.ReadBlocks(span, v, "attachment", a.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (a *Attachment) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		o := out{b: s}
		o.do(func() error { return a.Node.Encode(s, v) })
		o.literal(a.Path, PathWidth)
		s.WriteUint32(a.AttachmentID)
		o.do(func() error { return wire.WriteBlocks(s, v, a.blocks(), a.Order) })
		return o.err
	})
}

// EventObject fires a sound or splat at listed frames.
type EventObject struct {
	Node             `json:",inline" yaml:",inline"`
	GlobalSequenceID uint32   `json:"globalSequenceId"`
	Frames           []uint32 `json:"frames"`
}

func (e *EventObject) Decode(r *wire.Reader, v wire.Version) error {
	f := fields{r: r}
	f.do(func() error { return e.Node.Decode(r, v) })
	f.tag(tagKEVT)
	var n uint32
	f.u32(&n)
	f.u32(&e.GlobalSequenceID)
	f.do(func() error {
		if err := r.Require(n, 4); err != nil {
			return err
		}
		e.Frames = make([]uint32, n)
		return r.ReadUint32s(e.Frames)
	})
	return errors.Wrap(f.err, "event object")
}

func (e *EventObject) Encode(b *wire.Buffer, v wire.Version) error {
	if err := e.Node.Encode(b, v); err != nil {
		return err
	}
	tagKEVT.Encode(b)
	n, err := wire.Size32(len(e.Frames))
	if err != nil {
		return err
	}
	b.WriteUint32(n)
	b.WriteUint32(e.GlobalSequenceID)
	b.WriteUint32s(e.Frames...)
	return nil
}

// Camera is a viewpoint with a target.
type Camera struct {
	Name              string  `json:"name"`
	Position          Vec3    `json:"position"`
	FieldOfView       float32 `json:"fieldOfView"`
	FarClippingPlane  float32 `json:"farClippingPlane"`
	NearClippingPlane float32 `json:"nearClippingPlane"`
	TargetPosition    Vec3    `json:"targetPosition"`

	Translation       *Track[Vec3]    `json:"translation,omitzero"`
	TargetTranslation *Track[Vec3]    `json:"targetTranslation,omitzero"`
	Rotation          *Track[float32] `json:"rotation,omitzero"`
	Order             wire.Order      `json:"order"`
}

func (c *Camera) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKCTR, &c.Translation, vec3Values),
		trackBlock(tagKTTR, &c.TargetTranslation, vec3Values),
		trackBlock(tagKCRL, &c.Rotation, floatValues),
	}
}

func (c *Camera) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.literal(&c.Name, NameWidth)
		f.vec3(&c.Position)
		f.f32(&c.FieldOfView)
		f.f32(&c.FarClippingPlane)
		f.f32(&c.NearClippingPlane)
		f.vec3(&c.TargetPosition)
		f.do(func() (err error) {
			c.Order, err = wire.ReadBlocks(span, v, "camera", c.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (c *Camera) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		o := out{b: s}
		o.literal(c.Name, NameWidth)
		s.WriteFloat32s(c.Position[:]...)
		s.WriteFloat32(c.FieldOfView)
		s.WriteFloat32(c.FarClippingPlane)
		s.WriteFloat32(c.NearClippingPlane)
		s.WriteFloat32s(c.TargetPosition[:]...)
		o.do(func() error { return wire.WriteBlocks(s, v, c.blocks(), c.Order) })
		return o.err
	})
}

// ShapeType is the geometry of a collision shape.
type ShapeType uint32

const (
	ShapeCube ShapeType = iota
	ShapePlane
	ShapeSphere
	ShapeCylinder
	shapeTypeCount
)

func (t ShapeType) vertexCount() int {
	if t == ShapeSphere {
		return 1
	}
	return 2
}

func (t ShapeType) hasRadius() bool {
	return t == ShapeSphere || t == ShapeCylinder
}

// CollisionShape is a node used for picking.
type CollisionShape struct {
	Node `json:",inline" yaml:",inline"`
	Type ShapeType `json:"type"`
	// Vertices[1] is not stored for spheres and must be zero.
	Vertices [2]Vec3 `json:"vertices"`
	// Radius is stored for spheres and cylinders only and must be zero
	// for cubes and planes.
	Radius float32 `json:"radius"`
}

func (c *CollisionShape) Decode(r *wire.Reader, v wire.Version) error {
	f := fields{r: r}
	f.do(func() error { return c.Node.Decode(r, v) })
	readEnum(&f, &c.Type, "collision shape", uint32(shapeTypeCount))
	if f.err != nil {
		return f.err
	}
	for i := 0; i < c.Type.vertexCount(); i++ {
		f.vec3(&c.Vertices[i])
	}
	if c.Type.hasRadius() {
		f.f32(&c.Radius)
	}
	return f.err
}

func (c *CollisionShape) Encode(b *wire.Buffer, v wire.Version) error {
	if c.Type.vertexCount() < 2 && c.Vertices[1] != (Vec3{}) {
		return errors.NewValidation("collision shape", "sphere has a second vertex")
	}
	if !c.Type.hasRadius() && c.Radius != 0 {
		return errors.NewValidation("collision shape", "only spheres and cylinders have a radius")
	}
	if err := c.Node.Encode(b, v); err != nil {
		return err
	}
	b.WriteUint32(uint32(c.Type))
	for i := 0; i < c.Type.vertexCount(); i++ {
		b.WriteFloat32s(c.Vertices[i][:]...)
	}
	if c.Type.hasRadius() {
		b.WriteFloat32(c.Radius)
	}
	return nil
}
