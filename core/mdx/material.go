package mdx

import (
	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/core/wire"
)

// Version thresholds of gated fields.
const (
	// Above this version materials carry a shader name, layers an
	// emissive gain and geosets a level of detail.
	versionShader uint32 = 800
	// Above this version layers carry the fresnel group.
	versionFresnel uint32 = 900
)

// Material flags.
const (
	MaterialConstantColor  uint32 = 0x1
	MaterialSortPrimsFarZ  uint32 = 0x10
	MaterialFullResolution uint32 = 0x20
)

// Material is a stack of layers.
type Material struct {
	PriorityPlane int32   `json:"priorityPlane"`
	Flags         uint32  `json:"flags"`
	Shader        string  `json:"shader"`
	Layers        []Layer `json:"layers"`
}

func (m *Material) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.i32(&m.PriorityPlane)
		f.u32(&m.Flags)
		if v.Above(versionShader) {
			f.literal(&m.Shader, NameWidth)
		}
		f.tag(tagLAYS)
		f.do(func() (err error) {
			m.Layers, err = wire.ReadVec[Layer](span, v)
			return errors.Wrap(err, "layers")
		})
		return f.err
	})
}

func (m *Material) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		o := out{b: s}
		s.WriteInt32(m.PriorityPlane)
		s.WriteUint32(m.Flags)
		if v.Above(versionShader) {
			o.literal(m.Shader, NameWidth)
		}
		tagLAYS.Encode(s)
		o.do(func() error { return errors.Wrap(wire.WriteVec[Layer](s, m.Layers, v), "layers") })
		return o.err
	})
}

// FilterMode is a layer's blend mode.
type FilterMode uint32

const (
	FilterNone FilterMode = iota
	FilterTransparent
	FilterBlend
	FilterAdditive
	FilterAddAlpha
	FilterModulate
	FilterModulate2x
	filterModeCount
)

// Layer shading flags.
const (
	ShadingUnshaded     uint32 = 0x1
	ShadingSphereEnvMap uint32 = 0x2
	ShadingTwoSided     uint32 = 0x10
	ShadingUnfogged     uint32 = 0x20
	ShadingNoDepthTest  uint32 = 0x40
	ShadingNoDepthSet   uint32 = 0x80
)

// Layer is one texture pass of a material.
type Layer struct {
	FilterMode         FilterMode `json:"filterMode"`
	ShadingFlags       uint32     `json:"shadingFlags"`
	TextureID          uint32     `json:"textureId"`
	TextureAnimationID uint32     `json:"textureAnimationId"`
	CoordID            uint32     `json:"coordId"`
	Alpha              float32    `json:"alpha"`
	EmissiveGain       float32    `json:"emissiveGain"`
	FresnelColor       Vec3       `json:"fresnelColor"`
	FresnelOpacity     float32    `json:"fresnelOpacity"`
	FresnelTeamColor   float32    `json:"fresnelTeamColor"`

	TextureIDTrack        *Track[uint32]  `json:"textureIdTrack,omitzero"`
	AlphaTrack            *Track[float32] `json:"alphaTrack,omitzero"`
	EmissiveGainTrack     *Track[float32] `json:"emissiveGainTrack,omitzero"`
	FresnelColorTrack     *Track[Vec3]    `json:"fresnelColorTrack,omitzero"`
	FresnelOpacityTrack   *Track[float32] `json:"fresnelOpacityTrack,omitzero"`
	FresnelTeamColorTrack *Track[float32] `json:"fresnelTeamColorTrack,omitzero"`
	Order                 wire.Order      `json:"order"`
}

func (l *Layer) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKMTF, &l.TextureIDTrack, uintValues),
		trackBlock(tagKMTA, &l.AlphaTrack, floatValues),
		trackBlock(tagKMTE, &l.EmissiveGainTrack, floatValues),
		trackBlock(tagKFC3, &l.FresnelColorTrack, vec3Values),
		trackBlock(tagKFCA, &l.FresnelOpacityTrack, floatValues),
		trackBlock(tagKFTC, &l.FresnelTeamColorTrack, floatValues),
	}
}

func (l *Layer) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		readEnum(&f, &l.FilterMode, "filter mode", uint32(filterModeCount))
		f.u32(&l.ShadingFlags)
		f.u32(&l.TextureID)
		f.u32(&l.TextureAnimationID)
		f.u32(&l.CoordID)
		f.f32(&l.Alpha)
		if v.Above(versionShader) {
			f.f32(&l.EmissiveGain)
		}
		if v.Above(versionFresnel) {
			f.vec3(&l.FresnelColor)
			f.f32(&l.FresnelOpacity)
			f.f32(&l.FresnelTeamColor)
		}
		f.do(func() (err error) {
			l.Order, err = wire.ReadBlocks(span, v, "layer", l.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (l *Layer) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		s.WriteUint32(uint32(l.FilterMode))
		s.WriteUint32(l.ShadingFlags)
		s.WriteUint32(l.TextureID)
		s.WriteUint32(l.TextureAnimationID)
		s.WriteUint32(l.CoordID)
		s.WriteFloat32(l.Alpha)
		if v.Above(versionShader) {
			s.WriteFloat32(l.EmissiveGain)
		}
		if v.Above(versionFresnel) {
			s.WriteFloat32s(l.FresnelColor[:]...)
			s.WriteFloat32(l.FresnelOpacity)
			s.WriteFloat32(l.FresnelTeamColor)
		}
		return wire.WriteBlocks(s, v, l.blocks(), l.Order)
	})
}

// TextureAnimation animates texture coordinates.
type TextureAnimation struct {
	Translation *Track[Vec3] `json:"translation,omitzero"`
	Rotation    *Track[Vec4] `json:"rotation,omitzero"`
	Scaling     *Track[Vec3] `json:"scaling,omitzero"`
	Order       wire.Order   `json:"order"`
}

func (t *TextureAnimation) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKTAT, &t.Translation, vec3Values),
		trackBlock(tagKTAR, &t.Rotation, vec4Values),
		trackBlock(tagKTAS, &t.Scaling, vec3Values),
	}
}

func (t *TextureAnimation) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) (err error) {
		t.Order, err = wire.ReadBlocks(span, v, "texture animation", t.blocks(), wire.Strict)
		return err
	})
}

func (t *TextureAnimation) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		return wire.WriteBlocks(s, v, t.blocks(), t.Order)
	})
}
