package mdx

import (
	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/core/wire"
)

// FaceType is the primitive type of a face group.
type FaceType uint32

const (
	FacePoints FaceType = iota
	FaceLines
	FaceLineLoop
	FaceLineStrip
	FaceTriangles
	FaceTriangleStrip
	FaceTriangleFan
	FaceQuads
	FaceQuadStrip
	FacePolygons
	faceTypeCount
)

var faceTypeValues = valueCodec[FaceType]{
	size: 4,
	read: func(r *wire.Reader) (FaceType, error) {
		v, err := r.ReadUint32()
		if err != nil {
			return 0, err
		}
		if v >= uint32(faceTypeCount) {
			return 0, errors.NewEnum("face type", v)
		}
		return FaceType(v), nil
	},
	write: func(b *wire.Buffer, t FaceType) { b.WriteUint32(uint32(t)) },
}

// GeosetUnselectable is the selection flag for geosets that cannot be picked.
const GeosetUnselectable uint32 = 0x4

// Geoset is a mesh with its skinning and texture coordinates.
type Geoset struct {
	Vertices      []Vec3     `json:"vertices"`
	Normals       []Vec3     `json:"normals"`
	FaceTypes     []FaceType `json:"faceTypes"`
	FaceGroups    []uint32   `json:"faceGroups"`
	Faces         []uint16   `json:"faces"`
	VertexGroups  []uint8    `json:"vertexGroups"`
	MatrixGroups  []uint32   `json:"matrixGroups"`
	MatrixIndices []uint32   `json:"matrixIndices"`

	MaterialID     uint32 `json:"materialId"`
	SelectionGroup uint32 `json:"selectionGroup"`
	SelectionFlags uint32 `json:"selectionFlags"`
	LevelOfDetail  uint32 `json:"levelOfDetail"`
	LODName        string `json:"lodName"`

	Extent          Extent   `json:"extent"`
	SequenceExtents []Extent `json:"sequenceExtents"`

	// Optional blocks; nil is absent.
	Tangents []Vec4  `json:"tangents,omitzero"`
	Skin     []uint8 `json:"skin,omitzero"`

	TextureCoordinateSets [][]Vec2   `json:"textureCoordinateSets"`
	Order                 wire.Order `json:"order"`
}

func (g *Geoset) blocks() []wire.Block {
	return []wire.Block{
		vecBlock(tagTANG, &g.Tangents, vec4Values),
		vecBlock(tagSKIN, &g.Skin, byteValues),
	}
}

func (g *Geoset) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		vec3Values.readTaggedVec(&f, tagVRTX, &g.Vertices)
		vec3Values.readTaggedVec(&f, tagNRMS, &g.Normals)
		faceTypeValues.readTaggedVec(&f, tagPTYP, &g.FaceTypes)
		uintValues.readTaggedVec(&f, tagPCNT, &g.FaceGroups)
		shortValues.readTaggedVec(&f, tagPVTX, &g.Faces)
		byteValues.readTaggedVec(&f, tagGNDX, &g.VertexGroups)
		uintValues.readTaggedVec(&f, tagMTGC, &g.MatrixGroups)
		uintValues.readTaggedVec(&f, tagMATS, &g.MatrixIndices)
		f.u32(&g.MaterialID)
		f.u32(&g.SelectionGroup)
		f.u32(&g.SelectionFlags)
		if v.Above(versionShader) {
			f.u32(&g.LevelOfDetail)
			f.literal(&g.LODName, NameWidth)
		}
		f.extent(&g.Extent)
		f.do(func() (err error) {
			g.SequenceExtents, err = extentValues.readVec(span)
			return errors.Wrap(err, "sequence extents")
		})
		f.do(func() (err error) {
			// Stops at UVAS.
			g.Order, err = wire.ReadBlocks(span, v, "geoset", g.blocks(), wire.UntilUnknown)
			return err
		})
		f.tag(tagUVAS)
		f.do(func() error { return g.decodeTexCoords(span) })
		return f.err
	})
}

func (g *Geoset) decodeTexCoords(r *wire.Reader) error {
	n, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if err := r.Require(n, 1); err != nil {
		return err
	}
	g.TextureCoordinateSets = make([][]Vec2, n)
	for i := range g.TextureCoordinateSets {
		f := fields{r: r}
		vec2Values.readTaggedVec(&f, tagUVBS, &g.TextureCoordinateSets[i])
		if f.err != nil {
			return errors.Wrapf(f.err, "texture coordinate set %d", i)
		}
	}
	return nil
}

func (g *Geoset) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		o := out{b: s}
		vec3Values.writeTaggedVec(&o, tagVRTX, g.Vertices)
		vec3Values.writeTaggedVec(&o, tagNRMS, g.Normals)
		faceTypeValues.writeTaggedVec(&o, tagPTYP, g.FaceTypes)
		uintValues.writeTaggedVec(&o, tagPCNT, g.FaceGroups)
		shortValues.writeTaggedVec(&o, tagPVTX, g.Faces)
		byteValues.writeTaggedVec(&o, tagGNDX, g.VertexGroups)
		uintValues.writeTaggedVec(&o, tagMTGC, g.MatrixGroups)
		uintValues.writeTaggedVec(&o, tagMATS, g.MatrixIndices)
		s.WriteUint32(g.MaterialID)
		s.WriteUint32(g.SelectionGroup)
		s.WriteUint32(g.SelectionFlags)
		if v.Above(versionShader) {
			s.WriteUint32(g.LevelOfDetail)
			o.literal(g.LODName, NameWidth)
		}
		_ = g.Extent.Encode(s, v)
		o.do(func() error { return extentValues.writeVec(s, g.SequenceExtents) })
		o.do(func() error { return wire.WriteBlocks(s, v, g.blocks(), g.Order) })
		tagUVAS.Encode(s)
		o.do(func() error {
			n, err := wire.Size32(len(g.TextureCoordinateSets))
			s.WriteUint32(n)
			return err
		})
		for _, set := range g.TextureCoordinateSets {
			vec2Values.writeTaggedVec(&o, tagUVBS, set)
		}
		return o.err
	})
}

// Geoset animation flags.
const (
	GeosetAnimDropShadow uint32 = 0x1
	GeosetAnimColor      uint32 = 0x2
)

// GeosetAnimation drives a geoset's alpha and color.
type GeosetAnimation struct {
	Alpha    float32 `json:"alpha"`
	Flags    uint32  `json:"flags"`
	Color    Vec3    `json:"color"`
	GeosetID uint32  `json:"geosetId"`

	AlphaTrack *Track[float32] `json:"alphaTrack,omitzero"`
	ColorTrack *Track[Vec3]    `json:"colorTrack,omitzero"`
	Order      wire.Order      `json:"order"`
}

func (a *GeosetAnimation) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKGAO, &a.AlphaTrack, floatValues),
		trackBlock(tagKGAC, &a.ColorTrack, vec3Values),
	}
}

func (a *GeosetAnimation) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.f32(&a.Alpha)
		f.u32(&a.Flags)
		f.vec3(&a.Color)
		f.u32(&a.GeosetID)
		f.do(func() (err error) {
			a.Order, err = wire.ReadBlocks(span, v, "geoset animation", a.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (a *GeosetAnimation) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		s.WriteFloat32(a.Alpha)
		s.WriteUint32(a.Flags)
		s.WriteFloat32s(a.Color[:]...)
		s.WriteUint32(a.GeosetID)
		return wire.WriteBlocks(s, v, a.blocks(), a.Order)
	})
}
