// Package mdxtest builds MDX models and raw documents for tests.
package mdxtest

import (
	"encoding/binary"
	"math"

	"github.com/FocuswithJustin/mdxkit/core/mdx"
	"github.com/FocuswithJustin/mdxkit/core/wire"
)

// U32 encodes v little-endian.
func U32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// F32 encodes v little-endian.
func F32(v float32) []byte {
	return U32(math.Float32bits(v))
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Chunk frames body behind a tag and an exclusive size.
func Chunk(tag string, body []byte) []byte {
	return Concat([]byte(tag), U32(uint32(len(body))), body)
}

// Document prefixes chunks with the MDLX magic.
func Document(chunks ...[]byte) []byte {
	return Concat(append([][]byte{[]byte("MDLX")}, chunks...)...)
}

// Literal pads s with NULs to width.
func Literal(s string, width int) []byte {
	out := make([]byte, width)
	copy(out, s)
	return out
}

// Version is a VERS chunk.
func Version(n uint32) []byte {
	return Chunk("VERS", U32(n))
}

func linear[T any](keys ...mdx.Key[T]) *mdx.Track[T] {
	return &mdx.Track[T]{
		Interpolation:    mdx.InterpolationLinear,
		GlobalSequenceID: mdx.NoGlobalSequence,
		Keys:             keys,
	}
}

func hermite[T any](keys ...mdx.Key[T]) *mdx.Track[T] {
	return &mdx.Track[T]{
		Interpolation:    mdx.InterpolationHermite,
		GlobalSequenceID: 0,
		Keys:             keys,
	}
}

func node(name string, id, parent uint32, flags mdx.NodeFlags) mdx.Node {
	return mdx.Node{
		Name:     name,
		ObjectID: id,
		ParentID: parent,
		Flags:    flags,
	}
}

var box = mdx.Extent{BoundsRadius: 25, Minimum: mdx.Vec3{-10, -10, 0}, Maximum: mdx.Vec3{10, 10, 40}}

// Model returns a populated model with every known chunk. Version-gated
// fields are filled in and only survive encoding at a version above their
// threshold.
func Model(version uint32) *mdx.Model {
	v := version
	m := &mdx.Model{
		Version: &v,
		Info: &mdx.ModelInfo{
			Name:      "Footman",
			Extent:    box,
			BlendTime: 150,
		},
		Sequences: []mdx.Sequence{
			{Name: "Stand", Interval: [2]uint32{0, 1000}, Rarity: 0, Extent: box},
			{Name: "Death", Interval: [2]uint32{1100, 2500}, Flags: mdx.SequenceNonLooping, Extent: box},
		},
		GlobalSequences: []mdx.GlobalSequence{3000},
		Textures: []mdx.Texture{
			{FileName: `Textures\Footman.blp`, Flags: mdx.TextureWrapWidth | mdx.TextureWrapHeight},
			{ReplaceableID: 1},
		},
		SoundTracks: []mdx.SoundTrack{{FileName: `Sound\Step.wav`, Volume: 0.5, Pitch: 1}},
		Materials: []mdx.Material{{
			PriorityPlane: 0,
			Shader:        "Shader_SD_FixedFunction",
			Layers: []mdx.Layer{{
				FilterMode:       mdx.FilterBlend,
				ShadingFlags:     mdx.ShadingTwoSided,
				TextureID:        0,
				Alpha:            1,
				EmissiveGain:     0.25,
				FresnelColor:     mdx.Vec3{1, 1, 1},
				FresnelOpacity:   0.5,
				FresnelTeamColor: 0.75,
				AlphaTrack:       linear(mdx.Key[float32]{Frame: 0, Value: 1}, mdx.Key[float32]{Frame: 500, Value: 0.5}),
				TextureIDTrack:   &mdx.Track[uint32]{Keys: []mdx.Key[uint32]{{Frame: 0, Value: 1}}},
			}},
		}},
		TextureAnimations: []mdx.TextureAnimation{{
			Translation: linear(mdx.Key[mdx.Vec3]{Frame: 0}, mdx.Key[mdx.Vec3]{Frame: 1000, Value: mdx.Vec3{1, 0, 0}}),
		}},
		Geosets: []mdx.Geoset{{
			Vertices:        []mdx.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Normals:         []mdx.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			FaceTypes:       []mdx.FaceType{mdx.FaceTriangles},
			FaceGroups:      []uint32{3},
			Faces:           []uint16{0, 1, 2},
			VertexGroups:    []uint8{0, 0, 0},
			MatrixGroups:    []uint32{1},
			MatrixIndices:   []uint32{0},
			LevelOfDetail:   0,
			LODName:         "LOD0",
			Extent:          box,
			SequenceExtents: []mdx.Extent{box, box},
			Tangents:        []mdx.Vec4{{1, 0, 0, 1}, {1, 0, 0, 1}, {1, 0, 0, 1}},
			Skin:            []uint8{0, 0, 0, 0, 255, 0, 0, 0},
			TextureCoordinateSets: [][]mdx.Vec2{
				{{0, 0}, {1, 0}, {0, 1}},
			},
		}},
		GeosetAnimations: []mdx.GeosetAnimation{{
			Alpha:      1,
			Flags:      mdx.GeosetAnimColor,
			Color:      mdx.Vec3{1, 0.5, 0.25},
			AlphaTrack: linear(mdx.Key[float32]{Frame: 0, Value: 1}),
		}},
		Bones: []mdx.Bone{{
			Node: func() mdx.Node {
				n := node("Bone_Root", 0, ^uint32(0), mdx.NodeBone)
				n.Rotation = hermite(mdx.Key[mdx.Vec4]{Frame: 0, Value: mdx.Vec4{0, 0, 0, 1}, InTan: mdx.Vec4{0, 0, 0, 1}, OutTan: mdx.Vec4{0, 0, 0, 1}})
				n.Translation = linear(mdx.Key[mdx.Vec3]{Frame: 0}, mdx.Key[mdx.Vec3]{Frame: 1000, Value: mdx.Vec3{0, 0, 5}})
				return n
			}(),
			GeosetID:          0,
			GeosetAnimationID: ^uint32(0),
		}},
		Lights: []mdx.Light{{
			Node:             node("Light01", 1, 0, mdx.NodeLight),
			Type:             mdx.LightOmni,
			AttenuationStart: 80,
			AttenuationEnd:   200,
			Color:            mdx.Vec3{1, 1, 1},
			Intensity:        2,
			AmbientColor:     mdx.Vec3{0.2, 0.2, 0.2},
			Visibility:       linear(mdx.Key[float32]{Frame: 0, Value: 1}),
		}},
		Helpers: []mdx.Helper{{Node: node("Helper01", 2, 0, 0)}},
		Attachments: []mdx.Attachment{{
			Node:         node("Hand Right Ref", 3, 0, mdx.NodeAttachment),
			AttachmentID: 0,
			Visibility:   linear(mdx.Key[float32]{Frame: 0, Value: 1}),
		}},
		PivotPoints: []mdx.Vec3{{0, 0, 0}, {0, 0, 50}, {0, 0, 10}, {5, 0, 30}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
		ParticleEmitters: []mdx.ParticleEmitter{{
			Node:            node("Dust", 4, 0, mdx.NodeParticleEmitter|mdx.NodeEmitterMod1),
			EmissionRate:    10,
			Gravity:         -1,
			SpawnModel:      `Abilities\Dust.mdl`,
			Lifespan:        1,
			InitialVelocity: 3,
			Visibility:      linear(mdx.Key[float32]{Frame: 0, Value: 1}),
		}},
		ParticleEmitters2: []mdx.ParticleEmitter2{{
			Node:           node("Sparks", 5, 0, mdx.NodeParticleEmitter|mdx.NodeUnfogged),
			Speed:          100,
			Variation:      0.1,
			Latitude:       15,
			Lifespan:       0.8,
			EmissionRate:   20,
			Width:          30,
			Length:         30,
			FilterMode:     mdx.EmitterAdditive,
			Rows:           1,
			Columns:        1,
			HeadOrTail:     mdx.ParticleBoth,
			TailLength:     1,
			Time:           0.5,
			SegmentColor:   [3]mdx.Vec3{{1, 1, 1}, {1, 0.5, 0}, {1, 0, 0}},
			SegmentAlpha:   [3]uint8{255, 128, 0},
			SegmentScaling: mdx.Vec3{1, 2, 3},
			HeadInterval:   [3]uint32{0, 0, 1},
			PriorityPlane:  -1,
			SpeedTrack:     linear(mdx.Key[float32]{Frame: 0, Value: 100}),
			Visibility:     linear(mdx.Key[float32]{Frame: 0, Value: 1}),
		}},
		RibbonEmitters: []mdx.RibbonEmitter{{
			Node:         node("Trail", 6, 0, mdx.NodeRibbonEmitter),
			HeightAbove:  10,
			HeightBelow:  10,
			Alpha:        1,
			Color:        mdx.Vec3{1, 1, 1},
			Lifespan:     0.5,
			EmissionRate: 30,
			Rows:         1,
			Columns:      1,
			ColorTrack:   linear(mdx.Key[mdx.Vec3]{Frame: 0, Value: mdx.Vec3{1, 0, 0}}),
		}},
		EventObjects: []mdx.EventObject{{
			Node:             node("FPT1", 7, 0, mdx.NodeEventObject),
			GlobalSequenceID: mdx.NoGlobalSequence,
			Frames:           []uint32{100, 600},
		}},
		Cameras: []mdx.Camera{{
			Name:              "Portrait",
			Position:          mdx.Vec3{100, 0, 60},
			FieldOfView:       0.8,
			FarClippingPlane:  1000,
			NearClippingPlane: 8,
			TargetPosition:    mdx.Vec3{0, 0, 60},
			Rotation:          linear(mdx.Key[float32]{Frame: 0, Value: 0}),
		}},
		CollisionShapes: []mdx.CollisionShape{
			{
				Node:     node("Collision Box", 8, 0, mdx.NodeCollisionShape),
				Type:     mdx.ShapeCube,
				Vertices: [2]mdx.Vec3{{-10, -10, 0}, {10, 10, 40}},
			},
			{
				Node:     node("Collision Sphere", 9, 0, mdx.NodeCollisionShape),
				Type:     mdx.ShapeSphere,
				Vertices: [2]mdx.Vec3{{0, 0, 20}},
				Radius:   30,
			},
		},
		BindPoses:   []mdx.BindPose{{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}},
		FaceEffects: []mdx.FaceEffect{{Target: "Head", Path: `Faces\Footman.fxf`}},
		PopcornEmitters: []mdx.PopcornEmitter{{
			Node:         node("Popcorn", 10, 0, 0),
			Lifespan:     1,
			EmissionRate: 5,
			Speed:        2,
			Color:        mdx.Vec3{1, 1, 1},
			Alpha:        1,
			Path:         `Effects\Smoke.pkfx`,
			Visibility:   linear(mdx.Key[float32]{Frame: 0, Value: 1}),
		}},
	}
	return m
}

// Minimal returns a model with only a version and model info.
func Minimal(version uint32) *mdx.Model {
	v := version
	return &mdx.Model{
		Version: &v,
		Info:    &mdx.ModelInfo{Name: "Minimal", Extent: box},
	}
}

// Encode encodes m and panics on error.
func Encode(m *mdx.Model) []byte {
	data, err := mdx.Encode(m)
	if err != nil {
		panic("mdxtest: " + err.Error())
	}
	return data
}

// Unknown is an unrecognized chunk tag used in tests.
var Unknown = wire.MakeTag("ZZZZ")
