// Package mdx decodes and encodes Warcraft III MDX models.
//
// A document is the MDLX magic followed by header-framed chunks. Parse and
// Encode are inverses: every document Parse accepts is reproduced byte for
// byte by Encode, including chunks this package does not understand.
//
// Chunk fields of Model are nil when the chunk is absent. A non-nil empty
// slice is a chunk with no elements.
package mdx

import (
	"bytes"
	"slices"

	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/core/wire"
	"github.com/FocuswithJustin/mdxkit/internal/logging"
)

// Format names the container in errors.
const Format = "MDX"

// RawChunk is a top-level chunk kept verbatim. Data excludes the header.
type RawChunk struct {
	Tag  wire.Tag `json:"tag"`
	Data []byte   `json:"data"`
}

func (c *RawChunk) encode(b *wire.Buffer) error {
	if err := wire.WriteHeader(b, c.Tag, len(c.Data)); err != nil {
		return err
	}
	b.Write(c.Data)
	return nil
}

// Model is a decoded MDX document.
type Model struct {
	Version           *uint32            `json:"version,omitzero"`
	Info              *ModelInfo         `json:"info,omitzero"`
	Sequences         []Sequence         `json:"sequences,omitzero"`
	GlobalSequences   []GlobalSequence   `json:"globalSequences,omitzero"`
	Textures          []Texture          `json:"textures,omitzero"`
	SoundTracks       []SoundTrack       `json:"soundTracks,omitzero"`
	Materials         []Material         `json:"materials,omitzero"`
	TextureAnimations []TextureAnimation `json:"textureAnimations,omitzero"`
	Geosets           []Geoset           `json:"geosets,omitzero"`
	GeosetAnimations  []GeosetAnimation  `json:"geosetAnimations,omitzero"`
	Bones             []Bone             `json:"bones,omitzero"`
	Lights            []Light            `json:"lights,omitzero"`
	Helpers           []Helper           `json:"helpers,omitzero"`
	Attachments       []Attachment       `json:"attachments,omitzero"`
	PivotPoints       []Vec3             `json:"pivotPoints,omitzero"`
	ParticleEmitters  []ParticleEmitter  `json:"particleEmitters,omitzero"`
	ParticleEmitters2 []ParticleEmitter2 `json:"particleEmitters2,omitzero"`
	RibbonEmitters    []RibbonEmitter    `json:"ribbonEmitters,omitzero"`
	EventObjects      []EventObject      `json:"eventObjects,omitzero"`
	Cameras           []Camera           `json:"cameras,omitzero"`
	CollisionShapes   []CollisionShape   `json:"collisionShapes,omitzero"`
	BindPoses         []BindPose         `json:"bindPoses,omitzero"`
	FaceEffects       []FaceEffect       `json:"faceEffects,omitzero"`
	PopcornEmitters   []PopcornEmitter   `json:"popcornEmitters,omitzero"`

	// Unknown holds chunks with unrecognized tags in stream order.
	Unknown []RawChunk `json:"unknown,omitzero"`
	// Order lists every top-level tag in stream order.
	Order wire.Order `json:"order"`
}

// chunkCodec binds one chunk kind to its Model field.
type chunkCodec struct {
	present func() bool
	count   func() int
	// decode receives the whole chunk, header included.
	decode func(r *wire.Reader, v wire.Version) error
	encode func(b *wire.Buffer, v wire.Version) error
}

func sliceChunk[T any](field *[]T, decode func(*wire.Reader, wire.Version) ([]T, error), encode func(*wire.Buffer, wire.Version) error) chunkCodec {
	return chunkCodec{
		present: func() bool { return *field != nil },
		count:   func() int { return len(*field) },
		decode: func(r *wire.Reader, v wire.Version) error {
			items, err := decode(r, v)
			if err != nil {
				return err
			}
			*field = items
			return nil
		},
		encode: encode,
	}
}

func fixedChunk[T any, P wire.Codec[T]](tag wire.Tag, width int, field *[]T) chunkCodec {
	return sliceChunk(field,
		func(r *wire.Reader, v wire.Version) ([]T, error) {
			return wire.ReadFixedChunk[T, P](r, tag, width, v)
		},
		func(b *wire.Buffer, v wire.Version) error {
			return wire.WriteRecordChunk[T, P](b, tag, *field, v)
		})
}

func recordChunk[T any, P wire.Codec[T]](tag wire.Tag, field *[]T) chunkCodec {
	return sliceChunk(field,
		func(r *wire.Reader, v wire.Version) ([]T, error) {
			return wire.ReadChunk[T, P](r, tag, v)
		},
		func(b *wire.Buffer, v wire.Version) error {
			return wire.WriteRecordChunk[T, P](b, tag, *field, v)
		})
}

func (m *Model) versionChunk() chunkCodec {
	return chunkCodec{
		present: func() bool { return m.Version != nil },
		count:   func() int { return boolCount(m.Version != nil) },
		decode: func(r *wire.Reader, _ wire.Version) error {
			return wire.DecodeChunk(r, TagVERS, func(body *wire.Reader) error {
				n, err := body.ReadUint32()
				if err != nil {
					return err
				}
				m.Version = &n
				return nil
			})
		},
		encode: func(b *wire.Buffer, _ wire.Version) error {
			return wire.WriteChunk(b, TagVERS, func(body *wire.Buffer) error {
				body.WriteUint32(*m.Version)
				return nil
			})
		},
	}
}

func (m *Model) infoChunk() chunkCodec {
	return chunkCodec{
		present: func() bool { return m.Info != nil },
		count:   func() int { return boolCount(m.Info != nil) },
		decode: func(r *wire.Reader, v wire.Version) error {
			return wire.DecodeChunk(r, TagMODL, func(body *wire.Reader) error {
				info := new(ModelInfo)
				if err := info.Decode(body, v); err != nil {
					return err
				}
				m.Info = info
				return nil
			})
		},
		encode: func(b *wire.Buffer, v wire.Version) error {
			return wire.WriteChunk(b, TagMODL, func(body *wire.Buffer) error {
				return m.Info.Encode(body, v)
			})
		},
	}
}

func (m *Model) bindPoseChunk() chunkCodec {
	return sliceChunk(&m.BindPoses,
		func(r *wire.Reader, v wire.Version) ([]BindPose, error) {
			var poses []BindPose
			err := wire.DecodeChunk(r, TagBPOS, func(body *wire.Reader) (err error) {
				poses, err = wire.ReadVec[BindPose](body, v)
				return err
			})
			return poses, err
		},
		func(b *wire.Buffer, v wire.Version) error {
			return wire.WriteChunk(b, TagBPOS, func(body *wire.Buffer) error {
				return wire.WriteVec[BindPose](body, m.BindPoses, v)
			})
		})
}

func boolCount(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

// chunk returns the codec of a known kind.
func (m *Model) chunk(k ChunkKind) chunkCodec {
	switch k {
	case KindVersion:
		return m.versionChunk()
	case KindModel:
		return m.infoChunk()
	case KindSequences:
		return fixedChunk[Sequence](TagSEQS, sequenceSize, &m.Sequences)
	case KindGlobalSequences:
		return fixedChunk[GlobalSequence](TagGLBS, globalSeqSize, &m.GlobalSequences)
	case KindTextures:
		return fixedChunk[Texture](TagTEXS, textureSize, &m.Textures)
	case KindSoundTracks:
		return fixedChunk[SoundTrack](TagSNDS, soundTrackSize, &m.SoundTracks)
	case KindMaterials:
		return recordChunk[Material](TagMTLS, &m.Materials)
	case KindTextureAnimations:
		return recordChunk[TextureAnimation](TagTXAN, &m.TextureAnimations)
	case KindGeosets:
		return recordChunk[Geoset](TagGEOS, &m.Geosets)
	case KindGeosetAnimations:
		return recordChunk[GeosetAnimation](TagGEOA, &m.GeosetAnimations)
	case KindBones:
		return recordChunk[Bone](TagBONE, &m.Bones)
	case KindLights:
		return recordChunk[Light](TagLITE, &m.Lights)
	case KindHelpers:
		return recordChunk[Helper](TagHELP, &m.Helpers)
	case KindAttachments:
		return recordChunk[Attachment](TagATCH, &m.Attachments)
	case KindPivotPoints:
		return fixedChunk[Vec3](TagPIVT, pivotSize, &m.PivotPoints)
	case KindParticleEmitters:
		return recordChunk[ParticleEmitter](TagPREM, &m.ParticleEmitters)
	case KindParticleEmitters2:
		return recordChunk[ParticleEmitter2](TagPRE2, &m.ParticleEmitters2)
	case KindRibbonEmitters:
		return recordChunk[RibbonEmitter](TagRIBB, &m.RibbonEmitters)
	case KindEventObjects:
		return recordChunk[EventObject](TagEVTS, &m.EventObjects)
	case KindCameras:
		return recordChunk[Camera](TagCAMS, &m.Cameras)
	case KindCollisionShapes:
		return recordChunk[CollisionShape](TagCLID, &m.CollisionShapes)
	case KindBindPoses:
		return m.bindPoseChunk()
	case KindFaceEffects:
		return fixedChunk[FaceEffect](TagFAFX, faceEffectSize, &m.FaceEffects)
	case KindPopcornEmitters:
		return recordChunk[PopcornEmitter](TagCORN, &m.PopcornEmitters)
	}
	panic("mdx: no codec for chunk kind " + k.String())
}

// Has reports whether the chunk of kind k is present.
func (m *Model) Has(k ChunkKind) bool {
	return k != KindUnknown && k < kindCount && m.chunk(k).present()
}

// Count returns the number of elements in the chunk of kind k.
func (m *Model) Count(k ChunkKind) int {
	if k == KindUnknown {
		return len(m.Unknown)
	}
	if k >= kindCount {
		return 0
	}
	return m.chunk(k).count()
}

// FormatVersion returns the version chunk's value, if any.
func (m *Model) FormatVersion() wire.Version {
	if m.Version == nil {
		return wire.NoVersion
	}
	return wire.At(*m.Version)
}

// Parse decodes a complete MDX document.
func Parse(data []byte) (*Model, error) {
	m := new(Model)
	if err := m.Decode(wire.NewReader(data)); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode serializes m.
func Encode(m *Model) ([]byte, error) {
	b := wire.NewBuffer(4096)
	if err := m.Encode(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decode reads the MDLX magic and chunks until r is empty. Chunks after
// VERS are decoded with its version. A repeated chunk replaces the earlier one.
func (m *Model) Decode(r *wire.Reader) error {
	start := r.Offset()
	if _, err := wire.ExpectTag(r, TagMDLX); err != nil {
		return errors.NewParse(Format, "", start, err)
	}

	*m = Model{Order: make(wire.Order, 0)}
	v := wire.NoVersion
	err := wire.ScanChunks(r, func(h wire.Header, chunk *wire.Reader) error {
		off := chunk.Offset()
		k := KindOf(h.Tag)
		logging.Chunk(h.Tag.String(), off, h.Size, "known", k != KindUnknown)

		if k == KindUnknown {
			raw, _ := chunk.Bytes(chunk.Len())
			m.Unknown = append(m.Unknown, RawChunk{Tag: h.Tag, Data: bytes.Clone(raw[wire.HeaderSize:])})
			m.Order = append(m.Order, h.Tag)
			return nil
		}

		c := m.chunk(k)
		if c.present() {
			logging.Warn("repeated chunk replaces the earlier one", "tag", h.Tag.String(), "offset", off)
		}
		if err := c.decode(chunk, v); err != nil {
			return errors.NewParse(Format, h.Tag.String(), off, err)
		}
		if k == KindVersion {
			v = wire.At(*m.Version)
		}
		m.Order = append(m.Order, h.Tag)
		return nil
	})
	if err != nil {
		var pe *errors.ParseError
		if !errors.As(err, &pe) {
			err = errors.NewParse(Format, "", r.Offset(), err)
		}
		return err
	}
	return nil
}

// Encode writes the MDLX magic and every present chunk. Chunks are emitted
// in Order, then any present chunk Order does not mention in canonical
// order, then any unknown chunk not yet written. The version becomes active
// once VERS has been written.
func (m *Model) Encode(b *wire.Buffer) error {
	TagMDLX.Encode(b)

	v := wire.NoVersion
	var written [kindCount]bool
	emit := func(k ChunkKind) error {
		written[k] = true
		if err := m.chunk(k).encode(b, v); err != nil {
			return &errors.EncodeError{Format: Format, Path: k.String(), Err: err}
		}
		if k == KindVersion {
			v = wire.At(*m.Version)
		}
		return nil
	}
	unknown := 0
	emitUnknown := func() error {
		c := &m.Unknown[unknown]
		unknown++
		if err := c.encode(b); err != nil {
			return &errors.EncodeError{Format: Format, Path: c.Tag.String(), Err: err}
		}
		return nil
	}

	for _, t := range m.Order {
		k := KindOf(t)
		switch {
		case k == KindUnknown:
			if unknown < len(m.Unknown) && m.Unknown[unknown].Tag == t {
				if err := emitUnknown(); err != nil {
					return err
				}
			} else {
				logging.Warn("order names an unknown chunk that is not retained", "tag", t.String())
			}
		case written[k]:
		case !m.chunk(k).present():
			logging.Warn("order names an absent chunk", "tag", t.String())
		default:
			if err := emit(k); err != nil {
				return err
			}
		}
	}
	for _, k := range Kinds() {
		if !written[k] && m.chunk(k).present() {
			if err := emit(k); err != nil {
				return err
			}
		}
	}
	for unknown < len(m.Unknown) {
		if err := emitUnknown(); err != nil {
			return err
		}
	}
	return nil
}

// StripUnknown drops retained unknown chunks and their Order entries.
func (m *Model) StripUnknown() int {
	n := len(m.Unknown)
	m.Unknown = nil
	if m.Order != nil {
		m.Order = slices.DeleteFunc(m.Order, func(t wire.Tag) bool {
			return KindOf(t) == KindUnknown
		})
	}
	return n
}
