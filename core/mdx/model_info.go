package mdx

import "github.com/FocuswithJustin/mdxkit/core/wire"

// Element widths of the fixed-size top-level chunks.
const (
	modelInfoSize  = NameWidth + PathWidth + extentSize + 4
	sequenceSize   = NameWidth + 8 + 4 + 4 + 4 + 4 + extentSize
	globalSeqSize  = 4
	textureSize    = 4 + PathWidth + 4
	soundTrackSize = PathWidth + 4 + 4 + 4
	pivotSize      = 12
	faceEffectSize = NameWidth + PathWidth
)

// ModelInfo is the MODL chunk.
type ModelInfo struct {
	Name          string `json:"name"`
	AnimationFile string `json:"animationFile"`
	Extent        Extent `json:"extent"`
	BlendTime     uint32 `json:"blendTime"`
}

func (m *ModelInfo) Decode(r *wire.Reader, _ wire.Version) error {
	f := fields{r: r}
	f.literal(&m.Name, NameWidth)
	f.literal(&m.AnimationFile, PathWidth)
	f.extent(&m.Extent)
	f.u32(&m.BlendTime)
	return f.err
}

func (m *ModelInfo) Encode(b *wire.Buffer, _ wire.Version) error {
	o := out{b: b}
	o.literal(m.Name, NameWidth)
	o.literal(m.AnimationFile, PathWidth)
	_ = m.Extent.Encode(b, wire.NoVersion)
	b.WriteUint32(m.BlendTime)
	return o.err
}

// SequenceNonLooping marks a sequence that plays once.
const SequenceNonLooping uint32 = 0x1

// Sequence is one named animation interval.
type Sequence struct {
	Name      string    `json:"name"`
	Interval  [2]uint32 `json:"interval"`
	MoveSpeed float32   `json:"moveSpeed"`
	Flags     uint32    `json:"flags"`
	Rarity    float32   `json:"rarity"`
	SyncPoint uint32    `json:"syncPoint"`
	Extent    Extent    `json:"extent"`
}

func (s *Sequence) Decode(r *wire.Reader, _ wire.Version) error {
	f := fields{r: r}
	f.literal(&s.Name, NameWidth)
	f.u32(&s.Interval[0])
	f.u32(&s.Interval[1])
	f.f32(&s.MoveSpeed)
	f.u32(&s.Flags)
	f.f32(&s.Rarity)
	f.u32(&s.SyncPoint)
	f.extent(&s.Extent)
	return f.err
}

func (s *Sequence) Encode(b *wire.Buffer, _ wire.Version) error {
	o := out{b: b}
	o.literal(s.Name, NameWidth)
	b.WriteUint32s(s.Interval[:]...)
	b.WriteFloat32(s.MoveSpeed)
	b.WriteUint32(s.Flags)
	b.WriteFloat32(s.Rarity)
	b.WriteUint32(s.SyncPoint)
	_ = s.Extent.Encode(b, wire.NoVersion)
	return o.err
}

// GlobalSequence is the duration of a timeline independent of sequences.
type GlobalSequence uint32

func (g *GlobalSequence) Decode(r *wire.Reader, _ wire.Version) error {
	v, err := r.ReadUint32()
	*g = GlobalSequence(v)
	return err
}

func (g *GlobalSequence) Encode(b *wire.Buffer, _ wire.Version) error {
	b.WriteUint32(uint32(*g))
	return nil
}

// Texture flags.
const (
	TextureWrapWidth  uint32 = 0x1
	TextureWrapHeight uint32 = 0x2
)

// Texture references an image file or a replaceable texture slot.
type Texture struct {
	ReplaceableID uint32 `json:"replaceableId"`
	FileName      string `json:"fileName"`
	Flags         uint32 `json:"flags"`
}

func (t *Texture) Decode(r *wire.Reader, _ wire.Version) error {
	f := fields{r: r}
	f.u32(&t.ReplaceableID)
	f.literal(&t.FileName, PathWidth)
	f.u32(&t.Flags)
	return f.err
}

func (t *Texture) Encode(b *wire.Buffer, _ wire.Version) error {
	o := out{b: b}
	b.WriteUint32(t.ReplaceableID)
	o.literal(t.FileName, PathWidth)
	b.WriteUint32(t.Flags)
	return o.err
}

// SoundTrack is a sound file reference.
type SoundTrack struct {
	FileName string  `json:"fileName"`
	Volume   float32 `json:"volume"`
	Pitch    float32 `json:"pitch"`
	Flags    uint32  `json:"flags"`
}

func (s *SoundTrack) Decode(r *wire.Reader, _ wire.Version) error {
	f := fields{r: r}
	f.literal(&s.FileName, PathWidth)
	f.f32(&s.Volume)
	f.f32(&s.Pitch)
	f.u32(&s.Flags)
	return f.err
}

func (s *SoundTrack) Encode(b *wire.Buffer, _ wire.Version) error {
	o := out{b: b}
	o.literal(s.FileName, PathWidth)
	b.WriteFloat32(s.Volume)
	b.WriteFloat32(s.Pitch)
	b.WriteUint32(s.Flags)
	return o.err
}

// FaceEffect binds a facial animation file to a target.
type FaceEffect struct {
	Target string `json:"target"`
	Path   string `json:"path"`
}

func (e *FaceEffect) Decode(r *wire.Reader, _ wire.Version) error {
	f := fields{r: r}
	f.literal(&e.Target, NameWidth)
	f.literal(&e.Path, PathWidth)
	return f.err
}

func (e *FaceEffect) Encode(b *wire.Buffer, _ wire.Version) error {
	o := out{b: b}
	o.literal(e.Target, NameWidth)
	o.literal(e.Path, PathWidth)
	return o.err
}

// BindPose is a 4x3 bind matrix.
type BindPose [12]float32

func (p *BindPose) Decode(r *wire.Reader, _ wire.Version) error {
	return r.ReadFloat32s(p[:])
}

func (p *BindPose) Encode(b *wire.Buffer, _ wire.Version) error {
	b.WriteFloat32s(p[:]...)
	return nil
}
