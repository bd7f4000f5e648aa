package mdx

import "github.com/FocuswithJustin/mdxkit/core/wire"

// ParticleEmitter spawns model or texture particles.
type ParticleEmitter struct {
	Node            `json:",inline" yaml:",inline"`
	EmissionRate    float32 `json:"emissionRate"`
	Gravity         float32 `json:"gravity"`
	Longitude       float32 `json:"longitude"`
	Latitude        float32 `json:"latitude"`
	SpawnModel      string  `json:"spawnModel"`
	Lifespan        float32 `json:"lifespan"`
	InitialVelocity float32 `json:"initialVelocity"`

	EmissionRateTrack *Track[float32] `json:"emissionRateTrack,omitzero"`
	GravityTrack      *Track[float32] `json:"gravityTrack,omitzero"`
	LongitudeTrack    *Track[float32] `json:"longitudeTrack,omitzero"`
	LatitudeTrack     *Track[float32] `json:"latitudeTrack,omitzero"`
	LifespanTrack     *Track[float32] `json:"lifespanTrack,omitzero"`
	SpeedTrack        *Track[float32] `json:"speedTrack,omitzero"`
	Visibility        *Track[float32] `json:"visibility,omitzero"`
	Order             wire.Order      `json:"order"`
}

func (p *ParticleEmitter) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKPEE, &p.EmissionRateTrack, floatValues),
		trackBlock(tagKPEG, &p.GravityTrack, floatValues),
		trackBlock(tagKPLN, &p.LongitudeTrack, floatValues),
		trackBlock(tagKPLT, &p.LatitudeTrack, floatValues),
		trackBlock(tagKPEL, &p.LifespanTrack, floatValues),
		trackBlock(tagKPES, &p.SpeedTrack, floatValues),
		trackBlock(tagKPEV, &p.Visibility, floatValues),
	}
}

func (p *ParticleEmitter) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.do(func() error { return p.Node.Decode(span, v) })
		f.f32(&p.EmissionRate)
		f.f32(&p.Gravity)
		f.f32(&p.Longitude)
		f.f32(&p.Latitude)
		f.literal(&p.SpawnModel, PathWidth)
		f.f32(&p.Lifespan)
		f.f32(&p.InitialVelocity)
		f.do(func() (err error) {
			p.Order, err = wire.ReadBlocks(span, v, "particle emitter", p.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (p *ParticleEmitter) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		o := out{b: s}
		o.do(func() error { return p.Node.Encode(s, v) })
		s.WriteFloat32(p.EmissionRate)
		s.WriteFloat32(p.Gravity)
		s.WriteFloat32(p.Longitude)
		s.WriteFloat32(p.Latitude)
		o.literal(p.SpawnModel, PathWidth)
		s.WriteFloat32(p.Lifespan)
		s.WriteFloat32(p.InitialVelocity)
		o.do(func() error { return wire.WriteBlocks(s, v, p.blocks(), p.Order) })
		return o.err
	})
}

// EmitterFilterMode is the blend mode of a PRE2 emitter.
type EmitterFilterMode uint32

const (
	EmitterBlend EmitterFilterMode = iota
	EmitterAdditive
	EmitterModulate
	EmitterModulate2x
	EmitterAlphaKey
	emitterFilterModeCount
)

// HeadOrTail selects which particle parts are drawn.
type HeadOrTail uint32

const (
	ParticleHead HeadOrTail = iota
	ParticleTail
	ParticleBoth
	headOrTailCount
)

// ParticleEmitter2 is the billboarded particle emitter.
type ParticleEmitter2 struct {
	Node              `json:",inline" yaml:",inline"`
	Speed             float32           `json:"speed"`
	Variation         float32           `json:"variation"`
	Latitude          float32           `json:"latitude"`
	Gravity           float32           `json:"gravity"`
	Lifespan          float32           `json:"lifespan"`
	EmissionRate      float32           `json:"emissionRate"`
	Length            float32           `json:"length"`
	Width             float32           `json:"width"`
	FilterMode        EmitterFilterMode `json:"filterMode"`
	Rows              uint32            `json:"rows"`
	Columns           uint32            `json:"columns"`
	HeadOrTail        HeadOrTail        `json:"headOrTail"`
	TailLength        float32           `json:"tailLength"`
	Time              float32           `json:"time"`
	SegmentColor      [3]Vec3           `json:"segmentColor"`
	SegmentAlpha      [3]uint8          `json:"segmentAlpha"`
	SegmentScaling    Vec3              `json:"segmentScaling"`
	HeadInterval      [3]uint32         `json:"headInterval"`
	HeadDecayInterval [3]uint32         `json:"headDecayInterval"`
	TailInterval      [3]uint32         `json:"tailInterval"`
	TailDecayInterval [3]uint32         `json:"tailDecayInterval"`
	TextureID         uint32            `json:"textureId"`
	Squirt            uint32            `json:"squirt"`
	PriorityPlane     int32             `json:"priorityPlane"`
	ReplaceableID     uint32            `json:"replaceableId"`

	SpeedTrack        *Track[float32] `json:"speedTrack,omitzero"`
	VariationTrack    *Track[float32] `json:"variationTrack,omitzero"`
	LatitudeTrack     *Track[float32] `json:"latitudeTrack,omitzero"`
	GravityTrack      *Track[float32] `json:"gravityTrack,omitzero"`
	EmissionRateTrack *Track[float32] `json:"emissionRateTrack,omitzero"`
	LengthTrack       *Track[float32] `json:"lengthTrack,omitzero"`
	WidthTrack        *Track[float32] `json:"widthTrack,omitzero"`
	Visibility        *Track[float32] `json:"visibility,omitzero"`
	Order             wire.Order      `json:"order"`
}

func (p *ParticleEmitter2) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKP2S, &p.SpeedTrack, floatValues),
		trackBlock(tagKP2R, &p.VariationTrack, floatValues),
		trackBlock(tagKP2L, &p.LatitudeTrack, floatValues),
		trackBlock(tagKP2G, &p.GravityTrack, floatValues),
		trackBlock(tagKP2E, &p.EmissionRateTrack, floatValues),
		trackBlock(tagKP2N, &p.LengthTrack, floatValues),
		trackBlock(tagKP2W, &p.WidthTrack, floatValues),
		trackBlock(tagKP2V, &p.Visibility, floatValues),
	}
}

func (p *ParticleEmitter2) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.do(func() error { return p.Node.Decode(span, v) })
		f.f32(&p.Speed)
		f.f32(&p.Variation)
		f.f32(&p.Latitude)
		f.f32(&p.Gravity)
		f.f32(&p.Lifespan)
		f.f32(&p.EmissionRate)
		f.f32(&p.Length)
		f.f32(&p.Width)
		readEnum(&f, &p.FilterMode, "emitter filter mode", uint32(emitterFilterModeCount))
		f.u32(&p.Rows)
		f.u32(&p.Columns)
		readEnum(&f, &p.HeadOrTail, "head or tail", uint32(headOrTailCount))
		f.f32(&p.TailLength)
		f.f32(&p.Time)
		for i := range p.SegmentColor {
			f.vec3(&p.SegmentColor[i])
		}
		for i := range p.SegmentAlpha {
			f.u8(&p.SegmentAlpha[i])
		}
		f.vec3(&p.SegmentScaling)
		for _, iv := range []*[3]uint32{&p.HeadInterval, &p.HeadDecayInterval, &p.TailInterval, &p.TailDecayInterval} {
			f.do(func() error { return span.ReadUint32s(iv[:]) })
		}
		f.u32(&p.TextureID)
		f.u32(&p.Squirt)
		f.i32(&p.PriorityPlane)
		f.u32(&p.ReplaceableID)
		f.do(func() (err error) {
			p.Order, err = wire.ReadBlocks(span, v, "particle emitter 2", p.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (p *ParticleEmitter2) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		if err := p.Node.Encode(s, v); err != nil {
			return err
		}
		s.WriteFloat32s(p.Speed, p.Variation, p.Latitude, p.Gravity, p.Lifespan, p.EmissionRate, p.Length, p.Width)
		s.WriteUint32s(uint32(p.FilterMode), p.Rows, p.Columns, uint32(p.HeadOrTail))
		s.WriteFloat32s(p.TailLength, p.Time)
		for _, c := range p.SegmentColor {
			s.WriteFloat32s(c[:]...)
		}
		s.Write(p.SegmentAlpha[:])
		s.WriteFloat32s(p.SegmentScaling[:]...)
		s.WriteUint32s(p.HeadInterval[:]...)
		s.WriteUint32s(p.HeadDecayInterval[:]...)
		s.WriteUint32s(p.TailInterval[:]...)
		s.WriteUint32s(p.TailDecayInterval[:]...)
		s.WriteUint32s(p.TextureID, p.Squirt)
		s.WriteInt32(p.PriorityPlane)
		s.WriteUint32(p.ReplaceableID)
		return wire.WriteBlocks(s, v, p.blocks(), p.Order)
	})
}

// RibbonEmitter trails a textured ribbon.
type RibbonEmitter struct {
	Node         `json:",inline" yaml:",inline"`
	HeightAbove  float32 `json:"heightAbove"`
	HeightBelow  float32 `json:"heightBelow"`
	Alpha        float32 `json:"alpha"`
	Color        Vec3    `json:"color"`
	Lifespan     float32 `json:"lifespan"`
	TextureSlot  uint32  `json:"textureSlot"`
	EmissionRate uint32  `json:"emissionRate"`
	Rows         uint32  `json:"rows"`
	Columns      uint32  `json:"columns"`
	MaterialID   uint32  `json:"materialId"`
	Gravity      float32 `json:"gravity"`

	HeightAboveTrack *Track[float32] `json:"heightAboveTrack,omitzero"`
	HeightBelowTrack *Track[float32] `json:"heightBelowTrack,omitzero"`
	AlphaTrack       *Track[float32] `json:"alphaTrack,omitzero"`
	ColorTrack       *Track[Vec3]    `json:"colorTrack,omitzero"`
	TextureSlotTrack *Track[uint32]  `json:"textureSlotTrack,omitzero"`
	Visibility       *Track[float32] `json:"visibility,omitzero"`
	Order            wire.Order      `json:"order"`
}

func (e *RibbonEmitter) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKRHA, &e.HeightAboveTrack, floatValues),
		trackBlock(tagKRHB, &e.HeightBelowTrack, floatValues),
		trackBlock(tagKRAL, &e.AlphaTrack, floatValues),
		trackBlock(tagKRCO, &e.ColorTrack, vec3Values),
		trackBlock(tagKRTX, &e.TextureSlotTrack, uintValues),
		trackBlock(tagKRVS, &e.Visibility, floatValues),
	}
}

func (e *RibbonEmitter) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.do(func() error { return e.Node.Decode(span, v) })
		f.f32(&e.HeightAbove)
		f.f32(&e.HeightBelow)
		f.f32(&e.Alpha)
		f.vec3(&e.Color)
		f.f32(&e.Lifespan)
		f.u32(&e.TextureSlot)
		f.u32(&e.EmissionRate)
		f.u32(&e.Rows)
		f.u32(&e.Columns)
		f.u32(&e.MaterialID)
		f.f32(&e.Gravity)
		f.do(func() (err error) {
			e.Order, err = wire.ReadBlocks(span, v, "ribbon emitter", e.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (e *RibbonEmitter) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		if err := e.Node.Encode(s, v); err != nil {
			return err
		}
		s.WriteFloat32s(e.HeightAbove, e.HeightBelow, e.Alpha)
		s.WriteFloat32s(e.Color[:]...)
		s.WriteFloat32(e.Lifespan)
		s.WriteUint32s(e.TextureSlot, e.EmissionRate, e.Rows, e.Columns, e.MaterialID)
		s.WriteFloat32(e.Gravity)
		return wire.WriteBlocks(s, v, e.blocks(), e.Order)
	})
}

// PopcornEmitter is the Reforged particle system.
type PopcornEmitter struct {
	Node            `json:",inline" yaml:",inline"`
	Lifespan        float32 `json:"lifespan"`
	EmissionRate    float32 `json:"emissionRate"`
	Speed           float32 `json:"speed"`
	Color           Vec3    `json:"color"`
	Alpha           float32 `json:"alpha"`
	ReplaceableID   uint32  `json:"replaceableId"`
	Path            string  `json:"path"`
	VisibilityGuide string  `json:"visibilityGuide"`

	AlphaTrack        *Track[float32] `json:"alphaTrack,omitzero"`
	ColorTrack        *Track[Vec3]    `json:"colorTrack,omitzero"`
	EmissionRateTrack *Track[float32] `json:"emissionRateTrack,omitzero"`
	LifespanTrack     *Track[float32] `json:"lifespanTrack,omitzero"`
	SpeedTrack        *Track[float32] `json:"speedTrack,omitzero"`
	Visibility        *Track[float32] `json:"visibility,omitzero"`
	Order             wire.Order      `json:"order"`
}

func (p *PopcornEmitter) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKPPA, &p.AlphaTrack, floatValues),
		trackBlock(tagKPPC, &p.ColorTrack, vec3Values),
		trackBlock(tagKPPE, &p.EmissionRateTrack, floatValues),
		trackBlock(tagKPPL, &p.LifespanTrack, floatValues),
		trackBlock(tagKPPS, &p.SpeedTrack, floatValues),
		trackBlock(tagKPPV, &p.Visibility, floatValues),
	}
}

func (p *PopcornEmitter) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.do(func() error { return p.Node.Decode(span, v) })
		f.f32(&p.Lifespan)
		f.f32(&p.EmissionRate)
		f.f32(&p.Speed)
		f.vec3(&p.Color)
		f.f32(&p.Alpha)
		f.u32(&p.ReplaceableID)
		f.literal(&p.Path, PathWidth)
		f.literal(&p.VisibilityGuide, PathWidth)
		f.do(func() (err error) {
			p.Order, err = wire.ReadBlocks(span, v, "popcorn emitter", p.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (p *PopcornEmitter) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		o := out{b: s}
		o.do(func() error { return p.Node.Encode(s, v) })
		s.WriteFloat32s(p.Lifespan, p.EmissionRate, p.Speed)
		s.WriteFloat32s(p.Color[:]...)
		s.WriteFloat32(p.Alpha)
		s.WriteUint32(p.ReplaceableID)
		o.literal(p.Path, PathWidth)
		o.literal(p.VisibilityGuide, PathWidth)
		o.do(func() error { return wire.WriteBlocks(s, v, p.blocks(), p.Order) })
		return o.err
	})
}
