package mdx

import "github.com/FocuswithJustin/mdxkit/core/wire"

// NodeFlags describe inheritance, billboarding and the node's object kind.
type NodeFlags uint32

const (
	NodeDontInheritTranslation NodeFlags = 0x1
	NodeDontInheritRotation    NodeFlags = 0x2
	NodeDontInheritScaling     NodeFlags = 0x4
	NodeBillboarded            NodeFlags = 0x8
	NodeBillboardedLockX       NodeFlags = 0x10
	NodeBillboardedLockY       NodeFlags = 0x20
	NodeBillboardedLockZ       NodeFlags = 0x40
	NodeCameraAnchored         NodeFlags = 0x80
	NodeBone                   NodeFlags = 0x100
	NodeLight                  NodeFlags = 0x200
	NodeEventObject            NodeFlags = 0x400
	NodeAttachment             NodeFlags = 0x800
	NodeParticleEmitter        NodeFlags = 0x1000
	NodeCollisionShape         NodeFlags = 0x2000
	NodeRibbonEmitter          NodeFlags = 0x4000
	// Emitter uses an MDL model, or for PRE2 is unshaded.
	NodeEmitterMod1 NodeFlags = 0x8000
	// Emitter uses a TGA texture, or for PRE2 sorts primitives far Z.
	NodeEmitterMod2 NodeFlags = 0x10000
	NodeLineEmitter NodeFlags = 0x20000
	NodeUnfogged    NodeFlags = 0x40000
	NodeModelSpace  NodeFlags = 0x80000
	NodeXYQuad      NodeFlags = 0x100000
)

// Has reports whether every bit of mask is set.
func (f NodeFlags) Has(mask NodeFlags) bool {
	return f&mask == mask
}

// Node is the transform hierarchy entry shared by bones, helpers, lights,
// attachments, emitters, event objects and collision shapes.
type Node struct {
	Name        string       `json:"name"`
	ObjectID    uint32       `json:"objectId"`
	ParentID    uint32       `json:"parentId"`
	Flags       NodeFlags    `json:"flags"`
	Translation *Track[Vec3] `json:"translation,omitzero"`
	Rotation    *Track[Vec4] `json:"rotation,omitzero"`
	Scaling     *Track[Vec3] `json:"scaling,omitzero"`
	NodeOrder   wire.Order   `json:"nodeOrder"`
}

func (n *Node) blocks() []wire.Block {
	return []wire.Block{
		trackBlock(tagKGTR, &n.Translation, vec3Values),
		trackBlock(tagKGRT, &n.Rotation, vec4Values),
		trackBlock(tagKGSC, &n.Scaling, vec3Values),
	}
}

func (n *Node) Decode(r *wire.Reader, v wire.Version) error {
	return wire.ReadInclusive(r, func(span *wire.Reader) error {
		f := fields{r: span}
		f.literal(&n.Name, NameWidth)
		f.u32(&n.ObjectID)
		f.u32(&n.ParentID)
		f.u32((*uint32)(&n.Flags))
		f.do(func() (err error) {
			n.NodeOrder, err = wire.ReadBlocks(span, v, "node", n.blocks(), wire.Strict)
			return err
		})
		return f.err
	})
}

func (n *Node) Encode(b *wire.Buffer, v wire.Version) error {
	return wire.WriteInclusive(b, func(s *wire.Buffer) error {
		o := out{b: s}
		o.literal(n.Name, NameWidth)
		s.WriteUint32(n.ObjectID)
		s.WriteUint32(n.ParentID)
		s.WriteUint32(uint32(n.Flags))
		o.do(func() error { return wire.WriteBlocks(s, v, n.blocks(), n.NodeOrder) })
		return o.err
	})
}

// Bone is a skinning node.
type Bone struct {
	Node              `json:",inline" yaml:",inline"`
	GeosetID          uint32 `json:"geosetId"`
	GeosetAnimationID uint32 `json:"geosetAnimationId"`
}

func (x *Bone) Decode(r *wire.Reader, v wire.Version) error {
	f := fields{r: r}
	f.do(func() error { return x.Node.Decode(r, v) })
	f.u32(&x.GeosetID)
	f.u32(&x.GeosetAnimationID)
	return f.err
}

func (x *Bone) Encode(b *wire.Buffer, v wire.Version) error {
	if err := x.Node.Encode(b, v); err != nil {
		return err
	}
	b.WriteUint32(x.GeosetID)
	b.WriteUint32(x.GeosetAnimationID)
	return nil
}

// Helper is a bare node used for grouping.
type Helper struct {
	Node `json:",inline" yaml:",inline"`
}

func (x *Helper) Decode(r *wire.Reader, v wire.Version) error {
	return x.Node.Decode(r, v)
}

func (x *Helper) Encode(b *wire.Buffer, v wire.Version) error {
	return x.Node.Encode(b, v)
}
