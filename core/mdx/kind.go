package mdx

import "github.com/FocuswithJustin/mdxkit/core/wire"

// ChunkKind enumerates the top-level chunks this package understands.
type ChunkKind int

const (
	KindUnknown ChunkKind = iota
	KindVersion
	KindModel
	KindSequences
	KindGlobalSequences
	KindTextures
	KindSoundTracks
	KindMaterials
	KindTextureAnimations
	KindGeosets
	KindGeosetAnimations
	KindBones
	KindLights
	KindHelpers
	KindAttachments
	KindPivotPoints
	KindParticleEmitters
	KindParticleEmitters2
	KindRibbonEmitters
	KindEventObjects
	KindCameras
	KindCollisionShapes
	KindBindPoses
	KindFaceEffects
	KindPopcornEmitters
	kindCount
)

// chunkTags is indexed by kind and gives canonical encode order.
var chunkTags = [kindCount]wire.Tag{
	KindVersion:           TagVERS,
	KindModel:             TagMODL,
	KindSequences:         TagSEQS,
	KindGlobalSequences:   TagGLBS,
	KindTextures:          TagTEXS,
	KindSoundTracks:       TagSNDS,
	KindMaterials:         TagMTLS,
	KindTextureAnimations: TagTXAN,
	KindGeosets:           TagGEOS,
	KindGeosetAnimations:  TagGEOA,
	KindBones:             TagBONE,
	KindLights:            TagLITE,
	KindHelpers:           TagHELP,
	KindAttachments:       TagATCH,
	KindPivotPoints:       TagPIVT,
	KindParticleEmitters:  TagPREM,
	KindParticleEmitters2: TagPRE2,
	KindRibbonEmitters:    TagRIBB,
	KindEventObjects:      TagEVTS,
	KindCameras:           TagCAMS,
	KindCollisionShapes:   TagCLID,
	KindBindPoses:         TagBPOS,
	KindFaceEffects:       TagFAFX,
	KindPopcornEmitters:   TagCORN,
}

// KindOf maps a chunk tag to its kind.
func KindOf(t wire.Tag) ChunkKind {
	for k := KindVersion; k < kindCount; k++ {
		if chunkTags[k] == t {
			return k
		}
	}
	return KindUnknown
}

// Tag returns the chunk tag of k, or the zero tag for KindUnknown.
func (k ChunkKind) Tag() wire.Tag {
	if k <= KindUnknown || k >= kindCount {
		return wire.Tag{}
	}
	return chunkTags[k]
}

func (k ChunkKind) String() string {
	if k <= KindUnknown || k >= kindCount {
		return "unknown"
	}
	return chunkTags[k].String()
}

// Kinds returns every known kind in canonical order.
func Kinds() []ChunkKind {
	kinds := make([]ChunkKind, 0, kindCount-1)
	for k := KindVersion; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
