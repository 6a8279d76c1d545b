package linker

import (
	"strings"

	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
)

// attributeForSemantic maps a glTF vertex attribute semantic such as
// POSITION or TEXCOORD_0 to its catalog tag.
func attributeForSemantic(semantic string) catmodel.VertexAttribute {
	base, _, _ := strings.Cut(semantic, "_")
	switch base {
	case "POSITION":
		return catmodel.AttributePosition
	case "NORMAL":
		return catmodel.AttributeNormal
	case "TANGENT":
		return catmodel.AttributeTangent
	case "TEXCOORD":
		return catmodel.AttributeTexCoord
	case "COLOR":
		return catmodel.AttributeColor
	case "JOINTS":
		return catmodel.AttributeJoints
	case "WEIGHTS":
		return catmodel.AttributeWeights
	default:
		return catmodel.AttributeUnknown
	}
}
