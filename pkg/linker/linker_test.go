package linker

import (
	"testing"

	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/materials-commons/assetpack/pkg/catalog/stor"
	"github.com/materials-commons/assetpack/pkg/scene"
	"github.com/stretchr/testify/require"
)

func ptr(i int) *int {
	return &i
}

func withBaseColor(index int) scene.Material {
	return scene.Material{
		PBRMetallicRoughness: &scene.PBRMetallicRoughness{
			BaseColorTexture: &scene.TextureInfo{Index: index},
		},
	}
}

// quadScene has one buffer split into an index view, a position view and an
// interleaved normal/uv view, plus a second mesh with a non-indexed
// primitive.
func quadScene() *scene.Document {
	return &scene.Document{
		Images:    make([]scene.Image, 3),
		Materials: []scene.Material{withBaseColor(2), {Name: "untextured"}},
		Buffers:   []scene.Buffer{{URI: "quad.bin", ByteLength: 120}},
		BufferViews: []scene.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 12},
			{Buffer: 0, ByteOffset: 12, ByteLength: 48},
			{Buffer: 0, ByteOffset: 60, ByteLength: 60},
		},
		Accessors: []scene.Accessor{
			{BufferView: ptr(0), Count: 6, Type: "SCALAR"},
			{BufferView: ptr(1), Count: 4, Type: "VEC3"},
			{BufferView: ptr(2), Count: 4, Type: "VEC3"},
			{BufferView: ptr(2), ByteOffset: 12, Count: 4, Type: "VEC2"},
		},
		Meshes: []scene.Mesh{
			{
				Name: "quad",
				Primitives: []scene.Primitive{
					{
						Attributes: map[string]int{"POSITION": 1, "NORMAL": 2, "TEXCOORD_0": 3},
						Indices:    ptr(0),
						Material:   ptr(0),
					},
					{
						Attributes: map[string]int{"POSITION": 1},
						Indices:    ptr(0),
						Material:   ptr(1),
					},
				},
			},
			{
				Name:       "points",
				Primitives: []scene.Primitive{{Attributes: map[string]int{"POSITION": 1}}},
			},
		},
	}
}

func TestLinkMaterialsResolvesImageRowIDs(t *testing.T) {
	s := stor.NewInMemoryInsertStor()
	materials, err := New(quadScene(), s).LinkMaterials()
	require.NoError(t, err)

	require.Equal(t, map[int]int64{0: 1}, materials)
	require.Equal(t, []catmodel.Material{{ID: 1, DiffuseTextureID: 3}}, s.Materials)
}

func TestLinkMaterialsFollowsTextureSource(t *testing.T) {
	doc := quadScene()
	doc.Textures = []scene.Texture{{Source: ptr(1)}, {Source: ptr(0)}, {Source: ptr(1)}}
	doc.Materials = []scene.Material{withBaseColor(1), withBaseColor(2)}

	s := stor.NewInMemoryInsertStor()
	_, err := New(doc, s).LinkMaterials()
	require.NoError(t, err)
	require.Equal(t, []catmodel.Material{{ID: 1, DiffuseTextureID: 1}, {ID: 2, DiffuseTextureID: 2}}, s.Materials)
}

func TestLinkMaterialsRejectsMissingImage(t *testing.T) {
	doc := quadScene()
	doc.Materials = []scene.Material{withBaseColor(3)}

	_, err := New(doc, stor.NewInMemoryInsertStor()).LinkMaterials()
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestLinkBufferViewsTagsAttributes(t *testing.T) {
	s := stor.NewInMemoryInsertStor()
	ids, err := New(quadScene(), s).LinkBufferViews()
	require.NoError(t, err)

	require.Equal(t, []int64{1, 2, 3}, ids)
	require.Equal(t, []catmodel.BufferView{
		{ID: 1, ByteSize: 12, ByteOffset: 0, Attribute: catmodel.AttributeIndex, BufferID: 1},
		{ID: 2, ByteSize: 48, ByteOffset: 12, Attribute: catmodel.AttributePosition, BufferID: 1},
		{ID: 3, ByteSize: 60, ByteOffset: 60, Attribute: catmodel.AttributeNormal, BufferID: 1},
	}, s.BufferViews)
}

func TestLinkBufferViewsRejectsBadRanges(t *testing.T) {
	var tests = []struct {
		name string
		view scene.BufferView
	}{
		{name: "overrun", view: scene.BufferView{Buffer: 0, ByteOffset: 100, ByteLength: 40}},
		{name: "missing buffer", view: scene.BufferView{Buffer: 1, ByteLength: 4}},
		{name: "empty", view: scene.BufferView{Buffer: 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := quadScene()
			doc.BufferViews = append(doc.BufferViews, test.view)
			_, err := New(doc, stor.NewInMemoryInsertStor()).LinkBufferViews()
			require.ErrorIs(t, err, ErrInvalidReference)
		})
	}
}

func TestLinkMeshes(t *testing.T) {
	s := stor.NewInMemoryInsertStor()
	require.NoError(t, New(quadScene(), s).Link())

	require.Equal(t, []catmodel.Mesh{{ID: 1, Name: "quad"}, {ID: 2, Name: "points"}}, s.Meshes)

	require.Len(t, s.SubMeshes, 2)
	require.Equal(t, int64(1), s.SubMeshes[0].IndexBufferID)
	require.NotNil(t, s.SubMeshes[0].MaterialID)
	require.Equal(t, int64(1), *s.SubMeshes[0].MaterialID)
	require.Nil(t, s.SubMeshes[1].MaterialID)

	require.Equal(t, []catmodel.MeshSubMesh{{MeshID: 1, SubMeshID: 1}, {MeshID: 1, SubMeshID: 2}}, s.MeshSubMeshes)

	// NORMAL and TEXCOORD_0 share view 3, so the first submesh gets two streams.
	require.Equal(t, []catmodel.SubMeshVertexStream{
		{SubMeshID: 1, BufferViewID: 3},
		{SubMeshID: 1, BufferViewID: 2},
		{SubMeshID: 2, BufferViewID: 2},
	}, s.SubMeshVertexStreams)
}

func TestLinkMeshesRejectsUnknownMaterial(t *testing.T) {
	doc := quadScene()
	doc.Meshes[0].Primitives[0].Material = ptr(7)

	err := New(doc, stor.NewInMemoryInsertStor()).Link()
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestLinkStopsOnInsertFailure(t *testing.T) {
	s := stor.NewInMemoryInsertStor().FailOn(stor.EntitySubMesh, 2)

	err := New(quadScene(), s).Link()
	require.ErrorIs(t, err, stor.ErrInjected)
	require.Len(t, s.SubMeshes, 1)
	require.Empty(t, s.Meshes[1:])
}

func TestAttributeForSemantic(t *testing.T) {
	var tests = []struct {
		semantic string
		expected catmodel.VertexAttribute
	}{
		{"POSITION", catmodel.AttributePosition},
		{"NORMAL", catmodel.AttributeNormal},
		{"TANGENT", catmodel.AttributeTangent},
		{"TEXCOORD_1", catmodel.AttributeTexCoord},
		{"COLOR_0", catmodel.AttributeColor},
		{"JOINTS_0", catmodel.AttributeJoints},
		{"WEIGHTS_0", catmodel.AttributeWeights},
		{"_CUSTOM", catmodel.AttributeUnknown},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, attributeForSemantic(test.semantic), test.semantic)
	}
}

func TestLinkMeshesSkipsAccessorsWithoutBufferView(t *testing.T) {
	doc := quadScene()
	// Zero-filled accessors: one for a vertex attribute, one for indices.
	doc.Accessors = append(doc.Accessors,
		scene.Accessor{Count: 4, Type: "VEC4"},
		scene.Accessor{Count: 6, Type: "SCALAR"},
	)
	doc.Meshes[0].Primitives[0].Attributes["COLOR_0"] = 4
	doc.Meshes[1].Primitives = append(doc.Meshes[1].Primitives, scene.Primitive{
		Attributes: map[string]int{"POSITION": 1},
		Indices:    ptr(5),
	})

	s := stor.NewInMemoryInsertStor()
	require.NoError(t, New(doc, s).Link())

	require.Len(t, s.SubMeshes, 2)
	require.Equal(t, []catmodel.SubMeshVertexStream{
		{SubMeshID: 1, BufferViewID: 3},
		{SubMeshID: 1, BufferViewID: 2},
		{SubMeshID: 2, BufferViewID: 2},
	}, s.SubMeshVertexStreams)
}

func TestLinkMeshesRejectsMissingAccessor(t *testing.T) {
	doc := quadScene()
	doc.Meshes[0].Primitives[0].Attributes["COLOR_0"] = 42

	err := New(doc, stor.NewInMemoryInsertStor()).Link()
	require.ErrorIs(t, err, ErrInvalidReference)
}
