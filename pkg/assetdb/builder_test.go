package assetdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/materials-commons/assetpack/pkg/blob"
	"github.com/materials-commons/assetpack/pkg/catalog"
	"github.com/materials-commons/assetpack/pkg/catalog/audit"
	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/materials-commons/assetpack/pkg/catalog/stor"
	"github.com/materials-commons/assetpack/pkg/config"
	"github.com/materials-commons/assetpack/pkg/scene"
	"github.com/materials-commons/assetpack/pkg/texture"
	"github.com/materials-commons/assetpack/pkg/tutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func openBuilt(t *testing.T, path string) stor.CatalogStor {
	t.Helper()

	db, err := catalog.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close(db) })
	return stor.NewGormCatalogStor(db)
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

func requireStage(t *testing.T, err error, stage Stage) {
	t.Helper()

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr), "expected a BuildError, got %v", err)
	require.Equal(t, stage, buildErr.Stage)
}

func TestBuildOneTextureOneBuffer(t *testing.T) {
	s := tutil.NewScene(t)
	s.AddImage("albedo.png", 8, 8)
	buffer := s.AddBuffer("tri.bin", make([]byte, 48))
	material := s.AddMaterial(0)
	s.AddTriangleMesh("tri", buffer, &material)
	src := s.Write("scene.gltf")

	out := filepath.Join(t.TempDir(), "bundle")
	dst := filepath.Join(out, "assets.db")
	b := NewBuilder(DefaultOptions())
	require.NoError(t, b.Build(src, dst))
	require.Equal(t, StageDone, b.Stage())

	c := openBuilt(t, dst)

	packed, err := c.ListPackedData()
	require.NoError(t, err)
	require.Equal(t, []catmodel.PackedData{
		{ID: 1, FilePath: "Textures.bin", DataType: catmodel.DataTypeTextures},
		{ID: 2, FilePath: "Buffers.bin", DataType: catmodel.DataTypeMeshes},
	}, packed)

	textures, err := c.ListTextures()
	require.NoError(t, err)
	require.Equal(t, []catmodel.Texture{
		{ID: 1, ByteSize: int64(texture.BC3Size(8, 8)), ByteOffset: 0, Format: catmodel.TextureFormatBC3, PackedDataID: 1},
	}, textures)
	require.Equal(t, textures[0].ByteSize, fileSize(t, filepath.Join(out, "Textures.bin")))

	buffers, err := c.ListBuffers()
	require.NoError(t, err)
	require.Equal(t, []catmodel.Buffer{{ID: 1, ByteSize: 48, ByteOffset: 0, PackedDataID: 2}}, buffers)
	require.Equal(t, int64(48), fileSize(t, filepath.Join(out, "Buffers.bin")))

	materials, err := c.ListMaterials()
	require.NoError(t, err)
	require.Equal(t, []catmodel.Material{{ID: 1, DiffuseTextureID: 1}}, materials)

	views, err := c.ListBufferViews()
	require.NoError(t, err)
	require.Equal(t, []catmodel.BufferView{
		{ID: 1, ByteSize: 12, ByteOffset: 0, Attribute: catmodel.AttributeIndex, BufferID: 1},
		{ID: 2, ByteSize: 36, ByteOffset: 12, Attribute: catmodel.AttributePosition, BufferID: 1},
	}, views)

	subMeshes, err := c.ListSubMeshes()
	require.NoError(t, err)
	require.Len(t, subMeshes, 1)
	require.Equal(t, int64(1), subMeshes[0].IndexBufferID)
	require.NotNil(t, subMeshes[0].MaterialID)
	require.Equal(t, int64(1), *subMeshes[0].MaterialID)

	joins, err := c.ListMeshSubMeshes()
	require.NoError(t, err)
	require.Equal(t, []catmodel.MeshSubMesh{{MeshID: 1, SubMeshID: 1}}, joins)

	streams, err := c.ListSubMeshVertexStreams()
	require.NoError(t, err)
	require.Equal(t, []catmodel.SubMeshVertexStream{{SubMeshID: 1, BufferViewID: 2}}, streams)

	report, err := audit.VerifyCatalog(dst)
	require.NoError(t, err)
	require.True(t, report.OK(), "%v", report.Problems)
}

func TestBuildTexturesAreContiguous(t *testing.T) {
	s := tutil.NewScene(t)
	s.AddImage("a.png", 8, 8)
	s.AddImage("textures/b.png", 16, 16)
	s.AddImage("c.png", 4, 4)
	src := s.Write("scene.gltf")

	out := t.TempDir()
	dst := filepath.Join(out, "assets.db")
	require.True(t, BuildDatabase(src, dst))

	textures, err := openBuilt(t, dst).ListTextures()
	require.NoError(t, err)
	require.Len(t, textures, 3)

	var offset int64
	for k, tex := range textures {
		require.Equal(t, catalog.RowIDForIndex(k), tex.ID)
		require.Equal(t, offset, tex.ByteOffset, "texture %d", k)
		offset += tex.ByteSize
	}
	require.Equal(t, []int64{64, 256, 16}, []int64{textures[0].ByteSize, textures[1].ByteSize, textures[2].ByteSize})
	require.Equal(t, offset, fileSize(t, filepath.Join(out, "Textures.bin")))

	// No buffers in the scene, so no geometry blob or PackedData row.
	_, err = os.Stat(filepath.Join(out, "Buffers.bin"))
	require.True(t, os.IsNotExist(err))

	packed, err := openBuilt(t, dst).ListPackedData()
	require.NoError(t, err)
	require.Len(t, packed, 1)
}

func TestBuildFailsOnEmptyBuffer(t *testing.T) {
	s := tutil.NewScene(t)
	s.AddImage("a.png", 4, 4)
	s.AddBuffer("full.bin", make([]byte, 16))
	s.AddBuffer("empty.bin", nil)
	src := s.Write("scene.gltf")

	out := t.TempDir()
	dst := filepath.Join(out, "assets.db")
	require.False(t, BuildDatabase(src, dst))

	err := NewBuilder(DefaultOptions()).Build(src, dst)
	requireStage(t, err, StageBuffersPacked)
	require.ErrorIs(t, err, blob.ErrEmptyResource)

	// Partial output is left in place.
	buffers, err := openBuilt(t, dst).ListBuffers()
	require.NoError(t, err)
	require.Equal(t, []catmodel.Buffer{{ID: 1, ByteSize: 16, ByteOffset: 0, PackedDataID: 2}}, buffers)
	require.Equal(t, int64(16), fileSize(t, filepath.Join(out, "Buffers.bin")))
}

func TestBuildMaterialResolvesTextureRowID(t *testing.T) {
	s := tutil.NewScene(t)
	s.AddImage("a.png", 4, 4)
	s.AddImage("b.png", 4, 4)
	s.AddImage("c.png", 4, 4)
	s.AddMaterial(2)
	src := s.Write("scene.gltf")

	dst := filepath.Join(t.TempDir(), "assets.db")
	require.NoError(t, NewBuilder(DefaultOptions()).Build(src, dst))

	materials, err := openBuilt(t, dst).ListMaterials()
	require.NoError(t, err)
	require.Equal(t, []catmodel.Material{{ID: 1, DiffuseTextureID: 3}}, materials)
}

func TestBuildStages(t *testing.T) {
	s := tutil.NewScene(t)
	s.AddImage("a.png", 4, 4)
	s.AddImage("b.png", 4, 4)
	s.AddBuffer("tri.bin", make([]byte, 48))
	s.AddMaterial(5)
	src := s.Write("scene.gltf")

	var tests = []struct {
		name     string
		src      string
		stor     *stor.InMemoryInsertStor
		expected Stage
	}{
		{name: "missing scene", src: filepath.Join(s.Dir, "missing.gltf"), stor: stor.NewInMemoryInsertStor(), expected: StageSchemaReady},
		{name: "prepare fails", src: src, stor: &stor.InMemoryInsertStor{FailPrepare: true}, expected: StageStatementsReady},
		{name: "texture insert fails", src: src, stor: stor.NewInMemoryInsertStor().FailOn(stor.EntityTexture, 2), expected: StageTexturesPacked},
		{name: "buffer insert fails", src: src, stor: stor.NewInMemoryInsertStor().FailOn(stor.EntityBuffer, 1), expected: StageBuffersPacked},
		{name: "bad material", src: src, stor: stor.NewInMemoryInsertStor(), expected: StageMetadataLinked},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuilder(DefaultOptions()).WithInsertStor(test.stor)
			err := b.Build(test.src, filepath.Join(t.TempDir(), "assets.db"))
			requireStage(t, err, test.expected)
			require.Equal(t, StageFailed, b.Stage())

			if test.expected != StageSchemaReady {
				require.True(t, test.stor.Released)
			}
		})
	}
}

func TestBuildTextureRowIDDrift(t *testing.T) {
	s := tutil.NewScene(t)
	s.AddImage("a.png", 4, 4)
	src := s.Write("scene.gltf")

	m := stor.NewInMemoryInsertStor()
	m.Textures = []catmodel.Texture{{ID: 1}}

	err := NewBuilder(DefaultOptions()).WithInsertStor(m).Build(src, filepath.Join(t.TempDir(), "assets.db"))
	requireStage(t, err, StageTexturesPacked)
	require.ErrorIs(t, err, catalog.ErrRowIDDrift)
}

func TestBuildRejectsUnsupportedURIs(t *testing.T) {
	s := tutil.NewScene(t)
	s.Doc.Images = append(s.Doc.Images, scene.Image{URI: "data:image/png;base64,AAAA"})
	src := s.Write("scene.gltf")

	err := NewBuilder(DefaultOptions()).Build(src, filepath.Join(t.TempDir(), "assets.db"))
	requireStage(t, err, StageTexturesPacked)
	require.ErrorIs(t, err, scene.ErrUnsupportedURI)
}

func TestBuilderRunsOnce(t *testing.T) {
	s := tutil.NewScene(t)
	src := s.Write("scene.gltf")
	dst := filepath.Join(t.TempDir(), "assets.db")

	b := NewBuilder(DefaultOptions())
	require.NoError(t, b.Build(src, dst))
	require.ErrorIs(t, b.Build(src, dst), ErrBuilderUsed)
	require.Equal(t, StageDone, b.Stage())
}

func TestBuildReplacesExistingCatalog(t *testing.T) {
	s := tutil.NewScene(t)
	s.AddImage("a.png", 4, 4)
	src := s.Write("scene.gltf")
	dst := filepath.Join(t.TempDir(), "assets.db")

	require.True(t, BuildDatabase(src, dst))
	require.True(t, BuildDatabase(src, dst))

	textures, err := openBuilt(t, dst).ListTextures()
	require.NoError(t, err)
	require.Len(t, textures, 1)
	require.Equal(t, int64(1), textures[0].ID)
}

func TestBuildWritesBuildLog(t *testing.T) {
	s := tutil.NewScene(t)
	s.AddImage("a.png", 4, 4)
	src := s.Write("scene.gltf")
	dir := t.TempDir()

	opts := DefaultOptions()
	opts.LogFile = filepath.Join(dir, "build.log")
	opts.LogLevel = "debug"
	b := NewBuilder(opts)
	require.NoError(t, b.Build(src, filepath.Join(dir, "assets.db")))

	contents, err := os.ReadFile(opts.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(contents), b.LogContext())
	require.Contains(t, string(contents), "Packed resource")
}

func TestOptionsFromConfig(t *testing.T) {
	c := config.NewMapConfig(map[string]string{
		config.KeyTextureQuality: "0.25",
		config.KeyTextureThreads: "3",
		config.KeyPackAllMips:    "true",
		config.KeyLogLevel:       "warn",
	})

	opts := OptionsFromConfig(c)
	require.Equal(t, 0.25, opts.Texture.Quality)
	require.Equal(t, 3, opts.Texture.Threads)
	require.Equal(t, 4, opts.Texture.MinMipSize)
	require.True(t, opts.Texture.AllMips)
	require.Equal(t, "warn", opts.LogLevel)
	require.Equal(t, "", opts.LogFile)
}

func TestStageString(t *testing.T) {
	require.Equal(t, "TexturesPacked", StageTexturesPacked.String())
	require.Equal(t, "Stage(42)", Stage(42).String())
}
