// Package tutil writes scene fixtures for tests.
package tutil

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/materials-commons/assetpack/pkg/scene"
	"github.com/stretchr/testify/require"
)

// Scene builds a glTF document and the files it references in a temporary
// directory.
type Scene struct {
	Dir string
	Doc scene.Document
	t   testing.TB
}

func NewScene(t testing.TB) *Scene {
	return &Scene{
		Dir: t.TempDir(),
		Doc: scene.Document{Asset: scene.Asset{Version: "2.0", Generator: "assetpack tests"}},
		t:   t,
	}
}

// AddImage writes a width x height PNG named name and adds it to the
// document's images.
func (s *Scene) AddImage(name string, width, height int) int {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 64, A: 255})
		}
	}

	path := filepath.Join(s.Dir, filepath.FromSlash(name))
	require.NoError(s.t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(s.t, err)
	require.NoError(s.t, png.Encode(f, img))
	require.NoError(s.t, f.Close())

	s.Doc.Images = append(s.Doc.Images, scene.Image{URI: name})
	return len(s.Doc.Images) - 1
}

// AddBuffer writes data to a file named name and adds it to the document's
// buffers. The declared length is len(data) even when data is empty.
func (s *Scene) AddBuffer(name string, data []byte) int {
	require.NoError(s.t, os.WriteFile(filepath.Join(s.Dir, filepath.FromSlash(name)), data, 0644))
	s.Doc.Buffers = append(s.Doc.Buffers, scene.Buffer{URI: name, ByteLength: int64(len(data))})
	return len(s.Doc.Buffers) - 1
}

// AddMaterial adds a material whose base color samples textureIndex.
func (s *Scene) AddMaterial(textureIndex int) int {
	s.Doc.Materials = append(s.Doc.Materials, scene.Material{
		PBRMetallicRoughness: &scene.PBRMetallicRoughness{
			BaseColorTexture: &scene.TextureInfo{Index: textureIndex},
		},
	})
	return len(s.Doc.Materials) - 1
}

// AddTriangleMesh adds a mesh with one indexed triangle read from buffer:
// three uint32 indices in the first 12 bytes and three float positions in
// the next 36.
func (s *Scene) AddTriangleMesh(name string, buffer int, material *int) int {
	require.GreaterOrEqual(s.t, s.Doc.Buffers[buffer].ByteLength, int64(48), "triangle buffer too small")

	indexView := s.addView(scene.BufferView{Buffer: buffer, ByteOffset: 0, ByteLength: 12, Target: scene.TargetElementArrayBuffer})
	positionView := s.addView(scene.BufferView{Buffer: buffer, ByteOffset: 12, ByteLength: 36, Target: scene.TargetArrayBuffer})

	indices := s.addAccessor(scene.Accessor{BufferView: &indexView, ComponentType: 5125, Count: 3, Type: "SCALAR"})
	positions := s.addAccessor(scene.Accessor{BufferView: &positionView, ComponentType: 5126, Count: 3, Type: "VEC3"})

	s.Doc.Meshes = append(s.Doc.Meshes, scene.Mesh{
		Name: name,
		Primitives: []scene.Primitive{{
			Attributes: map[string]int{"POSITION": positions},
			Indices:    &indices,
			Material:   material,
		}},
	})
	return len(s.Doc.Meshes) - 1
}

// Write saves the document as name in the scene directory and returns its
// path.
func (s *Scene) Write(name string) string {
	data, err := json.MarshalIndent(s.Doc, "", "  ")
	require.NoError(s.t, err)

	path := filepath.Join(s.Dir, name)
	require.NoError(s.t, os.WriteFile(path, data, 0644))
	return path
}

func (s *Scene) addView(view scene.BufferView) int {
	s.Doc.BufferViews = append(s.Doc.BufferViews, view)
	return len(s.Doc.BufferViews) - 1
}

func (s *Scene) addAccessor(accessor scene.Accessor) int {
	s.Doc.Accessors = append(s.Doc.Accessors, accessor)
	return len(s.Doc.Accessors) - 1
}
