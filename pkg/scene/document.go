// Package scene holds the subset of the glTF 2.0 document the asset packer
// reads: images, textures, materials, buffers, buffer views, accessors and
// meshes. Everything else in the document is ignored.
package scene

// Document is the root of a glTF JSON document.
type Document struct {
	Asset       Asset        `json:"asset"`
	Images      []Image      `json:"images,omitempty"`
	Textures    []Texture    `json:"textures,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
}

type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// Image references pixel data, either by URI or through a buffer view (the
// latter only appears in binary .glb containers).
type Image struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`
}

// Texture pairs an image with a sampler. Materials point at textures, not
// at images directly.
type Texture struct {
	Source  *int `json:"source,omitempty"`
	Sampler *int `json:"sampler,omitempty"`
}

type TextureInfo struct {
	Index    int `json:"index"`
	TexCoord int `json:"texCoord,omitempty"`
}

type PBRMetallicRoughness struct {
	BaseColorFactor  []float64    `json:"baseColorFactor,omitempty"`
	BaseColorTexture *TextureInfo `json:"baseColorTexture,omitempty"`
}

type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
}

// BaseColorTexture returns the material's base color texture index, if it
// declares one.
func (m Material) BaseColorTexture() (int, bool) {
	if m.PBRMetallicRoughness == nil || m.PBRMetallicRoughness.BaseColorTexture == nil {
		return 0, false
	}

	return m.PBRMetallicRoughness.BaseColorTexture.Index, true
}

type Buffer struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	ByteLength int64  `json:"byteLength"`
}

// Buffer view targets as defined by glTF (WebGL buffer binding points).
const (
	TargetArrayBuffer        = 34962
	TargetElementArrayBuffer = 34963
)

type BufferView struct {
	Name       string `json:"name,omitempty"`
	Buffer     int    `json:"buffer"`
	ByteOffset int64  `json:"byteOffset,omitempty"`
	ByteLength int64  `json:"byteLength"`
	ByteStride int    `json:"byteStride,omitempty"`
	Target     int    `json:"target,omitempty"`
}

type Accessor struct {
	BufferView    *int   `json:"bufferView,omitempty"`
	ByteOffset    int64  `json:"byteOffset,omitempty"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
}

type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// ImageForTexture resolves a texture index, as used by materials, to the
// index of the image it samples. Documents without a textures array are
// treated as indexing images directly.
func (d *Document) ImageForTexture(textureIndex int) (int, bool) {
	if len(d.Textures) == 0 {
		return textureIndex, textureIndex >= 0 && textureIndex < len(d.Images)
	}

	if textureIndex < 0 || textureIndex >= len(d.Textures) {
		return 0, false
	}

	source := d.Textures[textureIndex].Source
	if source == nil || *source < 0 || *source >= len(d.Images) {
		return 0, false
	}

	return *source, true
}

// AccessorWithoutBufferView reports whether accessorIndex names an accessor
// that has no buffer view. Such accessors read as zeros, optionally patched
// by sparse data.
func (d *Document) AccessorWithoutBufferView(accessorIndex int) bool {
	if accessorIndex < 0 || accessorIndex >= len(d.Accessors) {
		return false
	}

	return d.Accessors[accessorIndex].BufferView == nil
}

// AccessorBufferView returns the buffer view behind an accessor.
func (d *Document) AccessorBufferView(accessorIndex int) (int, bool) {
	if accessorIndex < 0 || accessorIndex >= len(d.Accessors) {
		return 0, false
	}

	bv := d.Accessors[accessorIndex].BufferView
	if bv == nil || *bv < 0 || *bv >= len(d.BufferViews) {
		return 0, false
	}

	return *bv, true
}
