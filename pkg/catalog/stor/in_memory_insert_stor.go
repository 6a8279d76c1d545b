package stor

import (
	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/pkg/errors"
)

var ErrInjected = errors.New("injected insert failure")

// InMemoryInsertStor records inserted rows in memory and hands out row ids
// the way sqlite does, starting at 1 per entity. Failures can be injected on
// the n-th call for an entity.
type InMemoryInsertStor struct {
	PackedData           []catmodel.PackedData
	Textures             []catmodel.Texture
	Buffers              []catmodel.Buffer
	BufferViews          []catmodel.BufferView
	Materials            []catmodel.Material
	Meshes               []catmodel.Mesh
	SubMeshes            []catmodel.SubMesh
	MeshSubMeshes        []catmodel.MeshSubMesh
	SubMeshVertexStreams []catmodel.SubMeshVertexStream

	FailPrepare bool
	Prepared    bool
	Released    bool

	failOn map[Entity]int
	calls  map[Entity]int
}

func NewInMemoryInsertStor() *InMemoryInsertStor {
	return &InMemoryInsertStor{
		failOn: make(map[Entity]int),
		calls:  make(map[Entity]int),
	}
}

// FailOn makes the call'th insert (1-based) of entity fail.
func (s *InMemoryInsertStor) FailOn(entity Entity, call int) *InMemoryInsertStor {
	s.failOn[entity] = call
	return s
}

func (s *InMemoryInsertStor) Prepare() error {
	if s.FailPrepare {
		return errors.Wrap(ErrInjected, "preparing inserts")
	}

	s.Prepared = true
	return nil
}

func (s *InMemoryInsertStor) Release() error {
	s.Prepared = false
	s.Released = true
	return nil
}

func (s *InMemoryInsertStor) Calls(entity Entity) int {
	return s.calls[entity]
}

func (s *InMemoryInsertStor) InsertPackedData(filePath string, dataType catmodel.DataType) (int64, error) {
	if err := s.track(EntityPackedData); err != nil {
		return NoID, err
	}

	row := catmodel.PackedData{ID: int64(len(s.PackedData) + 1), FilePath: filePath, DataType: dataType}
	s.PackedData = append(s.PackedData, row)
	return row.ID, nil
}

func (s *InMemoryInsertStor) InsertTexture(byteSize, byteOffset int64, format catmodel.TextureFormat, packedDataID int64) (int64, error) {
	if err := s.track(EntityTexture); err != nil {
		return NoID, err
	}

	row := catmodel.Texture{
		ID:           int64(len(s.Textures) + 1),
		ByteSize:     byteSize,
		ByteOffset:   byteOffset,
		Format:       format,
		PackedDataID: packedDataID,
	}
	s.Textures = append(s.Textures, row)
	return row.ID, nil
}

func (s *InMemoryInsertStor) InsertBuffer(byteSize, byteOffset, packedDataID int64) (int64, error) {
	if err := s.track(EntityBuffer); err != nil {
		return NoID, err
	}

	row := catmodel.Buffer{
		ID:           int64(len(s.Buffers) + 1),
		ByteSize:     byteSize,
		ByteOffset:   byteOffset,
		PackedDataID: packedDataID,
	}
	s.Buffers = append(s.Buffers, row)
	return row.ID, nil
}

func (s *InMemoryInsertStor) InsertBufferView(byteSize, byteOffset int64, attribute catmodel.VertexAttribute, bufferID int64) (int64, error) {
	if err := s.track(EntityBufferView); err != nil {
		return NoID, err
	}

	row := catmodel.BufferView{
		ID:         int64(len(s.BufferViews) + 1),
		ByteSize:   byteSize,
		ByteOffset: byteOffset,
		Attribute:  attribute,
		BufferID:   bufferID,
	}
	s.BufferViews = append(s.BufferViews, row)
	return row.ID, nil
}

func (s *InMemoryInsertStor) InsertMaterial(diffuseTextureID int64) (int64, error) {
	if err := s.track(EntityMaterial); err != nil {
		return NoID, err
	}

	row := catmodel.Material{ID: int64(len(s.Materials) + 1), DiffuseTextureID: diffuseTextureID}
	s.Materials = append(s.Materials, row)
	return row.ID, nil
}

func (s *InMemoryInsertStor) InsertMesh(name string) (int64, error) {
	if err := s.track(EntityMesh); err != nil {
		return NoID, err
	}

	row := catmodel.Mesh{ID: int64(len(s.Meshes) + 1), Name: name}
	s.Meshes = append(s.Meshes, row)
	return row.ID, nil
}

func (s *InMemoryInsertStor) InsertSubMesh(indexBufferID int64, materialID *int64) (int64, error) {
	if err := s.track(EntitySubMesh); err != nil {
		return NoID, err
	}

	row := catmodel.SubMesh{ID: int64(len(s.SubMeshes) + 1), IndexBufferID: indexBufferID}
	if materialID != nil {
		id := *materialID
		row.MaterialID = &id
	}
	s.SubMeshes = append(s.SubMeshes, row)
	return row.ID, nil
}

func (s *InMemoryInsertStor) InsertMeshSubMesh(meshID, subMeshID int64) error {
	if err := s.track(EntityMeshSubMesh); err != nil {
		return err
	}

	s.MeshSubMeshes = append(s.MeshSubMeshes, catmodel.MeshSubMesh{MeshID: meshID, SubMeshID: subMeshID})
	return nil
}

func (s *InMemoryInsertStor) InsertSubMeshVertexStream(subMeshID, bufferViewID int64) error {
	if err := s.track(EntitySubMeshVertexStream); err != nil {
		return err
	}

	for _, existing := range s.SubMeshVertexStreams {
		if existing.SubMeshID == subMeshID && existing.BufferViewID == bufferViewID {
			return errors.Errorf("duplicate %s row (%d, %d)", EntitySubMeshVertexStream, subMeshID, bufferViewID)
		}
	}

	s.SubMeshVertexStreams = append(s.SubMeshVertexStreams,
		catmodel.SubMeshVertexStream{SubMeshID: subMeshID, BufferViewID: bufferViewID})
	return nil
}

func (s *InMemoryInsertStor) track(entity Entity) error {
	s.calls[entity]++
	if n, ok := s.failOn[entity]; ok && n == s.calls[entity] {
		return errors.Wrapf(ErrInjected, "inserting %s (call %d)", entity, n)
	}

	return nil
}
