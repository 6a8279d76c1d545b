package stor

import (
	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"gorm.io/gorm"
)

type GormCatalogStor struct {
	db *gorm.DB
}

func NewGormCatalogStor(db *gorm.DB) *GormCatalogStor {
	return &GormCatalogStor{db: db}
}

func (s *GormCatalogStor) ListPackedData() ([]catmodel.PackedData, error) {
	var packedData []catmodel.PackedData
	if err := s.db.Order("ID").Find(&packedData).Error; err != nil {
		return nil, err
	}

	return packedData, nil
}

func (s *GormCatalogStor) ListTextures() ([]catmodel.Texture, error) {
	var textures []catmodel.Texture
	if err := s.db.Order("ID").Find(&textures).Error; err != nil {
		return nil, err
	}

	return textures, nil
}

func (s *GormCatalogStor) ListTexturesForPackedData(packedDataID int64) ([]catmodel.Texture, error) {
	var textures []catmodel.Texture
	err := s.db.Where("PackedDataID = ?", packedDataID).
		Order("ID").
		Find(&textures).Error
	if err != nil {
		return nil, err
	}

	return textures, nil
}

func (s *GormCatalogStor) ListBuffers() ([]catmodel.Buffer, error) {
	var buffers []catmodel.Buffer
	if err := s.db.Order("ID").Find(&buffers).Error; err != nil {
		return nil, err
	}

	return buffers, nil
}

func (s *GormCatalogStor) ListBuffersForPackedData(packedDataID int64) ([]catmodel.Buffer, error) {
	var buffers []catmodel.Buffer
	err := s.db.Where("PackedDataID = ?", packedDataID).
		Order("ID").
		Find(&buffers).Error
	if err != nil {
		return nil, err
	}

	return buffers, nil
}

func (s *GormCatalogStor) ListBufferViews() ([]catmodel.BufferView, error) {
	var bufferViews []catmodel.BufferView
	if err := s.db.Order("ID").Find(&bufferViews).Error; err != nil {
		return nil, err
	}

	return bufferViews, nil
}

func (s *GormCatalogStor) ListMaterials() ([]catmodel.Material, error) {
	var materials []catmodel.Material
	if err := s.db.Order("ID").Find(&materials).Error; err != nil {
		return nil, err
	}

	return materials, nil
}

func (s *GormCatalogStor) ListMeshes() ([]catmodel.Mesh, error) {
	var meshes []catmodel.Mesh
	if err := s.db.Order("ID").Find(&meshes).Error; err != nil {
		return nil, err
	}

	return meshes, nil
}

func (s *GormCatalogStor) ListSubMeshes() ([]catmodel.SubMesh, error) {
	var subMeshes []catmodel.SubMesh
	if err := s.db.Order("ID").Find(&subMeshes).Error; err != nil {
		return nil, err
	}

	return subMeshes, nil
}

func (s *GormCatalogStor) ListMeshSubMeshes() ([]catmodel.MeshSubMesh, error) {
	var joins []catmodel.MeshSubMesh
	if err := s.db.Order("MeshID").Order("SubMeshID").Find(&joins).Error; err != nil {
		return nil, err
	}

	return joins, nil
}

func (s *GormCatalogStor) ListSubMeshVertexStreams() ([]catmodel.SubMeshVertexStream, error) {
	var streams []catmodel.SubMeshVertexStream
	if err := s.db.Order("SubMeshID").Order("BufferViewID").Find(&streams).Error; err != nil {
		return nil, err
	}

	return streams, nil
}
