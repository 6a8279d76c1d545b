package stor

import (
	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"gorm.io/gorm"
)

// NoID is returned in place of a row id when an insert fails.
const NoID int64 = -1

type PackedDataInserter interface {
	InsertPackedData(filePath string, dataType catmodel.DataType) (int64, error)
}

type TextureInserter interface {
	InsertTexture(byteSize, byteOffset int64, format catmodel.TextureFormat, packedDataID int64) (int64, error)
}

type BufferInserter interface {
	InsertBuffer(byteSize, byteOffset, packedDataID int64) (int64, error)
}

type MetadataInserter interface {
	InsertBufferView(byteSize, byteOffset int64, attribute catmodel.VertexAttribute, bufferID int64) (int64, error)
	InsertMaterial(diffuseTextureID int64) (int64, error)
	InsertMesh(name string) (int64, error)
	InsertSubMesh(indexBufferID int64, materialID *int64) (int64, error)
	InsertMeshSubMesh(meshID, subMeshID int64) error
	InsertSubMeshVertexStream(subMeshID, bufferViewID int64) error
}

// InsertStor is the write side of the catalog used during a build.
type InsertStor interface {
	PackedDataInserter
	TextureInserter
	BufferInserter
	MetadataInserter
	Prepare() error
	Release() error
}

// CatalogStor is the read side of a built catalog. Every list is ordered by
// row id (join tables by their key columns).
type CatalogStor interface {
	ListPackedData() ([]catmodel.PackedData, error)
	ListTextures() ([]catmodel.Texture, error)
	ListTexturesForPackedData(packedDataID int64) ([]catmodel.Texture, error)
	ListBuffers() ([]catmodel.Buffer, error)
	ListBuffersForPackedData(packedDataID int64) ([]catmodel.Buffer, error)
	ListBufferViews() ([]catmodel.BufferView, error)
	ListMaterials() ([]catmodel.Material, error)
	ListMeshes() ([]catmodel.Mesh, error)
	ListSubMeshes() ([]catmodel.SubMesh, error)
	ListMeshSubMeshes() ([]catmodel.MeshSubMesh, error)
	ListSubMeshVertexStreams() ([]catmodel.SubMeshVertexStream, error)
}

type Stors struct {
	InsertStor  InsertStor
	CatalogStor CatalogStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		InsertStor:  NewStmtPool(db),
		CatalogStor: NewGormCatalogStor(db),
	}
}
