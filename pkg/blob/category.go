package blob

import "github.com/materials-commons/assetpack/pkg/catalog/catmodel"

// Category describes one kind of packed resource and the blob file it is
// appended to.
type Category struct {
	Name     string
	FileName string
	DataType catmodel.DataType
}

var (
	Textures = Category{Name: "texture", FileName: "Textures.bin", DataType: catmodel.DataTypeTextures}
	Buffers  = Category{Name: "geometry", FileName: "Buffers.bin", DataType: catmodel.DataTypeMeshes}
)

func (c Category) String() string {
	return c.Name
}
