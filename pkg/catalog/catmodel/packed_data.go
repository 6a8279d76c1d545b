package catmodel

// DataType tags the resource category a PackedData blob holds.
type DataType int

const (
	DataTypeTextures DataType = 0
	DataTypeMeshes   DataType = 1
)

func (t DataType) String() string {
	switch t {
	case DataTypeTextures:
		return "textures"
	case DataTypeMeshes:
		return "meshes"
	default:
		return "unknown"
	}
}

// PackedData identifies one blob file. FilePath is relative to the directory
// holding the catalog.
type PackedData struct {
	ID       int64    `json:"id" gorm:"column:ID;primaryKey"`
	FilePath string   `json:"file_path" gorm:"column:FilePath"`
	DataType DataType `json:"data_type" gorm:"column:DataType"`
}

func (PackedData) TableName() string {
	return "PackedData"
}
