package catmodel

type Mesh struct {
	ID   int64  `json:"id" gorm:"column:ID;primaryKey"`
	Name string `json:"name" gorm:"column:Name"`
}

func (Mesh) TableName() string {
	return "Mesh"
}

type SubMesh struct {
	ID            int64  `json:"id" gorm:"column:ID;primaryKey"`
	IndexBufferID int64  `json:"index_buffer_id" gorm:"column:IndexBufferID"`
	MaterialID    *int64 `json:"material_id" gorm:"column:MaterialID"`
}

func (SubMesh) TableName() string {
	return "SubMesh"
}

type MeshSubMesh struct {
	MeshID    int64 `json:"mesh_id" gorm:"column:MeshID;primaryKey"`
	SubMeshID int64 `json:"sub_mesh_id" gorm:"column:SubMeshID;primaryKey"`
}

func (MeshSubMesh) TableName() string {
	return "MeshSubMesh"
}

type SubMeshVertexStream struct {
	SubMeshID    int64 `json:"sub_mesh_id" gorm:"column:SubMeshID;primaryKey"`
	BufferViewID int64 `json:"buffer_view_id" gorm:"column:BufferViewID;primaryKey"`
}

func (SubMeshVertexStream) TableName() string {
	return "SubMeshVertexStreams"
}
