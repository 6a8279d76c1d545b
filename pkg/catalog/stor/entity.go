package stor

type Entity int

const (
	EntityPackedData Entity = iota
	EntityTexture
	EntityBuffer
	EntityBufferView
	EntityMaterial
	EntityMesh
	EntitySubMesh
	EntityMeshSubMesh
	EntitySubMeshVertexStream
)

var entityNames = [...]string{
	EntityPackedData:          "PackedData",
	EntityTexture:             "Texture",
	EntityBuffer:              "Buffer",
	EntityBufferView:          "BufferView",
	EntityMaterial:            "Material",
	EntityMesh:                "Mesh",
	EntitySubMesh:             "SubMesh",
	EntityMeshSubMesh:         "MeshSubMesh",
	EntitySubMeshVertexStream: "SubMeshVertexStreams",
}

func (e Entity) String() string {
	if e < 0 || int(e) >= len(entityNames) {
		return "unknown"
	}

	return entityNames[e]
}
