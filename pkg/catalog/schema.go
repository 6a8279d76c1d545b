package catalog

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type tableDefinition struct {
	name string
	ddl  string
}

// Tables are listed so that every table comes after the tables its foreign
// keys point at.
var tableDefinitions = []tableDefinition{
	{
		name: "Mesh",
		ddl: `CREATE TABLE IF NOT EXISTS Mesh
		(
			ID INTEGER PRIMARY KEY,
			Name varchar(255)
		);`,
	},
	{
		name: "PackedData",
		ddl: `CREATE TABLE IF NOT EXISTS PackedData
		(
			ID INTEGER PRIMARY KEY,
			FilePath varchar(255) NOT NULL,
			DataType INTEGER NOT NULL
		);`,
	},
	{
		name: "Texture",
		ddl: `CREATE TABLE IF NOT EXISTS Texture
		(
			ID INTEGER PRIMARY KEY,
			ByteSize INTEGER NOT NULL,
			ByteOffset INTEGER NOT NULL,
			Format INTEGER NOT NULL,
			PackedDataID INTEGER NOT NULL,
			FOREIGN KEY(PackedDataID) REFERENCES PackedData(ID)
		);`,
	},
	{
		name: "Buffer",
		ddl: `CREATE TABLE IF NOT EXISTS Buffer
		(
			ID INTEGER PRIMARY KEY,
			ByteSize INTEGER NOT NULL,
			ByteOffset INTEGER NOT NULL,
			PackedDataID INTEGER NOT NULL,
			FOREIGN KEY(PackedDataID) REFERENCES PackedData(ID)
		);`,
	},
	{
		name: "BufferView",
		ddl: `CREATE TABLE IF NOT EXISTS BufferView
		(
			ID INTEGER PRIMARY KEY,
			ByteSize INTEGER NOT NULL,
			ByteOffset INTEGER NOT NULL,
			Attribute INTEGER NOT NULL,
			BufferID INTEGER NOT NULL,
			FOREIGN KEY(BufferID) REFERENCES Buffer(ID)
		);`,
	},
	{
		name: "Material",
		ddl: `CREATE TABLE IF NOT EXISTS Material
		(
			ID INTEGER PRIMARY KEY,
			DiffuseTextureID INTEGER NOT NULL,
			FOREIGN KEY(DiffuseTextureID) REFERENCES Texture(ID)
		);`,
	},
	{
		name: "SubMesh",
		ddl: `CREATE TABLE IF NOT EXISTS SubMesh
		(
			ID INTEGER PRIMARY KEY,
			IndexBufferID INTEGER NOT NULL,
			MaterialID INTEGER,
			FOREIGN KEY(IndexBufferID) REFERENCES BufferView(ID),
			FOREIGN KEY(MaterialID) REFERENCES Material(ID)
		);`,
	},
	{
		name: "MeshSubMesh",
		ddl: `CREATE TABLE IF NOT EXISTS MeshSubMesh
		(
			MeshID INTEGER NOT NULL,
			SubMeshID INTEGER NOT NULL,
			PRIMARY KEY(MeshID, SubMeshID),
			FOREIGN KEY(MeshID) REFERENCES Mesh(ID),
			FOREIGN KEY(SubMeshID) REFERENCES SubMesh(ID)
		);`,
	},
	{
		name: "SubMeshVertexStreams",
		ddl: `CREATE TABLE IF NOT EXISTS SubMeshVertexStreams
		(
			SubMeshID INTEGER NOT NULL,
			BufferViewID INTEGER NOT NULL,
			PRIMARY KEY(SubMeshID, BufferViewID),
			FOREIGN KEY(SubMeshID) REFERENCES SubMesh(ID),
			FOREIGN KEY(BufferViewID) REFERENCES BufferView(ID)
		);`,
	},
}

// EnsureSchema creates any catalog table that doesn't exist yet. It stops at
// the first table that can't be created. Tables created before that point
// are left in place; running EnsureSchema again picks up where it stopped.
func EnsureSchema(db *gorm.DB) error {
	for _, table := range tableDefinitions {
		if err := db.Exec(table.ddl).Error; err != nil {
			return errors.Wrapf(err, "creating table %s", table.name)
		}
	}

	return nil
}

// TableNames lists the catalog tables in creation order.
func TableNames() []string {
	names := make([]string, 0, len(tableDefinitions))
	for _, table := range tableDefinitions {
		names = append(names, table.name)
	}

	return names
}
