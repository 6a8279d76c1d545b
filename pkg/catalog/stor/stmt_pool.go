package stor

import (
	"database/sql"

	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrNotPrepared = errors.New("insert statement not prepared")

type insertQuery struct {
	entity Entity
	query  string
}

// Parameters bind positionally. The order documented on each Insert method
// must match the ?N placeholders here.
var insertQueries = []insertQuery{
	{EntityPackedData, "INSERT INTO PackedData(FilePath, DataType) VALUES (?1, ?2);"},
	{EntityTexture, "INSERT INTO Texture(ByteSize, ByteOffset, Format, PackedDataID) VALUES (?1, ?2, ?3, ?4);"},
	{EntityBuffer, "INSERT INTO Buffer(ByteSize, ByteOffset, PackedDataID) VALUES (?1, ?2, ?3);"},
	{EntityBufferView, "INSERT INTO BufferView(ByteSize, ByteOffset, Attribute, BufferID) VALUES (?1, ?2, ?3, ?4);"},
	{EntityMaterial, "INSERT INTO Material(DiffuseTextureID) VALUES (?1);"},
	{EntityMesh, "INSERT INTO Mesh(Name) VALUES (?1);"},
	{EntitySubMesh, "INSERT INTO SubMesh(IndexBufferID, MaterialID) VALUES (?1, ?2);"},
	{EntityMeshSubMesh, "INSERT INTO MeshSubMesh(MeshID, SubMeshID) VALUES (?1, ?2);"},
	{EntitySubMeshVertexStream, "INSERT INTO SubMeshVertexStreams(SubMeshID, BufferViewID) VALUES (?1, ?2);"},
}

// StmtPool holds one prepared insert per catalog entity. A pool is
// single-threaded and belongs to one build.
type StmtPool struct {
	db    *gorm.DB
	stmts map[Entity]*sql.Stmt
}

func NewStmtPool(db *gorm.DB) *StmtPool {
	return &StmtPool{db: db, stmts: make(map[Entity]*sql.Stmt)}
}

// Prepare compiles every insert statement. If any statement fails to compile
// the ones already compiled are released and the pool is left empty.
func (p *StmtPool) Prepare() error {
	if err := p.Release(); err != nil {
		return err
	}

	sqlDB, err := p.db.DB()
	if err != nil {
		return errors.Wrap(err, "catalog has no sql handle")
	}

	for _, q := range insertQueries {
		stmt, err := sqlDB.Prepare(q.query)
		if err != nil {
			_ = p.Release()
			return errors.Wrapf(err, "preparing %s insert", q.entity)
		}
		p.stmts[q.entity] = stmt
	}

	return nil
}

// Release closes whatever statements were prepared. It is safe to call more
// than once and after a failed Prepare.
func (p *StmtPool) Release() error {
	var firstErr error
	for entity, stmt := range p.stmts {
		if stmt != nil {
			if err := stmt.Close(); err != nil && firstErr == nil {
				firstErr = errors.Wrapf(err, "closing %s insert", entity)
			}
		}
		delete(p.stmts, entity)
	}

	return firstErr
}

// Prepared reports whether every insert statement is ready.
func (p *StmtPool) Prepared() bool {
	return len(p.stmts) == len(insertQueries)
}

// InsertPackedData binds (FilePath, DataType).
func (p *StmtPool) InsertPackedData(filePath string, dataType catmodel.DataType) (int64, error) {
	return p.insert(EntityPackedData, filePath, int(dataType))
}

// InsertTexture binds (ByteSize, ByteOffset, Format, PackedDataID).
func (p *StmtPool) InsertTexture(byteSize, byteOffset int64, format catmodel.TextureFormat, packedDataID int64) (int64, error) {
	return p.insert(EntityTexture, byteSize, byteOffset, int(format), packedDataID)
}

// InsertBuffer binds (ByteSize, ByteOffset, PackedDataID).
func (p *StmtPool) InsertBuffer(byteSize, byteOffset, packedDataID int64) (int64, error) {
	return p.insert(EntityBuffer, byteSize, byteOffset, packedDataID)
}

// InsertBufferView binds (ByteSize, ByteOffset, Attribute, BufferID).
func (p *StmtPool) InsertBufferView(byteSize, byteOffset int64, attribute catmodel.VertexAttribute, bufferID int64) (int64, error) {
	return p.insert(EntityBufferView, byteSize, byteOffset, int(attribute), bufferID)
}

// InsertMaterial binds (DiffuseTextureID).
func (p *StmtPool) InsertMaterial(diffuseTextureID int64) (int64, error) {
	return p.insert(EntityMaterial, diffuseTextureID)
}

// InsertMesh binds (Name).
func (p *StmtPool) InsertMesh(name string) (int64, error) {
	return p.insert(EntityMesh, name)
}

// InsertSubMesh binds (IndexBufferID, MaterialID). A nil materialID is
// stored as NULL.
func (p *StmtPool) InsertSubMesh(indexBufferID int64, materialID *int64) (int64, error) {
	var material sql.NullInt64
	if materialID != nil {
		material = sql.NullInt64{Int64: *materialID, Valid: true}
	}

	return p.insert(EntitySubMesh, indexBufferID, material)
}

// InsertMeshSubMesh binds (MeshID, SubMeshID).
func (p *StmtPool) InsertMeshSubMesh(meshID, subMeshID int64) error {
	_, err := p.insert(EntityMeshSubMesh, meshID, subMeshID)
	return err
}

// InsertSubMeshVertexStream binds (SubMeshID, BufferViewID).
func (p *StmtPool) InsertSubMeshVertexStream(subMeshID, bufferViewID int64) error {
	_, err := p.insert(EntitySubMeshVertexStream, subMeshID, bufferViewID)
	return err
}

func (p *StmtPool) insert(entity Entity, args ...interface{}) (int64, error) {
	stmt := p.stmts[entity]
	if stmt == nil {
		return NoID, errors.Wrapf(ErrNotPrepared, "inserting %s", entity)
	}

	result, err := stmt.Exec(args...)
	if err != nil {
		return NoID, errors.Wrapf(err, "inserting %s", entity)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return NoID, errors.Wrapf(err, "reading %s row id", entity)
	}

	return id, nil
}
