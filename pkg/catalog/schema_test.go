package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCatalog(t *testing.T) *gorm.DB {
	db, err := Create(filepath.Join(t.TempDir(), "catalog", "assets.db"))
	require.NoErrorf(t, err, "Create failed: %s", err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func countTables(t *testing.T, db *gorm.DB) int64 {
	var count int64
	err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table'").Scan(&count).Error
	require.NoError(t, err)
	return count
}

func TestEnsureSchemaCreatesEveryTable(t *testing.T) {
	db := newTestCatalog(t)

	require.NoError(t, EnsureSchema(db))

	for _, name := range TableNames() {
		require.Truef(t, db.Migrator().HasTable(name), "table %s missing", name)
	}
	require.Equal(t, int64(len(TableNames())), countTables(t, db))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := newTestCatalog(t)

	require.NoError(t, EnsureSchema(db))
	require.NoError(t, EnsureSchema(db))

	require.Equal(t, int64(9), countTables(t, db))
}

func TestEnsureSchemaFailsFastAndKeepsEarlierTables(t *testing.T) {
	db := newTestCatalog(t)

	// An index named Texture makes CREATE TABLE IF NOT EXISTS Texture fail.
	// IF NOT EXISTS only skips over tables and views.
	require.NoError(t, db.Exec("CREATE TABLE Scratch (Name TEXT)").Error)
	require.NoError(t, db.Exec("CREATE INDEX Texture ON Scratch(Name)").Error)

	err := EnsureSchema(db)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Texture")

	require.True(t, db.Migrator().HasTable("Mesh"))
	require.True(t, db.Migrator().HasTable("PackedData"))
	require.False(t, db.Migrator().HasTable("Buffer"))

	// Nothing changes on a second attempt while the conflict remains.
	require.Error(t, EnsureSchema(db))
}

func TestCreateStartsFromAnEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.db")

	db, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(db))
	require.NoError(t, db.Exec("INSERT INTO PackedData(FilePath, DataType) VALUES ('Textures.bin', 0)").Error)
	require.NoError(t, Close(db))

	db, err = Create(path)
	require.NoError(t, err)
	defer func() { _ = Close(db) }()
	require.Equal(t, int64(0), countTables(t, db))
}

func TestOpenEnforcesForeignKeys(t *testing.T) {
	db := newTestCatalog(t)
	require.NoError(t, EnsureSchema(db))

	err := db.Exec("INSERT INTO Texture(ByteSize, ByteOffset, Format, PackedDataID) VALUES (1, 0, 3, 42)").Error
	require.Error(t, err)
}

func TestRowIDForIndex(t *testing.T) {
	for k := 0; k < 100; k++ {
		require.Equal(t, int64(k+1), RowIDForIndex(k))
		require.NoError(t, CheckRowID(k, int64(k+1)))
	}

	err := CheckRowID(2, 4)
	require.ErrorIs(t, err, ErrRowIDDrift)
}
