package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteInMemoryDSN opens a shared in-memory catalog. Only useful in tests.
const SqliteInMemoryDSN = "file::memory:?cache=shared"

type NullLogger struct{}

func (l *NullLogger) Printf(_ string, _ ...interface{}) {
}

// Open opens the catalog at path with foreign key enforcement turned on. The
// file is created by sqlite if it doesn't exist, but its directory must.
func Open(path string) (*gorm.DB, error) {
	gormLogger := logger.New(&NullLogger{},
		logger.Config{
			SlowThreshold:             time.Second * 5,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		})

	db, err := gorm.Open(sqlite.Open(makeDSN(path)), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s has no sql handle", path)
	}

	// Everything runs over a single connection. Row ids come back through
	// LastInsertId, which sqlite tracks per connection.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Create opens a fresh catalog at path. The parent directory is created if
// needed and any catalog already at path is removed, so row ids always start
// at 1.
func Create(path string) (*gorm.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating catalog directory %s", dir)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "removing stale catalog %s", path)
	}

	return Open(path)
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func makeDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}

	return path + "?_foreign_keys=on"
}
