// Package audit checks a built catalog against the packed data files it
// describes.
package audit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/materials-commons/assetpack/pkg/catalog"
	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/materials-commons/assetpack/pkg/catalog/stor"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// BlobReport summarizes one packed data file.
type BlobReport struct {
	PackedData catmodel.PackedData
	Path       string
	FileSize   int64
	Rows       int
	Bytes      int64
}

type Report struct {
	Blobs    []BlobReport
	Problems []string
}

func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

func (r *Report) problemf(format string, args ...interface{}) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// extent is the part of a Texture or Buffer row the audit looks at.
type extent struct {
	id, size, offset int64
}

// VerifyCatalog opens the catalog at path and verifies it against the
// packed data files next to it.
func VerifyCatalog(path string) (*Report, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "catalog %s", path)
	}

	db, err := catalog.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = catalog.Close(db) }()

	return Verify(db, filepath.Dir(path))
}

// Verify checks every packed data file listed in db, resolving file paths
// against root. For each file the rows that point into it must have a
// positive size, follow each other without gaps in id order and add up to
// exactly the file's length. Problems are collected in the report; the error
// is only set when the catalog can't be read.
func Verify(db *gorm.DB, root string) (*Report, error) {
	s := stor.NewGormCatalogStor(db)
	packed, err := s.ListPackedData()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, pd := range packed {
		extents, err := loadExtents(s, pd)
		if err != nil {
			return nil, err
		}

		blob := BlobReport{PackedData: pd, Path: filepath.Join(root, pd.FilePath), Rows: len(extents)}
		info, err := os.Stat(blob.Path)
		if err != nil {
			report.problemf("%s: %s", pd.FilePath, err)
		} else {
			blob.FileSize = info.Size()
		}

		var expected int64
		for _, e := range extents {
			if e.size <= 0 {
				report.problemf("%s row %d has size %d", pd.FilePath, e.id, e.size)
			}

			if e.offset != expected {
				report.problemf("%s row %d starts at %d, expected %d", pd.FilePath, e.id, e.offset, expected)
			}

			expected = e.offset + e.size
			blob.Bytes += e.size
		}

		if info != nil && blob.Bytes != blob.FileSize {
			report.problemf("%s rows cover %d bytes but the file holds %d", pd.FilePath, blob.Bytes, blob.FileSize)
		}

		report.Blobs = append(report.Blobs, blob)
	}

	return report, nil
}

func loadExtents(s stor.CatalogStor, pd catmodel.PackedData) ([]extent, error) {
	var extents []extent
	switch pd.DataType {
	case catmodel.DataTypeTextures:
		textures, err := s.ListTexturesForPackedData(pd.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range textures {
			extents = append(extents, extent{id: t.ID, size: t.ByteSize, offset: t.ByteOffset})
		}

	case catmodel.DataTypeMeshes:
		buffers, err := s.ListBuffersForPackedData(pd.ID)
		if err != nil {
			return nil, err
		}
		for _, b := range buffers {
			extents = append(extents, extent{id: b.ID, size: b.ByteSize, offset: b.ByteOffset})
		}

	default:
		return nil, errors.Errorf("packed data %d has unknown data type %d", pd.ID, pd.DataType)
	}

	return extents, nil
}
