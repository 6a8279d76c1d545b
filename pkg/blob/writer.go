// Package blob appends resources to a category's packed data file and
// records where each one landed in the catalog.
package blob

import (
	"os"
	"path/filepath"

	"github.com/materials-commons/assetpack/pkg/catalog/stor"
	"github.com/materials-commons/assetpack/pkg/clog"
	"github.com/pkg/errors"
)

var (
	ErrEmptyResource = errors.New("resource is empty")
	ErrShortWrite    = errors.New("short write to packed data file")
)

// RowInserter records a resource once its bytes are in the blob. It is
// called with the resource size, its offset in the blob and the blob's
// PackedData row id, and returns the new row id.
type RowInserter func(size, offset, packedDataID int64) (int64, error)

// Writer is an append-only packed data file for one category. Offsets are
// tracked by the writer, so resource i+1 always starts where resource i
// ended.
type Writer struct {
	category     Category
	path         string
	file         *os.File
	offset       int64
	packedDataID int64
	logCtx       string
}

// Create creates (or truncates) the category's file in dir and inserts its
// PackedData row. On an insert failure the file is closed but left on disk.
func Create(dir string, category Category, inserter stor.PackedDataInserter) (*Writer, error) {
	path := filepath.Join(dir, category.FileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s packed data %s", category, path)
	}

	id, err := inserter.InsertPackedData(category.FileName, category.DataType)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "recording %s packed data %s", category, path)
	}

	return &Writer{
		category:     category,
		path:         path,
		file:         f,
		packedDataID: id,
		logCtx:       clog.GlobalLoggerCtx,
	}, nil
}

// WithLogContext sends the writer's log lines to the named clog context.
func (w *Writer) WithLogContext(ctx string) *Writer {
	w.logCtx = ctx
	return w
}

// Append writes data at the current offset and then calls insertRow for it.
// The offset moves past data even if insertRow fails, since the bytes are
// already in the file.
func (w *Writer) Append(data []byte, insertRow RowInserter) (int64, error) {
	if w.file == nil {
		return stor.NoID, errors.Errorf("%s packed data %s is closed", w.category, w.path)
	}

	if len(data) == 0 {
		return stor.NoID, errors.Wrapf(ErrEmptyResource, "appending to %s", w.path)
	}

	// Unbuffered: the bytes are in the file before a row points at them.
	n, err := w.file.Write(data)
	if err != nil {
		return stor.NoID, errors.Wrapf(err, "writing %d bytes to %s", len(data), w.path)
	}

	if n != len(data) {
		return stor.NoID, errors.Wrapf(ErrShortWrite, "wrote %d of %d bytes to %s", n, len(data), w.path)
	}

	size := int64(n)
	offset := w.offset
	w.offset += size

	id, err := insertRow(size, offset, w.packedDataID)
	if err != nil {
		return stor.NoID, errors.Wrapf(err, "recording %s at offset %d", w.category, offset)
	}

	clog.UsingCtx(w.logCtx).
		WithField("category", w.category.Name).
		WithField("offset", offset).
		WithField("size", size).
		WithField("row_id", id).
		Debug("Packed resource")

	return id, nil
}

// AppendFile appends the contents of the file at path.
func (w *Writer) AppendFile(path string, insertRow RowInserter) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return stor.NoID, errors.Wrapf(err, "reading %s resource %s", w.category, path)
	}

	if len(data) == 0 {
		return stor.NoID, errors.Wrapf(ErrEmptyResource, "%s resource %s", w.category, path)
	}

	return w.Append(data, insertRow)
}

// Offset is where the next resource will be written.
func (w *Writer) Offset() int64 {
	return w.offset
}

func (w *Writer) PackedDataID() int64 {
	return w.packedDataID
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Category() Category {
	return w.category
}

// Close closes the file. Closing a closed writer does nothing.
func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}

	f := w.file
	w.file = nil

	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", w.path)
	}

	return nil
}
