// Package assetdb builds a runtime asset bundle from a scene document: a
// catalog database next to one packed data file per resource category.
package assetdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/materials-commons/assetpack/pkg/blob"
	"github.com/materials-commons/assetpack/pkg/catalog"
	"github.com/materials-commons/assetpack/pkg/catalog/stor"
	"github.com/materials-commons/assetpack/pkg/clog"
	"github.com/materials-commons/assetpack/pkg/linker"
	"github.com/materials-commons/assetpack/pkg/scene"
	"github.com/materials-commons/assetpack/pkg/texture"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrBuilderUsed = errors.New("builder has already run")

// Builder runs a single build. Create a new one for every build.
type Builder struct {
	opts   Options
	codec  texture.Codec
	stor   stor.InsertStor
	stage  Stage
	logCtx string

	doc      *scene.Document
	srcRoot  string
	dstRoot  string
	db       *gorm.DB
	textures *blob.Writer
	buffers  *blob.Writer
}

func NewBuilder(opts Options) *Builder {
	return &Builder{
		opts:   opts,
		codec:  texture.NewImageCodec(),
		stage:  StageIdle,
		logCtx: clog.GlobalLoggerCtx,
	}
}

// WithCodec replaces the texture codec.
func (b *Builder) WithCodec(codec texture.Codec) *Builder {
	b.codec = codec
	return b
}

// WithInsertStor makes the build record rows through s instead of prepared
// statements on the catalog.
func (b *Builder) WithInsertStor(s stor.InsertStor) *Builder {
	b.stor = s
	return b
}

func (b *Builder) Stage() Stage {
	return b.stage
}

// LogContext is the clog context the build logs under.
func (b *Builder) LogContext() string {
	return b.logCtx
}

// Build packs the scene at src into a catalog at dst. Blob files are written
// next to dst. On failure the returned error is a *BuildError and whatever
// was written so far stays on disk.
func (b *Builder) Build(src, dst string) (err error) {
	if b.stage != StageIdle {
		return ErrBuilderUsed
	}

	b.logCtx = logContextName(src)
	if b.opts.LogFile != "" {
		clog.AddLoggingContext(b.logCtx, clog.NewRotatingWriter(b.opts.LogFile))
		if level, lerr := log.ParseLevel(b.opts.LogLevel); lerr == nil {
			clog.SetLevel(b.logCtx, level)
		}
		defer clog.RemoveLoggingContext(b.logCtx)
	}

	clog.UsingCtx(b.logCtx).Infof("Building %s from %s", dst, src)

	defer func() {
		if releaseErr := b.release(); releaseErr != nil {
			clog.UsingCtx(b.logCtx).Errorf("Releasing build resources failed: %s", releaseErr)
			if err == nil {
				b.stage = StageFailed
				err = &BuildError{Stage: StageDone, Err: releaseErr}
			}
		}
	}()

	steps := []struct {
		next Stage
		run  func() error
	}{
		{StageSchemaReady, func() error { return b.createCatalog(src, dst) }},
		{StageStatementsReady, b.prepareStatements},
		{StageTexturesPacked, b.packTextures},
		{StageBuffersPacked, b.packBuffers},
		{StageMetadataLinked, b.linkMetadata},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			clog.UsingCtx(b.logCtx).Errorf("Build failed reaching %s: %s", step.next, err)
			b.stage = StageFailed
			return &BuildError{Stage: step.next, Err: err}
		}

		b.stage = step.next
		clog.UsingCtx(b.logCtx).Debugf("Reached %s", b.stage)
	}

	b.stage = StageDone
	clog.UsingCtx(b.logCtx).Infof("Built %s", dst)
	return nil
}

func (b *Builder) createCatalog(src, dst string) error {
	doc, err := scene.Load(src)
	if err != nil {
		return err
	}

	b.doc = doc
	b.srcRoot = filepath.Dir(src)
	b.dstRoot = filepath.Dir(dst)

	if err := os.MkdirAll(b.dstRoot, 0755); err != nil {
		return errors.Wrapf(err, "creating destination %s", b.dstRoot)
	}

	if b.db, err = catalog.Create(dst); err != nil {
		return err
	}

	return catalog.EnsureSchema(b.db)
}

func (b *Builder) prepareStatements() error {
	if b.stor == nil {
		b.stor = stor.NewStmtPool(b.db)
	}

	return b.stor.Prepare()
}

func (b *Builder) packTextures() error {
	if len(b.doc.Images) == 0 {
		clog.UsingCtx(b.logCtx).Debug("Scene has no images")
		return nil
	}

	w, err := blob.Create(b.dstRoot, blob.Textures, b.stor)
	if err != nil {
		return err
	}
	b.textures = w.WithLogContext(b.logCtx)

	pipeline := texture.NewPipeline(b.codec, b.opts.Texture).WithLogContext(b.logCtx)
	for i, image := range b.doc.Images {
		if image.BufferView != nil {
			return errors.Wrapf(scene.ErrUnsupportedURI, "image %d is embedded in buffer view %d", i, *image.BufferView)
		}

		path, err := scene.ResolveURI(b.srcRoot, image.URI)
		if err != nil {
			return errors.Wrapf(err, "image %d", i)
		}

		id, err := pipeline.PackTexture(path, b.textures, b.stor)
		if err != nil {
			return errors.Wrapf(err, "image %d", i)
		}

		if err := catalog.CheckRowID(i, id); err != nil {
			return errors.Wrapf(err, "image %d", i)
		}
	}

	clog.UsingCtx(b.logCtx).Infof("Packed %d textures (%d bytes)", len(b.doc.Images), b.textures.Offset())
	return closeWriter(&b.textures)
}

func (b *Builder) packBuffers() error {
	if len(b.doc.Buffers) == 0 {
		clog.UsingCtx(b.logCtx).Debug("Scene has no buffers")
		return nil
	}

	w, err := blob.Create(b.dstRoot, blob.Buffers, b.stor)
	if err != nil {
		return err
	}
	b.buffers = w.WithLogContext(b.logCtx)

	for i, buffer := range b.doc.Buffers {
		path, err := scene.ResolveURI(b.srcRoot, buffer.URI)
		if err != nil {
			return errors.Wrapf(err, "buffer %d", i)
		}

		start := b.buffers.Offset()
		id, err := b.buffers.AppendFile(path, func(size, offset, packedDataID int64) (int64, error) {
			return b.stor.InsertBuffer(size, offset, packedDataID)
		})
		if err != nil {
			return errors.Wrapf(err, "buffer %d", i)
		}

		if err := catalog.CheckRowID(i, id); err != nil {
			return errors.Wrapf(err, "buffer %d", i)
		}

		if size := b.buffers.Offset() - start; size != buffer.ByteLength {
			clog.UsingCtx(b.logCtx).
				WithField("buffer", i).
				WithField("declared", buffer.ByteLength).
				WithField("size", size).
				Warn("Buffer file size differs from declared length")
		}
	}

	clog.UsingCtx(b.logCtx).Infof("Packed %d buffers (%d bytes)", len(b.doc.Buffers), b.buffers.Offset())
	return closeWriter(&b.buffers)
}

func (b *Builder) linkMetadata() error {
	return linker.New(b.doc, b.stor).WithLogContext(b.logCtx).Link()
}

// release closes everything the build opened, in reverse order, and returns
// the first error.
func (b *Builder) release() error {
	var errs []error

	for _, w := range []**blob.Writer{&b.textures, &b.buffers} {
		if err := closeWriter(w); err != nil {
			errs = append(errs, err)
		}
	}

	if b.stor != nil {
		if err := b.stor.Release(); err != nil {
			errs = append(errs, err)
		}
	}

	if b.db != nil {
		if err := catalog.Close(b.db); err != nil {
			errs = append(errs, err)
		}
		b.db = nil
	}

	if len(errs) == 0 {
		return nil
	}

	return errs[0]
}

func closeWriter(w **blob.Writer) error {
	if *w == nil {
		return nil
	}

	err := (*w).Close()
	*w = nil
	return err
}

// logContextName names a build after its scene file plus a short unique
// suffix, e.g. "sponza-1f3e9c2a".
func logContextName(src string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	id, err := uuid.GenerateUUID()
	if err != nil {
		id = "00000000"
	}

	return fmt.Sprintf("%s-%s", slug.Make(name), id[:8])
}

// BuildDatabase builds the catalog at destinationPath from the scene at
// sourcePath with default options and reports whether it succeeded.
func BuildDatabase(sourcePath, destinationPath string) bool {
	if err := NewBuilder(DefaultOptions()).Build(sourcePath, destinationPath); err != nil {
		clog.Global().Errorf("Building %s failed: %s", destinationPath, err)
		return false
	}

	return true
}
