package texture

import (
	"github.com/materials-commons/assetpack/pkg/blob"
	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/materials-commons/assetpack/pkg/catalog/stor"
	"github.com/materials-commons/assetpack/pkg/clog"
	"github.com/pkg/errors"
)

// TargetFormat is the block format every packed texture is compressed to.
const TargetFormat = catmodel.TextureFormatBC3

type Options struct {
	Quality    float64
	Threads    int
	MinMipSize int

	// AllMips packs every mip level back to back instead of just the top one.
	AllMips bool
}

func DefaultOptions() Options {
	return Options{
		Quality:    1.0,
		Threads:    0,
		MinMipSize: 4,
	}
}

// Pipeline compresses source images with a Codec and appends the result to
// the texture blob.
type Pipeline struct {
	codec  Codec
	opts   Options
	logCtx string
}

func NewPipeline(codec Codec, opts Options) *Pipeline {
	if opts.MinMipSize < 1 {
		opts.MinMipSize = DefaultOptions().MinMipSize
	}

	return &Pipeline{codec: codec, opts: opts, logCtx: clog.GlobalLoggerCtx}
}

func (p *Pipeline) WithLogContext(ctx string) *Pipeline {
	p.logCtx = ctx
	return p
}

// Compress loads the image at path, builds a mip chain when the image has
// none and compresses it. It returns the top level's bytes, or every level
// when AllMips is set.
func (p *Pipeline) Compress(path string) ([]byte, error) {
	set, err := p.codec.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading texture %s", path)
	}

	if set.NumLevels() <= 1 {
		if err := p.codec.GenerateMipLevels(set, p.opts.MinMipSize); err != nil {
			return nil, errors.Wrapf(err, "generating mip levels for %s", path)
		}
	}

	kernel := KernelOptions{Format: TargetFormat, Quality: p.opts.Quality, Threads: p.opts.Threads}
	if err := p.codec.Process(set, kernel, NeverAbort); err != nil {
		return nil, errors.Wrapf(err, "compressing texture %s", path)
	}

	top := set.TopLevel()
	if top == nil || len(top.Data) == 0 {
		return nil, errors.Errorf("codec produced no data for %s", path)
	}

	clog.UsingCtx(p.logCtx).
		WithField("path", path).
		WithField("width", top.Width).
		WithField("height", top.Height).
		WithField("levels", set.NumLevels()).
		Debug("Compressed texture")

	if !p.opts.AllMips {
		return top.Data, nil
	}

	data := make([]byte, 0, set.EncodedSize())
	for _, level := range set.Levels {
		data = append(data, level.Data...)
	}

	return data, nil
}

// PackTexture compresses the image at path, appends it to w and records a
// Texture row for it.
func (p *Pipeline) PackTexture(path string, w *blob.Writer, inserter stor.TextureInserter) (int64, error) {
	data, err := p.Compress(path)
	if err != nil {
		return stor.NoID, err
	}

	return w.Append(data, func(size, offset, packedDataID int64) (int64, error) {
		return inserter.InsertTexture(size, offset, TargetFormat, packedDataID)
	})
}
