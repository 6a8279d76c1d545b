package texture

import (
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"runtime"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ImageCodec decodes common image formats, builds mip chains with bilinear
// downsampling and compresses to BC3.
type ImageCodec struct{}

func NewImageCodec() *ImageCodec {
	return &ImageCodec{}
}

// Load decodes the image at path into a single level RGBA8 mip set.
func (c *ImageCodec) Load(path string) (*MipSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening image %s", path)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding image %s", path)
	}

	pixels := toNRGBA(img)
	b := pixels.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.Errorf("image %s (%s) has no pixels", path, format)
	}

	return &MipSet{
		Format: catmodel.TextureFormatRGBA8,
		Levels: []*MipLevel{{Width: b.Dx(), Height: b.Dy(), Pixels: pixels}},
	}, nil
}

// GenerateMipLevels halves the last level of set until both extents are at
// most minSize. Existing levels after the first are replaced.
func (c *ImageCodec) GenerateMipLevels(set *MipSet, minSize int) error {
	top := set.TopLevel()
	if top == nil || top.Pixels == nil {
		return errors.New("mip set has no source image")
	}

	if set.Format != catmodel.TextureFormatRGBA8 {
		return errors.Wrapf(ErrUnsupportedFormat, "generating mips for %s data", set.Format)
	}

	if minSize < 1 {
		minSize = 1
	}

	set.Levels = set.Levels[:1]
	for level := top; level.Width > minSize || level.Height > minSize; {
		w, h := max(level.Width/2, 1), max(level.Height/2, 1)
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), level.Pixels, level.Pixels.Bounds(), xdraw.Src, nil)
		level = &MipLevel{Width: w, Height: h, Pixels: dst}
		set.Levels = append(set.Levels, level)
	}

	return nil
}

// Process compresses every level of set. Block rows of a level are encoded
// in parallel; Process returns once every level is done.
func (c *ImageCodec) Process(set *MipSet, opts KernelOptions, feedback FeedbackFunc) error {
	if opts.Format != catmodel.TextureFormatBC3 {
		return errors.Wrapf(ErrUnsupportedFormat, "%s", opts.Format)
	}

	if set.Format != catmodel.TextureFormatRGBA8 {
		return errors.Wrapf(ErrUnsupportedFormat, "processing %s source", set.Format)
	}

	if feedback == nil {
		feedback = NeverAbort
	}

	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	refine := opts.Quality >= 0.5
	for i, level := range set.Levels {
		if level.Pixels == nil {
			return errors.Errorf("mip level %d has no pixels", i)
		}

		data, err := encodeBC3(level.Pixels, refine, threads)
		if err != nil {
			return errors.Wrapf(err, "compressing mip level %d", i)
		}
		level.Data = data

		if feedback(float64(i+1) / float64(len(set.Levels))) {
			return errors.Wrapf(ErrAborted, "after mip level %d", i)
		}
	}

	set.Format = opts.Format
	return nil
}

func encodeBC3(img *image.NRGBA, refine bool, threads int) ([]byte, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	blocksX, blocksY := bc3BlockCount(width, height)
	out := make([]byte, blocksX*blocksY*blockBytes)
	pix := img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]

	var g errgroup.Group
	g.SetLimit(threads)
	for by := 0; by < blocksY; by++ {
		by := by
		g.Go(func() error {
			var block [64]byte
			row := out[by*blocksX*blockBytes:]
			for bx := 0; bx < blocksX; bx++ {
				fetchBlock(pix, img.Stride, width, height, bx, by, &block)
				encodeBC3Block(&block, refine, row[bx*blockBytes:])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
