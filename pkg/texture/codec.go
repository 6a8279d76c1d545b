// Package texture turns source images into block-compressed texture data.
// The codec is the boundary to the compression kernel; the pipeline drives
// it the same way for every image in a scene.
package texture

import (
	"image"

	"github.com/materials-commons/assetpack/pkg/catalog/catmodel"
	"github.com/pkg/errors"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported texture format")
	ErrAborted           = errors.New("texture processing aborted")
)

// MipLevel is one level of a mip chain. Pixels holds the source image for
// the level; Data holds the encoded bytes once the set has been processed.
type MipLevel struct {
	Width  int
	Height int
	Pixels *image.NRGBA
	Data   []byte
}

// MipSet is an image and its mip chain, largest level first.
type MipSet struct {
	Format catmodel.TextureFormat
	Levels []*MipLevel
}

func (s *MipSet) NumLevels() int {
	return len(s.Levels)
}

// TopLevel returns the largest level, or nil for an empty set.
func (s *MipSet) TopLevel() *MipLevel {
	if len(s.Levels) == 0 {
		return nil
	}

	return s.Levels[0]
}

// EncodedSize is the total number of encoded bytes across all levels.
func (s *MipSet) EncodedSize() int64 {
	var size int64
	for _, level := range s.Levels {
		size += int64(len(level.Data))
	}

	return size
}

// KernelOptions control compression. Quality runs from 0 (fastest) to 1
// (best). Threads caps the number of workers; 0 picks one per CPU.
type KernelOptions struct {
	Format  catmodel.TextureFormat
	Quality float64
	Threads int
}

// FeedbackFunc receives progress between 0 and 1 and returns true to abort.
type FeedbackFunc func(progress float64) (abort bool)

// NeverAbort is a FeedbackFunc that lets processing run to completion.
func NeverAbort(float64) bool {
	return false
}

// Codec loads images, builds mip chains and compresses them.
type Codec interface {
	Load(path string) (*MipSet, error)
	GenerateMipLevels(set *MipSet, minSize int) error
	Process(set *MipSet, opts KernelOptions, feedback FeedbackFunc) error
}
