package texture

import "encoding/binary"

const (
	blockDim   = 4
	blockBytes = 16
)

// bc3BlockCount returns how many 4x4 blocks cover a width x height image.
func bc3BlockCount(width, height int) (int, int) {
	return (width + blockDim - 1) / blockDim, (height + blockDim - 1) / blockDim
}

// BC3Size is the encoded size in bytes of a width x height image.
func BC3Size(width, height int) int {
	bx, by := bc3BlockCount(width, height)
	return bx * by * blockBytes
}

// fetchBlock copies the 4x4 block at (bx, by) into block as RGBA quads.
// Blocks hanging over the right or bottom edge repeat the last column or row.
func fetchBlock(pix []byte, stride, width, height, bx, by int, block *[64]byte) {
	for y := 0; y < blockDim; y++ {
		sy := min(by*blockDim+y, height-1)
		for x := 0; x < blockDim; x++ {
			sx := min(bx*blockDim+x, width-1)
			src := sy*stride + sx*4
			copy(block[(y*blockDim+x)*4:], pix[src:src+4])
		}
	}
}

// encodeBC3Block writes one BC3 block: an interpolated alpha block followed
// by a four-color BC1 block. With refine set, the color endpoints are pulled
// in from the bounding box corners, which lowers the error on smooth blocks.
func encodeBC3Block(block *[64]byte, refine bool, out []byte) {
	encodeAlphaBlock(block, out[:8])
	encodeColorBlock(block, refine, out[8:16])
}

func encodeAlphaBlock(block *[64]byte, out []byte) {
	a0, a1 := byte(0), byte(255)
	for i := 0; i < 16; i++ {
		a := block[i*4+3]
		a0 = max(a0, a)
		a1 = min(a1, a)
	}

	out[0], out[1] = a0, a1
	for i := 2; i < 8; i++ {
		out[i] = 0
	}

	if a0 == a1 {
		return
	}

	// a0 > a1 selects the eight value palette.
	var palette [8]int
	palette[0], palette[1] = int(a0), int(a1)
	for i := 1; i < 7; i++ {
		palette[i+1] = ((7-i)*int(a0) + i*int(a1)) / 7
	}

	var bits uint64
	for i := 0; i < 16; i++ {
		a := int(block[i*4+3])
		best, bestDist := 0, 1<<30
		for j, p := range palette {
			d := abs(a - p)
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		bits |= uint64(best) << (3 * i)
	}

	for i := 0; i < 6; i++ {
		out[2+i] = byte(bits >> (8 * i))
	}
}

func encodeColorBlock(block *[64]byte, refine bool, out []byte) {
	var lo, hi [3]int
	lo = [3]int{255, 255, 255}
	for i := 0; i < 16; i++ {
		for c := 0; c < 3; c++ {
			v := int(block[i*4+c])
			lo[c] = min(lo[c], v)
			hi[c] = max(hi[c], v)
		}
	}

	if refine {
		for c := 0; c < 3; c++ {
			inset := (hi[c] - lo[c]) >> 4
			lo[c] = min(lo[c]+inset, 255)
			hi[c] = max(hi[c]-inset, 0)
		}
	}

	c0 := pack565(hi[0], hi[1], hi[2])
	c1 := pack565(lo[0], lo[1], lo[2])
	if c0 < c1 {
		c0, c1 = c1, c0
	}

	binary.LittleEndian.PutUint16(out[0:], c0)
	binary.LittleEndian.PutUint16(out[2:], c1)

	if c0 == c1 {
		binary.LittleEndian.PutUint32(out[4:], 0)
		return
	}

	var palette [4][3]int
	palette[0] = unpack565(c0)
	palette[1] = unpack565(c1)
	for c := 0; c < 3; c++ {
		palette[2][c] = (2*palette[0][c] + palette[1][c]) / 3
		palette[3][c] = (palette[0][c] + 2*palette[1][c]) / 3
	}

	var indices uint32
	for i := 0; i < 16; i++ {
		best, bestDist := 0, 1<<30
		for j, p := range palette {
			dr := int(block[i*4]) - p[0]
			dg := int(block[i*4+1]) - p[1]
			db := int(block[i*4+2]) - p[2]
			d := dr*dr + dg*dg + db*db
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		indices |= uint32(best) << (2 * i)
	}

	binary.LittleEndian.PutUint32(out[4:], indices)
}

func pack565(r, g, b int) uint16 {
	return uint16((r>>3)<<11 | (g>>2)<<5 | b>>3)
}

func unpack565(c uint16) [3]int {
	r := int(c>>11) & 0x1f
	g := int(c>>5) & 0x3f
	b := int(c) & 0x1f
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
