// Package material provides ColorSource implementations beyond the
// core package's SolidColor: image-backed textures loaded from disk.
package material

import (
	"github.com/df07/portal-gi/pkg/core"
)

// ImageTexture is a ColorSource backed by a decoded image, sampled with
// nearest-neighbor filtering and wrapping UVs into [0, 1).
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // row-major, linear color: Pixels[y*Width+x]
}

// NewImageTexture wraps a decoded pixel buffer as a ColorSource.
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{Width: width, Height: height, Pixels: pixels}
}

// ColorAt implements core.ColorSource. V=0 is the image's bottom row.
func (t *ImageTexture) ColorAt(uv core.Vec2) core.Vec3 {
	u := uv.X - float64(int(uv.X))
	v := uv.Y - float64(int(uv.Y))
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v += 1.0
	}

	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	return t.Pixels[y*t.Width+x]
}
