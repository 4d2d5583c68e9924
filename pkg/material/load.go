package material

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pkg/errors"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/df07/portal-gi/pkg/core"
)

// LoadImageTexture decodes an image file (PNG, JPEG, BMP or TIFF, selected
// by the registered image.Decode codecs) into an ImageTexture, converting
// each pixel from sRGB to linear color on load.
func LoadImageTexture(path string) (*ImageTexture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewSceneLoadError(fmt.Sprintf("opening texture %s", path), err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, core.NewSceneLoadError(fmt.Sprintf("decoding texture %s", path), errors.WithStack(err))
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			linear := core.SRGBToLinearColor(core.NewVec3(
				float64(r)/0xffff,
				float64(g)/0xffff,
				float64(b)/0xffff,
			))
			pixels[y*w+x] = linear
		}
	}

	return NewImageTexture(w, h, pixels), nil
}
