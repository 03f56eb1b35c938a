package xbm

import (
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	errNotEnough = errors.New("xbm: not enough image data")

	// Palette is the color model of decoded images, background then
	// foreground
	Palette = color.Palette{color.White, color.Black}
)

func init() {
	image.RegisterFormat("xbm", defineToken, Decode, DecodeConfig)
}

// Image returns the bitmap as a two color image
func (b *Bitmap) Image() (*image.Paletted, error) {
	stride := b.Stride()
	bits := b.Bits()
	if len(bits) < stride*b.Height {
		return nil, errNotEnough
	}

	m := image.NewPaletted(image.Rect(0, 0, b.Width, b.Height), Palette)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if bits[y*stride+x>>3]&(1<<uint(x&7)) != 0 {
				m.SetColorIndex(x, y, 1)
			}
		}
	}
	return m, nil
}

// Decode reads an XBM image from r and returns it as an image.Image
func Decode(r io.Reader) (image.Image, error) {
	b, err := DecodeBitmap(r)
	if err != nil {
		return nil, err
	}
	defer b.Release()

	return b.Image()
}

// DecodeConfig returns the color model and dimensions of an XBM image
// without keeping the pixel data
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	d.lr = newLineReader(r)
	if err := d.readDimensions(); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: Palette,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
