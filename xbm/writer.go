package xbm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

const literalsPerLine = 12

var errEmpty = errors.New("xbm: image has zero width or height")

type encoder struct {
	w    *bufio.Writer
	name string
}

func (e *encoder) encode(b *Bitmap) error {
	fmt.Fprintf(e.w, "#define %s_width %d\n", e.name, b.Width)
	fmt.Fprintf(e.w, "#define %s_height %d\n", e.name, b.Height)
	fmt.Fprintf(e.w, "static unsigned char %s_bits[] = {", e.name)

	bits := b.Bits()
	for i, c := range bits {
		if i%literalsPerLine == 0 {
			e.w.WriteString("\n  ")
		}
		fmt.Fprintf(e.w, " 0x%02x", c)
		if i != len(bits)-1 {
			e.w.WriteByte(',')
		}
	}
	e.w.WriteString("};\n")

	return e.w.Flush()
}

// EncodeBitmap writes b to w as an XBM image whose macros and array are
// prefixed with name
func EncodeBitmap(w io.Writer, name string, b *Bitmap) error {
	if b.Width <= 0 || b.Height <= 0 {
		return errEmpty
	}
	if b.Len() < b.Stride()*b.Height {
		return errNotEnough
	}
	if name == "" {
		name = "image"
	}

	e := encoder{w: bufio.NewWriter(w), name: name}

	return e.encode(b)
}

func luminance(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

// foreground returns the index of the darkest color in p. If every color is
// equally bright it is only foreground when dark, otherwise -1 is returned.
func foreground(p color.Palette) int {
	best := -1
	var lo, hi uint8 = 0xff, 0
	for i, c := range p {
		l := luminance(c)
		if best < 0 || l < lo {
			best, lo = i, l
		}
		if l > hi {
			hi = l
		}
	}
	if lo == hi && lo >= 0x80 {
		return -1
	}
	return best
}

// Encode writes the Image m to w in XBM format. Images with more than two
// colors are reduced to two and the darker color becomes the foreground.
func Encode(w io.Writer, name string, m image.Image) error {
	r := m.Bounds()
	if r.Empty() {
		return errEmpty
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > 2 {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(r, q.Quantize(make(color.Palette, 0, 2), m))
		draw.Draw(pm, r, m, r.Min, draw.Src)
	}

	fg := foreground(pm.Palette)

	b := Bitmap{Width: r.Dx(), Height: r.Dy()}
	defer b.bits.Release()

	for y := r.Min.Y; y < r.Max.Y; y++ {
		var c byte
		for x := r.Min.X; x < r.Max.X; x++ {
			bit := uint(x-r.Min.X) & 7
			if int(pm.ColorIndexAt(x, y)) == fg {
				c |= 1 << bit
			}
			if bit == 7 || x == r.Max.X-1 {
				if err := b.bits.Append(c); err != nil {
					return err
				}
				c = 0
			}
		}
	}

	return EncodeBitmap(w, name, &b)
}
