package xbm

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBitmap(t *testing.T) {
	b, err := NewBitmap(8, 1, []byte{0x3c, 0xff})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, EncodeBitmap(buf, "logo", b))

	assert.Equal(t, "#define logo_width 8\n#define logo_height 1\nstatic unsigned char logo_bits[] = {\n   0x3c, 0xff};\n", buf.String())

	var out Bitmap
	w, h, err := Load(buf, &out)
	require.NoError(t, err)
	assert.Equal(t, 8, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, b.Bits(), out.Bits())
}

func TestEncodeBitmapWrapsLines(t *testing.T) {
	bits := make([]byte, 30)
	for i := range bits {
		bits[i] = byte(i * 7)
	}
	b, err := NewBitmap(16, 15, bits)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, EncodeBitmap(buf, "", b))
	assert.Equal(t, 3+3, bytes.Count(buf.Bytes(), []byte("\n")))

	out, err := DecodeBitmap(buf)
	require.NoError(t, err)
	assert.Equal(t, bits, out.Bits())
}

func TestEncodeBitmapErrors(t *testing.T) {
	b, err := NewBitmap(0, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, errEmpty, EncodeBitmap(new(bytes.Buffer), "x", b))

	b, err = NewBitmap(16, 2, []byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, errNotEnough, EncodeBitmap(new(bytes.Buffer), "x", b))
}

func checkerboard(m interface{ Set(int, int, color.Color) }, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if (x+y)%2 == 0 {
				m.Set(x, y, color.Black)
			} else {
				m.Set(x, y, color.White)
			}
		}
	}
}

func TestEncode(t *testing.T) {
	r := image.Rect(0, 0, 11, 3)

	tables := []struct {
		name  string
		image image.Image
	}{
		{
			name: "paletted",
			image: func() image.Image {
				m := image.NewPaletted(r, color.Palette{color.White, color.Black})
				checkerboard(m, r)
				return m
			}(),
		},
		{
			name: "inverted palette",
			image: func() image.Image {
				m := image.NewPaletted(r, color.Palette{color.Black, color.White})
				checkerboard(m, r)
				return m
			}(),
		},
		{
			name: "gray",
			image: func() image.Image {
				m := image.NewGray(r)
				checkerboard(m, r)
				return m
			}(),
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, Encode(buf, "board", table.image))

			m, err := Decode(buf)
			require.NoError(t, err)
			require.Equal(t, r, m.Bounds())

			pm := m.(*image.Paletted)
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					want := uint8(0)
					if (x+y)%2 == 0 {
						want = 1
					}
					assert.Equal(t, want, pm.ColorIndexAt(x, y), "pixel (%d, %d)", x, y)
				}
			}
		})
	}
}

func TestEncodeOffsetAndBlank(t *testing.T) {
	r := image.Rect(5, 5, 8, 6)
	m := image.NewPaletted(r, color.Palette{color.White})

	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, "blank", m))

	b, err := DecodeBitmap(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Width)
	assert.Equal(t, 1, b.Height)
	assert.Equal(t, []byte{0x00}, b.Bits())

	assert.Equal(t, errEmpty, Encode(new(bytes.Buffer), "x", image.NewGray(image.Rectangle{})))
}
