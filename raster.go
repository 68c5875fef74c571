package genart

import (
	"encoding/hex"
	"image"
	"image/color"

	"github.com/zeebo/blake3"

	imgio "github.com/gogpu/genart/internal/image"
)

// Format is an output image format.
type Format = imgio.Format

// Output formats.
const (
	FormatPNG  = imgio.FormatPNG
	FormatBMP  = imgio.FormatBMP
	FormatTIFF = imgio.FormatTIFF
	FormatJPEG = imgio.FormatJPEG
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	return imgio.ParseFormat(s)
}

// Raster is a rectangular RGB pixel buffer. Pixel (x, y) occupies the three
// bytes starting at (y*width + x) * 3.
type Raster struct {
	width  int
	height int
	pix    []uint8 // RGB, 3 bytes per pixel
}

// NewRaster creates a black raster with the given dimensions.
func NewRaster(width, height int) *Raster {
	return &Raster{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}
}

// Width returns the width of the raster.
func (r *Raster) Width() int {
	return r.width
}

// Height returns the height of the raster.
func (r *Raster) Height() int {
	return r.height
}

// Pix returns the raw pixel data, row-major RGB.
func (r *Raster) Pix() []uint8 {
	return r.pix
}

// SetRGB sets the color of a single pixel. Out-of-bounds writes are ignored.
func (r *Raster) SetRGB(x, y int, red, green, blue uint8) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	i := (y*r.width + x) * 3
	r.pix[i+0] = red
	r.pix[i+1] = green
	r.pix[i+2] = blue
}

// RGBAt returns the color of a single pixel, or black when out of bounds.
func (r *Raster) RGBAt(x, y int) (red, green, blue uint8) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return 0, 0, 0
	}
	i := (y*r.width + x) * 3
	return r.pix[i], r.pix[i+1], r.pix[i+2]
}

// Permutation maps output channels to source channels: output channel c is
// read from source channel p[c].
type Permutation [3]uint8

// Permutations lists the six channel orders in output-file order: the
// variant of an image written with AllPermutations gets suffix index+1.
var Permutations = [6]Permutation{
	{0, 1, 2}, // rgb
	{0, 2, 1}, // rbg
	{1, 0, 2}, // grb
	{1, 2, 0}, // gbr
	{2, 1, 0}, // bgr
	{2, 0, 1}, // brg
}

// Permute returns a new raster with channels reordered by p.
func (r *Raster) Permute(p Permutation) *Raster {
	out := NewRaster(r.width, r.height)
	for i := 0; i < len(r.pix); i += 3 {
		out.pix[i+0] = r.pix[i+int(p[0])]
		out.pix[i+1] = r.pix[i+int(p[1])]
		out.pix[i+2] = r.pix[i+int(p[2])]
	}
	return out
}

// Digest returns the hex BLAKE3-256 hash of the pixel data. Two renders of
// the same config and seeds have the same digest.
func (r *Raster) Digest() string {
	sum := blake3.Sum256(r.pix)
	return hex.EncodeToString(sum[:])
}

// ToImage converts the raster to an opaque image.NRGBA.
func (r *Raster) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for i, j := 0, 0; i < len(r.pix); i, j = i+3, j+4 {
		img.Pix[j+0] = r.pix[i+0]
		img.Pix[j+1] = r.pix[i+1]
		img.Pix[j+2] = r.pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}

// Save encodes the raster in format f and writes it to path.
func (r *Raster) Save(path string, f Format) error {
	return imgio.Save(path, r.ToImage(), f)
}

// At implements the image.Image interface.
func (r *Raster) At(x, y int) color.Color {
	red, green, blue := r.RGBAt(x, y)
	return color.NRGBA{R: red, G: green, B: blue, A: 255}
}

// Bounds implements the image.Image interface.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// ColorModel implements the image.Image interface.
func (r *Raster) ColorModel() color.Model {
	return color.NRGBAModel
}
