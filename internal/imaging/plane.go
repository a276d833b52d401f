package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Plane is a single-channel intensity image.
//
// Samples are stored row-major in Pix, so the sample at (x, y) is
// Pix[y*Width+x]. Values are on the 0-255 scale but kept as float64 so that
// derived planes do not lose precision.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPlane allocates a zero-filled plane of the given size.
func NewPlane(width, height int) *Plane {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// At returns the sample at (x, y). Coordinates are not bounds-checked.
func (p *Plane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Set stores v at (x, y). Coordinates are not bounds-checked.
func (p *Plane) Set(x, y int, v float64) {
	p.Pix[y*p.Width+x] = v
}

// Bounds returns the plane's extent as an image rectangle anchored at the origin.
func (p *Plane) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// SameShape reports whether p and q have identical dimensions.
func (p *Plane) SameShape(q *Plane) bool {
	return p.Width == q.Width && p.Height == q.Height
}

// Clone returns a deep copy of p.
func (p *Plane) Clone() *Plane {
	out := &Plane{Width: p.Width, Height: p.Height, Pix: make([]float64, len(p.Pix))}
	copy(out.Pix, p.Pix)
	return out
}

// Sub copies the region r out of p. The region must lie inside p's bounds;
// (x1,y1) is inclusive and (x2,y2) is exclusive.
func (p *Plane) Sub(r image.Rectangle) (*Plane, error) {
	if !r.In(p.Bounds()) {
		return nil, fmt.Errorf("region %v outside plane bounds %v", r, p.Bounds())
	}
	out := NewPlane(r.Dx(), r.Dy())
	for y := 0; y < out.Height; y++ {
		src := p.Pix[(r.Min.Y+y)*p.Width+r.Min.X : (r.Min.Y+y)*p.Width+r.Max.X]
		copy(out.Pix[y*out.Width:(y+1)*out.Width], src)
	}
	return out, nil
}

// FlipH returns p mirrored left to right.
func (p *Plane) FlipH() *Plane {
	out := NewPlane(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		row := y * p.Width
		for x := 0; x < p.Width; x++ {
			out.Pix[row+x] = p.Pix[row+p.Width-1-x]
		}
	}
	return out
}

// FlipV returns p mirrored top to bottom.
func (p *Plane) FlipV() *Plane {
	out := NewPlane(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		copy(out.Pix[y*p.Width:(y+1)*p.Width], p.Pix[(p.Height-1-y)*p.Width:(p.Height-y)*p.Width])
	}
	return out
}

// Mean returns the average intensity of p, or 0 for an empty plane.
func (p *Plane) Mean() float64 {
	if len(p.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.Pix {
		sum += v
	}
	return sum / float64(len(p.Pix))
}

// ToGray renders p as an 8-bit grayscale image, rounding and clamping each sample.
func (p *Plane) ToGray() *image.Gray {
	img := image.NewGray(p.Bounds())
	for i, v := range p.Pix {
		img.Pix[i] = toUint8(v)
	}
	return img
}

// PlaneFromGray converts an 8-bit grayscale image into a Plane.
func PlaneFromGray(img *image.Gray) *Plane {
	b := img.Bounds()
	out := NewPlane(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < out.Width; x++ {
			out.Pix[y*out.Width+x] = float64(img.Pix[off+x])
		}
	}
	return out
}

// LumaModel selects how color pixels are reduced to one intensity channel.
type LumaModel string

const (
	// LumaBT601 uses the ITU-R BT.601 weights in 14-bit fixed point, matching
	// the usual 8-bit grayscale decode of image libraries.
	LumaBT601 LumaModel = "bt601"

	// LumaLab uses CIE L* lightness (D65) scaled to 0-255.
	LumaLab LumaModel = "lab"
)

// ParseLumaModel validates a luma model name. The empty string selects LumaBT601.
func ParseLumaModel(s string) (LumaModel, error) {
	switch LumaModel(s) {
	case "", LumaBT601:
		return LumaBT601, nil
	case LumaLab:
		return LumaLab, nil
	}
	return "", &InvalidParameterError{Param: "luma model", Value: s, Reason: "must be bt601 or lab"}
}

// PlaneFromImage converts any image to a Plane using the given luma model.
//
// Single-channel sources (*image.Gray, *image.Gray16) are copied directly
// regardless of the model. Alpha is ignored.
func PlaneFromImage(img image.Image, model LumaModel) *Plane {
	switch src := img.(type) {
	case *image.Gray:
		return PlaneFromGray(src)
	case *image.Gray16:
		b := src.Bounds()
		out := NewPlane(b.Dx(), b.Dy())
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Pix[y*out.Width+x] = float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return out
	}

	b := img.Bounds()
	out := NewPlane(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.Pix[y*out.Width+x] = luma(c, model)
		}
	}
	return out
}

func luma(c color.NRGBA, model LumaModel) float64 {
	if model == LumaLab {
		l, _, _ := colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}.Lab()
		return math.Round(l * 255)
	}
	// 0.299, 0.587, 0.114 scaled by 2^14
	y := (uint32(c.R)*4899 + uint32(c.G)*9617 + uint32(c.B)*1868 + 1<<13) >> 14
	return float64(y)
}

func toUint8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
