package orient

import (
	"image"

	"github.com/ironsheep/face-rotation/internal/imaging"
)

// HalfPair holds two same-shaped halves of a plane. Second is already mirrored
// so that it lines up with First sample for sample.
type HalfPair struct {
	First  *imaging.Plane
	Second *imaging.Plane
}

// Split cuts p into its horizontal pair (left, mirrored right) and its vertical
// pair (top, mirrored bottom).
//
// With w and h the plane's width and height, left is columns [0, w/2) and right
// is columns [w-w/2, w); top is rows [0, h/2) and bottom is rows [h-h/2, h).
// For odd sizes the middle column or row belongs to neither half, so both
// members of a pair always have the same shape.
func Split(p *imaging.Plane) (horizontal, vertical HalfPair, err error) {
	w, h := p.Width, p.Height
	if w < 2 || h < 2 {
		return HalfPair{}, HalfPair{}, &InvalidImageError{Width: w, Height: h}
	}

	midW, midH := w/2, h/2

	left, err := p.Sub(image.Rect(0, 0, midW, h))
	if err != nil {
		return HalfPair{}, HalfPair{}, err
	}
	right, err := p.Sub(image.Rect(w-midW, 0, w, h))
	if err != nil {
		return HalfPair{}, HalfPair{}, err
	}
	top, err := p.Sub(image.Rect(0, 0, w, midH))
	if err != nil {
		return HalfPair{}, HalfPair{}, err
	}
	bottom, err := p.Sub(image.Rect(0, h-midH, w, h))
	if err != nil {
		return HalfPair{}, HalfPair{}, err
	}

	horizontal = HalfPair{First: left, Second: right.FlipH()}
	vertical = HalfPair{First: top, Second: bottom.FlipV()}
	return horizontal, vertical, nil
}
