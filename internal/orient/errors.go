package orient

import (
	"fmt"
	"image"
)

// InvalidImageError reports an image too small to split into halves.
type InvalidImageError struct {
	Width  int
	Height int
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("image %dx%d too small to split: width and height must be at least 2", e.Width, e.Height)
}

// ShapeMismatchError reports two halves of a pair with different shapes.
// Split never produces such a pair.
type ShapeMismatchError struct {
	First  image.Point
	Second image.Point
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("half shapes differ: %dx%d vs %dx%d", e.First.X, e.First.Y, e.Second.X, e.Second.Y)
}
