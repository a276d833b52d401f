package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// RotateClockwise rotates img clockwise by degrees, which must be 0, 90, 180, or 270.
// The result is always a new image.
func RotateClockwise(img image.Image, degrees int) (image.Image, error) {
	// disintegration/imaging rotates counter-clockwise.
	switch degrees {
	case 0:
		return imaging.Clone(img), nil
	case 90:
		return imaging.Rotate270(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate90(img), nil
	}
	return nil, &InvalidParameterError{Param: "rotation", Value: fmt.Sprint(degrees), Reason: "must be 0, 90, 180, or 270"}
}

// UprightPath returns the path a corrected copy of src is written to:
// "<dir>/<name>_upright<ext>" in dir, or next to src when dir is empty.
// Extensions that cannot be encoded fall back to ".png".
func UprightPath(src, dir string) string {
	ext := filepath.Ext(src)
	name := strings.TrimSuffix(filepath.Base(src), ext)
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		ext = ".png"
	}
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, name+"_upright"+ext)
}

// SaveUpright decodes src, rotates it clockwise by degrees, and writes it to dst,
// creating dst's directory if needed. The full-color source is rotated, not the
// intensity plane.
//
// Parameters:
//   - src: File path to the source image.
//   - dst: Output path. Its extension selects the encoder.
//   - degrees: Clockwise rotation, one of 0, 90, 180, or 270.
//
// # Errors
//
//   - Returns *ImageLoadError if src cannot be decoded
//   - Returns *InvalidParameterError if degrees is not a quarter turn
//   - Returns error if dst cannot be created or encoded
func SaveUpright(src, dst string, degrees int) error {
	img, err := Open(src)
	if err != nil {
		return err
	}
	rotated, err := RotateClockwise(img, degrees)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(rotated, dst); err != nil {
		return fmt.Errorf("failed to save upright image: %w", err)
	}
	return nil
}
