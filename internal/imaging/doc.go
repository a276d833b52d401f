// Package imaging loads images as single-channel intensity planes and applies the
// preprocessing steps used by the orientation classifier.
//
// All operations work on Plane values: a row-major grid of float64 intensity samples
// on the 0-255 scale. Coordinates use the standard image convention where (0,0) is
// the top-left corner, X increases rightward, and Y increases downward.
//
// # Decoding
//
// PNG, JPEG, and GIF are decoded through the standard library registry, BMP, TIFF,
// and WebP through golang.org/x/image. EXIF orientation tags are not applied, so
// the classifier sees the pixels exactly as they are stored.
//
// # Grayscale Conversion
//
// Color sources are reduced to one channel with a LumaModel:
//   - LumaBT601: 0.299*R + 0.587*G + 0.114*B in 8-bit fixed point (the default)
//   - LumaLab: CIE L* lightness scaled to 0-255
//
// With grayscale decoding turned off the source must already be single-channel.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Planes are never mutated by the
// functions in this package; every transform returns a new Plane.
//
// # Error Handling
//
// Load failures are reported as *ImageLoadError and malformed parameters as
// *InvalidParameterError. Use errors.As to inspect them.
package imaging
