package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
)

// PreviewResult contains a plane rendered as a base64 PNG for human inspection.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview encodes p as a grayscale PNG for human inspection.
//
// Parameters:
//   - p: The plane to render. It is left untouched.
//   - maxSide: When positive, the preview is scaled down so neither side
//     exceeds it. Zero or negative keeps full size.
//
// Returns:
//   - *PreviewResult: Dimensions of the encoded preview and its base64 PNG.
//   - error: Non-nil if encoding fails.
//
// # Errors
//
//   - Returns error if PNG encoding fails
func Preview(p *Plane, maxSide int) (*PreviewResult, error) {
	img := p.ToGray()

	var buf bytes.Buffer
	if maxSide > 0 && (p.Width > maxSide || p.Height > maxSide) {
		fitted := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
		if err := png.Encode(&buf, imaging.Grayscale(fitted)); err != nil {
			return nil, fmt.Errorf("failed to encode preview: %w", err)
		}
		return &PreviewResult{
			Width:       fitted.Bounds().Dx(),
			Height:      fitted.Bounds().Dy(),
			ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
			MimeType:    "image/png",
		}, nil
	}

	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return &PreviewResult{
		Width:       p.Width,
		Height:      p.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes p to path as an 8-bit grayscale PNG.
func SavePNG(p *Plane, path string) error {
	if err := imaging.Save(p.ToGray(), path, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		return fmt.Errorf("failed to save plane: %w", err)
	}
	return nil
}
