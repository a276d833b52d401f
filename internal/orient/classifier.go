package orient

import (
	"github.com/ironsheep/face-rotation/internal/imaging"
)

// Options configures a classification. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// Decode controls grayscale conversion of the source image.
	Decode imaging.DecodeMode

	// Smooth enables the Gaussian blur applied before splitting.
	Smooth bool

	// Kernel is the blur kernel size. Ignored when Smooth is false.
	Kernel imaging.KernelSize
}

// DefaultOptions returns grayscale decoding with a 5x5 blur.
func DefaultOptions() Options {
	return Options{
		Decode: imaging.DefaultDecodeMode(),
		Smooth: true,
		Kernel: imaging.DefaultKernelSize,
	}
}

// Validate checks the options without touching any file.
func (o Options) Validate() error {
	if _, err := imaging.ParseLumaModel(string(o.Decode.Luma)); err != nil {
		return err
	}
	if o.Smooth {
		return o.Kernel.Validate()
	}
	return nil
}

// Result is the outcome of classifying one image. ImagePath and
// RotationDegrees form the persisted record; the remaining fields are
// diagnostics.
type Result struct {
	ImagePath       string         `json:"image_path"`
	RotationDegrees Rotation       `json:"rotation_degrees"`
	Symmetry        *SymmetryScore `json:"symmetry,omitempty"`
	Means           *HalfMeans     `json:"half_means,omitempty"`
}

// Analysis carries every intermediate value of one pass over a plane.
type Analysis struct {
	// Plane is the preprocessed (possibly smoothed) plane that was split.
	Plane      *imaging.Plane
	Horizontal HalfPair
	Vertical   HalfPair
	Scores     SymmetryScore
	Means      HalfMeans
	Rotation   Rotation
}

// Analyze runs smoothing, splitting, scoring, and the decision on an
// already-loaded plane.
//
// Parameters:
//   - p: The intensity plane. It is not modified.
//   - opts: Smoothing settings. Decode settings are ignored here.
//
// Returns:
//   - *Analysis: Every intermediate value, including the rotation.
//   - error: Non-nil if the plane cannot be classified.
//
// # Errors
//
//   - Returns *InvalidParameterError if smoothing is on and the kernel is invalid
//   - Returns *InvalidImageError if p is narrower or shorter than 2 pixels
func Analyze(p *imaging.Plane, opts Options) (*Analysis, error) {
	if opts.Smooth {
		smoothed, err := imaging.Smooth(p, opts.Kernel)
		if err != nil {
			return nil, err
		}
		p = smoothed
	}

	horizontal, vertical, err := Split(p)
	if err != nil {
		return nil, err
	}
	scores, err := ScorePairs(horizontal, vertical)
	if err != nil {
		return nil, err
	}
	means := MeansOf(horizontal, vertical)

	return &Analysis{
		Plane:      p,
		Horizontal: horizontal,
		Vertical:   vertical,
		Scores:     scores,
		Means:      means,
		Rotation:   DecideFromMeans(means, scores),
	}, nil
}

// Result converts the analysis into the record for path.
func (a *Analysis) Result(path string) *Result {
	scores := a.Scores
	means := a.Means
	return &Result{
		ImagePath:       path,
		RotationDegrees: a.Rotation,
		Symmetry:        &scores,
		Means:           &means,
	}
}

// ClassifyFile validates opts, loads the image at path, and classifies it.
//
// Parameters:
//   - path: File path to the image.
//   - opts: Decode and smoothing settings.
//
// Returns:
//   - *Result: The rotation and scores, ready to persist.
//   - *Analysis: The intermediate values, including the preprocessed plane.
//   - error: Non-nil if classification fails. No fallback rotation is ever
//     returned alongside an error.
//
// # Errors
//
//   - Returns *InvalidParameterError if opts is invalid
//   - Returns *ImageLoadError if the image cannot be loaded
//   - Returns *InvalidImageError if the image is too small to split
func ClassifyFile(path string, opts Options) (*Result, *Analysis, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	p, err := imaging.Load(path, opts.Decode)
	if err != nil {
		return nil, nil, err
	}
	a, err := Analyze(p, opts)
	if err != nil {
		return nil, nil, err
	}
	return a.Result(path), a, nil
}
