package imaging

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/convolution"
)

// KernelSize is the width and height of a smoothing kernel in pixels.
// Both dimensions must be positive odd integers.
type KernelSize struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// DefaultKernelSize is the 5x5 kernel used when none is configured.
var DefaultKernelSize = KernelSize{W: 5, H: 5}

func (k KernelSize) String() string {
	return fmt.Sprintf("%dx%d", k.W, k.H)
}

// Validate returns *InvalidParameterError unless both dimensions are positive and odd.
func (k KernelSize) Validate() error {
	if k.W <= 0 || k.H <= 0 {
		return &InvalidParameterError{Param: "kernel size", Value: k.String(), Reason: "dimensions must be positive"}
	}
	if k.W%2 == 0 || k.H%2 == 0 {
		return &InvalidParameterError{Param: "kernel size", Value: k.String(), Reason: "dimensions must be odd"}
	}
	return nil
}

// ParseKernelSize parses "WxH" or a single "N" (meaning NxN). The result is validated.
func ParseKernelSize(s string) (KernelSize, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return KernelSize{}, &InvalidParameterError{Param: "kernel size", Value: s, Reason: "expected WxH"}
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil {
		return KernelSize{}, &InvalidParameterError{Param: "kernel size", Value: s, Reason: "dimensions must be integers"}
	}
	k := KernelSize{W: w, H: h}
	if err := k.Validate(); err != nil {
		return KernelSize{}, err
	}
	return k, nil
}

// Smooth applies a separable Gaussian blur to p and returns a new plane.
//
// The standard deviation along each axis is derived from the kernel length n as
// 0.3*((n-1)*0.5-1)+0.8; kernels of length 1, 3, 5, and 7 use the fixed binomial
// taps for that case. Border pixels are replicated. Each pass is rounded to
// 8-bit, so the output holds integer intensities just like an 8-bit source.
//
// A 1x1 kernel returns an unmodified copy.
//
// Parameters:
//   - p: The plane to smooth. It is not modified.
//   - k: Kernel width and height, both positive and odd.
//
// Returns:
//   - *Plane: A new plane with the same dimensions as p.
//   - error: Non-nil if k is invalid.
//
// # Errors
//
//   - Returns *InvalidParameterError if either kernel dimension is zero,
//     negative, or even
func Smooth(p *Plane, k KernelSize) (*Plane, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	if k.W == 1 && k.H == 1 {
		return p.Clone(), nil
	}

	opts := &convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true}

	img := p.ToGray()
	horizontal := convolution.NewKernel(k.W, 1)
	copy(horizontal.Matrix, gaussianTaps(k.W))
	vertical := convolution.NewKernel(1, k.H)
	copy(vertical.Matrix, gaussianTaps(k.H))

	rgba := convolution.Convolve(img, horizontal, opts)
	rgba = convolution.Convolve(rgba, vertical, opts)

	out := NewPlane(p.Width, p.Height)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Pix[y*out.Width+x] = float64(rgba.Pix[rgba.PixOffset(x, y)])
		}
	}
	return out, nil
}

var fixedTaps = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// gaussianTaps returns n normalized 1-D Gaussian weights.
func gaussianTaps(n int) []float64 {
	if taps, ok := fixedTaps[n]; ok {
		out := make([]float64, n)
		copy(out, taps)
		return out
	}

	sigma := 0.3*(float64(n-1)*0.5-1) + 0.8
	scale := -0.5 / (sigma * sigma)
	taps := make([]float64, n)
	var sum float64
	for i := range taps {
		x := float64(i - (n-1)/2)
		taps[i] = math.Exp(scale * x * x)
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}
