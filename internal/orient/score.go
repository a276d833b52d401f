package orient

import (
	"image"
	"math"
)

// SymmetryScore holds the self-similarity of the image along both axes.
// Each value lies in [-1, 1]; higher means more mirror-symmetric.
type SymmetryScore struct {
	LeftRight float64 `json:"left-right"`
	TopBottom float64 `json:"top-bottom"`
}

// Map returns the scores keyed by axis name.
func (s SymmetryScore) Map() map[string]float64 {
	return map[string]float64{
		"left-right": s.LeftRight,
		"top-bottom": s.TopBottom,
	}
}

// Score returns the normalized cross-correlation coefficient of the pair at zero
// offset: the first half is treated as a template matched against the second
// without any spatial search.
//
//	score = sum(a'*b') / sqrt(sum(a'^2) * sum(b'^2)),  a' = a - mean(a), b' = b - mean(b)
//
// A half with no variance carries no structure to compare and scores 0.
//
// Parameters:
//   - pair: Two halves, the second already flipped onto the first.
//
// Returns:
//   - float64: The correlation in [-1, 1].
//   - error: Non-nil if the halves cannot be compared.
//
// # Errors
//
//   - Returns *ShapeMismatchError if the halves differ in size
//   - Returns *InvalidImageError if a half is empty
func Score(pair HalfPair) (float64, error) {
	a, b := pair.First, pair.Second
	if !a.SameShape(b) {
		return 0, &ShapeMismatchError{
			First:  image.Pt(a.Width, a.Height),
			Second: image.Pt(b.Width, b.Height),
		}
	}
	if len(a.Pix) == 0 {
		return 0, &InvalidImageError{Width: a.Width, Height: a.Height}
	}

	meanA, meanB := a.Mean(), b.Mean()
	var cross, varA, varB float64
	for i := range a.Pix {
		da := a.Pix[i] - meanA
		db := b.Pix[i] - meanB
		cross += da * db
		varA += da * da
		varB += db * db
	}

	denom := math.Sqrt(varA * varB)
	if denom <= 0 || math.IsNaN(denom) {
		return 0, nil
	}
	return clampUnit(cross / denom), nil
}

// ScorePairs scores both pairs produced by Split.
func ScorePairs(horizontal, vertical HalfPair) (SymmetryScore, error) {
	lr, err := Score(horizontal)
	if err != nil {
		return SymmetryScore{}, err
	}
	tb, err := Score(vertical)
	if err != nil {
		return SymmetryScore{}, err
	}
	return SymmetryScore{LeftRight: lr, TopBottom: tb}, nil
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
