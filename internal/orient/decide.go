package orient

import "fmt"

// Rotation is the clockwise correction, in degrees, that brings the face upright.
// See the package documentation for the convention.
type Rotation int

const (
	Upright   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Valid reports whether r is one of 0, 90, 180, 270.
func (r Rotation) Valid() bool {
	switch r {
	case Upright, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r))
}

// HalfMeans holds the average intensity of the four half regions.
// Mirroring does not change a mean, so these equal the means of the
// unmirrored regions.
type HalfMeans struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// MeansOf computes the half means of the pairs returned by Split.
func MeansOf(horizontal, vertical HalfPair) HalfMeans {
	return HalfMeans{
		Left:   horizontal.First.Mean(),
		Right:  horizontal.Second.Mean(),
		Top:    vertical.First.Mean(),
		Bottom: vertical.Second.Mean(),
	}
}

// Decide maps the split halves and their symmetry scores to a rotation.
func Decide(horizontal, vertical HalfPair, scores SymmetryScore) Rotation {
	return DecideFromMeans(MeansOf(horizontal, vertical), scores)
}

// DecideFromMeans is the decision table behind Decide.
//
// A dominant left-right score means the face is upright or upside down, and a
// brighter top half means upright. Otherwise the face lies on its side, and a
// brighter left half means the top of the head points left (90).
// Ties fall through to 180 and 270.
func DecideFromMeans(m HalfMeans, scores SymmetryScore) Rotation {
	if scores.LeftRight > scores.TopBottom {
		if m.Top > m.Bottom {
			return Upright
		}
		return Rotate180
	}
	if m.Left > m.Right {
		return Rotate90
	}
	return Rotate270
}
