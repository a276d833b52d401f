package orient

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ironsheep/face-rotation/internal/imaging"
)

const tolerance = 1e-9

func TestScore_MirrorSymmetric(t *testing.T) {
	// Left-right mirrored content with a vertical gradient
	p := imaging.NewPlane(40, 30)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width/2; x++ {
			v := float64((x*13 + y*7) % 200)
			p.Set(x, y, v)
			p.Set(p.Width-1-x, y, v)
		}
	}

	horizontal, _, err := Split(p)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	score, err := Score(horizontal)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if math.Abs(score-1) > tolerance {
		t.Errorf("left-right score: got %v, want 1", score)
	}
}

func TestScore_Inverted(t *testing.T) {
	a := imaging.NewPlane(4, 4)
	b := imaging.NewPlane(4, 4)
	for i := range a.Pix {
		a.Pix[i] = float64(i)
		b.Pix[i] = float64(100 - 3*i)
	}
	score, err := Score(HalfPair{First: a, Second: b})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if math.Abs(score+1) > tolerance {
		t.Errorf("got %v, want -1", score)
	}
}

func TestScore_BrightnessInvariant(t *testing.T) {
	a := imaging.NewPlane(5, 5)
	b := imaging.NewPlane(5, 5)
	for i := range a.Pix {
		a.Pix[i] = float64(i % 7)
		b.Pix[i] = 2*a.Pix[i] + 40
	}
	score, err := Score(HalfPair{First: a, Second: b})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if math.Abs(score-1) > tolerance {
		t.Errorf("got %v, want 1", score)
	}
}

func TestScore_ZeroVariance(t *testing.T) {
	flat := imaging.NewPlane(6, 6)
	for i := range flat.Pix {
		flat.Pix[i] = 200
	}
	textured := rampPlane(6, 6)

	tests := []struct {
		name string
		pair HalfPair
	}{
		{"both flat", HalfPair{First: flat, Second: flat}},
		{"first flat", HalfPair{First: flat, Second: textured}},
		{"second flat", HalfPair{First: textured, Second: flat}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Score(tt.pair)
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if score != 0 {
				t.Errorf("got %v, want 0", score)
			}
		})
	}
}

// A uniform image is its own mirror image along both axes, yet neither half
// has any variance, so both scores are 0 rather than 1 and the decision falls
// through to the means, which are equal: 270.
func TestScorePairs_FlatImage(t *testing.T) {
	flat := imaging.NewPlane(8, 6)
	for i := range flat.Pix {
		flat.Pix[i] = 128
	}
	horizontal, vertical, err := Split(flat)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	scores, err := ScorePairs(horizontal, vertical)
	if err != nil {
		t.Fatalf("ScorePairs failed: %v", err)
	}
	if scores != (SymmetryScore{LeftRight: 0, TopBottom: 0}) {
		t.Errorf("got %+v, want both scores 0", scores)
	}
	if got := Decide(horizontal, vertical, scores); got != Rotate270 {
		t.Errorf("flat image decided %v, want 270", got)
	}
}

func TestScore_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		w, h := 2+rng.Intn(30), 2+rng.Intn(30)
		p := imaging.NewPlane(w, h)
		for j := range p.Pix {
			p.Pix[j] = float64(rng.Intn(256))
		}
		horizontal, vertical, err := Split(p)
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		scores, err := ScorePairs(horizontal, vertical)
		if err != nil {
			t.Fatalf("ScorePairs failed: %v", err)
		}
		for name, v := range scores.Map() {
			if v < -1 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%dx%d %s score out of range: %v", w, h, name, v)
			}
		}
	}
}

func TestScore_ShapeMismatch(t *testing.T) {
	_, err := Score(HalfPair{First: imaging.NewPlane(3, 4), Second: imaging.NewPlane(4, 3)})
	var shapeErr *ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("got %v, want *ShapeMismatchError", err)
	}
	if shapeErr.First.X != 3 || shapeErr.Second.X != 4 {
		t.Errorf("unexpected shapes in error: %v", shapeErr)
	}
}

func TestSymmetryScore_Map(t *testing.T) {
	m := SymmetryScore{LeftRight: 0.5, TopBottom: -0.25}.Map()
	if len(m) != 2 {
		t.Fatalf("got %d entries, want 2", len(m))
	}
	if m["left-right"] != 0.5 || m["top-bottom"] != -0.25 {
		t.Errorf("unexpected entries: %v", m)
	}
}
