package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// planeOf builds a plane from rows of samples.
func planeOf(rows ...[]float64) *Plane {
	p := NewPlane(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(p.Pix[y*p.Width:], row)
	}
	return p
}

func TestPlane_FlipH(t *testing.T) {
	p := planeOf(
		[]float64{1, 2, 3},
		[]float64{4, 5, 6},
	)
	got := p.FlipH()
	want := []float64{3, 2, 1, 6, 5, 4}
	for i := range want {
		if got.Pix[i] != want[i] {
			t.Fatalf("FlipH: got %v, want %v", got.Pix, want)
		}
	}
	if p.Pix[0] != 1 {
		t.Error("FlipH modified the source plane")
	}
}

func TestPlane_FlipV(t *testing.T) {
	p := planeOf(
		[]float64{1, 2},
		[]float64{3, 4},
		[]float64{5, 6},
	)
	got := p.FlipV()
	want := []float64{5, 6, 3, 4, 1, 2}
	for i := range want {
		if got.Pix[i] != want[i] {
			t.Fatalf("FlipV: got %v, want %v", got.Pix, want)
		}
	}
}

func TestPlane_Sub(t *testing.T) {
	p := planeOf(
		[]float64{1, 2, 3, 4},
		[]float64{5, 6, 7, 8},
		[]float64{9, 10, 11, 12},
	)

	sub, err := p.Sub(image.Rect(1, 1, 3, 3))
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if sub.Width != 2 || sub.Height != 2 {
		t.Fatalf("dimensions: got %dx%d, want 2x2", sub.Width, sub.Height)
	}
	want := []float64{6, 7, 10, 11}
	for i := range want {
		if sub.Pix[i] != want[i] {
			t.Fatalf("Sub: got %v, want %v", sub.Pix, want)
		}
	}

	sub.Set(0, 0, 99)
	if p.At(1, 1) != 6 {
		t.Error("Sub shares storage with the source plane")
	}

	if _, err := p.Sub(image.Rect(2, 0, 5, 1)); err == nil {
		t.Error("Sub should fail for a region outside the plane")
	}
}

func TestPlane_Mean(t *testing.T) {
	tests := []struct {
		name string
		p    *Plane
		want float64
	}{
		{"uniform", planeOf([]float64{7, 7}, []float64{7, 7}), 7},
		{"mixed", planeOf([]float64{0, 10}, []float64{20, 30}), 15},
		{"empty", NewPlane(0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Mean(); got != tt.want {
				t.Errorf("Mean: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlane_ToGray(t *testing.T) {
	p := planeOf([]float64{-5, 12.4, 12.6, 300})
	g := p.ToGray()
	want := []uint8{0, 12, 13, 255}
	for i := range want {
		if g.Pix[i] != want[i] {
			t.Errorf("pixel %d: got %d, want %d", i, g.Pix[i], want[i])
		}
	}
}

func TestPlaneFromImage(t *testing.T) {
	tests := []struct {
		name  string
		c     color.Color
		model LumaModel
		want  float64
	}{
		{"bt601 white", color.RGBA{255, 255, 255, 255}, LumaBT601, 255},
		{"bt601 black", color.RGBA{0, 0, 0, 255}, LumaBT601, 0},
		{"bt601 red", color.RGBA{255, 0, 0, 255}, LumaBT601, 76},
		{"bt601 green", color.RGBA{0, 255, 0, 255}, LumaBT601, 150},
		{"bt601 blue", color.RGBA{0, 0, 255, 255}, LumaBT601, 29},
		{"lab white", color.RGBA{255, 255, 255, 255}, LumaLab, 255},
		{"lab black", color.RGBA{0, 0, 0, 255}, LumaLab, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 2, 2))
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					img.Set(x, y, tt.c)
				}
			}
			p := PlaneFromImage(img, tt.model)
			if got := p.At(1, 1); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaneFromImage_Gray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 1, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 0x8000})
	if got := PlaneFromImage(img, LumaBT601).At(0, 0); got != 128 {
		t.Errorf("got %v, want 128", got)
	}
}

func TestPlaneFromGray_OffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.Gray)

	p := PlaneFromGray(sub)
	want := []float64{5, 6, 9, 10}
	for i := range want {
		if p.Pix[i] != want[i] {
			t.Fatalf("got %v, want %v", p.Pix, want)
		}
	}
}

func TestParseLumaModel(t *testing.T) {
	for _, s := range []string{"", "bt601", "lab"} {
		if _, err := ParseLumaModel(s); err != nil {
			t.Errorf("ParseLumaModel(%q): %v", s, err)
		}
	}

	_, err := ParseLumaModel("hsv")
	var paramErr *InvalidParameterError
	if !errors.As(err, &paramErr) {
		t.Errorf("error type: got %T, want *InvalidParameterError", err)
	}
}
