package render

import (
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

func TestFramebufferPixels(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Clear(ColorBlue)
	fb.SetPixel(1, 2, ColorRed)
	fb.SetPixel(-1, 0, ColorRed) // ignored
	fb.SetPixel(4, 0, ColorRed)  // ignored

	if got := fb.GetPixel(1, 2); got != ColorRed {
		t.Errorf("GetPixel(1, 2) = %v, want red", got)
	}
	if got := fb.GetPixel(0, 0); got != ColorBlue {
		t.Errorf("GetPixel(0, 0) = %v, want blue", got)
	}
	if got := fb.GetPixel(10, 10); got != (Color{}) {
		t.Errorf("out of bounds = %v, want transparent", got)
	}
}

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.DrawLine(0, 0, 7, 7, ColorWhite)
	for i := range 8 {
		if fb.GetPixel(i, i) != ColorWhite {
			t.Errorf("diagonal pixel %d not drawn", i)
		}
	}
	if fb.GetPixel(7, 0) == ColorWhite {
		t.Error("off-diagonal pixel drawn")
	}
}

func TestFramebufferImageRoundTrip(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.SetPixel(2, 1, RGB(10, 20, 30))

	back := FromImage(fb.ToImage())
	if back.Width != 3 || back.Height != 2 {
		t.Fatalf("size = %dx%d", back.Width, back.Height)
	}
	if got := back.GetPixel(2, 1); got != RGB(10, 20, 30) {
		t.Errorf("pixel = %v", got)
	}
}

func TestFramebufferScaled(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	fb.Clear(RGB(200, 100, 50))

	small := fb.Scaled(5, 3)
	if small.Width != 5 || small.Height != 3 {
		t.Fatalf("size = %dx%d, want 5x3", small.Width, small.Height)
	}
	for i, px := range small.Pixels {
		if px != RGB(200, 100, 50) {
			t.Fatalf("pixel %d = %v, solid color should survive resampling", i, px)
		}
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   math3d.Vec3
		want Color
	}{
		{"black", math3d.V3(0, 0, 0), RGB(0, 0, 0)},
		{"white", math3d.V3(1, 1, 1), RGB(255, 255, 255)},
		{"clamped", math3d.V3(2, -1, 0.5), RGB(255, 0, 127)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := toRGBA(tc.in); got != tc.want {
				t.Errorf("toRGBA(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTerminalRendererSize(t *testing.T) {
	tr := NewTerminalRenderer(nil, 80, 24)
	w, h := tr.FramebufferSize()
	if w != 80 || h != 48 {
		t.Errorf("FramebufferSize = %dx%d, want 80x48", w, h)
	}
}
