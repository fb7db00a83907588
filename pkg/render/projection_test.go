package render

import (
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

func TestProjectionRoundTrip(t *testing.T) {
	projections := []struct {
		name string
		p    Projection
	}{
		{"orthographic", NewOrthographicProjection(-1, 3, -2, 2, 1, 20)},
		{"perspective", NewPerspectiveProjection(1, 60)},
		{"perspective narrow", NewPerspectiveProjection(0.5, 4)},
	}
	points := []math3d.Vec3{
		math3d.V3(0, 1, 0),
		math3d.V3(0.3, 2, -0.7),
		math3d.V3(-5, 3.5, 2),
		math3d.V3(1, 0.75, 1),
	}

	for _, tc := range projections {
		t.Run(tc.name, func(t *testing.T) {
			for _, p := range points {
				got := tc.p.ApplyInverse(tc.p.Apply(p))
				if !vecNear(got, p, 1e-9) {
					t.Errorf("round trip %v -> %v", p, got)
				}
			}
		})
	}
}

func TestPerspectiveKeepsDepthRange(t *testing.T) {
	p := NewPerspectiveProjection(1, 60)
	if got := p.Apply(math3d.V3(2, 1, 3)); !vecNear(got, math3d.V3(2, 1, 3), 1e-12) {
		t.Errorf("near plane should be fixed, got %v", got)
	}
	if got := p.Apply(math3d.V3(60, 60, 0)); !vecNear(got, math3d.V3(1, 60, 0), 1e-9) {
		t.Errorf("far plane maps to %v, want (1, 60, 0)", got)
	}
}
