package render

import (
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/scene"
)

// boxEdges joins the AABB corners that differ in exactly one axis.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// Overlay draws 3D guide lines over a rendered framebuffer by projecting
// them through the camera.
type Overlay struct {
	camera Camera
	fb     *Framebuffer
}

// NewOverlay creates an overlay drawing into fb.
func NewOverlay(camera Camera, fb *Framebuffer) *Overlay {
	return &Overlay{
		camera: camera,
		fb:     fb,
	}
}

// WorldToScreen projects a world point to framebuffer coordinates.
// visible is false outside the view volume.
func (o *Overlay) WorldToScreen(p math3d.Vec3) (x, y float64, visible bool) {
	ndc := o.camera.NormalizePoint(p)

	visible = ndc.IsFinite() &&
		ndc.X >= -1 && ndc.X <= 1 &&
		ndc.Y >= -1 && ndc.Y <= 1 &&
		ndc.Z >= -1 && ndc.Z <= 1

	// Image rows run top-down while Z points up
	x = (ndc.X + 1) * 0.5 * float64(o.fb.Width)
	y = (1 - ndc.Z) * 0.5 * float64(o.fb.Height)
	return x, y, visible
}

// DrawLine3D draws a line in 3D space.
func (o *Overlay) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, vis1 := o.WorldToScreen(p1)
	x2, y2, vis2 := o.WorldToScreen(p2)

	// Simple clipping: only draw if both ends are in the view volume
	if !vis1 || !vis2 {
		return
	}

	o.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawBox draws the 12 edges of an axis-aligned box.
func (o *Overlay) DrawBox(box models.AABB, color Color) {
	corners := box.Corners()
	for _, edge := range boxEdges {
		o.DrawLine3D(corners[edge[0]], corners[edge[1]], color)
	}
}

// DrawPoint draws a point as a small 3D cross.
func (o *Overlay) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	half := size / 2
	for axis := range 3 {
		var d math3d.Vec3
		switch axis {
		case 0:
			d.X = half
		case 1:
			d.Y = half
		case 2:
			d.Z = half
		}
		o.DrawLine3D(pos.Sub(d), pos.Add(d), color)
	}
}

// DrawAxes draws the world axes at the origin.
func (o *Overlay) DrawAxes(length float64) {
	origin := math3d.Zero3()
	o.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	o.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	o.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawScene outlines the world bounds of every mesh and marks the light.
func (o *Overlay) DrawScene(s *scene.Scene, light *scene.PointLight, color Color) {
	for _, m := range s.Meshes {
		o.DrawBox(m.WorldBounds(), color)
	}
	if light != nil {
		o.DrawPoint(light.Position(), 0.2, ColorWhite)
	}
}
