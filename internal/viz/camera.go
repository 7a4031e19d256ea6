package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/body"
)

// Camera is an orthographic view onto the orbital plane. With zero tilt and
// spin it looks straight down the Y axis, so world X maps to screen x and
// world Z to screen y.
type Camera struct {
	Tilt, Spin float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1.0}
}

func (c *Camera) TiltBy(a float64) {
	c.Tilt = mgl64.Clamp(c.Tilt+a, -math.Pi/2, math.Pi/2)
}
func (c *Camera) SpinBy(a float64) { c.Spin += a }
func (c *Camera) ZoomIn()          { c.Zoom = math.Min(500, c.Zoom*1.5) }
func (c *Camera) ZoomOut()         { c.Zoom = math.Max(0.1, c.Zoom/1.5) }

// Rotate applies spin about Y, then tilt about X.
func (c *Camera) Rotate(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Rotate3DX(c.Tilt).Mul3(mgl64.Rotate3DY(c.Spin)).Mul3x1(p)
}

// Project maps p to pixel coordinates on a sw x sh canvas, where extent
// world units from the origin fill half the shorter side at zoom 1.
func (c *Camera) Project(p mgl64.Vec3, extent float64, sw, sh int) (int, int, bool) {
	if extent <= 0 {
		extent = 1
	}
	r := c.Rotate(p)
	minDim := float64(min(sw, sh))
	scale := c.Zoom * (minDim / 2) / extent
	sx := int(math.Round(r.X()*scale)) + sw/2
	sy := int(math.Round(r.Z()*scale)) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Extent is the largest distance of any body from the origin.
func Extent(bodies []body.Snapshot) float64 {
	ext := 0.0
	for _, b := range bodies {
		ext = math.Max(ext, mgl64.Vec3(b.Position).Len())
	}
	return ext
}

// dotRadius compresses display radii, which span three orders of
// magnitude, into a few pixels.
func dotRadius(r float64) int {
	return int(math.Round(math.Log10(1 + r)))
}

// Render draws trails, then bodies with their initials, onto c.
func Render(c *Canvas, bodies []body.Snapshot, cam *Camera) {
	sw, sh := c.PixelSize()
	ext := Extent(bodies)

	for _, b := range bodies {
		var px, py int
		for i, pt := range b.Trail {
			x, y, _ := cam.Project(mgl64.Vec3(pt), ext, sw, sh)
			if i > 0 {
				c.DrawLine(px, py, x, y)
			}
			px, py = x, y
		}
	}

	for _, b := range bodies {
		x, y, ok := cam.Project(mgl64.Vec3(b.Position), ext, sw, sh)
		if !ok {
			continue
		}
		r := dotRadius(b.Radius)
		c.Disc(x, y, r)
		if b.HasRings {
			c.Ring(x, y, r+2)
		}
	}

	for _, b := range bodies {
		x, y, ok := cam.Project(mgl64.Vec3(b.Position), ext, sw, sh)
		if !ok || b.Name == "" || b.Emissive {
			continue
		}
		c.Label(x+2*(dotRadius(b.Radius)+2), y, []rune(b.Name)[0])
	}
}
