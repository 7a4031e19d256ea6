package catalog

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/body"
)

// Figure-eight choreography of three equal masses (Chenciner & Montgomery),
// in units where G = M = 1.
var (
	figure8Pos = [2]float64{0.97000436, -0.24308753}
	figure8Vel = [2]float64{-0.93240737, -0.86473146}
)

// figure8Period is the orbit period in the same units.
const figure8Period = 6.32591398

// Figure8 is three solar-mass stars on the figure-eight orbit, with lengths
// scaled to AU. The choreography lies in the XZ plane.
func Figure8() []body.Spec {
	const G = 6.67430e-11
	unitT := math.Sqrt(AU * AU * AU / (G * SunMass))
	unitV := AU / unitT

	at := func(x, z, s float64) mgl64.Vec3 { return mgl64.Vec3{x * s, 0, z * s} }
	star := func(name string, pos, vel mgl64.Vec3, c body.RGB) body.Spec {
		return body.Spec{
			Name:     name,
			Mass:     SunMass,
			Radius:   6.96e8,
			Position: pos,
			Velocity: vel,
			Color:    c,
			Emissive: true,
			Orbit:    &body.OrbitalElements{Period: figure8Period * unitT},
		}
	}

	p, v := figure8Pos, figure8Vel
	return []body.Spec{
		star("Alpha", at(p[0], p[1], AU), at(-v[0]/2, -v[1]/2, unitV), body.RGB{1, 0.85, 0.4}),
		star("Beta", at(-p[0], -p[1], AU), at(-v[0]/2, -v[1]/2, unitV), body.RGB{0.6, 0.8, 1}),
		star("Gamma", at(0, 0, AU), at(v[0], v[1], unitV), body.RGB{1, 0.5, 0.4}),
	}
}
