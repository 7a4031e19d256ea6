package catalog

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/body"
)

const (
	AU      = 1.496e11
	Day     = 86400.0
	SunMass = 1.989e30
)

// SolarSystem returns the Sun and the eight planets with orbits in the XZ
// plane (Y is height). Each call returns fresh records.
func SolarSystem() []body.Spec {
	return []body.Spec{
		{
			Name: "Sun", Mass: SunMass, Radius: 6.96e8,
			Color: body.RGB{1.0, 0.85, 0.2}, Emissive: true,
			Gradient: &body.Gradient{From: body.RGB{1.0, 0.9, 0.2}, To: body.RGB{1.0, 0.7, 0.0}},
		},
		planet("Mercury", 3.301e23, 2.44e6, 0.387, 47870, body.RGB{0.7, 0.7, 0.7},
			body.Gradient{From: body.RGB{0.6, 0.6, 0.6}, To: body.RGB{0.8, 0.8, 0.8}},
			0.206, 7.0, 87.97),
		planet("Venus", 4.867e24, 6.05e6, 0.723, 35020, body.RGB{0.95, 0.75, 0.4},
			body.Gradient{From: body.RGB{0.95, 0.75, 0.4}, To: body.RGB{0.85, 0.65, 0.3}},
			0.007, 3.4, 224.7),
		planet("Earth", 5.972e24, 6.371e6, 1.0, 29780, body.RGB{0.2, 0.5, 0.95},
			body.Gradient{From: body.RGB{0.1, 0.3, 0.8}, To: body.RGB{0.3, 0.6, 1.0}},
			0.017, 0.0, 365.25),
		planet("Mars", 6.417e23, 3.39e6, 1.524, 24070, body.RGB{0.95, 0.45, 0.2},
			body.Gradient{From: body.RGB{0.95, 0.45, 0.2}, To: body.RGB{0.85, 0.35, 0.1}},
			0.093, 1.85, 686.98),
		planet("Jupiter", 1.898e27, 6.99e7, 5.203, 13070, body.RGB{0.85, 0.75, 0.55},
			body.Gradient{From: body.RGB{0.9, 0.8, 0.6}, To: body.RGB{0.8, 0.7, 0.5}},
			0.048, 1.3, 4332.59),
		withRings(planet("Saturn", 5.683e26, 5.82e7, 9.537, 9690, body.RGB{0.95, 0.85, 0.65},
			body.Gradient{From: body.RGB{0.95, 0.85, 0.65}, To: body.RGB{0.85, 0.75, 0.55}},
			0.056, 2.5, 10759.22),
			body.Ring{InnerRadius: 1.3, OuterRadius: 2.3, Color: body.RGB{0.9, 0.85, 0.7}, Opacity: 0.7}),
		planet("Uranus", 8.681e25, 2.54e7, 19.191, 6810, body.RGB{0.4, 0.75, 0.95},
			body.Gradient{From: body.RGB{0.3, 0.7, 0.9}, To: body.RGB{0.5, 0.8, 1.0}},
			0.047, 0.8, 30688.5),
		planet("Neptune", 1.024e26, 2.46e7, 30.069, 5430, body.RGB{0.2, 0.4, 0.95},
			body.Gradient{From: body.RGB{0.15, 0.35, 0.9}, To: body.RGB{0.25, 0.45, 1.0}},
			0.009, 1.8, 60182),
	}
}

// planet places a body at distance au on +X moving along +Z.
func planet(name string, mass, radius, au, speed float64, color body.RGB, grad body.Gradient, ecc, incl, periodDays float64) body.Spec {
	g := grad
	return body.Spec{
		Name:     name,
		Mass:     mass,
		Radius:   radius,
		Position: mgl64.Vec3{au * AU, 0, 0},
		Velocity: mgl64.Vec3{0, 0, speed},
		Color:    color,
		Gradient: &g,
		Orbit: &body.OrbitalElements{
			SemiMajorAxis: au * AU,
			Eccentricity:  ecc,
			Inclination:   incl,
			Period:        periodDays * Day,
		},
	}
}

func withRings(s body.Spec, r body.Ring) body.Spec {
	s.Rings = &r
	return s
}
