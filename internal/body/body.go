package body

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/dynamo"
)

const (
	// TrailCapacity bounds the number of sampled positions kept per body.
	TrailCapacity = 1000
	// SnapshotTrailLength is the number of recent trail points in a snapshot.
	SnapshotTrailLength = 100

	// DistanceScale converts meters to display units.
	DistanceScale = 2e-9
	// RadiusScale converts body radii to display units.
	RadiusScale = 3e-7
)

// RGB is a color with components in [0, 1].
type RGB [3]float64

// Ring describes a planetary ring system. Radii are multiples of the body radius.
type Ring struct {
	InnerRadius float64 `yaml:"inner_radius" json:"inner_radius"`
	OuterRadius float64 `yaml:"outer_radius" json:"outer_radius"`
	Color       RGB     `yaml:"color" json:"color"`
	Opacity     float64 `yaml:"opacity" json:"opacity"`
}

// Gradient is a two-stop surface color gradient.
type Gradient struct {
	From RGB `yaml:"from" json:"from"`
	To   RGB `yaml:"to" json:"to"`
}

// OrbitalElements is reference data; the integrator never reads it.
type OrbitalElements struct {
	SemiMajorAxis float64 `yaml:"semi_major_axis" json:"semi_major_axis"`
	Eccentricity  float64 `yaml:"eccentricity" json:"eccentricity"`
	Inclination   float64 `yaml:"inclination" json:"inclination"` // degrees
	Period        float64 `yaml:"period" json:"period"`           // seconds
}

// Spec is one dataset entry describing a body's initial conditions.
type Spec struct {
	Name     string           `yaml:"name"`
	Mass     float64          `yaml:"mass"`
	Radius   float64          `yaml:"radius"`
	Position mgl64.Vec3       `yaml:"position"`
	Velocity mgl64.Vec3       `yaml:"velocity"`
	Color    RGB              `yaml:"color"`
	Emissive bool             `yaml:"emissive"`
	Rings    *Ring            `yaml:"rings,omitempty"`
	Gradient *Gradient        `yaml:"gradient,omitempty"`
	Orbit    *OrbitalElements `yaml:"orbital_elements,omitempty"`
}

// Validate checks the physical invariants of the spec.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty name", dynamo.ErrInvalidBody)
	}
	if !(s.Mass > 0) || !dynamo.IsFinite(s.Mass) {
		return fmt.Errorf("%w: %s: mass must be positive, got %g", dynamo.ErrInvalidBody, s.Name, s.Mass)
	}
	if !(s.Radius > 0) || !dynamo.IsFinite(s.Radius) {
		return fmt.Errorf("%w: %s: radius must be positive, got %g", dynamo.ErrInvalidBody, s.Name, s.Radius)
	}
	for i := 0; i < 3; i++ {
		if !dynamo.IsFinite(s.Position[i]) || !dynamo.IsFinite(s.Velocity[i]) {
			return fmt.Errorf("%w: %s: non-finite initial kinematics", dynamo.ErrInvalidBody, s.Name)
		}
	}
	return nil
}

type Body struct {
	Name     string
	Mass     float64
	Radius   float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	// Acceleration caches the last evaluated acceleration; it is not state.
	Acceleration mgl64.Vec3

	Color    RGB
	Emissive bool
	Rings    *Ring
	Gradient *Gradient
	Orbit    *OrbitalElements

	trail *Trail
}

// New builds a body from spec. Optional records are copied so the spec
// can be reused.
func New(spec Spec) (*Body, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	b := &Body{
		Name:     spec.Name,
		Mass:     spec.Mass,
		Radius:   spec.Radius,
		Position: spec.Position,
		Velocity: spec.Velocity,
		Color:    spec.Color,
		Emissive: spec.Emissive,
		trail:    NewTrail(TrailCapacity),
	}
	if spec.Rings != nil {
		r := *spec.Rings
		b.Rings = &r
	}
	if spec.Gradient != nil {
		g := *spec.Gradient
		b.Gradient = &g
	}
	if spec.Orbit != nil {
		o := *spec.Orbit
		b.Orbit = &o
	}
	return b, nil
}

// SampleTrail records the current position. Vec3 is an array, so the
// stored point is a copy.
func (b *Body) SampleTrail() {
	b.trail.Push(b.Position)
}

// Snapshot is the presentation record for one body.
type Snapshot struct {
	Name          string       `json:"name"`
	Position      [3]float64   `json:"position"`
	Velocity      [3]float64   `json:"velocity"`
	Radius        float64      `json:"radius"`
	Color         RGB          `json:"color"`
	Emissive      bool         `json:"emissive"`
	Trail         [][3]float64 `json:"trail"`
	HasRings      bool         `json:"has_rings,omitempty"`
	Rings         *Ring        `json:"rings,omitempty"`
	Gradient      *Gradient    `json:"gradient,omitempty"`
	OrbitalPeriod *float64     `json:"orbital_period,omitempty"`
}

// Snapshot returns an independent copy of the body for display. When scaled,
// position, radius and trail points are converted to display units; velocity
// always stays in m/s.
func (b *Body) Snapshot(scaled bool) Snapshot {
	dist, rad := 1.0, 1.0
	if scaled {
		dist, rad = DistanceScale, RadiusScale
	}

	recent := b.trail.Last(SnapshotTrailLength)
	trail := make([][3]float64, len(recent))
	for i, p := range recent {
		trail[i] = p.Mul(dist)
	}

	s := Snapshot{
		Name:     b.Name,
		Position: b.Position.Mul(dist),
		Velocity: b.Velocity,
		Radius:   b.Radius * rad,
		Color:    b.Color,
		Emissive: b.Emissive,
		Trail:    trail,
	}
	if b.Rings != nil {
		r := *b.Rings
		s.HasRings = true
		s.Rings = &r
	}
	if b.Gradient != nil {
		g := *b.Gradient
		s.Gradient = &g
	}
	if b.Orbit != nil {
		p := b.Orbit.Period
		s.OrbitalPeriod = &p
	}
	return s
}
