package body

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/dynamo"
)

func testSpec() Spec {
	return Spec{
		Name:     "Earth",
		Mass:     5.972e24,
		Radius:   6.371e6,
		Position: mgl64.Vec3{1.496e11, 0, 0},
		Velocity: mgl64.Vec3{0, 0, 29780},
		Color:    RGB{0.2, 0.5, 0.95},
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"empty name", func(s *Spec) { s.Name = "" }},
		{"zero mass", func(s *Spec) { s.Mass = 0 }},
		{"negative mass", func(s *Spec) { s.Mass = -1 }},
		{"zero radius", func(s *Spec) { s.Radius = 0 }},
		{"NaN mass", func(s *Spec) { s.Mass = math.NaN() }},
		{"Inf position", func(s *Spec) { s.Position[1] = math.Inf(1) }},
		{"NaN velocity", func(s *Spec) { s.Velocity[2] = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec()
			tt.mutate(&spec)
			if _, err := New(spec); !errors.Is(err, dynamo.ErrInvalidBody) {
				t.Errorf("expected ErrInvalidBody, got %v", err)
			}
		})
	}
}

func TestNew_OptionalRecordsAbsent(t *testing.T) {
	b, err := New(testSpec())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	snap := b.Snapshot(true)
	if snap.HasRings || snap.Rings != nil || snap.Gradient != nil || snap.OrbitalPeriod != nil {
		t.Errorf("expected no optional records, got %+v", snap)
	}
}

func TestNew_CopiesOptionalRecords(t *testing.T) {
	spec := testSpec()
	spec.Rings = &Ring{InnerRadius: 1.3, OuterRadius: 2.3, Color: RGB{0.9, 0.85, 0.7}, Opacity: 0.7}
	spec.Orbit = &OrbitalElements{SemiMajorAxis: 1.496e11, Period: 365.25 * 86400}

	b, err := New(spec)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	spec.Rings.Opacity = 0.1
	spec.Orbit.Period = 1

	if b.Rings.Opacity != 0.7 {
		t.Errorf("ring aliased spec: opacity %f", b.Rings.Opacity)
	}
	snap := b.Snapshot(false)
	if !snap.HasRings || snap.Rings == nil {
		t.Fatal("expected rings in snapshot")
	}
	if snap.OrbitalPeriod == nil || *snap.OrbitalPeriod != 365.25*86400 {
		t.Errorf("unexpected orbital period %v", snap.OrbitalPeriod)
	}

	snap.Rings.Opacity = 0
	if b.Rings.Opacity != 0.7 {
		t.Error("snapshot rings alias the body")
	}
}

func TestSnapshot_OrbitalPeriodPresentWithOrbit(t *testing.T) {
	spec := testSpec()
	spec.Orbit = &OrbitalElements{SemiMajorAxis: 1.496e11}
	b, err := New(spec)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	data, err := json.Marshal(b.Snapshot(true))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"orbital_period":0`) {
		t.Errorf("expected orbital_period key in %s", data)
	}
}

func TestSampleTrail_CopiesPosition(t *testing.T) {
	b, _ := New(testSpec())
	b.SampleTrail()
	original := b.Position
	b.Position = b.Position.Add(mgl64.Vec3{1e9, 0, 0})

	trail := b.trail.Last(TrailCapacity)
	if len(trail) != 1 {
		t.Fatalf("expected 1 trail point, got %d", len(trail))
	}
	if trail[0] != original {
		t.Errorf("trail point changed with position: %v", trail[0])
	}
}

func TestSampleTrail_Bounded(t *testing.T) {
	b, _ := New(testSpec())
	for i := 0; i < TrailCapacity+250; i++ {
		b.Position = mgl64.Vec3{float64(i), 0, 0}
		b.SampleTrail()
	}

	if b.trail.Len() != TrailCapacity {
		t.Fatalf("expected trail length %d, got %d", TrailCapacity, b.trail.Len())
	}
	trail := b.trail.Last(TrailCapacity)
	if trail[0][0] != 250 {
		t.Errorf("expected oldest point 250, got %v", trail[0][0])
	}
	if trail[len(trail)-1][0] != TrailCapacity+249 {
		t.Errorf("expected newest point %d, got %v", TrailCapacity+249, trail[len(trail)-1][0])
	}
}

func TestSnapshot_Scaling(t *testing.T) {
	b, _ := New(testSpec())
	b.SampleTrail()

	scaled := b.Snapshot(true)
	raw := b.Snapshot(false)

	if math.Abs(scaled.Position[0]-1.496e11*DistanceScale) > 1e-12 {
		t.Errorf("scaled position %v", scaled.Position)
	}
	if math.Abs(scaled.Radius-6.371e6*RadiusScale) > 1e-12 {
		t.Errorf("scaled radius %v", scaled.Radius)
	}
	if scaled.Velocity != raw.Velocity {
		t.Error("velocity must stay in physical units")
	}
	if raw.Position[0] != 1.496e11 {
		t.Errorf("unscaled position %v", raw.Position)
	}
	if math.Abs(scaled.Trail[0][0]-1.496e11*DistanceScale) > 1e-12 {
		t.Errorf("scaled trail %v", scaled.Trail[0])
	}
}

func TestSnapshot_TrailWindow(t *testing.T) {
	b, _ := New(testSpec())
	for i := 0; i < 150; i++ {
		b.Position = mgl64.Vec3{float64(i), 0, 0}
		b.SampleTrail()
	}

	snap := b.Snapshot(false)
	if len(snap.Trail) != SnapshotTrailLength {
		t.Fatalf("expected %d trail points, got %d", SnapshotTrailLength, len(snap.Trail))
	}
	if snap.Trail[0][0] != 50 || snap.Trail[99][0] != 149 {
		t.Errorf("expected most recent window [50, 149], got [%v, %v]", snap.Trail[0][0], snap.Trail[99][0])
	}

	snap.Trail[0][0] = -1
	if b.trail.Last(TrailCapacity)[50][0] != 50 {
		t.Error("snapshot trail aliases body trail")
	}
}

func TestTrail_Last(t *testing.T) {
	tr := NewTrail(3)
	if got := tr.Last(5); len(got) != 0 {
		t.Errorf("empty trail returned %d points", len(got))
	}
	for i := 1; i <= 4; i++ {
		tr.Push(mgl64.Vec3{float64(i), 0, 0})
	}
	got := tr.Last(2)
	if len(got) != 2 || got[0][0] != 3 || got[1][0] != 4 {
		t.Errorf("Last(2) = %v", got)
	}
}
