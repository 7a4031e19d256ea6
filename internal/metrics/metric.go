// Package metrics accumulates conservation diagnostics over a run.
package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/sim"
)

// Sample is one observation of the conserved quantities.
type Sample struct {
	Time     float64
	Energy   sim.Energy
	Momentum mgl64.Vec3
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observe takes a Sample from s. It fails when s has no bodies.
func Observe(s *sim.Simulator) (Sample, error) {
	e, err := s.Energy()
	if err != nil {
		return Sample{}, err
	}
	p, err := s.Momentum()
	if err != nil {
		return Sample{}, err
	}
	return Sample{Time: s.Time(), Energy: e, Momentum: p}, nil
}

// Default returns a fresh set of every diagnostic.
func Default() []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewBound(),
	}
}

// Values collects each metric's value by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
