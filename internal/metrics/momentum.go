package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MomentumDrift is the largest change in total linear momentum, in kg·m/s,
// from the first sample.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s Sample) {
	if m.samples == 0 {
		m.initial = s.Momentum
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, s.Momentum.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
