package sim

import "github.com/san-kum/orrery/internal/body"

// G is the gravitational constant in m^3 kg^-1 s^-2.
const G = 6.67430e-11

// TrailSampleInterval is the step interval between trail samples.
const TrailSampleInterval = 10

// State is a self-consistent view of the system after a completed step.
type State struct {
	Time   float64         `json:"time"`
	Bodies []body.Snapshot `json:"bodies"`
}

// Energy is a diagnostic in physical units (J).
type Energy struct {
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
	Total     float64 `json:"total"`
}
