// Package body models a single celestial object.
//
// A [Body] carries the physical quantities integrated by the simulator
// (mass, radius, position, velocity) and presentation attributes that pass
// through the physics untouched. Optional records ([Ring], [Gradient],
// [OrbitalElements]) are nil when absent.
//
// Each body keeps a bounded [Trail] of sampled positions. [Body.Snapshot]
// produces an independent, display-ready copy of the body.
package body
