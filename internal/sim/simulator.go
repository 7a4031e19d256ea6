package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
)

// Simulator owns an ordered body set and advances it with the selected
// integration method. Simulator instances are NOT thread-safe; the engine
// package serializes access.
type Simulator struct {
	bodies       []*body.Body
	time         float64
	timeStep     float64
	baseTimeStep float64
	method       integrators.Method
	integrator   integrators.Integrator
	steps        int
	scratch      *integrators.Phase
}

// New returns an empty simulator. The method is resolved lazily, so an
// unsupported method surfaces as an error from Step.
func New(timeStep float64, method integrators.Method) (*Simulator, error) {
	if !dynamo.IsFinite(timeStep) || timeStep <= 0 {
		return nil, fmt.Errorf("%w: got %g", dynamo.ErrInvalidTimeStep, timeStep)
	}
	return &Simulator{
		timeStep:     timeStep,
		baseTimeStep: timeStep,
		method:       method,
		scratch:      integrators.NewPhase(0),
	}, nil
}

// Initialize replaces the body set with bodies built from specs, in order,
// and rewinds time to zero.
func (s *Simulator) Initialize(specs []body.Spec) error {
	bodies := make([]*body.Body, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if seen[spec.Name] {
			return fmt.Errorf("%w: %s", dynamo.ErrDuplicateBody, spec.Name)
		}
		seen[spec.Name] = true

		b, err := body.New(spec)
		if err != nil {
			return err
		}
		bodies = append(bodies, b)
	}

	s.bodies = bodies
	s.time = 0
	s.steps = 0
	s.scratch = integrators.NewPhase(len(bodies))
	return nil
}

func (s *Simulator) Initialized() bool { return len(s.bodies) > 0 }

func (s *Simulator) Len() int                   { return len(s.bodies) }
func (s *Simulator) Time() float64              { return s.time }
func (s *Simulator) TimeStep() float64          { return s.timeStep }
func (s *Simulator) Steps() int                 { return s.steps }
func (s *Simulator) Method() integrators.Method { return s.method }
func (s *Simulator) Body(i int) *body.Body      { return s.bodies[i] }

// SetMethod selects the integration method for subsequent steps.
func (s *Simulator) SetMethod(m integrators.Method) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownMethod, m)
	}
	s.method = m
	return nil
}

// SetTimeScale sets the time step to the base time step times factor.
func (s *Simulator) SetTimeScale(factor float64) error {
	if !dynamo.IsFinite(factor) || factor <= 0 {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidTimeScale, factor)
	}
	s.timeStep = s.baseTimeStep * factor
	return nil
}

// Accelerations evaluates the gravitational acceleration of every body at
// the trial positions pos, using the bodies' masses and radii. Contributions
// are summed in ascending body index.
func (s *Simulator) Accelerations(pos, acc []mgl64.Vec3) {
	for i := range s.bodies {
		acc[i] = s.accelerationAt(i, pos)
	}
}

// Acceleration is the acceleration of body i at the current positions.
func (s *Simulator) Acceleration(i int) mgl64.Vec3 {
	pos := make([]mgl64.Vec3, len(s.bodies))
	for j, b := range s.bodies {
		pos[j] = b.Position
	}
	return s.accelerationAt(i, pos)
}

func (s *Simulator) accelerationAt(i int, pos []mgl64.Vec3) mgl64.Vec3 {
	var acc mgl64.Vec3
	target := s.bodies[i]

	for j, other := range s.bodies {
		if j == i {
			continue
		}

		rVec := pos[j].Sub(pos[i])
		dist := rVec.Len()
		if dist == 0 {
			// coincident centers have no direction
			continue
		}

		// collision floor: overlapping bodies feel the force at contact distance
		r := dist
		if floor := target.Radius + other.Radius; r < floor {
			r = floor
		}

		acc = acc.Add(rVec.Mul(G * other.Mass / (r * r * dist)))
	}

	return acc
}

// Step advances the system by one time step. On error nothing is committed.
func (s *Simulator) Step() error {
	if !s.Initialized() {
		return dynamo.ErrNotInitialized
	}

	integ, err := s.resolveIntegrator()
	if err != nil {
		return err
	}

	dt := s.timeStep
	p := s.scratch
	for i, b := range s.bodies {
		p.Pos[i] = b.Position
		p.Vel[i] = b.Velocity
		p.Acc[i] = b.Acceleration
	}

	integ.Step(s, p, dt)

	if !p.IsValid() {
		return &dynamo.StepError{
			Step:    s.steps,
			Time:    s.time,
			Method:  s.method.String(),
			Wrapped: dynamo.ErrUnstable,
		}
	}

	sample := int64(math.Floor(s.time/dt))%TrailSampleInterval == 0
	for i, b := range s.bodies {
		b.Position = p.Pos[i]
		b.Velocity = p.Vel[i]
		b.Acceleration = p.Acc[i]
		if sample {
			b.SampleTrail()
		}
	}

	s.time += dt
	s.steps++
	return nil
}

func (s *Simulator) resolveIntegrator() (integrators.Integrator, error) {
	if s.integrator != nil && s.integrator.Method() == s.method {
		return s.integrator, nil
	}
	integ, err := integrators.New(s.method)
	if err != nil {
		return nil, err
	}
	s.integrator = integ
	return integ, nil
}

// Energy returns kinetic, potential and total energy. Each unordered pair
// contributes once; coincident pairs are skipped.
func (s *Simulator) Energy() (Energy, error) {
	if !s.Initialized() {
		return Energy{}, dynamo.ErrNotInitialized
	}

	var e Energy
	for _, b := range s.bodies {
		e.Kinetic += 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	}

	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			bi, bj := s.bodies[i], s.bodies[j]
			r := bj.Position.Sub(bi.Position).Len()
			if r == 0 {
				continue
			}
			e.Potential -= G * bi.Mass * bj.Mass / r
		}
	}

	e.Total = e.Kinetic + e.Potential
	return e, nil
}

// Momentum returns the total linear momentum in kg m/s.
func (s *Simulator) Momentum() (mgl64.Vec3, error) {
	if !s.Initialized() {
		return mgl64.Vec3{}, dynamo.ErrNotInitialized
	}
	var p mgl64.Vec3
	for _, b := range s.bodies {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p, nil
}

// State returns display-scaled snapshots of every body.
func (s *Simulator) State() (State, error) {
	return s.Snapshot(true)
}

func (s *Simulator) Snapshot(scaled bool) (State, error) {
	if !s.Initialized() {
		return State{}, dynamo.ErrNotInitialized
	}
	st := State{
		Time:   s.time,
		Bodies: make([]body.Snapshot, len(s.bodies)),
	}
	for i, b := range s.bodies {
		st.Bodies[i] = b.Snapshot(scaled)
	}
	return st, nil
}
