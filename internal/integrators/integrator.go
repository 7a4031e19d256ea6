package integrators

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/dynamo"
)

// Field evaluates the acceleration of every body at the given positions.
// len(acc) == len(pos); implementations overwrite acc.
type Field interface {
	Accelerations(pos, acc []mgl64.Vec3)
}

// Phase is the kinematic state of all bodies. After a step, Acc holds the
// last acceleration the integrator evaluated for each body.
type Phase struct {
	Pos []mgl64.Vec3
	Vel []mgl64.Vec3
	Acc []mgl64.Vec3
}

func NewPhase(n int) *Phase {
	return &Phase{
		Pos: make([]mgl64.Vec3, n),
		Vel: make([]mgl64.Vec3, n),
		Acc: make([]mgl64.Vec3, n),
	}
}

func (p *Phase) Len() int { return len(p.Pos) }

// CopyFrom resizes p to match src and copies its contents.
func (p *Phase) CopyFrom(src *Phase) {
	n := src.Len()
	if len(p.Pos) != n {
		p.Pos = make([]mgl64.Vec3, n)
		p.Vel = make([]mgl64.Vec3, n)
		p.Acc = make([]mgl64.Vec3, n)
	}
	copy(p.Pos, src.Pos)
	copy(p.Vel, src.Vel)
	copy(p.Acc, src.Acc)
}

// IsValid reports whether every position and velocity is finite.
func (p *Phase) IsValid() bool {
	for i := range p.Pos {
		for k := 0; k < 3; k++ {
			if !dynamo.IsFinite(p.Pos[i][k]) || !dynamo.IsFinite(p.Vel[i][k]) {
				return false
			}
		}
	}
	return true
}

type Integrator interface {
	Method() Method
	Step(f Field, p *Phase, dt float64)
}

// Method identifies an integration strategy. The zero value is not a
// valid method.
type Method int

const (
	MethodUnknown Method = iota
	MethodEuler
	MethodSymplecticEuler
	MethodLeapfrog
	MethodVerlet
	MethodRK4
)

// DefaultMethod is used when no method is configured.
const DefaultMethod = MethodVerlet

var methodNames = map[Method]string{
	MethodEuler:           "euler",
	MethodSymplecticEuler: "symplectic_euler",
	MethodLeapfrog:        "leapfrog",
	MethodVerlet:          "verlet",
	MethodRK4:             "rk4",
}

var methodAliases = map[string]Method{
	"symplectic":      MethodSymplecticEuler,
	"semi_implicit":   MethodSymplecticEuler,
	"velocity_verlet": MethodVerlet,
	"runge_kutta":     MethodRK4,
}

var registry = map[Method]func() Integrator{
	MethodEuler:           func() Integrator { return NewEuler() },
	MethodSymplecticEuler: func() Integrator { return NewSymplecticEuler() },
	MethodLeapfrog:        func() Integrator { return NewLeapfrog() },
	MethodVerlet:          func() Integrator { return NewVerlet() },
	MethodRK4:             func() Integrator { return NewRK4() },
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

func (m Method) Valid() bool {
	_, ok := registry[m]
	return ok
}

// ParseMethod maps a method name (case-insensitive, '-' or '_') to a Method.
func ParseMethod(name string) (Method, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for m, n := range methodNames {
		if n == key {
			return m, nil
		}
	}
	if m, ok := methodAliases[key]; ok {
		return m, nil
	}
	return MethodUnknown, fmt.Errorf("%w: %q", dynamo.ErrUnknownMethod, name)
}

// New returns a fresh integrator for m.
func New(m Method) (Integrator, error) {
	fn, ok := registry[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownMethod, m)
	}
	return fn(), nil
}

// Methods lists the supported methods in ascending order of accuracy.
func Methods() []Method {
	return []Method{MethodEuler, MethodSymplecticEuler, MethodLeapfrog, MethodVerlet, MethodRK4}
}
