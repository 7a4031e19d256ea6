package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RK4 integrates the concatenated [positions | velocities] vector of all
// bodies with the classical four-stage rule. Acc is left at the
// acceleration of the initial state.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
	pos, acc       []mgl64.Vec3
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Method() Method { return MethodRK4 }

func (r *RK4) ensureScratch(bodies int) {
	n := 6 * bodies
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
		r.pos = make([]mgl64.Vec3, bodies)
		r.acc = make([]mgl64.Vec3, bodies)
	}
}

// derive writes d/dt [r | v] = [v | a(r)] into dx.
func (r *RK4) derive(f Field, x, dx dynamo.State) {
	n := len(r.pos)
	off := 3 * n
	for i := 0; i < n; i++ {
		r.pos[i] = mgl64.Vec3{x[3*i], x[3*i+1], x[3*i+2]}
	}
	f.Accelerations(r.pos, r.acc)
	copy(dx[:off], x[off:])
	for i := 0; i < n; i++ {
		dx[off+3*i] = r.acc[i][0]
		dx[off+3*i+1] = r.acc[i][1]
		dx[off+3*i+2] = r.acc[i][2]
	}
}

func (r *RK4) Step(f Field, p *Phase, dt float64) {
	n := p.Len()
	r.ensureScratch(n)
	x := Pack(p)

	r.derive(f, x, r.k1)
	copy(p.Acc, r.acc)

	floats.AddScaledTo(r.scratch, x, 0.5*dt, r.k1)
	r.derive(f, r.scratch, r.k2)

	floats.AddScaledTo(r.scratch, x, 0.5*dt, r.k2)
	r.derive(f, r.scratch, r.k3)

	floats.AddScaledTo(r.scratch, x, dt, r.k3)
	r.derive(f, r.scratch, r.k4)

	dt6 := dt / 6.0
	floats.AddScaled(x, dt6, r.k1)
	floats.AddScaled(x, 2*dt6, r.k2)
	floats.AddScaled(x, 2*dt6, r.k3)
	floats.AddScaled(x, dt6, r.k4)

	Unpack(x, p)
}

// Pack flattens positions and velocities into [r0 r1 ... | v0 v1 ...].
func Pack(p *Phase) dynamo.State {
	n := p.Len()
	x := make(dynamo.State, 6*n)
	off := 3 * n
	for i := 0; i < n; i++ {
		copy(x[3*i:3*i+3], p.Pos[i][:])
		copy(x[off+3*i:off+3*i+3], p.Vel[i][:])
	}
	return x
}

// Unpack is the inverse of Pack. Acc is left untouched.
func Unpack(x dynamo.State, p *Phase) {
	n := p.Len()
	off := 3 * n
	for i := 0; i < n; i++ {
		p.Pos[i] = mgl64.Vec3{x[3*i], x[3*i+1], x[3*i+2]}
		p.Vel[i] = mgl64.Vec3{x[off+3*i], x[off+3*i+1], x[off+3*i+2]}
	}
}
