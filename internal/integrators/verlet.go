package integrators

import "github.com/go-gl/mathgl/mgl64"

// VerletPosition is r + v dt + a dt^2 / 2.
func VerletPosition(r, v, a mgl64.Vec3, dt float64) mgl64.Vec3 {
	return r.Add(v.Mul(dt)).Add(a.Mul(0.5 * dt * dt))
}

// VerletVelocity is v + (a + aNext) dt / 2.
func VerletVelocity(v, a, aNext mgl64.Vec3, dt float64) mgl64.Vec3 {
	return v.Add(a.Add(aNext).Mul(0.5 * dt))
}

// LeapfrogDrift applies the opening half kick and the full drift,
// returning the new position and the half-step velocity.
func LeapfrogDrift(r, v, a mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	vHalf := v.Add(a.Mul(0.5 * dt))
	return r.Add(vHalf.Mul(dt)), vHalf
}

// LeapfrogKick applies the closing half kick with the acceleration at the
// new position.
func LeapfrogKick(vHalf, aNext mgl64.Vec3, dt float64) mgl64.Vec3 {
	return vHalf.Add(aNext.Mul(0.5 * dt))
}

type Verlet struct {
	next []mgl64.Vec3
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Method() Method { return MethodVerlet }

func (v *Verlet) ensureScratch(n int) {
	if len(v.next) != n {
		v.next = make([]mgl64.Vec3, n)
	}
}

func (v *Verlet) Step(f Field, p *Phase, dt float64) {
	v.ensureScratch(p.Len())

	f.Accelerations(p.Pos, p.Acc)
	for i := range p.Pos {
		p.Pos[i] = VerletPosition(p.Pos[i], p.Vel[i], p.Acc[i], dt)
	}

	// every a(t+dt) is evaluated before any velocity moves
	f.Accelerations(p.Pos, v.next)
	for i := range p.Vel {
		p.Vel[i] = VerletVelocity(p.Vel[i], p.Acc[i], v.next[i], dt)
	}
	copy(p.Acc, v.next)
}

type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Method() Method { return MethodLeapfrog }

func (l *Leapfrog) Step(f Field, p *Phase, dt float64) {
	f.Accelerations(p.Pos, p.Acc)
	for i := range p.Pos {
		p.Pos[i], p.Vel[i] = LeapfrogDrift(p.Pos[i], p.Vel[i], p.Acc[i], dt)
	}

	f.Accelerations(p.Pos, p.Acc)
	for i := range p.Vel {
		p.Vel[i] = LeapfrogKick(p.Vel[i], p.Acc[i], dt)
	}
}
