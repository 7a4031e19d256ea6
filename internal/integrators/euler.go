package integrators

import "github.com/go-gl/mathgl/mgl64"

// EulerStep is explicit Euler: r' = r + v dt, v' = v + a dt.
func EulerStep(r, v, a mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	return r.Add(v.Mul(dt)), v.Add(a.Mul(dt))
}

// SymplecticEulerStep updates velocity first and drifts with the new velocity.
func SymplecticEulerStep(r, v, a mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	vNew := v.Add(a.Mul(dt))
	return r.Add(vNew.Mul(dt)), vNew
}

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Method() Method { return MethodEuler }

func (e *Euler) Step(f Field, p *Phase, dt float64) {
	f.Accelerations(p.Pos, p.Acc)
	for i := range p.Pos {
		p.Pos[i], p.Vel[i] = EulerStep(p.Pos[i], p.Vel[i], p.Acc[i], dt)
	}
}

type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Method() Method { return MethodSymplecticEuler }

func (s *SymplecticEuler) Step(f Field, p *Phase, dt float64) {
	f.Accelerations(p.Pos, p.Acc)
	for i := range p.Pos {
		p.Pos[i], p.Vel[i] = SymplecticEulerStep(p.Pos[i], p.Vel[i], p.Acc[i], dt)
	}
}
