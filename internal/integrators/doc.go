// Package integrators implements the time-integration strategies.
//
// Each strategy satisfies [Integrator]: given a [Field] that evaluates
// accelerations at arbitrary positions, advance a [Phase] (positions,
// velocities, accelerations of every body) by dt. Strategies are selected
// through the closed [Method] enum and constructed with [New].
//
//	| Method                | Order | Field evaluations |
//	|-----------------------|-------|-------------------|
//	| MethodEuler           | 1     | 1                 |
//	| MethodSymplecticEuler | 1     | 1                 |
//	| MethodLeapfrog        | 2     | 2                 |
//	| MethodVerlet          | 2     | 2                 |
//	| MethodRK4             | 4     | 4                 |
//
// The per-body kernels ([EulerStep], [VerletPosition], ...) are pure
// functions and can be used directly.
package integrators
