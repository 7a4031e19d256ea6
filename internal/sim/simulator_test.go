package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
)

const (
	au      = 1.496e11
	sunMass = 1.989e30
	hour    = 3600.0
	planetM = 1e24
	sunR    = 6.96e8
	planetR = 6.371e6
)

// circularBinary is a planet on a circular orbit around a sun at rest.
func circularBinary() []body.Spec {
	v := math.Sqrt(G * (sunMass + planetM) / au)
	return []body.Spec{
		{Name: "Sun", Mass: sunMass, Radius: sunR},
		{Name: "Planet", Mass: planetM, Radius: planetR, Position: mgl64.Vec3{au, 0, 0}, Velocity: mgl64.Vec3{0, 0, v}},
	}
}

func orbitalPeriod() float64 {
	return 2 * math.Pi * math.Sqrt(au*au*au/(G*(sunMass+planetM)))
}

func newSim(t *testing.T, dt float64, m integrators.Method, specs []body.Spec) *Simulator {
	t.Helper()
	s, err := New(dt, m)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if err := s.Initialize(specs); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return s
}

func TestNew_InvalidTimeStep(t *testing.T) {
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := New(dt, integrators.MethodVerlet); !errors.Is(err, dynamo.ErrInvalidTimeStep) {
			t.Errorf("dt=%g: expected ErrInvalidTimeStep, got %v", dt, err)
		}
	}
}

func TestNotInitialized(t *testing.T) {
	s, _ := New(hour, integrators.MethodVerlet)

	if err := s.Step(); !errors.Is(err, dynamo.ErrNotInitialized) {
		t.Errorf("Step: expected ErrNotInitialized, got %v", err)
	}
	if _, err := s.Energy(); !errors.Is(err, dynamo.ErrNotInitialized) {
		t.Errorf("Energy: expected ErrNotInitialized, got %v", err)
	}
	if _, err := s.State(); !errors.Is(err, dynamo.ErrNotInitialized) {
		t.Errorf("State: expected ErrNotInitialized, got %v", err)
	}
}

func TestInitialize_DuplicateName(t *testing.T) {
	s, _ := New(hour, integrators.MethodVerlet)
	specs := circularBinary()
	specs[1].Name = "Sun"
	if err := s.Initialize(specs); !errors.Is(err, dynamo.ErrDuplicateBody) {
		t.Errorf("expected ErrDuplicateBody, got %v", err)
	}
	if s.Initialized() {
		t.Error("failed initialize must not populate the simulator")
	}
}

func TestStep_UnknownMethod(t *testing.T) {
	s := newSim(t, hour, integrators.MethodUnknown, circularBinary())
	before := s.Body(1).Position

	if err := s.Step(); !errors.Is(err, dynamo.ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	if s.Time() != 0 || s.Body(1).Position != before {
		t.Error("failed step must not advance the system")
	}
	if err := s.SetMethod(integrators.Method(99)); !errors.Is(err, dynamo.ErrUnknownMethod) {
		t.Errorf("SetMethod: expected ErrUnknownMethod, got %v", err)
	}
}

func TestNewtonsThirdLaw(t *testing.T) {
	g := NewWithT(t)
	specs := []body.Spec{
		{Name: "A", Mass: 5.972e24, Radius: 6.371e6, Position: mgl64.Vec3{1.2e9, -3e8, 4e7}},
		{Name: "B", Mass: 7.342e22, Radius: 1.737e6, Position: mgl64.Vec3{-2.5e8, 9e8, 1e8}},
	}
	s := newSim(t, hour, integrators.MethodVerlet, specs)

	f0 := s.Acceleration(0).Mul(specs[0].Mass)
	f1 := s.Acceleration(1).Mul(specs[1].Mass)
	sum := f0.Add(f1)

	g.Expect(sum.Len()).To(BeNumerically("<", 1e-12*f0.Len()))
	g.Expect(f0.Len()).To(BeNumerically(">", 0))
}

func TestEnergyConservationOrdering(t *testing.T) {
	period := orbitalPeriod()
	steps := int(period / hour)

	drift := func(m integrators.Method) float64 {
		s := newSim(t, hour, m, circularBinary())
		e0, _ := s.Energy()
		for i := 0; i < steps; i++ {
			if err := s.Step(); err != nil {
				t.Fatalf("%s step %d: %v", m, i, err)
			}
		}
		e1, _ := s.Energy()
		return math.Abs(e1.Total-e0.Total) / math.Abs(e0.Total)
	}

	verlet := drift(integrators.MethodVerlet)
	euler := drift(integrators.MethodEuler)
	t.Logf("relative drift over one orbit: verlet=%.3e euler=%.3e", verlet, euler)

	if !(verlet < euler) {
		t.Errorf("verlet drift %e should be below euler drift %e", verlet, euler)
	}
}

func TestAllMethodsStayBound(t *testing.T) {
	g := NewWithT(t)
	steps := int(orbitalPeriod() / hour / 4)

	for _, m := range integrators.Methods() {
		s := newSim(t, hour, m, circularBinary())
		for i := 0; i < steps; i++ {
			g.Expect(s.Step()).To(Succeed())
		}
		r := s.Body(1).Position.Sub(s.Body(0).Position).Len()
		g.Expect(r).To(BeNumerically("~", au, 0.01*au), "method %s", m)
	}
}

func TestTimeAdvancement(t *testing.T) {
	g := NewWithT(t)
	s := newSim(t, hour, integrators.MethodVerlet, circularBinary())
	n := 250
	for i := 0; i < n; i++ {
		g.Expect(s.Step()).To(Succeed())
	}
	g.Expect(s.Time()).To(BeNumerically("~", float64(n)*hour, 1e-9*float64(n)*hour))
	g.Expect(s.Steps()).To(Equal(n))
}

func TestTimeScale(t *testing.T) {
	s := newSim(t, hour, integrators.MethodVerlet, circularBinary())
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	before := s.Time()
	increment := before

	if err := s.SetTimeScale(2.0); err != nil {
		t.Fatal(err)
	}
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if got := s.Time() - before; got != 2*increment {
		t.Errorf("expected increment %g, got %g", 2*increment, got)
	}

	// scale is relative to the base step, not the current one
	if err := s.SetTimeScale(0.5); err != nil {
		t.Fatal(err)
	}
	if s.TimeStep() != 0.5*hour {
		t.Errorf("expected time step %g, got %g", 0.5*hour, s.TimeStep())
	}

	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := s.SetTimeScale(f); !errors.Is(err, dynamo.ErrInvalidTimeScale) {
			t.Errorf("factor %g: expected ErrInvalidTimeScale, got %v", f, err)
		}
	}
	if s.TimeStep() != 0.5*hour {
		t.Error("rejected time scale changed the time step")
	}
}

func TestCollisionFloor(t *testing.T) {
	g := NewWithT(t)
	m := 5.972e24
	rA, rB := 6.371e6, 1.737e6
	floor := rA + rB
	expected := G * m / (floor * floor)

	for _, sep := range []float64{0.5 * floor, 0.1 * floor, 1e-6 * floor} {
		specs := []body.Spec{
			{Name: "A", Mass: m, Radius: rA},
			{Name: "B", Mass: m, Radius: rB, Position: mgl64.Vec3{sep, 0, 0}},
		}
		s := newSim(t, hour, integrators.MethodVerlet, specs)
		a := s.Acceleration(0)
		g.Expect(a.Len()).To(BeNumerically("~", expected, 1e-9*expected), "separation %g", sep)
		g.Expect(a[0]).To(BeNumerically(">", 0))
	}

	specs := []body.Spec{
		{Name: "A", Mass: m, Radius: rA},
		{Name: "B", Mass: m, Radius: rB},
	}
	s := newSim(t, hour, integrators.MethodVerlet, specs)
	g.Expect(s.Acceleration(0)).To(Equal(mgl64.Vec3{}))
	g.Expect(s.Step()).To(Succeed())
	e, err := s.Energy()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(dynamo.IsFinite(e.Total)).To(BeTrue())
}

func TestEnergy_PairsCountedOnce(t *testing.T) {
	g := NewWithT(t)
	specs := []body.Spec{
		{Name: "A", Mass: 1e20, Radius: 1, Velocity: mgl64.Vec3{3, 4, 0}},
		{Name: "B", Mass: 2e20, Radius: 1, Position: mgl64.Vec3{1e6, 0, 0}},
		{Name: "C", Mass: 3e20, Radius: 1, Position: mgl64.Vec3{0, 2e6, 0}},
	}
	s := newSim(t, hour, integrators.MethodVerlet, specs)

	e, err := s.Energy()
	g.Expect(err).NotTo(HaveOccurred())

	kinetic := 0.5 * 1e20 * 25
	potential := -G * (1e20*2e20/1e6 + 1e20*3e20/2e6 + 2e20*3e20/math.Sqrt(5e12))
	g.Expect(e.Kinetic).To(BeNumerically("~", kinetic, 1e-9*kinetic))
	g.Expect(e.Potential).To(BeNumerically("~", potential, 1e-9*math.Abs(potential)))
	g.Expect(e.Total).To(Equal(e.Kinetic + e.Potential))
}

func TestTrailSampling(t *testing.T) {
	s := newSim(t, hour, integrators.MethodVerlet, circularBinary())

	for i := 0; i < 25; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	// steps 0, 10 and 20 sample
	snap := s.Body(1).Snapshot(false)
	if got := len(snap.Trail); got != 3 {
		t.Errorf("expected 3 trail samples after 25 steps, got %d", got)
	}
}

func TestTrailBounds(t *testing.T) {
	s := newSim(t, hour, integrators.MethodSymplecticEuler, circularBinary())

	for i := 0; i < 10*body.TrailCapacity+500; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}

	st, err := s.State()
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range st.Bodies {
		if len(b.Trail) > body.SnapshotTrailLength {
			t.Errorf("%s snapshot trail has %d points", b.Name, len(b.Trail))
		}
	}
}

func TestStep_UnstableNotCommitted(t *testing.T) {
	specs := []body.Spec{
		{Name: "A", Mass: 1, Radius: 1, Position: mgl64.Vec3{1.7e308, 0, 0}, Velocity: mgl64.Vec3{1.7e308, 0, 0}},
		{Name: "B", Mass: 1, Radius: 1},
	}
	s := newSim(t, hour, integrators.MethodEuler, specs)
	before := s.Body(0).Position

	err := s.Step()
	var stepErr *dynamo.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}
	if s.Body(0).Position != before || s.Time() != 0 {
		t.Error("unstable step was committed")
	}
}

func TestStep_Deterministic(t *testing.T) {
	a := newSim(t, hour, integrators.MethodRK4, circularBinary())
	b := newSim(t, hour, integrators.MethodRK4, circularBinary())
	for i := 0; i < 100; i++ {
		_ = a.Step()
		_ = b.Step()
	}
	if a.Body(1).Position != b.Body(1).Position || a.Body(1).Velocity != b.Body(1).Velocity {
		t.Error("identical runs diverged")
	}
}

func TestMomentumConserved(t *testing.T) {
	g := NewWithT(t)
	s := newSim(t, hour, integrators.MethodVerlet, circularBinary())
	p0, _ := s.Momentum()
	for i := 0; i < 500; i++ {
		g.Expect(s.Step()).To(Succeed())
	}
	p1, _ := s.Momentum()
	g.Expect(p1.Sub(p0).Len()).To(BeNumerically("<", 1e-9*p0.Len()))
}
