package engine_test

import (
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/engine"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/sim"
)

const dt = 3600.0

type recorder struct {
	mu      sync.Mutex
	updates []engine.Update
	faults  []error
}

func (r *recorder) OnUpdate(u engine.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recorder) OnFault(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults = append(r.faults, err)
}

func (r *recorder) Updates() []engine.Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Update(nil), r.updates...)
}

func (r *recorder) Faults() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.faults...)
}

func newEngine(specs []body.Spec, method integrators.Method) *engine.Engine {
	e, err := engine.New(engine.Options{
		Catalog:     specs,
		TimeStep:    dt,
		Method:      method,
		Cadence:     time.Millisecond,
		UpdateEvery: 5,
		ResetGrace:  100 * time.Millisecond,
	})
	Expect(err).NotTo(HaveOccurred())
	return e
}

func currentTime(e *engine.Engine) float64 {
	st, err := e.State()
	Expect(err).NotTo(HaveOccurred())
	return st.Time
}

// replay steps a fresh simulator to the given time.
func replay(specs []body.Spec, method integrators.Method, t float64) sim.State {
	s, err := sim.New(dt, method)
	Expect(err).NotTo(HaveOccurred())
	Expect(s.Initialize(specs)).To(Succeed())
	for n := int(math.Round(t / dt)); n > 0; n-- {
		Expect(s.Step()).To(Succeed())
	}
	st, err := s.State()
	Expect(err).NotTo(HaveOccurred())
	return st
}

var _ = Describe("Engine", func() {
	var e *engine.Engine

	BeforeEach(func() {
		e = newEngine(catalog.SolarSystem(), integrators.MethodVerlet)
	})

	AfterEach(func() {
		e.Stop()
	})

	It("rejects a non-positive time step", func() {
		_, err := engine.New(engine.Options{TimeStep: 0})
		Expect(err).To(MatchError(dynamo.ErrInvalidTimeStep))
	})

	It("rejects an unsupported method up front", func() {
		_, err := engine.New(engine.Options{
			Catalog:  catalog.Binary(),
			TimeStep: dt,
			Method:   integrators.MethodUnknown,
		})
		Expect(err).To(MatchError(dynamo.ErrUnknownMethod))
	})

	Context("before initialization", func() {
		It("reports ErrNotInitialized for queries and commands", func() {
			_, err := e.State()
			Expect(err).To(MatchError(dynamo.ErrNotInitialized))
			_, err = e.Energy()
			Expect(err).To(MatchError(dynamo.ErrNotInitialized))
			_, err = e.SetTimeScale(2)
			Expect(err).To(MatchError(dynamo.ErrNotInitialized))
			Expect(e.SetMethod("rk4")).To(MatchError(dynamo.ErrNotInitialized))
		})

		It("initializes on start", func() {
			status, err := e.Start()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(engine.StatusStarted))
			Eventually(func() float64 { return currentTime(e) }).Should(BeNumerically(">", 0))
		})
	})

	Context("after initialization", func() {
		BeforeEach(func() {
			Expect(e.Initialize()).To(Succeed())
		})

		It("does not step until started", func() {
			Consistently(func() float64 { return currentTime(e) }, "50ms").Should(Equal(0.0))
			Expect(e.Running()).To(BeFalse())
		})

		It("is idempotent on start", func() {
			status, err := e.Start()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(engine.StatusStarted))

			for i := 0; i < 5; i++ {
				status, err = e.Start()
				Expect(err).NotTo(HaveOccurred())
				Expect(status).To(Equal(engine.StatusAlreadyRunning))
			}
			Expect(e.Running()).To(BeTrue())

			// a single loop advances exactly one time step per iteration,
			// so the step count always matches the elapsed time
			Eventually(func() float64 { return currentTime(e) }).Should(BeNumerically(">=", 20*dt))
			e.Stop()
			st, err := e.State()
			Expect(err).NotTo(HaveOccurred())
			Expect(st).To(Equal(replay(catalog.SolarSystem(), integrators.MethodVerlet, st.Time)))
		})

		It("stops advancing after stop", func() {
			_, _ = e.Start()
			Eventually(func() float64 { return currentTime(e) }).Should(BeNumerically(">", 0))

			Expect(e.Stop()).To(Equal(engine.StatusStopped))
			Expect(e.Running()).To(BeFalse())

			t := currentTime(e)
			Consistently(func() float64 { return currentTime(e) }, "50ms").Should(Equal(t))

			Expect(e.Stop()).To(Equal(engine.StatusStopped))
		})

		It("serves states consistent with a deterministic replay while running", func() {
			_, _ = e.Start()
			for i := 0; i < 3; i++ {
				Eventually(func() float64 { return currentTime(e) }).Should(BeNumerically(">", float64(i*10)*dt))
				st, err := e.State()
				Expect(err).NotTo(HaveOccurred())
				Expect(st).To(Equal(replay(catalog.SolarSystem(), integrators.MethodVerlet, st.Time)))
			}
		})

		It("changes the time step with the time scale", func() {
			got, err := e.SetTimeScale(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(4 * dt))

			got, err = e.SetTimeScale(0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(0.5 * dt))

			_, err = e.SetTimeScale(0)
			Expect(err).To(MatchError(dynamo.ErrInvalidTimeScale))
			_, err = e.SetTimeScale(math.Inf(1))
			Expect(err).To(MatchError(dynamo.ErrInvalidTimeScale))

			u, err := e.Snapshot()
			Expect(err).NotTo(HaveOccurred())
			Expect(u.TimeStep).To(Equal(0.5 * dt))
		})

		It("switches methods by name", func() {
			Expect(e.SetMethod("rk4")).To(Succeed())
			u, err := e.Snapshot()
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Method).To(Equal("rk4"))

			Expect(e.SetMethod("midpoint")).To(MatchError(dynamo.ErrUnknownMethod))
		})

		It("resets to the initial state and keeps a stopped engine stopped", func() {
			_, _ = e.Start()
			Eventually(func() float64 { return currentTime(e) }).Should(BeNumerically(">", 0))
			e.Stop()
			_, _ = e.SetTimeScale(3)

			Expect(e.Reset()).To(Succeed())
			Expect(currentTime(e)).To(Equal(0.0))
			Expect(e.Running()).To(BeFalse())

			u, err := e.Snapshot()
			Expect(err).NotTo(HaveOccurred())
			Expect(u.TimeStep).To(Equal(dt))
		})

		It("restarts after reset when it was running", func() {
			_, _ = e.Start()
			Eventually(func() float64 { return currentTime(e) }).Should(BeNumerically(">", 10*dt))

			Expect(e.Reset()).To(Succeed())
			Expect(e.Running()).To(BeTrue())
			Eventually(func() float64 { return currentTime(e) }).Should(BeNumerically(">", 0))
		})

		It("honours a stop issued while reset waits for the loop", func() {
			entered := make(chan struct{})
			release := make(chan struct{})
			var once sync.Once
			e.Subscribe(engine.ObserverFunc(func(u engine.Update) {
				once.Do(func() { close(entered) })
				<-release
			}))

			_, _ = e.Start()
			Eventually(entered).Should(BeClosed())

			resetErr := make(chan error, 1)
			go func() { resetErr <- e.Reset() }()
			// let Reset cancel the loop and start waiting on it
			time.Sleep(20 * time.Millisecond)
			Expect(e.Stop()).To(Equal(engine.StatusStopped))
			close(release)

			Eventually(resetErr).Should(Receive(BeNil()))
			Expect(e.Running()).To(BeFalse())
			Expect(currentTime(e)).To(Equal(0.0))
		})

		It("pushes updates to observers", func() {
			rec := &recorder{}
			e.Subscribe(rec)

			var mu sync.Mutex
			var fps float64
			e.Subscribe(engine.ObserverFunc(func(u engine.Update) {
				mu.Lock()
				fps = u.FPS
				mu.Unlock()
			}))

			_, _ = e.Start()
			Eventually(func() int { return len(rec.Updates()) }).Should(BeNumerically(">=", 3))
			e.Stop()

			updates := rec.Updates()
			for i, u := range updates {
				Expect(u.Steps % 5).To(Equal(0))
				Expect(u.State.Bodies).To(HaveLen(9))
				Expect(u.Energy.Total).To(BeNumerically("<", 0))
				if i > 0 {
					Expect(u.State.Time).To(BeNumerically(">", updates[i-1].State.Time))
				}
			}

			mu.Lock()
			defer mu.Unlock()
			Expect(fps).To(BeNumerically(">", 0))
		})
	})

	Context("when a step fails", func() {
		It("stops the loop and reports the fault", func() {
			specs := []body.Spec{
				{Name: "A", Mass: 1, Radius: 1, Position: mgl64.Vec3{1.7e308, 0, 0}, Velocity: mgl64.Vec3{1.7e308, 0, 0}},
				{Name: "B", Mass: 1, Radius: 1},
			}
			e = newEngine(specs, integrators.MethodEuler)
			rec := &recorder{}
			e.Subscribe(rec)

			_, err := e.Start()
			Expect(err).NotTo(HaveOccurred())

			Eventually(e.Running).Should(BeFalse())
			Eventually(func() []error { return rec.Faults() }).Should(HaveLen(1))
			Expect(e.Err()).To(MatchError(dynamo.ErrUnstable))

			var stepErr *dynamo.StepError
			Expect(e.Err()).To(BeAssignableToTypeOf(stepErr))

			st, err := e.State()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Time).To(Equal(0.0))
		})
	})
})
