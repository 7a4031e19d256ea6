// Package engine runs a simulator on a background goroutine at a fixed
// cadence and serializes every command against it.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/sim"
)

type Status string

const (
	StatusStarted        Status = "started"
	StatusAlreadyRunning Status = "already_running"
	StatusStopped        Status = "stopped"
	StatusReset          Status = "reset"
)

type Options struct {
	Catalog  []body.Spec
	TimeStep float64
	Method   integrators.Method
	// Cadence is the target wall-clock period of one step.
	Cadence     time.Duration
	UpdateEvery int
	ResetGrace  time.Duration
	Logger      log.Logger
}

// OptionsFromConfig maps a validated config onto engine options.
func OptionsFromConfig(cfg *config.Config, specs []body.Spec, logger log.Logger) (Options, error) {
	method, err := cfg.IntegrationMethod()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Catalog:     specs,
		TimeStep:    cfg.TimeStep,
		Method:      method,
		Cadence:     cfg.Cadence,
		UpdateEvery: cfg.UpdateEvery,
		ResetGrace:  cfg.ResetGrace,
		Logger:      logger,
	}, nil
}

type Update struct {
	State    sim.State
	Energy   sim.Energy
	FPS      float64
	Method   string
	TimeStep float64
	Steps    int
}

// Observer receives notifications from the stepping goroutine. Calls are
// made without the engine lock held and must not block for long.
type Observer interface {
	OnUpdate(Update)
	OnFault(error)
}

// ObserverFunc adapts a function to an Observer that ignores faults.
type ObserverFunc func(Update)

func (f ObserverFunc) OnUpdate(u Update) { f(u) }
func (f ObserverFunc) OnFault(error)     {}

type Engine struct {
	opts   Options
	logger log.Logger

	mu      sync.Mutex
	sim     *sim.Simulator
	running bool
	// gen counts Start and Stop commands, so Reset can tell whether one
	// arrived while it waited for the loop.
	gen       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
	observers []Observer
}

func New(opts Options) (*Engine, error) {
	if !dynamo.IsFinite(opts.TimeStep) || opts.TimeStep <= 0 {
		return nil, dynamo.ErrInvalidTimeStep
	}
	if !opts.Method.Valid() {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownMethod, opts.Method)
	}
	if opts.Cadence <= 0 {
		opts.Cadence = config.DefaultCadence
	}
	if opts.UpdateEvery < 1 {
		opts.UpdateEvery = config.DefaultUpdateEvery
	}
	if opts.ResetGrace <= 0 {
		opts.ResetGrace = config.DefaultResetGrace
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Engine{
		opts:   opts,
		logger: log.With(logger, "subsys", "engine"),
	}, nil
}

// Subscribe registers o for updates and faults.
func (e *Engine) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obs := make([]Observer, len(e.observers), len(e.observers)+1)
	copy(obs, e.observers)
	e.observers = append(obs, o)
}

// Initialize replaces the simulator with a fresh one built from the catalog.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initializeLocked()
}

func (e *Engine) initializeLocked() error {
	s, err := sim.New(e.opts.TimeStep, e.opts.Method)
	if err != nil {
		return err
	}
	if err := s.Initialize(e.opts.Catalog); err != nil {
		return err
	}
	e.sim = s
	e.err = nil
	level.Info(e.logger).Log("msg", "initialized", "bodies", s.Len(), "method", s.Method(), "dt", s.TimeStep())
	return nil
}

// Start spawns the stepping goroutine, initializing first if needed.
func (e *Engine) Start() (Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	return e.startLocked()
}

func (e *Engine) startLocked() (Status, error) {
	if e.running {
		return StatusAlreadyRunning, nil
	}
	if e.sim == nil {
		if err := e.initializeLocked(); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.running = true
	e.cancel = cancel
	e.done = done
	e.err = nil

	go e.loop(ctx, done)

	level.Info(e.logger).Log("msg", "started", "cadence", e.opts.Cadence)
	return StatusStarted, nil
}

// Stop cancels the stepping goroutine. A step already in progress
// completes; no further step begins.
func (e *Engine) Stop() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	if e.stopLocked() != nil {
		level.Info(e.logger).Log("msg", "stopped", "steps", e.sim.Steps())
	}
	return StatusStopped
}

// stopLocked returns the done channel of the loop it cancelled, or nil.
func (e *Engine) stopLocked() chan struct{} {
	if !e.running {
		return nil
	}
	e.cancel()
	e.running = false
	e.cancel = nil
	return e.done
}

// Reset stops the loop, waits up to ResetGrace for it to exit, rebuilds the
// simulator and restarts if it was running. A Start or Stop issued while
// Reset waits takes precedence over the restart.
func (e *Engine) Reset() error {
	e.mu.Lock()
	wasRunning := e.running
	done := e.stopLocked()
	gen := e.gen
	e.mu.Unlock()

	if done != nil {
		t := time.NewTimer(e.opts.ResetGrace)
		select {
		case <-done:
			t.Stop()
		case <-t.C:
			level.Warn(e.logger).Log("msg", "loop did not exit within grace period", "grace", e.opts.ResetGrace)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.initializeLocked(); err != nil {
		return err
	}
	restart := wasRunning && e.gen == gen
	level.Info(e.logger).Log("msg", "reset", "restart", restart)

	if restart {
		if _, err := e.startLocked(); err != nil {
			return err
		}
	}
	return nil
}

// SetTimeScale sets the time step to TimeStep*factor and returns it.
func (e *Engine) SetTimeScale(factor float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim == nil {
		return 0, dynamo.ErrNotInitialized
	}
	if err := e.sim.SetTimeScale(factor); err != nil {
		return 0, err
	}
	dt := e.sim.TimeStep()
	level.Info(e.logger).Log("msg", "time scale changed", "factor", factor, "dt", dt)
	return dt, nil
}

func (e *Engine) SetMethod(name string) error {
	m, err := integrators.ParseMethod(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim == nil {
		return dynamo.ErrNotInitialized
	}
	if err := e.sim.SetMethod(m); err != nil {
		return err
	}
	level.Info(e.logger).Log("msg", "method changed", "method", m)
	return nil
}

func (e *Engine) State() (sim.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim == nil {
		return sim.State{}, dynamo.ErrNotInitialized
	}
	return e.sim.State()
}

func (e *Engine) Energy() (sim.Energy, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim == nil {
		return sim.Energy{}, dynamo.ErrNotInitialized
	}
	return e.sim.Energy()
}

// Snapshot is an immediate Update, independent of the push cadence.
func (e *Engine) Snapshot() (Update, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim == nil {
		return Update{}, dynamo.ErrNotInitialized
	}
	return e.captureLocked(0)
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Err returns the fault that stopped the last loop, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Engine) captureLocked(fps float64) (Update, error) {
	st, err := e.sim.State()
	if err != nil {
		return Update{}, err
	}
	en, err := e.sim.Energy()
	if err != nil {
		return Update{}, err
	}
	return Update{
		State:    st,
		Energy:   en,
		FPS:      fps,
		Method:   e.sim.Method().String(),
		TimeStep: e.sim.TimeStep(),
		Steps:    e.sim.Steps(),
	}, nil
}
