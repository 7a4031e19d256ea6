// Package experiment runs headless simulations and collects their
// diagnostics.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/sim"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Method   string
	TimeStep float64
	Steps    int
	// SampleEvery is the number of steps between diagnostic samples.
	SampleEvery int
}

type Result struct {
	Method  string
	Steps   int
	Elapsed time.Duration
	// Samples are taken every SampleInterval seconds, starting at t=0.
	Samples        []metrics.Sample
	SampleInterval float64
	Final          sim.State
	Metrics        map[string]float64
	// Periods holds orbital periods about the first body, for bodies that
	// completed at least two orbits.
	Periods map[string]float64
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
	metrics   []metrics.Metric
}

func New(cfg Config) *Experiment {
	if cfg.SampleEvery < 1 {
		cfg.SampleEvery = 1
	}
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(specs []body.Spec) error {
	method, err := integrators.ParseMethod(e.cfg.Method)
	if err != nil {
		return err
	}
	s, err := sim.New(e.cfg.TimeStep, method)
	if err != nil {
		return err
	}
	if err := s.Initialize(specs); err != nil {
		return err
	}
	e.simulator = s
	e.metrics = metrics.Default()
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	s := e.simulator
	start := time.Now()

	n := s.Len()
	traces := make([][]float64, n)
	samples := make([]metrics.Sample, 0, e.cfg.Steps/e.cfg.SampleEvery+1)

	observe := func() error {
		smp, err := metrics.Observe(s)
		if err != nil {
			return err
		}
		for _, m := range e.metrics {
			m.Observe(smp)
		}
		samples = append(samples, smp)

		origin := s.Body(0).Position
		for i := 1; i < n; i++ {
			traces[i] = append(traces[i], s.Body(i).Position.Sub(origin)[0])
		}
		return nil
	}

	if err := observe(); err != nil {
		return nil, err
	}
	for step := 1; step <= e.cfg.Steps; step++ {
		if step%100 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := s.Step(); err != nil {
			return nil, err
		}
		if step%e.cfg.SampleEvery == 0 {
			if err := observe(); err != nil {
				return nil, err
			}
		}
	}

	final, err := s.Snapshot(false)
	if err != nil {
		return nil, err
	}

	interval := s.TimeStep() * float64(e.cfg.SampleEvery)
	span := interval * float64(len(samples))
	periods := make(map[string]float64)
	for i := 1; i < n; i++ {
		p, err := analysis.EstimatePeriod(traces[i], interval)
		if err != nil || 2*p > span {
			continue
		}
		periods[s.Body(i).Name] = p
	}

	return &Result{
		Method:         s.Method().String(),
		Steps:          s.Steps(),
		Elapsed:        time.Since(start),
		Samples:        samples,
		SampleInterval: interval,
		Final:          final,
		Metrics:        metrics.Values(e.metrics),
		Periods:        periods,
	}, nil
}

// Compare runs the same catalog once per method, concurrently. Results are
// in the order of methods; the first failure cancels the rest.
func Compare(ctx context.Context, cfg Config, specs []body.Spec, methods []string) ([]*Result, error) {
	results := make([]*Result, len(methods))
	g, ctx := errgroup.WithContext(ctx)

	for i, method := range methods {
		i, method := i, method
		g.Go(func() error {
			c := cfg
			c.Method = method
			exp := New(c)
			if err := exp.Setup(specs); err != nil {
				return fmt.Errorf("%s: %w", method, err)
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", method, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
