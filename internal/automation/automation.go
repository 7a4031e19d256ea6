// Package automation drives batches of headless runs: scripted scenarios,
// time-step sweeps and perturbed Monte Carlo trials.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/experiment"
	"github.com/san-kum/orrery/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario
type ScenarioStep struct {
	Catalog     string  `yaml:"catalog"`
	Method      string  `yaml:"method"`
	TimeStep    float64 `yaml:"time_step"`
	Steps       int     `yaml:"steps"`
	SampleEvery int     `yaml:"sample_every"`
	Save        bool    `yaml:"save"`
}

type ScenarioResult struct {
	Step   ScenarioStep
	RunID  string
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// RunScenario executes all steps in order. Steps marked Save are written to
// st, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, logger log.Logger) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		level.Info(logger).Log("msg", "scenario step", "n", i+1, "of", len(scenario.Steps), "catalog", step.Catalog, "method", step.Method)

		specs, err := catalog.Resolve(step.Catalog)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(experiment.Config{
			Method:      step.Method,
			TimeStep:    step.TimeStep,
			Steps:       step.Steps,
			SampleEvery: step.SampleEvery,
		})
		if err := exp.Setup(specs); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sr := ScenarioResult{Step: step, Result: result}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: no store to save to", i+1)
			}
			sr.RunID, err = st.Save(storage.RunMetadata{
				Catalog:  step.Catalog,
				Method:   result.Method,
				TimeStep: step.TimeStep,
				Steps:    result.Steps,
				Duration: result.Final.Time,
				Bodies:   len(specs),
				Metrics:  result.Metrics,
				Periods:  result.Periods,
			}, result.Samples)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// TimeStepSweep runs one method over the same simulated span at several
// time steps.
type TimeStepSweep struct {
	Method    string
	TimeSteps []float64
	// Span is the simulated time covered by every run, in seconds.
	Span float64
}

// SweepResult holds results from a sweep
type SweepResult struct {
	TimeStep      float64
	Steps         int
	EnergyDrift   float64
	MomentumDrift float64
	Elapsed       time.Duration
}

// RunSweep executes a time-step sweep over specs.
func RunSweep(ctx context.Context, sweep *TimeStepSweep, specs []body.Spec, logger log.Logger) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(sweep.TimeSteps))

	for i, dt := range sweep.TimeSteps {
		if dt <= 0 {
			return nil, fmt.Errorf("sweep %d: time step must be positive, got %g", i+1, dt)
		}
		steps := int(sweep.Span / dt)
		exp := experiment.New(experiment.Config{
			Method:      sweep.Method,
			TimeStep:    dt,
			Steps:       steps,
			SampleEvery: max(1, steps/500),
		})
		if err := exp.Setup(specs); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			TimeStep:      dt,
			Steps:         result.Steps,
			EnergyDrift:   result.Metrics["energy_drift"],
			MomentumDrift: result.Metrics["momentum_drift"],
			Elapsed:       result.Elapsed,
		})

		level.Debug(logger).Log("msg", "sweep", "n", i+1, "of", len(sweep.TimeSteps), "dt", dt)
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Method   string
	TimeStep float64
	Steps    int
	// Perturbation is the largest relative change applied to each
	// velocity component.
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds the outcome of one perturbed trial
type MonteCarloResult struct {
	TrialID     int
	EnergyDrift float64
	Stable      bool // stayed gravitationally bound throughout
}

// RunMonteCarlo executes multiple trials with randomly perturbed velocities.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, specs []body.Spec, logger log.Logger) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		perturbed := make([]body.Spec, len(specs))
		for i, s := range specs {
			for k := range s.Velocity {
				s.Velocity[k] *= 1 + (rng.Float64()-0.5)*2*cfg.Perturbation
			}
			perturbed[i] = s
		}

		exp := experiment.New(experiment.Config{
			Method:      cfg.Method,
			TimeStep:    cfg.TimeStep,
			Steps:       cfg.Steps,
			SampleEvery: max(1, cfg.Steps/100),
		})
		if err := exp.Setup(perturbed); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID:     trial,
			EnergyDrift: result.Metrics["energy_drift"],
			Stable:      result.Metrics["bound"] == 1,
		})

		if (trial+1)%10 == 0 {
			level.Info(logger).Log("msg", "monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
