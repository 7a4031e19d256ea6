package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sweepSteps   []float64
	sweepDays    float64
	trials       int
	perturbation float64
	mcSeed       int64
)

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			results, err := automation.RunScenario(cmd.Context(), sc, storage.New(cfg.DataDir), logger)
			if err != nil {
				return err
			}

			fmt.Printf("%s: %s\n\n", sc.Name, sc.Description)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tCATALOG\tMETHOD\tDT\tSTEPS\tDRIFT\tRUN")
			for i, r := range results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.0fs\t%d\t%.2e\t%s\n",
					i+1, r.Step.Catalog, r.Result.Method, r.Step.TimeStep, r.Result.Steps,
					r.Result.Metrics["energy_drift"], r.RunID)
			}
			return w.Flush()
		},
	}
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure energy drift across time steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			specs, err := catalog.Resolve(cfg.Catalog)
			if err != nil {
				return err
			}

			results, err := automation.RunSweep(cmd.Context(), &automation.TimeStepSweep{
				Method:    cfg.Method,
				TimeSteps: sweepSteps,
				Span:      sweepDays * day,
			}, specs, logger)
			if err != nil {
				return err
			}

			fmt.Printf("%s on %s over %.0f days\n\n", cfg.Method, cfg.Catalog, sweepDays)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tTIME")
			for _, r := range results {
				fmt.Fprintf(w, "%.0fs\t%d\t%.3e\t%.3e\t%v\n", r.TimeStep, r.Steps, r.EnergyDrift, r.MomentumDrift, r.Elapsed)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64SliceVar(&sweepSteps, "dts", []float64{600, 1800, 3600, 7200, 21600}, "time steps to try")
	cmd.Flags().Float64Var(&sweepDays, "days", 365, "simulated span in days")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "count how many perturbed catalogs stay bound",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			specs, err := catalog.Resolve(cfg.Catalog)
			if err != nil {
				return err
			}

			results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
				Method:       cfg.Method,
				TimeStep:     cfg.TimeStep,
				Steps:        steps,
				Perturbation: perturbation,
				NumTrials:    trials,
				Seed:         mcSeed,
			}, specs, logger)
			if err != nil {
				return err
			}

			stable, unstable := automation.MonteCarloStats(results)
			fmt.Printf("trials: %d  bound: %d  unbound: %d\n", len(results), stable, unstable)
			return nil
		},
	}
	cmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	cmd.Flags().Float64Var(&perturbation, "perturbation", 0.05, "largest relative velocity perturbation")
	cmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 for time-based)")
	cmd.Flags().IntVar(&steps, "steps", 24*365, "number of steps")
	return cmd
}
