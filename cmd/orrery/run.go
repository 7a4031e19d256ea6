package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-kit/log/level"
	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/experiment"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/spf13/cobra"
)

const day = 86400.0

var (
	steps       int
	sampleEvery int
	jsonOut     bool
	svgOut      string
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store its diagnostics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	cmd.Flags().IntVar(&steps, "steps", 24*365, "number of steps")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 24, "steps between diagnostic samples")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the final state as json")
	cmd.Flags().StringVar(&svgOut, "svg", "", "write an svg of the final orbits to this path")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
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

	exp := experiment.New(experiment.Config{
		Method:      cfg.Method,
		TimeStep:    cfg.TimeStep,
		Steps:       steps,
		SampleEvery: sampleEvery,
	})
	if err := exp.Setup(specs); err != nil {
		return err
	}

	level.Info(logger).Log("msg", "running", "catalog", cfg.Catalog, "method", cfg.Method, "dt", cfg.TimeStep, "steps", steps)
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Catalog:  cfg.Catalog,
		Method:   result.Method,
		TimeStep: cfg.TimeStep,
		Steps:    result.Steps,
		Duration: result.Final.Time,
		Bodies:   len(specs),
		Metrics:  result.Metrics,
		Periods:  result.Periods,
	}, result.Samples)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "run stored", "run_id", runID, "elapsed", result.Elapsed)

	if svgOut != "" {
		svg := export.OrbitsToSVG(result.Final.Bodies, 800, 800)
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "svg written", "path", svgOut)
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, storage.ExportData{
			Catalog:  cfg.Catalog,
			Method:   result.Method,
			TimeStep: cfg.TimeStep,
			Steps:    result.Steps,
			Energy:   result.Samples[len(result.Samples)-1].Energy,
			State:    result.Final,
			Metrics:  result.Metrics,
		})
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%.1f days)\n", result.Steps, result.Final.Time/day)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6e\n", name, result.Metrics[name])
	}
	if len(result.Periods) > 0 {
		fmt.Println("\nperiods:")
		for _, name := range sortedKeys(result.Periods) {
			fmt.Printf("  %-10s %10.2f days\n", name, result.Periods[name]/day)
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
