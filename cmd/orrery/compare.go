package main

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/experiment"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [method...]",
		Short: "compare integration methods on the same catalog",
		RunE:  compareMethods,
	}
	cmd.Flags().IntVar(&steps, "steps", 24*365, "number of steps")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 24, "steps between diagnostic samples")
	return cmd
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	specs, err := catalog.Resolve(cfg.Catalog)
	if err != nil {
		return err
	}

	methods := args
	if len(methods) == 0 {
		for _, m := range integrators.Methods() {
			methods = append(methods, m.String())
		}
	}

	fmt.Printf("comparing methods on %s (dt=%.0fs, steps=%d)\n\n", cfg.Catalog, cfg.TimeStep, steps)
	results, err := experiment.Compare(cmd.Context(), experiment.Config{
		TimeStep:    cfg.TimeStep,
		Steps:       steps,
		SampleEvery: sampleEvery,
	}, specs, methods)
	if err != nil {
		return err
	}

	fmt.Printf("%-18s  %-14s  %-14s  %-10s\n", "method", "energy_drift", "momentum_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 62))

	series := make([][]float64, 0, len(results))
	for _, res := range results {
		fmt.Printf("%-18s  %14.3e  %14.3e  %10.2f\n",
			res.Method,
			res.Metrics["energy_drift"],
			res.Metrics["momentum_drift"],
			float64(res.Elapsed.Microseconds())/1000,
		)
		series = append(series, driftSeries(res.Samples))
	}

	fmt.Println()
	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("relative energy drift: "+strings.Join(methods, ", ")),
	))
	return nil
}

func driftSeries(samples []metrics.Sample) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	e0 := samples[0].Energy.Total
	for i, s := range samples {
		out[i] = metrics.RelativeDrift(e0, s.Energy.Total)
	}
	return out
}
