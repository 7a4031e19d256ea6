package main

import (
	"fmt"
	"math"

	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/experiment"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/optim"
	"github.com/spf13/cobra"
)

var (
	tuneSpan      float64
	tuneTolerance float64
	tuneSteps     []float64
)

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "find the cheapest method and time step within an energy drift tolerance",
		RunE:  tune,
	}
	cmd.Flags().Float64Var(&tuneSpan, "span", 365*day, "simulated seconds per trial")
	cmd.Flags().Float64Var(&tuneTolerance, "tolerance", 1e-6, "maximum relative energy drift")
	cmd.Flags().Float64SliceVar(&tuneSteps, "dts", []float64{600, 1800, 3600, 7200, 14400, 43200}, "time steps to try, in seconds")
	return cmd
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	specs, err := catalog.Resolve(cfg.Catalog)
	if err != nil {
		return err
	}

	methods := integrators.Methods()
	idx := make([]float64, len(methods))
	for i := range methods {
		idx[i] = float64(i)
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		step := params["dt"]
		exp := experiment.New(experiment.Config{
			Method:      methods[int(params["method"])].String(),
			TimeStep:    step,
			Steps:       int(math.Ceil(tuneSpan / step)),
			SampleEvery: 10,
		})
		return exp, exp.Setup(specs)
	}

	search := optim.NewGridSearch([]string{"method", "dt"}, [][]float64{idx, tuneSteps})
	best, cost, err := search.Search(cmd.Context(), build, optim.CheapestWithin(tuneTolerance))
	if err != nil {
		return err
	}

	fmt.Printf("catalog:   %s\n", cfg.Catalog)
	fmt.Printf("method:    %s\n", methods[int(best["method"])])
	fmt.Printf("dt:        %.0f s\n", best["dt"])
	fmt.Printf("cost:      %.3e steps per simulated second (rk4 counted x4)\n", cost)
	return nil
}
