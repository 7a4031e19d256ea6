package main

import (
	"github.com/go-kit/log/level"
	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/engine"
	"github.com/san-kum/orrery/internal/viz"
	"github.com/spf13/cobra"
)

func newLiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "run the simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
}

func runLive(cmd *cobra.Command, args []string) error {
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
	opts, err := engine.OptionsFromConfig(cfg, specs, logger)
	if err != nil {
		return err
	}
	eng, err := engine.New(opts)
	if err != nil {
		return err
	}

	level.Debug(logger).Log("msg", "starting live view", "catalog", cfg.Catalog)
	return viz.Run(eng, cfg.Catalog)
}
