package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/orrery/internal/catalog"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	saveCatalog string
	saveConfig  string
)

func newBodiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bodies",
		Short: "list the bodies of the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			specs, err := catalog.Resolve(cfg.Catalog)
			if err != nil {
				return err
			}
			if saveCatalog != "" {
				if err := catalog.Save(saveCatalog, specs); err != nil {
					return err
				}
				fmt.Printf("wrote %d bodies to %s\n", len(specs), saveCatalog)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMASS (kg)\tRADIUS (km)\tDIST (AU)\tSPEED (km/s)\tPERIOD (d)\tRINGS")
			for _, s := range specs {
				period := "-"
				if s.Orbit != nil && s.Orbit.Period > 0 {
					period = fmt.Sprintf("%.1f", s.Orbit.Period/day)
				}
				rings := ""
				if s.Rings != nil {
					rings = "yes"
				}
				fmt.Fprintf(w, "%s\t%.3e\t%.0f\t%.3f\t%.2f\t%s\t%s\n",
					s.Name,
					s.Mass,
					s.Radius/1000,
					s.Position.Len()/catalog.AU,
					s.Velocity.Len()/1000,
					period,
					rings,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&saveCatalog, "save", "", "write the catalog as yaml to this file instead of listing it")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if saveConfig != "" {
				if err := config.Save(saveConfig, cfg); err != nil {
					return err
				}
				fmt.Printf("wrote config to %s\n", saveConfig)
				return nil
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&saveConfig, "save", "", "write the configuration to this file")
	return cmd
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "list integration methods",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range integrators.Methods() {
				marker := " "
				if m == integrators.DefaultMethod {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, m)
			}
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list run presets and catalogs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("run presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s dt=%-7.0f method=%-10s catalog=%s\n", name, p.TimeStep, p.Method, p.Catalog)
			}
			fmt.Printf("\ncatalogs: %s\n", strings.Join(catalog.ListPresets(), ", "))
		},
	}
}
