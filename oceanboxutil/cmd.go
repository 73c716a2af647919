/*
Copyright © 2018 the OceanBox authors.
This file is part of OceanBox.

OceanBox is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

OceanBox is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with OceanBox.  If not, see <http://www.gnu.org/licenses/>.
*/

package oceanboxutil

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/oceanbox"
)

var configFile string

// Root is the base command.
var Root = &cobra.Command{
	Use:   "oceanbox",
	Short: "A reduced-order ocean tracer transport model.",
	Long: `OceanBox simulates the invasion of transient and steady tracers
into a zonally averaged ocean, using a box circulation linearized
into transport matrices and integrated exactly between output times.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a tracer simulation.",
	Long: `run reads the configuration file, assembles the circulation and
boundary exchange it describes, and integrates the configured tracer,
writing the trajectory as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ReadConfig(configFile)
		if err != nil {
			return err
		}
		return Run(cmd, cfg)
	},
}

var tracersCmd = &cobra.Command{
	Use:   "tracers",
	Short: "List the tracers the model can simulate.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range []oceanbox.TracerKind{
			oceanbox.CFC11, oceanbox.CFC12, oceanbox.Iodine129,
			oceanbox.Carbon14, oceanbox.Argon39,
		} {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

func init() {
	Root.PersistentFlags().StringVar(&configFile, "config", "oceanbox.toml",
		"configuration file location")
	Root.AddCommand(runCmd, tracersCmd)
}

// Run executes the simulation the configuration describes.
func Run(cmd *cobra.Command, cfg *Config) error {
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	kind, err := oceanbox.ParseTracer(cfg.Tracer)
	if err != nil {
		return err
	}
	m, err := cfg.Model()
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"tracer":     kind,
		"boxes":      m.Grid.Len(),
		"boundaries": len(m.Grid.Boundary()),
	}).Info("assembled model")

	h, err := cfg.History(cmd.Context())
	if err != nil {
		return err
	}
	if h != nil {
		log.WithFields(log.Fields{
			"from": h.Years[0],
			"to":   h.Years[len(h.Years)-1],
		}).Info("loaded source history")
	}

	s := &oceanbox.Simulation{
		Model:     m,
		Kind:      kind,
		History:   h,
		StartYear: cfg.StartYear,
	}
	log.Info("integrating")
	tr, err := s.Run(cfg.Times())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := WriteTrajectory(w, m.Grid, tr); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"times":  len(tr.Times),
		"output": cfg.OutputFile,
	}).Info("finished")
	return nil
}
