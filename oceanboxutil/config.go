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

// Package oceanboxutil holds the configuration and command-line interface
// for the OceanBox tracer transport model.
package oceanboxutil

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/unit"
	"github.com/spatialmodel/oceanbox"
)

// Config holds one model run read from a TOML configuration file.
type Config struct {
	// Meridional lists the meridional category labels from north to
	// south; Vertical lists the depth category labels from surface to
	// bottom.
	Meridional []string
	Vertical   []string

	// AbyssalSv, IntermediateSv, and MixingSv are the strengths of the
	// three circulation cells in Sverdrups (10⁶ m³/s). A zero strength
	// leaves that cell out.
	AbyssalSv      float64
	IntermediateSv float64
	MixingSv       float64

	// BoundaryExchangeSv is the boundary exchange volume flux for each
	// boundary box in Sverdrups, north to south.
	BoundaryExchangeSv []float64

	// BoxVolumes holds the box volumes [m³] in meridional-major order,
	// or a single value shared by all boxes.
	BoxVolumes []float64

	// Density is the seawater density [kg/m³].
	Density float64

	// Tracer names the tracer to simulate, e.g. "CFC-11" or "39Ar".
	Tracer string

	// HistoryURL and HistoryFile locate the atmospheric source history
	// for transient tracers; at most one may be set.
	HistoryURL  string
	HistoryFile string

	// CacheDir is where downloaded histories are kept; empty disables
	// the disk cache.
	CacheDir string

	// StartYear is the calendar year of model time zero.
	StartYear float64

	// OutputYears lists the output times [years since StartYear],
	// strictly increasing and starting at zero.
	OutputYears []float64

	// OutputFile is where the trajectory is written as CSV; empty
	// writes to standard output.
	OutputFile string

	// LogLevel sets the logging verbosity: debug, info, warn, or error.
	LogLevel string
}

// ReadConfig reads and validates a configuration file.
func ReadConfig(path string) (*Config, error) {
	c := &Config{
		Density:  1027,
		LogLevel: "info",
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("oceanboxutil: reading configuration %s: %v", path, err)
	}
	if c.Tracer == "" {
		return nil, fmt.Errorf("oceanboxutil: configuration must name a Tracer")
	}
	if c.HistoryURL != "" && c.HistoryFile != "" {
		return nil, fmt.Errorf("oceanboxutil: set HistoryURL or HistoryFile, not both")
	}
	if len(c.OutputYears) == 0 {
		return nil, fmt.Errorf("oceanboxutil: configuration must list OutputYears")
	}
	return c, nil
}

// sv converts Sverdrups to a volume flux quantity.
func sv(v float64) *unit.Unit { return unit.New(v*1e6, unit.Meter3PerSecond) }

// Model assembles the physical model the configuration describes.
func (c *Config) Model() (*oceanbox.Model, error) {
	g, err := oceanbox.NewGrid(c.Meridional, c.Vertical)
	if err != nil {
		return nil, err
	}

	circ := g.ZeroFlux(unit.Meter3PerSecond)
	if c.AbyssalSv != 0 {
		f, err := oceanbox.AbyssalCell(g, sv(c.AbyssalSv))
		if err != nil {
			return nil, err
		}
		circ = circ.Add(f)
	}
	if c.IntermediateSv != 0 {
		f, err := oceanbox.IntermediateCell(g, sv(c.IntermediateSv))
		if err != nil {
			return nil, err
		}
		circ = circ.Add(f)
	}
	if c.MixingSv != 0 {
		f, err := oceanbox.VerticalMixing(g, sv(c.MixingSv))
		if err != nil {
			return nil, err
		}
		circ = circ.Add(f)
	}

	nb := len(g.Boundary())
	if len(c.BoundaryExchangeSv) != nb {
		return nil, fmt.Errorf("oceanboxutil: BoundaryExchangeSv has %d entries; grid has %d boundary boxes",
			len(c.BoundaryExchangeSv), nb)
	}
	exch := make([]float64, nb)
	for i, v := range c.BoundaryExchangeSv {
		exch[i] = v * 1e6
	}

	var vol *oceanbox.Field
	switch len(c.BoxVolumes) {
	case 1:
		vol = g.Ones(unit.Meter3).ScaleUnit(unit.New(c.BoxVolumes[0], unit.Dimless))
	case g.Len():
		vol = g.FromVec(c.BoxVolumes, unit.Meter3)
	default:
		return nil, fmt.Errorf("oceanboxutil: BoxVolumes has %d entries; want 1 or %d",
			len(c.BoxVolumes), g.Len())
	}

	return oceanbox.NewModel(g, circ,
		g.BoundaryFromVec(exch, unit.Meter3PerSecond),
		vol, unit.New(c.Density, unit.KilogramPerMeter3))
}

// Times converts OutputYears to model seconds.
func (c *Config) Times() []float64 {
	o := make([]float64, len(c.OutputYears))
	for i, y := range c.OutputYears {
		o[i] = y * oceanbox.SecondsPerYear
	}
	return o
}

// History loads the atmospheric source history named by the configuration,
// downloading it if a URL is configured, or returns nil when none is
// configured.
func (c *Config) History(ctx context.Context) (*oceanbox.History, error) {
	switch {
	case c.HistoryFile != "":
		f, err := os.Open(c.HistoryFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return oceanbox.ReadHistory(f)
	case c.HistoryURL != "":
		return oceanbox.FetchHistory(ctx, c.HistoryURL, c.CacheDir)
	default:
		return nil, nil
	}
}
