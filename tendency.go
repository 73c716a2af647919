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

package oceanbox

import (
	"fmt"
	"math"

	"github.com/ctessum/unit"
)

// A Model holds the physical configuration of one box-model run. All fields
// are immutable once the model is created.
type Model struct {
	Grid *Grid

	// Circulation is the superposed volume flux field [m³/s].
	Circulation *FluxField

	// Exchange is the boundary exchange volume flux at the Dirichlet
	// boundary boxes [m³/s].
	Exchange *BoundaryField

	// Volumes holds the box volumes [m³].
	Volumes *Field

	// Density is the uniform seawater density [kg/m³].
	Density *unit.Unit
}

// NewModel validates the physical configuration and returns a model.
func NewModel(g *Grid, circ *FluxField, exch *BoundaryField, vol *Field, rho *unit.Unit) (*Model, error) {
	if err := unit.New(0, circ.Dimensions()).Check(unit.Meter3PerSecond); err != nil {
		return nil, fmt.Errorf("oceanbox: circulation: %v", err)
	}
	if err := unit.New(0, exch.Dimensions()).Check(unit.Meter3PerSecond); err != nil {
		return nil, fmt.Errorf("oceanbox: boundary exchange: %v", err)
	}
	if err := unit.New(0, vol.Dimensions()).Check(unit.Meter3); err != nil {
		return nil, fmt.Errorf("oceanbox: volumes: %v", err)
	}
	if err := rho.Check(unit.KilogramPerMeter3); err != nil {
		return nil, fmt.Errorf("oceanbox: density: %v", err)
	}
	if circ.Grid() != g || vol.Grid() != g || exch.grid != g {
		return nil, fmt.Errorf("oceanbox: model components are defined on different grids")
	}
	return &Model{Grid: g, Circulation: circ, Exchange: exch, Volumes: vol, Density: rho}, nil
}

// Mass returns the box masses [kg].
func (m *Model) Mass() *Field { return m.Volumes.ScaleUnit(m.Density) }

// A TendencyFunc maps a tracer field to its rate of change. The result
// carries the tracer's dimensions per unit time; for the dimensionless
// concentrations used throughout this package that is inverse seconds.
type TendencyFunc func(c *Field) *Field

// checkTendencyDims panics unless the tendency dc has the dimensions of c
// per unit time. A wrong unit anywhere upstream (circulation, volumes,
// forcing) surfaces here rather than being coerced.
func checkTendencyDims(c, dc *Field) {
	want := mulDims(c.Dimensions(), PerSecond)
	if err := unit.New(0, dc.Dimensions()).Check(want); err != nil {
		panic(fmt.Errorf("oceanbox: tendency: %v", err))
	}
}

// Tendency returns the full interior tendency function
//
//	∂C/∂t = (convergence(flux(C, Fv)) + boundaryFlux(f, C, Fb)) / mass
//
// for the fixed Dirichlet boundary values f. Probing this function builds
// the transport matrix A.
func (m *Model) Tendency(f *BoundaryField) TendencyFunc {
	mass := m.Mass()
	return func(c *Field) *Field {
		conv := Convergence(Flux(c, m.Circulation, m.Density))
		bf, err := BoundaryFlux(f, c, m.Exchange, m.Density)
		if err != nil {
			panic(err)
		}
		dc := conv.Add(bf).DivField(mass)
		checkTendencyDims(c, dc)
		return dc
	}
}

// BoundaryTendency returns the boundary-only tendency as a function of the
// Dirichlet forcing values, with the interior state c held fixed. Probing
// this function over the boundary components builds the boundary matrix B.
func (m *Model) BoundaryTendency(c *Field) func(f *BoundaryField) *Field {
	mass := m.Mass()
	return func(f *BoundaryField) *Field {
		bf, err := BoundaryFlux(f, c, m.Exchange, m.Density)
		if err != nil {
			panic(err)
		}
		dc := bf.DivField(mass)
		checkTendencyDims(c, dc)
		return dc
	}
}

// DecayTendency returns the first-order radioactive decay tendency
// −(ln 2 / halflife) · C. It panics if halflife is not a positive time.
func DecayTendency(halflife *unit.Unit) TendencyFunc {
	if err := halflife.Check(unit.Second); err != nil {
		panic(fmt.Errorf("oceanbox: halflife: %v", err))
	}
	if halflife.Value() <= 0 {
		panic(fmt.Errorf("oceanbox: halflife must be positive; got %g s", halflife.Value()))
	}
	rate := unit.New(-math.Ln2/halflife.Value(), PerSecond)
	return func(c *Field) *Field {
		dc := c.ScaleUnit(rate)
		checkTendencyDims(c, dc)
		return dc
	}
}
