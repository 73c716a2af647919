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
	"github.com/ctessum/unit"
)

// A FluxField holds the flux leaving each box through each of its four
// faces. Fluxes follow the upwind convention: they are attributed to the
// source box, so North at box (m, v) is the amount transferred into the
// northward neighbor of (m, v), not what (m, v) receives.
type FluxField struct {
	North, South, Up, Down *Field
}

// ZeroFlux creates a flux field with all components zero, in the given
// dimensions.
func (g *Grid) ZeroFlux(dims unit.Dimensions) *FluxField {
	return &FluxField{
		North: g.Zeros(dims),
		South: g.Zeros(dims),
		Up:    g.Zeros(dims),
		Down:  g.Zeros(dims),
	}
}

// Add returns the component-wise sum of F and G. Circulation cells are
// superposed this way; the caller is responsible for choosing a combination
// that keeps the net box-by-box volume balance at zero.
func (F *FluxField) Add(G *FluxField) *FluxField {
	return &FluxField{
		North: F.North.Add(G.North),
		South: F.South.Add(G.South),
		Up:    F.Up.Add(G.Up),
		Down:  F.Down.Add(G.Down),
	}
}

// Dimensions returns the physical dimensions shared by all components.
func (F *FluxField) Dimensions() unit.Dimensions { return F.North.Dimensions() }

// Grid returns the grid the flux field is defined on.
func (F *FluxField) Grid() *Grid { return F.North.Grid() }

// Flux converts the volume flux field fv into a tracer flux field by
// multiplying each directional flux by the source box's tracer value and the
// water density rho. With a dimensionless tracer and fv in m³/s, the result
// is in kg/s. Each direction is treated independently; no interpolation
// between boxes is performed.
func Flux(c *Field, fv *FluxField, rho *unit.Unit) *FluxField {
	return &FluxField{
		North: c.Mul(fv.North).ScaleUnit(rho),
		South: c.Mul(fv.South).ScaleUnit(rho),
		Up:    c.Mul(fv.Up).ScaleUnit(rho),
		Down:  c.Mul(fv.Down).ScaleUnit(rho),
	}
}

// Convergence reduces a tracer flux field to the net accumulation in each
// box: every box loses its outgoing flux through all four faces and gains
// the outgoing flux of each neighbor through the shared face. Boxes on the
// grid edge receive no credit on the missing side, which is what makes the
// scheme globally conserving for any circulation assembled from the builders
// in this package; open-edge exchange is handled separately by BoundaryFlux.
func Convergence(j *FluxField) *Field {
	g := j.Grid()
	nm, nv := g.Shape()
	o := g.Zeros(j.Dimensions())

	for i := 0; i < nm; i++ {
		for k := 0; k < nv; k++ {
			out := j.North.Value(i, k) + j.South.Value(i, k) +
				j.Up.Value(i, k) + j.Down.Value(i, k)
			o.SetValue(-out, i, k)
		}
	}
	// Inflow credits from the neighbors' outgoing fluxes. Meridional index 0
	// is the northernmost category and vertical index 0 the surface, so a
	// box gains North from its southern neighbor, South from its northern
	// neighbor, Up from the box below, and Down from the box above.
	for i := 0; i < nm; i++ {
		for k := 1; k < nv; k++ {
			o.SetValue(o.Value(i, k-1)+j.Up.Value(i, k), i, k-1)
			o.SetValue(o.Value(i, k)+j.Down.Value(i, k-1), i, k)
		}
	}
	for i := 1; i < nm; i++ {
		for k := 0; k < nv; k++ {
			o.SetValue(o.Value(i-1, k)+j.North.Value(i, k), i-1, k)
			o.SetValue(o.Value(i, k)+j.South.Value(i-1, k), i, k)
		}
	}
	return o
}
