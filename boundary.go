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

	"github.com/ctessum/unit"
)

// A BoundaryField holds one quantity per boundary box, in the fixed ordering
// returned by Grid.Boundary. It is the shape of Dirichlet forcing values and
// of boundary exchange fluxes.
type BoundaryField struct {
	grid  *Grid
	boxes []Box
	dims  unit.Dimensions
	data  []float64
}

// ZeroBoundary creates a zero-valued boundary field with the given
// dimensions.
func (g *Grid) ZeroBoundary(dims unit.Dimensions) *BoundaryField {
	boxes := g.Boundary()
	return &BoundaryField{
		grid:  g,
		boxes: boxes,
		dims:  dims,
		data:  make([]float64, len(boxes)),
	}
}

// BoundaryFromVec creates a boundary field from a vector in Grid.Boundary
// ordering.
func (g *Grid) BoundaryFromVec(v []float64, dims unit.Dimensions) *BoundaryField {
	b := g.ZeroBoundary(dims)
	if len(v) != len(b.data) {
		panic(fmt.Errorf("oceanbox: boundary vector length %d does not match %d boundary boxes",
			len(v), len(b.data)))
	}
	copy(b.data, v)
	return b
}

// Len returns the number of boundary boxes.
func (b *BoundaryField) Len() int { return len(b.boxes) }

// Boxes returns the boundary boxes in field ordering.
func (b *BoundaryField) Boxes() []Box { return append([]Box{}, b.boxes...) }

// Dimensions returns the physical dimensions shared by all entries.
func (b *BoundaryField) Dimensions() unit.Dimensions { return b.dims }

// Vec returns a copy of the boundary values in field ordering.
func (b *BoundaryField) Vec() []float64 {
	o := make([]float64, len(b.data))
	copy(o, b.data)
	return o
}

// Copy returns a deep copy of the boundary field.
func (b *BoundaryField) Copy() *BoundaryField {
	o := &BoundaryField{grid: b.grid, boxes: b.boxes, dims: b.dims,
		data: make([]float64, len(b.data))}
	copy(o.data, b.data)
	return o
}

// Get returns the quantity at the boundary box with the given labels.
func (b *BoundaryField) Get(m, v string) *unit.Unit {
	return unit.New(b.data[b.index(m, v)], b.dims)
}

// Set sets the boundary box with the given labels to q, panicking if the
// dimensions of q do not match the field.
func (b *BoundaryField) Set(q *unit.Unit, m, v string) {
	if err := q.Check(b.dims); err != nil {
		panic(fmt.Errorf("oceanbox: setting boundary %s/%s: %v", m, v, err))
	}
	b.data[b.index(m, v)] = q.Value()
}

// SetValue sets the bare value at position i in field ordering.
func (b *BoundaryField) SetValue(v float64, i int) { b.data[i] = v }

// Value returns the bare value at position i in field ordering.
func (b *BoundaryField) Value(i int) float64 { return b.data[i] }

func (b *BoundaryField) index(m, v string) int {
	for i, box := range b.boxes {
		if box.Meridional == m && box.Vertical == v {
			return i
		}
	}
	panic(fmt.Errorf("oceanbox: %s/%s is not a boundary box", m, v))
}

// sameBoxes reports whether two boundary fields reference the same boundary
// index set.
func (b *BoundaryField) sameBoxes(c *BoundaryField) bool {
	if b.grid != c.grid || len(b.boxes) != len(c.boxes) {
		return false
	}
	for i, box := range b.boxes {
		if c.boxes[i] != box {
			return false
		}
	}
	return true
}

// BoundaryFlux computes the convergence contribution from Dirichlet
// exchange at the boundary boxes: the difference between the prescribed
// value f and the interior concentration c, times the boundary exchange
// volume flux fb and the water density rho, scattered into a full-grid
// field that is zero away from the boundary. It returns an error if f and
// fb do not reference the same boundary index set.
func BoundaryFlux(f *BoundaryField, c *Field, fb *BoundaryField, rho *unit.Unit) (*Field, error) {
	if !f.sameBoxes(fb) {
		return nil, fmt.Errorf("oceanbox: boundary forcing and exchange flux reference different boundary boxes")
	}
	g := c.Grid()
	if f.grid != g {
		return nil, fmt.Errorf("oceanbox: boundary forcing and tracer field are defined on different grids")
	}
	unit.Add(unit.New(0, f.dims), unit.New(0, c.Dimensions())) // f and c must be commensurable
	dims := mulDims(mulDims(f.dims, fb.dims), rho.Dimensions())
	o := g.Zeros(dims)
	for i, box := range f.boxes {
		mi, vi := g.indexes(box.Meridional, box.Vertical)
		delta := f.data[i] - c.Value(mi, vi)
		o.SetValue(delta*fb.data[i]*rho.Value(), mi, vi)
	}
	return o, nil
}
