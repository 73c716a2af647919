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

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// Grid describes the box topology for a model run: an ordered set of
// meridional categories (northernmost first) crossed with an ordered set of
// vertical categories (surface first). A Grid is immutable once created and
// is shared by all fields defined on it.
type Grid struct {
	meridional []string
	vertical   []string
	mIndex     map[string]int
	vIndex     map[string]int
}

// A Box identifies one well-mixed control volume by its category labels.
type Box struct {
	Meridional, Vertical string
}

func (b Box) String() string {
	return fmt.Sprintf("%s / %s", b.Meridional, b.Vertical)
}

// NewGrid creates a grid from category labels. The meridional labels must be
// ordered from north to south and the vertical labels from the surface
// downward; the convergence index arithmetic depends on this ordering.
func NewGrid(meridional, vertical []string) (*Grid, error) {
	if len(meridional) < 2 || len(vertical) < 2 {
		return nil, fmt.Errorf("oceanbox: grid must have at least 2 categories per axis; got %d×%d",
			len(meridional), len(vertical))
	}
	g := &Grid{
		meridional: append([]string{}, meridional...),
		vertical:   append([]string{}, vertical...),
		mIndex:     make(map[string]int),
		vIndex:     make(map[string]int),
	}
	for i, m := range g.meridional {
		if _, ok := g.mIndex[m]; ok {
			return nil, fmt.Errorf("oceanbox: duplicate meridional category %q", m)
		}
		g.mIndex[m] = i
	}
	for j, v := range g.vertical {
		if _, ok := g.vIndex[v]; ok {
			return nil, fmt.Errorf("oceanbox: duplicate vertical category %q", v)
		}
		g.vIndex[v] = j
	}
	return g, nil
}

// Shape returns the number of meridional and vertical categories.
func (g *Grid) Shape() (nm, nv int) { return len(g.meridional), len(g.vertical) }

// Len returns the total number of boxes.
func (g *Grid) Len() int { return len(g.meridional) * len(g.vertical) }

// Meridional returns the meridional category labels, northernmost first.
func (g *Grid) Meridional() []string { return append([]string{}, g.meridional...) }

// Vertical returns the vertical category labels, surface first.
func (g *Grid) Vertical() []string { return append([]string{}, g.vertical...) }

// Box returns the box at integer position (i, j).
func (g *Grid) Box(i, j int) Box {
	return Box{Meridional: g.meridional[i], Vertical: g.vertical[j]}
}

// indexes converts category labels to integer positions, panicking on
// unknown labels.
func (g *Grid) indexes(m, v string) (int, int) {
	i, ok := g.mIndex[m]
	if !ok {
		panic(fmt.Errorf("oceanbox: unknown meridional category %q", m))
	}
	j, ok := g.vIndex[v]
	if !ok {
		panic(fmt.Errorf("oceanbox: unknown vertical category %q", v))
	}
	return i, j
}

// Boundary returns the boxes subject to Dirichlet surface forcing: the
// surface layer of the two northernmost meridional categories, in
// north-to-south order. The ordering fixes the layout of boundary vectors
// and of the columns of the boundary matrix.
func (g *Grid) Boundary() []Box {
	return []Box{
		{Meridional: g.meridional[0], Vertical: g.vertical[0]},
		{Meridional: g.meridional[1], Vertical: g.vertical[0]},
	}
}

// A Field holds one physical quantity per box. The flattened vector view
// used by the linear probe and the propagator is row-major with the
// meridional axis varying slowest, as in sparse.DenseArray.
type Field struct {
	grid *Grid
	dims unit.Dimensions
	data *sparse.DenseArray
}

// Zeros creates a zero-valued field with the given dimensions.
func (g *Grid) Zeros(dims unit.Dimensions) *Field {
	nm, nv := g.Shape()
	return &Field{grid: g, dims: dims, data: sparse.ZerosDense(nm, nv)}
}

// Ones creates a field with every box set to one, in the given dimensions.
func (g *Grid) Ones(dims unit.Dimensions) *Field {
	f := g.Zeros(dims)
	for i := range f.data.Elements {
		f.data.Elements[i] = 1
	}
	return f
}

// FromVec creates a field from a flattened vector in grid ordering.
func (g *Grid) FromVec(v []float64, dims unit.Dimensions) *Field {
	if len(v) != g.Len() {
		panic(fmt.Errorf("oceanbox: vector length %d does not match grid size %d", len(v), g.Len()))
	}
	f := g.Zeros(dims)
	copy(f.data.Elements, v)
	return f
}

// Grid returns the grid the field is defined on.
func (f *Field) Grid() *Grid { return f.grid }

// Dimensions returns the physical dimensions shared by all boxes.
func (f *Field) Dimensions() unit.Dimensions { return f.dims }

// Get returns the quantity at the box with the given category labels.
func (f *Field) Get(m, v string) *unit.Unit {
	i, j := f.grid.indexes(m, v)
	return unit.New(f.data.Get(i, j), f.dims)
}

// Set sets the box with the given category labels to q, panicking if the
// dimensions of q do not match the field.
func (f *Field) Set(q *unit.Unit, m, v string) {
	if err := q.Check(f.dims); err != nil {
		panic(fmt.Errorf("oceanbox: setting %s/%s: %v", m, v, err))
	}
	i, j := f.grid.indexes(m, v)
	f.SetValue(q.Value(), i, j)
}

// Value returns the bare value at integer position (i, j).
func (f *Field) Value(i, j int) float64 { return f.data.Get(i, j) }

// SetValue sets the bare value at integer position (i, j).
func (f *Field) SetValue(v float64, i, j int) {
	// sparse.DenseArray.Set skips explicit zeros, so write directly.
	f.data.Elements[f.data.Index1d(i, j)] = v
}

// Vec returns a copy of the field flattened to grid ordering.
func (f *Field) Vec() []float64 {
	o := make([]float64, len(f.data.Elements))
	copy(o, f.data.Elements)
	return o
}

// Copy returns a deep copy of the field.
func (f *Field) Copy() *Field {
	return &Field{grid: f.grid, dims: f.dims, data: f.data.Copy()}
}

// Add returns the box-wise sum of f and b. The fields must share a grid and
// dimensions; a mismatch panics.
func (f *Field) Add(b *Field) *Field {
	f.checkGrid(b)
	unit.Add(unit.New(0, f.dims), unit.New(0, b.dims)) // dimension check
	o := f.Copy()
	o.data.AddDense(b.data)
	return o
}

// Sub returns the box-wise difference f − b.
func (f *Field) Sub(b *Field) *Field {
	f.checkGrid(b)
	unit.Add(unit.New(0, f.dims), unit.New(0, b.dims))
	o := f.Copy()
	for i, e := range b.data.Elements {
		o.data.Elements[i] -= e
	}
	return o
}

// Mul returns the box-wise product of f and b, with composed dimensions.
func (f *Field) Mul(b *Field) *Field {
	f.checkGrid(b)
	o := f.Copy()
	o.dims = mulDims(f.dims, b.dims)
	for i, e := range b.data.Elements {
		o.data.Elements[i] *= e
	}
	return o
}

// ScaleUnit returns f with every box multiplied by q, with composed
// dimensions.
func (f *Field) ScaleUnit(q *unit.Unit) *Field {
	o := f.Copy()
	o.dims = mulDims(f.dims, q.Dimensions())
	o.data.Scale(q.Value())
	return o
}

// DivUnit returns f with every box divided by q, with composed dimensions.
func (f *Field) DivUnit(q *unit.Unit) *Field {
	o := f.Copy()
	o.dims = divDims(f.dims, q.Dimensions())
	o.data.Scale(1 / q.Value())
	return o
}

// DivField returns the box-wise quotient f / b, with composed dimensions.
func (f *Field) DivField(b *Field) *Field {
	f.checkGrid(b)
	o := f.Copy()
	o.dims = divDims(f.dims, b.dims)
	for i, e := range b.data.Elements {
		o.data.Elements[i] /= e
	}
	return o
}

// Layer returns the values of one vertical category across all meridional
// categories, northernmost first.
func (f *Field) Layer(v string) []float64 {
	j, ok := f.grid.vIndex[v]
	if !ok {
		panic(fmt.Errorf("oceanbox: unknown vertical category %q", v))
	}
	o := make([]float64, len(f.grid.meridional))
	for i := range o {
		o[i] = f.data.Get(i, j)
	}
	return o
}

// Column returns the values of one meridional category across all vertical
// categories, surface first.
func (f *Field) Column(m string) []float64 {
	i, ok := f.grid.mIndex[m]
	if !ok {
		panic(fmt.Errorf("oceanbox: unknown meridional category %q", m))
	}
	o := make([]float64, len(f.grid.vertical))
	for j := range o {
		o[j] = f.data.Get(i, j)
	}
	return o
}

func (f *Field) checkGrid(b *Field) {
	if f.grid != b.grid {
		panic(fmt.Errorf("oceanbox: fields are defined on different grids"))
	}
}

// mulDims composes dimensions through multiplication.
func mulDims(a, b unit.Dimensions) unit.Dimensions {
	return unit.Mul(unit.New(1, a), unit.New(1, b)).Dimensions()
}

// divDims composes dimensions through division.
func divDims(a, b unit.Dimensions) unit.Dimensions {
	return unit.Div(unit.New(1, a), unit.New(1, b)).Dimensions()
}

// Dimensions used throughout the model.
var (
	// PerSecond is inverse time, the dimension of all tendencies.
	PerSecond = unit.Dimensions{unit.TimeDim: -1}
	// KilogramPerSecond is a mass flux.
	KilogramPerSecond = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}
)
