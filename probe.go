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
	"gonum.org/v1/gonum/mat"
)

// An Operator is a matrix representation of a linear operator together with
// the dimensions of its entries (response unit per perturbation unit).
type Operator struct {
	Data *mat.Dense
	Dims unit.Dimensions
}

// AddOperators returns the entry-wise sum of two operators, panicking if
// their dimensions do not match. It is used to fold the decay correction
// into the transport matrix.
func AddOperators(a, b *Operator) *Operator {
	unit.Add(unit.New(0, a.Dims), unit.New(0, b.Dims))
	var o mat.Dense
	o.Add(a.Data, b.Data)
	return &Operator{Data: &o, Dims: a.Dims}
}

// ProbeTransport numerically assembles the matrix of the linear operator
// represented by the tendency function f: the baseline f(c0) is subtracted
// from the response of f to a unit impulse in each state component in turn,
// yielding column i of an n×n matrix. The probe perturbs a fresh copy of the
// state for every component, so c0 is never mutated. The result is exact
// only for functions that are truly linear in the state; no higher-order
// Jacobian estimation is attempted.
func ProbeTransport(f TendencyFunc, c0 *Field) *Operator {
	g := c0.Grid()
	n := g.Len()
	base := f(c0)
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		v := c0.Vec()
		v[i]++ // one unit of the state's own quantity
		col := f(g.FromVec(v, c0.Dimensions())).Sub(base).Vec()
		for r := 0; r < n; r++ {
			a.Set(r, i, col[r])
		}
	}
	return &Operator{Data: a, Dims: divDims(base.Dimensions(), c0.Dimensions())}
}

// ProbeBoundary assembles the n×k boundary matrix by probing the
// boundary-only tendency function f over the k boundary forcing components
// instead of the full state.
func ProbeBoundary(f func(*BoundaryField) *Field, f0 *BoundaryField) *Operator {
	k := f0.Len()
	base := f(f0)
	n := base.Grid().Len()
	b := mat.NewDense(n, k, nil)
	for i := 0; i < k; i++ {
		p := f0.Copy()
		p.data[i]++
		col := f(p).Sub(base).Vec()
		for r := 0; r < n; r++ {
			b.Set(r, i, col[r])
		}
	}
	return &Operator{Data: b, Dims: divDims(base.Dimensions(), f0.Dimensions())}
}
