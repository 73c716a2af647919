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
	"testing"

	"github.com/ctessum/unit"
)

func TestGridShape(t *testing.T) {
	g := testGrid(t)
	nm, nv := g.Shape()
	if nm != 3 || nv != 3 {
		t.Fatalf("shape = %d×%d, want 3×3", nm, nv)
	}
	if g.Len() != 9 {
		t.Fatalf("len = %d, want 9", g.Len())
	}
	if _, err := NewGrid([]string{"only"}, testVertical); err == nil {
		t.Error("expected error for single meridional category")
	}
	if _, err := NewGrid([]string{"a", "a"}, testVertical); err == nil {
		t.Error("expected error for duplicate categories")
	}
}

func TestGridBoundary(t *testing.T) {
	g := testGrid(t)
	b := g.Boundary()
	want := []Box{
		{Meridional: "High latitudes", Vertical: "Thermocline"},
		{Meridional: "Mid latitudes", Vertical: "Thermocline"},
	}
	if len(b) != len(want) {
		t.Fatalf("boundary has %d boxes, want %d", len(b), len(want))
	}
	for i, box := range want {
		if b[i] != box {
			t.Errorf("boundary[%d] = %v, want %v", i, b[i], box)
		}
	}
}

func TestFieldVecRoundTrip(t *testing.T) {
	g := testGrid(t)
	v := make([]float64, g.Len())
	for i := range v {
		v[i] = float64(i + 1)
	}
	f := g.FromVec(v, unit.Dimless)
	got := f.Vec()
	for i := range v {
		if got[i] != v[i] {
			t.Fatalf("vec[%d] = %g, want %g", i, got[i], v[i])
		}
	}
	// Label indexing agrees with the flattened ordering: meridional-major.
	if f.Get("High latitudes", "Thermocline").Value() != 1 {
		t.Error("first label pair should map to flat index 0")
	}
	if f.Get("High latitudes", "Abyssal").Value() != 3 {
		t.Error("vertical axis should vary fastest")
	}
	if f.Get("Low latitudes", "Abyssal").Value() != 9 {
		t.Error("last label pair should map to the last flat index")
	}
}

func TestFieldLabelSlices(t *testing.T) {
	g := testGrid(t)
	v := make([]float64, g.Len())
	for i := range v {
		v[i] = float64(i)
	}
	f := g.FromVec(v, unit.Dimless)
	layer := f.Layer("Deep")
	wantLayer := []float64{1, 4, 7}
	for i := range wantLayer {
		if layer[i] != wantLayer[i] {
			t.Errorf("layer[%d] = %g, want %g", i, layer[i], wantLayer[i])
		}
	}
	col := f.Column("Mid latitudes")
	wantCol := []float64{3, 4, 5}
	for i := range wantCol {
		if col[i] != wantCol[i] {
			t.Errorf("column[%d] = %g, want %g", i, col[i], wantCol[i])
		}
	}
}

func TestFieldUnitMismatch(t *testing.T) {
	g := testGrid(t)
	f := g.Zeros(unit.Dimless)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched dimensions")
		}
	}()
	f.Set(unit.New(1, unit.Meter3), "High latitudes", "Deep")
}

func TestFieldAddUnitMismatch(t *testing.T) {
	g := testGrid(t)
	defer func() {
		if recover() == nil {
			t.Error("expected panic adding fields with different dimensions")
		}
	}()
	g.Zeros(unit.Dimless).Add(g.Zeros(unit.Meter3))
}

func TestFieldArithmeticDimensions(t *testing.T) {
	g := testGrid(t)
	c := g.Ones(unit.Dimless)
	vol := g.Ones(unit.Meter3)
	rho := unit.New(1027, unit.KilogramPerMeter3)
	mass := vol.ScaleUnit(rho)
	if err := unit.New(0, mass.Dimensions()).Check(unit.Kilogram); err != nil {
		t.Errorf("volume × density: %v", err)
	}
	q := c.DivField(mass)
	want := unit.Dimensions{unit.MassDim: -1}
	if err := unit.New(0, q.Dimensions()).Check(want); err != nil {
		t.Errorf("dimensionless / mass: %v", err)
	}
	back := mass.DivUnit(rho)
	if err := unit.New(0, back.Dimensions()).Check(unit.Meter3); err != nil {
		t.Errorf("mass / density: %v", err)
	}
	for _, v := range back.Sub(vol).Vec() {
		if absDifferent(v, 0, testTolerance) {
			t.Errorf("mass / density - volume = %g, want 0", v)
		}
	}
}
