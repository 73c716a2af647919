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
	"math"
	"testing"

	"github.com/ctessum/unit"
)

const testTolerance = 1.e-10

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

var (
	testMeridional = []string{"High latitudes", "Mid latitudes", "Low latitudes"}
	testVertical   = []string{"Thermocline", "Deep", "Abyssal"}
)

func testGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(testMeridional, testVertical)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// sv converts Sverdrups to a volume flux quantity.
func sv(v float64) *unit.Unit { return unit.New(v*1e6, unit.Meter3PerSecond) }

// testCirculation superposes the three builder cells into a conserved
// multi-cell circulation.
func testCirculation(t *testing.T, g *Grid) *FluxField {
	t.Helper()
	ab, err := AbyssalCell(g, sv(20))
	if err != nil {
		t.Fatal(err)
	}
	im, err := IntermediateCell(g, sv(10))
	if err != nil {
		t.Fatal(err)
	}
	mx, err := VerticalMixing(g, sv(5))
	if err != nil {
		t.Fatal(err)
	}
	return ab.Add(im).Add(mx)
}

func testModel(t *testing.T) *Model {
	t.Helper()
	g := testGrid(t)
	exch := g.BoundaryFromVec([]float64{2e6, 1e6}, unit.Meter3PerSecond)
	vol := g.Ones(unit.Meter3).ScaleUnit(unit.New(3e16, unit.Dimless))
	m, err := NewModel(g, testCirculation(t, g), exch, vol, unit.New(1027, unit.KilogramPerMeter3))
	if err != nil {
		t.Fatal(err)
	}
	return m
}
