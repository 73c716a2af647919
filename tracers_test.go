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
)

func TestParseTracer(t *testing.T) {
	cases := map[string]TracerKind{
		"CFC-11": CFC11,
		"cfc-12": CFC12,
		"129I":   Iodine129,
		"14C":    Carbon14,
		"39ar":   Argon39,
	}
	for name, want := range cases {
		got, err := ParseTracer(name)
		if err != nil {
			t.Errorf("ParseTracer(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTracer(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseTracer("tritium"); err == nil {
		t.Error("expected error for unknown tracer name")
	}
}

// Configuration errors surface before any linearization work.
func TestSimulationConfigurationErrors(t *testing.T) {
	m := testModel(t)
	s := &Simulation{Model: m, Kind: TracerKind(99)}
	if _, err := s.Run([]float64{0, 1e9}); err == nil {
		t.Error("expected error for unknown tracer kind")
	}
	s = &Simulation{Model: m, Kind: CFC11} // transient, but no history
	if _, err := s.Run([]float64{0, 1e9}); err == nil {
		t.Error("expected error for transient tracer without history")
	}
}

// A steady decaying tracer starts saturated and stays bounded: boundary
// relaxation toward unit forcing balances radioactive loss.
func TestSimulationSteady(t *testing.T) {
	s := &Simulation{Model: testModel(t), Kind: Argon39}
	times := []float64{0, 100 * SecondsPerYear, 500 * SecondsPerYear}
	tr, err := s.Run(times)
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Fields) != len(times) {
		t.Fatalf("trajectory has %d fields, want %d", len(tr.Fields), len(times))
	}
	for _, v := range tr.Fields[0].Vec() {
		if v != 1 {
			t.Errorf("initial concentration = %g, want 1", v)
		}
	}
	for ti := 1; ti < len(times); ti++ {
		for i, v := range tr.Fields[ti].Vec() {
			if math.IsNaN(v) || v <= 0 || v > 1+testTolerance {
				t.Errorf("t = %g yr, box %d: concentration = %g out of (0, 1]",
					times[ti]/SecondsPerYear, i, v)
			}
		}
	}
	// Decay pulls the deep interior below its saturated start.
	deep := tr.Series("Low latitudes", "Abyssal")
	if deep[len(deep)-1].Value() >= deep[0].Value() {
		t.Errorf("abyssal concentration did not decrease: %g -> %g",
			deep[0].Value(), deep[len(deep)-1].Value())
	}
}

// A transient tracer invades from zero, tracking its atmospheric history:
// boundary boxes respond first and nothing exceeds the forcing ceiling.
func TestSimulationTransient(t *testing.T) {
	h, err := NewHistory(
		[]float64{1950, 1970, 1990, 2010},
		[]float64{0, 0.3, 0.8, 1.0})
	if err != nil {
		t.Fatal(err)
	}
	m := testModel(t)
	s := &Simulation{Model: m, Kind: CFC11, History: h, StartYear: 1950}
	times := []float64{0, 30 * SecondsPerYear, 60 * SecondsPerYear}
	tr, err := s.Run(times)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range tr.Fields[0].Vec() {
		if v != 0 {
			t.Errorf("initial concentration = %g, want 0", v)
		}
	}
	final := tr.Fields[len(tr.Fields)-1]
	for _, box := range m.Grid.Boundary() {
		if v := final.Get(box.Meridional, box.Vertical).Value(); v <= 0 {
			t.Errorf("boundary box %s/%s concentration = %g, want > 0",
				box.Meridional, box.Vertical, v)
		}
	}
	for i, v := range final.Vec() {
		if math.IsNaN(v) || v < 0 || v > 1 {
			t.Errorf("box %d: concentration = %g out of [0, 1]", i, v)
		}
	}
	// The surface boundary leads the abyss during invasion.
	top := final.Get("High latitudes", "Thermocline").Value()
	bottom := final.Get("Low latitudes", "Abyssal").Value()
	if top <= bottom {
		t.Errorf("surface boundary (%g) should lead the abyss (%g)", top, bottom)
	}
}
