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
	"strings"

	"github.com/ctessum/unit"
)

// TracerKind enumerates the tracers the model knows how to force. Each kind
// carries its boundary-ratio constants, halflife, and steady-vs-transient
// convention; these are resolved once per simulation rather than rechecked
// during integration.
type TracerKind int

const (
	// CFC11 is the chlorofluorocarbon CFC-11, a stable transient tracer
	// forced by its atmospheric history.
	CFC11 TracerKind = iota
	// CFC12 is CFC-12.
	CFC12
	// Iodine129 is the long-lived fission product ¹²⁹I released from
	// European reprocessing plants, entering mostly through the
	// northernmost boundary box.
	Iodine129
	// Carbon14 is radiocarbon, treated as a steady decaying tracer.
	Carbon14
	// Argon39 is ³⁹Ar, a steady decaying tracer with a 269-year halflife.
	Argon39
)

var tracerNames = map[TracerKind]string{
	CFC11:     "CFC-11",
	CFC12:     "CFC-12",
	Iodine129: "129I",
	Carbon14:  "14C",
	Argon39:   "39Ar",
}

func (k TracerKind) String() string {
	if n, ok := tracerNames[k]; ok {
		return n
	}
	return fmt.Sprintf("TracerKind(%d)", int(k))
}

// ParseTracer converts a tracer name to its kind.
func ParseTracer(name string) (TracerKind, error) {
	for k, n := range tracerNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("oceanbox: unknown tracer %q", name)
}

// tracerSpec holds the per-tracer constants used by Simulation.Run.
type tracerSpec struct {
	halflife *unit.Unit // nil for stable tracers

	// ratios scale the boundary forcing per boundary box, in Grid.Boundary
	// (north-to-south) order: surface saturation fractions for the gas
	// tracers, source partitioning for ¹²⁹I.
	ratios []float64

	// transient tracers start from zero and follow an atmospheric history;
	// steady tracers start from one with constant unit forcing and spin
	// down under decay.
	transient bool
}

func years(y float64) *unit.Unit { return unit.New(y*SecondsPerYear, unit.Second) }

func (k TracerKind) spec() (tracerSpec, error) {
	switch k {
	case CFC11:
		return tracerSpec{ratios: []float64{0.90, 0.97}, transient: true}, nil
	case CFC12:
		return tracerSpec{ratios: []float64{0.90, 0.97}, transient: true}, nil
	case Iodine129:
		return tracerSpec{halflife: years(15.7e6), ratios: []float64{1.0, 0.3}, transient: true}, nil
	case Carbon14:
		return tracerSpec{halflife: years(5730), ratios: []float64{0.85, 0.95}}, nil
	case Argon39:
		return tracerSpec{halflife: years(269), ratios: []float64{1.0, 1.0}}, nil
	default:
		return tracerSpec{}, fmt.Errorf("oceanbox: no boundary rule defined for tracer %v", k)
	}
}

// A Simulation orchestrates one tracer case: it probes the model's tendency
// functions into transport and boundary matrices, applies the tracer's
// decay correction and forcing convention, and runs the propagator.
type Simulation struct {
	Model *Model
	Kind  TracerKind

	// History is the atmospheric record for transient tracers; unused for
	// steady tracers.
	History *History

	// StartYear is the calendar year corresponding to model time zero,
	// used to line the history up with the propagator's time base.
	StartYear float64
}

// Run computes the tracer trajectory at the requested model times [s].
// Configuration errors (unknown tracer, missing history) are reported
// before any linearization or integration work begins.
func (s *Simulation) Run(times []float64) (*Trajectory, error) {
	spec, err := s.Kind.spec()
	if err != nil {
		return nil, err
	}
	if spec.transient && s.History == nil {
		return nil, fmt.Errorf("oceanbox: tracer %v needs an atmospheric history", s.Kind)
	}
	if len(spec.ratios) != len(s.Model.Grid.Boundary()) {
		return nil, fmt.Errorf("oceanbox: tracer %v defines %d boundary ratios; grid has %d boundary boxes",
			s.Kind, len(spec.ratios), len(s.Model.Grid.Boundary()))
	}

	g := s.Model.Grid
	zeroState := g.Zeros(unit.Dimless)
	zeroForcing := g.ZeroBoundary(unit.Dimless)

	a := ProbeTransport(s.Model.Tendency(zeroForcing), zeroState)
	b := ProbeBoundary(s.Model.BoundaryTendency(zeroState), zeroForcing)
	if spec.halflife != nil {
		a = AddOperators(a, ProbeTransport(DecayTendency(spec.halflife), zeroState))
	}
	p, err := NewPropagator(a, b)
	if err != nil {
		return nil, err
	}

	var c0 *Field
	var src SourceFunc
	if spec.transient {
		c0 = g.Zeros(unit.Dimless)
		src = s.History.Source(s.StartYear, spec.ratios)
	} else {
		c0 = g.Ones(unit.Dimless)
		src = ConstantSource(spec.ratios)
	}
	return p.Evolve(c0, times, src)
}
