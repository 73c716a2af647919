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

// The circulation builders each turn one volume-flux magnitude Ψ into a
// closed, exactly volume-conserving flux field for a named circulation
// pattern. Realistic circulations are assembled by superposing builder
// outputs with FluxField.Add.

// checkPsi verifies that Ψ carries volume-per-time dimensions.
func checkPsi(psi *unit.Unit) error {
	if err := psi.Check(unit.Meter3PerSecond); err != nil {
		return fmt.Errorf("oceanbox: circulation magnitude: %v", err)
	}
	return nil
}

// AbyssalCell returns the deep overturning loop: water sinks through the
// full column in the northernmost category, flows southward along the
// bottom layer, upwells through the full column in the southernmost
// category, and returns northward along the surface layer.
func AbyssalCell(g *Grid, psi *unit.Unit) (*FluxField, error) {
	if err := checkPsi(psi); err != nil {
		return nil, err
	}
	nm, nv := g.Shape()
	F := g.ZeroFlux(psi.Dimensions())
	p := psi.Value()
	for j := 0; j < nv-1; j++ {
		F.Down.SetValue(p, 0, j) // sinking in the north
		F.Up.SetValue(p, nm-1, nv-1-j)
	}
	for i := 0; i < nm-1; i++ {
		F.South.SetValue(p, i, nv-1) // southward along the bottom
		F.North.SetValue(p, nm-1-i, 0)
	}
	return F, nil
}

// IntermediateCell returns the intermediate overturning loop: the same
// rotation sense as the abyssal cell but confined to the two deepest layers
// and shifted one category south, so sinking occurs in the second
// meridional category.
func IntermediateCell(g *Grid, psi *unit.Unit) (*FluxField, error) {
	if err := checkPsi(psi); err != nil {
		return nil, err
	}
	nm, nv := g.Shape()
	if nm < 3 {
		return nil, fmt.Errorf("oceanbox: intermediate cell needs at least 3 meridional categories; grid has %d", nm)
	}
	F := g.ZeroFlux(psi.Dimensions())
	p := psi.Value()
	F.Down.SetValue(p, 1, nv-2) // sinking one category south of the abyssal cell
	for i := 1; i < nm-1; i++ {
		F.South.SetValue(p, i, nv-1)
		F.North.SetValue(p, nm-i, nv-2)
	}
	F.Up.SetValue(p, nm-1, nv-1)
	return F, nil
}

// VerticalMixing returns a symmetric diffusive exchange between every pair
// of vertically adjacent boxes: equal fluxes up and down across each
// interface, with no meridional transport. The surface layer emits no
// upward flux and the bottom layer no downward flux.
func VerticalMixing(g *Grid, psi *unit.Unit) (*FluxField, error) {
	if err := checkPsi(psi); err != nil {
		return nil, err
	}
	nm, nv := g.Shape()
	F := g.ZeroFlux(psi.Dimensions())
	p := psi.Value()
	for i := 0; i < nm; i++ {
		for j := 0; j < nv-1; j++ {
			F.Down.SetValue(p, i, j)
			F.Up.SetValue(p, i, j+1)
		}
	}
	return F, nil
}
