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

// Package oceanbox implements a reduced-order ocean tracer-transport box
// model: a small set of well-mixed control volumes exchanging seawater and
// dissolved tracers through advective and diffusive volume fluxes, with
// Dirichlet surface forcing and optional radioactive decay. It is used to
// generate synthetic tracer histories (CFCs, iodine-129, radiocarbon,
// argon-39) for developing and validating transport-diagnostic methods.
//
// The model is linear: the tendency operator assembled from a circulation
// is probed into a transport matrix and a boundary matrix, and the
// resulting ODE system is integrated exactly through the eigendecomposition
// of the transport matrix, with the forced part handled by adaptive
// quadrature of the Duhamel integral.
package oceanbox
