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

package oceanboxutil

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/spatialmodel/oceanbox"
)

// WriteTrajectory writes a trajectory as CSV: one row per output time with
// the time in years in the first column and one column per box, labeled
// "meridional / vertical" in meridional-major order.
func WriteTrajectory(w io.Writer, g *oceanbox.Grid, tr *oceanbox.Trajectory) error {
	cw := csv.NewWriter(w)
	header := []string{"time [years]"}
	for _, m := range g.Meridional() {
		for _, v := range g.Vertical() {
			header = append(header, m+" / "+v)
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, t := range tr.Times {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(t/oceanbox.SecondsPerYear, 'g', -1, 64))
		for _, v := range tr.Fields[i].Vec() {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
