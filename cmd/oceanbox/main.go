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

// Command oceanbox is a command-line interface for the OceanBox ocean
// tracer transport model.
package main

import (
	"os"

	"github.com/spatialmodel/oceanbox/oceanboxutil"
)

func main() {
	if err := oceanboxutil.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
