/*
Copyright © 2024 the InMAP authors.
This file is part of idfgrid.

idfgrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

idfgrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with idfgrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command idfgrid is a command-line interface for correcting and filling
// IDF model grids.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/idfgrid/idfutil"
)

func main() {
	if err := idfutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
