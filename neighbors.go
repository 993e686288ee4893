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

package idfgrid

// Neighbor offsets as {row, column} steps.
var (
	// orthogonal holds the four edge-sharing neighbors: N, S, W, E.
	orthogonal = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	// octagonal holds all eight neighbors in row-major order:
	// NW, N, NE, W, E, SW, S, SE.
	octagonal = [8][2]int{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
)

// onEdge reports whether (row, col) is in the outermost ring of g.
func onEdge(g *Grid, row, col int) bool {
	return row == 0 || col == 0 || row == g.NRows-1 || col == g.NCols-1
}

// neighborValues appends to dst the values of the up to eight neighbors
// of (row, col) in g that are not NoData, in row-major order.
func neighborValues(dst []float64, g *Grid, row, col int) []float64 {
	for _, d := range octagonal {
		r, c := row+d[0], col+d[1]
		if !g.InBounds(r, c) {
			continue
		}
		if v := g.Data.Elements[g.Index(r, c)]; !g.IsNoData(v) {
			dst = append(dst, v)
		}
	}
	return dst
}
