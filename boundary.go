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

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// BoundaryOptions configures CorrectBoundary. Cells are classified by
// exact comparison with ActiveValue, BoundaryValue and InactiveValue;
// cells holding any other value are left alone and block the flood fill.
type BoundaryOptions struct {
	ActiveValue   float64
	BoundaryValue float64
	InactiveValue float64

	// Extent, if not nil, replaces the flood fill: every cell outside of
	// it is set to InactiveValue.
	Extent *geom.Bounds

	// KeepInactiveCells leaves the NoData cells reached by the flood fill
	// as they are. Otherwise they are set to InactiveValue. The fill
	// travels through inactive and NoData cells either way.
	KeepInactiveCells bool

	// DiagonalCheck keeps boundary cells that only close diagonal gaps.
	// When false, diagonally redundant boundary cells are removed
	// after the flood fill.
	DiagonalCheck bool

	// SkipOuterCorrection disables the correction altogether.
	SkipOuterCorrection bool
}

// Validate returns ErrValueCollision if the active or boundary value is
// equal to another classification value or to nodata. An inactive value
// equal to nodata is allowed.
func (o BoundaryOptions) Validate(nodata float64) error {
	switch {
	case o.ActiveValue == o.BoundaryValue:
		return fmt.Errorf("%w: active and boundary value are both %g", ErrValueCollision, o.ActiveValue)
	case o.ActiveValue == o.InactiveValue:
		return fmt.Errorf("%w: active and inactive value are both %g", ErrValueCollision, o.ActiveValue)
	case o.BoundaryValue == o.InactiveValue:
		return fmt.Errorf("%w: boundary and inactive value are both %g", ErrValueCollision, o.BoundaryValue)
	case o.ActiveValue == nodata:
		return fmt.Errorf("%w: active value equals NoData (%g)", ErrValueCollision, nodata)
	case o.BoundaryValue == nodata:
		return fmt.Errorf("%w: boundary value equals NoData (%g)", ErrValueCollision, nodata)
	}
	return nil
}

// passable reports whether the outer flood fill may travel through a
// cell holding v.
func (o BoundaryOptions) passable(g *Grid, v float64) bool {
	if v == o.BoundaryValue {
		return false
	}
	return v == o.ActiveValue || v == o.InactiveValue || g.IsNoData(v)
}

// CorrectBoundary returns a corrected copy of g; g itself is not modified.
//
// With an Extent, all cells outside of it become inactive. Without one,
// active cells that can be reached from the edge of the grid without
// crossing a boundary cell become inactive, and unless DiagonalCheck is
// set, boundary cells made redundant by a diagonal active/inactive
// transition are removed. If the flood fill would leave no active cell
// in the grid, the unmodified copy of g is returned instead.
//
// Complexity: O(NRows×NCols) time and memory for the flood fill.
func CorrectBoundary(g *Grid, o BoundaryOptions) *Grid {
	out := g.Copy()
	if o.SkipOuterCorrection {
		return out
	}
	if o.Extent != nil {
		clipToExtent(out, o.Extent, o.InactiveValue)
		return out
	}
	if !floodOuterCells(out, o) {
		return g.Copy()
	}
	if !o.DiagonalCheck {
		PruneDiagonalBoundary(out, o)
	}
	return out
}

// floodOuterCells performs a breadth-first fill from every passable edge
// cell of g, setting the active cells it reaches to the inactive value.
// It returns false if no active cell is left afterwards.
func floodOuterCells(g *Grid, o BoundaryOptions) bool {
	visited := make([]bool, g.NRows*g.NCols)
	queue := make([]int, 0, 2*(g.NRows+g.NCols))
	push := func(row, col int) {
		i := g.Index(row, col)
		if visited[i] || !o.passable(g, g.Data.Elements[i]) {
			return
		}
		visited[i] = true
		queue = append(queue, i)
	}

	for col := 0; col < g.NCols; col++ {
		push(0, col)
		push(g.NRows-1, col)
	}
	for row := 0; row < g.NRows; row++ {
		push(row, 0)
		push(row, g.NCols-1)
	}

	for qi := 0; qi < len(queue); qi++ {
		i := queue[qi]
		row, col := i/g.NCols, i%g.NCols
		v := g.Data.Elements[i]
		if v == o.ActiveValue || (!o.KeepInactiveCells && v != o.InactiveValue && g.IsNoData(v)) {
			g.Data.Elements[i] = o.InactiveValue
		}
		for _, d := range orthogonal {
			r, c := row+d[0], col+d[1]
			if g.InBounds(r, c) {
				push(r, c)
			}
		}
	}
	return g.CountValue(o.ActiveValue) > 0
}

// clipToExtent sets every cell of g outside of e to inactive.
func clipToExtent(g *Grid, e *geom.Bounds, inactive float64) {
	top, bottom, left, right := extentRowCol(g, e)
	for row := 0; row < g.NRows; row++ {
		for col := 0; col < g.NCols; col++ {
			if row < top || row > bottom || col < left || col > right {
				g.Set(row, col, inactive)
			}
		}
	}
}

// extentRowCol returns the first and last row and column of g inside e.
// The bottom row and right column are taken one cell size inside of e, so
// a cell sharing only its edge with e is outside.
func extentRowCol(g *Grid, e *geom.Bounds) (top, bottom, left, right int) {
	const eps = 1.e-6
	top = int(math.Floor((g.Extent.Max.Y-e.Max.Y)/g.YCellsize + eps))
	bottom = int(math.Floor((g.Extent.Max.Y-(e.Min.Y+g.YCellsize))/g.YCellsize + eps))
	left = int(math.Floor((e.Min.X-g.Extent.Min.X)/g.XCellsize + eps))
	right = int(math.Floor((e.Max.X-g.XCellsize-g.Extent.Min.X)/g.XCellsize + eps))
	return top, bottom, left, right
}

// PruneDiagonalBoundary sets diagonally redundant boundary cells of g to
// the inactive value, in place, until no further cell qualifies, and
// returns the number of cells changed.
//
// A boundary cell is redundant when two adjacent orthogonal neighbors
// (top+left, top+right, bottom+right or bottom+left) are boundary cells,
// the diagonal cell between them is active and the orthogonal cell
// opposite the vertical member is inactive, NoData or off the grid.
// A boundary cell away from the grid edge with no active orthogonal
// neighbor is redundant as well.
func PruneDiagonalBoundary(g *Grid, o BoundaryOptions) int {
	var total int
	for {
		n := pruneDiagonalOnce(g, o)
		if n == 0 {
			return total
		}
		total += n
	}
}

func pruneDiagonalOnce(g *Grid, o BoundaryOptions) int {
	is := func(row, col int, v float64) bool {
		return g.InBounds(row, col) && g.At(row, col) == v
	}
	outside := func(row, col int) bool {
		if !g.InBounds(row, col) {
			return true
		}
		v := g.At(row, col)
		return v == o.InactiveValue || g.IsNoData(v)
	}
	bnd, act := o.BoundaryValue, o.ActiveValue

	var n int
	for row := 0; row < g.NRows; row++ {
		for col := 0; col < g.NCols; col++ {
			if g.At(row, col) != bnd {
				continue
			}
			top, bottom := is(row-1, col, bnd), is(row+1, col, bnd)
			left, right := is(row, col-1, bnd), is(row, col+1, bnd)

			redundant := (top && left && is(row-1, col-1, act) && outside(row+1, col)) ||
				(top && right && is(row-1, col+1, act) && outside(row+1, col)) ||
				(bottom && right && is(row+1, col+1, act) && outside(row-1, col)) ||
				(bottom && left && is(row+1, col-1, act) && outside(row-1, col))

			if !redundant && !onEdge(g, row, col) {
				redundant = !is(row-1, col, act) && !is(row+1, col, act) &&
					!is(row, col-1, act) && !is(row, col+1, act)
			}
			if redundant {
				g.Set(row, col, o.InactiveValue)
				n++
			}
		}
	}
	return n
}
