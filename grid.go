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

// Package idfgrid holds the in-memory raster model shared by the IDF grid
// tools together with the two grid traversal algorithms they are built
// around: outer-cell boundary correction and nearest-neighbor zone filling.
//
// Grids are read completely into memory, passed through a linear series of
// GridManipulators (see Domain) and written back out. Cell (0, 0) is the
// north-west corner; row indices increase southward and column indices
// increase eastward.
package idfgrid

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Version gives the version number.
const Version = "0.1.0"

// DefaultNoData is the NoData value assigned to new grids when none is given.
const DefaultNoData = -9999.

// Grid is a dense raster of float64 values with a uniform cell size.
type Grid struct {
	NRows, NCols int

	// Data holds the cell values in row-major order with shape
	// [NRows, NCols].
	Data *sparse.DenseArray

	NoDataValue float64
	XCellsize   float64
	YCellsize   float64

	// Extent is the rectangle covered by the grid:
	// Min is the lower-left corner, Max the upper-right corner.
	Extent *geom.Bounds
}

// NewGrid creates a grid covering extent with nrows × ncols cells, every
// cell set to nodata.
func NewGrid(nrows, ncols int, extent *geom.Bounds, nodata float64) (*Grid, error) {
	if nrows <= 0 || ncols <= 0 {
		return nil, ErrEmptyGrid
	}
	g := &Grid{
		NRows:       nrows,
		NCols:       ncols,
		Data:        sparse.ZerosDense(nrows, ncols),
		NoDataValue: nodata,
		Extent:      extent.Copy(),
	}
	g.XCellsize = (extent.Max.X - extent.Min.X) / float64(ncols)
	g.YCellsize = (extent.Max.Y - extent.Min.Y) / float64(nrows)
	g.Fill(nodata)
	return g, nil
}

// NewGridFromRows creates a grid from a non-empty, rectangular 2D slice.
// rows[0] is the northernmost row. The lower-left corner of the grid is
// placed at (llx, lly) and cells are cellsize wide and tall.
func NewGridFromRows(rows [][]float64, llx, lly, cellsize, nodata float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	nrows, ncols := len(rows), len(rows[0])
	for _, r := range rows {
		if len(r) != ncols {
			return nil, ErrNonRectangular
		}
	}
	g := &Grid{
		NRows:       nrows,
		NCols:       ncols,
		Data:        sparse.ZerosDense(nrows, ncols),
		NoDataValue: nodata,
		XCellsize:   cellsize,
		YCellsize:   cellsize,
		Extent: &geom.Bounds{
			Min: geom.Point{X: llx, Y: lly},
			Max: geom.Point{X: llx + cellsize*float64(ncols), Y: lly + cellsize*float64(nrows)},
		},
	}
	for i, r := range rows {
		copy(g.Data.Elements[i*ncols:(i+1)*ncols], r)
	}
	return g, nil
}

// InBounds reports whether (row, col) lies within the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.NRows && col >= 0 && col < g.NCols
}

// Index returns the row-major index of (row, col).
func (g *Grid) Index(row, col int) int {
	return row*g.NCols + col
}

// At returns the value of cell (row, col). It panics if the cell is
// outside of the grid.
func (g *Grid) At(row, col int) float64 {
	g.check(row, col)
	return g.Data.Elements[g.Index(row, col)]
}

// Set sets the value of cell (row, col). It panics if the cell is
// outside of the grid.
func (g *Grid) Set(row, col int, v float64) {
	g.check(row, col)
	g.Data.Elements[g.Index(row, col)] = v
}

func (g *Grid) check(row, col int) {
	if !g.InBounds(row, col) {
		panic(fmt.Errorf("idfgrid: cell (%d, %d) out of range [%d, %d]", row, col, g.NRows, g.NCols))
	}
}

// IsNoData reports whether v is the NoData value of g.
func (g *Grid) IsNoData(v float64) bool {
	return v == g.NoDataValue || (math.IsNaN(v) && math.IsNaN(g.NoDataValue))
}

// Fill sets every cell of g to v.
func (g *Grid) Fill(v float64) {
	for i := range g.Data.Elements {
		g.Data.Elements[i] = v
	}
}

// Copy returns a deep copy of g.
func (g *Grid) Copy() *Grid {
	return &Grid{
		NRows:       g.NRows,
		NCols:       g.NCols,
		Data:        g.Data.Copy(),
		NoDataValue: g.NoDataValue,
		XCellsize:   g.XCellsize,
		YCellsize:   g.YCellsize,
		Extent:      g.Extent.Copy(),
	}
}

// Like returns a grid with the geometry and NoData value of g and every
// cell set to NoData.
func (g *Grid) Like() *Grid {
	o := g.Copy()
	o.Fill(g.NoDataValue)
	return o
}

// Equal reports whether g and g2 have the same geometry, NoData value and
// bit-identical cell values.
func (g *Grid) Equal(g2 *Grid) bool {
	if g.SameGeometry(g2) != nil {
		return false
	}
	if math.Float64bits(g.NoDataValue) != math.Float64bits(g2.NoDataValue) {
		return false
	}
	for i, v := range g.Data.Elements {
		if math.Float64bits(v) != math.Float64bits(g2.Data.Elements[i]) {
			return false
		}
	}
	return true
}

// SameGeometry returns an error if g2 does not have the same dimensions,
// cell size and extent as g.
func (g *Grid) SameGeometry(g2 *Grid) error {
	const tol = 1.e-6
	switch {
	case g.NRows != g2.NRows || g.NCols != g2.NCols:
		return ErrShapeMismatch
	case !floats.EqualWithinAbs(g.XCellsize, g2.XCellsize, tol) ||
		!floats.EqualWithinAbs(g.YCellsize, g2.YCellsize, tol):
		return ErrCellsizeMismatch
	case !floats.EqualWithinAbs(g.Extent.Min.X, g2.Extent.Min.X, tol) ||
		!floats.EqualWithinAbs(g.Extent.Min.Y, g2.Extent.Min.Y, tol) ||
		!floats.EqualWithinAbs(g.Extent.Max.X, g2.Extent.Max.X, tol) ||
		!floats.EqualWithinAbs(g.Extent.Max.Y, g2.Extent.Max.Y, tol):
		return ErrExtentMismatch
	}
	return nil
}

// CellCenter returns the coordinates of the center of cell (row, col).
func (g *Grid) CellCenter(row, col int) geom.Point {
	return geom.Point{
		X: g.Extent.Min.X + (float64(col)+0.5)*g.XCellsize,
		Y: g.Extent.Max.Y - (float64(row)+0.5)*g.YCellsize,
	}
}

// RowCol returns the cell containing point p. The returned indices may be
// outside of the grid; use InBounds to check.
func (g *Grid) RowCol(p geom.Point) (row, col int) {
	row = int(math.Floor((g.Extent.Max.Y - p.Y) / g.YCellsize))
	col = int(math.Floor((p.X - g.Extent.Min.X) / g.XCellsize))
	return row, col
}

// CountValue returns the number of cells equal to v.
func (g *Grid) CountValue(v float64) int {
	var n int
	for _, e := range g.Data.Elements {
		if e == v {
			n++
		}
	}
	return n
}

// Stats summarises the cells of a grid that hold data.
type Stats struct {
	Min, Max, Mean float64
	Count          int
}

// Stats returns the minimum, maximum and mean of the non-NoData cells
// of g. If g has no data, Min and Max are NoData and Count is zero.
func (g *Grid) Stats() Stats {
	vals := make([]float64, 0, len(g.Data.Elements))
	for _, v := range g.Data.Elements {
		if !g.IsNoData(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return Stats{Min: g.NoDataValue, Max: g.NoDataValue}
	}
	return Stats{
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
		Mean:  floats.Sum(vals) / float64(len(vals)),
		Count: len(vals),
	}
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid{%d×%d, cellsize=(%g, %g), extent=[%g %g %g %g], nodata=%g}",
		g.NRows, g.NCols, g.XCellsize, g.YCellsize,
		g.Extent.Min.X, g.Extent.Min.Y, g.Extent.Max.X, g.Extent.Max.Y, g.NoDataValue)
}
