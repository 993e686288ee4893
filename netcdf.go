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

	"github.com/ctessum/cdf"
	"github.com/ctessum/geom"
)

// netCDFVersion identifies the layout written by WriteNetCDF.
const netCDFVersion = "idfgrid-1"

// WriteNetCDF writes g to rw as a NetCDF file holding a single variable
// "value" with dimensions (y, x). Row 0 of the variable is the northern
// edge of the grid.
func WriteNetCDF(rw cdf.ReaderWriterAt, g *Grid) error {
	h := cdf.NewHeader([]string{"y", "x"}, []int{g.NRows, g.NCols})
	h.AddAttribute("", "comment", "idfgrid raster")
	h.AddAttribute("", "data_version", netCDFVersion)
	h.AddAttribute("", "x0", []float64{g.Extent.Min.X})
	h.AddAttribute("", "y0", []float64{g.Extent.Min.Y})
	h.AddAttribute("", "dx", []float64{g.XCellsize})
	h.AddAttribute("", "dy", []float64{g.YCellsize})
	h.AddAttribute("", "nx", []int32{int32(g.NCols)})
	h.AddAttribute("", "ny", []int32{int32(g.NRows)})
	h.AddAttribute("", "nodata", []float64{g.NoDataValue})

	h.AddVariable("value", []string{"y", "x"}, []float64{0})
	h.AddAttribute("value", "description", "cell value")
	h.Define()

	f, err := cdf.Create(rw, h) // writes the header to rw
	if err != nil {
		return fmt.Errorf("idfgrid.WriteNetCDF: %v", err)
	}
	end := f.Header.Lengths("value")
	start := make([]int, len(end))
	w := f.Writer("value", start, end)
	if _, err = w.Write(g.Data.Elements); err != nil {
		return fmt.Errorf("idfgrid.WriteNetCDF: %v", err)
	}
	return nil
}

// ReadNetCDF reads a grid written by WriteNetCDF.
func ReadNetCDF(rw cdf.ReaderWriterAt) (*Grid, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("idfgrid.ReadNetCDF: %v", err)
	}
	if v, ok := f.Header.GetAttribute("", "data_version").(string); !ok || v != netCDFVersion {
		return nil, fmt.Errorf("idfgrid.ReadNetCDF: data version %q is incompatible "+
			"with the required version %s", v, netCDFVersion)
	}
	var missing []string
	attr := func(name string) float64 {
		v, ok := f.Header.GetAttribute("", name).([]float64)
		if !ok || len(v) == 0 {
			missing = append(missing, name)
			return 0
		}
		return v[0]
	}
	dim := func(name string) int {
		v, ok := f.Header.GetAttribute("", name).([]int32)
		if !ok || len(v) == 0 {
			missing = append(missing, name)
			return 0
		}
		return int(v[0])
	}
	nx, ny := dim("nx"), dim("ny")
	x0, y0, dx, dy := attr("x0"), attr("y0"), attr("dx"), attr("dy")
	nodata := attr("nodata")
	if len(missing) > 0 {
		return nil, fmt.Errorf("idfgrid.ReadNetCDF: missing or invalid attributes %v", missing)
	}

	g, err := NewGrid(ny, nx, &geom.Bounds{
		Min: geom.Point{X: x0, Y: y0},
		Max: geom.Point{X: x0 + dx*float64(nx), Y: y0 + dy*float64(ny)},
	}, nodata)
	if err != nil {
		return nil, fmt.Errorf("idfgrid.ReadNetCDF: %v", err)
	}
	g.XCellsize, g.YCellsize = dx, dy

	if dims := f.Header.Lengths("value"); len(dims) != 2 || dims[0] != ny || dims[1] != nx {
		return nil, fmt.Errorf("idfgrid.ReadNetCDF: variable dims %v do not match %d×%d", dims, ny, nx)
	}
	r := f.Reader("value", nil, nil)
	if _, err = r.Read(g.Data.Elements); err != nil {
		return nil, fmt.Errorf("idfgrid.ReadNetCDF: %v", err)
	}
	return g, nil
}
