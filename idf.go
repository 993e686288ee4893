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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ctessum/geom"
)

// Record length identifiers at the start of an IDF file.
const (
	idfSinglePrecision int32 = 1271
	idfDoublePrecision int32 = 2295
)

// idfReader reads little-endian IDF header fields in either precision and
// keeps the first error encountered.
type idfReader struct {
	r      io.Reader
	double bool
	err    error
}

func (r *idfReader) read(v interface{}) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.LittleEndian, v)
}

func (r *idfReader) int() int {
	if r.double {
		var v int64
		r.read(&v)
		return int(v)
	}
	var v int32
	r.read(&v)
	return int(v)
}

func (r *idfReader) float() float64 {
	if r.double {
		var v float64
		r.read(&v)
		return v
	}
	var v float32
	r.read(&v)
	return float64(v)
}

// ReadIDF reads an equidistant iMOD IDF raster in single or double
// precision.
func ReadIDF(r io.Reader) (*Grid, error) {
	var reclen int32
	if err := binary.Read(r, binary.LittleEndian, &reclen); err != nil {
		return nil, fmt.Errorf("idfgrid.ReadIDF: %v", err)
	}
	ir := &idfReader{r: bufio.NewReader(r)}
	switch reclen {
	case idfSinglePrecision:
	case idfDoublePrecision:
		ir.double = true
	default:
		return nil, fmt.Errorf("idfgrid.ReadIDF: invalid record length %d", reclen)
	}

	ncols, nrows := ir.int(), ir.int()
	xmin, xmax, ymin, ymax := ir.float(), ir.float(), ir.float(), ir.float()
	ir.float() // dmin
	ir.float() // dmax
	nodata := ir.float()
	var flags [4]byte // ieq, itb, ivf, unused
	ir.read(&flags)
	if ir.double {
		var pad [4]byte
		ir.read(&pad)
	}
	if ir.err != nil {
		return nil, fmt.Errorf("idfgrid.ReadIDF: reading header: %v", ir.err)
	}
	if flags[0] != 0 {
		return nil, ErrNonEquidistant
	}
	dx, dy := ir.float(), ir.float()
	if flags[1] != 0 {
		ir.float() // top
		ir.float() // bot
	}
	if ir.err != nil {
		return nil, fmt.Errorf("idfgrid.ReadIDF: reading header: %v", ir.err)
	}
	if nrows <= 0 || ncols <= 0 {
		return nil, ErrEmptyGrid
	}

	g, err := NewGrid(nrows, ncols, &geom.Bounds{
		Min: geom.Point{X: xmin, Y: ymin},
		Max: geom.Point{X: xmax, Y: ymax},
	}, nodata)
	if err != nil {
		return nil, err
	}
	g.XCellsize, g.YCellsize = dx, dy

	if ir.double {
		ir.read(g.Data.Elements)
	} else {
		tmp := make([]float32, len(g.Data.Elements))
		ir.read(tmp)
		for i, v := range tmp {
			g.Data.Elements[i] = float64(v)
		}
	}
	if ir.err != nil {
		return nil, fmt.Errorf("idfgrid.ReadIDF: reading data: %v", ir.err)
	}
	return g, nil
}

// WriteIDF writes g to w as an equidistant iMOD IDF raster, in double
// precision if double is true and in single precision otherwise.
func WriteIDF(w io.Writer, g *Grid, double bool) error {
	bw := bufio.NewWriter(w)
	var err error
	write := func(v interface{}) {
		if err == nil {
			err = binary.Write(bw, binary.LittleEndian, v)
		}
	}
	wint := func(v int) {
		if double {
			write(int64(v))
		} else {
			write(int32(v))
		}
	}
	wfloat := func(v float64) {
		if double {
			write(v)
		} else {
			write(float32(v))
		}
	}

	s := g.Stats()
	if double {
		write(idfDoublePrecision)
	} else {
		write(idfSinglePrecision)
	}
	wint(g.NCols)
	wint(g.NRows)
	wfloat(g.Extent.Min.X)
	wfloat(g.Extent.Max.X)
	wfloat(g.Extent.Min.Y)
	wfloat(g.Extent.Max.Y)
	wfloat(s.Min)
	wfloat(s.Max)
	wfloat(g.NoDataValue)
	write([4]byte{}) // equidistant, no top/bottom, no vectors
	if double {
		write([4]byte{})
	}
	wfloat(g.XCellsize)
	wfloat(g.YCellsize)

	if double {
		write(g.Data.Elements)
	} else {
		tmp := make([]float32, len(g.Data.Elements))
		for i, v := range g.Data.Elements {
			tmp[i] = float32(v)
		}
		write(tmp)
	}
	if err != nil {
		return fmt.Errorf("idfgrid.WriteIDF: %v", err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("idfgrid.WriteIDF: %v", err)
	}
	return nil
}
