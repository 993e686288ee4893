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
	"os"
	"path/filepath"
	"strings"
)

// Format is a grid file format.
type Format int

// Supported grid file formats.
const (
	UnknownFormat Format = iota
	IDF
	NetCDF
)

var formatExtensions = map[string]Format{
	".idf": IDF,
	".nc":  NetCDF,
	".ncf": NetCDF,
}

func (f Format) String() string {
	switch f {
	case IDF:
		return "IDF"
	case NetCDF:
		return "NetCDF"
	}
	return "unknown"
}

// FormatFromPath returns the grid format matching the extension of path.
func FormatFromPath(path string) Format {
	return formatExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadFile reads the grid stored at path, choosing the format by the file
// extension.
func ReadFile(path string) (*Grid, error) {
	format := FormatFromPath(path)
	if format == UnknownFormat {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var g *Grid
	switch format {
	case IDF:
		g, err = ReadIDF(f)
	case NetCDF:
		g, err = ReadNetCDF(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return g, nil
}

// WriteFile writes g to path, choosing the format by the file extension.
// IDF files are written in single precision unless double is true.
func WriteFile(path string, g *Grid, double bool) error {
	format := FormatFromPath(path)
	if format == UnknownFormat {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch format {
	case IDF:
		err = WriteIDF(f, g, double)
	case NetCDF:
		err = WriteNetCDF(f, g)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("%w (%s)", err, path)
	}
	return f.Close()
}
