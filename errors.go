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
	"errors"
	"fmt"
)

// Sentinel errors for grid operations.
var (
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("idfgrid: grid must have at least one row and one column")
	// ErrNonRectangular indicates input rows of differing lengths.
	ErrNonRectangular = errors.New("idfgrid: all rows must have the same length")
	// ErrShapeMismatch indicates two grids with different row or column counts.
	ErrShapeMismatch = errors.New("idfgrid: grid dimensions do not match")
	// ErrCellsizeMismatch indicates two grids with different cell sizes.
	ErrCellsizeMismatch = errors.New("idfgrid: cell sizes do not match")
	// ErrExtentMismatch indicates two grids covering different extents.
	ErrExtentMismatch = errors.New("idfgrid: extents do not match")
	// ErrValueCollision indicates that two of the active, boundary,
	// inactive and NoData values are equal.
	ErrValueCollision = errors.New("idfgrid: cell classification values collide")
	// ErrUnknownPolicy indicates an unrecognized conflict policy name.
	ErrUnknownPolicy = errors.New("idfgrid: unknown conflict policy")
	// ErrUnsupportedFormat indicates a file extension with no grid codec.
	ErrUnsupportedFormat = errors.New("idfgrid: unsupported grid file format")
	// ErrNonEquidistant indicates an IDF file with variable cell sizes.
	ErrNonEquidistant = errors.New("idfgrid: non-equidistant IDF files are not supported")
)

// PreconditionError reports that the inputs to an operation are
// incompatible with each other. It is returned before any work is done.
type PreconditionError struct {
	Op  string // operation that rejected its input
	Err error  // underlying sentinel error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *PreconditionError) Unwrap() error { return e.Err }

func precondition(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PreconditionError{Op: op, Err: err}
}
