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
	"io"
)

// Domain holds the grid being processed by a tool together with the
// functions that load, transform and store it.
type Domain struct {
	// Grid is the current state of the raster.
	Grid *Grid

	// InitFuncs are run once by Init, typically to load the grid.
	InitFuncs []GridManipulator

	// RunFuncs are run in order by Run.
	RunFuncs []GridManipulator

	// CleanupFuncs are run by Cleanup, typically to save the grid.
	CleanupFuncs []GridManipulator
}

// GridManipulator is a function that operates on a Domain.
type GridManipulator func(d *Domain) error

// Init runs the initialization functions of d.
func (d *Domain) Init() error {
	for _, f := range d.InitFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

// Run runs the processing functions of d.
func (d *Domain) Run() error {
	if d.Grid == nil {
		return fmt.Errorf("idfgrid: Domain.Run called before a grid was loaded")
	}
	for _, f := range d.RunFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup runs the cleanup functions of d.
func (d *Domain) Cleanup() error {
	for _, f := range d.CleanupFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

// Process runs Init, Run and Cleanup in turn.
func (d *Domain) Process() error {
	if err := d.Init(); err != nil {
		return err
	}
	if err := d.Run(); err != nil {
		return err
	}
	return d.Cleanup()
}

// Load returns a function that reads the domain grid from path.
func Load(path string) GridManipulator {
	return func(d *Domain) error {
		g, err := ReadFile(path)
		if err != nil {
			return fmt.Errorf("idfgrid.Load: %v", err)
		}
		d.Grid = g
		return nil
	}
}

// LoadIDF returns a function that reads the domain grid from an IDF stream.
func LoadIDF(r io.Reader) GridManipulator {
	return func(d *Domain) error {
		g, err := ReadIDF(r)
		if err != nil {
			return fmt.Errorf("idfgrid.LoadIDF: %v", err)
		}
		d.Grid = g
		return nil
	}
}

// Save returns a function that writes the domain grid to path.
func Save(path string, double bool) GridManipulator {
	return func(d *Domain) error {
		if err := WriteFile(path, d.Grid, double); err != nil {
			return fmt.Errorf("idfgrid.Save: %v", err)
		}
		return nil
	}
}

// SaveIDF returns a function that writes the domain grid to w in IDF format.
func SaveIDF(w io.Writer, double bool) GridManipulator {
	return func(d *Domain) error {
		if err := WriteIDF(w, d.Grid, double); err != nil {
			return fmt.Errorf("idfgrid.SaveIDF: %v", err)
		}
		return nil
	}
}

// Boundary returns a function that replaces the domain grid with its
// boundary-corrected version.
func Boundary(o BoundaryOptions) GridManipulator {
	return func(d *Domain) error {
		d.Grid = CorrectBoundary(d.Grid, o)
		return nil
	}
}

// Resample returns a function that replaces the domain grid with its
// nearest-neighbor fill over zones. If zones is empty, the whole grid is
// treated as a single zone.
func Resample(zones []*Grid, policy ConflictPolicy, hook ZoneHook) GridManipulator {
	return func(d *Domain) error {
		z := zones
		if len(z) == 0 {
			z = DummyZone(d.Grid)
		}
		g, err := ResampleNearestNeighbor(d.Grid, z, policy, hook)
		if err != nil {
			return err
		}
		d.Grid = g
		return nil
	}
}
