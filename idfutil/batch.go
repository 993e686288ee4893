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

package idfutil

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Batch is a list of jobs read from a TOML file.
type Batch struct {
	Boundary []*BoundaryJob
	Resample []*ResampleJob
}

// ReadBatch reads a list of jobs from the TOML file at path. Settings
// missing from a job take the defaults of the bnd and resample commands.
// Floating point settings must be written with a decimal point.
func ReadBatch(path string) (*Batch, error) {
	var raw struct {
		Boundary []toml.Primitive
		Resample []toml.Primitive
	}
	md, err := toml.DecodeFile(os.ExpandEnv(path), &raw)
	if err != nil {
		return nil, fmt.Errorf("idfgrid: reading batch file: %v", err)
	}
	b := new(Batch)
	for i, p := range raw.Boundary {
		j := &BoundaryJob{Postfix: "_bnd", Active: 1, Boundary: -1}
		if err := md.PrimitiveDecode(p, j); err != nil {
			return nil, fmt.Errorf("idfgrid: batch file Boundary[%d]: %v", i, err)
		}
		b.Boundary = append(b.Boundary, j)
	}
	for i, p := range raw.Resample {
		j := &ResampleJob{Postfix: "_nn", Policy: "arithmetic"}
		if err := md.PrimitiveDecode(p, j); err != nil {
			return nil, fmt.Errorf("idfgrid: batch file Resample[%d]: %v", i, err)
		}
		b.Resample = append(b.Resample, j)
	}
	return b, nil
}

// Run runs the boundary jobs and then the resample jobs of b.
func (b *Batch) Run() error {
	var failed int
	for i, j := range b.Boundary {
		if err := j.Run(); err != nil {
			Log.WithField("job", fmt.Sprintf("Boundary[%d]", i)).Error(err)
			failed++
		}
	}
	for i, j := range b.Resample {
		if err := j.Run(); err != nil {
			Log.WithField("job", fmt.Sprintf("Resample[%d]", i)).Error(err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("idfgrid: %d of %d jobs failed", failed, len(b.Boundary)+len(b.Resample))
	}
	return nil
}

// RunBatch reads the jobs in the TOML file at path and runs them.
func RunBatch(path string) error {
	b, err := ReadBatch(path)
	if err != nil {
		return err
	}
	return b.Run()
}
