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
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/idfgrid"
	"github.com/spf13/cast"
)

// BoundaryJob holds the settings for correcting a set of boundary grids.
type BoundaryJob struct {
	Input     []string
	OutputDir string
	Postfix   string
	Double    bool

	Active, Boundary, Inactive float64

	// Extent is empty or holds llx, lly, urx and ury.
	Extent []float64

	KeepInactive  bool
	DiagonalCheck bool
	SkipOuter     bool
}

// ResampleJob holds the settings for filling a set of grids.
type ResampleJob struct {
	Input     []string
	OutputDir string
	Postfix   string
	Double    bool

	ZoneFile   string
	Policy     string
	WriteZones bool
}

// BoundaryJobFromConfig reads the bnd settings from cfg.
func BoundaryJobFromConfig(cfg *viper.Viper) (*BoundaryJob, error) {
	extent, err := parseExtent(cfg.GetString("Bnd.Extent"))
	if err != nil {
		return nil, err
	}
	return &BoundaryJob{
		OutputDir:     cfg.GetString("OutputDir"),
		Postfix:       cfg.GetString("Bnd.Postfix"),
		Double:        cfg.GetBool("Double"),
		Active:        cfg.GetFloat64("Bnd.Active"),
		Boundary:      cfg.GetFloat64("Bnd.Boundary"),
		Inactive:      cfg.GetFloat64("Bnd.Inactive"),
		Extent:        extent,
		KeepInactive:  cfg.GetBool("Bnd.KeepInactive"),
		DiagonalCheck: cfg.GetBool("Bnd.DiagonalCheck"),
		SkipOuter:     cfg.GetBool("Bnd.SkipOuter"),
	}, nil
}

// ResampleJobFromConfig reads the resample settings from cfg.
func ResampleJobFromConfig(cfg *viper.Viper) (*ResampleJob, error) {
	return &ResampleJob{
		OutputDir:  cfg.GetString("OutputDir"),
		Postfix:    cfg.GetString("Resample.Postfix"),
		Double:     cfg.GetBool("Double"),
		ZoneFile:   cfg.GetString("Resample.ZoneFile"),
		Policy:     cfg.GetString("Resample.Policy"),
		WriteZones: cfg.GetBool("Resample.WriteZones"),
	}, nil
}

// parseExtent parses an extent given as "llx,lly,urx,ury".
func parseExtent(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("idfgrid: extent %q must have 4 comma-separated values", s)
	}
	o := make([]float64, 4)
	for i, p := range parts {
		v, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("idfgrid: extent %q: %v", s, err)
		}
		o[i] = v
	}
	if o[0] >= o[2] || o[1] >= o[3] {
		return nil, fmt.Errorf("idfgrid: extent %q has no area", s)
	}
	return o, nil
}

// Options returns the boundary correction options of j.
func (j *BoundaryJob) Options() (idfgrid.BoundaryOptions, error) {
	o := idfgrid.BoundaryOptions{
		ActiveValue:         j.Active,
		BoundaryValue:       j.Boundary,
		InactiveValue:       j.Inactive,
		KeepInactiveCells:   j.KeepInactive,
		DiagonalCheck:       j.DiagonalCheck,
		SkipOuterCorrection: j.SkipOuter,
	}
	switch len(j.Extent) {
	case 0:
	case 4:
		o.Extent = &geom.Bounds{
			Min: geom.Point{X: j.Extent[0], Y: j.Extent[1]},
			Max: geom.Point{X: j.Extent[2], Y: j.Extent[3]},
		}
	default:
		return o, fmt.Errorf("idfgrid: extent must have 4 values but has %d", len(j.Extent))
	}
	return o, nil
}

// Run corrects each input grid in turn. A grid that fails is logged and
// skipped; an error summarizing the failures is returned at the end.
func (j *BoundaryJob) Run() error {
	o, err := j.Options()
	if err != nil {
		return err
	}
	return eachFile(j.Input, func(in string) error {
		out := outputPath(in, j.OutputDir, j.Postfix)
		d := &idfgrid.Domain{
			InitFuncs: []idfgrid.GridManipulator{
				idfgrid.Load(in),
				func(d *idfgrid.Domain) error {
					if err := o.Validate(d.Grid.NoDataValue); err != nil {
						Log.WithField("file", in).Warn(err)
					}
					return nil
				},
			},
			RunFuncs:     []idfgrid.GridManipulator{idfgrid.Boundary(o)},
			CleanupFuncs: []idfgrid.GridManipulator{idfgrid.Save(out, j.Double)},
		}
		if err := d.Process(); err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{
			"file":   in,
			"output": out,
			"active": d.Grid.CountValue(o.ActiveValue),
		}).Info("corrected boundary")
		return nil
	})
}

// Run fills each input grid in turn. A grid that fails is logged and
// skipped; an error summarizing the failures is returned at the end.
func (j *ResampleJob) Run() error {
	policy, err := idfgrid.ParsePolicy(j.Policy)
	if err != nil {
		return err
	}
	var zones []*idfgrid.Grid
	var zoneVals []float64
	if j.ZoneFile != "" {
		zg, err := idfgrid.ReadFile(os.ExpandEnv(j.ZoneFile))
		if err != nil {
			return err
		}
		zones, zoneVals = idfgrid.SplitZones(zg)
		Log.WithFields(logrus.Fields{
			"file":  j.ZoneFile,
			"zones": len(zones),
		}).Info("loaded zones")
	}
	return eachFile(j.Input, func(in string) error {
		out := outputPath(in, j.OutputDir, j.Postfix)
		var hook idfgrid.ZoneHook
		if j.WriteZones {
			hook = func(i int, filled *idfgrid.Grid) error {
				var suffix string
				if zoneVals == nil {
					suffix = "_zone"
				} else {
					suffix = fmt.Sprintf("_zone%g", zoneVals[i])
				}
				zp := outputPath(in, j.OutputDir, j.Postfix+suffix)
				Log.WithFields(logrus.Fields{"file": in, "zone": i, "output": zp}).Debug("writing zone")
				return idfgrid.WriteFile(zp, filled, j.Double)
			}
		}
		d := &idfgrid.Domain{
			InitFuncs:    []idfgrid.GridManipulator{idfgrid.Load(in)},
			RunFuncs:     []idfgrid.GridManipulator{idfgrid.Resample(zones, policy, hook)},
			CleanupFuncs: []idfgrid.GridManipulator{idfgrid.Save(out, j.Double)},
		}
		if err := d.Process(); err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{
			"file":   in,
			"output": out,
			"policy": policy,
			"cells":  d.Grid.Stats().Count,
		}).Info("filled grid")
		return nil
	})
}

// eachFile calls f for every path in files, after expanding environment
// variables, and logs the ones that fail.
func eachFile(files []string, f func(string) error) error {
	var failed int
	for _, file := range files {
		file = os.ExpandEnv(file)
		if err := f(file); err != nil {
			Log.WithField("file", file).Error(err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("idfgrid: %d of %d files failed", failed, len(files))
	}
	return nil
}

// outputPath returns the path of the output grid for input path in: the
// base name with postfix appended, in dir if it is not empty or next to
// the input otherwise.
func outputPath(in, dir, postfix string) string {
	ext := filepath.Ext(in)
	base := strings.TrimSuffix(filepath.Base(in), ext) + postfix + ext
	if dir == "" {
		return filepath.Join(filepath.Dir(in), base)
	}
	return filepath.Join(os.ExpandEnv(dir), base)
}
