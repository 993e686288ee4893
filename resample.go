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
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ConflictPolicy selects how a cell's value is computed when several of
// its neighbors already hold a value.
type ConflictPolicy int

// Conflict policies.
const (
	ArithmeticAverage ConflictPolicy = iota
	HarmonicAverage
	MinimumValue
	MaximumValue
)

var policyNames = []string{"arithmetic", "harmonic", "min", "max"}

func (p ConflictPolicy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("ConflictPolicy(%d)", int(p))
	}
	return policyNames[p]
}

// ParsePolicy returns the policy with the given name. Accepted names are
// "arithmetic", "harmonic", "min" and "max" and the long forms
// "ArithmeticAverage", "HarmonicAverage", "MinimumValue" and
// "MaximumValue", in any case.
func ParsePolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "arithmetic", "arithmeticaverage", "mean", "average":
		return ArithmeticAverage, nil
	case "harmonic", "harmonicaverage":
		return HarmonicAverage, nil
	case "min", "minimum", "minimumvalue":
		return MinimumValue, nil
	case "max", "maximum", "maximumvalue":
		return MaximumValue, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Resolve combines the values of resolved neighbors into one value.
// vals must not be empty. A harmonic average over a set containing zero
// is undefined and resolves to zero.
func (p ConflictPolicy) Resolve(vals []float64) float64 {
	switch p {
	case HarmonicAverage:
		for _, v := range vals {
			if v == 0 {
				return 0
			}
		}
		return stat.HarmonicMean(vals, nil)
	case MinimumValue:
		return vals[floats.MinIdx(vals)]
	case MaximumValue:
		return vals[floats.MaxIdx(vals)]
	default:
		return stat.Mean(vals, nil)
	}
}

// ZoneHook is called with each zone's filled grid before it is merged
// into the result. i is the position of the zone in the zone list.
type ZoneHook func(i int, filled *Grid) error

// ResampleNearestNeighbor fills the NoData cells of each zone mask from
// the nearest cells of values that hold data and merges the zones into one
// grid. Cells outside of every zone are NoData in the result. Zones are
// merged in order, so later zones overwrite earlier ones where they
// overlap. hook may be nil.
//
// A mask whose geometry differs from values is reported as a
// *PreconditionError before any zone is processed.
func ResampleNearestNeighbor(values *Grid, zones []*Grid, policy ConflictPolicy, hook ZoneHook) (*Grid, error) {
	for i, z := range zones {
		if err := values.SameGeometry(z); err != nil {
			return nil, precondition(fmt.Sprintf("idfgrid.ResampleNearestNeighbor: zone %d", i), err)
		}
	}
	out := values.Like()
	for i, z := range zones {
		filled, _ := FillZone(values, z, policy)
		if hook != nil {
			if err := hook(i, filled); err != nil {
				return nil, fmt.Errorf("idfgrid.ResampleNearestNeighbor: zone %d: %v", i, err)
			}
		}
		for j, v := range filled.Data.Elements {
			if !filled.IsNoData(v) {
				out.Data.Elements[j] = v
			}
		}
	}
	return out, nil
}

// FillZone grows the data values of values inside mask outward one ring of
// cells per round until a round resolves no new cell. Each NoData cell
// inside the mask takes the value policy computes from its up to eight
// neighbors that held a value at the end of the previous round. Cells are
// inside the mask where the mask equals 1. FillZone returns the filled
// grid, which is NoData outside of the mask, and the number of rounds that
// resolved at least one cell.
//
// Values only spread through cells of the mask, so the number of rounds is
// the largest number of 8-connected steps inside the mask from a filled
// cell to its nearest seed. For a rectangular mask that is below
// max(NRows, NCols); a winding mask can take more rounds.
//
// values and mask must have the same geometry.
func FillZone(values, mask *Grid, policy ConflictPolicy) (*Grid, int) {
	cur := values.Like()
	var pending []int
	for i, m := range mask.Data.Elements {
		if m != 1 {
			continue
		}
		if v := values.Data.Elements[i]; !values.IsNoData(v) {
			cur.Data.Elements[i] = v
		} else {
			pending = append(pending, i)
		}
	}

	next := cur.Copy()
	buf := make([]float64, 0, len(octagonal))
	var rounds int
	for len(pending) > 0 {
		var remaining []int
		var resolved int
		for _, i := range pending {
			row, col := i/cur.NCols, i%cur.NCols
			buf = neighborValues(buf[:0], cur, row, col)
			if len(buf) == 0 {
				remaining = append(remaining, i)
				continue
			}
			next.Data.Elements[i] = policy.Resolve(buf)
			resolved++
		}
		if resolved == 0 {
			break
		}
		rounds++
		copy(cur.Data.Elements, next.Data.Elements)
		pending = remaining
	}
	return cur, rounds
}
