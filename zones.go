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

import "sort"

// SplitZones returns one mask per distinct data value of zones, in
// ascending order of value, together with those values. A mask holds 1
// where zones equals its value and NoData elsewhere.
func SplitZones(zones *Grid) ([]*Grid, []float64) {
	seen := make(map[float64]struct{})
	var vals []float64
	for _, v := range zones.Data.Elements {
		if zones.IsNoData(v) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)

	masks := make([]*Grid, len(vals))
	index := make(map[float64]int, len(vals))
	for i, v := range vals {
		masks[i] = zones.Like()
		index[v] = i
	}
	for j, v := range zones.Data.Elements {
		if i, ok := index[v]; ok {
			masks[i].Data.Elements[j] = 1
		}
	}
	return masks, vals
}

// DummyZone returns a single mask covering every cell of like.
func DummyZone(like *Grid) []*Grid {
	m := like.Like()
	m.Fill(1)
	return []*Grid{m}
}
