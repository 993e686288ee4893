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
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestConflictPolicyResolve(t *testing.T) {
	tests := []struct {
		policy ConflictPolicy
		vals   []float64
		want   float64
	}{
		{policy: ArithmeticAverage, vals: []float64{2, 6}, want: 4},
		{policy: HarmonicAverage, vals: []float64{2, 6}, want: 3},
		{policy: MinimumValue, vals: []float64{2, 6}, want: 2},
		{policy: MaximumValue, vals: []float64{2, 6}, want: 6},
		{policy: HarmonicAverage, vals: []float64{0, 4}, want: 0},
		{policy: HarmonicAverage, vals: []float64{0}, want: 0},
		{policy: ArithmeticAverage, vals: []float64{10}, want: 10},
		{policy: MinimumValue, vals: []float64{3, -1, 3}, want: -1},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v %v", test.policy, test.vals), func(t *testing.T) {
			have := test.policy.Resolve(test.vals)
			if !floats.EqualWithinAbs(have, test.want, 1.e-12) {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := map[string]ConflictPolicy{
		"arithmetic":      ArithmeticAverage,
		"Mean":            ArithmeticAverage,
		"HarmonicAverage": HarmonicAverage,
		" harmonic ":      HarmonicAverage,
		"MIN":             MinimumValue,
		"MaximumValue":    MaximumValue,
	}
	for s, want := range tests {
		have, err := ParsePolicy(s)
		if err != nil {
			t.Errorf("%q: %v", s, err)
			continue
		}
		if have != want {
			t.Errorf("%q: have %v, want %v", s, have, want)
		}
		if p, err := ParsePolicy(have.String()); err != nil || p != have {
			t.Errorf("%v does not round trip through its name", have)
		}
	}
	if _, err := ParsePolicy("median"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("want ErrUnknownPolicy, have %v", err)
	}
}

func TestFillZoneSingleSource(t *testing.T) {
	for _, policy := range []ConflictPolicy{ArithmeticAverage, HarmonicAverage, MinimumValue, MaximumValue} {
		values := testGrid(t, [][]float64{
			{nd, nd, nd},
			{nd, 10, nd},
			{nd, nd, nd},
		})
		filled, rounds := FillZone(values, DummyZone(values)[0], policy)
		if rounds != 1 {
			t.Errorf("%v: have %d rounds, want 1", policy, rounds)
		}
		compareRows(t, [][]float64{
			{10, 10, 10},
			{10, 10, 10},
			{10, 10, 10},
		}, filled)
	}
}

func TestFillZoneDivergence(t *testing.T) {
	values := testGrid(t, [][]float64{{2, nd, 6}})
	want := map[ConflictPolicy]float64{
		ArithmeticAverage: 4,
		HarmonicAverage:   3,
		MinimumValue:      2,
		MaximumValue:      6,
	}
	for policy, w := range want {
		filled, _ := FillZone(values, DummyZone(values)[0], policy)
		if have := filled.At(0, 1); !floats.EqualWithinAbs(have, w, 1.e-12) {
			t.Errorf("%v: have %g, want %g", policy, have, w)
		}
	}
}

func TestFillZoneTieBreak(t *testing.T) {
	if i := floats.MinIdx([]float64{1, 0, 0}); i != 1 {
		t.Errorf("MinIdx: have %d, want 1", i)
	}
	if i := floats.MaxIdx([]float64{0, 2, 2}); i != 1 {
		t.Errorf("MaxIdx: have %d, want 1", i)
	}

	// +0 and -0 compare equal, so the sign of the result shows which
	// neighbor was picked.
	negZero := math.Copysign(0, -1)
	tests := []struct {
		name        string
		policy      ConflictPolicy
		other       float64
		first, last float64
	}{
		{name: "min -0 first", policy: MinimumValue, other: 1, first: negZero, last: 0},
		{name: "min +0 first", policy: MinimumValue, other: 1, first: 0, last: negZero},
		{name: "max -0 first", policy: MaximumValue, other: -1, first: negZero, last: 0},
		{name: "max +0 first", policy: MaximumValue, other: -1, first: 0, last: negZero},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := test.other
			values := testGrid(t, [][]float64{
				{test.first, o, o},
				{o, nd, o},
				{o, o, test.last},
			})
			filled, _ := FillZone(values, DummyZone(values)[0], test.policy)
			have := filled.At(1, 1)
			if have != 0 || math.Signbit(have) != math.Signbit(test.first) {
				t.Errorf("have %g (sign bit %v), want the north-west neighbor %g",
					have, math.Signbit(have), test.first)
			}
		})
	}
}

func TestFillZoneHarmonicZero(t *testing.T) {
	values := testGrid(t, [][]float64{{0, nd, 4}})
	filled, _ := FillZone(values, DummyZone(values)[0], HarmonicAverage)
	if have := filled.At(0, 1); have != 0 {
		t.Errorf("have %g, want 0", have)
	}
}

func TestFillZoneRoundSynchronous(t *testing.T) {
	values := testGrid(t, [][]float64{{1, nd, nd, nd, 5}})
	filled, rounds := FillZone(values, DummyZone(values)[0], ArithmeticAverage)
	compareRows(t, [][]float64{{1, 1, 3, 5, 5}}, filled)
	if rounds != 2 {
		t.Errorf("have %d rounds, want 2", rounds)
	}
}

func TestFillZoneTotality(t *testing.T) {
	const nrows, ncols = 6, 9
	rr := make([][]float64, nrows)
	for r := range rr {
		rr[r] = make([]float64, ncols)
		for c := range rr[r] {
			rr[r][c] = nd
		}
	}
	rr[0][0] = 3
	rr[nrows-1][4] = 7
	values := testGrid(t, rr)
	mask := DummyZone(values)[0]
	for _, policy := range []ConflictPolicy{ArithmeticAverage, HarmonicAverage, MinimumValue, MaximumValue} {
		filled, rounds := FillZone(values, mask, policy)
		if n := filled.CountValue(nd); n != 0 {
			t.Errorf("%v: %d cells were not filled", policy, n)
		}
		if rounds > ncols {
			t.Errorf("%v: %d rounds is more than %d", policy, rounds, ncols)
		}
		for _, v := range filled.Data.Elements {
			if v < 3 || v > 7 {
				t.Errorf("%v: filled value %g outside of the seed range", policy, v)
				break
			}
		}
	}
}

func TestFillZoneWindingZone(t *testing.T) {
	values := testGrid(t, [][]float64{
		{5, nd, nd, nd, nd},
		{nd, nd, nd, nd, nd},
		{nd, nd, nd, nd, nd},
		{nd, nd, nd, nd, nd},
		{nd, nd, nd, nd, nd},
	})
	mask := testGrid(t, [][]float64{
		{1, 1, 1, 1, 1},
		{nd, nd, nd, nd, 1},
		{1, 1, 1, 1, 1},
		{1, nd, nd, nd, nd},
		{1, 1, 1, 1, 1},
	})
	filled, rounds := FillZone(values, mask, ArithmeticAverage)
	compareRows(t, [][]float64{
		{5, 5, 5, 5, 5},
		{nd, nd, nd, nd, 5},
		{5, 5, 5, 5, 5},
		{5, nd, nd, nd, nd},
		{5, 5, 5, 5, 5},
	}, filled)
	// The far end is 12 steps from the seed along the zone.
	if rounds != 12 {
		t.Errorf("have %d rounds, want 12", rounds)
	}
}

func TestFillZoneMask(t *testing.T) {
	values := testGrid(t, [][]float64{
		{4, nd, nd},
		{nd, nd, nd},
		{nd, nd, 9},
	})
	mask := testGrid(t, [][]float64{
		{1, 1, nd},
		{1, nd, nd},
		{nd, nd, 1},
	})
	filled, _ := FillZone(values, mask, ArithmeticAverage)
	compareRows(t, [][]float64{
		{4, 4, nd},
		{4, nd, nd},
		{nd, nd, 9},
	}, filled)
}

func TestFillZoneUnreachable(t *testing.T) {
	values := testGrid(t, [][]float64{{5, nd, nd, nd}})
	mask := testGrid(t, [][]float64{{1, 1, nd, 1}})
	filled, rounds := FillZone(values, mask, ArithmeticAverage)
	compareRows(t, [][]float64{{5, 5, nd, nd}}, filled)
	if rounds != 1 {
		t.Errorf("have %d rounds, want 1", rounds)
	}
}

func TestResampleNearestNeighbor(t *testing.T) {
	values := testGrid(t, [][]float64{{4, nd, nd, nd, 8}})

	t.Run("zones", func(t *testing.T) {
		zones, vals := SplitZones(testGrid(t, [][]float64{{1, 1, 1, 2, 2}}))
		var calls []int
		hook := func(i int, filled *Grid) error {
			calls = append(calls, i)
			return nil
		}
		out, err := ResampleNearestNeighbor(values, zones, ArithmeticAverage, hook)
		if err != nil {
			t.Fatal(err)
		}
		compareRows(t, [][]float64{{4, 4, 4, 8, 8}}, out)
		if len(calls) != len(vals) || calls[0] != 0 || calls[1] != 1 {
			t.Errorf("hook calls: %v", calls)
		}
	})
	t.Run("single zone", func(t *testing.T) {
		out, err := ResampleNearestNeighbor(values, DummyZone(values), ArithmeticAverage, nil)
		if err != nil {
			t.Fatal(err)
		}
		compareRows(t, [][]float64{{4, 4, 6, 8, 8}}, out)
	})
	t.Run("outside zones", func(t *testing.T) {
		zones, _ := SplitZones(testGrid(t, [][]float64{{1, 1, nd, 2, 2}}))
		out, err := ResampleNearestNeighbor(values, zones, ArithmeticAverage, nil)
		if err != nil {
			t.Fatal(err)
		}
		compareRows(t, [][]float64{{4, 4, nd, 8, 8}}, out)
	})
	t.Run("hook error", func(t *testing.T) {
		errHook := errors.New("hook failed")
		_, err := ResampleNearestNeighbor(values, DummyZone(values), ArithmeticAverage,
			func(int, *Grid) error { return errHook })
		if err == nil {
			t.Error("expected an error")
		}
	})
}

func TestResampleNearestNeighborPrecondition(t *testing.T) {
	values := testGrid(t, [][]float64{{4, nd}, {nd, nd}})
	zone := func(rr [][]float64, llx, cellsize float64) *Grid {
		g, err := NewGridFromRows(rr, llx, 0, cellsize, nd)
		if err != nil {
			t.Fatal(err)
		}
		return g
	}
	square := [][]float64{{1, 1}, {1, 1}}
	tests := []struct {
		name string
		zone *Grid
		want error
	}{
		{name: "shape", zone: zone([][]float64{{1, 1, 1}, {1, 1, 1}}, 0, 1), want: ErrShapeMismatch},
		{name: "cellsize", zone: zone(square, 0, 2), want: ErrCellsizeMismatch},
		{name: "extent", zone: zone(square, 10, 1), want: ErrExtentMismatch},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			zones := append(DummyZone(values), test.zone)
			_, err := ResampleNearestNeighbor(values, zones, ArithmeticAverage, nil)
			if !errors.Is(err, test.want) {
				t.Errorf("want %v, have %v", test.want, err)
			}
			var pe *PreconditionError
			if !errors.As(err, &pe) {
				t.Fatalf("%v is not a *PreconditionError", err)
			}
			if pe.Op != "idfgrid.ResampleNearestNeighbor: zone 1" {
				t.Errorf("op: %q", pe.Op)
			}
		})
	}
}
