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
	"testing"

	"github.com/stretchr/testify/require"
)

func writeBatch(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "jobs.toml")
	ibound := filepath.Join(dir, "ibound.idf")
	kh := filepath.Join(dir, "kh.idf")
	writeGrid(t, ibound, iboundRows)
	writeGrid(t, kh, [][]float64{{2, nd, 6}})
	toml := fmt.Sprintf(`
[[Boundary]]
Input = [%q]
DiagonalCheck = true
Inactive = -9999.0

[[Resample]]
Input = [%q]
Policy = "max"
Postfix = "_max"
`, ibound, kh)
	require.NoError(t, os.WriteFile(path, []byte(toml), 0644))
	return path
}

func TestReadBatch(t *testing.T) {
	b, err := ReadBatch(writeBatch(t, t.TempDir()))
	require.NoError(t, err)
	require.Len(t, b.Boundary, 1)
	require.Len(t, b.Resample, 1)

	bj := b.Boundary[0]
	require.Equal(t, "_bnd", bj.Postfix)
	require.Equal(t, 1., bj.Active)
	require.Equal(t, -1., bj.Boundary)
	require.Equal(t, -9999., bj.Inactive)
	require.True(t, bj.DiagonalCheck)
	require.False(t, bj.KeepInactive)

	rj := b.Resample[0]
	require.Equal(t, "max", rj.Policy)
	require.Equal(t, "_max", rj.Postfix)
	require.Empty(t, rj.ZoneFile)
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, RunBatch(writeBatch(t, dir)))
	require.Equal(t, [][]float64{
		{nd, nd, nd, nd, nd},
		{nd, -1, -1, -1, nd},
		{nd, -1, 1, -1, nd},
		{nd, -1, -1, -1, nd},
		{nd, nd, nd, nd, nd},
	}, readRows(t, filepath.Join(dir, "ibound_bnd.idf")))
	require.Equal(t, [][]float64{{2, 6, 6}}, readRows(t, filepath.Join(dir, "kh_max.idf")))
}

func TestReadBatchMissing(t *testing.T) {
	_, err := ReadBatch(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
