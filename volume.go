/*
Copyright © 2017 the w2nc authors.
This file is part of w2nc.

w2nc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

w2nc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with w2nc.  If not, see <http://www.gnu.org/licenses/>.
*/

package w2nc

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// DefaultMaxCells is the default upper limit on the number of cells
// in a single volume.
const DefaultMaxCells = 1 << 28

// cellCeiling bounds the number of cells in a volume even when the
// caller disables the MaxCells limit.
const cellCeiling uint64 = 1 << 32

// AllocationErr is returned when the volume extents given in a header
// cannot be allocated.
type AllocationErr struct {
	X, Y, Z  int
	MaxCells int
}

func (e AllocationErr) Error() string {
	return fmt.Sprintf("w2nc: cannot allocate %d×%d×%d volume (limit %d cells)",
		e.X, e.Y, e.Z, e.MaxCells)
}

// Volume is a fixed-shape three-dimensional field indexed by
// (i, j, k) = (x, y, z). Values are stored with x varying fastest,
// so the linear index of (i, j, k) is i + X*(j + Y*k). This is the
// same layout as a [z][y][x] array, which is how the volume is
// written out.
type Volume struct {
	X, Y, Z int

	data *sparse.DenseArray // shape [Z, Y, X]
}

// checkExtents returns the number of cells in an x×y×z volume, or an
// AllocationErr if the extents are not positive or overflow, or if the
// product exceeds maxCells or cellCeiling.
func checkExtents(x, y, z, maxCells int) (int, error) {
	err := AllocationErr{X: x, Y: y, Z: z, MaxCells: maxCells}
	if x <= 0 || y <= 0 || z <= 0 {
		return 0, err
	}
	if x > math.MaxInt32 || y > math.MaxInt32 || z > math.MaxInt32 {
		return 0, err
	}
	n := x * y
	if n/y != x {
		return 0, err
	}
	nn := n * z
	if nn/z != n {
		return 0, err
	}
	if maxCells > 0 && nn > maxCells {
		return 0, err
	}
	if uint64(nn) > cellCeiling {
		return 0, err
	}
	return nn, nil
}

// NewVolume allocates a zero-filled x×y×z volume. maxCells limits the
// total number of cells; a value <= 0 leaves only a fixed ceiling of
// 1<<32 cells.
func NewVolume(x, y, z, maxCells int) (*Volume, error) {
	if _, err := checkExtents(x, y, z, maxCells); err != nil {
		return nil, err
	}
	return &Volume{X: x, Y: y, Z: z, data: sparse.ZerosDense(z, y, x)}, nil
}

// Len returns the number of cells in v.
func (v *Volume) Len() int { return len(v.data.Elements) }

func (v *Volume) checkIndex(i, j, k int) error {
	if err := v.data.CheckIndex([]int{k, j, i}); err != nil {
		return fmt.Errorf("w2nc: index (%d, %d, %d) out of range for %d×%d×%d volume: %v",
			i, j, k, v.X, v.Y, v.Z, err)
	}
	return nil
}

// At returns the value at (i, j, k).
func (v *Volume) At(i, j, k int) (float64, error) {
	if err := v.checkIndex(i, j, k); err != nil {
		return 0, err
	}
	return v.data.Elements[i+v.X*(j+v.Y*k)], nil
}

// Set sets the value at (i, j, k) to val.
func (v *Volume) Set(i, j, k int, val float64) error {
	if err := v.checkIndex(i, j, k); err != nil {
		return err
	}
	v.data.Elements[i+v.X*(j+v.Y*k)] = val
	return nil
}

// Values returns the backing values in storage order (x fastest).
// The returned slice is shared with v.
func (v *Volume) Values() []float64 { return v.data.Elements }

// Float32 returns a copy of the values of v in storage order,
// converted to float32.
func (v *Volume) Float32() []float32 {
	o := make([]float32, len(v.data.Elements))
	for i, e := range v.data.Elements {
		o[i] = float32(e)
	}
	return o
}

// dense returns the underlying array, shaped [Z, Y, X].
func (v *Volume) dense() *sparse.DenseArray { return v.data }

// Volumes holds the five fields decoded from one W file. They are
// allocated together and share a lifetime.
type Volumes struct {
	U, V, W, DBZ, Div *Volume
}

// NewVolumes allocates the five output volumes for an x×y×z grid.
func NewVolumes(x, y, z, maxCells int) (*Volumes, error) {
	if _, err := checkExtents(x, y, z, maxCells); err != nil {
		return nil, err
	}
	vols := new(Volumes)
	for _, p := range []**Volume{&vols.U, &vols.V, &vols.W, &vols.DBZ, &vols.Div} {
		v, err := NewVolume(x, y, z, maxCells)
		if err != nil {
			return nil, err
		}
		*p = v
	}
	return vols, nil
}

// set stores one converted sample at (i, j, k) in every volume.
func (vols *Volumes) set(i, j, k int, s Sample) error {
	for _, f := range []struct {
		v   *Volume
		val float64
	}{
		{vols.U, s.U}, {vols.V, s.V}, {vols.W, s.W}, {vols.DBZ, s.DBZ}, {vols.Div, s.Div},
	} {
		if err := f.v.Set(i, j, k, f.val); err != nil {
			return err
		}
	}
	return nil
}

// ByName returns the volume holding the named output variable
// ("u", "v", "w", "dbz" or "div"), or nil.
func (vols *Volumes) ByName(name string) *Volume {
	switch name {
	case "u":
		return vols.U
	case "v":
		return vols.V
	case "w":
		return vols.W
	case "dbz":
		return vols.DBZ
	case "div":
		return vols.Div
	}
	return nil
}
