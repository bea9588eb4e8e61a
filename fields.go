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
	"math"

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/floats"
)

// Field describes one output variable.
type Field struct {
	Name        string
	Description string

	// Dimensions are the physical dimensions of the field. They are
	// ignored if UnitsOverride is set.
	Dimensions    unit.Dimensions
	UnitsOverride string
}

// Units returns the units string of the field.
func (f Field) Units() string {
	if f.UnitsOverride != "" {
		return f.UnitsOverride
	}
	return f.Dimensions.String()
}

// Fields are the output variables, in output order.
var Fields = []Field{
	{Name: "u", Description: "Eastward wind component", Dimensions: unit.MeterPerSecond},
	{Name: "v", Description: "Northward wind component", Dimensions: unit.MeterPerSecond},
	{Name: "w", Description: "Vertical velocity", Dimensions: unit.MeterPerSecond},
	{Name: "dbz", Description: "Radar reflectivity", UnitsOverride: "dBZ"},
	{Name: "div", Description: "Horizontal divergence", Dimensions: unit.Herz},
}

// Summary gives the number of valid and missing cells in a volume and
// the range of the valid values.
type Summary struct {
	Valid, Missing int
	Min, Max       float64
}

// Summarize computes a Summary of v. Min and Max are NaN if v has no
// valid values.
func Summarize(v *Volume) Summary {
	valid := make([]float64, 0, v.Len())
	for _, e := range v.Values() {
		if e != FillValue {
			valid = append(valid, e)
		}
	}
	s := Summary{
		Valid:   len(valid),
		Missing: v.Len() - len(valid),
		Min:     math.NaN(),
		Max:     math.NaN(),
	}
	if len(valid) > 0 {
		s.Min = floats.Min(valid)
		s.Max = floats.Max(valid)
	}
	return s
}
