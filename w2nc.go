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

// Package w2nc decodes radar analysis volumes stored in the
// Fortran-unformatted "W" format and converts them into gridded
// wind, vertical velocity, reflectivity and divergence fields.
//
// A W file holds a fixed header followed by kmax planes of jmax rows
// of imax samples. Samples come in one of two layouts: polar wind
// codes (direction and speed in tenths) or pre-decomposed float wind
// components, selected by the header keyword.
package w2nc

// Version gives the version number.
const Version = "1.0.0"

const (
	// NoData is the raw divergence code marking a missing sample.
	NoData = 32767

	// DivScaleFactor converts raw divergence codes to s⁻¹. Its negation
	// is also the missing-data threshold for UV-mode samples.
	DivScaleFactor = 100000.0

	// FillValue marks a missing or invalid physical sample in the
	// decoded volumes.
	FillValue = -9999.0

	// Pi is the approximation of π used by the W format tools.
	Pi = 3.14159

	// missingCode is the threshold at or below which scaled integer
	// vertical velocity and reflectivity codes are considered missing.
	missingCode = -9000
)

// Mode is the sample layout of a W file.
type Mode int

const (
	// PolarMode samples hold wind direction and speed codes.
	PolarMode Mode = iota
	// UVMode samples hold float u, v and w components.
	UVMode
)

func (m Mode) String() string {
	switch m {
	case PolarMode:
		return "polar"
	case UVMode:
		return "uv"
	default:
		return "unknown"
	}
}

// modeFromKeyword returns UVMode for the exact keywords "RUV" and
// "ruv". Mixed-case keywords select PolarMode.
func modeFromKeyword(keyword string) Mode {
	if keyword == "RUV" || keyword == "ruv" {
		return UVMode
	}
	return PolarMode
}
