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
	"io"
	"text/tabwriter"
)

// HeaderSize is the number of bytes in a W file header, including the
// leading Fortran record marker.
const HeaderSize = 4 + 4 + 8 + 12 + 4 + 32 + 32 + 28 + 10*4 + 24*4

// Header holds the scalar metadata at the start of a W file.
type Header struct {
	Keyword    string // "RUV" or "ruv" for UV-mode files
	FltName    string // flight name
	StmName    string // storm name
	Radar      string // radar identifier
	Experiment string
	CreatTime  string // file creation time
	Extra1     string // reserved

	Mode Mode

	Imax, Jmax, Kmax int32 // grid extents in x, y and z
	Kount, Nmosm     int32
	Iunfld, Iatten   int32
	Flag             int32
	Extra2, Extra3   int32 // reserved

	STime, ETime float32 // analysis start and end time
	OLat, OLon   float32 // grid origin latitude and longitude [degrees]
	SX, SY, SZ   float32 // grid spacing in x, y and z [km]
	XZ, YZ, ZZ   float32
	Rot          float32 // grid rotation [degrees]
	Ra           float32
	Co1, Co2     float32 // calibration coefficients
	AzmCor       float32 // azimuth correction [degrees]
	ElCor        float32 // elevation correction [degrees]
	Thresh       float32
	PowerT       float32 // transmitted power
	Biel, AzBiel float32
	ETime1       float32
	STime2       float32
	Extra6       float32 // reserved
	Extra7       float32 // reserved
}

// DecodeHeader reads a header from rr. The extents and other values
// are not validated; nonsensical extents are reported when the volumes
// are allocated.
func DecodeHeader(rr *RecordReader) (*Header, error) {
	h := new(Header)

	// Leading Fortran record marker.
	if err := rr.SkipPadding(2); err != nil {
		return nil, err
	}

	text := []struct {
		name string
		n    int
		v    *string
	}{
		{"keyword", 4, &h.Keyword},
		{"fltname", 8, &h.FltName},
		{"stmname", 12, &h.StmName},
		{"radar", 4, &h.Radar},
		{"experiment", 32, &h.Experiment},
		{"creattime", 32, &h.CreatTime},
		{"extra1", 28, &h.Extra1},
	}
	for _, t := range text {
		s, err := rr.ReadFixedText(t.name, t.n)
		if err != nil {
			return nil, err
		}
		*t.v = s
	}
	h.Mode = modeFromKeyword(h.Keyword)

	ints := []struct {
		name string
		v    *int32
	}{
		{"imax", &h.Imax}, {"jmax", &h.Jmax}, {"kmax", &h.Kmax},
		{"kount", &h.Kount}, {"nmosm", &h.Nmosm}, {"iunfld", &h.Iunfld},
		{"iatten", &h.Iatten}, {"flag", &h.Flag},
		{"extra2", &h.Extra2}, {"extra3", &h.Extra3},
	}
	for _, f := range ints {
		v, err := rr.ReadInt32(f.name)
		if err != nil {
			return nil, err
		}
		*f.v = v
	}

	for _, f := range h.floatFields() {
		v, err := rr.ReadFloat32(f.name)
		if err != nil {
			return nil, err
		}
		*f.v = v
	}
	return h, nil
}

type floatField struct {
	name string
	v    *float32
}

// floatFields returns the float header fields in file order.
func (h *Header) floatFields() []floatField {
	return []floatField{
		{"stime", &h.STime}, {"etime", &h.ETime},
		{"olat", &h.OLat}, {"olon", &h.OLon},
		{"sx", &h.SX}, {"sy", &h.SY}, {"sz", &h.SZ},
		{"xz", &h.XZ}, {"yz", &h.YZ}, {"zz", &h.ZZ},
		{"rot", &h.Rot}, {"ra", &h.Ra},
		{"co1", &h.Co1}, {"co2", &h.Co2},
		{"azmcor", &h.AzmCor}, {"elcor", &h.ElCor},
		{"thresh", &h.Thresh}, {"powert", &h.PowerT},
		{"biel", &h.Biel}, {"azbiel", &h.AzBiel},
		{"etime1", &h.ETime1}, {"stime2", &h.STime2},
		{"extra6", &h.Extra6}, {"extra7", &h.Extra7},
	}
}

// Attribute is a named header value handed to a Writer. Value is
// either a string or a float32.
type Attribute struct {
	Name  string
	Value interface{}
}

// Attributes returns the header values that are carried into
// converted output files, in a fixed order.
func (h *Header) Attributes() []Attribute {
	return []Attribute{
		{"keyword", h.Keyword},
		{"fltname", h.FltName},
		{"radar", h.Radar},
		{"stmname", h.StmName},
		{"experiment", h.Experiment},
		{"creattime", h.CreatTime},
		{"azmcor", h.AzmCor},
		{"elcor", h.ElCor},
		{"thresh", h.Thresh},
		{"rot", h.Rot},
		{"olat", h.OLat},
		{"olon", h.OLon},
		{"sx", h.SX},
		{"sy", h.SY},
		{"sz", h.SZ},
		{"stime2", h.STime2},
		{"etime1", h.ETime1},
	}
}

// Fprint writes a human-readable listing of h to w.
func (h *Header) Fprint(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "keyword:\t%q\t(%s mode)\n", h.Keyword, h.Mode)
	fmt.Fprintf(tw, "fltname:\t%q\n", h.FltName)
	fmt.Fprintf(tw, "stmname:\t%q\n", h.StmName)
	fmt.Fprintf(tw, "radar:\t%q\n", h.Radar)
	fmt.Fprintf(tw, "experiment:\t%q\n", h.Experiment)
	fmt.Fprintf(tw, "creattime:\t%q\n", h.CreatTime)
	fmt.Fprintf(tw, "imax, jmax, kmax:\t%d, %d, %d\n", h.Imax, h.Jmax, h.Kmax)
	fmt.Fprintf(tw, "kount, nmosm:\t%d, %d\n", h.Kount, h.Nmosm)
	fmt.Fprintf(tw, "iunfld, iatten, flag:\t%d, %d, %d\n", h.Iunfld, h.Iatten, h.Flag)
	for _, f := range h.floatFields() {
		fmt.Fprintf(tw, "%s:\t%g\n", f.name, *f.v)
	}
	return tw.Flush()
}
