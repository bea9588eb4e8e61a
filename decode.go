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
	"errors"
	"math"

	"github.com/sirupsen/logrus"
)

// rowPadding is the number of 16-bit words of Fortran record framing
// that precede every row of samples.
const rowPadding = 4

// Sample is one decoded grid point in physical units.
type Sample struct {
	U, V float64 // horizontal wind components [m/s]
	W    float64 // vertical velocity [m/s]
	DBZ  float64 // reflectivity [dBZ]
	Div  float64 // divergence [1/s]
}

// polarSample is a raw PolarMode sample.
type polarSample struct {
	Dir  int16 // wind direction [0.1 degree]
	Spd  int16 // wind speed [0.1 m/s]
	Vert int16 // vertical velocity [0.01 m/s]
	DBZ  int16 // reflectivity [0.1 dBZ]
	Div  int16 // divergence [1e-5 1/s]
}

// uvSample is a raw UVMode sample, in file order.
type uvSample struct {
	U, V, W float32
	DBZ     int16 // reflectivity [0.1 dBZ]
	Div     float32
}

// reflectivity converts a raw reflectivity code. It is the same in
// both modes.
func reflectivity(raw int16) float64 {
	if raw > missingCode {
		return float64(raw) * 0.1
	}
	return FillValue
}

// convertPolar decomposes a direction/speed sample into u and v and
// scales the remaining codes.
func convertPolar(s polarSample) Sample {
	var o Sample
	wdr := float64(s.Dir) * 0.1
	wsp := float64(s.Spd) * 0.1
	if wdr < 0 {
		o.U = FillValue
		o.V = FillValue
	} else {
		o.U = -math.Sin(wdr*Pi/180.0) * wsp
		o.V = -math.Cos(wdr*Pi/180.0) * wsp
	}
	if s.Vert > missingCode {
		o.W = float64(s.Vert) * 0.01
	} else {
		o.W = FillValue
	}
	if s.Div < NoData {
		o.Div = float64(s.Div) / DivScaleFactor
	} else {
		o.Div = FillValue
	}
	o.DBZ = reflectivity(s.DBZ)
	return o
}

// convertUV copies the float components of a UV sample. A vertical
// velocity at or below -DivScaleFactor marks the whole sample, other
// than reflectivity, as missing.
func convertUV(s uvSample) Sample {
	o := Sample{
		U:   float64(s.U),
		V:   float64(s.V),
		W:   float64(s.W),
		Div: float64(s.Div),
		DBZ: reflectivity(s.DBZ),
	}
	if float64(s.W) <= -DivScaleFactor {
		o.U = FillValue
		o.V = FillValue
		o.W = FillValue
		o.Div = FillValue
	}
	return o
}

// atPosition records the sample position in a truncation error.
func atPosition(err error, p Position) error {
	var te *TruncatedRecordErr
	if errors.As(err, &te) && te.Position == nil {
		te.Position = &p
	}
	return err
}

type volumeDecoder struct {
	rr    *RecordReader
	log   logrus.FieldLogger
	debug bool
	vols  *Volumes

	polar []polarSample
	uv    []uvSample
}

// DecodeVolumes reads the samples following header h from rr and
// returns the five converted volumes. On error no volumes are returned.
func DecodeVolumes(rr *RecordReader, h *Header, o *Options) (*Volumes, error) {
	o = o.withDefaults()
	vols, err := NewVolumes(int(h.Imax), int(h.Jmax), int(h.Kmax), o.MaxCells)
	if err != nil {
		return nil, err
	}
	d := &volumeDecoder{
		rr:    rr,
		log:   o.Log,
		debug: o.Debug,
		vols:  vols,
	}

	var row func(j, k int) error
	switch h.Mode {
	case UVMode:
		d.uv = make([]uvSample, h.Imax)
		row = d.uvRow
	default:
		d.polar = make([]polarSample, h.Imax)
		row = d.polarRow
	}

	for k := 0; k < int(h.Kmax); k++ {
		for j := 0; j < int(h.Jmax); j++ {
			if err := rr.SkipPadding(rowPadding); err != nil {
				return nil, atPosition(err, Position{I: 0, J: j, K: k})
			}
			if err := row(j, k); err != nil {
				return nil, err
			}
		}
	}
	return vols, nil
}

// polarRow reads and converts row (j, k) of a PolarMode file.
func (d *volumeDecoder) polarRow(j, k int) error {
	for i := range d.polar {
		s := &d.polar[i]
		for _, f := range []struct {
			name string
			v    *int16
		}{
			{"wind direction", &s.Dir},
			{"wind speed", &s.Spd},
			{"vertical velocity", &s.Vert},
			{"reflectivity", &s.DBZ},
			{"divergence", &s.Div},
		} {
			v, err := d.rr.ReadInt16(f.name)
			if err != nil {
				return atPosition(err, Position{I: i, J: j, K: k})
			}
			*f.v = v
		}
		if d.debug {
			d.log.WithFields(logrus.Fields{
				"i": i + 1, "j": j + 1, "k": k + 1,
				"wd": s.Dir, "ws": s.Spd, "ww": s.Vert, "db": s.DBZ, "dv": s.Div,
			}).Debug("raw sample")
		}
	}
	for i, s := range d.polar {
		if err := d.vols.set(i, j, k, convertPolar(s)); err != nil {
			return err
		}
	}
	return nil
}

// uvRow reads and converts row (j, k) of a UVMode file.
func (d *volumeDecoder) uvRow(j, k int) error {
	for i := range d.uv {
		s := &d.uv[i]
		var err error
		p := Position{I: i, J: j, K: k}
		for _, f := range []struct {
			name string
			v    *float32
		}{
			{"u", &s.U}, {"v", &s.V}, {"w", &s.W},
		} {
			if *f.v, err = d.rr.ReadFloat32(f.name); err != nil {
				return atPosition(err, p)
			}
		}
		if s.DBZ, err = d.rr.ReadInt16("reflectivity"); err != nil {
			return atPosition(err, p)
		}
		if s.Div, err = d.rr.ReadFloat32("divergence"); err != nil {
			return atPosition(err, p)
		}
		if d.debug {
			d.log.WithFields(logrus.Fields{
				"i": i + 1, "j": j + 1, "k": k + 1,
				"u": s.U, "v": s.V, "w": s.W, "db": s.DBZ, "dv": s.Div,
			}).Debug("raw sample")
		}
	}
	for i, s := range d.uv {
		if err := d.vols.set(i, j, k, convertUV(s)); err != nil {
			return err
		}
	}
	return nil
}
