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
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Options control how a W file is decoded.
type Options struct {
	// ByteOrder is the byte order of the input. The default is
	// little endian.
	ByteOrder binary.ByteOrder

	// MaxCells limits imax*jmax*kmax. The default is DefaultMaxCells;
	// a negative value removes the limit.
	MaxCells int

	// Log receives status messages. The default is the logrus
	// standard logger.
	Log logrus.FieldLogger

	// Debug enables a log entry for every raw sample read.
	Debug bool
}

func (o *Options) withDefaults() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}
	if oo.ByteOrder == nil {
		oo.ByteOrder = binary.LittleEndian
	}
	if oo.MaxCells == 0 {
		oo.MaxCells = DefaultMaxCells
	}
	if oo.Log == nil {
		oo.Log = logrus.StandardLogger()
	}
	return &oo
}

// Writer stores a decoded W file.
type Writer interface {
	Write(h *Header, vols *Volumes) error
}

// OpenErr is returned when the input cannot be opened.
type OpenErr struct {
	Path string
	Err  error
}

func (e *OpenErr) Error() string {
	return fmt.Sprintf("w2nc: unable to read '%s': %v", e.Path, e.Err)
}

func (e *OpenErr) Unwrap() error { return e.Err }

// Decode reads a complete W file from r.
func Decode(r io.Reader, o *Options) (*Header, *Volumes, error) {
	o = o.withDefaults()
	rr := NewRecordReader(r, o.ByteOrder)
	h, err := DecodeHeader(rr)
	if err != nil {
		return nil, nil, err
	}
	log := o.Log.WithFields(logrus.Fields{
		"imax": h.Imax, "jmax": h.Jmax, "kmax": h.Kmax,
		"mode": h.Mode, "radar": h.Radar,
	})
	log.Info("decoded header")
	if o.Debug {
		log.Debug(spew.Sdump(h))
	}
	if n, err := checkExtents(int(h.Imax), int(h.Jmax), int(h.Kmax), o.MaxCells); err == nil {
		log.Infof("allocating %s for 5 volumes", humanize.Bytes(uint64(5*8*n)))
	}

	vols, err := DecodeVolumes(rr, h, o)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range Fields {
		s := Summarize(vols.ByName(f.Name))
		o.Log.WithFields(logrus.Fields{
			"variable": f.Name, "valid": s.Valid, "missing": s.Missing,
			"min": s.Min, "max": s.Max,
		}).Info("decoded field")
	}
	return h, vols, nil
}

// Convert decodes the W file in r and passes the result to w. Nothing
// is written if decoding fails.
func Convert(r io.Reader, w Writer, o *Options) error {
	h, vols, err := Decode(r, o)
	if err != nil {
		return err
	}
	if err := w.Write(h, vols); err != nil {
		return fmt.Errorf("w2nc: writing output: %w", err)
	}
	return nil
}

// ConvertFile converts the W file at path and passes the result to w.
func ConvertFile(path string, w Writer, o *Options) error {
	f, err := os.Open(path)
	if err != nil {
		return &OpenErr{Path: path, Err: err}
	}
	defer f.Close()
	return Convert(f, w, o)
}
