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
	"os"

	"github.com/ctessum/cdf"
)

// Names of the netCDF dimensions of the output volumes.
const (
	XDim = "xDim"
	YDim = "yDim"
	ZDim = "zDim"
)

// NetCDFWriter writes decoded volumes to a netCDF classic file.
type NetCDFWriter struct {
	// File is the destination. It must be open for reading and
	// writing and is not closed by Write.
	File *os.File
}

// Write writes the header attributes and the five volumes to the
// file. Volumes are stored as float32 variables with dimensions
// [zDim, yDim, xDim].
func (nw NetCDFWriter) Write(h *Header, vols *Volumes) error {
	dims := []string{ZDim, YDim, XDim}
	ch := cdf.NewHeader(
		[]string{XDim, YDim, ZDim},
		[]int{int(h.Imax), int(h.Jmax), int(h.Kmax)})
	ch.AddAttribute("", "comment", "Radar analysis converted from W format")
	ch.AddAttribute("", "w2nc_version", Version)
	for _, a := range h.Attributes() {
		switch v := a.Value.(type) {
		case string:
			ch.AddAttribute("", a.Name, v)
		case float32:
			ch.AddAttribute("", a.Name, []float32{v})
		default:
			return fmt.Errorf("w2nc: header attribute %s has unsupported type %T", a.Name, a.Value)
		}
	}
	for _, f := range Fields {
		ch.AddVariable(f.Name, dims, []float32{0})
		ch.AddAttribute(f.Name, "_FillValue", []float32{FillValue})
		ch.AddAttribute(f.Name, "missing_value", []float32{FillValue})
		ch.AddAttribute(f.Name, "long_name", f.Description)
		ch.AddAttribute(f.Name, "units", f.Units())
	}
	ch.Define()

	if errs := ch.Check(); len(errs) > 0 {
		return fmt.Errorf("w2nc: creating netcdf header: %v", errs[0])
	}

	cf, err := cdf.Create(nw.File, ch)
	if err != nil {
		return fmt.Errorf("w2nc: creating netcdf file: %v", err)
	}
	for _, f := range Fields {
		if err := writeVariable(cf, f.Name, vols.ByName(f.Name)); err != nil {
			return fmt.Errorf("w2nc: writing variable %s to netcdf file: %v", f.Name, err)
		}
	}
	return cdf.UpdateNumRecs(nw.File)
}

func writeVariable(f *cdf.File, name string, v *Volume) error {
	end := f.Header.Lengths(name)
	n := 1
	for _, l := range end {
		n *= l
	}
	if v.Len() != n {
		return fmt.Errorf("dims are %d but array length is %d", n, v.Len())
	}
	w := f.Writer(name, make([]int, len(end)), end)
	_, err := w.Write(v.Float32())
	return err
}

// Dump prints the lengths of variable's three dimensions followed by
// one "i, j, k: value" line per cell, with i varying slowest.
func Dump(w io.Writer, rw cdf.ReaderWriterAt, variable string) error {
	f, err := cdf.Open(rw)
	if err != nil {
		return fmt.Errorf("w2nc: opening netcdf file: %v", err)
	}
	lengths := f.Header.Lengths(variable)
	if lengths == nil {
		return fmt.Errorf("w2nc: netcdf file has no variable '%s'", variable)
	}
	if len(lengths) != 3 {
		return fmt.Errorf("w2nc: variable '%s' has %d dimensions; expected 3", variable, len(lengths))
	}
	nz, ny, nx := lengths[0], lengths[1], lengths[2]

	data := make([]float32, nx*ny*nz)
	if _, err := f.Reader(variable, nil, nil).Read(data); err != nil {
		return fmt.Errorf("w2nc: reading variable '%s': %v", variable, err)
	}

	if _, err := fmt.Fprintf(w, "iDim: %d, jDim: %d, kDim: %d\n", nx, ny, nz); err != nil {
		return err
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				if _, err := fmt.Fprintf(w, "%d, %d, %d: %v\n", i, j, k, data[i+nx*(j+ny*k)]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
