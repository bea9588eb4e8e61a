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

package w2ncutil

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/mjskier/w2nc"
	"github.com/sirupsen/logrus"
)

// fileWriter creates a netCDF file at path and writes the converted
// volumes to it. The file is only created once decoding has succeeded.
type fileWriter struct {
	path string
}

func (fw fileWriter) Write(h *w2nc.Header, vols *w2nc.Volumes) error {
	f, err := os.Create(fw.path)
	if err != nil {
		return err
	}
	if err := (w2nc.NetCDFWriter{File: f}).Write(h, vols); err != nil {
		f.Close()
		os.Remove(fw.path)
		return err
	}
	return f.Close()
}

// newLogger returns a logger printing to w.
func newLogger(w io.Writer, debug bool) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	log.Level = logrus.InfoLevel
	if debug {
		log.Level = logrus.DebugLevel
	}
	return log
}

// checkLogFile fills in a default value for the log file path if it
// is set to "auto".
func checkLogFile(logFile, outputFile string) string {
	if logFile == "auto" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// checkInputFile makes sure an input file was specified.
func checkInputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("w2nc: you need to specify an input file (for example: --input=analysis.w)")
	}
	return os.ExpandEnv(f), nil
}

// checkOutputFile makes sure an output file was specified and that
// its directory exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("w2nc: you need to specify an output file (for example: --output=analysis.nc)")
	}
	f = os.ExpandEnv(f)
	if IsBlob(f) {
		return f, nil
	}
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("w2nc: the output directory doesn't exist: %v", err)
	}
	return f, nil
}

// parseByteOrder converts "little" or "big" into a byte order.
func parseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("w2nc: ByteOrder must be 'little' or 'big' but is '%s'", s)
	}
}

// Convert converts the W file at input into a netCDF file at output.
// Status messages are written to stdout and, if logFile is not empty,
// to logFile. Both input and output may be blob storage paths, and
// input may be a web address.
func Convert(ctx context.Context, stdout io.Writer, input, output, logFile string, o *w2nc.Options) error {
	var err error
	if input, err = checkInputFile(input); err != nil {
		return err
	}
	if output, err = checkOutputFile(output); err != nil {
		return err
	}
	var opts w2nc.Options
	if o != nil {
		opts = *o
	}
	log := newLogger(stdout, opts.Debug)
	opts.Log = log

	up := new(uploader)
	localOutput := up.maybeUpload(output)
	if logFile = checkLogFile(logFile, output); logFile != "" {
		localLog := up.maybeUpload(logFile)
		lf, err := os.Create(localLog)
		if err != nil {
			return fmt.Errorf("w2nc: problem creating log file: %v", err)
		}
		log.Out = io.MultiWriter(stdout, lf)
		defer lf.Close()
		// The log is registered after the output, so it holds the
		// output's upload record when it is closed and uploaded.
		up.closeBefore(localLog, func() error {
			log.Out = stdout
			return lf.Close()
		})
	}

	localInput, err := maybeDownload(ctx, input, log)
	if err != nil {
		return err
	}
	if err := w2nc.ConvertFile(localInput, fileWriter{path: localOutput}, &opts); err != nil {
		log.WithError(err).Error("conversion failed")
		return err
	}
	log.WithField("output", output).Info("conversion complete")
	return up.upload(ctx, log)
}

// Info prints the header of the W file at input to w. Unless
// headerOnly is true, it also decodes the volumes and prints a summary
// of each field.
func Info(ctx context.Context, w io.Writer, input string, headerOnly bool, o *w2nc.Options) error {
	var opts w2nc.Options
	if o != nil {
		opts = *o
	}
	log := newLogger(os.Stderr, opts.Debug)
	if !opts.Debug {
		log.Level = logrus.WarnLevel
	}
	opts.Log = log

	input, err := checkInputFile(input)
	if err != nil {
		return err
	}
	localInput, err := maybeDownload(ctx, input, log)
	if err != nil {
		return err
	}
	f, err := os.Open(localInput)
	if err != nil {
		return &w2nc.OpenErr{Path: input, Err: err}
	}
	defer f.Close()

	if headerOnly {
		h, err := w2nc.DecodeHeader(w2nc.NewRecordReader(f, opts.ByteOrder))
		if err != nil {
			return err
		}
		return h.Fprint(w)
	}

	h, vols, err := w2nc.Decode(f, &opts)
	if err != nil {
		return err
	}
	if err := h.Fprint(w); err != nil {
		return err
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "variable\tunits\tvalid\tmissing\tmin\tmax")
	for _, fld := range w2nc.Fields {
		s := w2nc.Summarize(vols.ByName(fld.Name))
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%g\t%g\n", fld.Name, fld.Units(), s.Valid, s.Missing, s.Min, s.Max)
	}
	return tw.Flush()
}

// Dump prints every value of variable in the netCDF file at input to w.
func Dump(ctx context.Context, w io.Writer, input, variable string) error {
	input, err := checkInputFile(input)
	if err != nil {
		return err
	}
	localInput, err := maybeDownload(ctx, input, newLogger(os.Stderr, false))
	if err != nil {
		return err
	}
	f, err := os.Open(localInput)
	if err != nil {
		return &w2nc.OpenErr{Path: input, Err: err}
	}
	defer f.Close()
	return w2nc.Dump(w, f, variable)
}
