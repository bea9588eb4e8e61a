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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Position is a sample location within a volume.
type Position struct {
	I, J, K int
}

// TruncatedRecordErr is returned when the input ends before a field
// could be read completely.
type TruncatedRecordErr struct {
	// Field is the name of the field being read.
	Field string
	// Offset is the byte offset at which the field starts.
	Offset int64
	// Requested and Read are the number of bytes the field needed and
	// the number that were available.
	Requested, Read int
	// Position is the sample being decoded, or nil while decoding
	// the header.
	Position *Position
	// Err is the underlying read error.
	Err error
}

func (e *TruncatedRecordErr) Error() string {
	s := fmt.Sprintf("w2nc: truncated record reading %s at byte %d: requested %d bytes, read %d",
		e.Field, e.Offset, e.Requested, e.Read)
	if e.Position != nil {
		s += fmt.Sprintf(" (i=%d, j=%d, k=%d)", e.Position.I, e.Position.J, e.Position.K)
	}
	return s
}

func (e *TruncatedRecordErr) Unwrap() error { return e.Err }

// RecordReader reads the fixed-width fields of a W file in a single
// forward pass.
type RecordReader struct {
	r     *bufio.Reader
	order binary.ByteOrder
	off   int64
	buf   [8]byte
}

// NewRecordReader returns a reader of the fields in r. If order is nil,
// binary.LittleEndian is used.
func NewRecordReader(r io.Reader, order binary.ByteOrder) *RecordReader {
	if order == nil {
		order = binary.LittleEndian
	}
	return &RecordReader{r: bufio.NewReader(r), order: order}
}

// Offset returns the number of bytes consumed so far.
func (rr *RecordReader) Offset() int64 { return rr.off }

// fill reads exactly len(b) bytes into b.
func (rr *RecordReader) fill(field string, b []byte) error {
	n, err := io.ReadFull(rr.r, b)
	start := rr.off
	rr.off += int64(n)
	if err != nil {
		return &TruncatedRecordErr{
			Field:     field,
			Offset:    start,
			Requested: len(b),
			Read:      n,
			Err:       err,
		}
	}
	return nil
}

// ReadInt32 reads a 32-bit signed integer.
func (rr *RecordReader) ReadInt32(field string) (int32, error) {
	b := rr.buf[:4]
	if err := rr.fill(field, b); err != nil {
		return 0, err
	}
	return int32(rr.order.Uint32(b)), nil
}

// ReadInt16 reads a 16-bit signed integer.
func (rr *RecordReader) ReadInt16(field string) (int16, error) {
	b := rr.buf[:2]
	if err := rr.fill(field, b); err != nil {
		return 0, err
	}
	return int16(rr.order.Uint16(b)), nil
}

// ReadFloat32 reads a 32-bit IEEE 754 float.
func (rr *RecordReader) ReadFloat32(field string) (float32, error) {
	b := rr.buf[:4]
	if err := rr.fill(field, b); err != nil {
		return 0, err
	}
	return math.Float32frombits(rr.order.Uint32(b)), nil
}

// ReadFixedText reads an n-byte character field. Trailing spaces are
// removed and the text ends at the first NUL byte, if any. A field of
// only spaces yields "".
func (rr *RecordReader) ReadFixedText(field string, n int) (string, error) {
	b := make([]byte, n)
	if err := rr.fill(field, b); err != nil {
		return "", err
	}
	return trimText(b), nil
}

func trimText(b []byte) string {
	b = bytes.TrimRight(b, " ")
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// SkipPadding discards n 16-bit words of Fortran record framing.
func (rr *RecordReader) SkipPadding(n int) error {
	b := make([]byte, 2*n)
	return rr.fill("padding", b)
}
