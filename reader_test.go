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
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestRecordReader(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			r := newRecord(order).put(int32(-123456), int16(-32000), float32(-2.5), int16(7))
			r.text("AB", 6)
			rr := r.reader()

			i32, err := rr.ReadInt32("a")
			if err != nil || i32 != -123456 {
				t.Errorf("ReadInt32 = %d, %v", i32, err)
			}
			i16, err := rr.ReadInt16("b")
			if err != nil || i16 != -32000 {
				t.Errorf("ReadInt16 = %d, %v", i16, err)
			}
			f32, err := rr.ReadFloat32("c")
			if err != nil || f32 != -2.5 {
				t.Errorf("ReadFloat32 = %g, %v", f32, err)
			}
			if err := rr.SkipPadding(1); err != nil {
				t.Error(err)
			}
			s, err := rr.ReadFixedText("d", 6)
			if err != nil || s != "AB" {
				t.Errorf("ReadFixedText = %q, %v", s, err)
			}
			if rr.Offset() != 18 {
				t.Errorf("offset = %d; want 18", rr.Offset())
			}
			if _, err := rr.ReadInt16("e"); !errors.Is(err, io.EOF) {
				t.Errorf("read past end: %v", err)
			}
		})
	}
}

func TestTrimText(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{"RUV ", "RUV"},
		{"    ", ""},
		{"", ""},
		{"A B  ", "A B"},
		{"  A", "  A"},
		{"AB\x00CD  ", "AB"},
		{"ABCD", "ABCD"},
	} {
		if got := trimText([]byte(test.in)); got != test.want {
			t.Errorf("trimText(%q) = %q; want %q", test.in, got, test.want)
		}
	}
}

func TestTruncatedRecordErr(t *testing.T) {
	rr := NewRecordReader(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}), nil)
	if _, err := rr.ReadInt32("first"); err != nil {
		t.Fatal(err)
	}
	_, err := rr.ReadFloat32("second")
	var te *TruncatedRecordErr
	if !errors.As(err, &te) {
		t.Fatalf("got %v; want TruncatedRecordErr", err)
	}
	want := TruncatedRecordErr{Field: "second", Offset: 4, Requested: 4, Read: 2}
	if te.Field != want.Field || te.Offset != want.Offset ||
		te.Requested != want.Requested || te.Read != want.Read {
		t.Errorf("got %+v; want %+v", *te, want)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error does not wrap io.ErrUnexpectedEOF: %v", err)
	}
	const msg = "w2nc: truncated record reading second at byte 4: requested 4 bytes, read 2"
	if err.Error() != msg {
		t.Errorf("message %q; want %q", err.Error(), msg)
	}

	te.Position = &Position{I: 1, J: 2, K: 3}
	if got := te.Error(); got != msg+" (i=1, j=2, k=3)" {
		t.Errorf("message with position: %q", got)
	}

	if _, err := NewRecordReader(bytes.NewReader(nil), nil).ReadFixedText("name", 8); !errors.As(err, &te) || te.Requested != 8 || te.Read != 0 {
		t.Errorf("empty text read: %v", err)
	}
}

func TestSkipPaddingTruncated(t *testing.T) {
	rr := NewRecordReader(bytes.NewReader(make([]byte, 7)), nil)
	err := rr.SkipPadding(4)
	var te *TruncatedRecordErr
	if !errors.As(err, &te) || te.Field != "padding" || te.Requested != 8 || te.Read != 7 {
		t.Errorf("got %v", err)
	}
}
