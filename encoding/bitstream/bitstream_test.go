package bitstream

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/uncomputable/simplicity/errors"
)

func TestNaturalRoundTrip(t *testing.T) {
	for _, n := range []uint32{1, 2, 3, 4, 5, 7, 8, 15, 16, 31, 32, 100, 1 << 20, math.MaxUint32} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			w := new(Writer)
			w.WriteNatural(n)
			r := NewReader(w.Bytes())
			got, err := r.ReadNatural()
			if err != nil {
				t.Fatal(err)
			}
			if got != n {
				t.Errorf("ReadNatural() = %d want %d", got, n)
			}
			if r.Position() != w.Len() {
				t.Errorf("consumed %d bits, wrote %d", r.Position(), w.Len())
			}
		})
	}
}

func TestNaturalEncoding(t *testing.T) {
	cases := []struct {
		n    uint32
		bits string
	}{
		{1, "0"},
		{2, "1" + "0" + "0"},
		{3, "1" + "0" + "1"},
		{4, "1" + "100" + "00"},
		{7, "1" + "100" + "11"},
		{8, "1" + "101" + "000"},
	}
	for _, c := range cases {
		w := new(Writer)
		w.WriteNatural(c.n)
		if got := bitString(w.Bytes(), w.Len()); got != c.bits {
			t.Errorf("WriteNatural(%d) = %s want %s", c.n, got, c.bits)
		}
	}
}

func TestNaturalOverflow(t *testing.T) {
	// A leading 1 followed by k = 32 claims a 33-bit number.
	w := new(Writer)
	w.WriteBit(true)
	w.WriteNatural(32)
	w.WriteBits(0, 32)
	_, err := NewReader(w.Bytes()).ReadNatural()
	if errors.Root(err) != ErrNaturalOverflow {
		t.Errorf("ReadNatural() error = %v want %v", err, ErrNaturalOverflow)
	}

	_, err = NewReader(bytes.Repeat([]byte{0xff}, 8)).ReadNatural()
	if errors.Root(err) != ErrNaturalOverflow {
		t.Errorf("ReadNatural(all ones) error = %v want %v", err, ErrNaturalOverflow)
	}
}

func TestEndOfStream(t *testing.T) {
	r := NewReader([]byte{0xa0})
	if _, err := r.ReadBits(8); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadBit(); errors.Root(err) != ErrEndOfStream {
		t.Errorf("ReadBit() error = %v want %v", err, ErrEndOfStream)
	}
	if _, err := NewReader(nil).ReadNatural(); errors.Root(err) != ErrEndOfStream {
		t.Errorf("ReadNatural() error = %v want %v", err, ErrEndOfStream)
	}
}

func TestUnalignedBytes(t *testing.T) {
	w := new(Writer)
	w.WriteBit(true)
	w.WriteBytes([]byte{0xde, 0xad})
	w.WriteBits(5, 3)

	r := NewReader(w.Bytes())
	b, _ := r.ReadBit()
	got, err := r.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if !b || !bytes.Equal(got, []byte{0xde, 0xad}) {
		t.Errorf("got %v %x", b, got)
	}
	if v, _ := r.ReadBits(3); v != 5 {
		t.Errorf("ReadBits(3) = %d want 5", v)
	}
	if err := r.Finish(); err != nil {
		t.Errorf("Finish() = %v", err)
	}
}

func TestFramed(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, true, false, true}

	w := new(Writer)
	w.WriteFramed(bits)
	w.WriteFramed(nil)

	r := NewReader(w.Bytes())
	sub, err := r.ReadFramed()
	if err != nil {
		t.Fatal(err)
	}
	if sub.Len() != uint64(len(bits)) {
		t.Fatalf("framed length = %d want %d", sub.Len(), len(bits))
	}
	got, _ := sub.ReadBools(sub.Len())
	for i := range bits {
		if got[i] != bits[i] {
			t.Fatalf("bit %d = %v want %v", i, got[i], bits[i])
		}
	}
	empty, err := r.ReadFramed()
	if err != nil || empty.Len() != 0 {
		t.Fatalf("empty frame = %d bits, %v", empty.Len(), err)
	}
	if err := r.Finish(); err != nil {
		t.Errorf("Finish() = %v", err)
	}
}

func TestFramedTruncated(t *testing.T) {
	w := new(Writer)
	w.WriteBit(true)
	w.WriteNatural(40)
	w.WriteBits(0, 10)
	_, err := NewReader(w.Bytes()).ReadFramed()
	if errors.Root(err) != ErrEndOfStream {
		t.Errorf("ReadFramed() error = %v want %v", err, ErrEndOfStream)
	}
}

func TestFinishTrailing(t *testing.T) {
	r := NewReader([]byte{0x80, 0x00})
	r.ReadBit()
	if err := r.Finish(); errors.Root(err) != ErrTrailingBits {
		t.Errorf("Finish() with a full byte left = %v want %v", err, ErrTrailingBits)
	}

	r = NewReader([]byte{0x81})
	r.ReadBit()
	if err := r.Finish(); errors.Root(err) != ErrTrailingBits {
		t.Errorf("Finish() with nonzero padding = %v want %v", err, ErrTrailingBits)
	}
}

func bitString(b []byte, n uint64) string {
	r := NewReader(b)
	var s []byte
	for i := uint64(0); i < n; i++ {
		bit, _ := r.ReadBit()
		if bit {
			s = append(s, '1')
		} else {
			s = append(s, '0')
		}
	}
	return string(s)
}
