// Package bitstream reads and writes the bit-oriented
// encodings used by Simplicity programs and witnesses.
//
// Bits are packed most significant bit first. A stream need not
// end on a byte boundary; the final byte is padded with zeros.
package bitstream

import (
	"math"

	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/math/checked"
)

var (
	ErrEndOfStream     = errors.New("bitstream ended early")
	ErrNaturalOverflow = errors.New("number exceeded 32 bits")
	ErrTrailingBits    = errors.New("unexpected bits after end of stream")
)

// Reader consumes bits sequentially from a byte slice.
// The zero value is an empty stream.
type Reader struct {
	buf []byte
	pos uint64 // next bit to read
	end uint64 // one past the last readable bit
}

// NewReader returns a Reader over all bits of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b, end: 8 * uint64(len(b))}
}

// NewBitReader returns a Reader over bits, one bit per element.
func NewBitReader(bits []bool) *Reader {
	w := new(Writer)
	for _, b := range bits {
		w.WriteBit(b)
	}
	return &Reader{buf: w.buf, end: w.n}
}

// Position returns the number of bits consumed so far.
func (r *Reader) Position() uint64 {
	if r == nil {
		return 0
	}
	return r.pos
}

// Len returns the number of bits remaining.
func (r *Reader) Len() uint64 {
	if r == nil {
		return 0
	}
	return r.end - r.pos
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	if r == nil || r.pos >= r.end {
		return false, ErrEndOfStream
	}
	b := r.buf[r.pos/8]&(0x80>>(r.pos%8)) != 0
	r.pos++
	return b, nil
}

// ReadBits reads n bits, n <= 64, as a big-endian unsigned number.
func (r *Reader) ReadBits(n uint) (uint64, error) {
	if n > 64 {
		return 0, errors.WithDetailf(ErrNaturalOverflow, "cannot read %d bits into a word", n)
	}
	if r.Len() < uint64(n) {
		return 0, errors.WithDetailf(ErrEndOfStream, "need %d bits, have %d", n, r.Len())
	}
	var v uint64
	for i := uint(0); i < n; i++ {
		b, _ := r.ReadBit()
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v, nil
}

// ReadBytes reads n whole bytes. The stream need not be
// byte-aligned.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.Len() < 8*uint64(n) {
		return nil, errors.WithDetailf(ErrEndOfStream, "need %d bytes, have %d bits", n, r.Len())
	}
	out := make([]byte, n)
	if r.pos%8 == 0 {
		copy(out, r.buf[r.pos/8:])
		r.pos += 8 * uint64(n)
		return out, nil
	}
	for i := range out {
		v, _ := r.ReadBits(8)
		out[i] = byte(v)
	}
	return out, nil
}

// ReadBools reads n bits, one per element.
func (r *Reader) ReadBools(n uint64) ([]bool, error) {
	if r.Len() < n {
		return nil, errors.WithDetailf(ErrEndOfStream, "need %d bits, have %d", n, r.Len())
	}
	out := make([]bool, n)
	for i := range out {
		out[i], _ = r.ReadBit()
	}
	return out, nil
}

// ReadNatural reads a positive integer in the recursive
// length-prefixed code written by WriteNatural.
// Values that do not fit in 32 bits fail with ErrNaturalOverflow.
func (r *Reader) ReadNatural() (uint32, error) {
	return r.readNatural(0)
}

func (r *Reader) readNatural(depth int) (uint32, error) {
	// Lengths of lengths shrink logarithmically; anything deeper
	// than this is already past 32 bits.
	if depth > 5 {
		return 0, ErrNaturalOverflow
	}
	b, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if !b {
		return 1, nil
	}
	k, err := r.readNatural(depth + 1)
	if err != nil {
		return 0, err
	}
	if k > 31 {
		return 0, errors.WithDetailf(ErrNaturalOverflow, "natural has %d significant bits", k+1)
	}
	low, err := r.ReadBits(uint(k))
	if err != nil {
		return 0, err
	}
	head, _ := checked.LshiftUint32(1, k)
	return head | uint32(low), nil
}

// Sub returns a Reader over the next n bits of r
// and advances r past them.
func (r *Reader) Sub(n uint64) (*Reader, error) {
	if r.Len() < n {
		return nil, errors.WithDetailf(ErrEndOfStream, "need %d bits, have %d", n, r.Len())
	}
	sub := &Reader{buf: r.buf, pos: r.pos, end: r.pos + n}
	r.pos += n
	return sub, nil
}

// Finish checks that only zero padding up to the next byte
// boundary remains in r.
func (r *Reader) Finish() error {
	if r.Len() >= 8 {
		return errors.WithDetailf(ErrTrailingBits, "%d bits left over", r.Len())
	}
	for r.Len() > 0 {
		if b, _ := r.ReadBit(); b {
			return errors.WithDetail(ErrTrailingBits, "nonzero padding")
		}
	}
	return nil
}

// ReadFramed reads a length-prefixed bit string:
// a 0 bit for the empty string, or a 1 bit,
// the natural-coded length, and that many bits.
// The declared length must be present in r.
func (r *Reader) ReadFramed() (*Reader, error) {
	b, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if !b {
		return new(Reader), nil
	}
	n, err := r.ReadNatural()
	if err != nil {
		return nil, err
	}
	return r.Sub(uint64(n))
}

// Writer accumulates bits into a byte slice.
// The zero value is an empty Writer ready to use.
type Writer struct {
	buf []byte
	n   uint64
}

// Len returns the number of bits written.
func (w *Writer) Len() uint64 {
	return w.n
}

// Bytes returns the bits written so far,
// zero-padded to a byte boundary.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteBit appends one bit.
func (w *Writer) WriteBit(b bool) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b {
		w.buf[w.n/8] |= 0x80 >> (w.n % 8)
	}
	w.n++
}

// WriteBits appends the low n bits of v, most significant first.
func (w *Writer) WriteBits(v uint64, n uint) {
	for i := n; i > 0; i-- {
		w.WriteBit(v&(1<<(i-1)) != 0)
	}
}

// WriteBytes appends whole bytes.
func (w *Writer) WriteBytes(b []byte) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, b...)
		w.n += 8 * uint64(len(b))
		return
	}
	for _, c := range b {
		w.WriteBits(uint64(c), 8)
	}
}

// WriteBools appends one bit per element.
func (w *Writer) WriteBools(bits []bool) {
	for _, b := range bits {
		w.WriteBit(b)
	}
}

// WriteNatural appends n >= 1 in the recursive length-prefixed code:
// 1 is a single 0 bit; otherwise a 1 bit, the code for k,
// and the k bits of n below its leading one, where 2^k <= n < 2^(k+1).
func (w *Writer) WriteNatural(n uint32) {
	if n == 0 {
		panic("bitstream: natural numbers start at 1")
	}
	if n == 1 {
		w.WriteBit(false)
		return
	}
	k := uint32(0)
	for v := n; v > 1; v >>= 1 {
		k++
	}
	w.WriteBit(true)
	w.WriteNatural(k)
	w.WriteBits(uint64(n)&(math.MaxUint64>>(64-k)), uint(k))
}

// WriteFramed appends bits in the framing read by ReadFramed.
func (w *Writer) WriteFramed(bits []bool) {
	if len(bits) == 0 {
		w.WriteBit(false)
		return
	}
	w.WriteBit(true)
	w.WriteNatural(uint32(len(bits)))
	w.WriteBools(bits)
}
