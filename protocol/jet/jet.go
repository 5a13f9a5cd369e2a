/*
Package jet holds the table of jets: native functions that stand in
for Simplicity expressions with a fixed signature.

A jet is identified on the wire by a small positive integer and in
commitments by its CMR. Its Exec function reads the jet's input from
a Reader positioned at the active read frame and writes the output to
a Writer positioned at the active write frame. The Bit Machine
guarantees the frames hold enough cells for the jet's signature
before calling Exec.
*/
package jet

import (
	"fmt"
	"sort"

	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol/merkle"
	"github.com/uncomputable/simplicity/protocol/types"
)

var (
	ErrUnknownJet   = errors.New("unknown jet")
	ErrDuplicateJet = errors.New("jet already registered")
	ErrInvalidJet   = errors.New("invalid jet definition")
	ErrJetFailed    = errors.New("jet failed")
)

// Reader gives a jet sequential access to its input.
// Reads never go past the jet's source type.
type Reader interface {
	ReadBit() bool
	// ReadUint reads n <= 64 bits as a big-endian integer.
	ReadUint(n int) uint64
	ReadBytes(n int) []byte
}

// Writer gives a jet sequential access to its output.
type Writer interface {
	WriteBit(bool)
	WriteUint(x uint64, n int)
	WriteBytes([]byte)
}

// Func is a jet's native implementation.
type Func func(in Reader, out Writer) error

// Jet describes one native function.
type Jet struct {
	ID     uint32
	Name   string
	CMR    merkle.Hash // merkle.JetCMR(Name) if left zero at registration
	Source *types.Type
	Target *types.Type
	Exec   Func
}

func (j *Jet) String() string {
	return fmt.Sprintf("%s: %s → %s", j.Name, j.Source, j.Target)
}

// Eval runs j over the cells in, which must be exactly as long
// as j's source type, and returns the cells of its output.
func (j *Jet) Eval(in []bool) ([]bool, error) {
	if uint64(len(in)) != uint64(j.Source.BitWidth()) {
		return nil, errors.WithDetailf(ErrJetFailed, "%s given %d input bits, want %d", j.Name, len(in), j.Source.BitWidth())
	}
	out := make([]bool, j.Target.BitWidth())
	r := &cellReader{cells: in}
	w := &cellWriter{cells: out}
	if err := j.Exec(r, w); err != nil {
		return nil, errors.WithDetailf(err, "jet %s", j.Name)
	}
	if w.pos != len(out) {
		return nil, errors.WithDetailf(ErrInvalidJet, "%s wrote %d of %d output bits", j.Name, w.pos, len(out))
	}
	return out, nil
}

// Table maps wire identifiers and commitment roots to jets.
// A Table is not safe for concurrent registration, but lookups
// on a Table that is no longer being modified are.
type Table struct {
	byID   map[uint32]*Jet
	byCMR  map[merkle.Hash]*Jet
	byName map[string]*Jet
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		byID:   make(map[uint32]*Jet),
		byCMR:  make(map[merkle.Hash]*Jet),
		byName: make(map[string]*Jet),
	}
}

// Register adds j to the table.
func (t *Table) Register(j *Jet) error {
	switch {
	case j.ID == 0:
		return errors.WithDetailf(ErrInvalidJet, "%s has id 0", j.Name)
	case j.Name == "":
		return errors.WithDetailf(ErrInvalidJet, "jet %d has no name", j.ID)
	case j.Source == nil || j.Target == nil:
		return errors.WithDetailf(ErrInvalidJet, "%s has no signature", j.Name)
	case j.Exec == nil:
		return errors.WithDetailf(ErrInvalidJet, "%s has no implementation", j.Name)
	}
	if j.CMR.IsZero() {
		j.CMR = merkle.JetCMR(j.Name)
	}
	if prev, ok := t.byID[j.ID]; ok {
		return errors.WithDetailf(ErrDuplicateJet, "id %d is %s", j.ID, prev.Name)
	}
	if prev, ok := t.byCMR[j.CMR]; ok {
		return errors.WithDetailf(ErrDuplicateJet, "cmr %s is %s", j.CMR, prev.Name)
	}
	if prev, ok := t.byName[j.Name]; ok {
		return errors.WithDetailf(ErrDuplicateJet, "name %s has id %d", j.Name, prev.ID)
	}
	t.byID[j.ID] = j
	t.byCMR[j.CMR] = j
	t.byName[j.Name] = j
	return nil
}

// ByID returns the jet with wire identifier id.
func (t *Table) ByID(id uint32) (*Jet, error) {
	j, ok := t.byID[id]
	if !ok {
		return nil, errors.WithDetailf(ErrUnknownJet, "id %d", id)
	}
	return j, nil
}

// ByCMR returns the jet whose commitment root is h, if any.
func (t *Table) ByCMR(h merkle.Hash) (*Jet, bool) {
	j, ok := t.byCMR[h]
	return j, ok
}

// ByName returns the jet named name, if any.
func (t *Table) ByName(name string) (*Jet, bool) {
	j, ok := t.byName[name]
	return j, ok
}

// Jets returns every registered jet, ordered by id.
func (t *Table) Jets() []*Jet {
	jets := make([]*Jet, 0, len(t.byID))
	for _, j := range t.byID {
		jets = append(jets, j)
	}
	sort.Slice(jets, func(a, b int) bool { return jets[a].ID < jets[b].ID })
	return jets
}

type cellReader struct {
	cells []bool
	pos   int
}

func (r *cellReader) ReadBit() bool {
	b := r.cells[r.pos]
	r.pos++
	return b
}

func (r *cellReader) ReadUint(n int) uint64 {
	var x uint64
	for i := 0; i < n; i++ {
		x <<= 1
		if r.ReadBit() {
			x |= 1
		}
	}
	return x
}

func (r *cellReader) ReadBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.ReadUint(8))
	}
	return b
}

type cellWriter struct {
	cells []bool
	pos   int
}

func (w *cellWriter) WriteBit(b bool) {
	w.cells[w.pos] = b
	w.pos++
}

func (w *cellWriter) WriteUint(x uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(x&(1<<uint(i)) != 0)
	}
}

func (w *cellWriter) WriteBytes(b []byte) {
	for _, c := range b {
		w.WriteUint(uint64(c), 8)
	}
}
