package bitmachine

import (
	"github.com/uncomputable/simplicity/errors"
)

// frame is a window onto the cell array with a cursor.
type frame struct {
	start, size, cursor int
}

func (m *machine) readFrame() *frame  { return &m.read[len(m.read)-1] }
func (m *machine) writeFrame() *frame { return &m.write[len(m.write)-1] }

// newFrame pushes a write frame of n cells.
func (m *machine) newFrame(n int) error {
	start := len(m.cells)
	if m.cellLimit > 0 && start+n > m.cellLimit {
		return errors.WithDetailf(ErrCellLimit, "need %d cells, limit %d", start+n, m.cellLimit)
	}
	m.cells = append(m.cells, make([]bool, n)...)
	if len(m.cells) > m.maxCells {
		m.maxCells = len(m.cells)
	}
	m.write = append(m.write, frame{start: start, size: n})
	return nil
}

// moveFrame turns the active write frame into the
// active read frame, rewinding its cursor.
func (m *machine) moveFrame() {
	f := m.write[len(m.write)-1]
	m.write = m.write[:len(m.write)-1]
	f.cursor = 0
	m.read = append(m.read, f)
}

// dropFrame pops the active read frame and releases
// any cells above the highest live frame.
func (m *machine) dropFrame() {
	m.read = m.read[:len(m.read)-1]
	end := 0
	for _, stack := range [][]frame{m.read, m.write} {
		for _, f := range stack {
			if e := f.start + f.size; e > end {
				end = e
			}
		}
	}
	m.cells = m.cells[:end]
}

func (m *machine) writeBit(b bool) {
	f := m.writeFrame()
	m.cells[f.start+f.cursor] = b
	f.cursor++
}

func (m *machine) writeBits(bits []bool) {
	f := m.writeFrame()
	copy(m.cells[f.start+f.cursor:f.start+f.size], bits)
	f.cursor += len(bits)
}

func (m *machine) skip(n int) {
	m.writeFrame().cursor += n
}

// copyBits copies n cells from the read cursor to the write cursor,
// advancing only the write cursor.
func (m *machine) copyBits(n int) {
	m.writeBits(m.peek(n))
}

// peek returns the n cells at the read cursor.
func (m *machine) peek(n int) []bool {
	r := m.readFrame()
	return m.cells[r.start+r.cursor : r.start+r.cursor+n]
}

func (m *machine) readBit() bool {
	r := m.readFrame()
	return m.cells[r.start+r.cursor]
}

func (m *machine) fwd(n int) { m.readFrame().cursor += n }
func (m *machine) bwd(n int) { m.readFrame().cursor -= n }
