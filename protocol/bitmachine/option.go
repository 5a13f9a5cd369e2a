package bitmachine

import "github.com/uncomputable/simplicity/protocol/program"

type Option func(*machine)

// TraceNode calls f before each node is executed.
func TraceNode(f func(i int, n program.Node)) Option {
	return func(m *machine) {
		m.traceNode = f
	}
}

// CellLimit bounds the number of cells the machine may hold
// at once. Exceeding it fails execution with ErrCellLimit.
func CellLimit(n int) Option {
	return func(m *machine) {
		m.cellLimit = n
	}
}
