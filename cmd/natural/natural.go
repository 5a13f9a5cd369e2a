package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/uncomputable/simplicity/encoding/bitstream"
)

func main() {
	args := os.Args[1:]

	if len(args) == 0 {
		// decode from stdin
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			errorf("could not read from stdin: %s", err)
		}
		bits, err := parseBits(strings.TrimSpace(string(b)))
		if err != nil {
			errorf("%s", err)
		}
		r := bitstream.NewBitReader(bits)
		n, err := r.ReadNatural()
		if err != nil {
			errorf("could not parse natural: %s", err)
		}
		if r.Len() != 0 {
			errorf("%d bits left over", r.Len())
		}
		fmt.Println(n)
		return
	}

	// encode from args
	if len(args) != 1 {
		errorf("invalid argument count %d; natural must read from stdin or take 1 argument", len(args))
	}

	val, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || val == 0 {
		errorf("could not parse positive 32-bit number")
	}

	w := new(bitstream.Writer)
	w.WriteNatural(uint32(val))
	fmt.Println(formatBits(w.Bytes(), w.Len()))
}

func parseBits(s string) ([]bool, error) {
	bits := make([]bool, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			bits[i] = true
		default:
			return nil, fmt.Errorf("bad bit %q at %d", c, i)
		}
	}
	return bits, nil
}

func formatBits(b []byte, n uint64) string {
	var s strings.Builder
	for i := uint64(0); i < n; i++ {
		if b[i/8]&(0x80>>(i%8)) != 0 {
			s.WriteByte('1')
		} else {
			s.WriteByte('0')
		}
	}
	return s.String()
}

func errorf(msg string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(msg, args...))
	os.Exit(1)
}
