// Command simplasm assembles and disassembles Simplicity programs.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/uncomputable/simplicity/protocol/program"
)

const help = `Usage: simplasm [-d] [-w bits] [-x] <input

Command simplasm reads a program in text form from stdin and
writes its canonical encoding, followed by a witness, to stdout.
The encoding is written as hex if stdout is a terminal or -x
is given, and as raw bytes otherwise.

With -d, it reads an encoded program instead (hex if stdin is
a terminal or -x is given) and prints its text form.

Example:

	echo 'comp (pair iden iden) (case (injr unit) (injl unit))' | simplasm -x

Flags:
`

var (
	flagD = flag.Bool("d", false, "disassemble")
	flagW = flag.String("w", "", "witness, as a string of 0 and 1")
	flagX = flag.Bool("x", false, "hex input or output")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatalf(2, "reading stdin: %s", err)
	}

	if *flagD {
		if *flagX || isTerminal(os.Stdin) {
			in, err = hex.DecodeString(strings.TrimSpace(string(in)))
			if err != nil {
				fatalf(2, "decoding hex: %s", err)
			}
		}
		p, wit, err := program.Decode(in, nil)
		if err != nil {
			fatalf(1, "%s", err)
		}
		fmt.Print(program.Disassemble(p))
		if n := wit.Len(); n > 0 {
			bits, _ := wit.ReadBools(n)
			fmt.Printf("# witness %s\n", formatBits(bits))
		}
		return
	}

	witness, err := parseBits(*flagW)
	if err != nil {
		fatalf(2, "%s", err)
	}
	p, err := program.Assemble(string(in), nil)
	if err != nil {
		fatalf(1, "%s", err)
	}
	out := program.Encode(p, witness)
	if *flagX || isTerminal(os.Stdout) {
		fmt.Println(hex.EncodeToString(out))
		return
	}
	os.Stdout.Write(out)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func parseBits(s string) ([]bool, error) {
	bits := make([]bool, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			bits[i] = true
		default:
			return nil, fmt.Errorf("bad witness bit %q at %d", c, i)
		}
	}
	return bits, nil
}

func formatBits(bits []bool) string {
	b := make([]byte, len(bits))
	for i, v := range bits {
		b[i] = '0'
		if v {
			b[i] = '1'
		}
	}
	return string(b)
}

func fatalf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "simplasm: "+format+"\n", args...)
	os.Exit(code)
}
