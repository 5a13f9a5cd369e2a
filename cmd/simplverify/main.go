// Command simplverify verifies a Simplicity program.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uncomputable/simplicity/database/localdb"
	"github.com/uncomputable/simplicity/env"
	"github.com/uncomputable/simplicity/log"
	"github.com/uncomputable/simplicity/protocol"
	"github.com/uncomputable/simplicity/protocol/program"
)

const help = `Usage: simplverify [-t] [-x] [-c] <program

Command simplverify reads a program, in its canonical encoding
followed by its witness, from stdin. It decodes the program,
infers its types and runs it on the unit input. If the program
is valid, it prints its commitment Merkle root and output value
to stdout.

To verify a hex-encoded program from the pasteboard:

	pbpaste|simplverify -x

Exit code 0 indicates success.
Exit code 1 indicates an invalid program.
Exit code 2 indicates a usage or I/O error.

Environment:

	SIMPLICITY_MAX_NODES   node ceiling (default 1048576)
	SIMPLICITY_CELL_LIMIT  Bit Machine cell limit (default none)
	SIMPLICITY_CACHE_SIZE  verification results to remember (default 1000)
	SIMPLICITY_DB          bbolt file to save verified programs in
	SIMPLICITY_TRACE       trace execution, as with -t (default false)
	SIMPLICITY_TIMEOUT     give up after this long, e.g. 5s (default none)

Flags:
`

var (
	flagT = flag.Bool("t", false, "print execution trace to stderr")
	flagX = flag.Bool("x", false, "read hex instead of raw bytes")
	flagC = flag.Bool("c", false, "only type check; do not run")

	vars      = env.NewSet("SIMPLICITY_")
	maxNodes  = vars.Int("MAX_NODES", program.DefaultMaxNodes)
	cellLimit = vars.Int("CELL_LIMIT", 0)
	cacheSize = vars.Int("CACHE_SIZE", 0)
	dbPath    = vars.String("DB", "")
	traceEnv  = vars.Bool("TRACE", false)
	timeout   = vars.Duration("TIMEOUT", 0)
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetPrefix("app", "simplverify")

	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	if err := vars.Parse(); err != nil {
		log.Error(ctx, err)
		os.Exit(2)
	}
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Error(ctx, err, "reading stdin")
		os.Exit(2)
	}
	if *flagX {
		data, err = hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			log.Error(ctx, err, "decoding hex")
			os.Exit(2)
		}
	}

	var store protocol.Store
	if *dbPath != "" {
		db, err := localdb.Open(*dbPath)
		if err != nil {
			log.Error(ctx, err)
			os.Exit(2)
		}
		defer db.Close()
		store = db
	}

	cfg := protocol.Config{
		MaxNodes:  *maxNodes,
		CellLimit: *cellLimit,
		CacheSize: *cacheSize,
	}
	if *flagT || *traceEnv {
		cfg.TraceNode = trace
	}
	v := protocol.NewVerifier(cfg, store)

	if *flagC {
		typed, _, err := v.Typecheck(ctx, data)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid program:", err)
			os.Exit(1)
		}
		src, tgt := typed.Type()
		fmt.Printf("%s\t%s → %s\n", typed.CMR(), src, tgt)
		return
	}

	res, err := v.Verify(ctx, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid program (%s): %s\n", protocol.Category(err), err)
		os.Exit(1)
	}
	if store != nil {
		log.Messagef(ctx, "saved %s to %s", res.CMR(), *dbPath)
	}
	fmt.Printf("%s\t%s\n", res.CMR(), res.Output)
}

func trace(i int, n program.Node) {
	fmt.Fprintf(os.Stderr, "%d\t%s\n", i, n)
}
