/*
Package protocol ties together decoding, type inference and
execution of Simplicity programs.

A Verifier takes a program in its canonical encoding, followed by
its witness, and checks everything a consensus-critical caller
needs: that the encoding is canonical, that the program has a
type, and that it runs to completion on the unit input while
consuming exactly its witness. Verified programs may be kept in
a Store, addressed by their commitment Merkle root.

A Verifier is safe for concurrent use. Each call owns its own
program, type solver and Bit Machine.
*/
package protocol

import (
	"context"
	"time"

	"github.com/golang/groupcache/singleflight"
	"golang.org/x/crypto/sha3"

	"github.com/uncomputable/simplicity/encoding/bitstream"
	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/log"
	"github.com/uncomputable/simplicity/metrics"
	"github.com/uncomputable/simplicity/protocol/bitmachine"
	"github.com/uncomputable/simplicity/protocol/jet"
	"github.com/uncomputable/simplicity/protocol/merkle"
	"github.com/uncomputable/simplicity/protocol/program"
	"github.com/uncomputable/simplicity/protocol/types"
)

var (
	// ErrNotProgram is returned for a verified program whose
	// source type is not unit; it cannot run on its own.
	ErrNotProgram = errors.New("program does not take the unit input")

	// ErrNotFound is returned by a Store that has no program
	// with the requested commitment root.
	ErrNotFound = errors.New("program not found")

	// ErrCMRMismatch is returned when a stored program does not
	// have the commitment root it is filed under.
	ErrCMRMismatch = errors.New("stored program has the wrong commitment root")
)

// Store persists the encodings of verified programs,
// without their witnesses.
type Store interface {
	SaveProgram(ctx context.Context, cmr merkle.Hash, encoded []byte) error
	GetProgram(ctx context.Context, cmr merkle.Hash) ([]byte, error)
}

// Config holds the limits a Verifier enforces.
type Config struct {
	MaxNodes  int        // node ceiling for decoding; 0 means program.DefaultMaxNodes
	CellLimit int        // Bit Machine memory bound; 0 means unbounded
	CacheSize int        // verification results to remember; 0 means defaultCacheSize
	Jets      *jet.Table // nil means the core jets

	// TraceNode, if set, is called before the Bit Machine
	// executes each node.
	TraceNode func(i int, n program.Node)
}

// Verifier decodes, type checks and runs programs.
type Verifier struct {
	cfg   Config
	dec   *program.Config
	cache *verifiedCache
	store Store

	// in-flight verifications, keyed like cache
	flight singleflight.Group
}

// Verified is the outcome of a successful verification.
type Verified struct {
	Program  *program.Typed
	Output   types.Value
	MaxCells int
}

// CMR returns the commitment Merkle root of the verified program.
func (v *Verified) CMR() merkle.Hash {
	return v.Program.CMR()
}

// NewVerifier returns a Verifier with the given limits.
// If store is not nil, programs are saved to it once verified.
func NewVerifier(cfg Config, store Store) *Verifier {
	return &Verifier{
		cfg:   cfg,
		dec:   &program.Config{MaxNodes: cfg.MaxNodes, Jets: cfg.Jets},
		cache: newVerifiedCache(cfg.CacheSize),
		store: store,
	}
}

// Typecheck decodes a program and its witness from b
// and infers its types, without running it.
func (v *Verifier) Typecheck(ctx context.Context, b []byte) (*program.Typed, *bitstream.Reader, error) {
	p, wit, err := program.Decode(b, v.dec)
	if err != nil {
		return nil, nil, v.fail(ctx, "decoding", err)
	}
	metrics.Decoded(p.Len())
	ctx = log.AddPrefixkv(ctx, "cmr", p.CMR())

	typed, err := program.Infer(p)
	if err != nil {
		return nil, nil, v.fail(ctx, "inferring types", err)
	}
	return typed, wit, nil
}

// Verify decodes the program and witness in b, infers the
// program's types and runs it on the unit input. Results,
// including failures, are cached by the hash of b.
// Concurrent calls with the same b share one verification.
func (v *Verifier) Verify(ctx context.Context, b []byte) (*Verified, error) {
	defer metrics.RecordElapsed(time.Now())

	key := merkle.Hash(sha3.Sum256(b))
	if res, err, ok := v.cache.lookup(key); ok {
		metrics.CacheHit()
		return res, err
	}
	val, err := v.flight.Do(string(key[:]), func() (interface{}, error) {
		res, err := v.verify(ctx, b)
		if err == nil || errors.Root(err) != context.Canceled && errors.Root(err) != context.DeadlineExceeded {
			v.cache.add(key, res, err)
		}
		return res, err
	})
	res, _ := val.(*Verified)
	return res, err
}

func (v *Verifier) verify(ctx context.Context, b []byte) (*Verified, error) {
	typed, wit, err := v.Typecheck(ctx, b)
	if err != nil {
		return nil, err
	}
	ctx = log.AddPrefixkv(ctx, "cmr", typed.CMR())

	if src, _ := typed.Type(); !src.Equal(types.Unit()) {
		return nil, v.fail(ctx, "checking type", errors.WithDetailf(ErrNotProgram, "source type %s", src))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts []bitmachine.Option
	if v.cfg.CellLimit > 0 {
		opts = append(opts, bitmachine.CellLimit(v.cfg.CellLimit))
	}
	if v.cfg.TraceNode != nil {
		opts = append(opts, bitmachine.TraceNode(v.cfg.TraceNode))
	}
	res, err := bitmachine.Exec(typed, types.UnitValue(), wit, opts...)
	if err != nil {
		return nil, v.fail(ctx, "executing", err)
	}
	metrics.Verified(res.MaxCells)
	log.Write(ctx, log.KeyMessage, "verified", "nodes", typed.Len(), "cells", res.MaxCells)

	if v.store != nil {
		w := new(bitstream.Writer)
		program.EncodeProgram(typed.Program, w)
		if err := v.store.SaveProgram(ctx, typed.CMR(), w.Bytes()); err != nil {
			return nil, errors.Wrap(err, "saving program")
		}
	}
	return &Verified{Program: typed, Output: res.Output, MaxCells: res.MaxCells}, nil
}

// Load fetches the program filed under cmr from the Store
// and infers its types.
func (v *Verifier) Load(ctx context.Context, cmr merkle.Hash) (*program.Typed, error) {
	if v.store == nil {
		return nil, errors.WithDetail(ErrNotFound, "no store")
	}
	b, err := v.store.GetProgram(ctx, cmr)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", cmr)
	}
	p, err := program.DecodeProgram(bitstream.NewReader(b), v.dec)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding stored %s", cmr)
	}
	if p.CMR() != cmr {
		return nil, errors.WithDetailf(ErrCMRMismatch, "want %s, got %s", cmr, p.CMR())
	}
	return program.Infer(p)
}

// fail records err, which happened while doing what, and
// returns it wrapped.
func (v *Verifier) fail(ctx context.Context, what string, err error) error {
	cat := Category(err)
	metrics.Failed(cat)
	err = errors.Wrap(err, what)
	log.Write(ctx, "category", cat, log.KeyError, err)
	return err
}
