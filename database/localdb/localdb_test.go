package localdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uncomputable/simplicity/protocol"
	"github.com/uncomputable/simplicity/protocol/merkle"
	"github.com/uncomputable/simplicity/protocol/program"
	"github.com/uncomputable/simplicity/testutil"
)

func TestRestartDB(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "programs.db")

	db1, err := Open(path)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	cmr := merkle.CommitmentIV("unit")
	if err := db1.SaveProgram(ctx, cmr, []byte{0x24}); err != nil {
		testutil.FatalErr(t, err)
	}
	db1.Close()
	db1.Close() // closing twice is harmless

	// Re-open the database and verify that the write is still there.
	db2, err := Open(path)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	defer db2.Close()

	got, err := db2.GetProgram(ctx, cmr)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if !testutil.DeepEqual(got, []byte{0x24}) {
		t.Errorf("GetProgram = %x want 24", got)
	}

	cmrs, err := db2.CMRs(ctx)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if !testutil.DeepEqual(cmrs, []merkle.Hash{cmr}) {
		t.Errorf("CMRs = %v", cmrs)
	}

	testutil.ExpectError(t, protocol.ErrNotFound, "GetProgram(missing)", func() error {
		_, err := db2.GetProgram(ctx, merkle.Hash{})
		return err
	})
}

func TestVerifierStore(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "programs.db"))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	defer db.Close()

	v := protocol.NewVerifier(protocol.Config{}, db)
	b := program.NewBuilder()
	p, err := b.Build(b.Comp(b.Pair(b.Iden(), b.Iden()), b.Take(b.Unit())))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if _, err := v.Verify(ctx, program.Encode(p, nil)); err != nil {
		testutil.FatalErr(t, err)
	}

	typed, err := v.Load(ctx, p.CMR())
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if typed.CMR() != p.CMR() {
		t.Errorf("loaded CMR %s want %s", typed.CMR(), p.CMR())
	}
}
