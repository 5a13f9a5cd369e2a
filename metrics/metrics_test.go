package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func BenchmarkRecordElapsed(b *testing.B) {
	t := time.Now()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		RecordElapsed(t)
	}
}

func TestCounters(t *testing.T) {
	decode := failed.WithLabelValues("decode")
	before := testutil.ToFloat64(decode)
	Failed("decode")
	Failed("decode")
	if got := testutil.ToFloat64(decode); got != before+2 {
		t.Errorf("failed{decode} = %v want %v", got, before+2)
	}

	before = testutil.ToFloat64(decoded)
	Decoded(3)
	if got := testutil.ToFloat64(decoded); got != before+1 {
		t.Errorf("decoded = %v want %v", got, before+1)
	}

	before = testutil.ToFloat64(cacheHits)
	CacheHit()
	if got := testutil.ToFloat64(cacheHits); got != before+1 {
		t.Errorf("cache hits = %v want %v", got, before+1)
	}
}

func TestHistograms(t *testing.T) {
	if n := testutil.CollectAndCount(nodes); n != 1 {
		t.Fatalf("nodes collected %d series, want 1", n)
	}
	Verified(0)
	Verified(128)
	if n := testutil.CollectAndCount(cells); n != 1 {
		t.Errorf("cells collected %d series, want 1", n)
	}
}
