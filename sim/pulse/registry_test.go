package pulse

import (
	"slices"
	"testing"
)

func TestRegistry_Append_AssignsSeqAndStampsTime(t *testing.T) {
	// GIVEN a registry whose clock reads 250
	now := int64(250)
	r := NewRegistry(func() int64 { return now })

	// WHEN one record carries a timestamp and one does not
	r.Append(Record{Color: "grey", CreatedAt: 100})
	r.Record(Position{X: 10, Y: 20}, "green")

	// THEN sequence numbers follow append order and the blank time is stamped
	if r.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", r.Len())
	}
	if got := r.At(0); got.Seq != 0 || got.CreatedAt != 100 {
		t.Errorf("record 0: got seq=%d created=%d, want 0/100", got.Seq, got.CreatedAt)
	}
	if got := r.At(1); got.Seq != 1 || got.CreatedAt != 250 || got.Position.X != 10 {
		t.Errorf("record 1: got %+v", got)
	}
}

func TestRegistry_Append_KeepsZeroTimestamp(t *testing.T) {
	// GIVEN a registry whose clock has moved past 0
	r := NewRegistry(func() int64 { return 4000 })

	// WHEN a pulse created at t=0 is appended late
	r.Append(Record{Color: "lightgrey", Kind: KindSource, CreatedAt: 0})

	// THEN it keeps its original time
	if got := r.At(0).CreatedAt; got != 0 {
		t.Errorf("CreatedAt = %d, want 0", got)
	}
}

func TestRegistry_Snapshot_IsACopy(t *testing.T) {
	r := NewRegistry(nil)
	r.Append(Record{Color: "red"})

	snap := r.Snapshot()
	snap[0].Color = "blue"

	if r.At(0).Color != "red" {
		t.Error("mutating a snapshot changed the registry")
	}
}

func TestRegistry_Seal_RejectsWrites(t *testing.T) {
	// GIVEN a sealed registry holding one record
	r := NewRegistry(nil)
	r.Append(Record{Color: "red"})
	r.Seal()
	r.Seal()

	// WHEN more records are appended
	ok := r.Append(Record{Color: "blue"})
	r.Record(Position{}, "green")

	// THEN they are dropped and the existing prefix is untouched
	if ok {
		t.Error("Append on sealed registry returned true")
	}
	if r.Len() != 1 || r.At(0).Color != "red" {
		t.Errorf("sealed registry changed: %+v", r.Snapshot())
	}
	if !r.Sealed() {
		t.Error("Sealed() = false after Seal")
	}
}

func TestRegistry_Filter_ByPolicy(t *testing.T) {
	r := NewRegistry(nil)
	r.Append(Record{Policy: "merge", Kind: KindSource})
	r.Append(Record{Policy: "switch", Kind: KindSource})
	r.Append(Record{Policy: "merge", Kind: KindCompletion})

	var seqs []int
	for rec := range r.Filter("merge") {
		seqs = append(seqs, rec.Seq)
	}
	if !slices.Equal(seqs, []int{0, 2}) {
		t.Errorf("Filter(merge) seqs = %v, want [0 2]", seqs)
	}

	// Early break stops iteration
	n := 0
	for range r.All() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("All() did not honor break, yielded %d", n)
	}
}
