package pulse

import (
	"iter"

	"github.com/sirupsen/logrus"
)

// Registry is an append-only log of pulses. Entries are never removed or
// mutated once written. After Seal, writes are ignored.
type Registry struct {
	records []Record
	now     func() int64
	sealed  bool
}

// NewRegistry creates an empty registry. now stamps the records written by
// Record; nil stamps 0.
func NewRegistry(now func() int64) *Registry {
	if now == nil {
		now = func() int64 { return 0 }
	}
	return &Registry{
		records: make([]Record, 0),
		now:     now,
	}
}

// Record appends an untagged pulse at the current time.
func (r *Registry) Record(pos Position, color string) {
	r.Append(Record{Position: pos, Color: color, CreatedAt: r.now()})
}

// Append appends rec as given, assigning only its sequence number. A zero
// CreatedAt is a real timestamp (t=0), not a missing one. Returns false if the
// registry is sealed.
func (r *Registry) Append(rec Record) bool {
	if r.sealed {
		logrus.Debugf("pulse registry sealed, dropping %s pulse (%s)", rec.Kind, rec.Color)
		return false
	}
	rec.Seq = len(r.records)
	r.records = append(r.records, rec)
	return true
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.records)
}

// At returns the i-th record.
func (r *Registry) At(i int) Record {
	return r.records[i]
}

// Snapshot returns a copy of all records in append order.
func (r *Registry) Snapshot() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// All iterates the records present when iteration starts, in append order.
func (r *Registry) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range r.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// Filter iterates the records with the given policy tag.
func (r *Registry) Filter(policy string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for rec := range r.All() {
			if rec.Policy == policy && !yield(rec) {
				return
			}
		}
	}
}

// Seal stops the registry from accepting writes. Idempotent.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether the registry accepts writes.
func (r *Registry) Sealed() bool {
	return r.sealed
}
