// Package database maps every discovered odd value to the set of minimal
// chains found for it so far.
//
// The map is split into shards keyed by value; Admit holds exactly one shard
// lock for its whole check-and-insert, so concurrent extension workers can
// never admit a duplicate or a non-minimal chain for the same value.
package database

import (
	"sort"
	"sync"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
)

const shardCount = 64

// Admission is the outcome of offering a chain to the database.
type Admission int

const (
	// Admitted means the chain was stored
	Admitted Admission = iota

	// Duplicate means an identical value sequence is already stored
	Duplicate

	// Longer means the value is already stored with chains of another
	// length; within a round that length is never greater
	Longer

	// Rejected means the chain failed structural checks
	Rejected
)

// String returns the label used in logs and metrics
func (a Admission) String() string {
	switch a {
	case Admitted:
		return "admitted"
	case Duplicate:
		return "duplicate"
	case Longer:
		return "longer"
	default:
		return "rejected"
	}
}

// Entry is a snapshot of the chains stored for one value.
type Entry struct {
	Value  int64
	Length int
	Chains []core.Chain
}

type record struct {
	length int
	chains []core.Chain
	prints map[[32]byte]struct{}
}

type shard struct {
	mu      sync.RWMutex
	records map[int64]*record
}

// Database is safe for concurrent use.
type Database struct {
	shards [shardCount]shard
}

// New returns a database seeded with the unit chain.
func New() *Database {
	db := newEmpty()
	db.Admit(core.NewChain())
	return db
}

func newEmpty() *Database {
	db := &Database{}
	for i := range db.shards {
		db.shards[i].records = make(map[int64]*record)
	}
	return db
}

func (db *Database) shardFor(v int64) *shard {
	return &db.shards[uint64(v)%shardCount]
}

// Admit stores c under the value of its last node if no chain is stored for
// that value yet, or if the stored chains have exactly c's length and none
// of them has c's value sequence.
func (db *Database) Admit(c core.Chain) Admission {
	last := c.Last()
	if last == nil || last.Value() <= 0 {
		return Rejected
	}
	v := last.Value()
	fp := c.Fingerprint()

	s := db.shardFor(v)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[v]
	if !ok {
		s.records[v] = &record{
			length: c.Len(),
			chains: []core.Chain{c},
			prints: map[[32]byte]struct{}{fp: {}},
		}
		return Admitted
	}
	if rec.length != c.Len() {
		return Longer
	}
	if _, dup := rec.prints[fp]; dup {
		return Duplicate
	}

	i := sort.Search(len(rec.chains), func(i int) bool {
		return rec.chains[i].Compare(c) >= 0
	})
	rec.chains = append(rec.chains, core.Chain{})
	copy(rec.chains[i+1:], rec.chains[i:])
	rec.chains[i] = c
	rec.prints[fp] = struct{}{}
	return Admitted
}

// Lookup returns the entry for v.
func (db *Database) Lookup(v int64) (Entry, bool) {
	s := db.shardFor(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[v]
	if !ok {
		return Entry{}, false
	}
	return rec.entry(v), true
}

// MinLength returns the minimal chain length recorded for v, or 0.
func (db *Database) MinLength(v int64) int {
	s := db.shardFor(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[v]; ok {
		return rec.length
	}
	return 0
}

// Len returns the number of distinct values.
func (db *Database) Len() int {
	n := 0
	for i := range db.shards {
		s := &db.shards[i]
		s.mu.RLock()
		n += len(s.records)
		s.mu.RUnlock()
	}
	return n
}

// ChainCount returns the total number of stored chains.
func (db *Database) ChainCount() int {
	n := 0
	for i := range db.shards {
		s := &db.shards[i]
		s.mu.RLock()
		for _, rec := range s.records {
			n += len(rec.chains)
		}
		s.mu.RUnlock()
	}
	return n
}

// Values returns every recorded value in ascending order.
func (db *Database) Values() []int64 {
	vals := make([]int64, 0, db.Len())
	for i := range db.shards {
		s := &db.shards[i]
		s.mu.RLock()
		for v := range s.records {
			vals = append(vals, v)
		}
		s.mu.RUnlock()
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	return vals
}

// Entries returns every entry in ascending order of value.
func (db *Database) Entries() []Entry {
	vals := db.Values()
	out := make([]Entry, 0, len(vals))
	for _, v := range vals {
		if e, ok := db.Lookup(v); ok {
			out = append(out, e)
		}
	}
	return out
}

func (r *record) entry(v int64) Entry {
	chains := make([]core.Chain, len(r.chains))
	copy(chains, r.chains)
	return Entry{Value: v, Length: r.length, Chains: chains}
}
