package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
	"github.com/vybium/vybium-chains/internal/vybium-chains/database"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Key layout:
//
//	meta/<id>              Meta
//	run/<id>/v/<value>     [][]core.AddShift, every minimal chain of value
//
// Values are zero-padded hex so a prefix scan returns them in order. The
// meta key is written last; a run without one is incomplete and ignored.
const (
	metaPrefix = "meta/"
	runPrefix  = "run/"
)

func metaKey(id string) []byte     { return []byte(metaPrefix + id) }
func valuePrefix(id string) []byte { return []byte(runPrefix + id + "/v/") }
func valueKey(id string, v int64) []byte {
	return []byte(fmt.Sprintf("%s%s/v/%016x", runPrefix, id, v))
}

// Meta describes a stored search.
type Meta struct {
	ID          string    `yaml:"id"`
	CreatedAt   time.Time `yaml:"created_at"`
	MaxBitWidth int       `yaml:"max_bit_width"`
	Rounds      int       `yaml:"rounds"`
	Values      int       `yaml:"values"`
	Chains      int       `yaml:"chains"`
}

// Store keeps searches in BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens a store.
func Open(cfg Config) (*Store, error) {
	db, err := openBadger(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the store
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes db under meta.ID, or a fresh run id when it is empty, and
// returns the completed meta. An existing run with the same id is replaced.
// MaxBitWidth and Rounds are taken from meta; the counts are filled in.
func (s *Store) Save(ctx context.Context, meta Meta, db *database.Database) (Meta, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	} else if err := s.Delete(meta.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return Meta{}, errors.Wrapf(err, "replacing run %s", meta.ID)
	}
	meta.Values, meta.Chains = 0, 0
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, e := range db.Entries() {
		if err := ctx.Err(); err != nil {
			return Meta{}, err
		}
		steps := make([][]core.AddShift, 0, len(e.Chains))
		for _, c := range e.Chains {
			p, err := c.Prescriptions()
			if err != nil {
				return Meta{}, errors.Wrapf(err, "value %d", e.Value)
			}
			steps = append(steps, p)
		}
		buf, err := yaml.Marshal(steps)
		if err != nil {
			return Meta{}, errors.Wrapf(err, "encoding value %d", e.Value)
		}
		if err := wb.Set(valueKey(meta.ID, e.Value), buf); err != nil {
			return Meta{}, errors.Wrapf(err, "writing value %d", e.Value)
		}
		meta.Values++
		meta.Chains += len(e.Chains)
	}

	buf, err := yaml.Marshal(meta)
	if err != nil {
		return Meta{}, errors.Wrap(err, "encoding meta")
	}
	if err := wb.Set(metaKey(meta.ID), buf); err != nil {
		return Meta{}, errors.Wrap(err, "writing meta")
	}
	if err := wb.Flush(); err != nil {
		return Meta{}, errors.Wrap(err, "flushing run")
	}
	return meta, nil
}

// Meta returns the metadata of run id.
func (s *Store) Meta(id string) (Meta, error) {
	var meta Meta
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.Wrap(ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return yaml.Unmarshal(val, &meta)
		})
	})
	return meta, err
}

// Load rebuilds the database of run id. Every chain is verified.
func (s *Store) Load(ctx context.Context, id string) (Meta, *database.Database, error) {
	meta, err := s.Meta(id)
	if err != nil {
		return Meta{}, nil, err
	}

	db := database.New()
	prefix := valuePrefix(id)
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: prefix})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var steps [][]core.AddShift
			if err := it.Item().Value(func(val []byte) error {
				return yaml.Unmarshal(val, &steps)
			}); err != nil {
				return errors.Wrapf(err, "decoding %s", it.Item().Key())
			}
			for _, p := range steps {
				c, err := core.FromPrescriptions(p)
				if err != nil {
					return errors.Wrapf(err, "rebuilding %s", it.Item().Key())
				}
				if c.Len() > 1 {
					db.Admit(c)
				}
			}
		}
		return nil
	})
	if err != nil {
		return Meta{}, nil, err
	}
	if db.Len() != meta.Values {
		return Meta{}, nil, errors.Errorf("run %s: loaded %d values, meta records %d", id, db.Len(), meta.Values)
	}
	return meta, db, nil
}

// Runs lists every complete run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Meta, error) {
	var runs []Meta
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 10, Prefix: []byte(metaPrefix)})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var m Meta
			if err := it.Item().Value(func(val []byte) error {
				return yaml.Unmarshal(val, &m)
			}); err != nil {
				return errors.Wrapf(err, "decoding %s", it.Item().Key())
			}
			runs = append(runs, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest(ctx context.Context) (Meta, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return Meta{}, err
	}
	if len(runs) == 0 {
		return Meta{}, ErrNotFound
	}
	return runs[len(runs)-1], nil
}

// Delete removes run id.
func (s *Store) Delete(id string) error {
	if _, err := s.Meta(id); err != nil {
		return err
	}

	keys := [][]byte{metaKey(id)}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: valuePrefix(id)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return errors.Wrapf(err, "deleting %s", k)
		}
	}
	return errors.Wrapf(wb.Flush(), "deleting run %s", id)
}
