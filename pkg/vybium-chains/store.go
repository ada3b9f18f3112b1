package vybiumchains

import (
	"context"

	"github.com/vybium/vybium-chains/internal/vybium-chains/storage"
)

// OpenStore opens the run store at path
func OpenStore(path string) (*Store, error) {
	return OpenStoreWithConfig(storage.DefaultConfig(path))
}

// OpenStoreWithConfig opens a run store
func OpenStoreWithConfig(cfg StoreConfig) (*Store, error) {
	s, err := storage.Open(cfg)
	if err != nil {
		return nil, wrap(ErrStorage, "opening store", err)
	}
	return s, nil
}

// LoadRun loads run id from store; an empty id selects the latest run.
func LoadRun(ctx context.Context, store *Store, id string) (RunMeta, *Database, error) {
	if id == "" {
		latest, err := store.Latest(ctx)
		if err != nil {
			return RunMeta{}, nil, wrap(ErrStorage, "finding latest run", err)
		}
		id = latest.ID
	}
	meta, db, err := store.Load(ctx, id)
	if err != nil {
		return RunMeta{}, nil, wrap(ErrStorage, "loading run "+id, err)
	}
	return meta, db, nil
}
