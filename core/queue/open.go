package queue

import (
	"context"
	"fmt"

	"ads-reconciler/core/storage"

	"gorm.io/gorm"
)

// Backends carries the connections a backend may need. Only the one the
// configured backend uses must be set.
type Backends struct {
	DB      *gorm.DB
	Storage storage.Client
	Bucket  string
}

// Open builds the Store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config, b Backends) (Store, error) {
	switch cfg.Backend {
	case BackendFS, "":
		store, err := NewFileStore(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendDB:
		if b.DB == nil {
			return nil, fmt.Errorf("queue backend %q requires a database connection", cfg.Backend)
		}
		return NewDBStore(b.DB), nil
	case BackendObject:
		if b.Storage == nil {
			return nil, fmt.Errorf("queue backend %q requires a storage client", cfg.Backend)
		}
		store, err := NewObjectStore(ctx, b.Storage, b.Bucket, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.Backend)
	}
}
