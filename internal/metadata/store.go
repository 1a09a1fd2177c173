package metadata

import (
	"context"
	"fmt"
	"log/slog"
)

// Store persists cache records.
type Store interface {
	// Load returns every persisted record.
	Load(ctx context.Context) (map[string]Record, error)
	// Save persists rec under key. all is the full cache including rec, for
	// backends that rewrite everything on each change.
	Save(ctx context.Context, key string, rec Record, all map[string]Record) error
	Close() error
}

// Backend names.
const (
	BackendJSON   = "json"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// OpenStore opens the named backend at path.
func OpenStore(backend, path string, logger *slog.Logger) (Store, error) {
	switch backend {
	case "", BackendJSON:
		return NewFileStore(path), nil
	case BackendBadger:
		return OpenBadgerStore(path, logger)
	case BackendSQLite:
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
