package metadata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const recordPrefix = "metadata:imdb:"

// BadgerStore keeps one badger entry per external key.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadgerStore opens or creates the badger directory at path.
func OpenBadgerStore(path string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("badger metadata cache opened", "path", path)
	}

	return &BadgerStore{db: db, logger: logger}, nil
}

// Load scans every record entry. Entries that fail to decode are skipped.
func (s *BadgerStore) Load(ctx context.Context) (map[string]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make(map[string]Record)
	prefix := []byte(recordPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(prefix):])

			var rec Record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("skipping undecodable cache entry", "key", key, "error", err)
				}
				continue
			}
			records[key] = rec
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load cached records: %w", err)
	}
	return records, nil
}

// Save writes rec under key.
func (s *BadgerStore) Save(ctx context.Context, key string, rec Record, _ map[string]Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(recordPrefix+key), data)
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
