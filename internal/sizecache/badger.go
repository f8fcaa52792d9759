package sizecache

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rs/zerolog"
)

// keyPrefix namespaces size records inside the database.
const keyPrefix = "size:"

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Dir is the directory BadgerDB keeps its files in. It is created if missing.
	Dir string
	// BlockCacheSizeMB is BadgerDB's block cache size in MB (default: 64).
	BlockCacheSizeMB int64
	// IndexCacheSizeMB is BadgerDB's index cache size in MB (default: 32).
	IndexCacheSizeMB int64
	// InMemory keeps all data in memory and ignores Dir.
	InMemory bool
	// Logger receives BadgerDB's own log output.
	Logger zerolog.Logger
}

// BadgerStore is a Store persisted with BadgerDB.
//
// BadgerDB serializes conflicting transactions itself, so the store adds no
// locking of its own. Open it once per process and Close it on shutdown.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens, or creates, a BadgerStore.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	blockCacheMB := cfg.BlockCacheSizeMB
	if blockCacheMB == 0 {
		blockCacheMB = 64
	}

	indexCacheMB := cfg.IndexCacheSizeMB
	if indexCacheMB == 0 {
		indexCacheMB = 32
	}

	// Records are 17 bytes, compression is not worth it.
	opts = opts.
		WithCompression(options.None).
		WithBlockCacheSize(blockCacheMB << 20).
		WithIndexCacheSize(indexCacheMB << 20).
		WithLogger(badgerLogger{
			log: cfg.Logger.Level(zerolog.WarnLevel).With().Str("component", "badger").Logger(),
		})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening size cache at %q: %w", cfg.Dir, err)
	}

	return &BadgerStore{db: db}, nil
}

// Get implements Store.
func (s *BadgerStore) Get(key string) (Record, bool, error) {
	var (
		record Record
		found  bool
	)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			r, err := decodeRecord(val)
			if err != nil {
				return err
			}

			record, found = r, true

			return nil
		})
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("reading size cache record %q: %w", key, err)
	}

	return record, found, nil
}

// Put implements Store.
func (s *BadgerStore) Put(key string, record Record) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), encodeRecord(record))
	})
	if err != nil {
		return fmt.Errorf("writing size cache record %q: %w", key, err)
	}

	return nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger forwards BadgerDB's log output to zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}
