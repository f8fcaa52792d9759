package sizecache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // Fixed clock for deterministic records
var epoch = time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

func openTestBadger(t *testing.T, dir string) *BadgerStore {
	t.Helper()

	store, err := OpenBadger(BadgerConfig{Dir: dir, Logger: zerolog.Nop()})
	require.NoError(t, err)

	return store
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()

	_, ok, err := store.Get("/missing")
	require.NoError(t, err)
	assert.False(t, ok)

	want := Record{Size: 1 << 40, LastModified: epoch}
	require.NoError(t, store.Put("/data", want))

	got, ok, err := store.Get("/data")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Size, got.Size)
	assert.True(t, want.LastModified.Equal(got.LastModified), "nanosecond precision is kept")

	require.NoError(t, store.Put("/data", Record{Size: 1, LastModified: epoch.Add(time.Second)}))

	got, _, err = store.Get("/data")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Size, "put overwrites")
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestBadgerStore(t *testing.T) {
	store := openTestBadger(t, t.TempDir())
	defer store.Close()

	storeContract(t, store)
}

func TestBadgerStore_InMemory(t *testing.T) {
	store, err := OpenBadger(BadgerConfig{InMemory: true, Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer store.Close()

	storeContract(t, store)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store := openTestBadger(t, dir)
	require.NoError(t, store.Put("/persisted", Record{Size: 42, LastModified: epoch}))
	require.NoError(t, store.Close())

	store = openTestBadger(t, dir)
	defer store.Close()

	got, ok, err := store.Get("/persisted")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), got.Size)
}

func TestBadgerStore_CorruptRecord(t *testing.T) {
	store := openTestBadger(t, t.TempDir())
	defer store.Close()

	require.NoError(t, store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+"/bad"), []byte("not a record"))
	}))

	_, ok, err := store.Get("/bad")
	require.ErrorIs(t, err, ErrCorruptRecord)
	assert.False(t, ok)
}

func TestDecodeRecord_RejectsMalformedValues(t *testing.T) {
	valid := encodeRecord(Record{Size: 9, LastModified: epoch})

	wrongVersion := append([]byte(nil), valid...)
	wrongVersion[0] = recordVersion + 1

	for name, raw := range map[string][]byte{
		"empty":         nil,
		"truncated":     valid[:recordLen-1],
		"trailing":      append(append([]byte(nil), valid...), 0),
		"wrong version": wrongVersion,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeRecord(raw)
			require.ErrorIs(t, err, ErrCorruptRecord)
		})
	}
}

func TestRecord_FreshFor(t *testing.T) {
	record := Record{Size: 1, LastModified: epoch}

	assert.True(t, record.FreshFor(epoch))
	assert.True(t, record.FreshFor(epoch.Add(-time.Second)))
	assert.False(t, record.FreshFor(epoch.Add(time.Nanosecond)))
}

func TestBadgerStore_ConcurrentAccess(t *testing.T) {
	store := openTestBadger(t, t.TempDir())
	defer store.Close()

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 50 {
				key := fmt.Sprintf("/dir/%d", i%10)

				assert.NoError(t, store.Put(key, Record{Size: uint64(worker), LastModified: epoch}))

				_, ok, err := store.Get(key)
				assert.NoError(t, err)
				assert.True(t, ok)
			}
		}()
	}

	wg.Wait()
}

func TestInstrumented_PassesThrough(t *testing.T) {
	inner := NewMemoryStore()
	store := NewInstrumented(inner)

	storeContract(t, store)

	inner.PutRaw("/bad", []byte{1})

	_, _, err := store.Get("/bad")
	require.ErrorIs(t, err, ErrCorruptRecord)
}
