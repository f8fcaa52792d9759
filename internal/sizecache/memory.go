package sizecache

import "sync"

// MemoryStore is a Store kept in process memory.
// It holds encoded records so that it behaves like the persistent store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (Record, bool, error) {
	m.mu.RLock()
	raw, ok := m.records[key]
	m.mu.RUnlock()

	if !ok {
		return Record{}, false, nil
	}

	record, err := decodeRecord(raw)
	if err != nil {
		return Record{}, false, err
	}

	return record, true, nil
}

// Put implements Store.
func (m *MemoryStore) Put(key string, record Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = encodeRecord(record)

	return nil
}

// PutRaw stores an undecoded value under key.
func (m *MemoryStore) PutRaw(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = raw
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
