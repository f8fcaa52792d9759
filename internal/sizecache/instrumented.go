package sizecache

import (
	"errors"

	"github.com/idelchi/diskusage/internal/metrics"
)

// Instrumented wraps a Store and records lookup and write outcomes as metrics.
type Instrumented struct {
	Store
}

// NewInstrumented wraps store.
func NewInstrumented(store Store) *Instrumented {
	return &Instrumented{Store: store}
}

// Get implements Store.
func (i *Instrumented) Get(key string) (Record, bool, error) {
	record, ok, err := i.Store.Get(key)

	switch {
	case errors.Is(err, ErrCorruptRecord):
		metrics.RecordCacheLookup("corrupt")
	case err != nil:
		metrics.RecordCacheLookup("error")
	case ok:
		metrics.RecordCacheLookup("hit")
	default:
		metrics.RecordCacheLookup("miss")
	}

	return record, ok, err
}

// Put implements Store.
func (i *Instrumented) Put(key string, record Record) error {
	err := i.Store.Put(key, record)
	metrics.RecordCacheWrite(err == nil)

	return err
}
