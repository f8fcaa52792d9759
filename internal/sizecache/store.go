package sizecache

import (
	"errors"
	"time"
)

// ErrCorruptRecord is returned when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt size cache record")

// Record is the cached size of a directory.
type Record struct {
	// Size is the aggregate size in bytes.
	Size uint64
	// LastModified is the directory's modification time when Size was computed.
	LastModified time.Time
}

// FreshFor reports whether the record can stand in for a directory last modified at mtime.
func (r Record) FreshFor(mtime time.Time) bool {
	return !r.LastModified.Before(mtime)
}

// Store maps canonical directory paths to records.
//
// Implementations must be safe for concurrent use. Get reports ok == false for
// a missing key, and an error wrapping ErrCorruptRecord for a record that
// exists but cannot be decoded.
type Store interface {
	Get(key string) (Record, bool, error)
	Put(key string, record Record) error
	Close() error
}
