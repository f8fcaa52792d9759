package sizecache

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	recordVersion = 1
	recordLen     = 1 + 8 + 8
)

// encodeRecord serializes a record as version, size and modification time in nanoseconds.
func encodeRecord(r Record) []byte {
	buf := make([]byte, recordLen)
	buf[0] = recordVersion
	binary.BigEndian.PutUint64(buf[1:9], r.Size)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.LastModified.UnixNano())) //nolint:gosec // Round-tripped in decodeRecord

	return buf
}

// decodeRecord is the inverse of encodeRecord.
func decodeRecord(buf []byte) (Record, error) {
	if len(buf) != recordLen {
		return Record{}, fmt.Errorf("%w: length %d, want %d", ErrCorruptRecord, len(buf), recordLen)
	}

	if buf[0] != recordVersion {
		return Record{}, fmt.Errorf("%w: unknown version %d", ErrCorruptRecord, buf[0])
	}

	return Record{
		Size:         binary.BigEndian.Uint64(buf[1:9]),
		LastModified: time.Unix(0, int64(binary.BigEndian.Uint64(buf[9:17]))), //nolint:gosec // See encodeRecord
	}, nil
}
