package dirstat

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/idelchi/diskusage/internal/logctx"
	"github.com/idelchi/diskusage/internal/sizecache"
)

// CachedSize returns the aggregate size of the directory at path, reusing
// the cached size whenever the directory has not been modified since it was
// computed.
//
// Staleness is judged by the directory's own modification time only. This
// relies on the filesystem bumping a parent's mtime when a child changes,
// which not every network filesystem does.
//
// On a miss the directory is enumerated, subdirectories are sized through
// CachedSize themselves, and the result is stored with the modification time
// read before enumeration. Entries that cannot be stat'ed are logged and
// skipped; only a failure to stat path itself or a cache failure is returned.
// Concurrent callers may recompute the same directory, last write wins.
func CachedSize(ctx context.Context, fsys afero.Fs, path string, cache sizecache.Store) (uint64, error) {
	key, err := canonical(path)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrRootUnreadable, path, err)
	}

	info, err := lstat(fsys, path)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrRootUnreadable, path, err)
	}

	mtime := info.ModTime()
	log := logctx.FromContext(ctx)

	record, ok, err := cache.Get(key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("size cache lookup failed")

		return 0, err
	}

	if ok && record.FreshFor(mtime) {
		return record.Size, nil
	}

	var size uint64

	names, err := readDirNames(fsys, path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("skipping unreadable directory")
	}

	for _, name := range names {
		subPath := filepath.Join(path, name)

		info, err := lstat(fsys, subPath)
		if err != nil {
			_ = entryError(ctx, SkipEntryError, subPath, err)

			continue
		}

		switch classify(info) {
		case kindFile:
			size += sizeOf(info)
		case kindDir:
			sub, err := CachedSize(ctx, fsys, subPath, cache)
			if errors.Is(err, ErrRootUnreadable) {
				_ = entryError(ctx, SkipEntryError, subPath, err)

				continue
			}

			if err != nil {
				return 0, err
			}

			size += sub
		case kindOther:
		}
	}

	if err := cache.Put(key, sizecache.Record{Size: size, LastModified: mtime}); err != nil {
		log.Error().Err(err).Str("key", key).Msg("size cache write failed")

		return 0, err
	}

	log.Debug().Str("path", key).Uint64("size", size).Msg("directory size recomputed")

	return size, nil
}
