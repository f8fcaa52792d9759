package dirstat

import (
	"context"
	"errors"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/idelchi/diskusage/internal/logctx"
	"github.com/idelchi/diskusage/internal/sizecache"
)

// List returns the immediate children of the directory at path.
//
// Files carry their size. Directories carry a size only when includeDirSizes
// is set, in which case it is resolved through CachedSize and cache; otherwise
// nothing below path is read. Symlinks and special files are left out.
func List(
	ctx context.Context,
	fsys afero.Fs,
	path string,
	includeDirSizes bool,
	cache sizecache.Store,
) (*Listing, error) {
	if err := checkRoot(fsys, path); err != nil {
		return nil, err
	}

	log := logctx.FromContext(ctx)

	listing := &Listing{
		Path:        path,
		Files:       []Entry{},
		Directories: []Entry{},
	}

	names, err := readDirNames(fsys, path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("listing unreadable directory as empty")

		return listing, nil
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
			size := sizeOf(info)
			listing.TotalSize += size
			listing.Files = append(listing.Files, Entry{Path: subPath, Size: &size})
		case kindDir:
			entry := Entry{Path: subPath}

			if includeDirSizes {
				size, err := CachedSize(ctx, fsys, subPath, cache)
				if errors.Is(err, ErrRootUnreadable) {
					_ = entryError(ctx, SkipEntryError, subPath, err)

					continue
				}

				if err != nil {
					return nil, err
				}

				listing.TotalSize += size
				entry.Size = &size
			}

			listing.Directories = append(listing.Directories, entry)
		case kindOther:
		}
	}

	sortBySize(listing.Files)

	if includeDirSizes {
		sortBySize(listing.Directories)
	}

	return listing, nil
}

// sortBySize orders sized entries largest first.
func sortBySize(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return sizeOrZero(entries[i]) > sizeOrZero(entries[j])
	})
}

func sizeOrZero(e Entry) uint64 {
	if e.Size == nil {
		return 0
	}

	return *e.Size
}
