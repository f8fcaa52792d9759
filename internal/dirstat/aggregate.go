package dirstat

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/idelchi/diskusage/internal/logctx"
)

// EntryErrorPolicy decides what a walk does when an enumerated entry cannot be stat'ed.
type EntryErrorPolicy int

const (
	// AbortOnEntryError stops the whole walk and returns the error.
	AbortOnEntryError EntryErrorPolicy = iota
	// SkipEntryError logs the error and treats the entry as contributing nothing.
	SkipEntryError
)

// String implements fmt.Stringer.
func (p EntryErrorPolicy) String() string {
	switch p {
	case AbortOnEntryError:
		return "abort"
	case SkipEntryError:
		return "skip"
	default:
		return fmt.Sprintf("EntryErrorPolicy(%d)", int(p))
	}
}

// entryError applies policy to a failed stat of an enumerated entry.
// It returns nil when the entry should be skipped.
func entryError(ctx context.Context, policy EntryErrorPolicy, path string, err error) error {
	if policy == SkipEntryError {
		logctx.FromContext(ctx).Warn().Err(err).Str("path", path).Msg("skipping entry")

		return nil
	}

	return fmt.Errorf("%w %q: %w", ErrEntryMetadata, path, err)
}

// progress holds running totals read by the progress reporter.
type progress struct {
	files atomic.Int64
	bytes atomic.Int64
}

// walker computes directory totals and feeds the largest entries to two TopN retainers.
type walker struct {
	fsys     afero.Fs
	files    *TopN
	dirs     *TopN
	policy   EntryErrorPolicy
	progress *progress
}

// Aggregate computes the total size and file count below path.
//
// Every regular file is offered to files and every subdirectory, with its
// recursive size, to dirs. Symlinks and other special entries are neither
// counted nor followed. A directory that cannot be enumerated counts as empty,
// while an entry that was enumerated but cannot be stat'ed aborts the walk.
func Aggregate(ctx context.Context, fsys afero.Fs, path string, files, dirs *TopN) (Result, error) {
	return AggregateWithPolicy(ctx, fsys, path, files, dirs, AbortOnEntryError)
}

// AggregateWithPolicy is Aggregate with an explicit policy for entries that cannot be stat'ed.
func AggregateWithPolicy(
	ctx context.Context,
	fsys afero.Fs,
	path string,
	files, dirs *TopN,
	policy EntryErrorPolicy,
) (Result, error) {
	w := walker{
		fsys:   fsys,
		files:  files,
		dirs:   dirs,
		policy: policy,
	}

	return w.walk(ctx, path)
}

func (w *walker) walk(ctx context.Context, path string) (Result, error) {
	var result Result

	names, err := readDirNames(w.fsys, path)
	if err != nil {
		logctx.FromContext(ctx).Debug().Err(err).Str("path", path).Msg("skipping unreadable directory")

		return result, nil
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		subPath := filepath.Join(path, name)

		info, err := lstat(w.fsys, subPath)
		if err != nil {
			if err := entryError(ctx, w.policy, subPath, err); err != nil {
				return Result{}, err
			}

			continue
		}

		switch classify(info) {
		case kindFile:
			size := sizeOf(info)
			result.Size += size
			result.FileCount++

			if w.progress != nil {
				w.progress.files.Add(1)
				w.progress.bytes.Add(info.Size())
			}

			if w.files.Admits(size) {
				w.files.Insert(FileStat{Path: subPath, Size: size})
			}
		case kindDir:
			sub, err := w.walk(ctx, subPath)
			if err != nil {
				return Result{}, err
			}

			result.Size += sub.Size
			result.FileCount += sub.FileCount

			if w.dirs.Admits(sub.Size) {
				w.dirs.Insert(FileStat{Path: subPath, Size: sub.Size})
			}
		case kindOther:
		}
	}

	return result, nil
}
