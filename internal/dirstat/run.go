package dirstat

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/idelchi/diskusage/internal/logctx"
)

const (
	// DefaultProgressInterval is the default interval for progress updates.
	DefaultProgressInterval = 500 * time.Millisecond
	// DefaultTopN is the number of files and directories kept when Options leaves it unset.
	DefaultTopN = 10
)

// checkRoot validates that path exists and is a directory. The root itself
// may be a symlink to a directory.
func checkRoot(fsys afero.Fs, path string) error {
	info, err := fsys.Stat(path)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrRootUnreadable, path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %q", ErrNotDirectory, path)
	}

	return nil
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, p *progress, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(p.files.Load(), p.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Run aggregates the directory tree at opt.Path and reports its size, file
// count and largest files and subdirectories.
//
// A zero TopFiles or TopDirs falls back to DefaultTopN; a negative one is
// rejected with ErrZeroCapacity. Progress updates are sent to progressHook if
// provided.
func Run(ctx context.Context, fsys afero.Fs, opt Options, progressHook func(int64, int64)) (*Stats, error) {
	if opt.Path == "" {
		opt.Path = "."
	}

	if opt.TopFiles == 0 {
		opt.TopFiles = DefaultTopN
	}

	if opt.TopDirs == 0 {
		opt.TopDirs = DefaultTopN
	}

	files, err := NewTopN(opt.TopFiles)
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}

	dirs, err := NewTopN(opt.TopDirs)
	if err != nil {
		return nil, fmt.Errorf("directories: %w", err)
	}

	root := filepath.Clean(opt.Path)
	if err := checkRoot(fsys, root); err != nil {
		return nil, err
	}

	w := walker{
		fsys:     fsys,
		files:    files,
		dirs:     dirs,
		policy:   opt.EntryErrors,
		progress: &progress{},
	}

	// Child context stops the progress reporter.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, w.progress, progressHook, opt.ProgressInterval)

	start := time.Now()

	result, err := w.walk(ctx, root)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Path:        opt.Path,
		Size:        result.Size,
		FileCount:   result.FileCount,
		TopFiles:    files.Sorted(),
		TopDirs:     dirs.Sorted(),
		FileResorts: files.Resorts(),
		DirResorts:  dirs.Resorts(),
		Elapsed:     time.Since(start),
	}

	logctx.FromContext(ctx).Debug().
		Str("path", root).
		Uint64("file_resorts", stats.FileResorts).
		Uint64("dir_resorts", stats.DirResorts).
		Dur("elapsed", stats.Elapsed).
		Msg("aggregation finished")

	return stats, nil
}
