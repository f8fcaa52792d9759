package dirstat

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// entryKind classifies an entry using link-aware metadata.
type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
)

// classify reports what an entry is without following symlinks.
func classify(info os.FileInfo) entryKind {
	switch mode := info.Mode(); {
	case mode.IsRegular():
		return kindFile
	case mode.IsDir():
		return kindDir
	default:
		return kindOther
	}
}

// lstat returns the metadata of path itself, not of a symlink target.
// Filesystems without Lstat support fall back to Stat.
func lstat(fsys afero.Fs, path string) (os.FileInfo, error) {
	if lstater, ok := fsys.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)

		return info, err
	}

	return fsys.Stat(path)
}

// readDirNames lists the entry names of a directory.
func readDirNames(fsys afero.Fs, path string) ([]string, error) {
	dir, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	return dir.Readdirnames(-1)
}

// sizeOf returns the size of an entry as an unsigned byte count.
func sizeOf(info os.FileInfo) uint64 {
	if info.Size() < 0 {
		return 0
	}

	return uint64(info.Size())
}

// canonical returns the absolute, cleaned form of path.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}
