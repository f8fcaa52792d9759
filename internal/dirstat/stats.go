package dirstat

import (
	"time"
)

// FileStat represents a single file or directory path and its size.
type FileStat struct {
	// Path is the file or directory path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size uint64 `json:"size"`
}

// Result is the aggregate of one directory level.
type Result struct {
	// Size is the cumulative size in bytes of all regular files below the directory.
	Size uint64
	// FileCount is the number of regular files below the directory.
	FileCount uint64
}

// Stats holds the report produced by Run.
type Stats struct {
	// Path is the analyzed root, as given.
	Path string `json:"path"`
	// Size is the cumulative size of all regular files.
	Size uint64 `json:"size"`
	// FileCount is the total number of regular files.
	FileCount uint64 `json:"files_count"`
	// TopFiles contains the largest files, largest first.
	TopFiles []FileStat `json:"biggest_files"`
	// TopDirs contains the largest subdirectories, largest first.
	TopDirs []FileStat `json:"biggest_dirs"`
	// FileResorts is the number of resorts the file retainer performed.
	FileResorts uint64 `json:"-"`
	// DirResorts is the number of resorts the directory retainer performed.
	DirResorts uint64 `json:"-"`
	// Elapsed is the total time taken for analysis.
	Elapsed time.Duration `json:"elapsed"`
}

// Options configures a Run.
type Options struct {
	// Path is the directory to analyze.
	Path string
	// TopFiles is the number of largest files to keep.
	TopFiles int
	// TopDirs is the number of largest directories to keep.
	TopDirs int
	// EntryErrors decides what happens when an entry cannot be stat'ed.
	// The zero value aborts the walk.
	EntryErrors EntryErrorPolicy
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
}

// Entry is one child of a Listing.
type Entry struct {
	// Path is the full path of the child.
	Path string `json:"path"`
	// Size is the size in bytes. It is nil for directories that were not sized.
	Size *uint64 `json:"size"`
}

// Listing is the one-level content of a directory.
type Listing struct {
	// Path is the listed directory.
	Path string `json:"path"`
	// Files contains the regular files, largest first.
	Files []Entry `json:"files"`
	// Directories contains the subdirectories, largest first when sized.
	Directories []Entry `json:"directories"`
	// TotalSize sums the file sizes and the resolved directory sizes.
	TotalSize uint64 `json:"total_size"`
}
