package dirstat

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/spf13/afero"

	"github.com/idelchi/diskusage/internal/logctx"
)

// ExtStat represents statistics for a file extension.
type ExtStat struct {
	// Ext is the extension including the leading dot, or "" for none.
	Ext string `json:"ext"`
	// Count is the number of files with this extension.
	Count uint64 `json:"count"`
	// Size is the cumulative size in bytes.
	Size uint64 `json:"size"`
}

// ExtOptions configures Extensions.
type ExtOptions struct {
	// Path is the directory to analyze.
	Path string
	// Excludes contains regex patterns matched against slash-separated paths.
	Excludes []string
	// MinSize is the minimum file size in bytes.
	MinSize uint64
	// TopN is the number of extensions to report.
	TopN int
}

// ExtReport is the result of Extensions.
type ExtReport struct {
	// Path is the analyzed root.
	Path string `json:"path"`
	// Extensions contains the largest extensions by cumulative size, largest first.
	Extensions []ExtStat `json:"extensions"`
	// FileCount is the number of regular files counted.
	FileCount uint64 `json:"files_count"`
	// TotalBytes is the cumulative size of all counted files.
	TotalBytes uint64 `json:"total_bytes"`
	// ErrorCount is the number of entries that could not be read.
	ErrorCount uint64 `json:"error_count"`
	// Elapsed is the total time taken for analysis.
	Elapsed time.Duration `json:"elapsed"`
}

// extCollector aggregates statistics from concurrent fastwalk callbacks using a mutex.
type extCollector struct {
	mu         sync.Mutex
	exts       map[string]*ExtStat
	fileCount  uint64
	totalBytes uint64
	errorCount uint64
}

func (c *extCollector) addError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorCount++
}

func (c *extCollector) add(ext string, size uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stat, ok := c.exts[ext]
	if !ok {
		stat = &ExtStat{Ext: ext}
		c.exts[ext] = stat
	}

	stat.Count++
	stat.Size += size
	c.fileCount++
	c.totalBytes += size
}

// shouldExclude returns the first pattern matching path, if any.
func shouldExclude(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// Extensions walks the tree at opt.Path in parallel and breaks the regular
// files down by extension. Symlinks are not followed. Unreadable entries are
// counted in ErrorCount and otherwise ignored.
func Extensions(ctx context.Context, opt ExtOptions) (*ExtReport, error) {
	if opt.Path == "" {
		opt.Path = "."
	}

	if opt.TopN == 0 {
		opt.TopN = DefaultTopN
	}

	top, err := NewTopN(opt.TopN)
	if err != nil {
		return nil, err
	}

	root := filepath.Clean(opt.Path)
	if err := checkRoot(osFs, root); err != nil {
		return nil, err
	}

	excludes := make([]*regexp.Regexp, 0, len(opt.Excludes))

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludes = append(excludes, re)
	}

	log := logctx.FromContext(ctx)
	collector := &extCollector{exts: make(map[string]*ExtStat)}
	start := time.Now()

	conf := &fastwalk.Config{
		Follow: false,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("error accessing path")
			collector.addError()

			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if re := shouldExclude(path, excludes); re != nil {
			log.Debug().Str("path", filepath.ToSlash(path)).Str("regex", re.String()).Msg("excluding")

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			collector.addError()

			return nil //nolint:nilerr // Unreadable entries are counted, not fatal
		}

		size := sizeOf(info)
		if size < opt.MinSize {
			return nil
		}

		collector.add(strings.ToLower(filepath.Ext(path)), size)

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// Keys are inserted in sorted order so ties resolve the same way on every run.
	keys := make([]string, 0, len(collector.exts))
	for ext := range collector.exts {
		keys = append(keys, ext)
	}

	sort.Strings(keys)

	for _, ext := range keys {
		if stat := collector.exts[ext]; top.Admits(stat.Size) {
			top.Insert(FileStat{Path: ext, Size: stat.Size})
		}
	}

	report := &ExtReport{
		Path:       opt.Path,
		Extensions: make([]ExtStat, 0, top.Len()),
		FileCount:  collector.fileCount,
		TotalBytes: collector.totalBytes,
		ErrorCount: collector.errorCount,
		Elapsed:    time.Since(start),
	}

	for _, entry := range top.Sorted() {
		report.Extensions = append(report.Extensions, *collector.exts[entry.Path])
	}

	return report, nil
}

// osFs validates roots for walks that go straight to the operating system.
//
//nolint:gochecknoglobals // Stateless
var osFs = afero.NewOsFs()
