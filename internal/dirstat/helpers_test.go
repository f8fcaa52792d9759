package dirstat_test

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// probeFs wraps an afero.Fs, counts directory opens and lstat calls, and
// injects errors for chosen paths.
type probeFs struct {
	afero.Fs

	mu      sync.Mutex
	opens   map[string]int
	lstats  map[string]int
	openErr map[string]error
	statErr map[string]error
}

func newProbeFs(base afero.Fs) *probeFs {
	return &probeFs{
		Fs:      base,
		opens:   make(map[string]int),
		lstats:  make(map[string]int),
		openErr: make(map[string]error),
		statErr: make(map[string]error),
	}
}

func (p *probeFs) Open(name string) (afero.File, error) {
	name = filepath.Clean(name)

	p.mu.Lock()
	p.opens[name]++
	err := p.openErr[name]
	p.mu.Unlock()

	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	return p.Fs.Open(name)
}

func (p *probeFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	name = filepath.Clean(name)

	p.mu.Lock()
	p.lstats[name]++
	err := p.statErr[name]
	p.mu.Unlock()

	if err != nil {
		return nil, true, &os.PathError{Op: "lstat", Path: name, Err: err}
	}

	if lstater, ok := p.Fs.(afero.Lstater); ok {
		return lstater.LstatIfPossible(name)
	}

	info, err := p.Fs.Stat(name)

	return info, false, err
}

func (p *probeFs) openCount(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.opens[filepath.Clean(name)]
}

func (p *probeFs) lstatPaths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	paths := make([]string, 0, len(p.lstats))
	for path := range p.lstats {
		paths = append(paths, path)
	}

	return paths
}

// writeFile creates path with size bytes, creating parents as needed.
func writeFile(t *testing.T, fsys afero.Fs, path string, size int) {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, bytes.Repeat([]byte("x"), size), 0o644))
}

// touch sets the modification time of path.
func touch(t *testing.T, fsys afero.Fs, path string, mtime time.Time) {
	t.Helper()

	require.NoError(t, fsys.Chtimes(path, mtime, mtime))
}
