package dirstat_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/diskusage/internal/dirstat"
)

func TestExtensions_GroupsBySuffix(t *testing.T) {
	root := t.TempDir()

	files := map[string]int{
		"main.go":             300,
		"pkg/util.go":         200,
		"README.md":           100,
		"pkg/NOTES.MD":        50,
		"Makefile":            10,
		".git/objects/blob":   5000,
		"node_modules/x/y.js": 4000,
	}

	for name, size := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	}

	report, err := dirstat.Extensions(context.Background(), dirstat.ExtOptions{
		Path:     root,
		Excludes: []string{`.*\.git/.*`, `.*node_modules/.*`},
		TopN:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(5), report.FileCount)
	assert.Equal(t, uint64(660), report.TotalBytes)
	assert.Equal(t, []dirstat.ExtStat{
		{Ext: ".go", Count: 2, Size: 500},
		{Ext: ".md", Count: 2, Size: 150},
	}, report.Extensions)
}

func TestExtensions_MinSizeAndBadPattern(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.log"), make([]byte, 2048), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tiny.log"), make([]byte, 8), 0o644))

	report, err := dirstat.Extensions(context.Background(), dirstat.ExtOptions{Path: root, MinSize: 1024})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), report.FileCount)

	_, err = dirstat.Extensions(context.Background(), dirstat.ExtOptions{Path: root, Excludes: []string{"("}})
	require.Error(t, err)
}
