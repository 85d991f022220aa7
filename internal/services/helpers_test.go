package services

import (
	"os"
	"sync/atomic"
	"testing"

	"diskmosaic/internal/models"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// newMemTree builds an in-memory filesystem. Entries with a negative size
// are directories; the others are files of that many bytes.
func newMemTree(t *testing.T, entries map[string]int) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for path, size := range entries {
		if size < 0 {
			require.NoError(t, fs.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, util.WriteFile(fs, path, make([]byte, size), 0o644))
	}
	return fs
}

// childByName returns the direct child of n called name, or nil.
func childByName(n *models.Node, name string) *models.Node {
	for _, c := range n.Children() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// assertSizesConsistent checks that every directory's size equals the sum
// of its children, all the way down.
func assertSizesConsistent(t *testing.T, n *models.Node) {
	t.Helper()
	if !n.IsDir() {
		return
	}
	var sum uint64
	for _, c := range n.Children() {
		sum += c.Size
		assertSizesConsistent(t, c)
	}
	require.Equal(t, sum, n.Size, "size of %q", n.Name)
}

// faultFS wraps a filesystem, failing ReadDir on chosen paths and counting
// Lstat calls.
type faultFS struct {
	billy.Filesystem
	denied map[string]error
	lstats atomic.Int64
}

func (f *faultFS) ReadDir(path string) ([]os.FileInfo, error) {
	if err, ok := f.denied[path]; ok {
		return nil, err
	}
	return f.Filesystem.ReadDir(path)
}

func (f *faultFS) Lstat(path string) (os.FileInfo, error) {
	f.lstats.Add(1)
	return f.Filesystem.Lstat(path)
}
