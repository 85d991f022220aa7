package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSmallFilesBucket(t *testing.T) {
	n := NewSmallFilesBucket(3, 600, 2)
	assert.Equal(t, "3 small files", n.Name)
	assert.Equal(t, uint64(600), n.Size)
	assert.Equal(t, KindSmallFiles, n.Tag())
	assert.False(t, n.IsDir())
	assert.Equal(t, SmallFilesBucket{Count: 3}, n.Kind)
}

func TestPushDoesNotChangeSize(t *testing.T) {
	dir := NewDirectory("d", 0)
	require.NoError(t, dir.Push(NewFile("f", 10, 0)))
	assert.Len(t, dir.Children(), 1)
	assert.Zero(t, dir.Size)

	assert.Equal(t, uint64(10), dir.SumChildren())
	assert.Equal(t, uint64(10), dir.Size)
}

func TestPushIntoLeaf(t *testing.T) {
	leaf := NewFile("f", 10, 0)
	err := leaf.Push(NewFile("g", 1, 0))
	assert.ErrorIs(t, err, ErrNotDirectory)
	assert.Nil(t, leaf.Children())
}

func TestTakeChildSwapsLast(t *testing.T) {
	dir := NewDirectory("d", 0)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, dir.Push(NewFile(name, 1, 0)))
	}

	taken, err := dir.TakeChild(0)
	require.NoError(t, err)
	assert.Equal(t, "a", taken.Name)

	names := []string{}
	for _, c := range dir.Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"c", "b"}, names)

	_, err = dir.TakeChild(2)
	assert.Error(t, err)
	_, err = dir.TakeChild(-1)
	assert.Error(t, err)
}

func TestSumChildrenLeafKeepsSize(t *testing.T) {
	f := NewFile("f", 42, 0)
	assert.Equal(t, uint64(42), f.SumChildren())
}

func TestCountNodes(t *testing.T) {
	root := NewDirectory("root", 0)
	sub := NewDirectory("sub", 0)
	require.NoError(t, sub.Push(NewFile("x", 1, 0)))
	require.NoError(t, root.Push(sub))
	require.NoError(t, root.Push(NewSmallFilesBucket(2, 5, 0)))

	assert.Equal(t, 4, CountNodes(root))
	assert.Zero(t, CountNodes(nil))
}

func TestColorAtWraps(t *testing.T) {
	n := uint64(len(Palette))
	assert.Equal(t, ColorAt(1), ColorAt(n+1))
	assert.Equal(t, Palette[0], ColorAt(n).Hex())
}

func TestScanResultAdd(t *testing.T) {
	var r ScanResult
	r.AddFile(10)
	r.AddFile(5)
	sum := r.Add(ScanResult{FileCount: 1, Size: 1})

	assert.Equal(t, ScanResult{FileCount: 2, Size: 15}, r)
	assert.Equal(t, ScanResult{FileCount: 3, Size: 16}, sum)
}
