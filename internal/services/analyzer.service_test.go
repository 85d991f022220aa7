package services

import (
	"context"
	"testing"
	"time"

	"diskmosaic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runToFinish ticks a until the Finished message has been applied.
func runToFinish(t *testing.T, a *Analyzer) {
	t.Helper()
	require.Eventually(t, a.Tick, 5*time.Second, 5*time.Millisecond)
}

func TestAnalyzerAggregationIsOrderIndependent(t *testing.T) {
	msgs := []models.Message{
		models.DirectoryScanStartMessage{Path: "/data"},
		models.DirectoryScanStartMessage{Path: "/data/a"},
		models.DirectoryScanDoneMessage{Result: models.ScanResult{FileCount: 3, Size: 300}},
		models.DirectoryScanStartMessage{Path: "/data/b"},
		models.DirectoryScanDoneMessage{Result: models.ScanResult{FileCount: 1, Size: 5}},
		models.DirectoryScanDoneMessage{Result: models.ScanResult{FileCount: 2, Size: 20}},
	}

	forward := newAnalyzer("/data", nil)
	backward := newAnalyzer("/data", nil)
	for i := range msgs {
		forward.apply(msgs[i])
		backward.apply(msgs[len(msgs)-1-i])
	}

	f, b := forward.Status(), backward.Status()
	assert.Equal(t, uint64(3), f.Directories)
	assert.Equal(t, f.Directories, b.Directories)
	assert.Equal(t, f.Files, b.Files)
	assert.Equal(t, f.Bytes, b.Bytes)
	assert.Equal(t, uint64(6), f.Files)
	assert.Equal(t, uint64(325), f.Bytes)
	assert.Equal(t, "Directories: 3, Files: 6, Volume 325 B", f.StatusLine)
}

func TestAnalyzerSkipsEmptyData(t *testing.T) {
	a := newAnalyzer("/data", nil)

	a.apply(models.DataMessage{Node: models.NewDirectory("data", 0)})
	a.apply(models.DataMessage{})

	assert.Empty(t, a.View().Children)
	assert.False(t, a.TakeDirty())
}

func TestAnalyzerScansAndBrowses(t *testing.T) {
	fs := newMemTree(t, map[string]int{
		"/data/big.bin":      40,
		"/data/s1.txt":       2,
		"/data/s2.txt":       3,
		"/data/sub/more.bin": 25,
	})

	a := NewAnalyzer("/data", AnalyzerOptions{Filesystem: fs, SmallFileThreshold: 10, Workers: 4})
	t.Cleanup(a.Close)
	runToFinish(t, a)

	require.NoError(t, a.Wait(context.Background()))
	assert.False(t, a.Running())

	st := a.Status()
	assert.True(t, st.Finished)
	assert.Equal(t, uint64(2), st.Directories)
	assert.Equal(t, uint64(4), st.Files)
	assert.Equal(t, uint64(70), st.Bytes)

	// The root arrives as one subtree under its parent directory.
	view := a.View()
	assert.Equal(t, "/", view.FullPath)
	require.Len(t, view.Children, 1)
	assert.Equal(t, "data", view.Children[0].Name)
	assert.Equal(t, uint64(70), view.SizeBytes)
	assert.True(t, a.TakeDirty())

	require.NoError(t, a.ZoomIn(0))
	view = a.View()
	assert.Equal(t, "/data", view.FullPath)
	assert.Equal(t, []string{"/", "data"}, view.Path)
	assert.Len(t, view.Children, 3)

	var bucket *models.ChildView
	for i := range view.Children {
		if view.Children[i].Kind == models.KindSmallFiles {
			bucket = &view.Children[i]
		}
	}
	require.NotNil(t, bucket)
	assert.Equal(t, uint64(2), bucket.Count)
	assert.Equal(t, "5 B", bucket.Size)

	a.ZoomOut()
	assert.Equal(t, 0, a.View().Depth)
}

func TestAnalyzerStopKeepsPartialTree(t *testing.T) {
	fs := newMemTree(t, map[string]int{"/data/a/x.bin": 20})

	a := NewAnalyzer("/data", AnalyzerOptions{Filesystem: fs, SmallFileThreshold: 10})
	t.Cleanup(a.Close)
	a.Stop()
	runToFinish(t, a)

	summary := a.Summary()
	assert.True(t, summary.Stopped)
	assert.Equal(t, "/data", summary.Root)
	assert.NotEmpty(t, summary.ID)
}

func TestAnalyzerSetBounds(t *testing.T) {
	fs := newMemTree(t, map[string]int{"/data/a.bin": 20})
	a := NewAnalyzer("/data", AnalyzerOptions{Filesystem: fs, SmallFileThreshold: 10})
	t.Cleanup(a.Close)
	runToFinish(t, a)

	b := models.Bounds{X: 1, Y: 2, W: 3, H: 4}
	require.NoError(t, a.SetBounds(map[int]models.Bounds{0: b}))
	assert.Equal(t, b, a.View().Children[0].Bounds)

	assert.ErrorIs(t, a.SetBounds(map[int]models.Bounds{5: b}), ErrIndexOutOfRange)
}

func TestAnalyzerSetBoundsRejectsWholeRequest(t *testing.T) {
	fs := newMemTree(t, map[string]int{"/data/a.bin": 20})
	a := NewAnalyzer("/data", AnalyzerOptions{Filesystem: fs, SmallFileThreshold: 10})
	t.Cleanup(a.Close)
	runToFinish(t, a)

	before := a.View()
	b := models.Bounds{X: 1, Y: 2, W: 3, H: 4}
	for i := 0; i < 20; i++ {
		err := a.SetBounds(map[int]models.Bounds{0: b, 9: b})
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	assert.Equal(t, before.Children, a.View().Children)
}

func TestAnalyzerWaitHonoursContext(t *testing.T) {
	a := newAnalyzer("/data", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.Wait(ctx), context.Canceled)
	assert.True(t, a.Running())
}
